package db

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"falcon-odds/internal/logger"
)

const (
	driverSQLite   = "sqlite"
	driverPostgres = "pgx"
)

// DB wraps a connection to the route database.
type DB struct {
	sql    *sql.DB
	driver string
}

// driverFor maps a routes_db locator to a database/sql driver and DSN.
// postgres:// URLs go to pgx, anything else is a SQLite file.
func driverFor(locator string, writable bool) (driver, dsn string) {
	lower := strings.ToLower(locator)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") {
		return driverPostgres, locator
	}
	if locator == ":memory:" {
		return driverSQLite, locator
	}
	mode := "ro"
	if writable {
		mode = "rwc"
	}
	return driverSQLite, "file:" + locator + "?mode=" + mode + "&_pragma=busy_timeout(5000)"
}

// Open connects to the route database read-only.
func Open(locator string) (*DB, error) {
	return open(locator, false)
}

// Create opens (or creates) a SQLite route database for writing and makes
// sure the routes table exists.
func Create(path string) (*DB, error) {
	d, err := open(path, true)
	if err != nil {
		return nil, err
	}
	if err := d.CreateSchema(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func open(locator string, writable bool) (*DB, error) {
	if strings.TrimSpace(locator) == "" {
		return nil, fmt.Errorf("open db: empty locator")
	}
	driver, dsn := driverFor(locator, writable)
	sqlDB, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if driver == driverSQLite {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping db %s: %w", redact(locator), err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", redact(locator)))
	return &DB{sql: sqlDB, driver: driver}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

// CreateSchema creates the routes table if it does not exist.
func (d *DB) CreateSchema() error {
	_, err := d.sql.Exec(`
		CREATE TABLE IF NOT EXISTS routes (
			origin      TEXT,
			destination TEXT,
			travel_time INTEGER
		)`)
	if err != nil {
		return fmt.Errorf("create routes table: %w", err)
	}
	return nil
}

// InsertRoute stores one route row. Values are written as given so that
// invalid rows can be produced for tests.
func (d *DB) InsertRoute(origin, destination, travelTime interface{}) error {
	q := "INSERT INTO routes (origin, destination, travel_time) VALUES (?, ?, ?)"
	if d.driver == driverPostgres {
		q = "INSERT INTO routes (origin, destination, travel_time) VALUES ($1, $2, $3)"
	}
	if _, err := d.sql.Exec(q, origin, destination, travelTime); err != nil {
		return fmt.Errorf("insert route: %w", err)
	}
	return nil
}

// redact hides the password of a URL locator.
func redact(locator string) string {
	at := strings.LastIndex(locator, "@")
	scheme := strings.Index(locator, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return locator
	}
	creds := locator[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		return locator[:scheme+3] + creds[:colon] + ":***" + locator[at:]
	}
	return locator
}
