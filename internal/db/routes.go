package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"falcon-odds/internal/graph"
	"falcon-odds/internal/logger"
)

// Route is one validated row of the routes table.
type Route struct {
	Origin      string
	Destination string
	TravelTime  uint64
}

// routeRow is a raw row; every column is nullable in the source database.
type routeRow struct {
	Origin      sql.NullString
	Destination sql.NullString
	TravelTime  sql.NullInt64
}

func (r routeRow) toRoute() (Route, error) {
	switch {
	case !r.Origin.Valid:
		return Route{}, errors.New("origin can't be NULL")
	case !r.Destination.Valid:
		return Route{}, errors.New("destination can't be NULL")
	case !r.TravelTime.Valid:
		return Route{}, errors.New("travel_time can't be NULL")
	case r.TravelTime.Int64 < 1:
		return Route{}, fmt.Errorf("travel_time must be >= 1, got %d", r.TravelTime.Int64)
	case r.Origin.String == "":
		return Route{}, errors.New("origin can't be empty")
	case r.Destination.String == "":
		return Route{}, errors.New("destination can't be empty")
	}
	return Route{
		Origin:      r.Origin.String,
		Destination: r.Destination.String,
		TravelTime:  uint64(r.TravelTime.Int64),
	}, nil
}

// LoadRoutes reads every route. Invalid rows are logged and skipped.
func (d *DB) LoadRoutes(ctx context.Context) ([]Route, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT origin, destination, travel_time FROM routes")
	if err != nil {
		return nil, fmt.Errorf("query routes: %w", err)
	}
	defer rows.Close()

	var routes []Route
	n := 0
	for rows.Next() {
		n++
		var raw routeRow
		if err := rows.Scan(&raw.Origin, &raw.Destination, &raw.TravelTime); err != nil {
			logger.Warn("DB", fmt.Sprintf("Skipping route row %d: %v", n, err))
			continue
		}
		r, err := raw.toRoute()
		if err != nil {
			logger.Warn("DB", fmt.Sprintf("Skipping route row %d: %v", n, err))
			continue
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read routes: %w", err)
	}
	logger.Info("DB", fmt.Sprintf("Loaded %d routes (%d rows skipped)", len(routes), n-len(routes)))
	return routes, nil
}

// BuildGraph registers every planet named in routes, in order of first
// appearance, and adds each route in both directions.
func BuildGraph(routes []Route) (*graph.Routes, *graph.Registry) {
	g := graph.NewRoutes()
	reg := graph.NewRegistry()
	for _, r := range routes {
		origin := reg.GetOrInsert(r.Origin)
		destination := reg.GetOrInsert(r.Destination)
		g.AddRoute(origin, destination, r.TravelTime)
	}
	return g, reg
}

// ExampleRoutes is the sample universe shipped with the project.
var ExampleRoutes = []Route{
	{Origin: "Tatooine", Destination: "Dagobah", TravelTime: 6},
	{Origin: "Dagobah", Destination: "Endor", TravelTime: 4},
	{Origin: "Dagobah", Destination: "Hoth", TravelTime: 1},
	{Origin: "Hoth", Destination: "Endor", TravelTime: 1},
	{Origin: "Tatooine", Destination: "Hoth", TravelTime: 6},
}

// Seed writes routes into a SQLite file, creating it if needed.
func Seed(path string, routes []Route) error {
	d, err := Create(path)
	if err != nil {
		return err
	}
	defer d.Close()
	for _, r := range routes {
		if err := d.InsertRoute(r.Origin, r.Destination, int64(r.TravelTime)); err != nil {
			return err
		}
	}
	logger.Success("DB", fmt.Sprintf("Seeded %d routes into %s", len(routes), path))
	return nil
}
