package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// OpenDailyFile opens (appending) dir/<prefix>-YYYY-MM-DD.log, creating dir if needed.
func OpenDailyFile(dir, prefix string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := filepath.Join(dir, fmt.Sprintf("%s-%s.log", prefix, now.Format("2006-01-02")))
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// DailyFile is an io.Writer over dated log files that switches to a new
// file on the first write of each local day.
type DailyFile struct {
	mu     sync.Mutex
	dir    string
	prefix string
	now    func() time.Time
	day    string
	f      *os.File
}

// NewDailyFile opens today's file right away so that a bad directory is
// reported at startup.
func NewDailyFile(dir, prefix string) (*DailyFile, error) {
	d := &DailyFile{dir: dir, prefix: prefix, now: time.Now}
	if err := d.rotate(d.now()); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DailyFile) rotate(now time.Time) error {
	f, err := OpenDailyFile(d.dir, d.prefix, now)
	if err != nil {
		return err
	}
	if d.f != nil {
		d.f.Close()
	}
	d.f = f
	d.day = now.Format("2006-01-02")
	return nil
}

// Write appends p to the current day's file, rolling over first if the
// date changed. If the new file cannot be opened the old one keeps
// receiving lines.
func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	if d.f == nil || now.Format("2006-01-02") != d.day {
		if err := d.rotate(now); err != nil && d.f == nil {
			return 0, err
		}
	}
	return d.f.Write(p)
}

// Name returns the path of the file currently written to.
func (d *DailyFile) Name() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.f.Name()
}

// Close closes the current file.
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}
