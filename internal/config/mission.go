package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Mission describes the ship and the route database (millennium-falcon.json).
type Mission struct {
	Autonomy  uint64 `json:"autonomy" yaml:"autonomy"`
	Departure string `json:"departure" yaml:"departure"`
	Arrival   string `json:"arrival" yaml:"arrival"`
	RoutesDB  string `json:"routes_db" yaml:"routes_db"`
}

type missionDoc struct {
	Autonomy  *uint64 `json:"autonomy" yaml:"autonomy"`
	Departure string  `json:"departure" yaml:"departure"`
	Arrival   string  `json:"arrival" yaml:"arrival"`
	RoutesDB  string  `json:"routes_db" yaml:"routes_db"`
}

// ParseMission decodes and validates a mission document.
func ParseMission(data []byte, format Format) (*Mission, error) {
	var doc missionDoc
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("parse mission: %w", err)
	}
	switch {
	case doc.Autonomy == nil:
		return nil, fmt.Errorf("parse mission: autonomy is required")
	case strings.TrimSpace(doc.Departure) == "":
		return nil, fmt.Errorf("parse mission: departure is required")
	case strings.TrimSpace(doc.Arrival) == "":
		return nil, fmt.Errorf("parse mission: arrival is required")
	case strings.TrimSpace(doc.RoutesDB) == "":
		return nil, fmt.Errorf("parse mission: routes_db is required")
	}
	return &Mission{
		Autonomy:  *doc.Autonomy,
		Departure: doc.Departure,
		Arrival:   doc.Arrival,
		RoutesDB:  doc.RoutesDB,
	}, nil
}

// ReadMission reads a mission file. A relative routes_db path is resolved
// against the directory holding the mission file.
func ReadMission(path string) (*Mission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mission file: %w", err)
	}
	m, err := ParseMission(data, FormatFromPath(path))
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(m.RoutesDB) && !strings.Contains(m.RoutesDB, "://") {
		m.RoutesDB = filepath.Join(filepath.Dir(path), m.RoutesDB)
	}
	return m, nil
}
