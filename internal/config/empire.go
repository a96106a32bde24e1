package config

import (
	"fmt"
	"os"

	"falcon-odds/internal/engine"
	"falcon-odds/internal/graph"
	"falcon-odds/internal/logger"
)

// BountyHunter is one planned hunter presence.
type BountyHunter struct {
	Planet string `json:"planet" yaml:"planet"`
	Day    uint64 `json:"day" yaml:"day"`
}

// Empire is the intercepted plan (empire.json): the countdown and where
// bounty hunters will be.
type Empire struct {
	Countdown     uint64         `json:"countdown" yaml:"countdown"`
	BountyHunters []BountyHunter `json:"bounty_hunters" yaml:"bounty_hunters"`
}

type empireDoc struct {
	Countdown     *uint64        `json:"countdown" yaml:"countdown"`
	BountyHunters []BountyHunter `json:"bounty_hunters" yaml:"bounty_hunters"`
}

// ParseEmpire decodes an empire document. The countdown is required; an
// absent hunter list means no hunters.
func ParseEmpire(data []byte, format Format) (*Empire, error) {
	var doc empireDoc
	if err := decode(data, format, &doc); err != nil {
		return nil, fmt.Errorf("parse empire: %w", err)
	}
	if doc.Countdown == nil {
		return nil, fmt.Errorf("parse empire: countdown is required")
	}
	return &Empire{Countdown: *doc.Countdown, BountyHunters: doc.BountyHunters}, nil
}

// ReadEmpire reads an empire file.
func ReadEmpire(path string) (*Empire, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read empire file: %w", err)
	}
	return ParseEmpire(data, FormatFromPath(path))
}

// Schedule converts the hunter plan into an engine.Schedule. Hunters on
// planets that are not in the registry can never be met; they are skipped
// and counted.
func (e *Empire) Schedule(registry *graph.Registry) (*engine.Schedule, int) {
	s := engine.NewSchedule()
	skipped := 0
	for _, h := range e.BountyHunters {
		id, ok := registry.Lookup(h.Planet)
		if !ok {
			skipped++
			logger.Warn("Empire", fmt.Sprintf("Hunter on %q (day %d) is outside of the map", h.Planet, h.Day))
			continue
		}
		s.Add(id, h.Day)
	}
	return s, skipped
}
