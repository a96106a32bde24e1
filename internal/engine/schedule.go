package engine

import "falcon-odds/internal/graph"

// Schedule records the days on which bounty hunters are present at a
// location. Presence is boolean: several hunters on the same day count once.
type Schedule struct {
	days map[graph.LocationID]map[uint64]struct{}
}

// NewSchedule creates an empty Schedule.
func NewSchedule() *Schedule {
	return &Schedule{days: make(map[graph.LocationID]map[uint64]struct{})}
}

// Add marks location as watched on day.
func (s *Schedule) Add(location graph.LocationID, day uint64) {
	byDay, ok := s.days[location]
	if !ok {
		byDay = make(map[uint64]struct{})
		s.days[location] = byDay
	}
	byDay[day] = struct{}{}
}

// EncountersOn returns 1 if hunters are at location on day, else 0.
// A nil Schedule has no hunters.
func (s *Schedule) EncountersOn(location graph.LocationID, day uint64) uint64 {
	if s == nil {
		return 0
	}
	if _, ok := s.days[location][day]; ok {
		return 1
	}
	return 0
}

// Len returns the number of distinct (location, day) pairs.
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, byDay := range s.days {
		n += len(byDay)
	}
	return n
}

// Equal reports whether both schedules hold the same (location, day) pairs.
func (s *Schedule) Equal(o *Schedule) bool {
	if s.Len() != o.Len() {
		return false
	}
	for loc, byDay := range s.days {
		for day := range byDay {
			if o.EncountersOn(loc, day) == 0 {
				return false
			}
		}
	}
	return true
}
