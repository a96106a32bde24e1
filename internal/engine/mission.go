package engine

import (
	"fmt"

	"falcon-odds/internal/graph"
)

// Mission is the fixed part of an odds computation: the route network, the
// ship autonomy and the departure/arrival planets. It is read-only once
// built and safe to share between concurrent ComputeOdds calls.
type Mission struct {
	Routes    *graph.Routes
	Registry  *graph.Registry
	Autonomy  uint64
	Departure string
	Arrival   string

	departure graph.LocationID
	arrival   graph.LocationID
	resolved  bool
	heuristic map[graph.LocationID]uint64
}

// NewMission resolves the departure and arrival names and precomputes the
// days-to-arrival heuristic. Unknown names are not an error: the mission is
// simply impossible and every computation yields probability 0.
func NewMission(routes *graph.Routes, registry *graph.Registry, autonomy uint64, departure, arrival string) (*Mission, error) {
	m := &Mission{
		Routes:    routes,
		Registry:  registry,
		Autonomy:  autonomy,
		Departure: departure,
		Arrival:   arrival,
	}
	dep, okDep := registry.Lookup(departure)
	arr, okArr := registry.Lookup(arrival)
	if !okDep || !okArr {
		return m, nil
	}
	h, err := graph.DistancesTo(routes, arr)
	if err != nil {
		return nil, fmt.Errorf("days to %s: %w", arrival, err)
	}
	m.departure, m.arrival = dep, arr
	m.heuristic = h
	m.resolved = true
	return m, nil
}

// Resolved reports whether both departure and arrival exist in the registry.
func (m *Mission) Resolved() bool { return m.resolved }

// DaysToArrival returns the lower bound on travel days from location to the
// arrival, or graph.Unreachable.
func (m *Mission) DaysToArrival(location graph.LocationID) uint64 {
	return graph.Distance(m.heuristic, location)
}
