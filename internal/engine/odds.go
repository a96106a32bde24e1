package engine

import (
	"container/heap"

	"falcon-odds/internal/graph"
)

// Result is the outcome of one odds computation.
type Result struct {
	// Probability of reaching the arrival uncaptured within the countdown.
	Probability float64
	// Encounters is the minimal number of days spent next to bounty hunters
	// on the best route. Zero when the arrival was not reached.
	Encounters uint64
	// Reached is false when no route fits in the countdown.
	Reached bool
	// Expanded counts the search states that were actually explored.
	Expanded int
}

// state is a node of the search: how many hunters were met so far, the day,
// the fuel left and where the ship is. remaining is the heuristic for
// location, cached so the queue does not look it up on every comparison.
type state struct {
	encounters uint64
	elapsed    uint64
	fuel       uint64
	location   graph.LocationID
	remaining  uint64
}

type stateKey struct {
	encounters uint64
	elapsed    uint64
	fuel       uint64
	location   graph.LocationID
}

func (s state) key() stateKey {
	return stateKey{s.encounters, s.elapsed, s.fuel, s.location}
}

// ComputeOdds searches for the route that meets the fewest bounty hunters
// and reaches the arrival within countdown days.
//
// States are popped by ascending encounters, then by ascending
// elapsed+days-to-arrival, so the first state popped at the arrival carries
// the minimal encounter count. A state is charged for hunters at its own
// (location, day) when it is popped, not when it is pushed.
func (m *Mission) ComputeOdds(sched *Schedule, countdown uint64) (Result, error) {
	if !m.resolved {
		return Result{}, nil
	}

	start := state{
		fuel:      m.Autonomy,
		location:  m.departure,
		remaining: m.DaysToArrival(m.departure),
	}
	pq := &stateQueue{start}
	heap.Init(pq)
	seen := make(map[stateKey]struct{})

	var res Result
	for pq.Len() > 0 {
		s := heap.Pop(pq).(state)
		if _, dup := seen[s.key()]; dup {
			continue
		}
		seen[s.key()] = struct{}{}

		if graph.SaturatingAdd(s.elapsed, s.remaining) > countdown {
			continue
		}
		res.Expanded++

		encounters := s.encounters + sched.EncountersOn(s.location, s.elapsed)
		if s.location == m.arrival {
			res.Encounters = encounters
			res.Reached = true
			res.Probability = 1 - CaptureProbability(encounters)
			return res, nil
		}

		// Stay one day to refuel.
		heap.Push(pq, state{
			encounters: encounters,
			elapsed:    s.elapsed + 1,
			fuel:       m.Autonomy,
			location:   s.location,
			remaining:  s.remaining,
		})

		hops, err := m.Routes.Neighbors(s.location)
		if err != nil {
			return Result{}, err
		}
		for _, h := range hops {
			if h.Days > s.fuel {
				continue
			}
			heap.Push(pq, state{
				encounters: encounters,
				elapsed:    s.elapsed + h.Days,
				fuel:       s.fuel - h.Days,
				location:   h.To,
				remaining:  m.DaysToArrival(h.To),
			})
		}
	}
	return res, nil
}

// Odds is a convenience wrapper that builds a Mission and returns only the
// probability of success.
func Odds(sched *Schedule, routes *graph.Routes, registry *graph.Registry, autonomy uint64, departure, arrival string, countdown uint64) (float64, error) {
	m, err := NewMission(routes, registry, autonomy, departure, arrival)
	if err != nil {
		return 0, err
	}
	res, err := m.ComputeOdds(sched, countdown)
	if err != nil {
		return 0, err
	}
	return res.Probability, nil
}

// Priority queue for the odds search
type stateQueue []state

func (q stateQueue) Len() int { return len(q) }
func (q stateQueue) Less(i, j int) bool {
	if q[i].encounters != q[j].encounters {
		return q[i].encounters < q[j].encounters
	}
	return graph.SaturatingAdd(q[i].elapsed, q[i].remaining) < graph.SaturatingAdd(q[j].elapsed, q[j].remaining)
}
func (q stateQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *stateQueue) Push(x interface{}) { *q = append(*q, x.(state)) }
func (q *stateQueue) Pop() interface{} {
	old := *q
	n := len(old)
	s := old[n-1]
	*q = old[:n-1]
	return s
}
