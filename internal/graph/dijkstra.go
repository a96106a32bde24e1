package graph

import (
	"container/heap"
	"math"
)

// Unreachable is the distance reported for locations that cannot reach the target.
const Unreachable = math.MaxUint64

// DistancesTo returns the minimal travel time from every location that can
// reach target, ignoring fuel and waiting. Unreachable locations are absent
// from the map. The result never overestimates the true remaining time, so it
// is an admissible heuristic for the odds search.
//
// Each location is finalised the first time it is popped; later pops of the
// same location are discarded (lazy deletion instead of decrease-key).
func DistancesTo(r *Routes, target LocationID) (map[LocationID]uint64, error) {
	dist := make(map[LocationID]uint64)

	pq := &priorityQueue{{location: target, days: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		if _, done := dist[item.location]; done {
			continue
		}
		dist[item.location] = item.days

		hops, err := r.Neighbors(item.location)
		if err != nil {
			return nil, err
		}
		for _, h := range hops {
			if _, done := dist[h.To]; done {
				continue
			}
			heap.Push(pq, pqItem{location: h.To, days: SaturatingAdd(item.days, h.Days)})
		}
	}
	return dist, nil
}

// Distance looks up id in a DistancesTo result, returning Unreachable on a miss.
func Distance(dist map[LocationID]uint64, id LocationID) uint64 {
	if d, ok := dist[id]; ok {
		return d
	}
	return Unreachable
}

// SaturatingAdd returns a+b, clamped to math.MaxUint64.
func SaturatingAdd(a, b uint64) uint64 {
	if s := a + b; s >= a {
		return s
	}
	return math.MaxUint64
}

// Priority queue for Dijkstra
type pqItem struct {
	location LocationID
	days     uint64
}

type priorityQueue []pqItem

func (pq priorityQueue) Len() int            { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool  { return pq[i].days < pq[j].days }
func (pq priorityQueue) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue) Push(x interface{}) { *pq = append(*pq, x.(pqItem)) }
func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}
