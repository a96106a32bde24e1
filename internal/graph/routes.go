package graph

import "fmt"

// Hop is one entry of an adjacency list: a neighbouring location and the
// number of days the jump takes.
type Hop struct {
	To   LocationID
	Days uint64
}

// Routes holds the undirected route network. If a jump from A to B takes D
// days, A's list contains (B, D) and B's list contains (A, D). Parallel routes
// are kept as-is since the search walks the raw lists.
type Routes struct {
	adj map[LocationID][]Hop
}

// NewRoutes creates an empty route network.
func NewRoutes() *Routes {
	return &Routes{adj: make(map[LocationID][]Hop)}
}

// AddRoute adds a bidirectional route between a and b.
func (r *Routes) AddRoute(a, b LocationID, days uint64) {
	r.adj[a] = append(r.adj[a], Hop{To: b, Days: days})
	r.adj[b] = append(r.adj[b], Hop{To: a, Days: days})
}

// EnsureLocation gives id an (empty) adjacency entry so that Neighbors
// succeeds for an isolated location.
func (r *Routes) EnsureLocation(id LocationID) {
	if _, ok := r.adj[id]; !ok {
		r.adj[id] = []Hop{}
	}
}

// Neighbors returns the adjacency list of id. A location without an entry
// yields ErrUnknownLocation; an isolated location yields an empty list.
func (r *Routes) Neighbors(id LocationID) ([]Hop, error) {
	hops, ok := r.adj[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s not in routes", ErrUnknownLocation, id)
	}
	return hops, nil
}

// Len returns the number of locations with an adjacency entry.
func (r *Routes) Len() int { return len(r.adj) }

// RoutesFromAdjacency builds Routes from a ready-made adjacency map after
// checking that every route has a reciprocal of the same length.
func RoutesFromAdjacency(adj map[LocationID][]Hop) (*Routes, error) {
	for origin, hops := range adj {
		for _, h := range hops {
			back, ok := adj[h.To]
			if !ok {
				return nil, fmt.Errorf("%w: route from %s to %s found, but no routes starting from %s",
					ErrAsymmetricRoute, origin, h.To, h.To)
			}
			if !containsHop(back, Hop{To: origin, Days: h.Days}) {
				return nil, fmt.Errorf("%w: route from %s to %s found, but no similar route from %s to %s",
					ErrAsymmetricRoute, origin, h.To, h.To, origin)
			}
		}
	}
	routes := NewRoutes()
	for id, hops := range adj {
		routes.adj[id] = append([]Hop{}, hops...)
	}
	return routes, nil
}

// Equal reports whether both networks have identical adjacency lists,
// including order.
func (r *Routes) Equal(o *Routes) bool {
	if len(r.adj) != len(o.adj) {
		return false
	}
	for id, hops := range r.adj {
		other, ok := o.adj[id]
		if !ok || len(other) != len(hops) {
			return false
		}
		for i := range hops {
			if hops[i] != other[i] {
				return false
			}
		}
	}
	return true
}

func containsHop(hops []Hop, h Hop) bool {
	for _, x := range hops {
		if x == h {
			return true
		}
	}
	return false
}
