package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fourPlanets returns the Tatooine/Dagobah/Endor/Hoth example network.
func fourPlanets(t *testing.T) (*Routes, *Registry) {
	t.Helper()
	reg := NewRegistry()
	routes := NewRoutes()
	for _, e := range []struct {
		from, to string
		days     uint64
	}{
		{"Tatooine", "Dagobah", 6},
		{"Dagobah", "Endor", 4},
		{"Dagobah", "Hoth", 1},
		{"Hoth", "Endor", 1},
		{"Tatooine", "Hoth", 6},
	} {
		routes.AddRoute(reg.GetOrInsert(e.from), reg.GetOrInsert(e.to), e.days)
	}
	return routes, reg
}

func mustID(t *testing.T, reg *Registry, name string) LocationID {
	t.Helper()
	id, ok := reg.Lookup(name)
	require.True(t, ok, "location %q not registered", name)
	return id
}

func TestAddRoute_BothDirectionsInInsertionOrder(t *testing.T) {
	routes, reg := fourPlanets(t)
	tatooine := mustID(t, reg, "Tatooine")
	dagobah := mustID(t, reg, "Dagobah")
	endor := mustID(t, reg, "Endor")
	hoth := mustID(t, reg, "Hoth")

	want, err := RoutesFromAdjacency(map[LocationID][]Hop{
		tatooine: {{dagobah, 6}, {hoth, 6}},
		dagobah:  {{tatooine, 6}, {endor, 4}, {hoth, 1}},
		endor:    {{dagobah, 4}, {hoth, 1}},
		hoth:     {{dagobah, 1}, {endor, 1}, {tatooine, 6}},
	})
	require.NoError(t, err)
	assert.True(t, routes.Equal(want))
}

func TestRoutesFromAdjacency_AcceptsAddRouteGraphs(t *testing.T) {
	routes, _ := fourPlanets(t)
	rebuilt, err := RoutesFromAdjacency(routes.adj)
	require.NoError(t, err)
	assert.True(t, rebuilt.Equal(routes))
}

func TestRoutesFromAdjacency_ParallelRoutesKept(t *testing.T) {
	reg := NewRegistry()
	a, b := reg.GetOrInsert("A"), reg.GetOrInsert("B")
	routes := NewRoutes()
	routes.AddRoute(a, b, 3)
	routes.AddRoute(a, b, 3)
	routes.AddRoute(a, b, 0)

	hops, err := routes.Neighbors(a)
	require.NoError(t, err)
	assert.Len(t, hops, 3)

	_, err = RoutesFromAdjacency(routes.adj)
	assert.NoError(t, err)
}

func TestRoutesFromAdjacency_Asymmetric(t *testing.T) {
	reg := NewRegistry()
	a, b := reg.GetOrInsert("A"), reg.GetOrInsert("B")

	tests := []struct {
		name string
		adj  map[LocationID][]Hop
	}{
		{name: "missing destination entry", adj: map[LocationID][]Hop{a: {{b, 1}}}},
		{name: "missing reciprocal", adj: map[LocationID][]Hop{a: {{b, 1}}, b: {}}},
		{name: "different length", adj: map[LocationID][]Hop{a: {{b, 1}}, b: {{a, 2}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RoutesFromAdjacency(tt.adj)
			assert.ErrorIs(t, err, ErrAsymmetricRoute)
		})
	}
}

func TestNeighbors_UnknownVersusIsolated(t *testing.T) {
	reg := NewRegistry()
	lonely := reg.GetOrInsert("Lonely")
	ghost := reg.GetOrInsert("Ghost")
	routes := NewRoutes()
	routes.EnsureLocation(lonely)

	hops, err := routes.Neighbors(lonely)
	require.NoError(t, err)
	assert.Empty(t, hops)

	_, err = routes.Neighbors(ghost)
	assert.ErrorIs(t, err, ErrUnknownLocation)
}
