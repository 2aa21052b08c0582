package airgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
)

// -- Test Helper Functions --

func buildGraph(t *testing.T, airports []schemas.Airport, routes []schemas.Route) *Graph {
	t.Helper()
	g, err := Build(airports, routes, config.DedupLastWins, zap.NewNop())
	require.NoError(t, err)
	return g
}

func testAirports(ids ...int) []schemas.Airport {
	out := make([]schemas.Airport, len(ids))
	for i, id := range ids {
		out[i] = schemas.Airport{ID: id, Name: string(rune('A' + i)), Country: "Testland"}
	}
	return out
}

func route(src, dst int) schemas.Route {
	return schemas.Route{SourceID: src, DestID: dst, Multiplicity: 1}
}

// -- Test Cases --

func TestBuild(t *testing.T) {
	t.Run("should collapse duplicate routes into one weighted edge", func(t *testing.T) {
		g := buildGraph(t,
			testAirports(1, 2, 3),
			[]schemas.Route{route(1, 2), route(2, 3), route(1, 2)},
		)

		assert.Equal(t, 3, g.Order())
		assert.Equal(t, 2, g.Size())

		i1, ok := g.IndexOf(1)
		require.True(t, ok)
		i2, ok := g.IndexOf(2)
		require.True(t, ok)

		out := g.Out(i1)
		require.Len(t, out, 1)
		assert.Equal(t, i2, out[0].To)
		assert.Equal(t, 2, out[0].Weight)

		i3, ok := g.IndexOf(3)
		require.True(t, ok)
		assert.Equal(t, 1, g.Degree(i1))
		assert.Equal(t, 2, g.Degree(i2))
		assert.Equal(t, 1, g.Degree(i3))
	})

	t.Run("should skip routes referencing unknown airports", func(t *testing.T) {
		g := buildGraph(t,
			testAirports(1, 2),
			[]schemas.Route{route(1, 2), route(1, 99), route(99, 2)},
		)

		assert.Equal(t, 2, g.Order())
		assert.Equal(t, 1, g.Size())
		assert.Equal(t, 2, g.Stats().UnknownEndpoints)
		assert.Equal(t, 1, g.Stats().Retained)
	})

	t.Run("should drop self-referencing routes", func(t *testing.T) {
		g := buildGraph(t,
			testAirports(1, 2),
			[]schemas.Route{route(1, 1), route(1, 2)},
		)

		assert.Equal(t, 1, g.Size())
		assert.Equal(t, 1, g.Stats().SelfLoops)
	})

	t.Run("should exclude airports that appear in no retained route", func(t *testing.T) {
		g := buildGraph(t,
			testAirports(1, 2, 3),
			[]schemas.Route{route(1, 2)},
		)

		assert.Equal(t, 2, g.Order())
		_, ok := g.IndexOf(3)
		assert.False(t, ok)
	})

	t.Run("should order nodes by first appearance in the route stream", func(t *testing.T) {
		g := buildGraph(t,
			testAirports(10, 20, 30),
			[]schemas.Route{route(30, 10), route(10, 20)},
		)

		assert.Equal(t, []int{30, 10, 20}, g.IDs())
	})

	t.Run("should count route multiplicity into the edge weight", func(t *testing.T) {
		g := buildGraph(t,
			testAirports(1, 2),
			[]schemas.Route{{SourceID: 1, DestID: 2, Multiplicity: 5}},
		)

		i1, _ := g.IndexOf(1)
		assert.Equal(t, 5, g.Out(i1)[0].Weight)
	})

	t.Run("should fail on nil record streams", func(t *testing.T) {
		_, err := Build(nil, []schemas.Route{}, config.DedupLastWins, zap.NewNop())
		require.Error(t, err)
		_, err = Build([]schemas.Airport{}, nil, config.DedupLastWins, zap.NewNop())
		require.Error(t, err)
	})

	t.Run("should produce an empty graph from empty streams", func(t *testing.T) {
		g := buildGraph(t, []schemas.Airport{}, []schemas.Route{})
		assert.Equal(t, 0, g.Order())
		assert.Equal(t, 0, g.Size())
	})
}

func TestDedupPolicies(t *testing.T) {
	dup := []schemas.Airport{
		{ID: 1, Name: "First"},
		{ID: 1, Name: "Second"},
		{ID: 2, Name: "Other"},
	}
	routes := []schemas.Route{route(1, 2)}

	t.Run("last-wins keeps the later record", func(t *testing.T) {
		g, err := Build(dup, routes, config.DedupLastWins, zap.NewNop())
		require.NoError(t, err)

		i, ok := g.IndexOf(1)
		require.True(t, ok)
		assert.Equal(t, "Second", g.Airport(i).Name)
		assert.Equal(t, 1, g.Stats().DuplicateAirports)
	})

	t.Run("first-wins keeps the earlier record", func(t *testing.T) {
		g, err := Build(dup, routes, config.DedupFirstWins, zap.NewNop())
		require.NoError(t, err)

		i, ok := g.IndexOf(1)
		require.True(t, ok)
		assert.Equal(t, "First", g.Airport(i).Name)
		assert.Equal(t, 1, g.Stats().DuplicateAirports)
	})
}

func TestUndirectedView(t *testing.T) {
	g := buildGraph(t,
		testAirports(1, 2, 3),
		[]schemas.Route{route(1, 2), route(2, 1), route(2, 3)},
	)

	i2, _ := g.IndexOf(2)
	// 1<->2 counts once in the undirected view, 2->3 connects the pair.
	assert.Equal(t, 2, g.UndirectedDegree(i2))
	assert.Equal(t, 2, g.UndirectedEdgeCount())
}

func TestBuildDeterminism(t *testing.T) {
	airports := testAirports(5, 1, 9, 3)
	routes := []schemas.Route{route(9, 1), route(1, 5), route(5, 3), route(9, 1), route(3, 9)}

	g1 := buildGraph(t, airports, routes)
	g2 := buildGraph(t, airports, routes)

	require.Equal(t, g1.IDs(), g2.IDs())
	for i := 0; i < g1.Order(); i++ {
		assert.Equal(t, g1.Out(i), g2.Out(i))
		assert.Equal(t, g1.In(i), g2.In(i))
		assert.Equal(t, g1.Neighbors(i), g2.Neighbors(i))
	}
}
