package centrality

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
)

// -- Test Helper Functions --

func buildGraph(t *testing.T, ids []int, pairs [][2]int) *airgraph.Graph {
	t.Helper()
	airports := make([]schemas.Airport, len(ids))
	for i, id := range ids {
		airports[i] = schemas.Airport{ID: id, Name: string(rune('A' + i))}
	}
	routes := make([]schemas.Route, len(pairs))
	for i, p := range pairs {
		routes[i] = schemas.Route{SourceID: p[0], DestID: p[1], Multiplicity: 1}
	}
	g, err := airgraph.Build(airports, routes, config.DedupLastWins, zap.NewNop())
	require.NoError(t, err)
	return g
}

func compute(t *testing.T, g *airgraph.Graph, workers int) *Result {
	t.Helper()
	res, err := Compute(context.Background(), g, workers, zap.NewNop())
	require.NoError(t, err)
	return res
}

// -- Test Cases --

func TestComputeBetweenness(t *testing.T) {
	t.Run("path graph credits the interior nodes", func(t *testing.T) {
		// A->B->C->D: B and C each lie on two shortest paths.
		g := buildGraph(t, []int{1, 2, 3, 4}, [][2]int{{1, 2}, {2, 3}, {3, 4}})
		res := compute(t, g, 1)

		iB, _ := g.IndexOf(2)
		iC, _ := g.IndexOf(3)
		iA, _ := g.IndexOf(1)
		iD, _ := g.IndexOf(4)

		// Unnormalized credit is 2 each; n=4 gives a 1/((n-1)(n-2)) = 1/6 factor.
		assert.InDelta(t, 2.0/6.0, res.Betweenness[iB], 1e-12)
		assert.InDelta(t, 2.0/6.0, res.Betweenness[iC], 1e-12)
		assert.Zero(t, res.Betweenness[iA])
		assert.Zero(t, res.Betweenness[iD])
	})

	t.Run("tied shortest paths split credit equally", func(t *testing.T) {
		// Diamond: s->a->t and s->b->t are equal-length, so a and b each
		// carry half of the single (s,t) dependency.
		g := buildGraph(t, []int{1, 2, 3, 4}, [][2]int{{1, 2}, {1, 3}, {2, 4}, {3, 4}})
		res := compute(t, g, 1)

		iA, _ := g.IndexOf(2)
		iB, _ := g.IndexOf(3)
		assert.InDelta(t, 0.5/6.0, res.Betweenness[iA], 1e-12)
		assert.InDelta(t, 0.5/6.0, res.Betweenness[iB], 1e-12)
	})

	t.Run("all scores stay within the unit interval", func(t *testing.T) {
		g := buildGraph(t, []int{1, 2, 3, 4, 5},
			[][2]int{{1, 2}, {2, 3}, {3, 1}, {3, 4}, {4, 5}, {5, 3}, {2, 5}})
		res := compute(t, g, 1)

		for i, b := range res.Betweenness {
			assert.GreaterOrEqual(t, b, 0.0, "node %d", i)
			assert.LessOrEqual(t, b, 1.0, "node %d", i)
		}
	})

	t.Run("graphs with fewer than three nodes score zero", func(t *testing.T) {
		g := buildGraph(t, []int{1, 2}, [][2]int{{1, 2}, {2, 1}})
		res := compute(t, g, 1)
		assert.Equal(t, []float64{0, 0}, res.Betweenness)
	})
}

func TestComputeCloseness(t *testing.T) {
	g := buildGraph(t, []int{1, 2, 3, 4}, [][2]int{{1, 2}, {2, 3}, {3, 4}})
	res := compute(t, g, 1)

	iA, _ := g.IndexOf(1)
	iB, _ := g.IndexOf(2)
	iD, _ := g.IndexOf(4)

	// A reaches all three others at total distance 6.
	assert.InDelta(t, 0.5, res.Closeness[iA], 1e-12)
	// B reaches two at total distance 3, scaled by 2/3 reachable fraction.
	assert.InDelta(t, 4.0/9.0, res.Closeness[iB], 1e-12)
	// D reaches nothing.
	assert.Zero(t, res.Closeness[iD])
}

func TestComputeEigenvector(t *testing.T) {
	t.Run("star concentrates on the hub", func(t *testing.T) {
		// K_{1,5}: the dominant eigenvector has center 1/sqrt(2) and each
		// leaf 1/sqrt(2k) regardless of edge direction.
		g := buildGraph(t, []int{1, 2, 3, 4, 5, 6},
			[][2]int{{1, 2}, {1, 3}, {1, 4}, {1, 5}, {1, 6}})
		res := compute(t, g, 1)

		hub, _ := g.IndexOf(1)
		assert.InDelta(t, 0.70710678, res.Eigenvector[hub], 1e-4)
		for i := range res.Eigenvector {
			if i == hub {
				continue
			}
			assert.InDelta(t, 0.31622776, res.Eigenvector[i], 1e-4)
		}
	})

	t.Run("symmetric graph scores every node equally", func(t *testing.T) {
		g := buildGraph(t, []int{1, 2, 3}, [][2]int{{1, 2}, {2, 3}, {3, 1}})
		res := compute(t, g, 1)

		for _, v := range res.Eigenvector {
			assert.InDelta(t, 1.0/1.7320508, v, 1e-4)
		}
	})

	t.Run("ranks hubs when selected as the metric", func(t *testing.T) {
		g := buildGraph(t, []int{1, 2, 3, 4, 5, 6},
			[][2]int{{1, 2}, {1, 3}, {1, 4}, {1, 5}, {1, 6}})
		res := compute(t, g, 1)

		hubs, err := TopHubs(g, res, config.HubByEigenvector, 2)
		require.NoError(t, err)
		require.Len(t, hubs, 2)
		assert.Equal(t, 1, hubs[0].AirportID)
		assert.Greater(t, hubs[0].Value, hubs[1].Value)
	})
}

func TestComputeEmptyGraph(t *testing.T) {
	g := buildGraph(t, nil, nil)
	res := compute(t, g, 4)
	assert.Empty(t, res.Betweenness)
	assert.Empty(t, res.Closeness)
	assert.Empty(t, res.Eigenvector)
}

func TestComputeParallelDeterminism(t *testing.T) {
	g := buildGraph(t, []int{1, 2, 3, 4, 5, 6},
		[][2]int{{1, 2}, {2, 3}, {3, 4}, {4, 5}, {5, 6}, {6, 1}, {2, 5}, {3, 6}})

	sequential := compute(t, g, 1)
	parallel := compute(t, g, 4)

	assert.Equal(t, sequential.Betweenness, parallel.Betweenness)
	assert.Equal(t, sequential.Closeness, parallel.Closeness)
}

func TestComputeCancellation(t *testing.T) {
	g := buildGraph(t, []int{1, 2, 3}, [][2]int{{1, 2}, {2, 3}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Compute(ctx, g, 2, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTopHubs(t *testing.T) {
	// Node 2 is the hub: degree 4. Nodes 1 and 3 tie on degree 2.
	g := buildGraph(t, []int{3, 2, 1}, [][2]int{{3, 2}, {2, 3}, {1, 2}, {2, 1}})
	res := compute(t, g, 1)

	t.Run("ranks by degree with ascending id tie-break", func(t *testing.T) {
		hubs, err := TopHubs(g, res, config.HubByDegree, 3)
		require.NoError(t, err)
		require.Len(t, hubs, 3)

		assert.Equal(t, 2, hubs[0].AirportID)
		assert.Equal(t, 1, hubs[1].AirportID)
		assert.Equal(t, 3, hubs[2].AirportID)
		assert.Equal(t, 1, hubs[0].Rank)
		assert.Equal(t, 4.0, hubs[0].Value)
	})

	t.Run("requests beyond the node count return every node", func(t *testing.T) {
		hubs, err := TopHubs(g, res, config.HubByDegree, 50)
		require.NoError(t, err)
		assert.Len(t, hubs, 3)
	})

	t.Run("rejects non-positive N", func(t *testing.T) {
		_, err := TopHubs(g, res, config.HubByDegree, 0)
		require.Error(t, err)
	})
}
