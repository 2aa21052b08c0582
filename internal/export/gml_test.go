package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
)

// -- Test Helper Functions --

func buildTestGraph(t *testing.T) *airgraph.Graph {
	t.Helper()
	airports := []schemas.Airport{
		{ID: 507, Name: "London Heathrow", Country: "United Kingdom", Latitude: 51.4706, Longitude: -0.461941, HasCoords: true},
		{ID: 3797, Name: "John F Kennedy Intl", Country: "United States", Latitude: 40.639801, Longitude: -73.7789, HasCoords: true},
		{ID: 1, Name: `Aeroport "X"`, Country: "Nowhere"},
	}
	routes := []schemas.Route{
		{SourceID: 507, DestID: 3797, Multiplicity: 3},
		{SourceID: 3797, DestID: 507, Multiplicity: 2},
		{SourceID: 507, DestID: 1, Multiplicity: 1},
	}
	g, err := airgraph.Build(airports, routes, config.DedupLastWins, zap.NewNop())
	require.NoError(t, err)
	return g
}

// -- Test Cases --

func TestWriteGML(t *testing.T) {
	g := buildTestGraph(t)

	var buf bytes.Buffer
	require.NoError(t, WriteGML(&buf, g))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "graph [\n  directed 1\n"))
	assert.Contains(t, out, `label "London Heathrow"`)
	assert.Contains(t, out, "    weight 3\n")
	// Embedded quotes in names are replaced, never emitted raw.
	assert.Contains(t, out, `label "Aeroport 'X'"`)
	// Both LHR<->JFK directions have coordinates on each end.
	assert.Equal(t, 2, strings.Count(out, "    distance "))
}

func TestWriteGMLDeterminism(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, WriteGML(&a, buildTestGraph(t)))
	require.NoError(t, WriteGML(&b, buildTestGraph(t)))
	assert.Equal(t, a.String(), b.String())
}

func TestGMLRoundTrip(t *testing.T) {
	g := buildTestGraph(t)

	var buf bytes.Buffer
	require.NoError(t, WriteGML(&buf, g))

	airports, routes, err := ReadGML(&buf)
	require.NoError(t, err)

	g2, err := airgraph.Build(airports, routes, config.DedupLastWins, zap.NewNop())
	require.NoError(t, err)

	require.Equal(t, g.IDs(), g2.IDs())
	for i := 0; i < g.Order(); i++ {
		assert.Equal(t, g.Out(i), g2.Out(i), "out-adjacency of airport %d", g.ID(i))
		assert.Equal(t, g.Airport(i).Country, g2.Airport(i).Country)
		assert.Equal(t, g.Airport(i).HasCoords, g2.Airport(i).HasCoords)
		if g.Airport(i).HasCoords {
			assert.InDelta(t, g.Airport(i).Latitude, g2.Airport(i).Latitude, 1e-12)
			assert.InDelta(t, g.Airport(i).Longitude, g2.Airport(i).Longitude, 1e-12)
		}
	}
}

func TestReadGMLRejectsBadIDs(t *testing.T) {
	_, _, err := ReadGML(strings.NewReader("graph [\n  node [\n    id oops\n  ]\n]\n"))
	require.Error(t, err)
}

func TestHaversine(t *testing.T) {
	t.Run("known city pair", func(t *testing.T) {
		// Heathrow to JFK is roughly 5540 km great-circle.
		d := Haversine(51.4706, -0.461941, 40.639801, -73.7789)
		assert.InDelta(t, 5540, d, 20)
	})

	t.Run("zero distance to itself", func(t *testing.T) {
		assert.InDelta(t, 0, Haversine(48.85, 2.35, 48.85, 2.35), 1e-9)
	})
}
