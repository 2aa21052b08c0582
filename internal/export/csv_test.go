package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
)

// -- Test Helper Functions --

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

// -- Test Cases --

func TestWriteCentrality(t *testing.T) {
	path := filepath.Join(t.TempDir(), "centrality_metrics.csv")
	rows := []schemas.CentralityRow{
		{AirportID: 507, Name: "London Heathrow", Country: "United Kingdom", Degree: 5, InDegree: 2, OutDegree: 3, Betweenness: 0.25, Closeness: 0.5, Eigenvector: 0.125, KCore: 3, Community: 1},
	}

	require.NoError(t, WriteCentrality(path, rows))
	got := readCSV(t, path)

	require.Len(t, got, 2)
	assert.Equal(t, "airport_id", got[0][0])
	assert.Equal(t, []string{"507", "London Heathrow", "United Kingdom", "5", "2", "3", "0.25", "0.5", "0.125", "3", "1"}, got[1])
}

func TestWriteHubs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "top_hubs.csv")
	rows := []schemas.HubRow{
		{Rank: 1, AirportID: 340, Name: "Frankfurt am Main", Country: "Germany", Metric: "degree", Value: 492},
		{Rank: 2, AirportID: 1382, Name: "Charles de Gaulle", Country: "France", Metric: "degree", Value: 470},
	}

	require.NoError(t, WriteHubs(path, rows))
	got := readCSV(t, path)

	require.Len(t, got, 3)
	assert.Equal(t, "1", got[1][0])
	assert.Equal(t, "Frankfurt am Main", got[1][2])
	assert.Equal(t, "2", got[2][0])
}

func TestWriteEmptyTables(t *testing.T) {
	dir := t.TempDir()

	cases := map[string]func(string) error{
		"centrality.csv": func(p string) error { return WriteCentrality(p, nil) },
		"hubs.csv":       func(p string) error { return WriteHubs(p, nil) },
		"country.csv":    func(p string) error { return WriteCountryCentrality(p, nil) },
		"impact.csv":     func(p string) error { return WriteCountryImpact(p, nil) },
		"robustness.csv": func(p string) error { return WriteRobustness(p, nil) },
	}

	for name, write := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			require.NoError(t, write(path))

			got := readCSV(t, path)
			require.Len(t, got, 1, "empty table should still carry its header")
			assert.NotEmpty(t, got[0])
		})
	}
}

func TestWriteRobustness(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robustness_curves.csv")
	points := []schemas.RobustnessPoint{
		{Strategy: "degree", RemovedCount: 0, RemovedFrac: 0, GiantFraction: 1, Efficiency: 0.41},
		{Strategy: "degree", RemovedCount: 10, RemovedFrac: 0.1, GiantFraction: 0.62, Efficiency: 0.2},
	}

	require.NoError(t, WriteRobustness(path, points))
	got := readCSV(t, path)

	require.Len(t, got, 3)
	assert.Equal(t, []string{"strategy", "removed_count", "removed_frac", "giant_fraction", "efficiency"}, got[0])
	assert.Equal(t, "degree", got[1][0])
	assert.Equal(t, "0.62", got[2][3])
}
