package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
)

// Table writers share one shape: header row first, one row per record, rows
// in the order the analysis produced them. An empty table is a valid output
// and yields a header-only file.

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func itoa(i int) string     { return strconv.Itoa(i) }
func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

// WriteCentrality writes the full per-airport metric table.
func WriteCentrality(path string, rows []schemas.CentralityRow) error {
	header := []string{"airport_id", "name", "country", "degree", "in_degree", "out_degree", "betweenness", "closeness", "eigenvector", "k_core", "community"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			itoa(r.AirportID), r.Name, r.Country,
			itoa(r.Degree), itoa(r.InDegree), itoa(r.OutDegree),
			ftoa(r.Betweenness), ftoa(r.Closeness), ftoa(r.Eigenvector),
			itoa(r.KCore), itoa(r.Community),
		}
	}
	return writeCSV(path, header, out)
}

// WriteHubs writes the top-N hub ranking.
func WriteHubs(path string, rows []schemas.HubRow) error {
	header := []string{"rank", "airport_id", "name", "country", "metric", "value"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{itoa(r.Rank), itoa(r.AirportID), r.Name, r.Country, r.Metric, ftoa(r.Value)}
	}
	return writeCSV(path, header, out)
}

// WriteCountryCentrality writes the country super-node metric table.
func WriteCountryCentrality(path string, rows []schemas.CountryRow) error {
	header := []string{"country", "num_airports", "degree", "betweenness", "closeness", "eigenvector"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Country, itoa(r.NumAirports), itoa(r.Degree), ftoa(r.Betweenness), ftoa(r.Closeness), ftoa(r.Eigenvector)}
	}
	return writeCSV(path, header, out)
}

// WriteCountryImpact writes the knock-out impact table.
func WriteCountryImpact(path string, rows []schemas.CountryImpactRow) error {
	header := []string{"country", "removed_airports", "giant_after", "giant_ratio_after", "ratio_drop"}
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{r.Country, itoa(r.RemovedAirports), itoa(r.GiantAfter), ftoa(r.GiantRatioAfter), ftoa(r.RatioDrop)}
	}
	return writeCSV(path, header, out)
}

// WriteRobustness writes one or more removal curves into a single table.
func WriteRobustness(path string, points []schemas.RobustnessPoint) error {
	header := []string{"strategy", "removed_count", "removed_frac", "giant_fraction", "efficiency"}
	out := make([][]string, len(points))
	for i, p := range points {
		out[i] = []string{p.Strategy, itoa(p.RemovedCount), ftoa(p.RemovedFrac), ftoa(p.GiantFraction), ftoa(p.Efficiency)}
	}
	return writeCSV(path, header, out)
}
