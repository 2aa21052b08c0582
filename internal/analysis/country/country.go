// Package country collapses the airport graph into country super-nodes and
// measures which countries the global network structurally depends on.
package country

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/analysis/centrality"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
)

const unknownCountry = "Unknown"

func countryOf(g *airgraph.Graph, i int) string {
	c := g.Airport(i).Country
	if c == "" {
		return unknownCountry
	}
	return c
}

// Aggregation is the country-level super-node graph plus bookkeeping to map
// between country names and graph nodes.
type Aggregation struct {
	Graph *airgraph.Graph
	// Names maps the country graph's airport IDs back to country names.
	Names []string
	// AirportCounts is how many airports each country contributes.
	AirportCounts map[string]int
}

// Aggregate collapses the airport graph into a country graph that stays
// directed: an arc from country A to country B carries the summed weight of
// the airport-level edges pointing that way. Domestic edges are dropped,
// reusing the builder's self-loop rule. Countries whose airports only fly
// domestically end up with no super-node edges and are reported as zero rows
// by Centrality.
func Aggregate(g *airgraph.Graph, logger *zap.Logger) *Aggregation {
	ids := make(map[string]int)
	var names []string
	counts := make(map[string]int)

	intern := func(c string) int {
		id, ok := ids[c]
		if !ok {
			id = len(names)
			ids[c] = id
			names = append(names, c)
		}
		return id
	}

	b := airgraph.NewBuilder(config.DedupLastWins, logger)
	for i := 0; i < g.Order(); i++ {
		c := countryOf(g, i)
		counts[c]++
		id := intern(c)
		b.AddAirport(schemas.Airport{ID: id, Name: c, Country: c})
	}

	// Node and arc iteration follow the frozen order, so the country graph
	// is itself deterministic.
	for i := 0; i < g.Order(); i++ {
		ci := ids[countryOf(g, i)]
		for _, arc := range g.Out(i) {
			cj := ids[countryOf(g, arc.To)]
			b.AddRoute(schemas.Route{SourceID: ci, DestID: cj, Multiplicity: arc.Weight})
		}
	}

	return &Aggregation{
		Graph:         b.Freeze(),
		Names:         names,
		AirportCounts: counts,
	}
}

// Centrality computes per-country degree, betweenness, closeness and
// eigenvector centrality over the super-node graph. Countries absent from the graph (domestic-only)
// are appended as zero rows, sorted by name.
func (agg *Aggregation) Centrality(ctx context.Context, logger *zap.Logger) ([]schemas.CountryRow, error) {
	cg := agg.Graph
	res, err := centrality.Compute(ctx, cg, 1, logger)
	if err != nil {
		return nil, err
	}

	rows := make([]schemas.CountryRow, 0, len(agg.Names))
	inGraph := make(map[string]bool, cg.Order())
	for i := 0; i < cg.Order(); i++ {
		name := agg.Names[cg.ID(i)]
		inGraph[name] = true
		rows = append(rows, schemas.CountryRow{
			Country:     name,
			NumAirports: agg.AirportCounts[name],
			Degree:      cg.Degree(i),
			Betweenness: res.Betweenness[i],
			Closeness:   res.Closeness[i],
			Eigenvector: res.Eigenvector[i],
		})
	}

	var missing []string
	for _, name := range agg.Names {
		if !inGraph[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	for _, name := range missing {
		rows = append(rows, schemas.CountryRow{Country: name, NumAirports: agg.AirportCounts[name]})
	}
	return rows, nil
}

// KnockoutImpact removes each country's airports in turn and reports the
// resulting drop in the giant-component ratio. Sorted by drop, largest
// first; ties by name so the table is stable.
func KnockoutImpact(g *airgraph.Graph) []schemas.CountryImpactRow {
	n := g.Order()
	if n == 0 {
		return nil
	}

	countrySet := make(map[string][]int)
	for i := 0; i < n; i++ {
		c := countryOf(g, i)
		countrySet[c] = append(countrySet[c], i)
	}
	names := make([]string, 0, len(countrySet))
	for c := range countrySet {
		names = append(names, c)
	}
	sort.Strings(names)

	banned := make([]bool, n)
	baseGiant := giantSize(g, banned)
	s0 := float64(baseGiant) / float64(n)

	rows := make([]schemas.CountryImpactRow, 0, len(names))
	for _, c := range names {
		for _, i := range countrySet[c] {
			banned[i] = true
		}
		giant := giantSize(g, banned)
		ratio := float64(giant) / float64(n)
		rows = append(rows, schemas.CountryImpactRow{
			Country:         c,
			RemovedAirports: len(countrySet[c]),
			GiantAfter:      giant,
			GiantRatioAfter: ratio,
			RatioDrop:       s0 - ratio,
		})
		for _, i := range countrySet[c] {
			banned[i] = false
		}
	}

	sort.SliceStable(rows, func(a, b int) bool {
		if rows[a].RatioDrop != rows[b].RatioDrop {
			return rows[a].RatioDrop > rows[b].RatioDrop
		}
		return rows[a].Country < rows[b].Country
	})
	return rows
}

// giantSize finds the largest undirected component size among non-banned
// nodes.
func giantSize(g *airgraph.Graph, banned []bool) int {
	n := g.Order()
	visited := make([]bool, n)
	queue := make([]int, 0, n)
	best := 0

	for start := 0; start < n; start++ {
		if visited[start] || banned[start] {
			continue
		}
		size := 0
		visited[start] = true
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			size++
			for _, w := range g.Neighbors(v) {
				if !visited[w] && !banned[w] {
					visited[w] = true
					queue = append(queue, w)
				}
			}
		}
		if size > best {
			best = size
		}
	}
	return best
}
