package centrality

import (
	"fmt"
	"sort"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
)

// TopHubs ranks airports by the chosen metric, descending, ties broken by
// ascending airport identifier. Degree is the default primary key: it is
// cheap, stable under betweenness sampling differences, and matches how the
// ranking is usually read ("most connected airports"). Requests larger than
// the graph return every node.
func TopHubs(g *airgraph.Graph, res *Result, metric config.HubMetric, n int) ([]schemas.HubRow, error) {
	if n <= 0 {
		return nil, fmt.Errorf("top-N must be positive, got %d", n)
	}

	value := func(i int) float64 {
		switch metric {
		case config.HubByBetweenness:
			return res.Betweenness[i]
		case config.HubByCloseness:
			return res.Closeness[i]
		case config.HubByEigenvector:
			return res.Eigenvector[i]
		default:
			return float64(g.Degree(i))
		}
	}

	order := make([]int, g.Order())
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		va, vb := value(order[a]), value(order[b])
		if va != vb {
			return va > vb
		}
		return g.ID(order[a]) < g.ID(order[b])
	})

	if n > len(order) {
		n = len(order)
	}

	rows := make([]schemas.HubRow, 0, n)
	for rank, i := range order[:n] {
		a := g.Airport(i)
		rows = append(rows, schemas.HubRow{
			Rank:      rank + 1,
			AirportID: g.ID(i),
			Name:      a.Name,
			Country:   a.Country,
			Metric:    string(metric),
			Value:     value(i),
		})
	}
	return rows, nil
}
