package community

import "github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"

// Modularity scores a partition on the undirected view of g:
//
//	Q = sum_c [ m_c/m - (d_c/(2m))^2 ]
//
// where m is the undirected edge count, m_c the edges inside community c and
// d_c the total undirected degree of c. A graph with no edges scores 0.
func Modularity(g *airgraph.Graph, a *Assignment) float64 {
	m := g.UndirectedEdgeCount()
	if m == 0 {
		return 0
	}

	internal := make([]int, a.Communities)
	degree := make([]int, a.Communities)

	for i := 0; i < g.Order(); i++ {
		ci := a.Labels[i]
		degree[ci] += g.UndirectedDegree(i)
		for _, j := range g.Neighbors(i) {
			if j > i && a.Labels[j] == ci {
				internal[ci]++
			}
		}
	}

	q := 0.0
	m2 := 2 * float64(m)
	for c := 0; c < a.Communities; c++ {
		frac := float64(degree[c]) / m2
		q += float64(internal[c])/float64(m) - frac*frac
	}
	return q
}
