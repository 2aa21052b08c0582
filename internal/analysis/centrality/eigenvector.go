package centrality

import (
	"math"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
)

// Eigenvector power-iteration bounds. The shifted operator A+I keeps the
// iteration from oscillating on bipartite structures (a hub-and-spoke star is
// exactly that), at the cost of one extra addition per node.
const (
	eigenMaxIter = 500
	eigenTol     = 1e-6
)

// eigenvector computes eigenvector centrality on the undirected view of g by
// power iteration, L2-normalized. Iteration order is node order, so the
// result is identical on every run. Returns the zero vector when the
// iteration does not converge within eigenMaxIter rounds.
func eigenvector(g *airgraph.Graph) []float64 {
	n := g.Order()
	x := make([]float64, n)
	next := make([]float64, n)
	if n == 0 {
		return x
	}

	start := 1 / math.Sqrt(float64(n))
	for i := range x {
		x[i] = start
	}

	for iter := 0; iter < eigenMaxIter; iter++ {
		for i := 0; i < n; i++ {
			next[i] = x[i]
			for _, j := range g.Neighbors(i) {
				next[i] += x[j]
			}
		}

		norm := 0.0
		for _, v := range next {
			norm += v * v
		}
		norm = math.Sqrt(norm)
		if norm == 0 {
			return make([]float64, n)
		}

		diff := 0.0
		for i := range next {
			next[i] /= norm
			diff += math.Abs(next[i] - x[i])
		}
		x, next = next, x

		if diff < float64(n)*eigenTol {
			return x
		}
	}

	// No convergence: report zeros rather than a half-settled vector.
	return make([]float64, n)
}
