// Package centrality computes node importance metrics over a frozen graph.
//
// Betweenness follows Brandes' algorithm exactly (unweighted hop distance,
// proportional credit split among tied shortest paths) with the directed
// normalization 1/((n-1)(n-2)). Closeness uses the Wasserman-Faust
// reachable-fraction adjustment so disconnected graphs stay comparable.
// Eigenvector centrality is shifted power iteration on the undirected view.
package centrality

import (
	"context"
	"fmt"
	"runtime"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
	"go.uber.org/zap"
)

// Result holds per-node metric vectors, indexed by dense node index. It is
// an independent snapshot: dropping the graph does not invalidate it.
type Result struct {
	Betweenness []float64
	Closeness   []float64
	Eigenvector []float64
}

// Compute runs the full metric set over g. concurrency <= 0 means
// GOMAXPROCS. An empty graph yields empty vectors, not an error.
func Compute(ctx context.Context, g *airgraph.Graph, concurrency int, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := g.Order()
	res := &Result{
		Betweenness: make([]float64, n),
		Closeness:   make([]float64, n),
		Eigenvector: make([]float64, n),
	}
	if n == 0 {
		return res, nil
	}

	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	if concurrency > n {
		concurrency = n
	}

	logger.Debug("Computing centrality",
		zap.Int("nodes", n),
		zap.Int("workers", concurrency))

	partials, err := runSources(ctx, g, concurrency, res.Closeness)
	if err != nil {
		return nil, err
	}

	// Deterministic reduction: the source partition is fixed by chunk
	// boundaries, and chunk partials are summed in chunk order, so the
	// float additions happen in the same order on every run.
	for _, part := range partials {
		for i, v := range part {
			res.Betweenness[i] += v
		}
	}

	if n > 2 {
		norm := float64(n-1) * float64(n-2)
		for i := range res.Betweenness {
			res.Betweenness[i] /= norm
		}
	} else {
		// Too few nodes for any intermediate vertex; scores stay zero.
		for i := range res.Betweenness {
			res.Betweenness[i] = 0
		}
	}

	res.Eigenvector = eigenvector(g)

	return res, nil
}

// runSources fans the per-source shortest-path computations out over fixed
// contiguous chunks of the node range. Each chunk owns one betweenness
// partial; closeness has exactly one writer per node, so the shared slice
// needs no coordination.
func runSources(ctx context.Context, g *airgraph.Graph, workers int, closeness []float64) ([][]float64, error) {
	n := g.Order()
	partials := make([][]float64, workers)
	errs := make(chan error, workers)

	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		partials[w] = make([]float64, n)

		go func(lo, hi int, part []float64) {
			bfs := newBrandesState(n)
			for s := lo; s < hi; s++ {
				select {
				case <-ctx.Done():
					errs <- fmt.Errorf("centrality cancelled: %w", ctx.Err())
					return
				default:
				}
				bfs.run(g, s, part)
				closeness[s] = closenessFrom(bfs, n)
			}
			errs <- nil
		}(lo, hi, partials[w])
	}

	var firstErr error
	for w := 0; w < workers; w++ {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return partials, nil
}

// closenessFrom derives the source node's closeness from the distance array
// left behind by the last BFS. r counts the source itself; a node reaching
// nothing scores exactly 0.
func closenessFrom(st *brandesState, n int) float64 {
	reachable := 0
	sumDist := 0
	for _, d := range st.dist {
		if d >= 0 {
			reachable++
			sumDist += d
		}
	}
	if reachable <= 1 || sumDist == 0 || n <= 1 {
		return 0
	}
	r := float64(reachable - 1)
	return (r / float64(n-1)) * (r / float64(sumDist))
}
