package centrality

import (
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
)

// brandesState holds the per-source scratch arrays for Brandes' algorithm.
// One state is reused across all sources a worker processes, so the hot loop
// allocates nothing.
type brandesState struct {
	dist  []int
	sigma []float64
	delta []float64
	pred  [][]int32
	stack []int32
	queue []int32
}

func newBrandesState(n int) *brandesState {
	return &brandesState{
		dist:  make([]int, n),
		sigma: make([]float64, n),
		delta: make([]float64, n),
		pred:  make([][]int32, n),
		stack: make([]int32, 0, n),
		queue: make([]int32, 0, n),
	}
}

// run performs one source's forward BFS and backward accumulation, adding
// pair dependencies into acc. Edge weights are deliberately ignored: a hop
// costs 1 regardless of how many carriers fly the leg.
func (st *brandesState) run(g *airgraph.Graph, s int, acc []float64) {
	n := g.Order()

	for i := 0; i < n; i++ {
		st.dist[i] = -1
		st.sigma[i] = 0
		st.delta[i] = 0
		st.pred[i] = st.pred[i][:0]
	}
	st.stack = st.stack[:0]
	st.queue = st.queue[:0]

	st.dist[s] = 0
	st.sigma[s] = 1
	st.queue = append(st.queue, int32(s))

	for head := 0; head < len(st.queue); head++ {
		v := st.queue[head]
		st.stack = append(st.stack, v)

		for _, arc := range g.Out(int(v)) {
			w := arc.To
			if st.dist[w] < 0 {
				st.dist[w] = st.dist[v] + 1
				st.queue = append(st.queue, int32(w))
			}
			if st.dist[w] == st.dist[v]+1 {
				st.sigma[w] += st.sigma[v]
				st.pred[w] = append(st.pred[w], v)
			}
		}
	}

	// Back-propagation in reverse BFS order. Ties split credit by the
	// sigma ratio, which is the exact Brandes pair-dependency recursion.
	for i := len(st.stack) - 1; i >= 0; i-- {
		w := st.stack[i]
		coeff := (1 + st.delta[w]) / st.sigma[w]
		for _, v := range st.pred[w] {
			st.delta[v] += st.sigma[v] * coeff
		}
		if int(w) != s {
			acc[w] += st.delta[w]
		}
	}
}
