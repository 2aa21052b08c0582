// Package netstat computes whole-network descriptive statistics on the
// undirected view of the route graph: component structure, path lengths,
// clustering, k-core depth and degree assortativity. These complement the
// per-node centrality metrics and match how the network is usually
// summarized in air-transport studies.
package netstat

import (
	"gonum.org/v1/gonum/stat"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
)

// Components labels every node with its undirected connected component and
// returns the component sizes. Labels are assigned in node order, so the
// numbering is stable across runs.
func Components(g *airgraph.Graph) (labels []int, sizes []int) {
	n := g.Order()
	labels = make([]int, n)
	for i := range labels {
		labels[i] = -1
	}

	queue := make([]int, 0, n)
	for start := 0; start < n; start++ {
		if labels[start] >= 0 {
			continue
		}
		comp := len(sizes)
		size := 0
		queue = append(queue[:0], start)
		labels[start] = comp
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			size++
			for _, w := range g.Neighbors(v) {
				if labels[w] < 0 {
					labels[w] = comp
					queue = append(queue, w)
				}
			}
		}
		sizes = append(sizes, size)
	}
	return labels, sizes
}

// GiantComponent returns the member node indices of the largest component,
// in node order. Ties between equal-size components go to the one whose
// first node appears earlier.
func GiantComponent(g *airgraph.Graph) []int {
	labels, sizes := Components(g)
	best := -1
	for c, s := range sizes {
		if best < 0 || s > sizes[best] {
			best = c
		}
	}
	if best < 0 {
		return nil
	}
	members := make([]int, 0, sizes[best])
	for i, c := range labels {
		if c == best {
			members = append(members, i)
		}
	}
	return members
}

// AvgPathLength computes the mean shortest-path length over all ordered
// pairs inside the given node set, using undirected hop distance. Intended
// to be called on a connected component; pairs that are still unreachable
// are excluded rather than poisoning the mean.
func AvgPathLength(g *airgraph.Graph, members []int) float64 {
	if len(members) < 2 {
		return 0
	}
	inSet := make(map[int]bool, len(members))
	for _, v := range members {
		inSet[v] = true
	}

	dist := make([]int, g.Order())
	queue := make([]int, 0, len(members))
	total, pairs := 0, 0

	for _, s := range members {
		for i := range dist {
			dist[i] = -1
		}
		dist[s] = 0
		queue = append(queue[:0], s)
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range g.Neighbors(v) {
				if dist[w] < 0 {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
			}
		}
		for _, t := range members {
			if t != s && dist[t] > 0 && inSet[t] {
				total += dist[t]
				pairs++
			}
		}
	}
	if pairs == 0 {
		return 0
	}
	return float64(total) / float64(pairs)
}

// AvgClustering computes the mean local clustering coefficient over all
// nodes. Nodes with fewer than two neighbors contribute 0, matching the
// usual convention.
func AvgClustering(g *airgraph.Graph) float64 {
	n := g.Order()
	if n == 0 {
		return 0
	}

	adjacent := func(a, b int) bool {
		nb := g.Neighbors(a)
		lo, hi := 0, len(nb)
		for lo < hi {
			mid := (lo + hi) / 2
			if nb[mid] < b {
				lo = mid + 1
			} else {
				hi = mid
			}
		}
		return lo < len(nb) && nb[lo] == b
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		nb := g.Neighbors(i)
		k := len(nb)
		if k < 2 {
			continue
		}
		links := 0
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				if adjacent(nb[a], nb[b]) {
					links++
				}
			}
		}
		sum += 2 * float64(links) / float64(k*(k-1))
	}
	return sum / float64(n)
}

// KCore computes each node's core number via the standard peeling order:
// repeatedly remove the minimum-degree node and record the running maximum
// of the degree at removal time.
func KCore(g *airgraph.Graph) []int {
	n := g.Order()
	core := make([]int, n)
	degree := make([]int, n)
	removed := make([]bool, n)
	for i := 0; i < n; i++ {
		degree[i] = g.UndirectedDegree(i)
	}

	k := 0
	for round := 0; round < n; round++ {
		// Minimum degree among remaining nodes; lowest index on ties so the
		// peel order is reproducible.
		min := -1
		for i := 0; i < n; i++ {
			if !removed[i] && (min < 0 || degree[i] < degree[min]) {
				min = i
			}
		}
		if degree[min] > k {
			k = degree[min]
		}
		core[min] = k
		removed[min] = true
		for _, w := range g.Neighbors(min) {
			if !removed[w] {
				degree[w]--
			}
		}
	}
	return core
}

// Assortativity computes the degree assortativity coefficient: the Pearson
// correlation of endpoint degrees over the undirected edge list, counting
// each edge in both orientations. Negative values mean hubs preferentially
// attach to low-degree spokes, the classic air-network signature.
func Assortativity(g *airgraph.Graph) float64 {
	var xs, ys []float64
	for i := 0; i < g.Order(); i++ {
		di := float64(g.UndirectedDegree(i))
		for _, j := range g.Neighbors(i) {
			xs = append(xs, di)
			ys = append(ys, float64(g.UndirectedDegree(j)))
		}
	}
	if len(xs) == 0 {
		return 0
	}
	return stat.Correlation(xs, ys, nil)
}

// Summarize fills the whole-network section of NetworkStats. Per-node
// outputs (k-core, communities) are attached by the pipeline.
func Summarize(g *airgraph.Graph) schemas.NetworkStats {
	n := g.Order()
	s := schemas.NetworkStats{
		Nodes:            n,
		Edges:            g.Size(),
		RoutesSkipped:    g.Stats().SelfLoops + g.Stats().UnknownEndpoints,
		SelfLoopsDropped: g.Stats().SelfLoops,
		UnknownEndpoints: g.Stats().UnknownEndpoints,
	}
	s.DuplicateAirports = g.Stats().DuplicateAirports
	if n == 0 {
		return s
	}

	total := 0
	for i := 0; i < n; i++ {
		total += g.Degree(i)
	}
	s.AvgDegree = float64(total) / float64(n)

	_, sizes := Components(g)
	s.Components = len(sizes)
	giant := GiantComponent(g)
	s.GiantComponent = len(giant)
	s.GiantFraction = float64(len(giant)) / float64(n)
	s.AvgPathLength = AvgPathLength(g, giant)
	s.AvgClustering = AvgClustering(g)
	s.Assortativity = Assortativity(g)
	return s
}
