// Package community partitions the route graph into clusters.
//
// Clustering intentionally ignores edge direction: a route in either
// direction connects two airports for community purposes, even though the
// built graph is directed. The detector is asynchronous (in-place) label
// propagation made deterministic by fixing both the node visit order (graph
// node order) and the tie-break (the label whose origin airport has the
// lowest identifier wins), so identical inputs always produce the identical
// partition.
package community

import (
	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
)

// Assignment maps every dense node index to a compact cluster label in
// [0, Communities). Labels carry no meaning beyond equality.
type Assignment struct {
	Labels      []int
	Communities int
}

// Detect runs label propagation until convergence or maxRounds. Every node
// receives exactly one label; isolated nodes keep their own singleton label.
func Detect(g *airgraph.Graph, maxRounds int, logger *zap.Logger) *Assignment {
	if logger == nil {
		logger = zap.NewNop()
	}
	n := g.Order()
	labels := make([]int, n)
	for i := range labels {
		labels[i] = i
	}
	if n == 0 {
		return &Assignment{Labels: labels}
	}
	if maxRounds <= 0 {
		maxRounds = 100
	}

	counts := make(map[int]int)
	rounds := 0
	for ; rounds < maxRounds; rounds++ {
		changed := false
		for i := 0; i < n; i++ {
			nb := g.Neighbors(i)
			if len(nb) == 0 {
				continue
			}

			for k := range counts {
				delete(counts, k)
			}
			for _, j := range nb {
				counts[labels[j]]++
			}

			// Most frequent neighbor label; ties go to the label whose
			// origin airport has the lowest identifier, so the outcome
			// never depends on map iteration order. Labels are node
			// indices, so g.ID maps a label back to its origin airport.
			best, bestCount := labels[i], 0
			for lbl, c := range counts {
				if c > bestCount || (c == bestCount && g.ID(lbl) < g.ID(best)) {
					best, bestCount = lbl, c
				}
			}
			if best != labels[i] {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	compacted, k := compact(labels)
	logger.Debug("Label propagation finished",
		zap.Int("rounds", rounds+1),
		zap.Int("communities", k))

	return &Assignment{Labels: compacted, Communities: k}
}

// compact renumbers labels to 0..k-1 in first-appearance order over the node
// range, which keeps the label values themselves reproducible.
func compact(labels []int) ([]int, int) {
	remap := make(map[int]int)
	out := make([]int, len(labels))
	for i, lbl := range labels {
		c, ok := remap[lbl]
		if !ok {
			c = len(remap)
			remap[lbl] = c
		}
		out[i] = c
	}
	return out, len(remap)
}
