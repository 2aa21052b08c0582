// Package airgraph builds and exposes the weighted directed route graph.
//
// Construction is a two-phase affair: a mutable Builder accumulates airports
// and routes into dense-index adjacency maps, then Freeze produces an
// immutable Graph snapshot backed by plain sorted slices. Every analysis
// stage consumes the snapshot read-only, so results never depend on build
// order beyond the documented node ordering.
package airgraph

import (
	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
)

// Arc is one outgoing or incoming edge in dense-index space. Weight is the
// number of raw route records collapsed onto the (source, destination) pair.
type Arc struct {
	To     int
	Weight int
}

// BuildStats counts what the builder dropped on the way to the final graph.
type BuildStats struct {
	RawRoutes         int
	Retained          int
	SelfLoops         int
	UnknownEndpoints  int
	DuplicateAirports int
}

// Graph is the frozen snapshot. Nodes are identified by dense index in
// [0, Order); index order equals first appearance of each airport in the
// retained route stream, which makes every downstream tie-break reproducible.
type Graph struct {
	ids      []int
	index    map[int]int
	airports []schemas.Airport
	out      [][]Arc
	in       [][]Arc
	und      [][]int
	edges    int
	stats    BuildStats
}

// Order returns the number of nodes.
func (g *Graph) Order() int { return len(g.ids) }

// Size returns the number of distinct directed edges.
func (g *Graph) Size() int { return g.edges }

// IDs returns the airport identifier for every node, in node order. The
// returned slice is shared; callers must not modify it.
func (g *Graph) IDs() []int { return g.ids }

// ID returns the airport identifier of node i.
func (g *Graph) ID(i int) int { return g.ids[i] }

// IndexOf resolves an airport identifier to its dense node index.
func (g *Graph) IndexOf(airportID int) (int, bool) {
	i, ok := g.index[airportID]
	return i, ok
}

// Airport returns the airport record attached to node i.
func (g *Graph) Airport(i int) schemas.Airport { return g.airports[i] }

// Out returns node i's outgoing arcs, sorted by destination index.
func (g *Graph) Out(i int) []Arc { return g.out[i] }

// In returns node i's incoming arcs, sorted by source index.
func (g *Graph) In(i int) []Arc { return g.in[i] }

// OutDegree counts distinct destination neighbors of node i.
func (g *Graph) OutDegree(i int) int { return len(g.out[i]) }

// InDegree counts distinct source neighbors of node i.
func (g *Graph) InDegree(i int) int { return len(g.in[i]) }

// Degree is the directed degree: in-degree plus out-degree.
func (g *Graph) Degree(i int) int { return len(g.in[i]) + len(g.out[i]) }

// Neighbors returns node i's neighbors in the undirected view: an edge in
// either direction connects the pair. Sorted by index, no duplicates.
func (g *Graph) Neighbors(i int) []int { return g.und[i] }

// UndirectedDegree counts distinct neighbors in the undirected view.
func (g *Graph) UndirectedDegree(i int) int { return len(g.und[i]) }

// UndirectedEdgeCount counts distinct unordered connected pairs.
func (g *Graph) UndirectedEdgeCount() int {
	total := 0
	for _, nb := range g.und {
		total += len(nb)
	}
	return total / 2
}

// Stats reports what was skipped while building this graph.
func (g *Graph) Stats() BuildStats { return g.stats }
