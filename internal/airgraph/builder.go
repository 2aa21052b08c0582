package airgraph

import (
	"fmt"
	"sort"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
	"go.uber.org/zap"
)

// Builder accumulates airports and routes into adjacency maps. It is not
// safe for concurrent use; the pipeline runs it single-threaded.
type Builder struct {
	dedup    config.DedupPolicy
	log      *zap.Logger
	airports map[int]schemas.Airport

	ids   []int
	index map[int]int
	out   []map[int]int

	stats BuildStats
}

// NewBuilder creates an empty builder using the given airport dedup policy.
func NewBuilder(dedup config.DedupPolicy, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		dedup:    dedup,
		log:      logger.Named("builder"),
		airports: make(map[int]schemas.Airport),
		index:    make(map[int]int),
	}
}

// AddAirport registers an airport record. Duplicate identifiers are resolved
// by the configured policy and counted either way.
func (b *Builder) AddAirport(a schemas.Airport) {
	if _, exists := b.airports[a.ID]; exists {
		b.stats.DuplicateAirports++
		if b.dedup == config.DedupFirstWins {
			return
		}
	}
	b.airports[a.ID] = a
}

// AddRoute records one route. Routes with an endpoint missing from the
// airport set, and self-referencing routes, are skipped and counted.
func (b *Builder) AddRoute(r schemas.Route) {
	b.stats.RawRoutes++

	if r.SourceID == r.DestID {
		b.stats.SelfLoops++
		return
	}
	if _, ok := b.airports[r.SourceID]; !ok {
		b.stats.UnknownEndpoints++
		return
	}
	if _, ok := b.airports[r.DestID]; !ok {
		b.stats.UnknownEndpoints++
		return
	}

	src := b.nodeIndex(r.SourceID)
	dst := b.nodeIndex(r.DestID)

	mult := r.Multiplicity
	if mult < 1 {
		mult = 1
	}
	b.out[src][dst] += mult
	b.stats.Retained++
}

// nodeIndex interns an airport ID, assigning dense indices in first
// appearance order of the retained route stream.
func (b *Builder) nodeIndex(airportID int) int {
	if i, ok := b.index[airportID]; ok {
		return i
	}
	i := len(b.ids)
	b.index[airportID] = i
	b.ids = append(b.ids, airportID)
	b.out = append(b.out, make(map[int]int))
	return i
}

// Freeze converts the accumulated state into an immutable Graph. The builder
// must not be used afterwards.
func (b *Builder) Freeze() *Graph {
	n := len(b.ids)
	g := &Graph{
		ids:      b.ids,
		index:    b.index,
		airports: make([]schemas.Airport, n),
		out:      make([][]Arc, n),
		in:       make([][]Arc, n),
		und:      make([][]int, n),
		stats:    b.stats,
	}

	for i, id := range b.ids {
		g.airports[i] = b.airports[id]
	}

	inAcc := make([]map[int]int, n)
	for i := range inAcc {
		inAcc[i] = make(map[int]int)
	}

	for src, targets := range b.out {
		arcs := make([]Arc, 0, len(targets))
		for dst, w := range targets {
			arcs = append(arcs, Arc{To: dst, Weight: w})
			inAcc[dst][src] += w
		}
		sort.Slice(arcs, func(a, b int) bool { return arcs[a].To < arcs[b].To })
		g.out[src] = arcs
		g.edges += len(arcs)
	}

	for dst, sources := range inAcc {
		arcs := make([]Arc, 0, len(sources))
		for src, w := range sources {
			arcs = append(arcs, Arc{To: src, Weight: w})
		}
		sort.Slice(arcs, func(a, b int) bool { return arcs[a].To < arcs[b].To })
		g.in[dst] = arcs
	}

	for i := 0; i < n; i++ {
		seen := make(map[int]struct{}, len(g.out[i])+len(g.in[i]))
		for _, a := range g.out[i] {
			seen[a.To] = struct{}{}
		}
		for _, a := range g.in[i] {
			seen[a.To] = struct{}{}
		}
		nb := make([]int, 0, len(seen))
		for j := range seen {
			nb = append(nb, j)
		}
		sort.Ints(nb)
		g.und[i] = nb
	}

	b.log.Info("Graph frozen",
		zap.Int("nodes", g.Order()),
		zap.Int("edges", g.Size()),
		zap.Int("self_loops_dropped", g.stats.SelfLoops),
		zap.Int("unknown_endpoints", g.stats.UnknownEndpoints),
		zap.Int("duplicate_airports", g.stats.DuplicateAirports))

	return g
}

// Build is the one-shot entry point: feed both record streams through a
// fresh builder and freeze the result. Nil record streams are a caller
// error, not a data problem, so they fail loudly.
func Build(airports []schemas.Airport, routes []schemas.Route, dedup config.DedupPolicy, logger *zap.Logger) (*Graph, error) {
	if airports == nil || routes == nil {
		return nil, fmt.Errorf("airgraph: both record streams must be non-nil")
	}
	b := NewBuilder(dedup, logger)
	for _, a := range airports {
		b.AddAirport(a)
	}
	for _, r := range routes {
		b.AddRoute(r)
	}
	return b.Freeze(), nil
}
