// Package results orchestrates one full analysis run: build the graph, run
// every analysis stage, and assemble a single RunEnvelope the exporters and
// the store both consume.
package results

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/analysis/centrality"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/analysis/community"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/analysis/country"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/analysis/netstat"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
)

// RunPipeline executes every analysis stage over the given record streams
// and returns the envelope plus the frozen graph (the caller still needs it
// for GML export). Nil record streams are a configuration error.
func RunPipeline(ctx context.Context, cfg *config.Config, airports []schemas.Airport, routes []schemas.Route, loaderStats schemas.LoaderStats, logger *zap.Logger) (*schemas.RunEnvelope, *airgraph.Graph, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	started := time.Now().UTC()

	g, err := airgraph.Build(airports, routes, cfg.Loader.Dedup, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("graph build failed: %w", err)
	}

	stats := netstat.Summarize(g)

	logger.Info("Computing centrality metrics", zap.Int("nodes", g.Order()))
	cent, err := centrality.Compute(ctx, g, cfg.Analysis.Concurrency, logger)
	if err != nil {
		return nil, nil, err
	}

	assignment := community.Detect(g, cfg.Analysis.MaxPropagationRounds, logger)
	stats.Communities = assignment.Communities
	stats.Modularity = community.Modularity(g, assignment)

	cores := netstat.KCore(g)

	rows := make([]schemas.CentralityRow, g.Order())
	for i := 0; i < g.Order(); i++ {
		a := g.Airport(i)
		rows[i] = schemas.CentralityRow{
			AirportID:   g.ID(i),
			Name:        a.Name,
			Country:     a.Country,
			Degree:      g.Degree(i),
			InDegree:    g.InDegree(i),
			OutDegree:   g.OutDegree(i),
			Betweenness: cent.Betweenness[i],
			Closeness:   cent.Closeness[i],
			Eigenvector: cent.Eigenvector[i],
			KCore:       cores[i],
			Community:   assignment.Labels[i],
		}
	}

	hubs, err := centrality.TopHubs(g, cent, cfg.Analysis.HubMetric, cfg.Analysis.TopN)
	if err != nil {
		return nil, nil, err
	}

	envelope := &schemas.RunEnvelope{
		RunID:      uuid.NewString(),
		StartedAt:  started,
		Loader:     loaderStats,
		Centrality: rows,
		Hubs:       hubs,
	}

	if !cfg.Analysis.SkipCountries && g.Order() > 0 {
		logger.Info("Aggregating country-level graph")
		agg := country.Aggregate(g, logger)
		countryRows, err := agg.Centrality(ctx, logger)
		if err != nil {
			return nil, nil, err
		}
		envelope.Countries = countryRows
		envelope.Impact = country.KnockoutImpact(g)
	}

	envelope.Stats = stats
	envelope.FinishedAt = time.Now().UTC()

	logger.Info("Analysis complete",
		zap.String("run_id", envelope.RunID),
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges", stats.Edges),
		zap.Int("communities", stats.Communities),
		zap.Duration("elapsed", envelope.FinishedAt.Sub(envelope.StartedAt)))

	return envelope, g, nil
}
