// File: cmd/analyze.go
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/export"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/loader"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/observability"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/results"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/store"
)

func newAnalyzeCmd() *cobra.Command {
	var printJSON bool

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the full network analysis pipeline",
		Long:  `Loads the airport and route snapshots, builds the weighted directed route graph, computes centrality and community metrics, and writes the CSV/GML artifacts to the output directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()
			cfg := config.Get()
			if err := applyFlagOverrides(cmd, cfg); err != nil {
				return err
			}

			ld := loader.New(logger)
			airports, err := ld.LoadAirports(cfg.Loader.AirportsPath)
			if err != nil {
				return err
			}
			routes, err := ld.LoadRoutes(cfg.Loader.RoutesPath)
			if err != nil {
				return err
			}

			envelope, g, err := results.RunPipeline(ctx, cfg, airports, routes, ld.Stats(), logger)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}

			if cfg.Output.WriteGML {
				path := filepath.Join(cfg.Output.Dir, "airline_network.gml")
				if err := export.WriteGMLFile(path, g); err != nil {
					return err
				}
				logger.Info("Wrote graph interchange file", zap.String("path", path))
			}

			if cfg.Output.WriteCSV {
				dir := cfg.Output.Dir
				if err := export.WriteCentrality(filepath.Join(dir, "centrality_metrics.csv"), envelope.Centrality); err != nil {
					return err
				}
				if err := export.WriteHubs(filepath.Join(dir, "top_hubs.csv"), envelope.Hubs); err != nil {
					return err
				}
				if len(envelope.Countries) > 0 {
					if err := export.WriteCountryCentrality(filepath.Join(dir, "country_centrality.csv"), envelope.Countries); err != nil {
						return err
					}
				}
				if len(envelope.Impact) > 0 {
					if err := export.WriteCountryImpact(filepath.Join(dir, "country_impact.csv"), envelope.Impact); err != nil {
						return err
					}
				}
				logger.Info("Wrote metric tables", zap.String("dir", dir))
			}

			if cfg.Output.WriteMeta {
				if err := results.WriteMeta(filepath.Join(cfg.Output.Dir, "run_meta.json"), envelope); err != nil {
					return err
				}
			}

			if cfg.Postgres.URL != "" {
				pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer pool.Close()

				storeService, err := store.New(ctx, pool, logger)
				if err != nil {
					return fmt.Errorf("failed to initialize store service: %w", err)
				}
				if err := storeService.PersistRun(ctx, envelope); err != nil {
					return fmt.Errorf("failed to persist run: %w", err)
				}
				logger.Info("Run persisted", zap.String("run_id", envelope.RunID))
			}

			if printJSON {
				data, err := results.ToJSON(envelope)
				if err != nil {
					return err
				}
				fmt.Println(string(data))
			}

			return nil
		},
	}

	flags := analyzeCmd.Flags()
	flags.String("airports", "", "path to the airports dataset")
	flags.String("routes", "", "path to the routes dataset")
	flags.String("out", "", "output directory for run artifacts")
	flags.Int("top", 0, "number of hubs to rank")
	flags.String("metric", "", "hub ranking metric (degree|betweenness|closeness|eigenvector)")
	flags.String("dedup", "", "duplicate airport policy (last-wins|first-wins)")
	flags.BoolVar(&printJSON, "json", false, "print the full run envelope as JSON")

	return analyzeCmd
}

// applyFlagOverrides copies explicitly set command flags onto the loaded
// configuration. Flags the user did not touch leave the config file and
// environment values alone. Overrides re-run validation since a flag can be
// just as wrong as a config key.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	override := map[string]func(){
		"airports": func() { cfg.Loader.AirportsPath, _ = flags.GetString("airports") },
		"routes":   func() { cfg.Loader.RoutesPath, _ = flags.GetString("routes") },
		"out":      func() { cfg.Output.Dir, _ = flags.GetString("out") },
		"top":      func() { cfg.Analysis.TopN, _ = flags.GetInt("top") },
		"metric": func() {
			m, _ := flags.GetString("metric")
			cfg.Analysis.HubMetric = config.HubMetric(m)
		},
		"dedup": func() {
			d, _ := flags.GetString("dedup")
			cfg.Loader.Dedup = config.DedupPolicy(d)
		},
	}
	changed := false
	flags.Visit(func(f *pflag.Flag) {
		if apply, ok := override[f.Name]; ok {
			apply()
			changed = true
		}
	})
	if changed {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flag value: %w", err)
		}
	}
	return nil
}
