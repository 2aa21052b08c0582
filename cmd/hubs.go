// File: cmd/hubs.go
package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/analysis/centrality"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/loader"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/observability"
)

func newHubsCmd() *cobra.Command {
	hubsCmd := &cobra.Command{
		Use:   "hubs",
		Short: "Print the top-N hub airports",
		Long:  `Builds the route graph and prints the hub ranking without writing any artifacts. Useful for a quick look at a dataset snapshot.`,
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

			g, err := airgraph.Build(airports, routes, cfg.Loader.Dedup, logger)
			if err != nil {
				return err
			}

			res, err := centrality.Compute(ctx, g, cfg.Analysis.Concurrency, logger)
			if err != nil {
				return err
			}
			hubs, err := centrality.TopHubs(g, res, cfg.Analysis.HubMetric, cfg.Analysis.TopN)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tID\tNAME\tCOUNTRY\tVALUE")
			for _, h := range hubs {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%g\n", h.Rank, h.AirportID, h.Name, h.Country, h.Value)
			}
			return w.Flush()
		},
	}

	flags := hubsCmd.Flags()
	flags.String("airports", "", "path to the airports dataset")
	flags.String("routes", "", "path to the routes dataset")
	flags.Int("top", 0, "number of hubs to rank")
	flags.String("metric", "", "hub ranking metric (degree|betweenness|closeness|eigenvector)")

	return hubsCmd
}
