// File: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/config"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/observability"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var cfgFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:     "airnet",
	Short:   "Airnet analyzes the global airline route network.",
	Long:    `Airnet ingests OpenFlights-style airport and route snapshots, builds a weighted directed route graph, and derives hub rankings, centrality metrics and community structure from it.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 1. Initialize configuration loading (Viper).
		if err := initializeConfig(); err != nil {
			basicLogger, _ := zap.NewDevelopment()
			basicLogger.Error("Failed to initialize configuration", zap.Error(err))
			return fmt.Errorf("failed to initialize configuration: %w", err)
		}

		// 2. Unmarshal the configuration into the singleton.
		if err := config.Load(viper.GetViper()); err != nil {
			observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "airnet"})
			return fmt.Errorf("failed to unmarshal config: %w", err)
		}
		cfg := config.Get()

		// 3. Validate the configuration before any computation starts.
		if err := cfg.Validate(); err != nil {
			observability.InitializeLogger(cfg.Logger)
			return fmt.Errorf("invalid configuration: %w", err)
		}

		// 4. Initialize the logger.
		observability.InitializeLogger(cfg.Logger)
		logger := observability.GetLogger()
		logger.Debug("Starting airnet", zap.String("version", Version))

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It accepts a context passed from main for graceful shutdown.
func Execute(ctx context.Context) error {
	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newHubsCmd())
	rootCmd.AddCommand(newAttackCmd())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if logger := observability.GetLogger(); logger != nil && ctx.Err() == nil {
			logger.Error("Command execution failed", zap.Error(err))
		}
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./airnet.yaml)")
}

// initializeConfig wires defaults, the optional config file and environment
// overrides into the global viper instance.
func initializeConfig() error {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("airnet")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AIRNET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Missing config file is fine; everything has a default.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return nil
}
