// The application's root configuration.
package config

import (
	"fmt"
	"sync"

	"github.com/spf13/viper"
)

var (
	instance *Config
	once     sync.Once
)

// Config is the root configuration structure for the entire application.
type Config struct {
	Logger   LoggerConfig   `mapstructure:"logger"`
	Loader   LoaderConfig   `mapstructure:"loader"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
	Attack   AttackConfig   `mapstructure:"attack"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

// ColorConfig defines the color settings for different log levels.
// These are used for console output to make logs more readable.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" json:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" json:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" json:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" json:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" json:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" json:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" json:"fatal" yaml:"fatal"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" json:"level" yaml:"level"`
	Format      string      `mapstructure:"format" json:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" json:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" json:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" json:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" json:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" json:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" json:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" json:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" json:"colors" yaml:"colors"`
}

// DedupPolicy names the policy applied when two airport records share an ID.
type DedupPolicy string

const (
	// DedupLastWins keeps the later record, matching the behavior of loading
	// rows into a keyed map in input order.
	DedupLastWins DedupPolicy = "last-wins"
	// DedupFirstWins keeps the earlier record and ignores later duplicates.
	DedupFirstWins DedupPolicy = "first-wins"
)

// LoaderConfig holds settings for reading the raw datasets.
type LoaderConfig struct {
	AirportsPath string      `mapstructure:"airports_path"`
	RoutesPath   string      `mapstructure:"routes_path"`
	Dedup        DedupPolicy `mapstructure:"dedup"`
}

// HubMetric names the primary sort key of the hub ranking.
type HubMetric string

const (
	HubByDegree      HubMetric = "degree"
	HubByBetweenness HubMetric = "betweenness"
	HubByCloseness   HubMetric = "closeness"
	HubByEigenvector HubMetric = "eigenvector"
)

// AnalysisConfig holds settings for the centrality and community stages.
type AnalysisConfig struct {
	TopN        int       `mapstructure:"top_n"`
	HubMetric   HubMetric `mapstructure:"hub_metric"`
	Concurrency int       `mapstructure:"concurrency"`
	// MaxPropagationRounds bounds label propagation; the algorithm normally
	// converges in far fewer rounds.
	MaxPropagationRounds int  `mapstructure:"max_propagation_rounds"`
	SkipCountries        bool `mapstructure:"skip_countries"`
}

// OutputConfig holds settings for where run artifacts are written.
type OutputConfig struct {
	Dir       string `mapstructure:"dir"`
	WriteGML  bool   `mapstructure:"write_gml"`
	WriteCSV  bool   `mapstructure:"write_csv"`
	WriteMeta bool   `mapstructure:"write_meta"`
}

// AttackConfig holds settings for the robustness simulation.
type AttackConfig struct {
	Trials     int     `mapstructure:"trials"`
	Steps      int     `mapstructure:"steps"`
	MaxRemove  float64 `mapstructure:"max_remove"`
	PairSample int     `mapstructure:"pair_sample"`
	Seed       int64   `mapstructure:"seed"`
}

// PostgresConfig holds settings for the optional results database. An empty
// URL disables persistence entirely.
type PostgresConfig struct {
	URL string `mapstructure:"url"`
}

// SetDefaults registers the default value for every key so a run with no
// config file behaves sensibly.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.service_name", "airnet")
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("loader.airports_path", "./data/airports.dat")
	v.SetDefault("loader.routes_path", "./data/routes.dat")
	v.SetDefault("loader.dedup", string(DedupLastWins))
	v.SetDefault("analysis.top_n", 10)
	v.SetDefault("analysis.hub_metric", string(HubByDegree))
	v.SetDefault("analysis.concurrency", 0) // 0 means GOMAXPROCS
	v.SetDefault("analysis.max_propagation_rounds", 100)
	v.SetDefault("output.dir", "./output")
	v.SetDefault("output.write_gml", true)
	v.SetDefault("output.write_csv", true)
	v.SetDefault("output.write_meta", true)
	v.SetDefault("attack.trials", 1)
	v.SetDefault("attack.steps", 20)
	v.SetDefault("attack.max_remove", 0.5)
	v.SetDefault("attack.pair_sample", 2000)
	v.SetDefault("attack.seed", 42)
}

// Validate rejects configurations the pipeline cannot run with. These are
// the fatal-only conditions: everything else degrades to skip-and-count.
func (c *Config) Validate() error {
	if c.Analysis.TopN <= 0 {
		return fmt.Errorf("analysis.top_n must be positive, got %d", c.Analysis.TopN)
	}
	switch c.Analysis.HubMetric {
	case HubByDegree, HubByBetweenness, HubByCloseness, HubByEigenvector:
	default:
		return fmt.Errorf("unknown analysis.hub_metric %q", c.Analysis.HubMetric)
	}
	switch c.Loader.Dedup {
	case DedupLastWins, DedupFirstWins:
	default:
		return fmt.Errorf("unknown loader.dedup policy %q", c.Loader.Dedup)
	}
	if c.Loader.AirportsPath == "" || c.Loader.RoutesPath == "" {
		return fmt.Errorf("both loader.airports_path and loader.routes_path are required")
	}
	if c.Attack.MaxRemove < 0 || c.Attack.MaxRemove > 1 {
		return fmt.Errorf("attack.max_remove must be in [0,1], got %f", c.Attack.MaxRemove)
	}
	return nil
}

// Load initializes the configuration singleton from Viper.
func Load(v *viper.Viper) error {
	var loadErr error
	once.Do(func() {
		var cfg Config
		if err := v.Unmarshal(&cfg); err != nil {
			loadErr = fmt.Errorf("error unmarshaling config: %w", err)
			return
		}
		instance = &cfg
	})
	return loadErr
}

// Set stores an already-built configuration. Intended for tests and for the
// root command after flag overrides are applied.
func Set(cfg *Config) {
	instance = cfg
}

// Get returns the loaded configuration instance.
func Get() *Config {
	if instance == nil {
		panic("Configuration not initialized. Call config.Load() in the root command.")
	}
	return instance
}
