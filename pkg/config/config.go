package config

import (
	"context"
	"time"
)

// Config is the complete fslshim configuration.
type Config struct {
	Runtime    RuntimeConfig    `koanf:"runtime"    validate:"required"`
	Translate  TranslateConfig  `koanf:"translate"  validate:"required"`
	Regressors RegressorsConfig `koanf:"regressors"`
	Metrics    MetricsConfig    `koanf:"metrics"`
}

// RuntimeConfig contains logging behaviour.
type RuntimeConfig struct {
	LogLevel  string `koanf:"log_level"  validate:"oneof=debug info warn error disabled" env:"FSLSHIM_LOG_LEVEL"`
	LogJSON   bool   `koanf:"log_json"                                                    env:"FSLSHIM_LOG_JSON"`
	LogSource bool   `koanf:"log_source"                                                  env:"FSLSHIM_LOG_SOURCE"`
}

// TranslateConfig controls batch translation.
type TranslateConfig struct {
	Parallelism  int    `koanf:"parallelism"   validate:"min=1,max=64"                    env:"FSLSHIM_PARALLELISM"`
	SparsePolicy string `koanf:"sparse_policy" validate:"oneof=warn error"                env:"FSLSHIM_SPARSE_POLICY"`
	OutputFormat string `koanf:"output_format" validate:"output_format"                   env:"FSLSHIM_OUTPUT_FORMAT"`
}

// RegressorsConfig controls how regressor tables are located and cached.
type RegressorsConfig struct {
	Root      string `koanf:"root"                                  env:"FSLSHIM_REGRESSORS_ROOT"`
	CacheSize int    `koanf:"cache_size" validate:"min=0,max=4096"  env:"FSLSHIM_REGRESSORS_CACHE_SIZE"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `koanf:"textfile" env:"FSLSHIM_METRICS_TEXTFILE"`
}

// Service loads and validates configuration.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type that provided a configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Type returns the source type identifier.
	Type() SourceType
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Runtime: RuntimeConfig{
			LogLevel:  "info",
			LogJSON:   false,
			LogSource: false,
		},
		Translate: TranslateConfig{
			Parallelism:  1,
			SparsePolicy: "warn",
			OutputFormat: "auto",
		},
		Regressors: RegressorsConfig{
			Root:      "",
			CacheSize: 32,
		},
		Metrics: MetricsConfig{
			Textfile: "",
		},
	}
}
