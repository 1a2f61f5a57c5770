// Package config loads pipeline configuration from a TOML file with
// environment-variable overrides. Every binary starts from Default()
// so a missing config file is never fatal.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration.
type Config struct {
	Inputs    InputsConfig    `toml:"inputs"`
	Forecast  ForecastConfig  `toml:"forecast"`
	Anomaly   AnomalyConfig   `toml:"anomaly"`
	Artifacts ArtifactsConfig `toml:"artifacts"`
	Storage   StorageConfig   `toml:"storage"`
	Server    ServerConfig    `toml:"server"`
}

// InputsConfig locates the two source tables.
type InputsConfig struct {
	// PriceChangeReport is the distributor price-change CSV, including
	// its preamble rows.
	PriceChangeReport string `toml:"price_change_report"`

	// HistoricalTable is the weekly price-history CSV.
	HistoricalTable string `toml:"historical_table"`
}

// ForecastConfig tunes the recency-weighted projection.
type ForecastConfig struct {
	// RecentWindow caps how many recent changes feed the weighted
	// average.
	RecentWindow int `toml:"recent_window" validate:"gte=1"`

	// MinChangesForWeighted is the change count below which the plain
	// historical mean is used instead.
	MinChangesForWeighted int `toml:"min_changes_for_weighted" validate:"gte=1"`
}

// AnomalyConfig tunes the notable-changes ranking.
type AnomalyConfig struct {
	TopN int `toml:"top_n" validate:"gte=1"`

	// ThresholdSigma is echoed into the output for traceability. It does
	// not filter the ranking.
	ThresholdSigma float64 `toml:"threshold_sigma" validate:"gt=0"`
}

// ArtifactsConfig controls the optional JSON file hand-off.
type ArtifactsConfig struct {
	// Enabled turns on writing JSON artifacts after each stage. The
	// pipeline itself passes results in memory.
	Enabled bool `toml:"enabled"`

	Dir string `toml:"dir"`
}

// StorageConfig selects the persistence backends. Empty DSNs select
// the in-memory stores.
type StorageConfig struct {
	PostgresDSN   string `toml:"postgres_dsn"`
	ClickHouseDSN string `toml:"clickhouse_dsn"`
}

// ServerConfig configures the observability endpoint.
type ServerConfig struct {
	ListenAddr string `toml:"listen_addr" validate:"required"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			PriceChangeReport: "data/price_changes.csv",
			HistoricalTable:   "data/historical_prices.csv",
		},
		Forecast: ForecastConfig{
			RecentWindow:          8,
			MinChangesForWeighted: 3,
		},
		Anomaly: AnomalyConfig{
			TopN:           10,
			ThresholdSigma: 1.5,
		},
		Artifacts: ArtifactsConfig{
			Enabled: false,
			Dir:     "output",
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
	}
}

// Load reads path (if it exists), applies PRICELAB_* environment
// overrides and validates the result. A missing file yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			// Defaults stand.
		case err != nil:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PRICELAB_PRICE_CHANGE_REPORT"); v != "" {
		cfg.Inputs.PriceChangeReport = v
	}
	if v := os.Getenv("PRICELAB_HISTORICAL_TABLE"); v != "" {
		cfg.Inputs.HistoricalTable = v
	}
	if v := os.Getenv("PRICELAB_ARTIFACTS_DIR"); v != "" {
		cfg.Artifacts.Dir = v
		cfg.Artifacts.Enabled = true
	}
	if v := os.Getenv("PRICELAB_POSTGRES_DSN"); v != "" {
		cfg.Storage.PostgresDSN = v
	}
	if v := os.Getenv("PRICELAB_CLICKHOUSE_DSN"); v != "" {
		cfg.Storage.ClickHouseDSN = v
	}
	if v := os.Getenv("PRICELAB_LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("PRICELAB_ANOMALY_TOP_N"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Anomaly.TopN = n
		}
	}
	if v := os.Getenv("PRICELAB_THRESHOLD_SIGMA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Anomaly.ThresholdSigma = f
		}
	}
	if v := os.Getenv("PRICELAB_FORECAST_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Forecast.RecentWindow = n
		}
	}
}
