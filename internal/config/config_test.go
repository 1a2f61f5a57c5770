package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Forecast.RecentWindow)
	assert.Equal(t, 3, cfg.Forecast.MinChangesForWeighted)
	assert.Equal(t, 10, cfg.Anomaly.TopN)
	assert.Equal(t, 1.5, cfg.Anomaly.ThresholdSigma)
	assert.Equal(t, ":8080", cfg.Server.ListenAddr)
	assert.False(t, cfg.Artifacts.Enabled)
}

func TestLoad_TOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricelab.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[inputs]
price_change_report = "reports/week41.csv"

[anomaly]
top_n = 5
threshold_sigma = 2.0

[storage]
postgres_dsn = "postgres://localhost:5432/pricelab"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "reports/week41.csv", cfg.Inputs.PriceChangeReport)
	assert.Equal(t, 5, cfg.Anomaly.TopN)
	assert.Equal(t, 2.0, cfg.Anomaly.ThresholdSigma)
	assert.Equal(t, "postgres://localhost:5432/pricelab", cfg.Storage.PostgresDSN)
	// Untouched sections keep their defaults.
	assert.Equal(t, 8, cfg.Forecast.RecentWindow)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricelab.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[anomaly]
top_n = 5
`), 0o644))

	t.Setenv("PRICELAB_ANOMALY_TOP_N", "7")
	t.Setenv("PRICELAB_ARTIFACTS_DIR", "/tmp/artifacts")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Anomaly.TopN)
	assert.Equal(t, "/tmp/artifacts", cfg.Artifacts.Dir)
	assert.True(t, cfg.Artifacts.Enabled)
}

func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricelab.toml")
	require.NoError(t, os.WriteFile(path, []byte("[inputs\nbroken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_ValidationRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricelab.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[anomaly]
top_n = 0
`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Anomaly.TopN)
}
