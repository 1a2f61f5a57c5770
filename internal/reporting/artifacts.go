package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Artifact file names. Downstream consumers look these up by name, so
// they are part of the interop contract.
const (
	CategorizedArtifact = "price_categories.json"
	TrendArtifact       = "historical_analysis_results.json"
	ForecastArtifact    = "price_forecasts.json"
	AnomalyArtifact     = "pricing_anomalies.json"
)

// WriteArtifact persists one report as indented JSON under dir. The
// pipeline passes results in memory; this file hand-off exists for
// operators and external consumers and is strictly optional.
func WriteArtifact(dir, name string, v any) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal artifact %s: %w", name, err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write artifact %s: %w", path, err)
	}
	return path, nil
}

// ReadArtifact loads a previously written artifact into v.
func ReadArtifact(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal artifact %s: %w", path, err)
	}
	return nil
}
