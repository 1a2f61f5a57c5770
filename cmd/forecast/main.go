// Package main runs the historical trend analysis, price forecasting
// and anomaly ranking on one weekly price table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"pricelab/internal/config"
	"pricelab/internal/orchestrator"
	"pricelab/internal/reporting"
)

func main() {
	configPath := flag.String("config", os.Getenv("PRICELAB_CONFIG"), "Path to TOML config file")
	input := flag.String("input", "", "Historical price table CSV (overrides config)")
	outputDir := flag.String("output-dir", "", "Write JSON artifacts to this directory")
	csvOut := flag.Bool("csv", false, "Print the anomalies as CSV instead of counts")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Inputs.HistoricalTable = *input
	}
	if *outputDir != "" {
		cfg.Artifacts.Enabled = true
		cfg.Artifacts.Dir = *outputDir
	}

	orch := orchestrator.New(orchestrator.Options{
		Config:  cfg,
		Verbose: *verbose,
	})

	result, err := orch.RunForecast(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Forecast error: %v\n", err)
		os.Exit(1)
	}

	if *csvOut {
		fmt.Print(reporting.RenderAnomaliesCSV(result.Anomalies))
		return
	}

	fmt.Printf("Forecast run %s:\n", result.RunID)
	fmt.Printf("  SKUs analyzed:   %d\n", result.Trend.TotalSkus)
	fmt.Printf("  SKUs forecasted: %d\n", result.Forecast.TotalSkusForecasted)
	fmt.Printf("  Anomalies:       %d (top %d reported)\n",
		result.Anomalies.TotalAnomaliesDetected, len(result.Anomalies.TopNotableChanges))
	for _, row := range result.Anomalies.TopNotableChanges {
		fmt.Printf("    %-12s %s  %.2f -> %.2f (%+.2f%%)\n",
			row.SKU, row.Significance, row.CurrentPrice, row.ForecastedPrice, row.ForecastedChangePct)
	}
	for _, path := range result.ArtifactPaths {
		fmt.Printf("Wrote %s\n", path)
	}
}
