// Package main runs the full pipeline end to end: categorization of
// the current-period report, then trend analysis, forecasting and
// anomaly ranking over the historical table. Results stay in memory;
// -output-dir adds the JSON artifact hand-off.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"pricelab/internal/config"
	"pricelab/internal/orchestrator"
	"pricelab/internal/pipeline"
	"pricelab/internal/reporting"
	"pricelab/internal/storage/memory"
)

func main() {
	configPath := flag.String("config", os.Getenv("PRICELAB_CONFIG"), "Path to TOML config file")
	outputDir := flag.String("output-dir", "", "Write JSON artifacts to this directory")
	demo := flag.Bool("demo", false, "Run on generated sample inputs instead of configured files")
	markdown := flag.Bool("markdown", false, "Print the markdown summary")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Printf("\nReceived signal %v, cancelling pipeline...\n", sig)
		cancel()
	}()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *outputDir != "" {
		cfg.Artifacts.Enabled = true
		cfg.Artifacts.Dir = *outputDir
	}

	if *demo {
		dir, err := os.MkdirTemp("", "pricelab-demo")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating demo dir: %v\n", err)
			os.Exit(1)
		}
		defer os.RemoveAll(dir)

		priceChangePath, historicalPath, err := pipeline.WriteSampleInputs(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing sample inputs: %v\n", err)
			os.Exit(1)
		}
		cfg.Inputs.PriceChangeReport = priceChangePath
		cfg.Inputs.HistoricalTable = historicalPath
		fmt.Println("Running on generated sample inputs")
	}

	fmt.Println("=== Pricing Pipeline ===")
	orch := orchestrator.New(orchestrator.Options{
		PriceChangeStore: memory.NewPriceChangeStore(),
		ObservationStore: memory.NewObservationStore(),
		TrendStore:       memory.NewTrendStore(),
		RunStore:         memory.NewRunStore(),
		Config:           cfg,
		Verbose:          *verbose,
	})

	result, err := orch.RunFull(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Pipeline error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Pipeline completed (run %s):\n", result.RunID)
	fmt.Printf("  Products categorized: %d\n", result.Categorized.TotalProducts)
	fmt.Printf("  SKUs analyzed:        %d\n", result.Trend.TotalSkus)
	fmt.Printf("  SKUs forecasted:      %d\n", result.Forecast.TotalSkusForecasted)
	fmt.Printf("  Anomalies detected:   %d\n", result.Anomalies.TotalAnomaliesDetected)
	for _, path := range result.ArtifactPaths {
		fmt.Printf("  Wrote %s\n", path)
	}

	if *markdown {
		fmt.Println()
		fmt.Print(reporting.RenderMarkdown(result.Categorized, result.Anomalies))
	}
}
