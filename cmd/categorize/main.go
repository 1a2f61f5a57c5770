// Package main categorizes one price-change report and prints the
// summary. The JSON artifact and markdown rendering are optional
// outputs for downstream consumers.
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
	input := flag.String("input", "", "Price-change report CSV (overrides config)")
	outputDir := flag.String("output-dir", "", "Write JSON artifact to this directory")
	markdown := flag.Bool("markdown", false, "Print the markdown summary instead of counts")
	verbose := flag.Bool("verbose", false, "Verbose output")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *input != "" {
		cfg.Inputs.PriceChangeReport = *input
	}
	if *outputDir != "" {
		cfg.Artifacts.Enabled = true
		cfg.Artifacts.Dir = *outputDir
	}

	orch := orchestrator.New(orchestrator.Options{
		Config:  cfg,
		Verbose: *verbose,
	})

	result, err := orch.RunCategorize(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Categorization error: %v\n", err)
		os.Exit(1)
	}

	if *markdown {
		fmt.Print(reporting.RenderMarkdown(result.Categorized, nil))
		return
	}

	r := result.Categorized
	fmt.Printf("Categorized %d products (run %s):\n", r.TotalProducts, result.RunID)
	fmt.Printf("  Licensee changes:  %d\n", r.Summary.LicenseeChangesCount)
	fmt.Printf("  New SKUs:          %d\n", r.Summary.NewSkusCount)
	fmt.Printf("  Permanent changes: %d\n", r.Summary.PermanentChangesCount)
	fmt.Printf("  LTOs beginning:    %d\n", r.Summary.BeginLTOCount)
	fmt.Printf("  LTOs ending:       %d\n", r.Summary.EndLTOCount)
	fmt.Printf("  Unclassified:      %d\n", r.Summary.UnclassifiedCount)
	if r.ExcludedInvalidPrices > 0 {
		fmt.Printf("  Excluded (invalid prices): %d\n", r.ExcludedInvalidPrices)
	}
	for _, path := range result.ArtifactPaths {
		fmt.Printf("Wrote %s\n", path)
	}
}
