// Package pipeline carries shared fixtures for exercising the full
// pipeline without distributor data: a small price-change report and a
// historical table with known statistical properties. The demo mode of
// cmd/pipeline and the end-to-end tests both run on these.
package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SamplePriceChangeCSV returns a miniature price-change report in the
// distributor's layout, preamble rows included.
func SamplePriceChangeCSV() string {
	var b strings.Builder

	// Seven metadata rows precede the header in the report export.
	b.WriteString("Weekly Price Change Report\n")
	b.WriteString("Distributor: The Beer Store\n")
	b.WriteString("Period: 2025-10-06 to 2025-10-12\n")
	b.WriteString("\n")
	b.WriteString("Generated: 2025-10-13\n")
	b.WriteString("Contact: pricing@example.com\n")
	b.WriteString("\n")

	b.WriteString("Product Name,Pack Size,Type of Sale,Old Price,New Price\n")
	b.WriteString("Northern Lager,12x355ml,TBS - Retail Price,27.95,24.95\n")   // begin LTO
	b.WriteString("Harbour Ale,6x473ml,TBS - Retail Price,16.50,17.95\n")       // end LTO
	b.WriteString("Prairie Pilsner,24x355ml,TBS - Retail Price,49.95,50.95\n")  // permanent
	b.WriteString("Coastal IPA,4x473ml,TBS - Licensee,14.00,14.50\n")           // licensee
	b.WriteString("Glacier Light,12x355ml,New SKU,0.00,23.95\n")                // new SKU
	b.WriteString("Cellar Stout,6x341ml,TBS - Special Event,15.00,15.50\n")     // unclassified
	b.WriteString("Delisted Dunkel,6x500ml,TBS - Retail Price,Delisted,12.00\n") // invalid price

	return b.String()
}

// SampleHistoricalCSV returns a miniature weekly price table. SKU-100
// trends steadily upward, SKU-200 is flat, SKU-300 has a single week
// and so produces no statistics.
func SampleHistoricalCSV() string {
	var b strings.Builder
	b.WriteString("SKU,BRAND,Pack Size,Pack Volume ml,Pack Type,Week,Price\n")

	start := time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC)

	// SKU-100: nine weeks rising roughly 1% per week.
	price := 20.00
	for week := 0; week < 9; week++ {
		day := start.AddDate(0, 0, week*7).Format("2006-01-02")
		b.WriteString(fmt.Sprintf("SKU-100,Northern,12,355,can,%s,%.2f\n", day, price))
		price *= 1.01
	}

	// SKU-200: five flat weeks. Std of changes is zero, so it never
	// ranks as an anomaly.
	for week := 0; week < 5; week++ {
		day := start.AddDate(0, 0, week*7).Format("2006-01-02")
		b.WriteString(fmt.Sprintf("SKU-200,Harbour,6,473,bottle,%s,16.50\n", day))
	}

	// SKU-300: one week only.
	b.WriteString("SKU-300,Coastal,4,473,can,2025-08-04,14.00\n")

	return b.String()
}

// WriteSampleInputs writes both fixture files under dir and returns
// their paths.
func WriteSampleInputs(dir string) (priceChangePath, historicalPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create fixture dir: %w", err)
	}

	priceChangePath = filepath.Join(dir, "price_changes.csv")
	if err := os.WriteFile(priceChangePath, []byte(SamplePriceChangeCSV()), 0o644); err != nil {
		return "", "", fmt.Errorf("write price change fixture: %w", err)
	}

	historicalPath = filepath.Join(dir, "historical_prices.csv")
	if err := os.WriteFile(historicalPath, []byte(SampleHistoricalCSV()), 0o644); err != nil {
		return "", "", fmt.Errorf("write historical fixture: %w", err)
	}

	return priceChangePath, historicalPath, nil
}
