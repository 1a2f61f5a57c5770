package reporting

import (
	"fmt"
	"strings"
)

// RenderMarkdown renders the weekly pricing summary as a markdown
// document combining categorization and anomaly results. Either
// section may be nil when the corresponding stage did not run.
func RenderMarkdown(cat *CategorizedReport, anom *AnomalyReport) string {
	var b strings.Builder

	b.WriteString("# Weekly Pricing Summary\n\n")

	if cat != nil {
		b.WriteString(fmt.Sprintf("Analysis date: %s\n\n", cat.AnalysisDate))
		b.WriteString("## Price Change Categorization\n\n")
		b.WriteString(fmt.Sprintf("Total products: %d\n\n", cat.TotalProducts))
		if cat.ExcludedInvalidPrices > 0 {
			b.WriteString(fmt.Sprintf("Rows excluded for invalid prices: %d\n\n", cat.ExcludedInvalidPrices))
		}

		b.WriteString("| Category | Count |\n")
		b.WriteString("|----------|-------|\n")
		b.WriteString(fmt.Sprintf("| Licensee changes | %d |\n", cat.Summary.LicenseeChangesCount))
		b.WriteString(fmt.Sprintf("| New SKUs | %d |\n", cat.Summary.NewSkusCount))
		b.WriteString(fmt.Sprintf("| Permanent changes | %d |\n", cat.Summary.PermanentChangesCount))
		b.WriteString(fmt.Sprintf("| LTOs beginning | %d |\n", cat.Summary.BeginLTOCount))
		b.WriteString(fmt.Sprintf("| LTOs ending | %d |\n", cat.Summary.EndLTOCount))
		b.WriteString(fmt.Sprintf("| Unclassified | %d |\n", cat.Summary.UnclassifiedCount))
		b.WriteString("\n")

		writeCategorySection(&b, "Limited-Time Offers Beginning", cat.BeginLTO)
		writeCategorySection(&b, "Limited-Time Offers Ending", cat.EndLTO)
		writeCategorySection(&b, "Permanent Price Changes", cat.PermanentChanges)
		writeCategorySection(&b, "Unclassified Sale Types", cat.Unclassified)
	}

	if anom != nil {
		b.WriteString("## Notable Forecasted Changes\n\n")
		b.WriteString(fmt.Sprintf("Analysis date: %s\n\n", anom.AnalysisDate))
		b.WriteString(fmt.Sprintf("SKUs scored: %d (threshold %.1fσ)\n\n",
			anom.TotalAnomaliesDetected, anom.ThresholdUsed))

		if len(anom.TopNotableChanges) == 0 {
			b.WriteString("No notable changes detected.\n\n")
		} else {
			b.WriteString("| SKU | Brand | Current | Forecast | Change $ | Change % | Z-Score |\n")
			b.WriteString("|-----|-------|---------|----------|----------|----------|--------|\n")
			for _, row := range anom.TopNotableChanges {
				b.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %+.2f | %+.2f%% | %s |\n",
					row.SKU, row.Brand,
					row.CurrentPrice, row.ForecastedPrice,
					row.PriceChangeDollars, row.ForecastedChangePct,
					row.Significance))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeCategorySection(b *strings.Builder, title string, entries []ProductEntry) {
	if len(entries) == 0 {
		return
	}

	b.WriteString(fmt.Sprintf("### %s\n\n", title))
	b.WriteString("| Product | Pack Size | Old Price | New Price | Change |\n")
	b.WriteString("|---------|-----------|-----------|-----------|--------|\n")
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("| %s | %s | %.2f | %.2f | %+.2f |\n",
			e.Product, e.PackSize, e.OldPrice, e.NewPrice, e.PriceChange))
	}
	b.WriteString("\n")
}
