package reporting

import (
	"fmt"
	"strings"
)

// RenderAnomaliesCSV renders the ranked notable changes as CSV, one
// row per entry in rank order.
func RenderAnomaliesCSV(anom *AnomalyReport) string {
	var b strings.Builder

	b.WriteString("sku,brand,pack_size,current_price,forecasted_price,price_change_dollars,forecasted_change_pct,z_score,significance\n")
	for _, row := range anom.TopNotableChanges {
		b.WriteString(fmt.Sprintf("%s,%s,%s,%.2f,%.2f,%.2f,%.2f,%.2f,%s\n",
			csvField(row.SKU), csvField(row.Brand), csvField(row.PackSize),
			row.CurrentPrice, row.ForecastedPrice, row.PriceChangeDollars,
			row.ForecastedChangePct, row.ZScore, row.Significance))
	}

	return b.String()
}

// RenderCategoriesCSV renders every categorized record as CSV with its
// assigned category.
func RenderCategoriesCSV(cat *CategorizedReport) string {
	var b strings.Builder

	b.WriteString("category,product,pack_size,old_price,new_price,price_change\n")
	writeCategoryRows(&b, "licensee_change", cat.LicenseeChanges)
	writeCategoryRows(&b, "new_sku", cat.NewSkus)
	writeCategoryRows(&b, "permanent_change", cat.PermanentChanges)
	writeCategoryRows(&b, "begin_lto", cat.BeginLTO)
	writeCategoryRows(&b, "end_lto", cat.EndLTO)
	writeCategoryRows(&b, "unclassified", cat.Unclassified)

	return b.String()
}

func writeCategoryRows(b *strings.Builder, category string, entries []ProductEntry) {
	for _, e := range entries {
		b.WriteString(fmt.Sprintf("%s,%s,%s,%.2f,%.2f,%.2f\n",
			category, csvField(e.Product), csvField(e.PackSize),
			e.OldPrice, e.NewPrice, e.PriceChange))
	}
}

// csvField quotes a value when it contains a delimiter or quote.
func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
