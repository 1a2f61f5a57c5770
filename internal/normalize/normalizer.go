// Package normalize converts loosely-typed report rows into typed
// PriceRecord values. It is a pure, order-preserving transform: rows go
// in, records come out, nothing is mutated or re-read.
package normalize

import (
	"strings"

	"github.com/shopspring/decimal"

	"pricelab/internal/domain"
	"pricelab/internal/ingest"
)

// Sale-type strings as they appear in the distributor report. The retail
// variant appears with both a hyphen and an en dash depending on which
// system exported the sheet.
const (
	saleTypeLicenseeRaw     = "TBS - Licensee"
	saleTypeNewSkuRaw       = "New SKU"
	saleTypeRetailRaw       = "TBS - Retail Price"
	saleTypeRetailEnDashRaw = "TBS – Retail Price"
)

// Result is the outcome of normalizing one table.
type Result struct {
	Records []*domain.PriceRecord

	// EmptyRowsDropped counts rows where every field was blank.
	EmptyRowsDropped int

	// InvalidPriceRows counts records whose price fields failed to parse.
	// Those records are still present in Records with PricesValid=false.
	InvalidPriceRows int
}

// PriceRows normalizes the rows of a current-period price-change report.
// Rows that are entirely empty are dropped. A row with an unparsable
// price becomes a record with the invalid-price sentinel set, never a
// zeroed price.
func PriceRows(rows []ingest.Row) *Result {
	res := &Result{}

	for _, row := range rows {
		if rowIsEmpty(row) {
			res.EmptyRowsDropped++
			continue
		}

		rawSaleType := CollapseSpace(row["Type of Sale"])

		rec := &domain.PriceRecord{
			ProductName: CollapseSpace(row["Product Name"]),
			PackSize:    CollapseSpace(row["Pack Size"]),
			SaleType:    ParseSaleType(rawSaleType),
			RawSaleType: rawSaleType,
		}

		oldPrice, oldOK := parsePrice(row["Old Price"])
		newPrice, newOK := parsePrice(row["New Price"])
		rec.OldPrice = oldPrice
		rec.NewPrice = newPrice
		rec.PricesValid = oldOK && newOK
		if !rec.PricesValid {
			res.InvalidPriceRows++
		}

		res.Records = append(res.Records, rec)
	}

	return res
}

// ParseSaleType maps a cleaned sale-type string onto the SaleType enum.
// Unknown strings map to SaleTypeOther; such records are classified as
// unclassified later, not dropped.
func ParseSaleType(s string) domain.SaleType {
	switch s {
	case saleTypeLicenseeRaw:
		return domain.SaleTypeLicensee
	case saleTypeNewSkuRaw:
		return domain.SaleTypeNewSku
	case saleTypeRetailRaw, saleTypeRetailEnDashRaw:
		return domain.SaleTypeRetailPrice
	default:
		return domain.SaleTypeOther
	}
}

// CollapseSpace trims a string field and collapses internal runs of
// whitespace to single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// parsePrice parses a price cell. Negative and non-numeric values both
// fail the non-negative price invariant and report ok=false.
func parsePrice(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

// rowIsEmpty reports whether every cell in the row is blank.
func rowIsEmpty(row ingest.Row) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
