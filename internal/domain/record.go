package domain

import "github.com/shopspring/decimal"

// SaleType identifies how a product is sold in the distributor report.
type SaleType string

const (
	SaleTypeRetailPrice SaleType = "RETAIL_PRICE"
	SaleTypeLicensee    SaleType = "LICENSEE"
	SaleTypeNewSku      SaleType = "NEW_SKU"
	SaleTypeOther       SaleType = "OTHER"
)

// PriceRecord is one normalized row of a price-change report.
// Constructed once at ingestion and never mutated afterwards;
// classification results live on a separate envelope.
type PriceRecord struct {
	ProductName string
	PackSize    string
	SaleType    SaleType
	OldPrice    decimal.Decimal
	NewPrice    decimal.Decimal

	// PricesValid is false when either price field could not be parsed.
	// Invalid records are excluded from classification, never zeroed.
	PricesValid bool

	// RawSaleType preserves the report's original sale-type string.
	RawSaleType string
}

// PriceChange returns new - old rounded to cents.
func (r *PriceRecord) PriceChange() decimal.Decimal {
	return r.NewPrice.Sub(r.OldPrice).Round(2)
}

// ChangeCategory is the classification taxonomy for one record.
// Exactly one category applies per record.
type ChangeCategory string

const (
	CategoryLicenseeChange  ChangeCategory = "LICENSEE_CHANGE"
	CategoryNewSku          ChangeCategory = "NEW_SKU"
	CategoryPermanentChange ChangeCategory = "PERMANENT_CHANGE"
	CategoryBeginLTO        ChangeCategory = "BEGIN_LTO"
	CategoryEndLTO          ChangeCategory = "END_LTO"
	// CategoryNoChange completes the taxonomy for consumers storing or
	// filtering on category values. The decision order never emits it:
	// an unchanged retail price lands exactly on the 100% ratio, which
	// classifies as a permanent change.
	CategoryNoChange ChangeCategory = "NO_CHANGE"
	// CategoryUnclassified covers sale types outside the known set.
	// These records are reported, not dropped.
	CategoryUnclassified ChangeCategory = "UNCLASSIFIED"
)

// ClassifiedRecord is the classification envelope for one PriceRecord.
type ClassifiedRecord struct {
	Record   *PriceRecord
	Category ChangeCategory

	// PriceRatioPct = new/old * 100. Set only for retail-price records
	// with a positive old price.
	PriceRatioPct float64
	HasRatio      bool

	// ZeroBase marks the old_price == 0 branch where no ratio exists.
	ZeroBase bool
}
