// Package classify applies the price-change taxonomy to normalized
// records. Classification is a total, deterministic function: the same
// record always lands in exactly one category.
package classify

import (
	"github.com/shopspring/decimal"

	"pricelab/internal/domain"
)

// LTO thresholds encode the ±4% business rule: a retail price ratio
// below 96% starts a limited-time offer, above 104% ends one. The
// boundaries themselves (exactly 96 or 104) are permanent changes.
const (
	BeginLTOThresholdPct = 96
	EndLTOThresholdPct   = 104
)

var (
	beginLTOThreshold = decimal.NewFromInt(BeginLTOThresholdPct)
	endLTOThreshold   = decimal.NewFromInt(EndLTOThresholdPct)
	hundred           = decimal.NewFromInt(100)
)

// Record classifies one PriceRecord. The record must carry valid prices;
// use Records to classify a whole report with invalid rows excluded.
func Record(rec *domain.PriceRecord) *domain.ClassifiedRecord {
	out := &domain.ClassifiedRecord{Record: rec}

	switch rec.SaleType {
	case domain.SaleTypeLicensee:
		out.Category = domain.CategoryLicenseeChange

	case domain.SaleTypeNewSku:
		out.Category = domain.CategoryNewSku

	case domain.SaleTypeRetailPrice:
		if rec.OldPrice.IsPositive() {
			ratioPct := rec.NewPrice.Div(rec.OldPrice).Mul(hundred)
			out.PriceRatioPct = ratioPct.InexactFloat64()
			out.HasRatio = true

			switch {
			case ratioPct.LessThan(beginLTOThreshold):
				out.Category = domain.CategoryBeginLTO
			case ratioPct.GreaterThan(endLTOThreshold):
				out.Category = domain.CategoryEndLTO
			default:
				out.Category = domain.CategoryPermanentChange
			}
		} else {
			// No ratio exists on a zero base. Policy: permanent change,
			// flagged so downstream readers can see the annotation.
			out.Category = domain.CategoryPermanentChange
			out.ZeroBase = true
		}

	default:
		out.Category = domain.CategoryUnclassified
	}

	return out
}

// Result is the outcome of classifying one report.
type Result struct {
	Classified []*domain.ClassifiedRecord

	// ExcludedInvalid counts records skipped for invalid prices.
	ExcludedInvalid int
}

// Records classifies a normalized report. Records with the invalid-price
// sentinel are excluded from classification and counted, per the input
// contract; everything else is classified in input order.
func Records(records []*domain.PriceRecord) *Result {
	res := &Result{}
	for _, rec := range records {
		if !rec.PricesValid {
			res.ExcludedInvalid++
			continue
		}
		res.Classified = append(res.Classified, Record(rec))
	}
	return res
}
