// Package reporting builds the interop output envelopes. Field names in
// the JSON artifacts are a compatibility contract with the downstream
// email renderer and must not change.
package reporting

import (
	"sort"
	"time"

	"pricelab/internal/anomaly"
	"pricelab/internal/classify"
	"pricelab/internal/domain"
	"pricelab/internal/numeric"
)

const (
	analysisDateFormat = "2006-01-02 15:04:05"
	weekFormat         = "2006-01-02"
)

// ProductEntry is one categorized product row.
type ProductEntry struct {
	Product       string   `json:"product"`
	PackSize      string   `json:"pack_size"`
	OldPrice      float64  `json:"old_price"`
	NewPrice      float64  `json:"new_price"`
	PriceChange   float64  `json:"price_change"`
	PriceRatioPct *float64 `json:"price_ratio_pct,omitempty"`
	Note          string   `json:"note,omitempty"`
	SaleType      string   `json:"sale_type,omitempty"`
}

// CategorizationSummary is the per-category count block.
type CategorizationSummary struct {
	LicenseeChangesCount  int `json:"licensee_changes_count"`
	NewSkusCount          int `json:"new_skus_count"`
	PermanentChangesCount int `json:"permanent_changes_count"`
	BeginLTOCount         int `json:"begin_lto_count"`
	EndLTOCount           int `json:"end_lto_count"`
	UnclassifiedCount     int `json:"unclassified_count"`
}

// CategorizedReport is the categorization artifact.
type CategorizedReport struct {
	LicenseeChanges  []ProductEntry `json:"licensee_changes"`
	NewSkus          []ProductEntry `json:"new_skus"`
	PermanentChanges []ProductEntry `json:"permanent_changes"`
	BeginLTO         []ProductEntry `json:"begin_lto"`
	EndLTO           []ProductEntry `json:"end_lto"`
	Unclassified     []ProductEntry `json:"unclassified"`

	TotalProducts         int                   `json:"total_products"`
	ExcludedInvalidPrices int                   `json:"excluded_invalid_price_rows"`
	Summary               CategorizationSummary `json:"categorization_summary"`
	AnalysisDate          string                `json:"analysis_date"`
}

// zeroBaseNote annotates the old_price == 0 policy branch.
const zeroBaseNote = "Zero old price - categorized as permanent change"

// BuildCategorizedReport assembles the artifact from a classification
// result. Entries keep report order within each category.
func BuildCategorizedReport(res *classify.Result, now time.Time) *CategorizedReport {
	r := &CategorizedReport{
		TotalProducts:         len(res.Classified) + res.ExcludedInvalid,
		ExcludedInvalidPrices: res.ExcludedInvalid,
		AnalysisDate:          now.Format(analysisDateFormat),
	}

	for _, c := range res.Classified {
		entry := productEntry(c)
		switch c.Category {
		case domain.CategoryLicenseeChange:
			r.LicenseeChanges = append(r.LicenseeChanges, entry)
		case domain.CategoryNewSku:
			r.NewSkus = append(r.NewSkus, entry)
		case domain.CategoryPermanentChange:
			r.PermanentChanges = append(r.PermanentChanges, entry)
		case domain.CategoryBeginLTO:
			r.BeginLTO = append(r.BeginLTO, entry)
		case domain.CategoryEndLTO:
			r.EndLTO = append(r.EndLTO, entry)
		default:
			r.Unclassified = append(r.Unclassified, entry)
		}
	}

	r.Summary = CategorizationSummary{
		LicenseeChangesCount:  len(r.LicenseeChanges),
		NewSkusCount:          len(r.NewSkus),
		PermanentChangesCount: len(r.PermanentChanges),
		BeginLTOCount:         len(r.BeginLTO),
		EndLTOCount:           len(r.EndLTO),
		UnclassifiedCount:     len(r.Unclassified),
	}

	return r
}

func productEntry(c *domain.ClassifiedRecord) ProductEntry {
	rec := c.Record
	entry := ProductEntry{
		Product:     rec.ProductName,
		PackSize:    rec.PackSize,
		OldPrice:    rec.OldPrice.Round(2).InexactFloat64(),
		NewPrice:    rec.NewPrice.Round(2).InexactFloat64(),
		PriceChange: rec.PriceChange().InexactFloat64(),
	}

	if c.HasRatio {
		ratio := numeric.Round2(c.PriceRatioPct)
		entry.PriceRatioPct = &ratio
	}
	if c.ZeroBase {
		zero := 0.0
		entry.PriceRatioPct = &zero
		entry.Note = zeroBaseNote
	}
	if c.Category == domain.CategoryUnclassified {
		entry.SaleType = rec.RawSaleType
	}

	return entry
}

// SkuAnalysisEntry is one SKU's block in the trend-analysis artifact.
type SkuAnalysisEntry struct {
	Brand        string  `json:"brand"`
	PackSize     string  `json:"pack_size"`
	PackVolumeML float64 `json:"pack_volume_ml"`
	PackType     string  `json:"pack_type"`

	TotalWeeks   int `json:"total_weeks"`
	TotalChanges int `json:"total_changes"`

	MeanChangePct float64   `json:"mean_change_pct"`
	StdChangePct  float64   `json:"std_change_pct"`
	MinChangePct  float64   `json:"min_change_pct"`
	MaxChangePct  float64   `json:"max_change_pct"`
	LatestPrice   float64   `json:"latest_price"`
	LatestWeek    string    `json:"latest_week"`
	AllChanges    []float64 `json:"all_changes"`
}

// TrendReport is the historical-analysis artifact.
type TrendReport struct {
	SkuAnalysis  map[string]SkuAnalysisEntry `json:"sku_analysis"`
	TotalSkus    int                         `json:"total_skus"`
	AnalysisDate string                      `json:"analysis_date"`
}

// BuildTrendReport assembles the trend artifact from analyzer output.
func BuildTrendReport(stats map[string]*domain.TrendStatistics, now time.Time) *TrendReport {
	r := &TrendReport{
		SkuAnalysis:  make(map[string]SkuAnalysisEntry, len(stats)),
		TotalSkus:    len(stats),
		AnalysisDate: now.Format(analysisDateFormat),
	}

	for sku, s := range stats {
		r.SkuAnalysis[sku] = SkuAnalysisEntry{
			Brand:        s.Brand,
			PackSize:     s.PackSize,
			PackVolumeML: s.PackVolumeML,
			PackType:     s.PackType,

			TotalWeeks:   s.TotalWeeks,
			TotalChanges: s.TotalChanges,

			MeanChangePct: numeric.Round2(s.MeanChangePct),
			StdChangePct:  numeric.Round2(s.StdChangePct),
			MinChangePct:  numeric.Round2(s.MinChangePct),
			MaxChangePct:  numeric.Round2(s.MaxChangePct),
			LatestPrice:   numeric.Round2(s.LatestPrice),
			LatestWeek:    s.LatestWeek.Format(weekFormat),
			AllChanges:    s.AllChanges,
		}
	}

	return r
}

// ForecastEntry is one SKU's block in the forecast artifact.
type ForecastEntry struct {
	Brand        string  `json:"brand"`
	PackSize     string  `json:"pack_size"`
	PackVolumeML float64 `json:"pack_volume_ml"`
	PackType     string  `json:"pack_type"`

	CurrentPrice float64 `json:"current_price"`
	CurrentWeek  string  `json:"current_week"`

	ForecastedPrice     float64 `json:"forecasted_price"`
	ForecastedChangePct float64 `json:"forecasted_change_pct"`

	HistoricalMeanChangePct float64 `json:"historical_mean_change_pct"`
	HistoricalStdChangePct  float64 `json:"historical_std_change_pct"`
}

// ForecastReport is the price-forecast artifact.
type ForecastReport struct {
	Forecasts           map[string]ForecastEntry `json:"forecasts"`
	TotalSkusForecasted int                      `json:"total_skus_forecasted"`
	ForecastDate        string                   `json:"forecast_date"`
}

// BuildForecastReport assembles the forecast artifact.
func BuildForecastReport(forecasts map[string]*domain.Forecast, now time.Time) *ForecastReport {
	r := &ForecastReport{
		Forecasts:           make(map[string]ForecastEntry, len(forecasts)),
		TotalSkusForecasted: len(forecasts),
		ForecastDate:        now.Format(analysisDateFormat),
	}

	for sku, f := range forecasts {
		r.Forecasts[sku] = ForecastEntry{
			Brand:        f.Brand,
			PackSize:     f.PackSize,
			PackVolumeML: f.PackVolumeML,
			PackType:     f.PackType,

			CurrentPrice: numeric.Round2(f.CurrentPrice),
			CurrentWeek:  f.CurrentWeek.Format(weekFormat),

			ForecastedPrice:     numeric.Round2(f.ForecastedPrice),
			ForecastedChangePct: numeric.Round2(f.ForecastedChangePct),

			HistoricalMeanChangePct: numeric.Round2(f.HistoricalMeanChangePct),
			HistoricalStdChangePct:  numeric.Round2(f.HistoricalStdChangePct),
		}
	}

	return r
}

// AnomalyRow is one ranked entry of the notable-changes artifact.
type AnomalyRow struct {
	SKU          string  `json:"sku"`
	Brand        string  `json:"brand"`
	PackSize     string  `json:"pack_size"`
	PackVolumeML float64 `json:"pack_volume_ml"`
	PackType     string  `json:"pack_type"`

	CurrentPrice       float64 `json:"current_price"`
	ForecastedPrice    float64 `json:"forecasted_price"`
	PriceChangeDollars float64 `json:"price_change_dollars"`

	ForecastedChangePct     float64 `json:"forecasted_change_pct"`
	HistoricalMeanChangePct float64 `json:"historical_mean_change_pct"`
	HistoricalStdChangePct  float64 `json:"historical_std_change_pct"`

	ZScore       float64 `json:"z_score"`
	Significance string  `json:"significance"`
}

// AnomalyReport is the notable-changes artifact.
type AnomalyReport struct {
	TopNotableChanges      []AnomalyRow `json:"top_10_notable_changes"`
	TotalAnomaliesDetected int          `json:"total_anomalies_detected"`
	ThresholdUsed          float64      `json:"threshold_used"`
	AnalysisDate           string       `json:"analysis_date"`
}

// BuildAnomalyReport assembles the notable-changes artifact.
func BuildAnomalyReport(res *anomaly.Result, now time.Time) *AnomalyReport {
	r := &AnomalyReport{
		TopNotableChanges:      make([]AnomalyRow, 0, len(res.Top)),
		TotalAnomaliesDetected: res.TotalDetected,
		ThresholdUsed:          res.ThresholdSigma,
		AnalysisDate:           now.Format(analysisDateFormat),
	}

	for _, e := range res.Top {
		r.TopNotableChanges = append(r.TopNotableChanges, AnomalyRow{
			SKU:          e.SKU,
			Brand:        e.Brand,
			PackSize:     e.PackSize,
			PackVolumeML: e.PackVolumeML,
			PackType:     e.PackType,

			CurrentPrice:       numeric.Round2(e.CurrentPrice),
			ForecastedPrice:    numeric.Round2(e.ForecastedPrice),
			PriceChangeDollars: numeric.Round2(e.PriceChangeDollars),

			ForecastedChangePct:     numeric.Round2(e.ForecastedChangePct),
			HistoricalMeanChangePct: numeric.Round2(e.HistoricalMeanChangePct),
			HistoricalStdChangePct:  numeric.Round2(e.HistoricalStdChangePct),

			ZScore:       numeric.Round2(e.ZScore),
			Significance: e.Significance,
		})
	}

	return r
}

// SortedSkus returns the SKU keys of a trend map in ascending order,
// for deterministic iteration in renderers and stores.
func SortedSkus[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
