// Package anomaly ranks forecasted price changes by how far they sit
// from each SKU's historical behavior.
package anomaly

import (
	"fmt"
	"math"
	"sort"

	"pricelab/internal/domain"
)

// TopN is the fixed size of the notable-changes list. The output is
// always "the N most significant", never a sigma-cutoff filter.
const TopN = 10

// DefaultThresholdSigma is carried through to the output for
// traceability. It has no filtering effect on the ranking.
const DefaultThresholdSigma = 1.5

// Result is the ranked anomaly output.
type Result struct {
	// Top holds at most TopN entries, z-score descending, ties broken
	// by SKU for reproducible output.
	Top []*domain.AnomalyEntry

	// TotalDetected counts every SKU that received a z-score, including
	// those outside the top N.
	TotalDetected int

	// ThresholdSigma echoes the configured threshold. Unused by the
	// ranking itself.
	ThresholdSigma float64
}

// Rank scores each forecast against its historical mean and std,
// keeping the top TopN. SKUs with zero historical std are excluded:
// their z-score is undefined, not infinite.
func Rank(forecasts map[string]*domain.Forecast, thresholdSigma float64) *Result {
	return RankN(forecasts, TopN, thresholdSigma)
}

// RankN is Rank with a tunable list size.
func RankN(forecasts map[string]*domain.Forecast, topN int, thresholdSigma float64) *Result {
	if topN <= 0 {
		topN = TopN
	}
	entries := make([]*domain.AnomalyEntry, 0, len(forecasts))

	for sku, f := range forecasts {
		if f.HistoricalStdChangePct <= 0 {
			continue
		}

		z := math.Abs(f.ForecastedChangePct-f.HistoricalMeanChangePct) / f.HistoricalStdChangePct

		entries = append(entries, &domain.AnomalyEntry{
			SKU:          sku,
			Brand:        f.Brand,
			PackSize:     f.PackSize,
			PackVolumeML: f.PackVolumeML,
			PackType:     f.PackType,

			CurrentPrice:       f.CurrentPrice,
			ForecastedPrice:    f.ForecastedPrice,
			PriceChangeDollars: f.ForecastedPrice - f.CurrentPrice,

			ForecastedChangePct:     f.ForecastedChangePct,
			HistoricalMeanChangePct: f.HistoricalMeanChangePct,
			HistoricalStdChangePct:  f.HistoricalStdChangePct,

			ZScore:       z,
			Significance: fmt.Sprintf("%.1fσ", z),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ZScore != entries[j].ZScore {
			return entries[i].ZScore > entries[j].ZScore
		}
		return entries[i].SKU < entries[j].SKU
	})

	res := &Result{
		TotalDetected:  len(entries),
		ThresholdSigma: thresholdSigma,
	}
	if len(entries) > topN {
		entries = entries[:topN]
	}
	res.Top = entries
	return res
}
