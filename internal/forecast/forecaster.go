// Package forecast projects next-period prices from per-SKU trend
// statistics using a recency-weighted average of recent changes.
package forecast

import (
	"math"

	"pricelab/internal/domain"
)

const (
	// MinChangesForWeighted is the minimum number of recorded changes
	// before the recency-weighted average is used; below it the plain
	// historical mean stands in.
	MinChangesForWeighted = 3

	// RecentWindow caps how many of the most recent changes feed the
	// weighted average.
	RecentWindow = 8
)

// Options tunes the projection. Zero values fall back to the package
// defaults.
type Options struct {
	MinChangesForWeighted int
	RecentWindow          int
}

// FromStatistics produces one Forecast per eligible SKU using the
// default window. SKUs with no recorded changes or a zero latest price
// are skipped entirely, never zero-filled.
func FromStatistics(stats map[string]*domain.TrendStatistics) map[string]*domain.Forecast {
	return FromStatisticsOpts(stats, Options{})
}

// FromStatisticsOpts is FromStatistics with tunable window parameters.
func FromStatisticsOpts(stats map[string]*domain.TrendStatistics, opts Options) map[string]*domain.Forecast {
	minChanges := opts.MinChangesForWeighted
	if minChanges <= 0 {
		minChanges = MinChangesForWeighted
	}
	window := opts.RecentWindow
	if window <= 0 {
		window = RecentWindow
	}

	out := make(map[string]*domain.Forecast, len(stats))

	for sku, s := range stats {
		// A zero base cannot be scaled; checked independently of the
		// change-count logic.
		if s.LatestPrice == 0 {
			continue
		}

		var changePct float64
		switch {
		case len(s.AllChanges) >= minChanges:
			recent := s.AllChanges
			if len(recent) > window {
				recent = recent[len(recent)-window:]
			}
			changePct = weightedAverage(recent)
		case len(s.AllChanges) >= 1:
			changePct = s.MeanChangePct
		default:
			continue
		}

		out[sku] = &domain.Forecast{
			SKU:          sku,
			Brand:        s.Brand,
			PackSize:     s.PackSize,
			PackVolumeML: s.PackVolumeML,
			PackType:     s.PackType,

			CurrentPrice: s.LatestPrice,
			CurrentWeek:  s.LatestWeek,

			ForecastedPrice:     s.LatestPrice * (1 + changePct/100),
			ForecastedChangePct: changePct,

			HistoricalMeanChangePct: s.MeanChangePct,
			HistoricalStdChangePct:  s.StdChangePct,
		}
	}

	return out
}

// weightedAverage computes the exponential recency-weighted average of
// changes: weights exp(-1)..exp(0) spaced evenly over the window and
// normalized to sum to 1, so the most recent change weighs heaviest.
func weightedAverage(changes []float64) float64 {
	n := len(changes)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return changes[0]
	}

	weights := make([]float64, n)
	sum := 0.0
	for i := range weights {
		exponent := -1 + float64(i)/float64(n-1)
		weights[i] = math.Exp(exponent)
		sum += weights[i]
	}

	avg := 0.0
	for i, c := range changes {
		avg += c * weights[i] / sum
	}
	return avg
}
