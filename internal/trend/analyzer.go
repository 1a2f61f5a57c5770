// Package trend computes week-over-week price-change statistics per SKU
// from the historical price table.
package trend

import (
	"math"
	"sort"
	"strings"
	"time"

	"pricelab/internal/domain"
	"pricelab/internal/ingest"
	"pricelab/internal/numeric"
)

// weekLayouts are the date formats seen in historical exports.
var weekLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// ParseResult carries parsed observations plus row-level exclusions.
type ParseResult struct {
	Observations []domain.PriceObservation

	// DroppedRows counts rows excluded for an unparsable week or price
	// (e.g. a "Delisted" price cell). Exclusions are whole-row, never a
	// zero substitution.
	DroppedRows int
}

// ParseObservations converts raw historical rows into typed observations.
// Rows whose week or price fails to parse are dropped.
func ParseObservations(rows []ingest.Row) *ParseResult {
	res := &ParseResult{}

	for _, row := range rows {
		week, ok := parseWeek(row["Week"])
		if !ok {
			res.DroppedRows++
			continue
		}
		price, ok := numeric.ParseFloat(row["Price"])
		if !ok {
			res.DroppedRows++
			continue
		}
		volume, _ := numeric.ParseFloat(row["Pack Volume ml"])

		res.Observations = append(res.Observations, domain.PriceObservation{
			SKU:          row["SKU"],
			Brand:        row["BRAND"],
			PackSize:     row["Pack Size"],
			PackVolumeML: volume,
			PackType:     row["Pack Type"],
			Week:         week,
			Price:        price,
		})
	}

	return res
}

// Analyze groups observations by SKU and computes trend statistics.
// Within a SKU, observations are sorted ascending by week and
// de-duplicated by week (last observation wins). A SKU with fewer than
// two usable observations yields no entry at all.
func Analyze(observations []domain.PriceObservation) map[string]*domain.TrendStatistics {
	bySku := make(map[string][]domain.PriceObservation)
	for _, o := range observations {
		bySku[o.SKU] = append(bySku[o.SKU], o)
	}

	out := make(map[string]*domain.TrendStatistics, len(bySku))
	for sku, obs := range bySku {
		stats := analyzeSku(sku, obs)
		if stats != nil {
			out[sku] = stats
		}
	}
	return out
}

// analyzeSku computes statistics for one SKU's series, or nil when the
// series yields no defined changes.
func analyzeSku(sku string, obs []domain.PriceObservation) *domain.TrendStatistics {
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].Week.Before(obs[j].Week)
	})

	// De-duplicate by week, keeping the last observation for a week.
	deduped := obs[:0:0]
	for _, o := range obs {
		n := len(deduped)
		if n > 0 && deduped[n-1].Week.Equal(o.Week) {
			deduped[n-1] = o
			continue
		}
		deduped = append(deduped, o)
	}

	changes := changeSeries(deduped)
	if len(changes) == 0 {
		return nil
	}

	first := deduped[0]
	latest := deduped[len(deduped)-1]

	mean := computeMean(changes)

	return &domain.TrendStatistics{
		SKU:          sku,
		Brand:        first.Brand,
		PackSize:     first.PackSize,
		PackVolumeML: first.PackVolumeML,
		PackType:     first.PackType,

		TotalWeeks:   len(deduped),
		TotalChanges: len(changes),

		MeanChangePct: mean,
		StdChangePct:  computeStddev(changes, mean),
		MinChangePct:  computeMin(changes),
		MaxChangePct:  computeMax(changes),
		AllChanges:    changes,

		LatestPrice: latest.Price,
		LatestWeek:  latest.Week,
	}
}

// changeSeries computes consecutive percentage changes. The first
// observation has no defined change; a change on a zero base is
// undefined and excluded by the sanitization boundary.
func changeSeries(obs []domain.PriceObservation) []float64 {
	if len(obs) < 2 {
		return nil
	}
	raw := make([]float64, 0, len(obs)-1)
	for i := 1; i < len(obs); i++ {
		prev := obs[i-1].Price
		if prev == 0 {
			continue // undefined change, same exclusion as ±Inf
		}
		raw = append(raw, (obs[i].Price-prev)/prev*100)
	}
	return numeric.SanitizeSlice(raw)
}

func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
// A single change has no spread and yields 0.
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

func computeMin(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func computeMax(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// parseWeek tries the known export layouts in order.
func parseWeek(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range weekLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
