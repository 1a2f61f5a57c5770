// Package numeric is the single sanitization boundary for floating-point
// statistics. NaN collapses to 0.0 and ±Inf is marked undefined so that
// downstream stages never see non-finite values.
package numeric

import (
	"math"
	"strconv"
	"strings"
)

// Sanitize returns (0, true) for NaN, (0, false) for ±Inf, and the value
// itself otherwise. ok is false only when the value is undefined and must
// be excluded from aggregation.
func Sanitize(v float64) (float64, bool) {
	if math.IsNaN(v) {
		return 0.0, true
	}
	if math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// SanitizeSlice sanitizes a change series in order, dropping undefined
// (infinite) values entirely.
func SanitizeSlice(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		s, ok := Sanitize(v)
		if !ok {
			continue
		}
		out = append(out, s)
	}
	return out
}

// ParseFloat parses a loosely-typed scalar into a float64.
// Non-numeric strings (e.g. "Delisted") and non-finite results report
// ok=false; callers exclude such rows instead of zero-filling them.
func ParseFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return Sanitize(x)
	case float32:
		return Sanitize(float64(x))
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return Sanitize(f)
	default:
		return 0, false
	}
}

// Round2 rounds to two decimal places, the precision used in every
// reported price and percentage.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
