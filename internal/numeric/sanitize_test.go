package numeric

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name   string
		in     float64
		want   float64
		wantOK bool
	}{
		{"finite", 1.25, 1.25, true},
		{"zero", 0, 0, true},
		{"nan becomes zero", math.NaN(), 0.0, true},
		{"positive inf undefined", math.Inf(1), 0, false},
		{"negative inf undefined", math.Inf(-1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Sanitize(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeSlice_DropsInfKeepsNaNAsZero(t *testing.T) {
	in := []float64{1.5, math.Inf(1), math.NaN(), -2.0, math.Inf(-1)}
	got := SanitizeSlice(in)
	assert.Equal(t, []float64{1.5, 0.0, -2.0}, got)
}

func TestSanitizeSlice_Empty(t *testing.T) {
	assert.Nil(t, SanitizeSlice(nil))
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"float64", 12.5, 12.5, true},
		{"int", 7, 7.0, true},
		{"numeric string", " 3.99 ", 3.99, true},
		{"delisted string", "Delisted", 0, false},
		{"empty string", "   ", 0, false},
		{"nil", nil, 0, false},
		{"nan input", math.NaN(), 0.0, true},
		{"bool unsupported", true, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFloat(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2349))
	assert.Equal(t, 1.24, Round2(1.2351))
	assert.Equal(t, -0.5, Round2(-0.499))
}
