package domain

import "time"

// PriceObservation is one (sku, week, price) row of the historical table.
// Corresponds to the price_observations table in ClickHouse.
type PriceObservation struct {
	SKU          string
	Brand        string
	PackSize     string
	PackVolumeML float64
	PackType     string
	Week         time.Time
	Price        float64
}

// SkuHistory is the ordered, de-duplicated weekly price series for one SKU.
// Observations are sorted ascending by week; rows with unparsable weeks or
// prices were dropped upstream, not interpolated.
type SkuHistory struct {
	SKU          string
	Brand        string
	PackSize     string
	PackVolumeML float64
	PackType     string
	Observations []PriceObservation
}

// TrendStatistics summarizes week-over-week percentage changes for one SKU.
// AllChanges has length TotalWeeks-1; SKUs with a single valid observation
// produce no statistics at all.
type TrendStatistics struct {
	SKU          string
	Brand        string
	PackSize     string
	PackVolumeML float64
	PackType     string

	TotalWeeks   int
	TotalChanges int

	MeanChangePct float64
	StdChangePct  float64
	MinChangePct  float64
	MaxChangePct  float64
	AllChanges    []float64

	LatestPrice float64
	LatestWeek  time.Time
}
