package domain

import "time"

// Forecast is the next-period price projection for one SKU.
// One forecast exists per SKU with at least one valid historical price
// and a non-zero latest price.
type Forecast struct {
	SKU          string
	Brand        string
	PackSize     string
	PackVolumeML float64
	PackType     string

	CurrentPrice float64
	CurrentWeek  time.Time

	ForecastedPrice     float64
	ForecastedChangePct float64

	// Historical mean/std are copied from TrendStatistics for traceability.
	HistoricalMeanChangePct float64
	HistoricalStdChangePct  float64
}

// AnomalyEntry is one ranked row of the notable-changes output.
// ZScore is |forecasted change - historical mean| / historical std;
// SKUs with zero historical std never appear here.
type AnomalyEntry struct {
	SKU          string
	Brand        string
	PackSize     string
	PackVolumeML float64
	PackType     string

	CurrentPrice       float64
	ForecastedPrice    float64
	PriceChangeDollars float64

	ForecastedChangePct     float64
	HistoricalMeanChangePct float64
	HistoricalStdChangePct  float64

	ZScore       float64
	Significance string
}
