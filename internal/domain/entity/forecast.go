// Package entity defines the core business entities for the domain layer.
package entity

import "github.com/shopspring/decimal"

// Trend is the qualitative direction of spending across periods.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendStable     Trend = "stable"
	TrendDecreasing Trend = "decreasing"
)

// CategoryForecast is the projection for a single category.
type CategoryForecast struct {
	Name            string
	PredictedAmount decimal.Decimal
	Slope           decimal.Decimal
	Trend           Trend
}

// ForecastResult aggregates the projection for the next period.
// NextPeriodTotal is always the sum of the category predictions.
type ForecastResult struct {
	NextPeriodTotal      decimal.Decimal
	Confidence           float64
	PredictedPeriodLabel string
	Categories           []CategoryForecast
	OverallTrend         Trend
	HistoryPeriods       int
	Strategy             string
	Message              string
}
