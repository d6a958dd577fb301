// Package valueobject contains domain value objects for the recommendation engine.
package valueobject

import "github.com/shopspring/decimal"

// ForecastFallback is used when there is no spending history at all.
type ForecastFallback struct {
	Enabled       bool
	DefaultAmount decimal.Decimal
}

// ForecastConfig contains the tuning parameters of the spending forecaster.
type ForecastConfig struct {
	LookbackPeriods       int     // Periods of history considered
	AbsoluteDeadband      float64 // Minimum slope (currency per period) to leave "stable"
	RelativeDeadband      float64 // 0.01 = slope must exceed 1% of the mean period total
	ConfidenceFloor       float64 // Confidence reported with a single period of history
	FullConfidencePeriods int     // Periods needed before fit quality is trusted fully
	Fallback              ForecastFallback
}

// DefaultForecastConfig returns the default forecaster configuration.
func DefaultForecastConfig() ForecastConfig {
	return ForecastConfig{
		LookbackPeriods:       12,
		AbsoluteDeadband:      1.0,
		RelativeDeadband:      0.01,
		ConfidenceFloor:       0.3,
		FullConfidencePeriods: 6,
		Fallback: ForecastFallback{
			Enabled:       true,
			DefaultAmount: decimal.Zero,
		},
	}
}
