// Package valueobject contains domain value objects for the recommendation engine.
package valueobject

import (
	"fmt"
	"strings"
)

// Granularity is the size of a calendar bucket.
type Granularity string

const (
	GranularityWeekly    Granularity = "weekly"
	GranularityMonthly   Granularity = "monthly"
	GranularityQuarterly Granularity = "quarterly"
)

// IsValid reports whether the granularity is supported.
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityWeekly, GranularityMonthly, GranularityQuarterly:
		return true
	}
	return false
}

// PeriodSpec describes the forecast horizon relative to the reference date.
type PeriodSpec struct {
	Granularity  Granularity
	PeriodsAhead int // 1 = the period immediately following the reference period
}

// NextMonth is the default horizon.
func NextMonth() PeriodSpec {
	return PeriodSpec{Granularity: GranularityMonthly, PeriodsAhead: 1}
}

// ParsePeriodSpec parses horizons such as "next month", "next_week", "monthly" or "quarterly".
func ParsePeriodSpec(s string) (PeriodSpec, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	normalized = strings.TrimPrefix(normalized, "next ")

	switch normalized {
	case "", "month", "monthly":
		return NextMonth(), nil
	case "week", "weekly":
		return PeriodSpec{Granularity: GranularityWeekly, PeriodsAhead: 1}, nil
	case "quarter", "quarterly":
		return PeriodSpec{Granularity: GranularityQuarterly, PeriodsAhead: 1}, nil
	}
	return PeriodSpec{}, fmt.Errorf("unsupported horizon %q", s)
}
