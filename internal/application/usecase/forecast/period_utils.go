// Package forecast contains the spending forecaster use case.
package forecast

import (
	"fmt"
	"time"

	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

// PeriodInfo holds information about a single period.
type PeriodInfo struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	PeriodLabel string
}

// calendarDay strips the clock and location, keeping the calendar date as written.
func calendarDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}

// GeneratePeriodLabel generates a human-readable label for a period based on granularity.
// Formats:
// - Weekly: "Week {iso_week} {iso_year}" (e.g., "Week 23 2024")
// - Monthly: "{month} {year}" (e.g., "June 2024")
// - Quarterly: "Q{quarter} {year}" (e.g., "Q3 2024")
func GeneratePeriodLabel(date time.Time, granularity valueobject.Granularity) string {
	switch granularity {
	case valueobject.GranularityWeekly:
		year, week := date.ISOWeek()
		return fmt.Sprintf("Week %d %d", week, year)
	case valueobject.GranularityQuarterly:
		quarter := (int(date.Month())-1)/3 + 1
		return fmt.Sprintf("Q%d %d", quarter, date.Year())
	default:
		return fmt.Sprintf("%s %d", date.Month().String(), date.Year())
	}
}

// GetPeriodStart returns the first day of the period containing the given date.
func GetPeriodStart(date time.Time, granularity valueobject.Granularity) time.Time {
	day := calendarDay(date)

	switch granularity {
	case valueobject.GranularityWeekly:
		return getWeekStartDate(day)
	case valueobject.GranularityQuarterly:
		quarter := (int(day.Month()) - 1) / 3
		return time.Date(day.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// GetPeriodBounds returns the first and last day of the period containing the given date.
func GetPeriodBounds(date time.Time, granularity valueobject.Granularity) (start, end time.Time) {
	start = GetPeriodStart(date, granularity)
	end = AddPeriods(start, granularity, 1).AddDate(0, 0, -1)
	return start, end
}

// AddPeriods shifts a period start by n periods (n may be negative).
func AddPeriods(start time.Time, granularity valueobject.Granularity, n int) time.Time {
	switch granularity {
	case valueobject.GranularityWeekly:
		return start.AddDate(0, 0, 7*n)
	case valueobject.GranularityQuarterly:
		return start.AddDate(0, 3*n, 0)
	default:
		return start.AddDate(0, n, 0)
	}
}

// PeriodsBetween returns how many periods separate two period starts.
func PeriodsBetween(from, to time.Time, granularity valueobject.Granularity) int {
	switch granularity {
	case valueobject.GranularityWeekly:
		return int(to.Sub(from).Hours() / (24 * 7))
	case valueobject.GranularityQuarterly:
		return monthIndex(to)/3 - monthIndex(from)/3
	default:
		return monthIndex(to) - monthIndex(from)
	}
}

func monthIndex(date time.Time) int {
	return date.Year()*12 + int(date.Month()) - 1
}

// GeneratePeriodSeries generates all periods from the period containing startDate
// through the period containing endDate, with no gaps.
func GeneratePeriodSeries(startDate, endDate time.Time, granularity valueobject.Granularity) []PeriodInfo {
	var periods []PeriodInfo

	last := GetPeriodStart(endDate, granularity)
	for current := GetPeriodStart(startDate, granularity); !current.After(last); current = AddPeriods(current, granularity, 1) {
		_, periodEnd := GetPeriodBounds(current, granularity)
		periods = append(periods, PeriodInfo{
			PeriodStart: current,
			PeriodEnd:   periodEnd,
			PeriodLabel: GeneratePeriodLabel(current, granularity),
		})
	}

	return periods
}

// getWeekStartDate returns the Monday of the week containing the given date.
func getWeekStartDate(date time.Time) time.Time {
	weekday := int(date.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday is 7
	}
	daysFromMonday := weekday - 1
	return time.Date(date.Year(), date.Month(), date.Day()-daysFromMonday, 0, 0, 0, 0, date.Location())
}

// GetPeriodKeyForDate returns a unique key for the period containing the given date.
func GetPeriodKeyForDate(date time.Time, granularity valueobject.Granularity) string {
	return GetPeriodStart(date, granularity).Format("2006-01-02")
}
