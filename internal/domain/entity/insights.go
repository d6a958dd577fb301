// Package entity defines the core business entities for the domain layer.
package entity

// InsightType classifies a spending-pattern recommendation.
type InsightType string

const (
	InsightTypeSavings InsightType = "savings"
	InsightTypeBudget  InsightType = "budget"
)

// Insight is a single pattern-based recommendation.
type Insight struct {
	Type    InsightType
	Message string
}

// SpendingInsights holds spending distribution percentages and derived insights.
type SpendingInsights struct {
	WeekdayShare    int
	WeekendShare    int
	MorningShare    int
	AfternoonShare  int
	EveningShare    int
	Recommendations []Insight
}
