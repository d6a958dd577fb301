// Package entity defines the core business entities for the domain layer.
package entity

import "github.com/shopspring/decimal"

// BudgetPlan is the result of splitting income into savings and spending.
type BudgetPlan struct {
	RecommendedSavings  decimal.Decimal
	MaxVariableSpending decimal.Decimal
	RemainingBalance    decimal.Decimal // May be negative
}

// Overspending reports whether the plan leaves a negative balance.
func (p BudgetPlan) Overspending() bool {
	return p.RemainingBalance.IsNegative()
}
