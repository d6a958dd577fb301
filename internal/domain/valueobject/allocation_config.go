// Package valueobject contains domain value objects for the recommendation engine.
package valueobject

import "github.com/shopspring/decimal"

// AllocationConfig contains the rates used to split income.
type AllocationConfig struct {
	SavingsRate         decimal.Decimal // 0.20 = 20% of income saved
	VariableCeilingRate decimal.Decimal // 0.50 = at most 50% of income on variable spending
}

// DefaultAllocationConfig returns the default allocation rates.
func DefaultAllocationConfig() AllocationConfig {
	return AllocationConfig{
		SavingsRate:         decimal.NewFromFloat(0.20),
		VariableCeilingRate: decimal.NewFromFloat(0.50),
	}
}

// IsRate reports whether v lies in [0,1].
func IsRate(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(decimal.NewFromInt(1))
}
