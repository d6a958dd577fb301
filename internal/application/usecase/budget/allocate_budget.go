// Package budget contains the budget allocation use case.
package budget

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/domain/entity"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

// AllocateBudgetInput represents the input for budget allocation.
type AllocateBudgetInput struct {
	Income           decimal.Decimal
	FixedExpenses    decimal.Decimal
	VariableExpenses decimal.Decimal
	// Config overrides the use case defaults when non-nil.
	Config *valueobject.AllocationConfig
}

// AllocateBudgetUseCase splits income into savings, a variable spending ceiling and the remainder.
type AllocateBudgetUseCase struct {
	defaults valueobject.AllocationConfig
}

// NewAllocateBudgetUseCase creates a new AllocateBudgetUseCase instance.
func NewAllocateBudgetUseCase(defaults valueobject.AllocationConfig) *AllocateBudgetUseCase {
	return &AllocateBudgetUseCase{
		defaults: defaults,
	}
}

// Execute performs the allocation. The result depends only on the input.
func (uc *AllocateBudgetUseCase) Execute(_ context.Context, input AllocateBudgetInput) (*entity.BudgetPlan, error) {
	cfg := uc.defaults
	if input.Config != nil {
		cfg = *input.Config
	}

	if err := validateInput(input, cfg); err != nil {
		return nil, err
	}

	savings := input.Income.Mul(cfg.SavingsRate)
	committed := input.FixedExpenses.Add(input.VariableExpenses).Add(savings)

	return &entity.BudgetPlan{
		RecommendedSavings:  savings,
		MaxVariableSpending: input.Income.Mul(cfg.VariableCeilingRate),
		RemainingBalance:    input.Income.Sub(committed),
	}, nil
}

// validateInput validates the amounts and rates.
func validateInput(input AllocateBudgetInput, cfg valueobject.AllocationConfig) error {
	if input.Income.IsNegative() {
		return domainerror.NewInvalidInputError(domainerror.ErrCodeNegativeIncome, "income must not be negative")
	}

	if input.FixedExpenses.IsNegative() {
		return domainerror.NewInvalidInputError(domainerror.ErrCodeNegativeFixedExpenses, "fixed expenses must not be negative")
	}

	if input.VariableExpenses.IsNegative() {
		return domainerror.NewInvalidInputError(domainerror.ErrCodeNegativeVariableExpenses, "variable expenses must not be negative")
	}

	if !valueobject.IsRate(cfg.SavingsRate) {
		return domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidSavingsRate, "savings rate must be between 0 and 1")
	}

	if !valueobject.IsRate(cfg.VariableCeilingRate) {
		return domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidCeilingRate, "variable ceiling rate must be between 0 and 1")
	}

	return nil
}
