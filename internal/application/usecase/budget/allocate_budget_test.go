package budget

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAllocateBudget_Arithmetic(t *testing.T) {
	uc := NewAllocateBudgetUseCase(valueobject.DefaultAllocationConfig())

	tests := []struct {
		name              string
		income            string
		fixed             string
		variable          string
		expectedSavings   string
		expectedCeiling   string
		expectedRemaining string
	}{
		{
			name:              "typical household",
			income:            "1000",
			fixed:             "300",
			variable:          "200",
			expectedSavings:   "200",
			expectedCeiling:   "500",
			expectedRemaining: "300",
		},
		{
			name:              "larger income",
			income:            "5000",
			fixed:             "2000",
			variable:          "1500",
			expectedSavings:   "1000",
			expectedCeiling:   "2500",
			expectedRemaining: "500",
		},
		{
			name:              "zero income",
			income:            "0",
			fixed:             "0",
			variable:          "0",
			expectedSavings:   "0",
			expectedCeiling:   "0",
			expectedRemaining: "0",
		},
		{
			name:              "cents are preserved",
			income:            "1234.56",
			fixed:             "100.10",
			variable:          "50.05",
			expectedSavings:   "246.912",
			expectedCeiling:   "617.28",
			expectedRemaining: "837.498",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := uc.Execute(context.Background(), AllocateBudgetInput{
				Income:           dec(tt.income),
				FixedExpenses:    dec(tt.fixed),
				VariableExpenses: dec(tt.variable),
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !plan.RecommendedSavings.Equal(dec(tt.expectedSavings)) {
				t.Errorf("expected savings %s, got %s", tt.expectedSavings, plan.RecommendedSavings)
			}
			if !plan.MaxVariableSpending.Equal(dec(tt.expectedCeiling)) {
				t.Errorf("expected ceiling %s, got %s", tt.expectedCeiling, plan.MaxVariableSpending)
			}
			if !plan.RemainingBalance.Equal(dec(tt.expectedRemaining)) {
				t.Errorf("expected remaining %s, got %s", tt.expectedRemaining, plan.RemainingBalance)
			}
		})
	}
}

func TestAllocateBudget_NegativeRemainingIsNotAnError(t *testing.T) {
	uc := NewAllocateBudgetUseCase(valueobject.DefaultAllocationConfig())

	plan, err := uc.Execute(context.Background(), AllocateBudgetInput{
		Income:           dec("500"),
		FixedExpenses:    dec("400"),
		VariableExpenses: dec("300"),
	})
	if err != nil {
		t.Fatalf("expected no error for overspending, got %v", err)
	}

	if !plan.RemainingBalance.Equal(dec("-300")) {
		t.Errorf("expected remaining -300, got %s", plan.RemainingBalance)
	}
	if !plan.Overspending() {
		t.Error("expected plan to report overspending")
	}
}

func TestAllocateBudget_Validation(t *testing.T) {
	uc := NewAllocateBudgetUseCase(valueobject.DefaultAllocationConfig())

	tests := []struct {
		name         string
		input        AllocateBudgetInput
		expectedCode domainerror.RecommendationErrorCode
	}{
		{
			name:         "negative income",
			input:        AllocateBudgetInput{Income: dec("-1")},
			expectedCode: domainerror.ErrCodeNegativeIncome,
		},
		{
			name:         "negative fixed expenses",
			input:        AllocateBudgetInput{Income: dec("100"), FixedExpenses: dec("-0.01")},
			expectedCode: domainerror.ErrCodeNegativeFixedExpenses,
		},
		{
			name:         "negative variable expenses",
			input:        AllocateBudgetInput{Income: dec("100"), VariableExpenses: dec("-5")},
			expectedCode: domainerror.ErrCodeNegativeVariableExpenses,
		},
		{
			name: "savings rate above one",
			input: AllocateBudgetInput{
				Income: dec("100"),
				Config: &valueobject.AllocationConfig{SavingsRate: dec("1.5"), VariableCeilingRate: dec("0.5")},
			},
			expectedCode: domainerror.ErrCodeInvalidSavingsRate,
		},
		{
			name: "negative ceiling rate",
			input: AllocateBudgetInput{
				Income: dec("100"),
				Config: &valueobject.AllocationConfig{SavingsRate: dec("0.2"), VariableCeilingRate: dec("-0.1")},
			},
			expectedCode: domainerror.ErrCodeInvalidCeilingRate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := uc.Execute(context.Background(), tt.input)
			if err == nil {
				t.Fatalf("expected error, got plan %+v", plan)
			}

			if !errors.Is(err, domainerror.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}

			var recErr *domainerror.RecommendationError
			if !errors.As(err, &recErr) {
				t.Fatalf("expected RecommendationError, got %T", err)
			}
			if recErr.Code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, recErr.Code)
			}
		})
	}
}

func TestAllocateBudget_CustomRates(t *testing.T) {
	uc := NewAllocateBudgetUseCase(valueobject.DefaultAllocationConfig())

	plan, err := uc.Execute(context.Background(), AllocateBudgetInput{
		Income:           dec("2000"),
		FixedExpenses:    dec("1000"),
		VariableExpenses: dec("200"),
		Config:           &valueobject.AllocationConfig{SavingsRate: dec("0.1"), VariableCeilingRate: dec("0.3")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !plan.RecommendedSavings.Equal(dec("200")) {
		t.Errorf("expected savings 200, got %s", plan.RecommendedSavings)
	}
	if !plan.MaxVariableSpending.Equal(dec("600")) {
		t.Errorf("expected ceiling 600, got %s", plan.MaxVariableSpending)
	}
	if !plan.RemainingBalance.Equal(dec("600")) {
		t.Errorf("expected remaining 600, got %s", plan.RemainingBalance)
	}
}
