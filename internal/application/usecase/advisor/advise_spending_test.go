package advisor

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/domain/entity"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func expense(amount, category, date string) entity.TransactionRecord {
	return entity.TransactionRecord{
		Amount:   dec(amount),
		Category: category,
		Date:     day(date),
		Type:     entity.TransactionTypeExpense,
	}
}

func TestAdviseSpending_EmptyHistory(t *testing.T) {
	uc := NewAdviseSpendingUseCase(valueobject.DefaultAdvisorConfig())

	set, err := uc.Execute(context.Background(), AdviseSpendingInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if set.Suggestions == nil || len(set.Suggestions) != 0 {
		t.Errorf("expected empty non-nil suggestions, got %v", set.Suggestions)
	}
	if !set.TotalPotentialSavings.IsZero() {
		t.Errorf("expected zero total, got %s", set.TotalPotentialSavings)
	}
	if set.Message != healthyMessage {
		t.Errorf("expected message %q, got %q", healthyMessage, set.Message)
	}
}

func TestAdviseSpending_FoodAndDiningScenario(t *testing.T) {
	uc := NewAdviseSpendingUseCase(valueobject.DefaultAdvisorConfig())

	txs := []entity.TransactionRecord{
		expense("300", "Food & Dining", "2024-01-10"),
		expense("300", "Food & Dining", "2024-02-10"),
		expense("300", "Food & Dining", "2024-03-10"),
	}

	set, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: txs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Suggestions) != 1 {
		t.Fatalf("expected 1 suggestion, got %d", len(set.Suggestions))
	}

	s := set.Suggestions[0]
	if s.Category != "Food & Dining" {
		t.Errorf("expected Food & Dining, got %s", s.Category)
	}
	if !s.PotentialSavings.IsPositive() || s.PotentialSavings.GreaterThan(dec("900")) {
		t.Errorf("expected 0 < savings <= 900, got %s", s.PotentialSavings)
	}
	if !s.PotentialSavings.Equal(dec("135")) {
		t.Errorf("expected savings 135, got %s", s.PotentialSavings)
	}
	if !s.CurrentSpending.Equal(dec("900")) {
		t.Errorf("expected current spending 900, got %s", s.CurrentSpending)
	}
	if !s.SuggestedSpending.Equal(dec("765")) {
		t.Errorf("expected suggested spending 765, got %s", s.SuggestedSpending)
	}
	if !set.AnnualPotentialSavings.Equal(dec("540")) {
		t.Errorf("expected annual savings 540, got %s", set.AnnualPotentialSavings)
	}
}

func TestAdviseSpending_RankingAndTotal(t *testing.T) {
	uc := NewAdviseSpendingUseCase(valueobject.DefaultAdvisorConfig())

	txs := []entity.TransactionRecord{
		expense("100", "Transportation", "2024-03-01"),
		expense("500", "Shopping", "2024-03-02"),
		expense("200", "Food & Dining", "2024-03-03"),
		expense("50", "Shopping", "2024-03-04"),
		expense("1000", "Salary", "2024-03-05"),
	}
	txs[4].Type = entity.TransactionTypeIncome

	set, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: txs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedOrder := []string{"Shopping", "Food & Dining", "Transportation"}
	if len(set.Suggestions) != len(expectedOrder) {
		t.Fatalf("expected %d suggestions, got %d", len(expectedOrder), len(set.Suggestions))
	}
	for i, category := range expectedOrder {
		if set.Suggestions[i].Category != category {
			t.Errorf("position %d: expected %s, got %s", i, category, set.Suggestions[i].Category)
		}
	}

	sum := decimal.Zero
	for _, s := range set.Suggestions {
		sum = sum.Add(s.PotentialSavings)
	}
	if !sum.Equal(set.TotalPotentialSavings) {
		t.Errorf("expected total %s to equal sum %s", set.TotalPotentialSavings, sum)
	}
	// 550*0.20 + 200*0.15 + 100*0.10
	if !set.TotalPotentialSavings.Equal(dec("150")) {
		t.Errorf("expected total 150, got %s", set.TotalPotentialSavings)
	}
}

func TestAdviseSpending_TieBreakByFirstAppearance(t *testing.T) {
	uc := NewAdviseSpendingUseCase(valueobject.DefaultAdvisorConfig())

	txs := []entity.TransactionRecord{
		expense("100", "Pets", "2024-03-01"),
		expense("100", "Gifts", "2024-03-02"),
		expense("100", "Hobbies", "2024-03-03"),
	}

	set, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: txs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expectedOrder := []string{"Pets", "Gifts", "Hobbies"}
	for i, category := range expectedOrder {
		if set.Suggestions[i].Category != category {
			t.Errorf("position %d: expected %s, got %s", i, category, set.Suggestions[i].Category)
		}
		if set.Suggestions[i].Text != "Consider reducing spending in "+category {
			t.Errorf("expected generic text for %s, got %q", category, set.Suggestions[i].Text)
		}
	}
}

func TestAdviseSpending_Deterministic(t *testing.T) {
	uc := NewAdviseSpendingUseCase(valueobject.DefaultAdvisorConfig())

	txs := []entity.TransactionRecord{
		expense("120.50", "Entertainment", "2024-01-05"),
		expense("80", "Food & Dining", "2024-01-06"),
		expense("33.33", "Travel", "2024-02-01"),
		expense("410", "Shopping", "2024-02-11"),
		expense("75", "Food & Dining", "2024-03-01"),
	}
	reversed := make([]entity.TransactionRecord, len(txs))
	for i := range txs {
		reversed[len(txs)-1-i] = txs[i]
	}

	first, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: txs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: txs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	third, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: reversed})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("expected identical results for identical input\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if !reflect.DeepEqual(first, third) {
		t.Errorf("expected identical results for reordered input without ties\nfirst: %+v\nthird: %+v", first, third)
	}
}

func TestAdviseSpending_CategoryNamesIgnoreCase(t *testing.T) {
	uc := NewAdviseSpendingUseCase(valueobject.DefaultAdvisorConfig())

	result, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: []entity.TransactionRecord{
		expense("100", "Food & Dining", "2024-03-01"),
		expense("100", "food & dining", "2024-03-02"),
		expense("50", " FOOD & DINING ", "2024-03-03"),
	}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Suggestions) != 1 {
		t.Fatalf("expected a single suggestion, got %+v", result.Suggestions)
	}
	got := result.Suggestions[0]
	if got.Category != "Food & Dining" {
		t.Errorf("expected the first label seen, got %q", got.Category)
	}
	if !got.CurrentSpending.Equal(dec("250")) || !got.PotentialSavings.Equal(dec("37.5")) {
		t.Errorf("expected 250 spent and 37.5 saved, got %s and %s", got.CurrentSpending, got.PotentialSavings)
	}
}

func TestAdviseSpending_UnknownCategoryPolicy(t *testing.T) {
	cfg := valueobject.DefaultAdvisorConfig()
	cfg.UnknownCategoryPolicy = valueobject.UnknownCategoryOmit
	uc := NewAdviseSpendingUseCase(cfg)

	txs := []entity.TransactionRecord{
		expense("100", "Pets", "2024-03-01"),
		expense("100", "shopping", "2024-03-02"),
		expense("40", "", "2024-03-03"),
	}

	set, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: txs})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(set.Suggestions) != 1 {
		t.Fatalf("expected only the known category, got %+v", set.Suggestions)
	}
	if set.Suggestions[0].Category != "shopping" {
		t.Errorf("expected case-insensitive rule match for shopping, got %s", set.Suggestions[0].Category)
	}
}

func TestAdviseSpending_Thresholds(t *testing.T) {
	t.Run("absolute threshold", func(t *testing.T) {
		cfg := valueobject.DefaultAdvisorConfig()
		cfg.MinCategoryTotal = dec("100")
		uc := NewAdviseSpendingUseCase(cfg)

		set, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: []entity.TransactionRecord{
			expense("100", "Shopping", "2024-03-01"),
			expense("100.01", "Travel", "2024-03-02"),
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(set.Suggestions) != 1 || set.Suggestions[0].Category != "Travel" {
			t.Errorf("expected only Travel above threshold, got %+v", set.Suggestions)
		}
	})

	t.Run("share of total threshold", func(t *testing.T) {
		cfg := valueobject.DefaultAdvisorConfig()
		cfg.MinShareOfTotal = dec("0.25")
		uc := NewAdviseSpendingUseCase(cfg)

		set, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: []entity.TransactionRecord{
			expense("800", "Shopping", "2024-03-01"),
			expense("200", "Travel", "2024-03-02"),
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(set.Suggestions) != 1 || set.Suggestions[0].Category != "Shopping" {
			t.Errorf("expected only Shopping above share threshold, got %+v", set.Suggestions)
		}
	})

	t.Run("max suggestions", func(t *testing.T) {
		cfg := valueobject.DefaultAdvisorConfig()
		cfg.MaxSuggestions = 2
		uc := NewAdviseSpendingUseCase(cfg)

		set, err := uc.Execute(context.Background(), AdviseSpendingInput{Transactions: []entity.TransactionRecord{
			expense("100", "Shopping", "2024-03-01"),
			expense("200", "Travel", "2024-03-02"),
			expense("300", "Entertainment", "2024-03-03"),
		}})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(set.Suggestions) != 2 {
			t.Fatalf("expected 2 suggestions, got %d", len(set.Suggestions))
		}
		if !set.TotalPotentialSavings.Equal(dec("90")) {
			t.Errorf("expected total of emitted suggestions 90, got %s", set.TotalPotentialSavings)
		}
	})
}

func TestAdviseSpending_InvalidInput(t *testing.T) {
	uc := NewAdviseSpendingUseCase(valueobject.DefaultAdvisorConfig())

	tests := []struct {
		name         string
		record       entity.TransactionRecord
		expectedCode domainerror.RecommendationErrorCode
	}{
		{
			name:         "negative amount",
			record:       expense("-10", "Shopping", "2024-03-01"),
			expectedCode: domainerror.ErrCodeNegativeAmount,
		},
		{
			name:         "missing date",
			record:       entity.TransactionRecord{Amount: dec("10"), Category: "Shopping"},
			expectedCode: domainerror.ErrCodeInvalidTransactionDate,
		},
		{
			name:         "unknown type",
			record:       entity.TransactionRecord{Amount: dec("10"), Category: "Shopping", Date: day("2024-03-01"), Type: "refund"},
			expectedCode: domainerror.ErrCodeInvalidTransactionType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), AdviseSpendingInput{
				Transactions: []entity.TransactionRecord{expense("10", "Travel", "2024-03-01"), tt.record},
			})
			if !errors.Is(err, domainerror.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
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
