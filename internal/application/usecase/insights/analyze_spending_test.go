package insights

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/domain/entity"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
)

func at(amount string, ts string) entity.TransactionRecord {
	d, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return entity.TransactionRecord{
		Amount:   decimal.RequireFromString(amount),
		Category: "Shopping",
		Date:     d,
		Type:     entity.TransactionTypeExpense,
	}
}

func TestAnalyzeSpending_Empty(t *testing.T) {
	uc := NewAnalyzeSpendingUseCase()

	result, err := uc.Execute(context.Background(), AnalyzeSpendingInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.WeekdayShare != 0 || result.WeekendShare != 0 || result.EveningShare != 0 {
		t.Errorf("expected zero shares, got %+v", result)
	}
	if result.Recommendations == nil || len(result.Recommendations) != 0 {
		t.Errorf("expected empty recommendations, got %v", result.Recommendations)
	}
}

func TestAnalyzeSpending_Shares(t *testing.T) {
	tests := []struct {
		name            string
		transactions    []entity.TransactionRecord
		weekday         int
		weekend         int
		morning         int
		afternoon       int
		evening         int
		expectedInsight []entity.InsightType
	}{
		{
			name: "weekday daytime spender",
			transactions: []entity.TransactionRecord{
				at("60", "2024-06-03T09:00:00Z"), // Monday morning
				at("40", "2024-06-04T13:30:00Z"), // Tuesday afternoon
			},
			weekday:         100,
			morning:         60,
			afternoon:       40,
			expectedInsight: []entity.InsightType{},
		},
		{
			name: "weekend evening spender",
			transactions: []entity.TransactionRecord{
				at("70", "2024-06-01T21:00:00Z"), // Saturday evening
				at("30", "2024-06-03T10:00:00Z"), // Monday morning
			},
			weekday:         30,
			weekend:         70,
			morning:         30,
			evening:         70,
			expectedInsight: []entity.InsightType{entity.InsightTypeSavings, entity.InsightTypeBudget},
		},
		{
			name: "thresholds are strict",
			transactions: []entity.TransactionRecord{
				at("40", "2024-06-01T10:00:00Z"), // Saturday morning
				at("60", "2024-06-04T18:00:00Z"), // Tuesday evening
			},
			weekday:         60,
			weekend:         40,
			morning:         40,
			evening:         60,
			expectedInsight: []entity.InsightType{entity.InsightTypeBudget},
		},
	}

	uc := NewAnalyzeSpendingUseCase()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := uc.Execute(context.Background(), AnalyzeSpendingInput{Transactions: tt.transactions})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if result.WeekdayShare != tt.weekday || result.WeekendShare != tt.weekend {
				t.Errorf("expected weekday/weekend %d/%d, got %d/%d", tt.weekday, tt.weekend, result.WeekdayShare, result.WeekendShare)
			}
			if result.MorningShare != tt.morning || result.AfternoonShare != tt.afternoon || result.EveningShare != tt.evening {
				t.Errorf("expected time of day %d/%d/%d, got %d/%d/%d", tt.morning, tt.afternoon, tt.evening,
					result.MorningShare, result.AfternoonShare, result.EveningShare)
			}
			if len(result.Recommendations) != len(tt.expectedInsight) {
				t.Fatalf("expected %d insights, got %+v", len(tt.expectedInsight), result.Recommendations)
			}
			for i, typ := range tt.expectedInsight {
				if result.Recommendations[i].Type != typ {
					t.Errorf("insight %d: expected %s, got %s", i, typ, result.Recommendations[i].Type)
				}
			}
		})
	}
}

func TestAnalyzeSpending_IgnoresIncome(t *testing.T) {
	uc := NewAnalyzeSpendingUseCase()

	income := at("5000", "2024-06-01T20:00:00Z")
	income.Type = entity.TransactionTypeIncome

	result, err := uc.Execute(context.Background(), AnalyzeSpendingInput{
		Transactions: []entity.TransactionRecord{income, at("10", "2024-06-04T09:00:00Z")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WeekdayShare != 100 || result.MorningShare != 100 {
		t.Errorf("expected income to be ignored, got %+v", result)
	}
}

func TestAnalyzeSpending_InvalidInput(t *testing.T) {
	uc := NewAnalyzeSpendingUseCase()

	_, err := uc.Execute(context.Background(), AnalyzeSpendingInput{
		Transactions: []entity.TransactionRecord{at("-5", "2024-06-04T09:00:00Z")},
	})
	if !errors.Is(err, domainerror.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
