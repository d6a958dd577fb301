// Package insights contains the spending pattern analysis use case.
package insights

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/domain/entity"
)

const (
	weekendShareThreshold = 40
	eveningShareThreshold = 45

	morningStartHour   = 5
	afternoonStartHour = 12
	eveningStartHour   = 17
)

// AnalyzeSpendingInput represents the input for analyzing spending patterns.
type AnalyzeSpendingInput struct {
	Transactions []entity.TransactionRecord
}

// AnalyzeSpendingUseCase reports when money is spent and flags notable patterns.
type AnalyzeSpendingUseCase struct{}

// NewAnalyzeSpendingUseCase creates a new AnalyzeSpendingUseCase instance.
func NewAnalyzeSpendingUseCase() *AnalyzeSpendingUseCase {
	return &AnalyzeSpendingUseCase{}
}

// Execute computes weekday/weekend and time-of-day spending shares.
// Records without a time of day fall into the evening bucket.
func (uc *AnalyzeSpendingUseCase) Execute(_ context.Context, input AnalyzeSpendingInput) (*entity.SpendingInsights, error) {
	if err := entity.ValidateRecords(input.Transactions); err != nil {
		return nil, err
	}

	var total, weekend, morning, afternoon, evening decimal.Decimal
	for _, exp := range entity.Expenses(input.Transactions) {
		total = total.Add(exp.Amount)

		switch exp.Date.Weekday() {
		case time.Saturday, time.Sunday:
			weekend = weekend.Add(exp.Amount)
		}

		hour := exp.Date.Hour()
		switch {
		case hour >= morningStartHour && hour < afternoonStartHour:
			morning = morning.Add(exp.Amount)
		case hour >= afternoonStartHour && hour < eveningStartHour:
			afternoon = afternoon.Add(exp.Amount)
		default:
			evening = evening.Add(exp.Amount)
		}
	}

	result := &entity.SpendingInsights{Recommendations: []entity.Insight{}}
	if !total.IsPositive() {
		return result, nil
	}

	result.WeekdayShare = share(total.Sub(weekend), total)
	result.WeekendShare = share(weekend, total)
	result.MorningShare = share(morning, total)
	result.AfternoonShare = share(afternoon, total)
	result.EveningShare = share(evening, total)

	if result.WeekendShare > weekendShareThreshold {
		result.Recommendations = append(result.Recommendations, entity.Insight{
			Type:    entity.InsightTypeSavings,
			Message: "Weekend spending is relatively high. A dedicated weekend budget could help.",
		})
	}
	if result.EveningShare > eveningShareThreshold {
		result.Recommendations = append(result.Recommendations, entity.Insight{
			Type:    entity.InsightTypeBudget,
			Message: "A large part of your spending happens in the evening. Planning purchases earlier may reduce impulse buys.",
		})
	}

	return result, nil
}

// share returns part/total as a whole percentage, rounded half up.
func share(part, total decimal.Decimal) int {
	return int(part.Div(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart())
}
