package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/application/usecase/budget"
	"github.com/finance-tracker/recommender/internal/application/usecase/recommendation"
	"github.com/finance-tracker/recommender/internal/domain/entity"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

// DateLayout is the plain calendar date format accepted alongside RFC3339.
const DateLayout = "2006-01-02"

// BudgetRequest represents the request body for budget allocation.
type BudgetRequest struct {
	Income              *decimal.Decimal `json:"income" binding:"required"`
	FixedExpenses       *decimal.Decimal `json:"fixed_expenses" binding:"required"`
	VariableExpenses    *decimal.Decimal `json:"variable_expenses" binding:"required"`
	SavingsRate         *decimal.Decimal `json:"savings_rate,omitempty"`
	VariableCeilingRate *decimal.Decimal `json:"variable_ceiling_rate,omitempty"`
}

// TransactionRequest represents a single normalized transaction record.
type TransactionRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
}

// SuggestionsRequest represents the request body for savings suggestions.
type SuggestionsRequest struct {
	Transactions []TransactionRequest `json:"transactions"`
}

// ForecastRequest represents the request body for a spending forecast.
type ForecastRequest struct {
	Transactions []TransactionRequest `json:"transactions"`
	AsOf         string               `json:"as_of"`
	Horizon      string               `json:"horizon,omitempty"`
}

// InsightsRequest represents the request body for spending pattern insights.
type InsightsRequest struct {
	Transactions []TransactionRequest `json:"transactions"`
}

// RecommendationsRequest represents the request body for the combined pipeline.
type RecommendationsRequest struct {
	Budget       *BudgetRequest       `json:"budget,omitempty"`
	Transactions []TransactionRequest `json:"transactions"`
	AsOf         string               `json:"as_of"`
	Horizon      string               `json:"horizon,omitempty"`
}

// BudgetResponse represents a budget plan.
type BudgetResponse struct {
	RecommendedSavings  float64 `json:"recommendedSavings"`
	MaxVariableSpending float64 `json:"maxVariableSpending"`
	RemainingBalance    float64 `json:"remainingBalance"`
	Overspending        bool    `json:"overspending"`
}

// SuggestionResponse represents a single savings suggestion.
type SuggestionResponse struct {
	Category          string  `json:"category"`
	Suggestion        string  `json:"suggestion"`
	PotentialSavings  float64 `json:"potentialSavings"`
	CurrentSpending   float64 `json:"currentSpending"`
	SuggestedSpending float64 `json:"suggestedSpending"`
	ReductionRate     float64 `json:"reductionRate"`
}

// SuggestionsResponse represents a ranked suggestion set.
type SuggestionsResponse struct {
	Suggestions            []SuggestionResponse `json:"suggestions"`
	TotalPotentialSavings  float64              `json:"totalPotentialSavings"`
	AnnualPotentialSavings float64              `json:"annualPotentialSavings"`
	Message                string               `json:"message"`
}

// CategoryForecastResponse represents the projection for one category.
type CategoryForecastResponse struct {
	Name      string  `json:"name"`
	Predicted float64 `json:"predicted"`
	Slope     float64 `json:"slope"`
	Trend     string  `json:"trend"`
}

// ForecastResponse represents a spending forecast.
type ForecastResponse struct {
	NextMonthPrediction float64                    `json:"nextMonthPrediction"`
	Confidence          float64                    `json:"confidence"`
	PredictedMonth      string                     `json:"predictedMonth"`
	Categories          []CategoryForecastResponse `json:"categories"`
	OverallTrend        string                     `json:"overallTrend"`
	HistoryPeriods      int                        `json:"historyPeriods"`
	Strategy            string                     `json:"strategy"`
	Message             string                     `json:"message"`
}

// WeekdayWeekendResponse splits spending between weekdays and weekends, in percent.
type WeekdayWeekendResponse struct {
	Weekday int `json:"weekday"`
	Weekend int `json:"weekend"`
}

// TimeOfDayResponse splits spending by time of day, in percent.
type TimeOfDayResponse struct {
	Morning   int `json:"morning"`
	Afternoon int `json:"afternoon"`
	Evening   int `json:"evening"`
}

// SpendingPatternsResponse groups the spending distributions.
type SpendingPatternsResponse struct {
	WeekdayVsWeekend WeekdayWeekendResponse `json:"weekdayVsWeekend"`
	TimeOfDay        TimeOfDayResponse      `json:"timeOfDay"`
}

// InsightResponse represents a single pattern-based recommendation.
type InsightResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// InsightsResponse represents spending pattern insights.
type InsightsResponse struct {
	SpendingPatterns SpendingPatternsResponse `json:"spendingPatterns"`
	Recommendations  []InsightResponse        `json:"recommendations"`
}

// RecommendationsResponse represents the merged pipeline output.
type RecommendationsResponse struct {
	Budget      *BudgetResponse     `json:"budget,omitempty"`
	Suggestions SuggestionsResponse `json:"suggestions"`
	Forecast    ForecastResponse    `json:"forecast"`
	Insights    InsightsResponse    `json:"insights"`
}

// ParseDate parses a YYYY-MM-DD or RFC3339 date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD or RFC3339", value)
}

// ToTransactionRecords converts request transactions into domain records.
func ToTransactionRecords(requests []TransactionRequest) ([]entity.TransactionRecord, error) {
	records := make([]entity.TransactionRecord, len(requests))
	for i, r := range requests {
		date, err := ParseDate(r.Date)
		if err != nil {
			return nil, domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidTransactionDate,
				fmt.Sprintf("transactions[%d]: %s", i, err.Error()))
		}
		records[i] = entity.TransactionRecord{
			Amount:      r.Amount,
			Category:    r.Category,
			Date:        date,
			Type:        entity.TransactionType(strings.ToLower(strings.TrimSpace(r.Type))),
			Description: r.Description,
		}
	}
	return records, nil
}

// ToAllocateBudgetInput converts a BudgetRequest to the allocator input.
// Missing rates use the configured defaults.
func (r *BudgetRequest) ToAllocateBudgetInput(defaults valueobject.AllocationConfig) budget.AllocateBudgetInput {
	input := budget.AllocateBudgetInput{
		Income:           *r.Income,
		FixedExpenses:    *r.FixedExpenses,
		VariableExpenses: *r.VariableExpenses,
	}
	if r.SavingsRate != nil || r.VariableCeilingRate != nil {
		cfg := defaults
		if r.SavingsRate != nil {
			cfg.SavingsRate = *r.SavingsRate
		}
		if r.VariableCeilingRate != nil {
			cfg.VariableCeilingRate = *r.VariableCeilingRate
		}
		input.Config = &cfg
	}
	return input
}

// ParseAsOf parses the reference date of a forecast.
func ParseAsOf(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, domainerror.NewInvalidInputError(domainerror.ErrCodeMissingAsOf, "as_of is required")
	}
	asOf, err := ParseDate(value)
	if err != nil {
		return time.Time{}, domainerror.NewInvalidInputError(domainerror.ErrCodeMissingAsOf, "as_of: "+err.Error())
	}
	return asOf, nil
}

// ParseHorizon parses a forecast horizon such as "next month".
func ParseHorizon(value string) (valueobject.PeriodSpec, error) {
	spec, err := valueobject.ParsePeriodSpec(value)
	if err != nil {
		return valueobject.PeriodSpec{}, domainerror.NewInvalidInputError(domainerror.ErrCodeInvalidHorizon, err.Error())
	}
	return spec, nil
}

// ToBudgetResponse converts a domain BudgetPlan to a BudgetResponse DTO.
func ToBudgetResponse(plan *entity.BudgetPlan) BudgetResponse {
	savings, _ := plan.RecommendedSavings.Float64()
	maxVariable, _ := plan.MaxVariableSpending.Float64()
	remaining, _ := plan.RemainingBalance.Float64()
	return BudgetResponse{
		RecommendedSavings:  savings,
		MaxVariableSpending: maxVariable,
		RemainingBalance:    remaining,
		Overspending:        plan.Overspending(),
	}
}

// ToSuggestionsResponse converts a domain SuggestionSet to a SuggestionsResponse DTO.
func ToSuggestionsResponse(set *entity.SuggestionSet) SuggestionsResponse {
	suggestions := make([]SuggestionResponse, len(set.Suggestions))
	for i, s := range set.Suggestions {
		savings, _ := s.PotentialSavings.Float64()
		current, _ := s.CurrentSpending.Float64()
		suggested, _ := s.SuggestedSpending.Float64()
		rate, _ := s.ReductionRate.Float64()
		suggestions[i] = SuggestionResponse{
			Category:          s.Category,
			Suggestion:        s.Text,
			PotentialSavings:  savings,
			CurrentSpending:   current,
			SuggestedSpending: suggested,
			ReductionRate:     rate,
		}
	}

	total, _ := set.TotalPotentialSavings.Float64()
	annual, _ := set.AnnualPotentialSavings.Float64()
	return SuggestionsResponse{
		Suggestions:            suggestions,
		TotalPotentialSavings:  total,
		AnnualPotentialSavings: annual,
		Message:                set.Message,
	}
}

// ToForecastResponse converts a domain ForecastResult to a ForecastResponse DTO.
func ToForecastResponse(result *entity.ForecastResult) ForecastResponse {
	categories := make([]CategoryForecastResponse, len(result.Categories))
	for i, c := range result.Categories {
		predicted, _ := c.PredictedAmount.Float64()
		slope, _ := c.Slope.Float64()
		categories[i] = CategoryForecastResponse{
			Name:      c.Name,
			Predicted: predicted,
			Slope:     slope,
			Trend:     string(c.Trend),
		}
	}

	total, _ := result.NextPeriodTotal.Float64()
	return ForecastResponse{
		NextMonthPrediction: total,
		Confidence:          result.Confidence,
		PredictedMonth:      result.PredictedPeriodLabel,
		Categories:          categories,
		OverallTrend:        string(result.OverallTrend),
		HistoryPeriods:      result.HistoryPeriods,
		Strategy:            result.Strategy,
		Message:             result.Message,
	}
}

// ToInsightsResponse converts domain SpendingInsights to an InsightsResponse DTO.
func ToInsightsResponse(insights *entity.SpendingInsights) InsightsResponse {
	recommendations := make([]InsightResponse, len(insights.Recommendations))
	for i, r := range insights.Recommendations {
		recommendations[i] = InsightResponse{Type: string(r.Type), Message: r.Message}
	}

	return InsightsResponse{
		SpendingPatterns: SpendingPatternsResponse{
			WeekdayVsWeekend: WeekdayWeekendResponse{
				Weekday: insights.WeekdayShare,
				Weekend: insights.WeekendShare,
			},
			TimeOfDay: TimeOfDayResponse{
				Morning:   insights.MorningShare,
				Afternoon: insights.AfternoonShare,
				Evening:   insights.EveningShare,
			},
		},
		Recommendations: recommendations,
	}
}

// ToRecommendationsResponse converts the merged pipeline output to a RecommendationsResponse DTO.
func ToRecommendationsResponse(r *recommendation.Recommendations) RecommendationsResponse {
	response := RecommendationsResponse{
		Suggestions: ToSuggestionsResponse(r.Suggestions),
		Forecast:    ToForecastResponse(r.Forecast),
		Insights:    ToInsightsResponse(r.Insights),
	}
	if r.Budget != nil {
		budgetResponse := ToBudgetResponse(r.Budget)
		response.Budget = &budgetResponse
	}
	return response
}
