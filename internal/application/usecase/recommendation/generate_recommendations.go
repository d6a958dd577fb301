// Package recommendation contains the use cases that run the recommendation pipeline.
package recommendation

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/finance-tracker/recommender/internal/application/adapter"
	"github.com/finance-tracker/recommender/internal/application/usecase/advisor"
	"github.com/finance-tracker/recommender/internal/application/usecase/budget"
	"github.com/finance-tracker/recommender/internal/application/usecase/forecast"
	"github.com/finance-tracker/recommender/internal/application/usecase/insights"
	"github.com/finance-tracker/recommender/internal/domain/entity"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

// Stage names used for metrics and logs.
const (
	StageBudget      = "budget"
	StageSuggestions = "suggestions"
	StageForecast    = "forecast"
	StageInsights    = "insights"
)

// GenerateRecommendationsInput represents the input for a combined recommendation run.
type GenerateRecommendationsInput struct {
	Budget       *budget.AllocateBudgetInput // nil skips the budget stage
	Transactions []entity.TransactionRecord
	AsOf         time.Time
	Horizon      valueobject.PeriodSpec
}

// Recommendations is the merged output of all stages.
type Recommendations struct {
	Budget      *entity.BudgetPlan       `json:"budget,omitempty"`
	Suggestions *entity.SuggestionSet    `json:"suggestions"`
	Forecast    *entity.ForecastResult   `json:"forecast"`
	Insights    *entity.SpendingInsights `json:"insights"`
}

// GenerateRecommendationsUseCase runs the independent stages concurrently and merges their outputs.
type GenerateRecommendationsUseCase struct {
	allocateBudget  *budget.AllocateBudgetUseCase
	adviseSpending  *advisor.AdviseSpendingUseCase
	forecastSpend   *forecast.ForecastSpendingUseCase
	analyzeSpending *insights.AnalyzeSpendingUseCase
	metrics         adapter.RecommendationMetrics
}

// NewGenerateRecommendationsUseCase creates a new GenerateRecommendationsUseCase instance.
func NewGenerateRecommendationsUseCase(
	allocateBudget *budget.AllocateBudgetUseCase,
	adviseSpending *advisor.AdviseSpendingUseCase,
	forecastSpend *forecast.ForecastSpendingUseCase,
	analyzeSpending *insights.AnalyzeSpendingUseCase,
	metrics adapter.RecommendationMetrics,
) *GenerateRecommendationsUseCase {
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}
	return &GenerateRecommendationsUseCase{
		allocateBudget:  allocateBudget,
		adviseSpending:  adviseSpending,
		forecastSpend:   forecastSpend,
		analyzeSpending: analyzeSpending,
		metrics:         metrics,
	}
}

// Execute runs every stage. Any stage failure fails the whole run.
func (uc *GenerateRecommendationsUseCase) Execute(ctx context.Context, input GenerateRecommendationsInput) (*Recommendations, error) {
	var out Recommendations
	g, gctx := errgroup.WithContext(ctx)

	if input.Budget != nil {
		g.Go(func() error {
			return uc.observe(StageBudget, func() (err error) {
				out.Budget, err = uc.allocateBudget.Execute(gctx, *input.Budget)
				return err
			})
		})
	}

	g.Go(func() error {
		return uc.observe(StageSuggestions, func() (err error) {
			out.Suggestions, err = uc.adviseSpending.Execute(gctx, advisor.AdviseSpendingInput{
				Transactions: input.Transactions,
			})
			return err
		})
	})

	g.Go(func() error {
		return uc.observe(StageForecast, func() (err error) {
			out.Forecast, err = uc.forecastSpend.Execute(gctx, forecast.ForecastSpendingInput{
				Transactions: input.Transactions,
				AsOf:         input.AsOf,
				Horizon:      input.Horizon,
			})
			return err
		})
	})

	g.Go(func() error {
		return uc.observe(StageInsights, func() (err error) {
			out.Insights, err = uc.analyzeSpending.Execute(gctx, insights.AnalyzeSpendingInput{
				Transactions: input.Transactions,
			})
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (uc *GenerateRecommendationsUseCase) observe(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	uc.metrics.ObserveStage(stage, time.Since(start), err)
	return err
}
