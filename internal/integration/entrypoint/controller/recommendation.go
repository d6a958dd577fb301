package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/recommender/internal/application/usecase/advisor"
	"github.com/finance-tracker/recommender/internal/application/usecase/budget"
	"github.com/finance-tracker/recommender/internal/application/usecase/forecast"
	"github.com/finance-tracker/recommender/internal/application/usecase/insights"
	"github.com/finance-tracker/recommender/internal/application/usecase/recommendation"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/dto"
)

// RecommendationController handles the stateless recommendation endpoints.
type RecommendationController struct {
	allocateBudgetUseCase          *budget.AllocateBudgetUseCase
	adviseSpendingUseCase          *advisor.AdviseSpendingUseCase
	forecastSpendingUseCase        *forecast.ForecastSpendingUseCase
	analyzeSpendingUseCase         *insights.AnalyzeSpendingUseCase
	generateRecommendationsUseCase *recommendation.GenerateRecommendationsUseCase
	allocationDefaults             valueobject.AllocationConfig
}

// NewRecommendationController creates a new recommendation controller instance.
func NewRecommendationController(
	allocateBudgetUseCase *budget.AllocateBudgetUseCase,
	adviseSpendingUseCase *advisor.AdviseSpendingUseCase,
	forecastSpendingUseCase *forecast.ForecastSpendingUseCase,
	analyzeSpendingUseCase *insights.AnalyzeSpendingUseCase,
	generateRecommendationsUseCase *recommendation.GenerateRecommendationsUseCase,
	allocationDefaults valueobject.AllocationConfig,
) *RecommendationController {
	return &RecommendationController{
		allocateBudgetUseCase:          allocateBudgetUseCase,
		adviseSpendingUseCase:          adviseSpendingUseCase,
		forecastSpendingUseCase:        forecastSpendingUseCase,
		analyzeSpendingUseCase:         analyzeSpendingUseCase,
		generateRecommendationsUseCase: generateRecommendationsUseCase,
		allocationDefaults:             allocationDefaults,
	}
}

// Budget handles POST /recommendations/budget requests.
func (c *RecommendationController) Budget(ctx *gin.Context) {
	var req dto.BudgetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err)
		return
	}

	plan, err := c.allocateBudgetUseCase.Execute(ctx.Request.Context(), req.ToAllocateBudgetInput(c.allocationDefaults))
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToBudgetResponse(plan))
}

// Suggestions handles POST /recommendations/suggestions requests.
func (c *RecommendationController) Suggestions(ctx *gin.Context) {
	var req dto.SuggestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err)
		return
	}

	records, err := dto.ToTransactionRecords(req.Transactions)
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	set, err := c.adviseSpendingUseCase.Execute(ctx.Request.Context(), advisor.AdviseSpendingInput{
		Transactions: records,
	})
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToSuggestionsResponse(set))
}

// Forecast handles POST /recommendations/forecast requests.
func (c *RecommendationController) Forecast(ctx *gin.Context) {
	var req dto.ForecastRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err)
		return
	}

	input, err := toForecastInput(req.Transactions, req.AsOf, req.Horizon)
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	result, err := c.forecastSpendingUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToForecastResponse(result))
}

// Insights handles POST /recommendations/insights requests.
func (c *RecommendationController) Insights(ctx *gin.Context) {
	var req dto.InsightsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err)
		return
	}

	records, err := dto.ToTransactionRecords(req.Transactions)
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	result, err := c.analyzeSpendingUseCase.Execute(ctx.Request.Context(), insights.AnalyzeSpendingInput{
		Transactions: records,
	})
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToInsightsResponse(result))
}

// Generate handles POST /recommendations requests, running every stage at once.
func (c *RecommendationController) Generate(ctx *gin.Context) {
	var req dto.RecommendationsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		invalidBody(ctx, err)
		return
	}

	forecastInput, err := toForecastInput(req.Transactions, req.AsOf, req.Horizon)
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	input := recommendation.GenerateRecommendationsInput{
		Transactions: forecastInput.Transactions,
		AsOf:         forecastInput.AsOf,
		Horizon:      forecastInput.Horizon,
	}
	if req.Budget != nil {
		budgetInput := req.Budget.ToAllocateBudgetInput(c.allocationDefaults)
		input.Budget = &budgetInput
	}

	result, err := c.generateRecommendationsUseCase.Execute(ctx.Request.Context(), input)
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecommendationsResponse(result))
}

func toForecastInput(transactions []dto.TransactionRequest, asOfValue, horizonValue string) (forecast.ForecastSpendingInput, error) {
	records, err := dto.ToTransactionRecords(transactions)
	if err != nil {
		return forecast.ForecastSpendingInput{}, err
	}
	asOf, err := dto.ParseAsOf(asOfValue)
	if err != nil {
		return forecast.ForecastSpendingInput{}, err
	}
	horizon, err := dto.ParseHorizon(horizonValue)
	if err != nil {
		return forecast.ForecastSpendingInput{}, err
	}

	return forecast.ForecastSpendingInput{
		Transactions: records,
		AsOf:         asOf,
		Horizon:      horizon,
	}, nil
}
