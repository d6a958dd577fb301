package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/recommender/internal/application/usecase/recommendation"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/middleware"
)

// HistoryController handles recommendations computed from the authenticated user's stored history.
type HistoryController struct {
	historyRecommendationsUseCase *recommendation.HistoryRecommendationsUseCase
	now                           func() time.Time
}

// NewHistoryController creates a new history controller instance.
func NewHistoryController(historyRecommendationsUseCase *recommendation.HistoryRecommendationsUseCase) *HistoryController {
	return &HistoryController{
		historyRecommendationsUseCase: historyRecommendationsUseCase,
		now:                           time.Now,
	}
}

// Get handles GET /me/recommendations requests.
// as_of defaults to the last day of the previous month (UTC) when omitted.
func (c *HistoryController) Get(ctx *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "User not authenticated"})
		return
	}

	asOfValue := ctx.Query("as_of")
	if asOfValue == "" {
		asOfValue = endOfPreviousMonth(c.now()).Format(dto.DateLayout)
	}
	asOf, err := dto.ParseAsOf(asOfValue)
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}
	horizon, err := dto.ParseHorizon(ctx.Query("horizon"))
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	result, err := c.historyRecommendationsUseCase.Execute(ctx.Request.Context(), recommendation.HistoryRecommendationsInput{
		UserID:  userID,
		AsOf:    asOf,
		Horizon: horizon,
	})
	if err != nil {
		handleRecommendationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToRecommendationsResponse(result))
}

func endOfPreviousMonth(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}
