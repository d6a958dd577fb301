// Package controller implements HTTP handlers for the API endpoints.
package controller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/dto"
)

// handleRecommendationError maps recommendation errors to HTTP responses.
func handleRecommendationError(ctx *gin.Context, err error) {
	status := getStatusCodeForRecommendationError(err)

	message := "An internal error occurred"
	code := ""
	var recErr *domainerror.RecommendationError
	if errors.As(err, &recErr) {
		message = recErr.Message
		code = string(recErr.Code)
	}

	if status >= http.StatusInternalServerError {
		slog.Error("Recommendation request failed", "path", ctx.FullPath(), "code", code, "error", err)
	} else {
		slog.Warn("Recommendation request rejected", "path", ctx.FullPath(), "code", code, "error", err)
	}

	ctx.JSON(status, dto.ErrorResponse{Error: message})
}

// getStatusCodeForRecommendationError maps error kinds to HTTP status codes.
func getStatusCodeForRecommendationError(err error) int {
	switch {
	case errors.Is(err, domainerror.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domainerror.ErrInsufficientData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// invalidBody responds to a request body that could not be decoded.
func invalidBody(ctx *gin.Context, err error) {
	handleRecommendationError(ctx, domainerror.NewInvalidInputError(
		domainerror.ErrCodeInvalidRequestBody, "Invalid request body: "+err.Error()))
}
