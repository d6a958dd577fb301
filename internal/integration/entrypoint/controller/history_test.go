package controller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finance-tracker/recommender/internal/application/adapter"
	"github.com/finance-tracker/recommender/internal/application/usecase/advisor"
	"github.com/finance-tracker/recommender/internal/application/usecase/budget"
	"github.com/finance-tracker/recommender/internal/application/usecase/forecast"
	"github.com/finance-tracker/recommender/internal/application/usecase/insights"
	"github.com/finance-tracker/recommender/internal/application/usecase/recommendation"
	"github.com/finance-tracker/recommender/internal/domain/entity"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/dto"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/middleware"
)

type stubRepository struct {
	records []entity.TransactionRecord
	err     error
	filter  adapter.HistoryFilter
}

func (r *stubRepository) ListHistory(_ context.Context, filter adapter.HistoryFilter) ([]entity.TransactionRecord, error) {
	r.filter = filter
	return r.records, r.err
}

func newHistoryEngine(repo adapter.TransactionRepository, userID uuid.UUID, now time.Time) *gin.Engine {
	advise := advisor.NewAdviseSpendingUseCase(valueobject.DefaultAdvisorConfig())
	generate := recommendation.NewGenerateRecommendationsUseCase(
		budget.NewAllocateBudgetUseCase(valueobject.DefaultAllocationConfig()),
		advise,
		forecast.NewForecastSpendingUseCase(valueobject.DefaultForecastConfig(), nil),
		insights.NewAnalyzeSpendingUseCase(),
		nil,
	)
	history := recommendation.NewHistoryRecommendationsUseCase(repo, nil, generate, nil, 12, time.Minute)

	c := NewHistoryController(history)
	c.now = func() time.Time { return now }

	engine := gin.New()
	engine.GET("/me/recommendations", func(ctx *gin.Context) {
		if userID != uuid.Nil {
			ctx.Set(string(middleware.UserIDKey), userID)
		}
		ctx.Next()
	}, c.Get)
	return engine
}

func TestHistoryController_Get(t *testing.T) {
	userID := uuid.New()
	repo := &stubRepository{records: []entity.TransactionRecord{
		{Amount: decimal.NewFromInt(100), Category: "Shopping", Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{Amount: decimal.NewFromInt(200), Category: "Shopping", Date: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)},
	}}
	engine := newHistoryEngine(repo, userID, time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/recommendations", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if repo.filter.UserID != userID {
		t.Errorf("expected history for %s, got %s", userID, repo.filter.UserID)
	}
	if want := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC); !repo.filter.EndDate.Equal(want) {
		t.Errorf("as_of should default to the end of the previous month, got %s", repo.filter.EndDate)
	}

	got := decode[dto.RecommendationsResponse](t, w)
	if got.Budget != nil {
		t.Error("history recommendations carry no budget")
	}
	if got.Forecast.PredictedMonth != "March 2024" {
		t.Errorf("expected March 2024, got %s", got.Forecast.PredictedMonth)
	}
}

func TestHistoryController_DefaultAsOf(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		query    string
		expected time.Time
	}{
		{
			name:     "mid month",
			now:      time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC),
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "first day of the year",
			now:      time.Date(2024, 1, 1, 0, 30, 0, 0, time.UTC),
			expected: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "local time is converted to UTC first",
			now:      time.Date(2024, 4, 30, 22, 0, 0, 0, time.FixedZone("UTC-3", -3*60*60)),
			expected: time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "explicit as_of wins",
			now:      time.Date(2024, 3, 15, 18, 0, 0, 0, time.UTC),
			query:    "?as_of=2024-03-10",
			expected: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepository{}
			engine := newHistoryEngine(repo, uuid.New(), tt.now)

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/recommendations"+tt.query, nil))

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			if !repo.filter.EndDate.Equal(tt.expected) {
				t.Errorf("expected as_of %s, got %s", tt.expected.Format("2006-01-02"), repo.filter.EndDate.Format("2006-01-02"))
			}
		})
	}
}

func TestHistoryController_Errors(t *testing.T) {
	tests := []struct {
		name           string
		userID         uuid.UUID
		repoErr        error
		query          string
		expectedStatus int
	}{
		{name: "no authenticated user", userID: uuid.Nil, expectedStatus: http.StatusUnauthorized},
		{name: "bad as_of", userID: uuid.New(), query: "?as_of=yesterday", expectedStatus: http.StatusBadRequest},
		{name: "bad horizon", userID: uuid.New(), query: "?horizon=century", expectedStatus: http.StatusBadRequest},
		{name: "repository failure", userID: uuid.New(), repoErr: errors.New("connection refused"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newHistoryEngine(&stubRepository{err: tt.repoErr}, tt.userID, time.Now())

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/recommendations"+tt.query, nil))

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}
