package recommendation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recommender/internal/application/adapter"
	"github.com/finance-tracker/recommender/internal/application/usecase/forecast"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

// HistoryRecommendationsInput represents the input for recommendations over stored history.
type HistoryRecommendationsInput struct {
	UserID  uuid.UUID
	AsOf    time.Time
	Horizon valueobject.PeriodSpec
}

// HistoryRecommendationsUseCase loads a user's stored transactions and runs the pipeline on them.
type HistoryRecommendationsUseCase struct {
	repository      adapter.TransactionRepository
	cache           adapter.ResultCache
	generate        *GenerateRecommendationsUseCase
	metrics         adapter.RecommendationMetrics
	lookbackPeriods int
	cacheTTL        time.Duration
}

// NewHistoryRecommendationsUseCase creates a new HistoryRecommendationsUseCase instance.
// A nil cache disables caching.
func NewHistoryRecommendationsUseCase(
	repository adapter.TransactionRepository,
	cache adapter.ResultCache,
	generate *GenerateRecommendationsUseCase,
	metrics adapter.RecommendationMetrics,
	lookbackPeriods int,
	cacheTTL time.Duration,
) *HistoryRecommendationsUseCase {
	if metrics == nil {
		metrics = adapter.NopMetrics{}
	}
	return &HistoryRecommendationsUseCase{
		repository:      repository,
		cache:           cache,
		generate:        generate,
		metrics:         metrics,
		lookbackPeriods: lookbackPeriods,
		cacheTTL:        cacheTTL,
	}
}

// Execute returns the cached recommendations or computes them from stored history.
func (uc *HistoryRecommendationsUseCase) Execute(ctx context.Context, input HistoryRecommendationsInput) (*Recommendations, error) {
	if input.AsOf.IsZero() {
		return nil, domainerror.NewInvalidInputError(domainerror.ErrCodeMissingAsOf, "as_of is required")
	}
	horizon := input.Horizon
	if horizon.Granularity == "" {
		horizon.Granularity = valueobject.GranularityMonthly
	}
	if horizon.PeriodsAhead == 0 {
		horizon.PeriodsAhead = 1
	}

	key := CacheKey(input.UserID, input.AsOf, horizon)
	if cached := uc.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	// Lookback window plus the partial reference period
	start := forecast.AddPeriods(forecast.GetPeriodStart(input.AsOf, horizon.Granularity), horizon.Granularity, -uc.lookbackPeriods)
	records, err := uc.repository.ListHistory(ctx, adapter.HistoryFilter{
		UserID:    input.UserID,
		StartDate: start,
		EndDate:   input.AsOf,
	})
	if err != nil {
		return nil, domainerror.NewInternalFailureError(domainerror.ErrCodeHistoryUnavailable,
			"failed to load transaction history", err)
	}

	result, err := uc.generate.Execute(ctx, GenerateRecommendationsInput{
		Transactions: records,
		AsOf:         input.AsOf,
		Horizon:      horizon,
	})
	if err != nil {
		return nil, err
	}

	uc.toCache(ctx, key, result)
	return result, nil
}

// CacheKey builds the result cache key for a user and reference date.
func CacheKey(userID uuid.UUID, asOf time.Time, horizon valueobject.PeriodSpec) string {
	return fmt.Sprintf("recommendations:%s:%s:%s:%d", userID, asOf.Format("2006-01-02"), horizon.Granularity, horizon.PeriodsAhead)
}

// fromCache returns nil on a miss or any cache failure.
func (uc *HistoryRecommendationsUseCase) fromCache(ctx context.Context, key string) *Recommendations {
	if uc.cache == nil {
		return nil
	}

	payload, found, err := uc.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Result cache read failed", "key", key, "error", err)
		return nil
	}
	uc.metrics.ObserveCache(found)
	if !found {
		return nil
	}

	var result Recommendations
	if err := json.Unmarshal(payload, &result); err != nil {
		slog.Warn("Discarding unreadable cached recommendations", "key", key, "error", err)
		return nil
	}
	return &result
}

func (uc *HistoryRecommendationsUseCase) toCache(ctx context.Context, key string, result *Recommendations) {
	if uc.cache == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		slog.Warn("Failed to encode recommendations for cache", "key", key, "error", err)
		return
	}
	if err := uc.cache.Set(ctx, key, payload, uc.cacheTTL); err != nil {
		slog.Warn("Result cache write failed", "key", key, "error", err)
	}
}
