package recommendation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/finance-tracker/recommender/internal/application/adapter"
	"github.com/finance-tracker/recommender/internal/domain/entity"
	domainerror "github.com/finance-tracker/recommender/internal/domain/error"
	"github.com/finance-tracker/recommender/internal/domain/valueobject"
)

type fakeRepository struct {
	records []entity.TransactionRecord
	err     error
	calls   int
	filter  adapter.HistoryFilter
}

func (r *fakeRepository) ListHistory(_ context.Context, filter adapter.HistoryFilter) ([]entity.TransactionRecord, error) {
	r.calls++
	r.filter = filter
	return r.records, r.err
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	failGet bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, false, errors.New("connection refused")
	}
	payload, ok := c.entries[key]
	return payload, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, payload []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }

func TestHistoryRecommendations_CachesResult(t *testing.T) {
	metrics := newRecordingMetrics()
	repo := &fakeRepository{records: foodHistory()}
	cache := newMemoryCache()
	uc := NewHistoryRecommendationsUseCase(repo, cache, newGenerateUseCase(metrics), metrics, 12, time.Minute)

	userID := uuid.New()
	input := HistoryRecommendationsInput{UserID: userID, AsOf: day("2024-03-31")}

	first, err := uc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := uc.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if repo.calls != 1 {
		t.Errorf("expected repository to be queried once, got %d", repo.calls)
	}
	if metrics.hits != 1 || metrics.misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %d and %d", metrics.hits, metrics.misses)
	}
	if !first.Forecast.NextPeriodTotal.Equal(second.Forecast.NextPeriodTotal) {
		t.Errorf("expected cached forecast %s, got %s", first.Forecast.NextPeriodTotal, second.Forecast.NextPeriodTotal)
	}
	if first.Suggestions.Message != second.Suggestions.Message {
		t.Errorf("expected cached message %q, got %q", first.Suggestions.Message, second.Suggestions.Message)
	}
	if _, ok := cache.entries[CacheKey(userID, input.AsOf, valueobject.NextMonth())]; !ok {
		t.Error("expected result stored under the monthly cache key")
	}

	if repo.filter.UserID != userID {
		t.Errorf("expected filter for user %s, got %s", userID, repo.filter.UserID)
	}
	if got := repo.filter.StartDate.Format("2006-01-02"); got != "2023-03-01" {
		t.Errorf("expected history to start 2023-03-01, got %s", got)
	}
}

func TestHistoryRecommendations_CacheFailureFallsThrough(t *testing.T) {
	repo := &fakeRepository{records: foodHistory()}
	cache := newMemoryCache()
	cache.failGet = true
	uc := NewHistoryRecommendationsUseCase(repo, cache, newGenerateUseCase(nil), nil, 12, time.Minute)

	result, err := uc.Execute(context.Background(), HistoryRecommendationsInput{UserID: uuid.New(), AsOf: day("2024-03-31")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Forecast == nil {
		t.Error("expected computed forecast")
	}
}

func TestHistoryRecommendations_Errors(t *testing.T) {
	tests := []struct {
		name        string
		repo        *fakeRepository
		asOf        time.Time
		expectedErr error
	}{
		{
			name:        "missing as of",
			repo:        &fakeRepository{},
			expectedErr: domainerror.ErrInvalidInput,
		},
		{
			name:        "repository failure",
			repo:        &fakeRepository{err: errors.New("connection reset")},
			asOf:        day("2024-03-31"),
			expectedErr: domainerror.ErrInternalFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := NewHistoryRecommendationsUseCase(tt.repo, nil, newGenerateUseCase(nil), nil, 12, time.Minute)

			_, err := uc.Execute(context.Background(), HistoryRecommendationsInput{UserID: uuid.New(), AsOf: tt.asOf})
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}
