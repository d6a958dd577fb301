// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/finance-tracker/recommender/config"
	"github.com/finance-tracker/recommender/internal/application/adapter"
	"github.com/finance-tracker/recommender/internal/application/usecase/advisor"
	"github.com/finance-tracker/recommender/internal/application/usecase/budget"
	"github.com/finance-tracker/recommender/internal/application/usecase/forecast"
	"github.com/finance-tracker/recommender/internal/application/usecase/insights"
	"github.com/finance-tracker/recommender/internal/application/usecase/recommendation"
	"github.com/finance-tracker/recommender/internal/infra/metrics"
	"github.com/finance-tracker/recommender/internal/infra/server/router"
	"github.com/finance-tracker/recommender/internal/integration/adapters"
	"github.com/finance-tracker/recommender/internal/integration/cache"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/middleware"
	"github.com/finance-tracker/recommender/internal/integration/persistence"
)

const metricsNamespace = "recommender"

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Metrics      *metrics.Collector
	TokenService adapter.TokenService
	RateLimiter  *middleware.RateLimiter
	Router       *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// A nil db disables the history routes; a nil redis client disables result caching.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Injector, error) {
	advisorConfig, err := cfg.AdvisorConfig()
	if err != nil {
		return nil, err
	}
	strategy, err := forecast.NewStrategy(cfg.Forecast.Strategy, cfg.Forecast.MovingAverageWindow, cfg.Forecast.MovingAverageBuffer)
	if err != nil {
		return nil, fmt.Errorf("invalid forecast strategy: %w", err)
	}

	collector := metrics.NewCollector(metricsNamespace)
	tokenService := adapters.NewTokenService(cfg.JWT.Secret)

	// Create stage use cases
	allocationDefaults := cfg.AllocationConfig()
	allocateBudgetUseCase := budget.NewAllocateBudgetUseCase(allocationDefaults)
	adviseSpendingUseCase := advisor.NewAdviseSpendingUseCase(advisorConfig)
	forecastSpendingUseCase := forecast.NewForecastSpendingUseCase(cfg.ForecastConfig(), strategy)
	analyzeSpendingUseCase := insights.NewAnalyzeSpendingUseCase()
	generateRecommendationsUseCase := recommendation.NewGenerateRecommendationsUseCase(
		allocateBudgetUseCase,
		adviseSpendingUseCase,
		forecastSpendingUseCase,
		analyzeSpendingUseCase,
		collector,
	)

	var resultCache adapter.ResultCache
	if redisClient != nil {
		resultCache = cache.NewResultCache(redisClient, cfg.Redis.KeyPrefix)
	}

	// Create controllers
	healthController := controller.NewHealthController(dbHealthChecker(db), cacheHealthChecker(resultCache))
	recommendationController := controller.NewRecommendationController(
		allocateBudgetUseCase,
		adviseSpendingUseCase,
		forecastSpendingUseCase,
		analyzeSpendingUseCase,
		generateRecommendationsUseCase,
		allocationDefaults,
	)

	opts := router.Options{
		RequestObserver: collector,
		MetricsHandler:  collector.Handler(),
		RequestTimeout:  cfg.Server.RequestTimeout,
	}

	if db != nil {
		historyUseCase := recommendation.NewHistoryRecommendationsUseCase(
			persistence.NewTransactionRepository(db),
			resultCache,
			generateRecommendationsUseCase,
			collector,
			cfg.Forecast.LookbackPeriods,
			cfg.Redis.ResultTTL,
		)
		opts.HistoryController = controller.NewHistoryController(historyUseCase)
		opts.AuthMiddleware = middleware.NewAuthMiddleware(tokenService)
	}

	// Use higher rate limits for E2E/test environments to prevent flaky tests
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		if cfg.Server.Environment == "test" {
			rateLimiter = middleware.NewRateLimiterWithConfig(60000, 1000)
		} else {
			rateLimiter = middleware.NewRateLimiterWithConfig(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
		}
		opts.RateLimiter = rateLimiter
	}

	r := router.NewRouter(healthController, recommendationController, opts)

	return &Injector{
		Config:       cfg,
		DB:           db,
		Redis:        redisClient,
		Metrics:      collector,
		TokenService: tokenService,
		RateLimiter:  rateLimiter,
		Router:       r,
	}, nil
}

func dbHealthChecker(db *gorm.DB) func() bool {
	if db == nil {
		return nil
	}
	return func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}
}

func cacheHealthChecker(resultCache adapter.ResultCache) func() bool {
	if resultCache == nil {
		return nil
	}
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return resultCache.Ping(ctx) == nil
	}
}
