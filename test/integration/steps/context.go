// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finance-tracker/recommender/config"
	"github.com/finance-tracker/recommender/internal/infra/dependency"
	"github.com/finance-tracker/recommender/internal/integration/persistence/model"
	"github.com/finance-tracker/recommender/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

// TestContext holds the test state for each scenario.
type TestContext struct {
	// HTTP
	server   *httptest.Server
	client   *http.Client
	response *response

	// Request building
	headers     map[string]string
	accessToken string

	// Seeded data
	currentUserID uuid.UUID
	categories    map[string]uuid.UUID

	// Backing services
	db           *mock.Db
	redis        *mock.Redis
	redisStopped bool
	injector     *dependency.Injector
}

type response struct {
	status int
	body   any
}

// contextKey is used to store TestContext in context.Context.
type contextKey struct{}

// GetTestContext retrieves the TestContext from context.
func GetTestContext(ctx context.Context) *TestContext {
	if tc, ok := ctx.Value(contextKey{}).(*TestContext); ok {
		return tc
	}
	return nil
}

// SetTestContext stores the TestContext in context.
func SetTestContext(ctx context.Context, tc *TestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// InitializeTestSuite sets up resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc := &TestContext{
			client:     &http.Client{Timeout: 10 * time.Second},
			headers:    make(map[string]string),
			categories: make(map[string]uuid.UUID),
			db: mock.NewDb(map[string]any{
				"categories":   &model.CategoryModel{},
				"transactions": &model.TransactionModel{},
			}),
			redis: mock.NewRedis(),
		}

		if err := tc.db.ClearDB(); err != nil {
			return ctx, fmt.Errorf("failed to reset database: %w", err)
		}
		if err := tc.redis.Clear(); err != nil {
			return ctx, fmt.Errorf("failed to reset redis: %w", err)
		}

		return SetTestContext(ctx, tc), nil
	})

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		tc := GetTestContext(ctx)
		if tc == nil {
			return ctx, nil
		}
		if tc.server != nil {
			tc.server.Close()
		}
		if tc.redisStopped {
			if err := tc.redis.Restart(); err != nil {
				return ctx, fmt.Errorf("failed to restart redis: %w", err)
			}
		}
		return ctx, nil
	})

	registerSetupSteps(ctx)
	registerAPISteps(ctx)
	registerResponseSteps(ctx)
	registerStorageSteps(ctx)
}

// startServer wires the application against the in-memory database and redis.
func (tc *TestContext) startServer() error {
	cfg := config.Load()
	cfg.Server.Environment = "test"
	cfg.JWT.Secret = testJWTSecret
	cfg.Redis.KeyPrefix = "test:"
	cfg.Recommendation.RulesFile = ""

	injector, err := dependency.NewInjector(cfg, tc.db.DbConn, tc.redis.Client)
	if err != nil {
		return fmt.Errorf("failed to wire application: %w", err)
	}

	tc.injector = injector
	tc.server = httptest.NewServer(injector.Router.Setup(cfg.Server.Environment))
	return nil
}

func theAPIServerIsRunning(ctx context.Context) (context.Context, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return ctx, fmt.Errorf("test context not found")
	}
	if err := tc.startServer(); err != nil {
		return ctx, err
	}
	return ctx, nil
}
