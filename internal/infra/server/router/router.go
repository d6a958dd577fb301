// Package router sets up the HTTP routing for the application.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/finance-tracker/recommender/internal/integration/entrypoint/controller"
	"github.com/finance-tracker/recommender/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                   *gin.Engine
	healthController         *controller.HealthController
	recommendationController *controller.RecommendationController
	historyController        *controller.HistoryController
	rateLimiter              *middleware.RateLimiter
	authMiddleware           *middleware.AuthMiddleware
	requestObserver          middleware.RequestObserver
	metricsHandler           http.Handler
	requestTimeout           time.Duration
}

// Options carries the optional pieces of the router. Nil fields disable the matching routes or middleware.
type Options struct {
	HistoryController *controller.HistoryController
	RateLimiter       *middleware.RateLimiter
	AuthMiddleware    *middleware.AuthMiddleware
	RequestObserver   middleware.RequestObserver
	MetricsHandler    http.Handler
	RequestTimeout    time.Duration
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	recommendationController *controller.RecommendationController,
	opts Options,
) *Router {
	return &Router{
		healthController:         healthController,
		recommendationController: recommendationController,
		historyController:        opts.HistoryController,
		rateLimiter:              opts.RateLimiter,
		authMiddleware:           opts.AuthMiddleware,
		requestObserver:          opts.RequestObserver,
		metricsHandler:           opts.MetricsHandler,
		requestTimeout:           opts.RequestTimeout,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.New()
	r.engine.Use(gin.Recovery(), middleware.RequestLogger(slog.Default()))
	if r.requestObserver != nil {
		r.engine.Use(middleware.Metrics(r.requestObserver))
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// Engine returns the configured engine, or nil before Setup.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metricsHandler != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metricsHandler))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	if r.rateLimiter != nil {
		v1.Use(r.rateLimiter.Middleware())
	}
	if r.requestTimeout > 0 {
		v1.Use(middleware.Timeout(r.requestTimeout))
	}

	recommendations := v1.Group("/recommendations")
	{
		recommendations.POST("", r.recommendationController.Generate)
		recommendations.POST("/budget", r.recommendationController.Budget)
		recommendations.POST("/suggestions", r.recommendationController.Suggestions)
		recommendations.POST("/forecast", r.recommendationController.Forecast)
		recommendations.POST("/insights", r.recommendationController.Insights)
	}

	// History-backed routes (require authentication and a database)
	if r.historyController != nil && r.authMiddleware != nil {
		me := v1.Group("/me")
		me.Use(r.authMiddleware.Authenticate())
		{
			me.GET("/recommendations", r.historyController.Get)
		}
	}
}
