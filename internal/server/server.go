// Package server assembles the services, middleware and routes into the HTTP server.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/weekplate/backend/config"
	"github.com/pageza/weekplate/backend/internal/api"
	"github.com/pageza/weekplate/backend/internal/database"
	"github.com/pageza/weekplate/backend/internal/metrics"
	"github.com/pageza/weekplate/backend/internal/middleware"
	"github.com/pageza/weekplate/backend/internal/planner"
	"github.com/pageza/weekplate/backend/internal/service"
)

// Dependencies are the external resources the server runs on. Redis and
// Storage are optional; the features that need them report themselves unavailable.
type Dependencies struct {
	DB      *gorm.DB
	Redis   *redis.Client
	Storage *config.S3Config
	Metrics *metrics.Metrics
	// Generator overrides the meal planner, for tests that need a fixed seed
	Generator *planner.Generator
}

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	deps   Dependencies
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New creates a new server instance
func New(cfg *config.Config, deps Dependencies, logger *zap.Logger) *Server {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if cfg.Environment.IsProduction() || cfg.Environment.IsTesting() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(logger, "/health", "/metrics"),
		middleware.Recovery(logger),
		middleware.ErrorHandler(logger),
		middleware.CORS(cfg.CORSOrigins),
		deps.Metrics.Middleware(),
	)

	s := &Server{
		cfg:    cfg,
		deps:   deps,
		router: router,
		logger: logger,
	}

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	planLimiter := middleware.NewPlanRateLimiter(deps.Redis, cfg.PlanRateLimit, cfg.RateLimitWindow, logger)
	parseLimiter := middleware.NewParseRateLimiter(deps.Redis, cfg.ParseRateLimit, cfg.RateLimitWindow, logger)
	limits := api.Limits{
		Plan:        planLimiter.Middleware(),
		Parse:       parseLimiter.Middleware(),
		PlanStatus:  planLimiter,
		ParseStatus: parseLimiter,
	}
	api.RegisterRoutes(router.Group("/api/v1"), s.services(), limits, cfg.Location())

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) services() api.Services {
	db, log := s.deps.DB, s.logger

	settings := service.NewSettingsService(db, log)
	recipes := service.NewRecipeService(db, log)
	parser := service.NewRecipeParser(service.ParserConfig{
		APIKey:      s.cfg.OpenRouterAPIKey,
		URL:         s.cfg.OpenRouterURL,
		Model:       s.cfg.OpenRouterModel,
		CallsPerSec: s.cfg.ParseCallsPerSec,
	}, log)

	return api.Services{
		Recipes:   recipes,
		Cookbooks: service.NewCookbookService(db, log),
		MealPlans: service.NewMealPlanService(db, settings, s.deps.Generator, s.deps.Metrics, log),
		Shopping:  service.NewShoppingService(db, settings, log),
		Settings:  settings,
		Weight:    service.NewWeightService(db, log),
		Reviews:   service.NewReviewService(db, settings, s.cfg.Location(), log),
		Photos:    service.NewPhotoService(s.deps.Storage, log),
		Imports:   service.NewImportService(parser, s.deps.Redis, recipes, s.deps.Metrics, log),
	}
}

// Router exposes the handler for tests
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true
	if err := database.HealthCheck(ctx, s.deps.DB); err != nil {
		s.logger.Warn("Database health check failed", zap.Error(err))
		checks["database"] = "unavailable"
		healthy = false
	}
	if s.deps.Redis != nil {
		checks["redis"] = "ok"
		if err := s.deps.Redis.Ping(ctx).Err(); err != nil {
			s.logger.Warn("Redis health check failed", zap.Error(err))
			checks["redis"] = "unavailable"
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}

// Start listens on the configured address and blocks until the server is shut down.
// It returns nil at once when Shutdown already ran.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server, waiting at most the configured timeout
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}
	return s.http.Shutdown(ctx)
}
