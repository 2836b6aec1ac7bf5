// Package server assembles the HTTP stack: middleware, services and routes.
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

	"github.com/foodfriend/backend/config"
	"github.com/foodfriend/backend/internal/api"
	"github.com/foodfriend/backend/internal/middleware"
	"github.com/foodfriend/backend/internal/service"
)

// Deps are the long-lived clients built in main. Redis and Images may be
// nil: without Redis nothing is rate limited and without an image store
// photos are not kept.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Provider service.Provider
	Images   service.ImageStore
}

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
	logger *zap.Logger
}

// New wires services and handlers onto a gin engine.
func New(cfg *config.Config, deps Deps, logger *zap.Logger) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	recipes := service.NewRecipeService(deps.DB, logger)
	meals := service.NewMealService(deps.DB, logger)
	users := service.NewUserService(deps.DB, logger)
	auth := service.NewAuthService(cfg.JWTSecret, cfg.JWTTTL)
	extractor := service.NewExtractor(deps.Provider, recipes, meals, deps.Images, logger)

	webhooks, err := api.NewWebhookHandler(users, cfg.WebhookSecret, logger)
	if err != nil {
		return nil, err
	}

	var limiter *middleware.RateLimiter
	if deps.Redis != nil {
		limiter = middleware.NewModelCallRateLimiter(deps.Redis, cfg.RateLimitPerHour, logger)
	} else {
		logger.Warn("redis not configured, model calls are not rate limited")
	}

	router := gin.New()
	router.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(cfg.CORSOrigins),
		middleware.ErrorHandler(logger),
	)
	router.MaxMultipartMemory = 16 << 20

	api.RegisterRoutes(router, auth, limiter, api.Handlers{
		Recipes:  api.NewRecipeHandler(recipes, extractor),
		Meals:    api.NewMealHandler(meals, extractor),
		Webhooks: webhooks,
		Health:   api.NewHealthHandler(deps.DB),
	})

	return &Server{
		router: router,
		logger: logger,
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			// Model calls dominate; leave room for the provider timeout.
			WriteTimeout: cfg.LLM.Timeout + 30*time.Second,
			IdleTimeout:  2 * time.Minute,
		},
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. It returns nil after a graceful
// shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
