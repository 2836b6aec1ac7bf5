package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/foodfriend/backend/config"
	"github.com/foodfriend/backend/internal/database"
	"github.com/foodfriend/backend/internal/logger"
	"github.com/foodfriend/backend/internal/server"
	"github.com/foodfriend/backend/internal/service"
)

func main() {
	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	db, err := database.New(cfg, zlog)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := database.RunMigrations(db, zlog); err != nil {
		return err
	}

	deps := server.Deps{DB: db}

	// Rate limiting is optional in development.
	redisClient, err := database.NewRedisClient(cfg, zlog)
	if err != nil {
		if cfg.IsProduction() {
			return err
		}
		zlog.Warn("redis unavailable", zap.Error(err))
	} else {
		defer redisClient.Close()
		deps.Redis = redisClient
	}

	provider, err := service.NewOpenAIProvider(cfg.LLM, zlog)
	if err != nil {
		return err
	}
	deps.Provider = provider

	s3Config, err := config.NewS3Config(context.Background(), cfg)
	if err != nil {
		return err
	}
	if s3Config != nil {
		deps.Images = service.NewS3ImageStore(s3Config, zlog)
	} else {
		zlog.Info("S3_BUCKET_NAME not set, uploaded photos are not kept")
	}

	srv, err := server.New(cfg, deps, zlog)
	if err != nil {
		return err
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-quit:
		zlog.Info("received signal", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	zlog.Info("server stopped")
	return nil
}
