package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/foodfriend/backend/config"
	"github.com/foodfriend/backend/internal/database"
	"github.com/foodfriend/backend/internal/logger"
)

// migrate applies pending schema migrations and exits, for deployments
// that run migrations as a separate release step.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = zlog.Sync() }()

	db, err := database.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := database.RunMigrations(db, zlog); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}
	zlog.Info("all migrations applied", zap.String("driver", cfg.DBDriver))
}
