package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"go.uber.org/zap"

	"github.com/foodfriend/backend/config"
	"github.com/foodfriend/backend/internal/database"
	"github.com/foodfriend/backend/internal/logger"
	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/types"
)

// seed_dev_user creates a local user as the identity webhook would and
// prints a bearer token for it.
func main() {
	id := flag.String("id", "user_dev", "identity provider user id")
	email := flag.String("email", "dev@example.com", "primary email address")
	first := flag.String("first-name", "Dev", "first name")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("refusing to seed users in production")
	}

	zlog, err := logger.New(cfg.LogLevel, false)
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

	users := service.NewUserService(db, zlog)
	created, err := users.Upsert(context.Background(), types.IdentityUser{
		ID:             *id,
		FirstName:      first,
		EmailAddresses: []types.EmailAddress{{EmailAddress: *email}},
	})
	if err != nil {
		zlog.Fatal("failed to create user", zap.Error(err))
	}
	zlog.Info("dev user ready", zap.String("user_id", *id), zap.Bool("created", created))

	if cfg.JWTSecret == "" {
		zlog.Fatal("JWT_SECRET must be set to issue a token")
	}
	token, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTTTL).GenerateToken(*id, *email)
	if err != nil {
		zlog.Fatal("failed to sign token", zap.Error(err))
	}
	fmt.Println(token)
}
