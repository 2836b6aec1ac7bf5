package service

import (
	"context"
	"time"

	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/types"
)

// Provider is an external language model: a prompt in, free text out.
type Provider interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// ImageStore persists uploaded photos and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, prefix string, data []byte, contentType string) (string, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Store(ctx context.Context, userID string, recipe types.Recipe, imageURL string) (*model.Recipe, error)
	GetByID(ctx context.Context, id uint) (*model.Recipe, bool, error)
	ListByUser(ctx context.Context, userID string) ([]model.Recipe, error)
	ListGlobal(ctx context.Context, q GlobalQuery) ([]model.Recipe, error)
	Delete(ctx context.Context, userID string, id uint) error
}

// IMealService defines the interface for meal logging
type IMealService interface {
	Store(ctx context.Context, userID string, day time.Time, meal types.Meal) (*model.Meal, error)
	ListByDay(ctx context.Context, userID string, day time.Time, limit int) ([]model.Meal, error)
}

// IUserService defines the interface for identity provider sync
type IUserService interface {
	Upsert(ctx context.Context, u types.IdentityUser) (bool, error)
	Get(ctx context.Context, id string) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// IAuthService defines the interface for bearer token handling
type IAuthService interface {
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(userID, email string) (string, error)
}

// IExtractor runs the model backed pipelines.
type IExtractor interface {
	AnalyzeImage(ctx context.Context, userID string, image []byte, contentType string) (*model.Recipe, error)
	LogMeal(ctx context.Context, userID string, image []byte, contentType string, day time.Time) (*model.Meal, error)
	GenerateFromText(ctx context.Context, userID, message string) (*model.Recipe, error)
}

var (
	_ IRecipeService = (*RecipeService)(nil)
	_ IMealService   = (*MealService)(nil)
	_ IUserService   = (*UserService)(nil)
	_ IAuthService   = (*AuthService)(nil)
	_ IExtractor     = (*Extractor)(nil)
	_ Provider       = (*OpenAIProvider)(nil)
	_ ImageStore     = (*S3ImageStore)(nil)
)
