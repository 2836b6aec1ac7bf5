package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// Store mocks the Store method
func (m *MockRecipeService) Store(ctx context.Context, userID string, recipe types.Recipe, imageURL string) (*model.Recipe, error) {
	args := m.Called(ctx, userID, recipe, imageURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// GetByID mocks the GetByID method
func (m *MockRecipeService) GetByID(ctx context.Context, id uint) (*model.Recipe, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Recipe), args.Bool(1), args.Error(2)
}

// ListByUser mocks the ListByUser method
func (m *MockRecipeService) ListByUser(ctx context.Context, userID string) ([]model.Recipe, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// ListGlobal mocks the ListGlobal method
func (m *MockRecipeService) ListGlobal(ctx context.Context, q service.GlobalQuery) ([]model.Recipe, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockRecipeService) Delete(ctx context.Context, userID string, id uint) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockExtractor is a mock implementation of the model backed pipelines
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) AnalyzeImage(ctx context.Context, userID string, image []byte, contentType string) (*model.Recipe, error) {
	args := m.Called(ctx, userID, image, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

func (m *MockExtractor) LogMeal(ctx context.Context, userID string, image []byte, contentType string, day time.Time) (*model.Meal, error) {
	args := m.Called(ctx, userID, image, contentType, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockExtractor) GenerateFromText(ctx context.Context, userID, message string) (*model.Recipe, error) {
	args := m.Called(ctx, userID, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

var (
	_ service.IRecipeService = (*MockRecipeService)(nil)
	_ service.IExtractor     = (*MockExtractor)(nil)
)
