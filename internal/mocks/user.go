package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/foodfriend/backend/internal/model"
	"github.com/foodfriend/backend/internal/service"
	"github.com/foodfriend/backend/internal/types"
)

// MockUserService is a mock implementation of the identity sync service
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Upsert(ctx context.Context, u types.IdentityUser) (bool, error) {
	args := m.Called(ctx, u)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMealService is a mock implementation of the meal log
type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) Store(ctx context.Context, userID string, day time.Time, meal types.Meal) (*model.Meal, error) {
	args := m.Called(ctx, userID, day, meal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Meal), args.Error(1)
}

func (m *MockMealService) ListByDay(ctx context.Context, userID string, day time.Time, limit int) ([]model.Meal, error) {
	args := m.Called(ctx, userID, day, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Meal), args.Error(1)
}

var (
	_ service.IUserService = (*MockUserService)(nil)
	_ service.IMealService = (*MockMealService)(nil)
	_ service.IAuthService = (*MockAuthService)(nil)
)
