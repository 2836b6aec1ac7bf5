package mocks

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"

	"github.com/foodfriend/backend/internal/types"
)

// MockAuthService stands in for the session token service.
type MockAuthService struct {
	mock.Mock
}

// AcceptToken makes ValidateToken resolve token to the given user.
func (m *MockAuthService) AcceptToken(token, userID string) *mock.Call {
	claims := &types.TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: userID}}
	return m.On("ValidateToken", token).Return(claims, nil)
}

// RejectToken makes ValidateToken fail for token with err.
func (m *MockAuthService) RejectToken(token string, err error) *mock.Call {
	return m.On("ValidateToken", token).Return(nil, err)
}

func (m *MockAuthService) ValidateToken(token string) (*types.TokenClaims, error) {
	args := m.Called(token)
	claims, _ := args.Get(0).(*types.TokenClaims)
	return claims, args.Error(1)
}

func (m *MockAuthService) GenerateToken(userID, email string) (string, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Error(1)
}
