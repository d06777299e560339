package mocks

import (
	"github.com/stretchr/testify/mock"

	"gradeledger/internal/service"
)

// MockTokenVerifier is a mock implementation of service.TokenVerifier.
type MockTokenVerifier struct {
	mock.Mock
}

func (m *MockTokenVerifier) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}
