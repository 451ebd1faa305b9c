package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/voltalia/goom-relay/internal/models"
)

// MockForwarder is a mock implementation of Forwarder
type MockForwarder struct {
	mock.Mock
}

func (m *MockForwarder) Forward(ctx context.Context, email string) models.ForwardResult {
	args := m.Called(ctx, email)
	return args.Get(0).(models.ForwardResult)
}

func statusPtr(status int) *int {
	return &status
}
