package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEventEmitter records emitted relationship events.
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) Emit(ctx context.Context, eventType string, userID uuid.UUID, payload any) {
	m.Called(ctx, eventType, userID, payload)
}
