package notify

import (
	"context"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/stretchr/testify/mock"
)

// MockNotifier is a mock implementation of Notifier for testing.
type MockNotifier struct {
	mock.Mock
}

var _ contract.Notifier = &MockNotifier{} // Compile-time check

// Notify implements the Notifier interface.
func (m *MockNotifier) Notify(ctx context.Context, webhookURL string, alert schema.AlertContent) error {
	args := m.Called(ctx, webhookURL, alert)
	return args.Error(0)
}
