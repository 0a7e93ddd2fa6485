package iocache

import (
	"context"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/stretchr/testify/mock"
)

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ contract.HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() contract.HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{} // Compile-time check

// RecentPrices implements the HistoryStore interface.
func (m *MockHistoryStore) RecentPrices(ctx context.Context, key schema.BaselineKey, limit int) ([]float64, error) {
	args := m.Called(ctx, key, limit)
	prices, _ := args.Get(0).([]float64)
	return prices, args.Error(1)
}

// AppendObservations implements the HistoryStore interface.
func (m *MockHistoryStore) AppendObservations(ctx context.Context, observations []schema.PriceObservation) error {
	args := m.Called(ctx, observations)
	return args.Error(0)
}

// LastScanned implements the HistoryStore interface.
func (m *MockHistoryStore) LastScanned(ctx context.Context, tripID string) (time.Time, bool, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).(time.Time), args.Bool(1), args.Error(2)
}

// MarkScanned implements the HistoryStore interface.
func (m *MockHistoryStore) MarkScanned(ctx context.Context, tripID string, at time.Time) error {
	args := m.Called(ctx, tripID, at)
	return args.Error(0)
}

// ListObservations implements the HistoryStore interface.
func (m *MockHistoryStore) ListObservations(ctx context.Context, filter schema.HistoryFilter) ([]schema.PriceObservation, error) {
	args := m.Called(ctx, filter)
	observations, _ := args.Get(0).([]schema.PriceObservation)
	return observations, args.Error(1)
}

// ListTripScans implements the HistoryStore interface.
func (m *MockHistoryStore) ListTripScans(ctx context.Context) ([]schema.TripScanRecord, error) {
	args := m.Called(ctx)
	records, _ := args.Get(0).([]schema.TripScanRecord)
	return records, args.Error(1)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
