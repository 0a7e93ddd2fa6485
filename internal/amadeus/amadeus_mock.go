package amadeus

import (
	"context"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/schema"
	"github.com/stretchr/testify/mock"
)

// MockFlightSearcher is a mock implementation of FlightSearcher for testing.
type MockFlightSearcher struct {
	mock.Mock
}

var _ contract.FlightSearcher = &MockFlightSearcher{} // Compile-time check

// SearchOffers implements the FlightSearcher interface.
func (m *MockFlightSearcher) SearchOffers(ctx context.Context, query schema.OfferQuery) ([]schema.RawOffer, error) {
	args := m.Called(ctx, query)
	offers, _ := args.Get(0).([]schema.RawOffer)
	return offers, args.Error(1)
}

// CheapestDates implements the FlightSearcher interface.
func (m *MockFlightSearcher) CheapestDates(ctx context.Context, query schema.DateQuery) ([]schema.DatePrice, error) {
	args := m.Called(ctx, query)
	dates, _ := args.Get(0).([]schema.DatePrice)
	return dates, args.Error(1)
}
