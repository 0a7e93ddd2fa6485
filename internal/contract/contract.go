// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/farewatch/farewatch/schema"
)

// FlightSearcher defines the operations needed from the flight search provider.
// This allows the scan pipeline to be tested without network access.
type FlightSearcher interface {
	// SearchOffers returns the raw round-trip offers for one query.
	SearchOffers(ctx context.Context, query schema.OfferQuery) ([]schema.RawOffer, error)

	// CheapestDates returns the provider's cheapest travel dates for a route.
	CheapestDates(ctx context.Context, query schema.DateQuery) ([]schema.DatePrice, error)
}

// PriceReader is the read side of the price history used for baselines.
type PriceReader interface {
	// RecentPrices returns up to limit prices for the key, newest first.
	RecentPrices(ctx context.Context, key schema.BaselineKey, limit int) ([]float64, error)
}

// ObservationWriter is the append side of the price history.
type ObservationWriter interface {
	AppendObservations(ctx context.Context, observations []schema.PriceObservation) error
}

// ScanTracker records when each trip was last scanned.
type ScanTracker interface {
	// LastScanned returns the last scan time and whether one exists.
	LastScanned(ctx context.Context, tripID string) (time.Time, bool, error)

	// MarkScanned stores the scan time for a trip, replacing any previous value.
	MarkScanned(ctx context.Context, tripID string, at time.Time) error
}

// ScanStore is the slice of the history store a scan cycle needs.
type ScanStore interface {
	PriceReader
	ObservationWriter
	ScanTracker
}

// HistoryStore defines the full interface for price history storage.
// This allows mocking the store for testing.
type HistoryStore interface {
	ScanStore

	// ListObservations returns observations matching the filter, newest first.
	ListObservations(ctx context.Context, filter schema.HistoryFilter) ([]schema.PriceObservation, error)

	// ListTripScans returns the last-scan record of every trip.
	ListTripScans(ctx context.Context) ([]schema.TripScanRecord, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// HistoryManager defines the interface for reaching the configured history store.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// Notifier delivers a trip alert to a webhook.
type Notifier interface {
	Notify(ctx context.Context, webhookURL string, alert schema.AlertContent) error
}
