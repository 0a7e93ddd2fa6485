package schema

import "time"

// PriceObservation is one persisted price sighting. Observations are append-only.
type PriceObservation struct {
	ID         string          `json:"id"`
	TripID     string          `json:"trip_id"`
	Route      string          `json:"route"`
	ScannedAt  time.Time       `json:"scanned_at"`
	CabinClass CabinClass      `json:"cabin_class"`
	Price      float64         `json:"price"`
	Currency   string          `json:"currency"`
	Offer      NormalizedOffer `json:"offer"`
}

// HistoryFilter narrows a history listing. Empty fields match everything.
type HistoryFilter struct {
	TripID string
	Route  string
	Cabin  CabinClass
	Since  time.Time
	Limit  int
}

// TripScanRecord is the last-scan bookkeeping row for one trip.
type TripScanRecord struct {
	TripID      string
	LastScanned time.Time
}
