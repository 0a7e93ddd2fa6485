package schema

import "time"

// HistoryStatus represents the status of the price history store.
type HistoryStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalObservations int              `json:"total_observations"`
	TrackedTrips      int              `json:"tracked_trips"`
	LastScanTime      time.Time        `json:"last_scan_time"`
	OldestScanTime    time.Time        `json:"oldest_scan_time"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}
