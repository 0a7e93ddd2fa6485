// Package outwriter has output and writer logic.
package outwriter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/farewatch/farewatch/schema"
)

// ErrParquetUnsupported is returned when parquet output is requested for
// anything other than price history.
var ErrParquetUnsupported = errors.New("parquet output is only supported for history")

// ErrParquetNeedsFile is returned when parquet output has no destination file.
var ErrParquetNeedsFile = errors.New("parquet output requires --output-file")

// legRoute renders an itinerary as "HYD→DXB→ARN".
func legRoute(leg schema.ItinerarySummary) string {
	parts := make([]string, 0, len(leg.Layovers)+2)
	parts = append(parts, leg.Origin)
	parts = append(parts, leg.Layovers...)
	parts = append(parts, leg.Destination)
	return strings.Join(parts, "→")
}

// formatStops renders a stop count the way travellers read it.
func formatStops(stops int) string {
	switch stops {
	case 0:
		return "nonstop"
	case 1:
		return "1 stop"
	default:
		return fmt.Sprintf("%d stops", stops)
	}
}
