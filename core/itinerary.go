package core

import "github.com/farewatch/farewatch/schema"

// SummarizeItinerary flattens the segments of one itinerary. The caller
// guarantees at least one segment.
func SummarizeItinerary(it schema.RawItinerary) schema.ItinerarySummary {
	segs := it.Segments
	summary := schema.ItinerarySummary{
		Airlines:        []string{},
		Layovers:        []string{},
		FlightNumbers:   make([]string, 0, len(segs)),
		DurationMinutes: ParseDurationMinutes(it.Duration),
	}
	if len(segs) == 0 {
		return summary
	}

	seen := make(map[string]struct{}, len(segs))
	for i, seg := range segs {
		carrier := operatingCarrier(seg)
		if _, ok := seen[carrier]; !ok {
			seen[carrier] = struct{}{}
			summary.Airlines = append(summary.Airlines, carrier)
		}
		summary.FlightNumbers = append(summary.FlightNumbers, seg.CarrierCode+" "+seg.Number)
		if i < len(segs)-1 {
			summary.Layovers = append(summary.Layovers, seg.Arrival.IATACode)
		}
	}

	first, last := segs[0], segs[len(segs)-1]
	summary.Origin = first.Departure.IATACode
	summary.Destination = last.Arrival.IATACode
	summary.DepartureTime = first.Departure.At
	summary.ArrivalTime = last.Arrival.At
	summary.Stops = len(segs) - 1
	return summary
}

// operatingCarrier prefers the operating carrier and falls back to the marketing one.
func operatingCarrier(seg schema.RawSegment) string {
	if seg.Operating != nil && seg.Operating.CarrierCode != "" {
		return seg.Operating.CarrierCode
	}
	return seg.CarrierCode
}
