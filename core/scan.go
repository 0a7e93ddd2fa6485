package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/metrics"
	"github.com/farewatch/farewatch/schema"
)

// Scanner runs scan cycles over a list of trips. Trips are processed one at a
// time and a failure in one never stops the others.
type Scanner struct {
	Searcher       contract.FlightSearcher
	Store          contract.ScanStore
	Notifier       contract.Notifier
	Metrics        *metrics.Registry // Optional
	DefaultWebhook string
	TopOffers      int
	MaxPairs       int
	Now            func() time.Time // Defaults to time.Now
}

// Run executes one scan cycle and returns a report per active trip.
func (s *Scanner) Run(ctx context.Context, trips []schema.Trip) []schema.TripReport {
	start := time.Now()
	reports := make([]schema.TripReport, 0, len(trips))
	for _, trip := range trips {
		if !trip.IsActive() {
			continue
		}
		if ctx.Err() != nil {
			reports = append(reports, schema.TripReport{
				TripID: trip.ID, Label: trip.Label, Route: trip.Route(), Error: ctx.Err().Error(),
			})
			continue
		}
		reports = append(reports, s.scanTrip(ctx, trip))
	}
	s.Metrics.ScanFinished(time.Since(start))
	return reports
}

func (s *Scanner) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Scanner) scanTrip(ctx context.Context, trip schema.Trip) (report schema.TripReport) {
	started := s.now()
	report = schema.TripReport{TripID: trip.ID, Label: trip.Label, Route: trip.Route(), ScannedAt: started.UTC()}
	defer func() { report.DurationMs = s.now().Sub(started).Milliseconds() }()

	if err := ValidateTrip(trip); err != nil {
		logWarn(ctx, fmt.Sprintf("skipping trip %q", trip.ID), err)
		report.Skipped = err.Error()
		s.Metrics.TripResult(metrics.ResultInvalid)
		return report
	}

	last, hasLast, err := s.Store.LastScanned(ctx, trip.ID)
	if err != nil {
		return s.abort(ctx, &report, asStoreError("last scan read", err))
	}
	if ok, reason := ShouldScan(trip, last, hasLast, started); !ok {
		logInfo(ctx, "Skipping %s: %s", trip.ID, reason)
		report.Skipped = reason
		s.Metrics.TripResult(metrics.ResultSkipped)
		return report
	}

	pairs, err := GenerateDatePairs(trip.DepartureDateRange, trip.ReturnDateRange, trip.MinTripDays, trip.MaxTripDays, s.maxPairs())
	if err != nil {
		return s.abort(ctx, &report, err)
	}
	logInfo(ctx, "Scanning %s (%s) over %d date pair(s)", trip.ID, report.Route, len(pairs))

	policy := schema.NewOfferPolicy(trip.Airlines, trip.StopLimit())
	dropPolicy := schema.DropPolicy{ThresholdPct: trip.DropThresholdPct}
	for _, cabin := range trip.CabinClasses {
		offers := s.collectOffers(ctx, trip, cabin, pairs, policy)
		key := schema.BaselineKey{TripID: trip.ID, Route: report.Route, Cabin: cabin}

		// The baseline must not include this cycle's own observations.
		baseline, err := RollingAverage(ctx, s.Store, key)
		if err != nil {
			return s.abort(ctx, &report, err)
		}
		if !isDryRun(ctx) {
			if _, err := RecordObservations(ctx, s.Store, key, offers, started); err != nil {
				logWarn(ctx, fmt.Sprintf("could not record %s prices for %q", cabin, trip.ID), err)
			}
		}
		report.Drops += ApplyDrops(offers, baseline, dropPolicy)
		report.Cabins = append(report.Cabins, schema.CabinOffers{Cabin: cabin, Offers: offers})
	}
	s.Metrics.DropsFound(report.Drops)

	if trip.AlwaysNotify || report.Drops > 0 {
		report.Notified = s.notify(ctx, trip, report)
	}

	if !isDryRun(ctx) {
		if err := s.Store.MarkScanned(ctx, trip.ID, started); err != nil {
			logWarn(ctx, fmt.Sprintf("could not mark %q scanned", trip.ID), asStoreError("mark scanned", err))
		}
	}
	s.Metrics.TripResult(metrics.ResultScanned)
	return report
}

func (s *Scanner) abort(ctx context.Context, report *schema.TripReport, err error) schema.TripReport {
	logWarn(ctx, fmt.Sprintf("aborting trip %q", report.TripID), err)
	report.Error = err.Error()
	report.Cabins = nil
	report.Drops = 0
	s.Metrics.TripResult(metrics.ResultError)
	return *report
}

// collectOffers searches every date pair for one cabin and returns the
// surviving offers cheapest first. Failed pairs are logged and skipped.
func (s *Scanner) collectOffers(ctx context.Context, trip schema.Trip, cabin schema.CabinClass, pairs []schema.DatePair, policy schema.OfferPolicy) []schema.NormalizedOffer {
	var offers []schema.NormalizedOffer
	origin, destination := trip.Origins[0], trip.Destinations[0]
	for _, pair := range pairs {
		if ctx.Err() != nil {
			break
		}
		raws, err := s.Searcher.SearchOffers(ctx, schema.OfferQuery{
			Origin:        origin,
			Destination:   destination,
			DepartureDate: pair.DepartureDate,
			ReturnDate:    pair.ReturnDate,
			Cabin:         cabin,
			Currency:      trip.Currency,
		})
		if err != nil {
			category := ProviderCategory(err)
			logWarn(ctx, fmt.Sprintf("search %s %s %s/%s failed", trip.ID, cabin, pair.DepartureDate, pair.ReturnDate), errors.New(string(category)))
			s.Metrics.ProviderError(string(category))
			continue
		}

		result := NormalizeOffers(raws, schema.OfferRequest{
			DepartureDate: pair.DepartureDate,
			ReturnDate:    pair.ReturnDate,
			Currency:      trip.Currency,
		}, policy)
		for _, merr := range result.Malformed {
			logWarn(ctx, "skipping offer", merr)
		}
		s.Metrics.OfferOutcome(metrics.OfferMalformed, len(result.Malformed))
		s.Metrics.OfferOutcome(metrics.OfferFiltered, result.Filtered)
		s.Metrics.OfferOutcome(metrics.OfferKept, len(result.Offers))
		offers = append(offers, result.Offers...)
	}
	SortByPrice(offers)
	return offers
}

func (s *Scanner) notify(ctx context.Context, trip schema.Trip, report schema.TripReport) bool {
	webhook := trip.WebhookURL
	if webhook == "" {
		webhook = s.DefaultWebhook
	}
	alert := schema.AlertContent{
		Label:          trip.Label,
		Origin:         trip.Origins[0],
		Destination:    trip.Destinations[0],
		Currency:       trip.Currency,
		DepartureRange: trip.DepartureDateRange,
		ReturnRange:    trip.ReturnDateRange,
		Cabins:         report.Cabins,
		TopOffers:      s.topOffers(),
	}
	if err := s.Notifier.Notify(ctx, webhook, alert); err != nil {
		logWarn(ctx, fmt.Sprintf("could not notify for %q", trip.ID), err)
		s.Metrics.Notification(metrics.ResultFailed)
		return false
	}
	s.Metrics.Notification(metrics.ResultSent)
	return true
}

func (s *Scanner) topOffers() int {
	if s.TopOffers > 0 {
		return s.TopOffers
	}
	return schema.DefaultTopOffers
}

func (s *Scanner) maxPairs() int {
	if s.MaxPairs > 0 {
		return s.MaxPairs
	}
	return schema.DefaultMaxPairs
}

// ProviderCategory extracts the loggable category of a search failure.
// Errors that are not provider errors report as "unknown" so no request
// detail leaks into logs.
func ProviderCategory(err error) schema.ProviderErrorCategory {
	var provErr *schema.ProviderCallError
	if errors.As(err, &provErr) {
		return provErr.Category
	}
	var valErr *schema.ValidationError
	if errors.As(err, &valErr) {
		return schema.ValidationFailed
	}
	return "unknown"
}

func logInfo(ctx context.Context, format string, args ...any) {
	if isQuiet(ctx) {
		return
	}
	contract.LogInfo(format, args...)
}

func logWarn(ctx context.Context, msg string, err error) {
	if isQuiet(ctx) {
		return
	}
	contract.LogWarn(msg, err)
}
