// Package core has core logic for offer normalization, baselines and scanning.
package core

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/farewatch/farewatch/internal/contract"
	"github.com/farewatch/farewatch/internal/metrics"
	"github.com/farewatch/farewatch/internal/outwriter"
	"github.com/farewatch/farewatch/schema"
)

// ErrNoHistoryStore is returned when a scan has nowhere to read baselines from.
var ErrNoHistoryStore = errors.New("history store is not initialized")

// Deps bundles the collaborators shared by the entry points.
type Deps struct {
	Searcher contract.FlightSearcher
	History  contract.HistoryManager
	Notifier contract.Notifier
	Metrics  *metrics.Registry
}

// ExecuteScan runs one scan cycle over the selected trips and prints the reports.
// It serves as the main entry point for the 'scan' command.
func ExecuteScan(ctx context.Context, cfg *contract.Config, deps Deps) error {
	start := time.Now()
	reports, err := RunScan(ctx, cfg, deps)
	if err != nil {
		return err
	}
	return outwriter.PrintScanReports(reports, cfg, time.Since(start))
}

// RunScan runs one scan cycle and returns the reports without printing.
func RunScan(ctx context.Context, cfg *contract.Config, deps Deps) ([]schema.TripReport, error) {
	trips, err := cfg.SelectTrips()
	if err != nil {
		return nil, err
	}
	store := deps.History.GetHistoryStore()
	if store == nil {
		return nil, ErrNoHistoryStore
	}
	scanner := &Scanner{
		Searcher:       deps.Searcher,
		Store:          store,
		Notifier:       deps.Notifier,
		Metrics:        deps.Metrics,
		DefaultWebhook: cfg.SlackWebhookURL,
		TopOffers:      cfg.TopOffers,
		MaxPairs:       cfg.MaxPairs,
	}
	return scanner.Run(WithDryRun(ctx, cfg.DryRun), trips), nil
}

// ExecuteSearch runs a single offer search and prints the normalized offers.
// It serves as the main entry point for the 'search' command.
func ExecuteSearch(ctx context.Context, cfg *contract.Config, searcher contract.FlightSearcher, query schema.OfferQuery, policy schema.OfferPolicy) error {
	start := time.Now()
	result, err := SearchOffers(ctx, searcher, query, policy)
	if err != nil {
		return err
	}
	for _, merr := range result.Malformed {
		logWarn(ctx, "skipping offer", merr)
	}
	return outwriter.PrintOffers(result.Offers, cfg, time.Since(start))
}

// ExecuteDates looks up the cheapest travel dates and prints them.
// It serves as the main entry point for the 'dates' command.
func ExecuteDates(ctx context.Context, cfg *contract.Config, searcher contract.FlightSearcher, query schema.DateQuery) error {
	start := time.Now()
	dates, err := CheapestDates(ctx, searcher, query)
	if err != nil {
		return err
	}
	return outwriter.PrintDates(dates, cfg, time.Since(start))
}

// SearchOffers validates the airports, calls the provider once and
// normalizes the batch.
func SearchOffers(ctx context.Context, searcher contract.FlightSearcher, query schema.OfferQuery, policy schema.OfferPolicy) (NormalizeResult, error) {
	if err := contract.ValidateIATA("origin", query.Origin); err != nil {
		return NormalizeResult{}, err
	}
	if err := contract.ValidateIATA("destination", query.Destination); err != nil {
		return NormalizeResult{}, err
	}
	raws, err := searcher.SearchOffers(ctx, query)
	if err != nil {
		return NormalizeResult{}, err
	}
	return NormalizeOffers(raws, schema.OfferRequest{
		DepartureDate: query.DepartureDate,
		ReturnDate:    query.ReturnDate,
		Currency:      query.Currency,
	}, policy), nil
}

// CheapestDates validates the airports and returns the provider's cheapest
// dates, cheapest first.
func CheapestDates(ctx context.Context, searcher contract.FlightSearcher, query schema.DateQuery) ([]schema.DatePrice, error) {
	if err := contract.ValidateIATA("origin", query.Origin); err != nil {
		return nil, err
	}
	if err := contract.ValidateIATA("destination", query.Destination); err != nil {
		return nil, err
	}
	dates, err := searcher.CheapestDates(ctx, query)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(dates, func(a, b schema.DatePrice) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return dates, nil
}
