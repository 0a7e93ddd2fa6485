// Package metrics exposes Prometheus counters for scan cycles.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Offer outcomes recorded by OfferOutcome.
const (
	OfferKept      = "kept"
	OfferFiltered  = "filtered"
	OfferMalformed = "malformed"
)

// Trip and notification results.
const (
	ResultScanned = "scanned"
	ResultSkipped = "skipped"
	ResultInvalid = "invalid"
	ResultError   = "error"
	ResultSent    = "sent"
	ResultFailed  = "failed"
)

// Registry owns a private Prometheus registry. All methods are safe on a nil
// receiver so callers without metrics can pass nil.
type Registry struct {
	reg            *prometheus.Registry
	Scans          prometheus.Counter
	Trips          *prometheus.CounterVec
	Offers         *prometheus.CounterVec
	ProviderErrors *prometheus.CounterVec
	Notifications  *prometheus.CounterVec
	Drops          prometheus.Counter
	ScanSeconds    prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	scans := prometheus.NewCounter(prometheus.CounterOpts{Name: "farewatch_scans_total"})
	trips := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "farewatch_trips_total"}, []string{"result"})
	offers := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "farewatch_offers_total"}, []string{"outcome"})
	providerErrors := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "farewatch_provider_errors_total"}, []string{"category"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "farewatch_notifications_total"}, []string{"result"})
	drops := prometheus.NewCounter(prometheus.CounterOpts{Name: "farewatch_drops_total"})
	scanSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "farewatch_scan_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(scans, trips, offers, providerErrors, notifications, drops, scanSeconds)
	return &Registry{
		reg:            r,
		Scans:          scans,
		Trips:          trips,
		Offers:         offers,
		ProviderErrors: providerErrors,
		Notifications:  notifications,
		Drops:          drops,
		ScanSeconds:    scanSeconds,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// ScanFinished counts one completed scan cycle and its wall time.
func (r *Registry) ScanFinished(d time.Duration) {
	if r == nil {
		return
	}
	r.Scans.Inc()
	r.ScanSeconds.Observe(d.Seconds())
}

// TripResult counts one trip outcome.
func (r *Registry) TripResult(result string) {
	if r == nil {
		return
	}
	r.Trips.WithLabelValues(result).Inc()
}

// OfferOutcome adds n offers with the given outcome.
func (r *Registry) OfferOutcome(outcome string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.Offers.WithLabelValues(outcome).Add(float64(n))
}

// ProviderError counts one failed provider call by category.
func (r *Registry) ProviderError(category string) {
	if r == nil {
		return
	}
	r.ProviderErrors.WithLabelValues(category).Inc()
}

// Notification counts one delivery attempt.
func (r *Registry) Notification(result string) {
	if r == nil {
		return
	}
	r.Notifications.WithLabelValues(result).Inc()
}

// DropsFound adds n offers flagged as price drops.
func (r *Registry) DropsFound(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.Drops.Add(float64(n))
}
