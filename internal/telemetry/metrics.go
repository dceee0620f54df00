package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SessionsStarted counts connection attempts opened per interface
	SessionsStarted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifitel",
			Name:      "sessions_started_total",
			Help:      "Total number of connection attempts started",
		},
		[]string{"interface"},
	)

	// SessionsFinalized counts finalized connection attempts by outcome
	SessionsFinalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifitel",
			Name:      "sessions_finalized_total",
			Help:      "Total number of connection attempts finalized",
		},
		[]string{"interface", "outcome"},
	)

	// AtomsEmitted counts outbound telemetry records by atom type
	AtomsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifitel",
			Name:      "atoms_emitted_total",
			Help:      "Total number of outbound telemetry atoms emitted",
		},
		[]string{"type"},
	)

	// Dumps counts snapshot dumps by mode
	Dumps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifitel",
			Name:      "dumps_total",
			Help:      "Total number of snapshot dumps taken",
		},
		[]string{"mode"},
	)

	// UnusableEvents counts unusable-link reports by disposition
	UnusableEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wifitel",
			Name:      "unusable_events_total",
			Help:      "Total number of unusable-link reports, accepted or throttled",
		},
		[]string{"disposition"},
	)

	// ListenersDropped counts usability listeners removed after a delivery failure
	ListenersDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wifitel",
			Name:      "usability_listeners_dropped_total",
			Help:      "Total number of usability listeners removed after delivery failure",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		// Register metrics, ignoring errors if already registered
		prometheus.DefaultRegisterer.Register(SessionsStarted)
		prometheus.DefaultRegisterer.Register(SessionsFinalized)
		prometheus.DefaultRegisterer.Register(AtomsEmitted)
		prometheus.DefaultRegisterer.Register(Dumps)
		prometheus.DefaultRegisterer.Register(UnusableEvents)
		prometheus.DefaultRegisterer.Register(ListenersDropped)
	})
}
