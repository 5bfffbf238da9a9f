// Package metrics provides Prometheus observability metrics for the
// directory service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// HTTPRequestsTotal counts requests by route and status code.
var HTTPRequestsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "staffdir",
	Name:      "http_requests_total",
	Help:      "Total HTTP requests served, by route and status code",
}, []string{"route", "code"})

// ComposeDurationSeconds tracks time to filter, group, and sort the directory.
var ComposeDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "staffdir",
	Name:      "compose_duration_seconds",
	Help:      "Time taken to compose the filtered directory view",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// EmployeesTotal tracks the number of employees in the last served listing.
var EmployeesTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "staffdir",
	Name:      "employees_total",
	Help:      "Number of employees in the most recently served directory listing",
})

// BirthdaysObservedToday tracks how many birthdays are observed today,
// as counted during the last calendar build.
var BirthdaysObservedToday = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "staffdir",
	Name:      "birthdays_observed_today",
	Help:      "Number of employees whose observed birthday is today",
})

// CalendarBuildDurationSeconds tracks time to render the ICS feed.
var CalendarBuildDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "staffdir",
	Name:      "calendar_build_duration_seconds",
	Help:      "Time taken to build the occasions ICS feed",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// ImportCardsTotal counts vCards successfully imported into the store.
var ImportCardsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffdir",
	Name:      "import_cards_total",
	Help:      "Total vCards successfully imported",
})

// ImportSkippedTotal counts malformed vCards skipped during import.
var ImportSkippedTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "staffdir",
	Name:      "import_skipped_total",
	Help:      "Total malformed vCards skipped during import",
})
