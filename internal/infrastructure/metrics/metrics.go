package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	TripsCreated       prometheus.Counter
	TripsDeleted       prometheus.Counter
	ParticipantsAdded  prometheus.Counter
	ExpensesRecorded   prometheus.Counter
	MutationDuration   *prometheus.HistogramVec
	MutationErrors     *prometheus.CounterVec
	TripsLoaded        prometheus.Gauge
	IntegrityWarnings  *prometheus.CounterVec
	SettlementsCreated prometheus.Counter
	SettlementSize     prometheus.Histogram

	// Report metrics
	ReportCacheHits   prometheus.Counter
	ReportCacheMisses prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Persistence metrics
	PersistenceErrors *prometheus.CounterVec

	// Event metrics
	EventsPublished *prometheus.CounterVec
	EventsDropped   prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates all metrics and registers them on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Ledger metrics
		TripsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_trips_created_total",
			Help: "Total number of trips created",
		}),
		TripsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_trips_deleted_total",
			Help: "Total number of trips deleted",
		}),
		ParticipantsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_participants_added_total",
			Help: "Total number of participants added",
		}),
		ExpensesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_expenses_recorded_total",
			Help: "Total number of expenses recorded",
		}),
		MutationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripledger_mutation_duration_seconds",
				Help:    "Duration of ledger mutations including persistence",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		MutationErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_mutation_errors_total",
				Help: "Total number of rejected or failed ledger mutations",
			},
			[]string{"operation", "error_type"},
		),
		TripsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tripledger_trips",
			Help: "Current number of trips held in memory",
		}),
		IntegrityWarnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_integrity_warnings_total",
				Help: "Dangling participant references seen while computing balances",
			},
			[]string{"kind"},
		),
		SettlementsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_settlements_computed_total",
			Help: "Total number of settlement plans computed",
		}),
		SettlementSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripledger_settlement_transactions",
			Help:    "Number of payments in a computed settlement plan",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
		}),

		// Report metrics
		ReportCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_report_cache_hits_total",
			Help: "Total report cache hits",
		}),
		ReportCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_report_cache_misses_total",
			Help: "Total report cache misses",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tripledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Persistence metrics
		PersistenceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_persistence_errors_total",
				Help: "Total persistence failures",
			},
			[]string{"operation"},
		),

		// Event metrics
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_events_published_total",
				Help: "Total change events delivered",
			},
			[]string{"event_type"},
		),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "tripledger_events_dropped_total",
			Help: "Change events dropped because the queue was full",
		}),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
	}
}
