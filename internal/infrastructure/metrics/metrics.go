package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the coin ledger.
type Metrics struct {
	// Reservation metrics
	ReservationsCreated   prometheus.Counter
	ReservationsCompleted prometheus.Counter
	ReservationsFailed    prometheus.Counter
	ReservationsSwept     prometheus.Counter
	ReservationDuration   prometheus.Histogram

	// Wallet metrics
	DebitsTotal       prometheus.Counter
	CreditsTotal      *prometheus.CounterVec
	RefundsTotal      prometheus.Counter
	InsufficientFunds prometheus.Counter
	CoinsSpent        prometheus.Counter

	// Ledger metrics
	EntriesRecorded    *prometheus.CounterVec
	VerificationsTotal *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	PublishErrors   prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		ReservationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_reservations_created_total",
			Help: "Total number of pending reservations created",
		}),
		ReservationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_reservations_completed_total",
			Help: "Total number of reservations committed to the ledger",
		}),
		ReservationsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_reservations_failed_total",
			Help: "Total number of reservations released without charge",
		}),
		ReservationsSwept: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_reservations_swept_total",
			Help: "Total number of stale pending reservations expired by the sweeper",
		}),
		ReservationDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "coinledger_reservation_op_duration_seconds",
			Help:    "Duration of reservation operations",
			Buckets: prometheus.DefBuckets,
		}),

		DebitsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_debits_total",
			Help: "Total number of direct coin debits",
		}),
		CreditsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinledger_credits_total",
				Help: "Total number of coin credits by kind",
			},
			[]string{"kind"},
		),
		RefundsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_refunds_total",
			Help: "Total number of compensating refund credits",
		}),
		InsufficientFunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_insufficient_funds_total",
			Help: "Total number of operations rejected for insufficient balance",
		}),
		CoinsSpent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_coins_spent_total",
			Help: "Total coins debited across all accounts",
		}),

		EntriesRecorded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinledger_ledger_entries_total",
				Help: "Total ledger entries written by kind",
			},
			[]string{"kind"},
		),
		VerificationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinledger_ledger_verifications_total",
				Help: "Total ledger replay verifications by result",
			},
			[]string{"result"},
		),

		EventsPublished: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coinledger_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		PublishErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "coinledger_event_publish_errors_total",
			Help: "Total outbox publish failures",
		}),
	}
}
