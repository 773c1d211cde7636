package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all monitor metrics
type Metrics struct {
	// Tick metrics
	TicksTotal          prometheus.Counter
	TicksFailed         prometheus.Counter
	TicksSkippedOverlap prometheus.Counter
	TickDuration        prometheus.Histogram

	// Escalation metrics
	ComplaintsScanned   prometheus.Counter
	ComplaintsEscalated prometheus.Counter
	ComplaintsSkipped   prometheus.Counter
	EscalationErrors    prometheus.Counter

	// Notification metrics
	NotificationsCreated prometheus.Counter
	NotificationFailures prometheus.Counter
	EmailsSent           prometheus.Counter

	// Database metrics
	DatabaseOperations *prometheus.CounterVec
	DatabaseLatency    *prometheus.HistogramVec
}

// NewMetrics creates and registers all monitor metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		TicksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of monitor ticks executed",
		}),
		TicksFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_failed_total",
			Help:      "Total number of ticks aborted by a query failure",
		}),
		TicksSkippedOverlap: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_skipped_overlap_total",
			Help:      "Total number of tick firings skipped because a tick was in flight",
		}),
		TickDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent executing one monitor tick",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		ComplaintsScanned: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_scanned_total",
			Help:      "Total number of breach candidates scanned",
		}),
		ComplaintsEscalated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_escalated_total",
			Help:      "Total number of complaints escalated",
		}),
		ComplaintsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "complaints_skipped_total",
			Help:      "Total number of breached complaints skipped for lack of an acting user",
		}),
		EscalationErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalation_errors_total",
			Help:      "Total number of per-complaint escalation failures",
		}),
		NotificationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Total number of escalation notifications written",
		}),
		NotificationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_failures_total",
			Help:      "Total number of failed notification fan-outs",
		}),
		EmailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalation_emails_sent_total",
			Help:      "Total number of escalation emails sent to tenant admins",
		}),
		DatabaseOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "database_operations_total",
			Help:      "Total number of database operations",
		}, []string{"operation", "status"}),
		DatabaseLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "database_operation_duration_seconds",
			Help:      "Duration of database operations",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
	}
}

// NewTestMetrics creates an unregistered metrics set for use in tests,
// where promauto's default-registry registration would collide across cases.
func NewTestMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		TicksTotal:          factory.NewCounter(prometheus.CounterOpts{Name: "ticks_total"}),
		TicksFailed:         factory.NewCounter(prometheus.CounterOpts{Name: "ticks_failed_total"}),
		TicksSkippedOverlap: factory.NewCounter(prometheus.CounterOpts{Name: "ticks_skipped_overlap_total"}),
		TickDuration:        factory.NewHistogram(prometheus.HistogramOpts{Name: "tick_duration_seconds"}),
		ComplaintsScanned:   factory.NewCounter(prometheus.CounterOpts{Name: "complaints_scanned_total"}),
		ComplaintsEscalated: factory.NewCounter(prometheus.CounterOpts{Name: "complaints_escalated_total"}),
		ComplaintsSkipped:   factory.NewCounter(prometheus.CounterOpts{Name: "complaints_skipped_total"}),
		EscalationErrors:    factory.NewCounter(prometheus.CounterOpts{Name: "escalation_errors_total"}),
		NotificationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "notifications_created_total",
		}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "notification_failures_total",
		}),
		EmailsSent:         factory.NewCounter(prometheus.CounterOpts{Name: "escalation_emails_sent_total"}),
		DatabaseOperations: factory.NewCounterVec(prometheus.CounterOpts{Name: "database_operations_total"}, []string{"operation", "status"}),
		DatabaseLatency:    factory.NewHistogramVec(prometheus.HistogramOpts{Name: "database_operation_duration_seconds"}, []string{"operation"}),
	}
}
