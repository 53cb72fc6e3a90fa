package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the application lifecycle module.
type Metrics struct {
	Created         prometheus.Counter
	Submitted       prometheus.Counter
	SubmitRejected  *prometheus.CounterVec
	StatusDecisions *prometheus.CounterVec
	SubmitDuration  prometheus.Histogram
}

// New creates and registers all application lifecycle metrics.
func New() *Metrics {
	return &Metrics{
		Created: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_applications_created_total",
			Help: "Total number of applications created",
		}),
		Submitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "intake_applications_submitted_total",
			Help: "Total number of successful submissions",
		}),
		SubmitRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_applications_submit_rejected_total",
			Help: "Submissions rejected, by reason",
		}, []string{"reason"}),
		StatusDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "intake_applications_status_decisions_total",
			Help: "Review-class status assignments, by status",
		}, []string{"status"}),
		SubmitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "intake_application_submit_duration_seconds",
			Help:    "Duration of submit operations including document validation",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}
