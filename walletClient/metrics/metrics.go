// Package metrics exposes prometheus instrumentation of the submission pipeline.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "transferd"

// Submission outcome labels.
const (
	OutcomeConfirmed = "confirmed"
)

// Metrics holds the pipeline collectors.
type Metrics struct {
	submissions       *prometheus.CounterVec
	confirmation      prometheus.Histogram
	openSubscriptions prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Transfer submissions by outcome.",
		}, []string{"outcome"}),
		confirmation: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "confirmation_seconds",
			Help:      "Time from subscription registration to block inclusion.",
			Buckets:   []float64{0.5, 1, 2, 3, 5, 7.5, 10, 15},
		}),
		openSubscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_subscriptions",
			Help:      "Event subscriptions currently held open.",
		}),
	}

	for _, c := range []prometheus.Collector{m.submissions, m.confirmation, m.openSubscriptions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SubmissionResolved counts one resolved submission under outcome.
func (m *Metrics) SubmissionResolved(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}

// ObserveConfirmation records how long a confirmation took.
func (m *Metrics) ObserveConfirmation(d time.Duration) {
	if m == nil {
		return
	}
	m.confirmation.Observe(d.Seconds())
}

func (m *Metrics) SubscriptionOpened() {
	if m == nil {
		return
	}
	m.openSubscriptions.Inc()
}

func (m *Metrics) SubscriptionClosed() {
	if m == nil {
		return
	}
	m.openSubscriptions.Dec()
}
