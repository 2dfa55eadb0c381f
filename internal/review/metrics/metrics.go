// Package metrics exposes Prometheus counters for the admin review flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts review actions and queue reads. All methods are safe on a
// nil receiver so the service can run without metrics wired.
type Metrics struct {
	Actions      *prometheus.CounterVec
	ActionErrors *prometheus.CounterVec
	QueueQueries prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		Actions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aseara_review_actions_total",
			Help: "Completed admin review actions by action and outcome status.",
		}, []string{"action", "status"}),
		ActionErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aseara_review_action_errors_total",
			Help: "Failed admin review actions by action.",
		}, []string{"action"}),
		QueueQueries: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aseara_review_queue_queries_total",
			Help: "Review queue list operations served.",
		}),
	}
}

func (m *Metrics) RecordAction(action, status string) {
	if m == nil {
		return
	}
	m.Actions.WithLabelValues(action, status).Inc()
}

func (m *Metrics) RecordActionError(action string) {
	if m == nil {
		return
	}
	m.ActionErrors.WithLabelValues(action).Inc()
}

func (m *Metrics) RecordQueueQuery() {
	if m == nil {
		return
	}
	m.QueueQueries.Inc()
}
