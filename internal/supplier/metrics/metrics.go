// Package metrics provides observability for the supplier verification
// module.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the supplier module's Prometheus metrics.
type Metrics struct {
	Submissions         prometheus.Counter
	DocumentsStored     *prometheus.CounterVec
	BlobCleanupFailures prometheus.Counter
}

// New creates and registers the supplier metrics.
func New() *Metrics {
	return &Metrics{
		Submissions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aseara_supplier_submissions_total",
			Help: "Total verification dossier submissions (including re-submissions)",
		}),
		DocumentsStored: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aseara_supplier_documents_stored_total",
			Help: "Total supplier documents written to the blob backend, by kind",
		}, []string{"kind"}),
		BlobCleanupFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aseara_supplier_blob_cleanup_failures_total",
			Help: "Replaced-blob deletions abandoned after retries",
		}),
	}
}

// IncrementSubmissions records a completed dossier submission.
func (m *Metrics) IncrementSubmissions() {
	if m != nil {
		m.Submissions.Inc()
	}
}

// IncrementDocumentsStored records a stored document by kind.
func (m *Metrics) IncrementDocumentsStored(kind string) {
	if m != nil {
		m.DocumentsStored.WithLabelValues(kind).Inc()
	}
}

// IncrementBlobCleanupFailures records an abandoned cleanup delete.
func (m *Metrics) IncrementBlobCleanupFailures() {
	if m != nil {
		m.BlobCleanupFailures.Inc()
	}
}
