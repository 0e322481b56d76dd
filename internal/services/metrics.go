package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments for the attendance service.
type Metrics struct {
	UploadsTotal    *prometheus.CounterVec
	RecordsAccepted prometheus.Counter
	RecordsRejected prometheus.Counter
	ExportsTotal    *prometheus.CounterVec
	IngestDuration  prometheus.Histogram
}

// NewMetrics creates and registers the service instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftpulse",
			Name:      "uploads_total",
			Help:      "Workbook uploads by outcome.",
		}, []string{"outcome"}),
		RecordsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shiftpulse",
			Name:      "records_accepted_total",
			Help:      "Attendance records accepted across all uploads.",
		}),
		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "shiftpulse",
			Name:      "records_rejected_total",
			Help:      "Rows rejected during cleaning across all uploads.",
		}),
		ExportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shiftpulse",
			Name:      "exports_total",
			Help:      "Summary exports by format.",
		}, []string{"format"}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "shiftpulse",
			Name:      "ingest_duration_seconds",
			Help:      "End-to-end workbook ingest latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.UploadsTotal, m.RecordsAccepted, m.RecordsRejected,
			m.ExportsTotal, m.IngestDuration)
	}
	return m
}
