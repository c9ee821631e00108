package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type ExportMetrics struct {
	Exports         *prometheus.CounterVec
	ExportDuration  prometheus.Histogram
	ErrorLogAppends *prometheus.CounterVec
}

func NewExportMetrics(reg prometheus.Registerer) *ExportMetrics {
	m := &ExportMetrics{
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_exporter",
			Name:      "exports_total",
			Help:      "Post exports by outcome.",
		}, []string{"outcome"}),
		ExportDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "video_exporter",
			Name:      "export_duration_seconds",
			Help:      "Time spent submitting a post, retries included.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 150},
		}),
		ErrorLogAppends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "video_exporter",
			Name:      "error_log_appends_total",
			Help:      "Writes to the export error log by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Exports, m.ExportDuration, m.ErrorLogAppends)
	}
	return m
}

func (m *ExportMetrics) IncExport(outcome string) {
	if m == nil || m.Exports == nil {
		return
	}
	m.Exports.WithLabelValues(outcome).Inc()
}

func (m *ExportMetrics) ObserveExport(d time.Duration) {
	if m == nil || m.ExportDuration == nil {
		return
	}
	m.ExportDuration.Observe(d.Seconds())
}

func (m *ExportMetrics) IncErrorLog(result string) {
	if m == nil || m.ErrorLogAppends == nil {
		return
	}
	m.ErrorLogAppends.WithLabelValues(result).Inc()
}
