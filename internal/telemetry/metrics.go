package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	QuotesTotal   *prometheus.CounterVec
	QuoteDuration *prometheus.HistogramVec
	QuoteErrors   *prometheus.CounterVec
}

// NewMetrics creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on promhttp.Handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		QuotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dhlquote_quotes_total",
				Help: "Total number of quotes by operation, mode, and status",
			},
			[]string{"operation", "mode", "status"},
		),
		QuoteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dhlquote_quote_duration_seconds",
				Help:    "Quote duration in seconds by operation and mode",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "mode"},
		),
		QuoteErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dhlquote_quote_errors_total",
				Help: "Total failed quotes by carrier and error code",
			},
			[]string{"carrier", "code"},
		),
	}
}

// RecordQuote records a finished quote.
func (m *Metrics) RecordQuote(operation, mode, status string, duration float64) {
	m.QuotesTotal.WithLabelValues(operation, mode, status).Inc()
	m.QuoteDuration.WithLabelValues(operation, mode).Observe(duration)
}

// RecordError records a failed quote by error code.
func (m *Metrics) RecordError(carrier, code string) {
	m.QuoteErrors.WithLabelValues(carrier, code).Inc()
}
