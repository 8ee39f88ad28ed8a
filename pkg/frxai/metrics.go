package frxai

import (
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	operationAnalyze = "analyze_chart"
	operationNews    = "fetch_news"

	outcomeOK = "ok"
)

type metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	attempts *prometheus.CounterVec
	dropped  prometheus.Counter
	duration *prometheus.HistogramVec
}

func newMetrics(registry *prometheus.Registry) *metrics {
	factory := promauto.With(registry)
	m := &metrics{
		registry: registry,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frxai",
			Name:      "requests_total",
			Help:      "Analysis and news requests by outcome.",
		}, []string{"operation", "outcome"}),
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frxai",
			Name:      "remote_attempts_total",
			Help:      "Remote model calls by result.",
		}, []string{"operation", "result"}),
		dropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "frxai",
			Name:      "news_articles_dropped_total",
			Help:      "News articles discarded for failing validation.",
		}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "frxai",
			Name:      "request_duration_seconds",
			Help:      "Wall time of analysis and news requests, retries included.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		}, []string{"operation"}),
	}
	// A shared registry may already carry the runtime collectors.
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if !errors.As(err, &already) {
				panic(err)
			}
		}
	}
	return m
}

func (m *metrics) observe(operation string, start time.Time, err error) {
	m.requests.WithLabelValues(operation, outcomeLabel(err)).Inc()
	m.duration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (m *metrics) attempt(operation string, err error) {
	result := outcomeOK
	switch {
	case err == nil:
	case errors.Is(err, ErrEmptyResponse):
		result = "empty"
	default:
		result = "error"
	}
	m.attempts.WithLabelValues(operation, result).Inc()
}

func outcomeLabel(err error) string {
	if err == nil {
		return outcomeOK
	}
	var e *Error
	if errors.As(err, &e) {
		return strings.ToLower(string(e.Code))
	}
	return "error"
}
