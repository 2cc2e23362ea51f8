// Package metrics exports Prometheus metrics for link insertion and the
// WordPress REST calls behind it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drijfveer/linkmanager/internal/models"
)

const namespace = "linkmanager"

// Link outcome labels.
const (
	ResultAdded  = "added"
	ResultExists = "exists"
	ResultFailed = "failed"
)

// Metrics owns its registry so several instances can coexist in tests.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	LinksTotal        *prometheus.CounterVec
	WordPressDuration *prometheus.HistogramVec
	WordPressRequests *prometheus.CounterVec
	BulkRows          *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		LinksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Link insertion attempts by outcome",
		}, []string{"result"}),
		WordPressDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "wordpress_request_duration_seconds",
			Help:      "Latency of WordPress REST calls",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		WordPressRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wordpress_requests_total",
			Help:      "WordPress REST calls by operation and status code (0 = no response)",
		}, []string{"operation", "code"}),
		BulkRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_rows_total",
			Help:      "Rows processed by bulk link requests",
		}, []string{"result"}),
	}
}

// RegisterWebsiteGauge exposes the registry size, read at scrape time.
func (m *Metrics) RegisterWebsiteGauge(count func() int) {
	if m == nil {
		return
	}
	promauto.With(m.registry).NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websites_registered",
		Help:      "Websites currently in the registry",
	}, func() float64 { return float64(count()) })
}

// ObserveWordPress matches wordpress.RequestObserver.
func (m *Metrics) ObserveWordPress(operation string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.WordPressDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
	m.WordPressRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
}

// LinkResult classifies a link response.
func LinkResult(resp models.LinkResponse) string {
	switch {
	case !resp.Success:
		return ResultFailed
	case resp.LinkAdded:
		return ResultAdded
	default:
		return ResultExists
	}
}

func (m *Metrics) ObserveLink(resp models.LinkResponse) {
	if m == nil {
		return
	}
	m.LinksTotal.WithLabelValues(LinkResult(resp)).Inc()
}

func (m *Metrics) ObserveBulkRow(success bool) {
	if m == nil {
		return
	}
	result := ResultFailed
	if success {
		result = "succeeded"
	}
	m.BulkRows.WithLabelValues(result).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
