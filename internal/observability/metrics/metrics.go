package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// AlertMetrics captures alert evaluation and delivery health signals.
type AlertMetrics struct {
	sweepRuns        prometheus.Counter
	sweepDuration    prometheus.Histogram
	ownerFailures    prometheus.Counter
	alertsSent       *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
	customersAlerted *prometheus.CounterVec
}

var (
	alertMetricsOnce sync.Once
	alertMetrics     *AlertMetrics
)

// Alerts returns the singleton alert metrics registry.
func Alerts() *AlertMetrics {
	alertMetricsOnce.Do(func() {
		alertMetrics = newAlertMetrics(prometheus.DefaultRegisterer)
	})
	return alertMetrics
}

func newAlertMetrics(reg prometheus.Registerer) *AlertMetrics {
	m := &AlertMetrics{
		sweepRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "segmenta_sweep_runs_total",
			Help: "Number of completed alert sweeps across all owners.",
		}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "segmenta_sweep_duration_seconds",
			Help:    "Duration of full alert sweeps.",
			Buckets: prometheus.DefBuckets,
		}),
		ownerFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "segmenta_sweep_owner_failures_total",
			Help: "Number of per-owner evaluation failures during sweeps.",
		}),
		alertsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "segmenta_alerts_sent_total",
			Help: "Number of consolidated alert messages delivered.",
		}, []string{"alert_type"}),
		deliveryFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "segmenta_alert_delivery_failures_total",
			Help: "Number of consolidated alert messages that failed delivery.",
		}, []string{"alert_type"}),
		customersAlerted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "segmenta_customers_alerted_total",
			Help: "Number of customers included in delivered alerts.",
		}, []string{"alert_type"}),
	}

	reg.MustRegister(
		m.sweepRuns,
		m.sweepDuration,
		m.ownerFailures,
		m.alertsSent,
		m.deliveryFailures,
		m.customersAlerted,
	)
	return m
}

func (m *AlertMetrics) IncSweepRun() {
	m.sweepRuns.Inc()
}

func (m *AlertMetrics) ObserveSweepDuration(d time.Duration) {
	m.sweepDuration.Observe(d.Seconds())
}

func (m *AlertMetrics) IncOwnerFailure() {
	m.ownerFailures.Inc()
}

func (m *AlertMetrics) IncAlertSent(alertType string, customers int) {
	m.alertsSent.WithLabelValues(alertType).Inc()
	m.customersAlerted.WithLabelValues(alertType).Add(float64(customers))
}

func (m *AlertMetrics) IncDeliveryFailure(alertType string) {
	m.deliveryFailures.WithLabelValues(alertType).Inc()
}

// HTTPMetrics captures request counts and latencies for the API surface.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var (
	httpMetricsOnce sync.Once
	httpMetrics     *HTTPMetrics
)

// HTTP returns the singleton HTTP metrics registry.
func HTTP() *HTTPMetrics {
	httpMetricsOnce.Do(func() {
		httpMetrics = newHTTPMetrics(prometheus.DefaultRegisterer)
	})
	return httpMetrics
}

func newHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	m := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "segmenta_http_requests_total",
			Help: "Number of HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "segmenta_http_request_duration_seconds",
			Help:    "HTTP request latency by route and method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// GinMiddleware records request metrics for every handled route.
func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
