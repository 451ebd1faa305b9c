package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Buckets span fast local handling up to the 30s default gateway timeout
	CustomAPIBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Goom gateway client metrics
	GoomForwardDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goom_forward_duration_seconds",
			Help:    "Duration of forwards to the Goom gateway in seconds",
			Buckets: CustomAPIBuckets,
		},
		[]string{"status"},
	)

	GoomForwardTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goom_forward_total",
			Help: "Total number of forwards to the Goom gateway",
		},
		[]string{"status"},
	)

	GoomResponseStatus = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goom_forward_response_status_total",
			Help: "HTTP status codes returned by the Goom gateway",
		},
		[]string{"http_response_status_code"},
	)

	// Business Metrics
	WebhookNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goom_relay_webhook_notifications_total",
			Help: "Inbound Airtable notifications by payload shape",
		},
		[]string{"kind"}, // "direct_email", "record_change_set"
	)

	WebhookRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "goom_relay_webhook_records_total",
			Help: "Changed records seen in notifications by outcome",
		},
		[]string{"outcome"}, // "forwarded", "missing_email", "skipped"
	)

	// Infrastructure Metrics
	GoRoutines = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)
)

// RecordInfrastructureMetrics samples runtime metrics every 15 seconds until stop is closed.
func RecordInfrastructureMetrics(stop <-chan struct{}) {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				var m runtime.MemStats
				runtime.ReadMemStats(&m)

				GoRoutines.Set(float64(runtime.NumGoroutine()))
				HeapAlloc.Set(float64(m.HeapAlloc))
			}
		}
	}()
}

// MeasureDuration measures the duration of an operation
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
