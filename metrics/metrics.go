// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the domain events behind it.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutlink_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoutlink_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoutlink_api_active_requests",
			Help: "Number of requests currently being served",
		},
	)

	// Domain Metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutlink_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // "success", "failure"
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoutlink_messages_sent_total",
			Help: "Total number of direct messages sent",
		},
	)

	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoutlink_trial_applications_total",
			Help: "Total number of trial applications submitted",
		},
	)

	ApplicationDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutlink_trial_application_decisions_total",
			Help: "Trial application status changes by target status",
		},
		[]string{"status"},
	)

	VideoUploads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scoutlink_video_uploads_total",
			Help: "Total number of videos uploaded",
		},
	)

	ScoutInterests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoutlink_scout_interests_total",
			Help: "Scout interest events by type",
		},
		[]string{"type"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordLogin counts a login attempt.
func RecordLogin(success bool) {
	if success {
		LoginAttempts.WithLabelValues("success").Inc()
		return
	}
	LoginAttempts.WithLabelValues("failure").Inc()
}

// Middleware records request counts and latency labelled by route pattern,
// so path parameters do not create new series.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		APIActiveRequests.Inc()
		defer APIActiveRequests.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		endpoint := "unmatched"
		if r := c.Route(); r != nil && r.Path != "" && r.Path != "/" {
			endpoint = r.Path
		}
		RecordAPIRequest(c.Method(), endpoint, strconv.Itoa(status), time.Since(start))
		return err
	}
}

// Handler serves the Prometheus exposition format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
