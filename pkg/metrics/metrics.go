// Package metrics exposes prometheus instrumentation for the HTTP surface.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/apperrors"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)
)

// HTTPMetrics collects request metrics for one service.
type HTTPMetrics struct {
	serviceName string
}

// NewHTTPMetrics registers the collectors and returns a collector bound to the
// service name.
func NewHTTPMetrics(serviceName string) *HTTPMetrics {
	prometheus.MustRegister(requestCounter, requestDuration)
	return &HTTPMetrics{serviceName: serviceName}
}

// Middleware records counter and duration per request, labeled with the
// route pattern rather than the raw path to bound cardinality.
func (m *HTTPMetrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// The error handler that writes the real status runs after this
		// middleware unwinds, so derive it from the error here.
		status := c.Response().StatusCode()
		if err != nil {
			var appErr *apperrors.Error
			if fiberErr, ok := err.(*fiber.Error); ok {
				status = fiberErr.Code
			} else if errors.As(err, &appErr) {
				status = appErr.Kind.StatusCode()
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		labels := []string{m.serviceName, c.Method(), path, strconv.Itoa(status)}
		requestCounter.WithLabelValues(labels...).Inc()
		requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the prometheus scrape endpoint.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
