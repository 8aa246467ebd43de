package metrics

import (
	"PantryPal/domain"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "pantrypal",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pantrypal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pantrypal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	inventoryMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pantrypal",
			Subsystem: "inventory",
			Name:      "mutations_total",
			Help:      "Inventory mutations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	digestRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "pantrypal",
			Subsystem: "digest",
			Name:      "deliveries_total",
			Help:      "Expiring-items digest deliveries by channel and outcome.",
		},
		[]string{"channel", "outcome"},
	)

	upstreamCalls = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "pantrypal",
			Subsystem: "upstream",
			Name:      "call_duration_seconds",
			Help:      "Duration of calls to external collaborators.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"service", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		inventoryMutations,
		digestRuns,
		upstreamCalls,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency labelled by route pattern.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/metrics" {
			return c.Next()
		}

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		path := c.Route().Path
		httpRequests.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

func RecordMutation(operation string, err error) {
	inventoryMutations.WithLabelValues(operation, Outcome(err)).Inc()
}

func RecordDigest(channel string, err error) {
	digestRuns.WithLabelValues(channel, Outcome(err)).Inc()
}

func ObserveUpstream(service string, start time.Time, err error) {
	upstreamCalls.WithLabelValues(service, Outcome(err)).Observe(time.Since(start).Seconds())
}

// Outcome folds an error into a low-cardinality label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	default:
		return "error"
	}
}
