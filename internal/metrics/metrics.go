package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocketsim_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rocketsim_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocketsim_submissions_total",
			Help: "Submit triggers by flow and outcome class.",
		},
		[]string{"kind", "outcome"},
	)

	submitDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rocketsim_submit_duration_seconds",
			Help:    "Time from submit trigger to result, including external calls.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpDurationSeconds)
	prometheus.MustRegister(submissionsTotal)
	prometheus.MustRegister(submitDurationSeconds)
}

// Handler returns the Prometheus metrics handler mounted on the fiber app.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

// Middleware records request count and duration for each request. Routes are
// labelled by their registered pattern so IDs do not explode cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// Let the app's error handler write the response so the recorded
		// code is the one the client sees.
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		// After Next the context carries the route that finally matched.
		path := routeLabel(c.Route().Path, status)

		httpRequestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
		httpDurationSeconds.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())
		return nil
	}
}

// routeLabel collapses unmatched requests, which only ever match the
// middleware mounted at "/", into a single label.
func routeLabel(route string, status int) string {
	if status == fiber.StatusNotFound && (route == "" || route == "/") {
		return "other"
	}
	return route
}

// ObserveSubmission records one submit trigger. outcome is "ok" or an error
// class name.
func ObserveSubmission(kind, outcome string, d time.Duration) {
	submissionsTotal.WithLabelValues(kind, outcome).Inc()
	submitDurationSeconds.WithLabelValues(kind).Observe(d.Seconds())
}
