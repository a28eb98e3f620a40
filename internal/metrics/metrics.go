// Package metrics exposes Prometheus instrumentation for the HTTP API and
// the meal domain.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the registered Prometheus collectors.
type Collector struct {
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	usersCreated   prometheus.Counter
	mealsCreated   *prometheus.CounterVec
	sessionsIssued prometheus.Counter
}

// NewCollector creates a Collector and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dailydiet_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dailydiet_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dailydiet_users_created_total",
			Help: "Users created.",
		}),
		mealsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dailydiet_meals_created_total",
			Help: "Meals created, split by whether they fit the diet.",
		}, []string{"in_diet"}),
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dailydiet_sessions_issued_total",
			Help: "Session cookies issued to first-time visitors.",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.usersCreated,
		c.mealsCreated,
		c.sessionsIssued,
	)

	return c
}

// UserCreated records a new user.
func (c *Collector) UserCreated() {
	c.usersCreated.Inc()
}

// MealCreated records a new meal.
func (c *Collector) MealCreated(inDiet bool) {
	c.mealsCreated.WithLabelValues(strconv.FormatBool(inDiet)).Inc()
}

// SessionIssued records a freshly minted session token.
func (c *Collector) SessionIssued() {
	c.sessionsIssued.Inc()
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency labelled by the chi route
// pattern, so /meals/{mealId} is one series rather than one per id.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		c.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		c.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
