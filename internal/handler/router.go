package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dailydiet/dailydiet-go/internal/metrics"
	"github.com/dailydiet/dailydiet-go/internal/middleware"
)

// RouterDeps holds everything NewRouter wires together.
type RouterDeps struct {
	UserService UserServiceInterface
	MealService MealServiceInterface
	Logger      *slog.Logger
	Session     middleware.SessionOptions

	// CreateUserLimit, if set, guards POST /users.
	CreateUserLimit func(http.Handler) http.Handler

	// Metrics and Gatherer are optional; /metrics is only mounted when
	// Gatherer is set.
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// NewRouter builds the HTTP API.
//
// Middleware order: Logger → Recoverer → Metrics, then per route group the
// session middleware (ResolveSession on POST /users, OptionalSession on
// GET /users, RequireSession on /meals).
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	users := NewUserHandler(deps.UserService)
	meals := NewMealHandler(deps.MealService)

	session := deps.Session
	if deps.Metrics != nil && session.OnIssue == nil {
		session.OnIssue = deps.Metrics.SessionIssued
	}

	r.Route("/users", func(r chi.Router) {
		create := r.With(middleware.ResolveSession(session))
		if deps.CreateUserLimit != nil {
			create = r.With(deps.CreateUserLimit, middleware.ResolveSession(session))
		}
		create.Post("/", users.HandleCreate)
		r.With(middleware.OptionalSession).Get("/", users.HandleProfile)
	})

	r.Route("/meals", func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Get("/", meals.HandleList)
		r.Post("/", meals.HandleCreate)
		r.Get("/{mealId}", meals.HandleGet)
		r.Put("/{mealId}", meals.HandleUpdate)
		r.Delete("/{mealId}", meals.HandleDelete)
	})

	return r
}
