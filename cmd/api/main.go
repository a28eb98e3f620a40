package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dailydiet/dailydiet-go/internal/config"
	"github.com/dailydiet/dailydiet-go/internal/handler"
	"github.com/dailydiet/dailydiet-go/internal/logger"
	"github.com/dailydiet/dailydiet-go/internal/metrics"
	"github.com/dailydiet/dailydiet-go/internal/middleware"
	"github.com/dailydiet/dailydiet-go/internal/repository"
	"github.com/dailydiet/dailydiet-go/internal/service"
)

func main() {
	config.LoadDotenv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		log.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := repository.Migrate(db); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewDBStatsCollector(db, "dailydiet"),
	)
	collector := metrics.NewCollector(reg)

	userRepo := repository.NewUserRepository(db)
	mealRepo := repository.NewMealRepository(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := handler.NewRouter(handler.RouterDeps{
		UserService: service.NewUserService(userRepo, mealRepo, collector),
		MealService: service.NewMealService(userRepo, mealRepo, collector),
		Logger:      log,
		Session: middleware.SessionOptions{
			MaxAge: cfg.SessionMaxAge,
			Secure: cfg.CookieSecure,
		},
		CreateUserLimit: middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst),
		Metrics:         collector,
		Gatherer:        reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
