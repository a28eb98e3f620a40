package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultDSN = "root:password@tcp(127.0.0.1:3306)/dailydiet?parseTime=true"

type Config struct {
	Port           string
	Env            string
	DatabaseDSN    string
	LogLevel       slog.Level
	CookieSecure   bool
	SessionMaxAge  time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
	MigrateOnStart bool
}

// LoadDotenv reads .env, and .env.test first when ENV=test, into the process
// environment. Variables that are already set win. Missing files are not an
// error.
func LoadDotenv() {
	files := []string{".env"}
	if os.Getenv("ENV") == "test" {
		files = []string{".env.test", ".env"}
	}

	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			slog.Debug("env file not loaded", "file", f, "error", err)
		}
	}
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", defaultDSN),
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		SessionMaxAge:  getEnvDuration("SESSION_MAX_AGE", 7*24*time.Hour),
		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", true),
	}

	switch cfg.Env {
	case "development", "test", "production":
	default:
		return Config{}, fmt.Errorf("invalid ENV %q: must be development, test or production", cfg.Env)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if cfg.Env == "production" && os.Getenv("DATABASE_DSN") == "" {
		return Config{}, errors.New("DATABASE_DSN must be set in production environment")
	}
	if !strings.Contains(cfg.DatabaseDSN, "parseTime=true") {
		return Config{}, errors.New("DATABASE_DSN must enable parseTime=true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	i, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return i
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return d
}
