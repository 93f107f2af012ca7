package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"account-service/internal/account"
	"account-service/internal/auth"
	"account-service/internal/db"
	"account-service/internal/observability"
)

type Options struct {
	LoadDotEnv    bool
	RunMigrations bool
}

type Runtime struct {
	Handler http.Handler
	Logger  *observability.Logger
	Close   func() error
}

func Build(options Options) (*Runtime, error) {
	if options.LoadDotEnv {
		_ = godotenv.Load()
	}

	logger := observability.NewLogger()

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	if err := observability.InitSentry(os.Getenv("SENTRY_DSN"), envOrDefault("APP_ENV", "development"), os.Getenv("APP_RELEASE")); err != nil {
		logger.Error("init_sentry_failed", map[string]any{"error": err.Error()})
	}

	database, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	database.SetMaxOpenConns(envIntOrDefault("DB_MAX_OPEN_CONNS", 10))
	database.SetMaxIdleConns(envIntOrDefault("DB_MAX_IDLE_CONNS", 5))
	database.SetConnMaxLifetime(envMinutesOrDefault("DB_CONN_MAX_LIFETIME_MINUTES", 30))
	database.SetConnMaxIdleTime(envMinutesOrDefault("DB_CONN_MAX_IDLE_TIME_MINUTES", 10))

	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if options.RunMigrations {
		if err := db.RunMigrations(context.Background(), database); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	registry, closeRegistry, err := buildRegistry()
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	logger.Info("revocation_registry_ready", map[string]any{"backend": envOrDefault("REVOCATION_BACKEND", "memory")})

	tokens := auth.NewTokenManager(jwtSecret, envMinutesOrDefault("ACCESS_TOKEN_TTL_MINUTES", 5), registry)
	accountHandler := account.NewHandler(account.NewRepository(database), tokens, registry, logger)

	handler := observability.RecoverMiddleware(logger, observability.RequestLoggingMiddleware(logger, Routes(accountHandler, tokens, database)))

	return &Runtime{
		Handler: handler,
		Logger:  logger,
		Close: func() error {
			observability.FlushSentry()
			return errors.Join(closeRegistry(), database.Close())
		},
	}, nil
}

// Routes is the dispatch table. Logout and update require a verified token.
func Routes(accounts *account.Handler, tokens *auth.TokenManager, database *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", accounts.Index)
	mux.HandleFunc("POST /api/register", accounts.Register)
	mux.HandleFunc("POST /api/login", accounts.Login)
	mux.Handle("POST /api/logout", auth.Middleware(tokens, http.HandlerFunc(accounts.Logout)))
	mux.Handle("PUT /api/update/{id}", auth.Middleware(tokens, http.HandlerFunc(accounts.Update)))
	if database != nil {
		mux.HandleFunc("GET /health", healthHandler(database))
	}
	return mux
}

func buildRegistry() (auth.Registry, func() error, error) {
	backend := strings.ToLower(envOrDefault("REVOCATION_BACKEND", "memory"))
	switch backend {
	case "memory":
		return auth.NewMemoryRegistry(), func() error { return nil }, nil
	case "redis":
		addr, err := mustEnv("REDIS_ADDR")
		if err != nil {
			return nil, nil, err
		}
		client := redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envNonNegativeIntOrDefault("REDIS_DB", 0),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("ping redis: %w", err)
		}

		return auth.NewRedisRegistry(client, os.Getenv("REDIS_KEY_PREFIX")), client.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown REVOCATION_BACKEND: %s", backend)
	}
}

func healthHandler(database *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := map[string]any{"status": "ok", "time": time.Now().UTC().Format(time.RFC3339)}
		if err := database.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body = map[string]any{"status": "degraded", "time": time.Now().UTC().Format(time.RFC3339)}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}
}

func mustEnv(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("missing required env: %s", name)
	}
	return value, nil
}

func envOrDefault(name, fallback string) string {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	return value
}

func envIntOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envNonNegativeIntOrDefault(name string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

func envMinutesOrDefault(name string, fallback int) time.Duration {
	return time.Duration(envIntOrDefault(name, fallback)) * time.Minute
}

func EnvOrDefault(name, fallback string) string {
	return envOrDefault(name, fallback)
}

func EnvBoolOrDefault(name string, fallback bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if value == "" {
		return fallback
	}

	switch value {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
