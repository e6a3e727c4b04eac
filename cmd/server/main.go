package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"crewledger/internal/domain/ledger"
	"crewledger/internal/domain/notifications"
	"crewledger/internal/platform/config"
	cryptoutil "crewledger/internal/platform/crypto"
	"crewledger/internal/platform/db"
	"crewledger/internal/platform/logging"
	"crewledger/internal/platform/metrics"
	"crewledger/internal/report"
	"crewledger/internal/storage/jsonfile"
	"crewledger/internal/storage/postgres"
	"crewledger/internal/transport/http/api"
	authhandlers "crewledger/internal/transport/http/handlers/auth"
	"crewledger/internal/transport/http/handlers/directory"
	notificationhandlers "crewledger/internal/transport/http/handlers/notifications"
	payrollhandlers "crewledger/internal/transport/http/handlers/payroll"
	"crewledger/internal/transport/http/handlers/sessions"
	"crewledger/internal/transport/http/middleware"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	var (
		store ledger.Store
		ready func(context.Context) error
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("db connect failed", zap.Error(err))
		}
		defer pool.Close()
		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, "migrations"); err != nil {
				logger.Fatal("migrations failed", zap.Error(err))
			}
		}
		store = postgres.New(pool)
		ready = pool.Ping
	default:
		fileStore, err := jsonfile.New(cfg.DataDir)
		if err != nil {
			logger.Fatal("data dir init failed", zap.Error(err))
		}
		store = fileStore
		ready = func(context.Context) error { return nil }
	}

	feed := notifications.NewFeed(0)

	service, err := ledger.New(ctx, store,
		ledger.WithEmitter(feed),
		ledger.WithLocator(ledger.RadiusLocator{DefaultRadiusM: cfg.GeofenceRadiusM}),
		ledger.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("ledger init failed", zap.Error(err))
	}

	cryptoSvc, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		logger.Fatal("encryption init failed", zap.Error(err))
	}
	exporter := report.New(cryptoSvc, cfg.ExportDir)
	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger, collector))
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandlers.NewHandler(cfg.JWTSecret, cfg.TokenTTL, cfg.ForemanEmail, cfg.ForemanPasswordHash)
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			sessions.NewHandler(service).RegisterRoutes(r)
			directory.NewHandler(service).RegisterRoutes(r)
			payrollhandlers.NewHandler(service, exporter).RegisterRoutes(r)
			notificationhandlers.NewHandler(feed).RegisterRoutes(r)
		})
	})

	logger.Info("crew ledger listening",
		zap.String("addr", cfg.Addr),
		zap.String("storage", cfg.StorageBackend))
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
