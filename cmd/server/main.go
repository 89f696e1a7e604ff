package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"interviewassist/internal/config"
	"interviewassist/internal/handlers"
	"interviewassist/internal/interview"
	"interviewassist/internal/jobs"
	"interviewassist/internal/kv"
	"interviewassist/internal/llm"
	_ "interviewassist/internal/llm/gemini"
	"interviewassist/internal/metrics"
	"interviewassist/internal/notify"
	"interviewassist/internal/prompts"
	"interviewassist/internal/routers"
	"interviewassist/internal/scoring"
	"interviewassist/internal/session"
	"interviewassist/internal/store"
	"interviewassist/internal/utils"
)

// buildScorer wires the configured remote behind the fallback adapter. The
// returned checker probes the remote for /readyz and is nil in local mode.
func buildScorer(cfg *config.Config, logger *zap.Logger) (*scoring.Adapter, handlers.Checker, error) {
	switch cfg.ScoringMode {
	case config.ScoringBackend:
		client := scoring.NewBackendClient(cfg.ScoringURL, &http.Client{Timeout: cfg.ScoringTimeout})
		return scoring.NewAdapter(client, cfg.ScoringTimeout, logger), client.Health, nil

	case config.ScoringLLM:
		promptManager, err := prompts.NewPromptManager()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize prompt manager: %w", err)
		}
		provider, err := llm.NewProvider(cfg.Provider)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize AI provider: %w", err)
		}
		check := func(context.Context) error {
			if len(promptManager.GetTemplates()) == 0 {
				return errors.New("no prompt templates loaded")
			}
			return nil
		}
		remote := scoring.NewLLMRemote(provider, promptManager, logger)
		return scoring.NewAdapter(remote, cfg.ScoringTimeout, logger), check, nil

	default:
		return scoring.NewAdapter(nil, cfg.ScoringTimeout, logger), nil, nil
	}
}

// originChecker accepts websocket upgrades from the CORS origins, and from
// clients that send no Origin header.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

// timeoutExceptUpgrades applies the request timeout to everything but
// websocket streams, which live as long as the client stays connected.
func timeoutExceptUpgrades(d time.Duration) func(http.Handler) http.Handler {
	timeout := middleware.Timeout(d)
	return func(next http.Handler) http.Handler {
		timed := timeout(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if websocket.IsWebSocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}
			timed.ServeHTTP(w, r)
		})
	}
}

func buildRouter(cfg *config.Config, api routers.APIHandlers, healthHandler *handlers.HealthHandler) *chi.Mux {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer, metrics.Middleware, timeoutExceptUpgrades(60*time.Second))

	routers.HealthRoutes(router, healthHandler, metrics.Handler())
	routers.APIRoutes(router, api)
	return router
}

func closeKV(ctx context.Context, store kv.Store) error {
	switch s := store.(type) {
	case *kv.RedisStore:
		return s.Close()
	case *kv.MongoStore:
		return s.Close(ctx)
	}
	return nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("Failed to load configuration", zap.Error(err))
	}

	utils.InitLogger(cfg.Development)
	logger := utils.GetLogger()
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("scoring_mode", cfg.ScoringMode),
		zap.String("kv_backend", cfg.KVBackend),
		zap.String("db_driver", cfg.DBDriver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kvStore, err := kv.Open(ctx, kv.Options{
		Backend:       cfg.KVBackend,
		Namespace:     cfg.KVNamespace,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		MongoURI:      cfg.MongoURI,
		MongoDatabase: cfg.MongoDatabase,
	})
	if err != nil {
		logger.Fatal("Failed to open KV store", zap.Error(err))
	}

	db, err := store.OpenDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	candidates := store.NewGormStore(db)

	scorer, scoringCheck, err := buildScorer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize scoring", zap.Error(err))
	}

	inbox := notify.NewInbox(cfg.NoticeTTL)
	defer inbox.Close()

	service := interview.NewService(interview.Deps{
		Repo:     session.NewKVRepository(kvStore),
		Store:    candidates,
		Scorer:   scorer,
		Notifier: inbox,
		Settings: config.NewSettingsRepository(kvStore),
		Defaults: cfg.Interview,
		Logger:   logger,
	})
	service.LoadSettings(ctx)
	if err := service.Recover(ctx); err != nil {
		logger.Error("Failed to restore saved interview", zap.Error(err))
	}

	driverCtx, stopDriver := context.WithCancel(context.Background())
	driverDone := make(chan struct{})
	go func() {
		defer close(driverDone)
		interview.NewDriver(service, cfg.TickInterval, logger).Run(driverCtx)
	}()

	exporterJob := jobs.NewResultExporterJob(candidates, &jobs.ExporterConfig{
		Schedule:      cfg.ExportSchedule,
		ExportDir:     cfg.ExportDir,
		ExportEnabled: cfg.ExportEnabled,
	}, logger)
	if err := exporterJob.Start(); err != nil {
		logger.Error("Failed to start result exporter job", zap.Error(err))
	}

	checks := map[string]handlers.Checker{"database": candidates.Ping}
	if scoringCheck != nil {
		checks["scoring"] = scoringCheck
	}
	healthHandler := handlers.NewHealthHandler(cfg, checks)

	router := buildRouter(cfg, routers.APIHandlers{
		Candidates: handlers.NewCandidateHandler(service, logger),
		Session:    handlers.NewSessionHandler(service, logger, originChecker(cfg.AllowedOrigins)),
		Notices:    handlers.NewNoticeHandler(inbox),
		Config:     handlers.NewConfigHandler(service, logger),
	}, healthHandler)

	serverAddr := ":" + cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Interview service starting", zap.String("addr", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Interview service shutting down...")

	exporterJob.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	stopDriver()
	<-driverDone

	if err := closeKV(shutdownCtx, kvStore); err != nil {
		logger.Warn("Failed to close KV store", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("Interview service exited")
}
