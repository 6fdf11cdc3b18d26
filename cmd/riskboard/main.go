package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/riskboard/internal/config"
	"github.com/kailas-cloud/riskboard/internal/dataset"
	"github.com/kailas-cloud/riskboard/internal/db"
	dbFile "github.com/kailas-cloud/riskboard/internal/db/file"
	dbRedis "github.com/kailas-cloud/riskboard/internal/db/redis"
	dbSqlite "github.com/kailas-cloud/riskboard/internal/db/sqlite"
	"github.com/kailas-cloud/riskboard/internal/domain"
	logpkg "github.com/kailas-cloud/riskboard/internal/logger"
	"github.com/kailas-cloud/riskboard/internal/metrics"
	"github.com/kailas-cloud/riskboard/internal/repository/account"
	"github.com/kailas-cloud/riskboard/internal/repository/briefcache"
	prefsrepo "github.com/kailas-cloud/riskboard/internal/repository/preferences"
	watchlistrepo "github.com/kailas-cloud/riskboard/internal/repository/watchlist"
	chiTransport "github.com/kailas-cloud/riskboard/internal/transport/chi"
	openaiChat "github.com/kailas-cloud/riskboard/internal/transport/openai"
	analysisuc "github.com/kailas-cloud/riskboard/internal/usecase/analysis"
	authuc "github.com/kailas-cloud/riskboard/internal/usecase/auth"
	"github.com/kailas-cloud/riskboard/internal/usecase/browse"
	healthuc "github.com/kailas-cloud/riskboard/internal/usecase/health"
	prefsuc "github.com/kailas-cloud/riskboard/internal/usecase/preferences"
	searchuc "github.com/kailas-cloud/riskboard/internal/usecase/search"
	usageuc "github.com/kailas-cloud/riskboard/internal/usecase/usage"
	watchlistuc "github.com/kailas-cloud/riskboard/internal/usecase/watchlist"
	"github.com/kailas-cloud/riskboard/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting riskboard API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("news_source", cfg.Data.NewsSource),
		zap.String("company_source", cfg.Data.CompanySource),
	)

	store, err := openStore(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to create storage", zap.Error(err))
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wait for storage to be ready
	if err := store.WaitForReady(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Storage not ready", zap.Error(err))
	}
	logger.Info("Connected to storage")

	// Register domain metrics explicitly (no init())
	metrics.RegisterDomainMetrics()

	// Dataset: initial load, then optional hot reload of local files
	data := dataset.NewStore(dataset.Config{
		NewsSource:    cfg.Data.NewsSource,
		CompanySource: cfg.Data.CompanySource,
		FetchTimeout:  time.Duration(cfg.Data.FetchTimeoutSec) * time.Second,
	}, dataset.NewSourceFetcher(nil), logger)
	if err := data.Load(ctx, dataset.TriggerStartup); err != nil {
		logger.Warn("Initial dataset load failed, serving empty data", zap.Error(err))
	}
	if cfg.Data.Watch {
		if paths := data.LocalPaths(); len(paths) > 0 {
			watcher, err := dataset.NewWatcher(paths, data, time.Duration(cfg.Data.DebounceMs)*time.Millisecond, logger)
			if err != nil {
				logger.Fatal("Failed to create dataset watcher", zap.Error(err))
			}
			if err := watcher.Start(ctx); err != nil {
				logger.Fatal("Failed to start dataset watcher", zap.Error(err))
			}
			defer watcher.Stop()
		}
	}

	// Repositories and use case services
	prefix := cfg.Storage.KeyPrefix
	prefsSvc := prefsuc.New(prefsrepo.New(store, prefix))
	watchSvc := watchlistuc.New(watchlistrepo.New(store, prefix), data)
	authSvc := authuc.New(account.New(store, prefix), authConfig(cfg.Auth))
	searchSvc := searchuc.New(data, prefsSvc, searchuc.Weights{
		Company: cfg.Search.Weights.Company,
		Title:   cfg.Search.Weights.Title,
		Summary: cfg.Search.Weights.Summary,
	}, logger)
	browseSvc := browse.New(data, prefsSvc, watchSvc)
	completer, budget := buildCompleter(ctx, cfg.Analysis, store, prefix, logger)
	analysisSvc := analysisuc.New(completer, data, cfg.Analysis.Model, logger)
	usageSvc := usageuc.New(budget)
	healthSvc := healthuc.New(store, data)

	if !authSvc.Enabled() {
		logger.Warn("No API keys or demo users configured, authentication is disabled")
	}

	// Create chi server
	server := chiTransport.NewServer(chiTransport.Services{
		Auth:        authSvc,
		Browse:      browseSvc,
		Search:      searchSvc,
		Preferences: prefsSvc,
		Watchlist:   watchSvc,
		Analysis:    analysisSvc,
		Usage:       usageSvc,
		Datasets:    data,
		Health:      healthSvc,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(authSvc))
	r.Use(metrics.Middleware())
	server.Mount(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openStore creates the key-value store for the configured driver.
func openStore(cfg config.StorageConfig) (db.Store, error) {
	switch cfg.Driver {
	case "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Addrs, Password: cfg.Password})
		if err != nil {
			return nil, fmt.Errorf("redis store: %w", err)
		}
		return s, nil
	case "sqlite":
		s, err := dbSqlite.NewStore(dbSqlite.Config{Path: cfg.Path})
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		return s, nil
	case "file":
		s, err := dbFile.NewStore(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("file store: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

func authConfig(cfg config.AuthConfig) authuc.Config {
	demo := make([]authuc.DemoUser, len(cfg.DemoUsers))
	for i, d := range cfg.DemoUsers {
		demo[i] = authuc.DemoUser{Email: d.Email, Password: d.Password, Name: d.Name}
	}
	return authuc.Config{
		APIKeys:    cfg.APIKeys,
		DemoUsers:  demo,
		SessionTTL: time.Duration(cfg.SessionTTLHours) * time.Hour,
	}
}

// buildCompleter assembles the decorator chain: OpenAI -> Instrumented -> Cached -> System prompt.
// Returns nil interfaces when no provider key is configured, which disables analysis.
// The budget is nil when no limit is configured.
func buildCompleter(
	ctx context.Context,
	cfg config.AnalysisConfig,
	store db.Store,
	prefix string,
	logger *zap.Logger,
) (domain.Completer, usageuc.BudgetReader) {
	if !cfg.Enabled() {
		logger.Info("Analysis disabled, no provider key configured")
		return nil, nil
	}

	// Base provider (with transport metrics built-in)
	base := openaiChat.NewChat(&openaiChat.Config{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Timeout:     time.Duration(cfg.TimeoutSec) * time.Second,
		Logger:      logger,
	})
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := base.HealthCheck(checkCtx); err != nil {
		logger.Warn("Analysis provider check failed", zap.Error(err))
	}

	// Pass nil interfaces (not typed nil pointers!) if budget is not configured.
	var (
		budget analysisuc.BudgetChecker
		reader usageuc.BudgetReader
	)
	if cfg.Budget.DailyTokenLimit > 0 || cfg.Budget.MonthlyTokenLimit > 0 {
		action := analysisuc.BudgetActionWarn
		if cfg.Budget.Action == "reject" {
			action = analysisuc.BudgetActionReject
		}
		tracker := analysisuc.NewBudgetTracker(
			cfg.Budget.DailyTokenLimit, cfg.Budget.MonthlyTokenLimit, action, logger,
		).WithStore(ctx, store, prefix)
		budget, reader = tracker, tracker
	}

	var completer domain.Completer = analysisuc.NewInstrumentedCompleter(base, cfg.Model, budget, logger)

	// Cached outside the budget: hits spend no tokens
	completer = briefcache.New(completer, store, prefix,
		time.Duration(cfg.CacheTTLHours)*time.Hour, metrics.BriefCacheTotal, logger)

	// System prompt (outermost, so the cache key includes it)
	system := cfg.SystemPrompt
	if system == "" {
		system = analysisuc.DefaultSystemPrompt
	}

	logger.Info("Analysis enabled", zap.String("model", cfg.Model))
	return domain.NewSystemCompleter(completer, system), reader
}
