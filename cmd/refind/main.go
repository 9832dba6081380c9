package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/refind-app/refind/internal/config"
	"github.com/refind-app/refind/internal/db/postgres"
	dbRedis "github.com/refind-app/refind/internal/db/redis"
	"github.com/refind-app/refind/internal/domain"
	logpkg "github.com/refind-app/refind/internal/logger"
	"github.com/refind-app/refind/internal/metrics"
	"github.com/refind-app/refind/internal/repository/embcache"
	itemrepo "github.com/refind-app/refind/internal/repository/item"
	chiTransport "github.com/refind-app/refind/internal/transport/chi"
	openaiTransport "github.com/refind-app/refind/internal/transport/openai"
	healthuc "github.com/refind-app/refind/internal/usecase/health"
	itemuc "github.com/refind-app/refind/internal/usecase/item"
	matchinguc "github.com/refind-app/refind/internal/usecase/matching"
	"github.com/refind-app/refind/internal/usecase/notify"
	"github.com/refind-app/refind/internal/version"
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

	logger.Info("Starting refind API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Key-value store: items and the embedding cache
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create key-value store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Key-value store not ready", zap.Error(err))
	}
	logger.Info("Connected to key-value store")

	// Match/notification store
	matchStore, err := postgres.New(postgres.Config{
		DSN:          cfg.Postgres.DSN,
		MaxOpenConns: cfg.Postgres.MaxOpenConns,
		MaxIdleConns: cfg.Postgres.MaxIdleConns,
	})
	if err != nil {
		logger.Fatal("Failed to create match store", zap.Error(err))
	}
	defer func() { _ = matchStore.Close() }()

	if err := matchStore.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate match store", zap.Error(err))
	}
	logger.Info("Connected to match store")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterMatchingMetrics()

	// Embedder chain: OpenAI (retry/backoff) -> cached
	embedder, embedderHealth := buildEmbedder(cfg, store, logger)
	if cfg.Embedding.APIKey == "" {
		logger.Warn("Embedding API key not configured; items will be stored without embeddings and matching will not trigger")
	}

	generator := openaiTransport.NewGenerator(openaiTransport.GeneratorConfig{
		APIKey:  cfg.Generation.APIKey,
		BaseURL: cfg.Generation.BaseURL,
		Model:   cfg.Generation.Model,
	})

	// Repositories and services
	items := itemrepo.New(store, cfg.Storage.KeyPrefix)

	composer := notify.NewComposer(generator, logger)
	matcher := matchinguc.New(items, matchStore, composer, cfg.Matching.Threshold, logger)
	itemSvc := itemuc.New(items, embedder, matcher, logger)
	inbox := notify.NewInbox(matchStore)
	healthSvc := healthuc.New(store, matchStore, embedderHealth)

	server := chiTransport.NewServer(itemSvc, matchStore, inbox, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Routes(r)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached.
// The base embedder is also returned uncached so health checks hit the
// provider rather than the cache.
func buildEmbedder(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) (domain.Embedder, domain.HealthChecker) {
	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:      cfg.Embedding.APIKey,
		BaseURL:     cfg.Embedding.BaseURL,
		Model:       cfg.Embedding.Model,
		Dimensions:  cfg.Embedding.Dimensions,
		MaxAttempts: cfg.Embedding.MaxAttempts,
		BaseDelay:   time.Duration(cfg.Embedding.RetryBaseDelayMS) * time.Millisecond,
		CallTimeout: time.Duration(cfg.Embedding.RequestTimeoutSec) * time.Second,
		Logger:      logger,
	})

	cached := embcache.New(
		base,
		store,
		cfg.Storage.KeyPrefix,
		time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal,
		logger,
	)
	return cached, base
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
