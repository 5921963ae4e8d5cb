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

	"github.com/atelier-cloud/brandgen/internal/config"
	dbRedis "github.com/atelier-cloud/brandgen/internal/db/redis"
	"github.com/atelier-cloud/brandgen/internal/domain"
	logpkg "github.com/atelier-cloud/brandgen/internal/logger"
	"github.com/atelier-cloud/brandgen/internal/metrics"
	"github.com/atelier-cloud/brandgen/internal/repository/contentstore"
	"github.com/atelier-cloud/brandgen/internal/repository/embcache"
	"github.com/atelier-cloud/brandgen/internal/repository/themecache"
	chiTransport "github.com/atelier-cloud/brandgen/internal/transport/chi"
	openaiTransport "github.com/atelier-cloud/brandgen/internal/transport/openai"
	embeddinguc "github.com/atelier-cloud/brandgen/internal/usecase/embedding"
	pipelineuc "github.com/atelier-cloud/brandgen/internal/usecase/pipeline"
	retrievaluc "github.com/atelier-cloud/brandgen/internal/usecase/retrieval"
	scoringuc "github.com/atelier-cloud/brandgen/internal/usecase/scoring"
	validationuc "github.com/atelier-cloud/brandgen/internal/usecase/validation"
	"github.com/atelier-cloud/brandgen/internal/version"
)

func main() {
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

	logger.Info("Starting brandgen API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("embedding_enabled", cfg.Embedding.Enabled),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	embedder := buildEmbedder(cfg.Embedding, store, logger)
	logger.Info("Embedder chain created",
		zap.Bool("provider_enabled", cfg.Embedding.Enabled),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	generator := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		Timeout:     time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		Logger:      logger,
	})

	// Repositories
	content := contentstore.New(store, logger)
	themes := themecache.New(store, logger)

	// Use case services
	retriever := retrievaluc.New(content, themes, embedder, retrievaluc.Config{
		RRFK:             cfg.Retrieval.RRFK,
		MMRLambda:        cfg.Retrieval.MMRLambda,
		TopK:             cfg.Retrieval.TopK,
		MinQueryTerms:    cfg.Retrieval.MinQueryTerms,
		SummaryMaxLen:    cfg.Retrieval.SummaryMaxLen,
		EmbeddingEnabled: cfg.Embedding.Enabled,
	}, logger)

	diversity := scoringuc.NewAnalyzer(embedder, cfg.Scoring.DuplicateThreshold, logger)
	ranker := scoringuc.NewRanker(cfg.Scoring.Weights)
	validator := validationuc.New(embedder, cfg.Validation.PassThreshold, logger)

	pipe, err := pipelineuc.New(
		retriever, generator, diversity, ranker, content, cfg.Scoring.Concurrency, logger)
	if err != nil {
		logger.Fatal("Failed to create pipeline", zap.Error(err))
	}
	defer pipe.Release()

	server := chiTransport.NewServer(pipe, validator, content, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Fallback.
// With the provider disabled, the fallback serves every request from the
// local deterministic embedder.
func buildEmbedder(cfg config.EmbeddingConfig, store *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	local := embeddinguc.NewLocalEmbedder(cfg.Dimensions)

	if !cfg.Enabled {
		return embeddinguc.NewFallbackEmbedder(nil, local, 0, logger)
	}

	base := openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:              cfg.APIKey,
		BaseURL:             cfg.BaseURL,
		Model:               cfg.Model,
		Dimensions:          cfg.Dimensions,
		DocumentInstruction: cfg.DocumentInstruction,
		QueryInstruction:    cfg.QueryInstruction,
		Provider:            "openai",
		Logger:              logger,
	})

	cached := embcache.New(
		base, store, time.Duration(cfg.CacheTTLHours)*time.Hour, metrics.EmbeddingCacheTotal, logger)

	return embeddinguc.NewFallbackEmbedder(
		cached, local, time.Duration(cfg.TimeoutSec)*time.Second, logger)
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

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
