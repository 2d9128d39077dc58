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

	"github.com/kailas-cloud/candidex/internal/config"
	dbRedis "github.com/kailas-cloud/candidex/internal/db/redis"
	logpkg "github.com/kailas-cloud/candidex/internal/logger"
	"github.com/kailas-cloud/candidex/internal/metrics"
	resultrepo "github.com/kailas-cloud/candidex/internal/repository/result"
	rulesetrepo "github.com/kailas-cloud/candidex/internal/repository/ruleset"
	chiTransport "github.com/kailas-cloud/candidex/internal/transport/chi"
	"github.com/kailas-cloud/candidex/internal/transport/extractor"
	openaiExt "github.com/kailas-cloud/candidex/internal/transport/openai"
	healthuc "github.com/kailas-cloud/candidex/internal/usecase/health"
	rulesetuc "github.com/kailas-cloud/candidex/internal/usecase/ruleset"
	scoringuc "github.com/kailas-cloud/candidex/internal/usecase/scoring"
	"github.com/kailas-cloud/candidex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting candidex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register scoring metrics explicitly (no init())
	metrics.RegisterScoringMetrics()

	// Repositories
	ruleRepo := rulesetrepo.New(store, cfg.Storage.KeyPrefix)
	resultRepo := resultrepo.New(store, cfg.Storage.KeyPrefix)

	// Use case services
	rulesetSvc := rulesetuc.New(ruleRepo)
	scoringSvc := scoringuc.New(rulesetSvc, resultRepo, logger)

	// Extraction pipeline — optional, both legs off unless configured
	var (
		texts         chiTransport.TextExtractor
		fields        chiTransport.FieldExtractor
		healthChecker healthuc.ExtractorChecker
	)
	if cfg.Extractor.LLM.APIKey != "" {
		llm := openaiExt.NewExtractor(&openaiExt.Config{
			APIKey:  cfg.Extractor.LLM.APIKey,
			BaseURL: cfg.Extractor.LLM.BaseURL,
			Model:   cfg.Extractor.LLM.Model,
			Logger:  logger,
		})
		fields = llm
		healthChecker = llm
		logger.Info("Field extractor created", zap.String("model", cfg.Extractor.LLM.Model))
	}
	if cfg.Extractor.PDFServiceURL != "" {
		texts = extractor.NewClient(&extractor.Config{
			BaseURL: cfg.Extractor.PDFServiceURL,
			Timeout: time.Duration(cfg.Extractor.TimeoutSec) * time.Second,
			Logger:  logger,
		})
		logger.Info("Text extraction client created", zap.String("url", cfg.Extractor.PDFServiceURL))
	}

	// Health service
	healthSvc := healthuc.New(store, healthChecker)

	// Create chi server
	server := chiTransport.NewServer(rulesetSvc, scoringSvc, healthSvc, texts, fields, logger)

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

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
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
