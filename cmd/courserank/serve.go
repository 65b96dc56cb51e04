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
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/studyhub-ai/courserank/internal/config"
	"github.com/studyhub-ai/courserank/internal/db"
	"github.com/studyhub-ai/courserank/internal/domain/eval"
	logpkg "github.com/studyhub-ai/courserank/internal/logger"
	"github.com/studyhub-ai/courserank/internal/metrics"
	"github.com/studyhub-ai/courserank/internal/repository/dataset"
	"github.com/studyhub-ai/courserank/internal/repository/querycache"
	chiTransport "github.com/studyhub-ai/courserank/internal/transport/chi"
	"github.com/studyhub-ai/courserank/internal/usecase/evaluate"
	healthuc "github.com/studyhub-ai/courserank/internal/usecase/health"
	"github.com/studyhub-ai/courserank/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := newApp()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return runServer(cfg, logger)
	},
}

func runServer(cfg config.Config, logger *zap.Logger) error {
	env := config.GetEnv()
	logger.Info("Starting courserank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("recommender", cfg.Engine.Recommender),
		zap.String("artifact_driver", cfg.Artifact.Driver),
	)

	metrics.RegisterEngineMetrics()

	// Redis is optional: only the redis artifact driver and the query cache use it.
	var store db.Store
	if cfg.NeedsRedis() {
		var err error
		store, err = buildStore(cfg)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Redis.Addrs))
	}

	ctx := context.Background()
	eng := buildEngine(cfg, logger)
	artifacts := buildArtifactStore(cfg, store)

	if err := prepareEngine(ctx, eng, artifacts, cfg.Artifact.Name, logger); err != nil {
		return err
	}
	logger.Info("Engine ready", zap.Int("courses", len(eng.Courses())))

	// Wrap Predict with the query cache when enabled.
	var recommender chiTransport.Recommender = eng
	if cfg.Cache.Enabled {
		recommender = querycache.New(
			eng, store, cfg.Redis.KeyPrefix,
			time.Duration(cfg.Cache.TTLSec)*time.Second,
			metrics.QueryCacheTotal, logger,
		)
		logger.Info("Query cache enabled", zap.Int("ttl_sec", cfg.Cache.TTLSec))
	}

	var cases []eval.Case
	if cfg.Dataset.EvalCases != "" {
		var err error
		cases, err = dataset.LoadCases(cfg.Dataset.EvalCases)
		if err != nil {
			return fmt.Errorf("load evaluation cases: %w", err)
		}
	}

	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(eng, pinger)
	evalSvc := evaluate.New(recommender, logger)

	server := chiTransport.NewServer(
		recommender, eng, evalSvc, healthSvc, cases, cfg.Engine.TopK, logger,
	)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

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

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
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
