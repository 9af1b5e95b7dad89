// Package main is the entry point for solverd, the transport problem
// solver service.
//
// solverd solves the minimum-cost capacitated transportation problem with
// the network simplex method and exposes the result, including the full
// pivot-by-pivot history, over a JSON HTTP API.
//
// # API
//
//	POST /api/v1/solve        - solve to optimality, return final flows
//	POST /api/v1/solve/steps  - solve and return every solver snapshot
//	POST /api/v1/validate     - check a graph without solving
//	GET  /healthz             - liveness probe
//
// Graphs are accepted either as explicit node/edge lists or in the tabular
// cost-matrix form (costs, supplies, demands, optional capacities).
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Environment variables (prefix: TRANSPORT_)
//  2. Config files (config.yaml, config/config.yaml, /etc/transport/config.yaml)
//  3. Default values
//
// Key options (environment variable format):
//
//	TRANSPORT_APP_NAME             - Service name (default: transport-solver)
//	TRANSPORT_HTTP_PORT            - HTTP port (default: 8080)
//	TRANSPORT_LOG_LEVEL            - debug, info, warn, error (default: info)
//	TRANSPORT_LOG_FORMAT           - json, text (default: json)
//	TRANSPORT_CACHE_ENABLED        - Enable result caching (default: false)
//	TRANSPORT_CACHE_DRIVER         - memory, redis (default: memory)
//	TRANSPORT_TRACING_ENABLED      - Enable OpenTelemetry tracing (default: false)
//	TRANSPORT_METRICS_PORT         - Prometheus metrics port (default: 9090)
//	TRANSPORT_RATE_LIMIT_ENABLED   - Enable per-client rate limiting (default: false)
//	TRANSPORT_SOLVER_SOLVE_TIMEOUT - Per-request solve deadline (default: 60s)
//	TRANSPORT_SOLVER_MAX_NODES     - Input graph node limit (default: 10000)
//	TRANSPORT_SOLVER_MAX_EDGES     - Input graph edge limit (default: 100000)
//	TRANSPORT_SOLVER_STEP_LOG      - Log every solver snapshot (default: false)
//
// # Graceful Shutdown
//
// The service handles SIGINT and SIGTERM: in-flight requests are drained
// within http.shutdown_timeout, then telemetry and the cache are closed.
package main

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"

	"transport/internal/server"
	"transport/internal/service"
	"transport/pkg/cache"
	"transport/pkg/config"
	"transport/pkg/logger"
	"transport/pkg/metrics"
	"transport/pkg/ratelimit"
	httpserver "transport/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})

	// Метрики инициализируются до сборки middleware, которые их используют
	metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	prometheus.MustRegister(metrics.NewRuntimeCollector(cfg.Metrics.Namespace, cfg.Metrics.Subsystem))

	// Кэш решений необязателен: сервис работает и без него
	var solverCache *cache.SolverCache
	var baseCache cache.Cache
	if cfg.Cache.Enabled {
		baseCache, err = cache.New(cache.FromConfig(&cfg.Cache))
		if err != nil {
			logger.Log.Warn("Failed to create cache, continuing without cache", "error", err)
		} else {
			solverCache = cache.NewSolverCache(baseCache, cfg.Cache.DefaultTTL)
			logger.Log.Info("Solver cache initialized",
				"driver", cfg.Cache.Driver,
				"ttl", cfg.Cache.DefaultTTL,
			)
		}
	}

	var serverOpts []server.Option
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled {
		limiter, err = ratelimit.New(&ratelimit.Config{
			Requests:        cfg.RateLimit.Requests,
			Window:          cfg.RateLimit.Window,
			Strategy:        cfg.RateLimit.Strategy,
			Backend:         cfg.RateLimit.Backend,
			BurstSize:       cfg.RateLimit.BurstSize,
			CleanupInterval: cfg.RateLimit.CleanupInterval,
			RedisAddr:       cfg.RateLimit.RedisAddr,
		})
		if err != nil {
			logger.Log.Warn("Failed to create rate limiter, continuing without it", "error", err)
		} else {
			serverOpts = append(serverOpts, server.WithLimiter(limiter))
			logger.Log.Info("Rate limiter initialized",
				"requests", cfg.RateLimit.Requests,
				"window", cfg.RateLimit.Window,
				"strategy", cfg.RateLimit.Strategy,
			)
		}
	}

	svc := service.NewSolverService(cfg.App.Version, cfg.Solver, solverCache)
	api := server.New(cfg, svc, serverOpts...)

	srv := httpserver.New(cfg, api.Router())
	if baseCache != nil {
		srv.AddCloser(baseCache.Close)
	}
	if limiter != nil {
		srv.AddCloser(limiter.Close)
	}

	logger.Info("Starting transport solver service",
		"port", cfg.HTTP.Port,
		"environment", cfg.App.Environment,
		"version", cfg.App.Version,
		"cache_enabled", solverCache != nil,
	)

	if err := srv.Run(); err != nil {
		logger.Fatal("server failed", "error", err)
	}
}
