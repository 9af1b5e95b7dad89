// Package server wires the HTTP transport of the solver service: the chi
// router, the middleware chain and the JSON handlers.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"transport/internal/service"
	"transport/pkg/config"
	"transport/pkg/ratelimit"
	"transport/pkg/telemetry"
)

// Server HTTP-поверхность сервиса решателя
type Server struct {
	cfg     *config.Config
	svc     *service.SolverService
	limiter ratelimit.Limiter
}

// Option настраивает сервер
type Option func(*Server)

// WithLimiter подключает ограничитель частоты запросов
func WithLimiter(limiter ratelimit.Limiter) Option {
	return func(s *Server) { s.limiter = limiter }
}

// New создаёт сервер над сконфигурированным сервисом
func New(cfg *config.Config, svc *service.SolverService, opts ...Option) *Server {
	s := &Server{cfg: cfg, svc: svc}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router собирает маршрутизатор с цепочкой middleware. Порядок имеет
// значение: recovery снаружи, чтобы перехватывать паники остальных слоёв.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery())
	r.Use(RequestID())
	if s.cfg.HTTP.CORS.Enabled {
		r.Use(CORS(s.cfg.HTTP.CORS))
	}
	if s.cfg.Tracing.Enabled {
		r.Use(telemetry.HTTPMiddleware())
	}
	r.Use(Logging())
	r.Use(Metrics())

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		// Проверки живости лимиту не подчиняются
		if s.limiter != nil {
			r.Use(RateLimit(s.limiter))
		}
		r.Post("/solve", s.handleSolve)
		r.Post("/solve/steps", s.handleSolveSteps)
		r.Post("/validate", s.handleValidate)
	})

	return r
}
