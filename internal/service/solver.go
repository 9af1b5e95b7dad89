// Package service implements the application layer of the transport solver:
// request validation, result caching, solve orchestration and observability.
// Transport handlers stay thin and delegate here.
package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"transport/internal/controller"
	"transport/internal/solver"
	"transport/internal/steplog"
	"transport/pkg/apperror"
	"transport/pkg/cache"
	"transport/pkg/config"
	"transport/pkg/domain"
	"transport/pkg/logger"
	"transport/pkg/metrics"
	"transport/pkg/telemetry"
)

// SolverService оркестрирует решение транспортной задачи: валидация,
// проверка кэша, пошаговый прогон решателя, запись метрик и трейсов
type SolverService struct {
	version string
	cfg     config.SolverConfig
	cache   *cache.SolverCache
	metrics *metrics.Metrics
}

// NewSolverService создаёт сервис. Кэш необязателен: при nil все решения
// вычисляются заново.
func NewSolverService(version string, cfg config.SolverConfig, solverCache *cache.SolverCache) *SolverService {
	return &SolverService{
		version: version,
		cfg:     cfg,
		cache:   solverCache,
		metrics: metrics.Get(),
	}
}

// Version возвращает версию сервиса
func (s *SolverService) Version() string {
	return s.version
}

// Solve решает задачу до оптимума и возвращает итог. Второй результат
// сообщает, взят ли итог из кэша.
func (s *SolverService) Solve(ctx context.Context, g *domain.Graph) (*domain.SolveSummary, bool, error) {
	graphHash := cache.GraphHash(g)

	ctx, span := telemetry.StartSpan(ctx, "SolverService.Solve")
	defer span.End()
	span.SetAttributes(telemetry.GraphAttributes(g.NodeCount(), g.EdgeCount(), graphHash)...)

	if err := s.checkLimits(g); err != nil {
		telemetry.SetError(ctx, err)
		return nil, false, err
	}

	// Проверяем кэш перед валидацией и решением
	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, g)
		if err != nil {
			logger.Log.Warn("Solve cache lookup failed", "error", err, "graph_hash", graphHash)
		}
		s.metrics.RecordCacheLookup(hit)
		if hit {
			telemetry.AddEvent(ctx, "cache_hit", attribute.String("graph_hash", graphHash))
			span.SetAttributes(attribute.Bool(telemetry.AttrSolveCached, true))
			return cached.Summary, true, nil
		}
	}

	if err := s.validationError(g); err != nil {
		telemetry.SetError(ctx, err)
		return nil, false, err
	}

	start := time.Now()
	summary, err := s.solve(ctx, g)
	duration := time.Since(start)

	if err != nil {
		telemetry.SetError(ctx, err)
		s.metrics.RecordSolve(solveStatus(err), duration, 0, 0)
		return nil, false, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, g, summary, 0); err != nil {
			logger.Log.Warn("Failed to cache solve result", "error", err, "graph_hash", graphHash)
		}
	}

	// Записываем метрики
	s.metrics.RecordSolve("optimal", duration, summary.Iterations, summary.Objective)
	s.metrics.RecordGraphSize("solve", g.NodeCount(), g.EdgeCount())
	span.SetAttributes(telemetry.SolveAttributes(summary.Iterations, summary.Steps, summary.Objective, "optimal")...)

	logger.Log.Info("Solve completed",
		"graph_hash", graphHash,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"iterations", summary.Iterations,
		"objective", summary.Objective,
		"duration_ms", duration.Milliseconds(),
	)

	return summary, false, nil
}

// SolveSteps решает задачу и возвращает полную историю снимков вместе с
// итогом. История никогда не кэшируется: она на порядки больше итога.
func (s *SolverService) SolveSteps(ctx context.Context, g *domain.Graph) ([]*solver.SolutionState, *domain.SolveSummary, error) {
	graphHash := cache.GraphHash(g)

	ctx, span := telemetry.StartSpan(ctx, "SolverService.SolveSteps")
	defer span.End()
	span.SetAttributes(telemetry.GraphAttributes(g.NodeCount(), g.EdgeCount(), graphHash)...)

	if err := s.checkLimits(g); err != nil {
		telemetry.SetError(ctx, err)
		return nil, nil, err
	}
	if err := s.validationError(g); err != nil {
		telemetry.SetError(ctx, err)
		return nil, nil, err
	}

	start := time.Now()
	c := controller.New(g, nil)
	states, err := s.run(ctx, c, g)
	duration := time.Since(start)

	if err != nil {
		telemetry.SetError(ctx, err)
		s.metrics.RecordSolve(solveStatus(err), duration, 0, 0)
		return states, nil, err
	}

	final := c.CurrentState()
	summary := domain.NewSolveSummary(final.Flows, final.Objective, final.Iteration, len(final.Basis), c.StepCount())

	s.metrics.RecordSolve("optimal", duration, summary.Iterations, summary.Objective)
	s.metrics.RecordGraphSize("solve", g.NodeCount(), g.EdgeCount())
	span.SetAttributes(telemetry.SolveAttributes(summary.Iterations, summary.Steps, summary.Objective, "optimal")...)

	return states, summary, nil
}

// Validate проверяет граф без решения: структурные ошибки, баланс,
// связность. Предупреждения не влияют на допустимость.
func (s *SolverService) Validate(ctx context.Context, g *domain.Graph) *apperror.ValidationErrors {
	_, span := telemetry.StartSpan(ctx, "SolverService.Validate")
	defer span.End()

	result := ValidateGraph(g)
	if err := s.checkLimits(g); err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			result.Add(appErr)
		}
	}

	s.metrics.RecordGraphSize("validate", g.NodeCount(), g.EdgeCount())
	span.SetAttributes(telemetry.ValidationAttributes(len(result.Errors), len(result.Warnings), result.IsValid())...)

	return result
}

// solve доводит решатель до оптимума, уважая таймаут конфигурации
func (s *SolverService) solve(ctx context.Context, g *domain.Graph) (*domain.SolveSummary, error) {
	c := controller.New(g, nil)
	if _, err := s.run(ctx, c, g); err != nil {
		return nil, err
	}

	final := c.CurrentState()
	return domain.NewSolveSummary(final.Flows, final.Objective, final.Iteration, len(final.Basis), c.StepCount()), nil
}

// run выполняет шаги контроллера до оптимума, проверяя контекст между
// переходами. Возвращает накопленную историю снимков.
func (s *SolverService) run(ctx context.Context, c *controller.SolverController, g *domain.Graph) ([]*solver.SolutionState, error) {
	if s.cfg.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.SolveTimeout)
		defer cancel()
	}

	var stepLog *steplog.StepLogger
	if s.cfg.StepLog {
		stepLog = steplog.New(logger.Log, g)
	}

	var states []*solver.SolutionState
	for c.CanGoNext() {
		select {
		case <-ctx.Done():
			return states, apperror.Wrap(ctx.Err(), apperror.CodeIterationLimit, "solve deadline exceeded")
		default:
		}

		if err := c.NextStep(); err != nil {
			return states, err
		}
		state := c.CurrentState()
		states = append(states, state)
		if stepLog != nil {
			stepLog.LogStep(state, len(states))
		}
		if c.IsSolved() {
			break
		}
	}
	return states, nil
}

// checkLimits проверяет размер графа против конфигурационных лимитов
func (s *SolverService) checkLimits(g *domain.Graph) error {
	if s.cfg.MaxNodes > 0 && g.NodeCount() > s.cfg.MaxNodes {
		return apperror.Newf(apperror.CodeInvalidArgument,
			"graph has %d nodes, limit is %d", g.NodeCount(), s.cfg.MaxNodes).WithField("nodes")
	}
	if s.cfg.MaxEdges > 0 && g.EdgeCount() > s.cfg.MaxEdges {
		return apperror.Newf(apperror.CodeInvalidArgument,
			"graph has %d edges, limit is %d", g.EdgeCount(), s.cfg.MaxEdges).WithField("edges")
	}
	return nil
}

// validationError сворачивает результат валидации в одну ошибку
func (s *SolverService) validationError(g *domain.Graph) error {
	result := ValidateGraph(g)
	if result.HasErrors() {
		return result.Errors[0]
	}
	return nil
}

// solveStatus выводит метку статуса для метрик из кода ошибки
func solveStatus(err error) string {
	switch apperror.Code(err) {
	case apperror.CodeUnbalanced:
		return "unbalanced"
	case apperror.CodeInfeasible:
		return "infeasible"
	case apperror.CodeDisconnected:
		return "disconnected"
	case apperror.CodeIterationLimit:
		return "iteration_limit"
	default:
		return "error"
	}
}
