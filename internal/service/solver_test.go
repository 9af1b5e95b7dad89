package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport/internal/service"
	"transport/internal/solver"
	"transport/pkg/apperror"
	"transport/pkg/cache"
	"transport/pkg/config"
	"transport/pkg/domain"
	"transport/pkg/logger"
	"transport/pkg/metrics"
)

func init() {
	logger.Init("error")

	// Свежий реестр, чтобы повторная инициализация метрик не конфликтовала
	reg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = reg
	prometheus.DefaultGatherer = reg
	metrics.InitMetrics("test", "service")
}

func solverConfig() config.SolverConfig {
	return config.SolverConfig{
		SolveTimeout:  time.Minute,
		MaxNodes:      1000,
		MaxEdges:      10000,
		IncludeCycles: true,
	}
}

// buildAssignmentGraph задача о назначениях 2x2 с оптимумом 20:
// дешёвые диагональные маршруты A1->B1 и A2->B2
func buildAssignmentGraph(t *testing.T) *domain.Graph {
	t.Helper()

	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.NewNode(domain.ID("A1"), 10)))
	require.NoError(t, g.AddNode(domain.NewNode(domain.ID("A2"), 10)))
	require.NoError(t, g.AddNode(domain.NewNode(domain.ID("B1"), -10)))
	require.NoError(t, g.AddNode(domain.NewNode(domain.ID("B2"), -10)))

	require.NoError(t, g.AddEdge(domain.NewEdge(domain.ID("A1"), domain.ID("B1"), 1)))
	require.NoError(t, g.AddEdge(domain.NewEdge(domain.ID("A1"), domain.ID("B2"), 4)))
	require.NoError(t, g.AddEdge(domain.NewEdge(domain.ID("A2"), domain.ID("B1"), 4)))
	require.NoError(t, g.AddEdge(domain.NewEdge(domain.ID("A2"), domain.ID("B2"), 1)))
	return g
}

func buildUnbalancedGraph(t *testing.T) *domain.Graph {
	t.Helper()

	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.NewNode(domain.ID("s"), 10)))
	require.NoError(t, g.AddNode(domain.NewNode(domain.ID("t"), -5)))
	require.NoError(t, g.AddEdge(domain.NewEdge(domain.ID("s"), domain.ID("t"), 1)))
	return g
}

func TestSolverService_Solve(t *testing.T) {
	svc := service.NewSolverService("test", solverConfig(), nil)

	summary, cached, err := svc.Solve(context.Background(), buildAssignmentGraph(t))
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.False(t, cached)
	assert.InDelta(t, 20.0, summary.Objective, 1e-9)
	assert.Equal(t, 3, summary.BasisSize)
	assert.Greater(t, summary.Steps, 0)
}

func TestSolverService_SolveUsesCache(t *testing.T) {
	mem := cache.NewMemoryCache(&cache.Options{MaxEntries: 100, DefaultTTL: time.Minute})
	defer mem.Close()
	svc := service.NewSolverService("test", solverConfig(), cache.NewSolverCache(mem, time.Minute))

	g := buildAssignmentGraph(t)

	first, cached, err := svc.Solve(context.Background(), g)
	require.NoError(t, err)
	assert.False(t, cached)

	// Повторное решение того же графа берётся из кэша
	second, cached, err := svc.Solve(context.Background(), g)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.InDelta(t, first.Objective, second.Objective, 1e-9)
	assert.Equal(t, first.Flows, second.Flows)
}

func TestSolverService_SolveUnbalanced(t *testing.T) {
	svc := service.NewSolverService("test", solverConfig(), nil)

	_, _, err := svc.Solve(context.Background(), buildUnbalancedGraph(t))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeUnbalanced))
}

func TestSolverService_Limits(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.SolverConfig
	}{
		{name: "node limit", cfg: config.SolverConfig{MaxNodes: 2}},
		{name: "edge limit", cfg: config.SolverConfig{MaxEdges: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := service.NewSolverService("test", tt.cfg, nil)

			_, _, err := svc.Solve(context.Background(), buildAssignmentGraph(t))
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeInvalidArgument))
		})
	}
}

func TestSolverService_SolveTimeout(t *testing.T) {
	cfg := solverConfig()
	cfg.SolveTimeout = time.Nanosecond
	svc := service.NewSolverService("test", cfg, nil)

	// Дедлайн истекает до первого перехода
	time.Sleep(time.Millisecond)
	_, _, err := svc.Solve(context.Background(), buildAssignmentGraph(t))
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeIterationLimit))
}

func TestSolverService_SolveSteps(t *testing.T) {
	svc := service.NewSolverService("test", solverConfig(), nil)

	states, summary, err := svc.SolveSteps(context.Background(), buildAssignmentGraph(t))
	require.NoError(t, err)
	require.NotNil(t, summary)
	require.NotEmpty(t, states)

	// История начинается с построения базиса и заканчивается оптимумом
	assert.Equal(t, solver.StepInitialBasis, states[0].Type)
	assert.Equal(t, solver.StepOptimal, states[len(states)-1].Type)
	assert.Equal(t, len(states), summary.Steps)
	assert.InDelta(t, 20.0, summary.Objective, 1e-9)
}

func TestSolverService_Validate(t *testing.T) {
	svc := service.NewSolverService("test", solverConfig(), nil)

	result := svc.Validate(context.Background(), buildAssignmentGraph(t))
	assert.True(t, result.IsValid())

	result = svc.Validate(context.Background(), buildUnbalancedGraph(t))
	assert.False(t, result.IsValid())
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, apperror.CodeUnbalanced, result.Errors[0].Code)
}

func TestSolverService_ValidateAppliesLimits(t *testing.T) {
	svc := service.NewSolverService("test", config.SolverConfig{MaxNodes: 2}, nil)

	result := svc.Validate(context.Background(), buildAssignmentGraph(t))
	assert.False(t, result.IsValid())

	found := false
	for _, e := range result.Errors {
		if e.Code == apperror.CodeInvalidArgument {
			found = true
		}
	}
	assert.True(t, found, "limit violation should appear among validation errors")
}

func TestSolverService_Version(t *testing.T) {
	svc := service.NewSolverService("1.2.3", solverConfig(), nil)
	assert.Equal(t, "1.2.3", svc.Version())
}
