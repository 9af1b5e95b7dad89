package steplog_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport/internal/solver"
	"transport/internal/steplog"
	"transport/pkg/domain"
)

func buildGraph(t *testing.T) *domain.Graph {
	t.Helper()

	g := domain.NewGraph()
	require.NoError(t, g.AddNode(domain.NewNode(domain.ID("s"), 10)))
	require.NoError(t, g.AddNode(domain.NewNode(domain.ID("t"), -10)))
	require.NoError(t, g.AddEdge(domain.NewEdgeWithCapacity(domain.ID("s"), domain.ID("t"), 3, 20)))
	return g
}

// captureLogger возвращает JSON-логгер и буфер с его выводом
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func decodeRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	return record
}

func TestStepLogger_InitialBasis(t *testing.T) {
	g := buildGraph(t)
	log, buf := captureLogger()

	key := domain.EdgeKey{From: domain.ID("s"), To: domain.ID("t")}
	state := &solver.SolutionState{
		Type:        solver.StepInitialBasis,
		Iteration:   0,
		Basis:       domain.NewEdgeSet(key),
		NonBasis:    domain.EdgeSet{},
		Flows:       domain.FlowMap{key: 10},
		Objective:   30,
		Description: "Initial feasible basis constructed",
	}

	steplog.New(log, g).LogStep(state, 1)

	record := decodeRecord(t, buf)
	assert.Equal(t, "Solver step", record["msg"])
	assert.Equal(t, "initial_basis", record["type"])
	assert.Equal(t, float64(1), record["step"])
	assert.Equal(t, float64(1), record["basis_size"])
	assert.Equal(t, float64(30), record["objective"])
}

func TestStepLogger_OptimalityViolations(t *testing.T) {
	g := buildGraph(t)
	log, buf := captureLogger()

	key := domain.EdgeKey{From: domain.ID("s"), To: domain.ID("t")}
	state := &solver.SolutionState{
		Type:      solver.StepCheckOptimality,
		Flows:     domain.FlowMap{key: 0},
		Deltas:    domain.DeltaMap{key: 2.5},
		Entering:  &key,
		Direction: domain.DirectionIncrease,
	}

	steplog.New(log, g).LogStep(state, 3)

	record := decodeRecord(t, buf)
	// Пустое ребро с положительной оценкой считается нарушением
	assert.Equal(t, float64(1), record["violations"])
	assert.Equal(t, "s->t", record["entering"])
	assert.Equal(t, "increase", record["direction"])
}

func TestStepLogger_Theta(t *testing.T) {
	g := buildGraph(t)
	log, buf := captureLogger()

	leaving := domain.EdgeKey{From: domain.ID("s"), To: domain.ID("t")}
	state := &solver.SolutionState{
		Type:    solver.StepCalculateTheta,
		Theta:   7.5,
		Leaving: &leaving,
	}

	steplog.New(log, g).LogStep(state, 5)

	record := decodeRecord(t, buf)
	assert.Equal(t, 7.5, record["theta"])
	assert.Equal(t, "s->t", record["leaving"])
}

func TestStepLogger_Optimal(t *testing.T) {
	g := buildGraph(t)
	log, buf := captureLogger()

	key := domain.EdgeKey{From: domain.ID("s"), To: domain.ID("t")}
	state := &solver.SolutionState{
		Type:      solver.StepOptimal,
		Iteration: 2,
		Flows:     domain.FlowMap{key: 10},
		Objective: 30,
	}

	steplog.New(log, g).LogStep(state, 8)

	record := decodeRecord(t, buf)
	assert.Equal(t, "optimal", record["type"])
	assert.Equal(t, float64(2), record["total_iterations"])
	assert.NotEmpty(t, record["final_flows"])
}

func TestStepLogger_NilStateIsNoop(t *testing.T) {
	g := buildGraph(t)
	log, buf := captureLogger()

	steplog.New(log, g).LogStep(nil, 1)
	assert.Zero(t, buf.Len())
}

func TestStepLogger_LogHistory(t *testing.T) {
	g := buildGraph(t)
	log, buf := captureLogger()

	states := []*solver.SolutionState{
		{Type: solver.StepInitialBasis, Basis: domain.EdgeSet{}, NonBasis: domain.EdgeSet{}, Flows: domain.FlowMap{}},
		{Type: solver.StepCalculatePotentials, Potentials: domain.PotentialMap{domain.ID("s"): 0}},
	}

	steplog.New(log, g).LogHistory(states)

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 2, lines)
}
