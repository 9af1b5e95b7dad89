// Package steplog renders solver snapshots as structured log records. It is
// strictly read-only over the snapshot history: nothing here mutates solver
// state, so the logger can be attached or detached freely.
package steplog

import (
	"fmt"
	"log/slog"

	"transport/internal/solver"
	"transport/pkg/domain"
)

// StepLogger форматирует снимки решателя в структурированные записи.
// Содержимое записи зависит от типа перехода: базис, потенциалы, оценки,
// цикл, theta и так далее.
type StepLogger struct {
	log   *slog.Logger
	graph *domain.Graph
}

// New создаёт логгер шагов над графом задачи
func New(log *slog.Logger, g *domain.Graph) *StepLogger {
	if log == nil {
		log = slog.Default()
	}
	return &StepLogger{log: log, graph: g}
}

// LogStep логирует один снимок. stepNumber — порядковый номер снимка в
// истории, начиная с единицы.
func (l *StepLogger) LogStep(state *solver.SolutionState, stepNumber int) {
	if state == nil {
		return
	}

	attrs := []any{
		"step", stepNumber,
		"type", string(state.Type),
		"iteration", state.Iteration,
		"objective", state.Objective,
		"description", state.Description,
	}

	switch state.Type {
	case solver.StepInitialBasis:
		attrs = append(attrs, l.basisAttrs(state)...)
	case solver.StepCalculatePotentials:
		attrs = append(attrs, l.potentialAttrs(state)...)
	case solver.StepCheckOptimality:
		attrs = append(attrs, l.optimalityAttrs(state)...)
	case solver.StepFindCycle:
		attrs = append(attrs, l.cycleAttrs(state)...)
	case solver.StepCalculateTheta:
		attrs = append(attrs, l.thetaAttrs(state)...)
	case solver.StepUpdateFlows:
		attrs = append(attrs, l.flowUpdateAttrs(state)...)
	case solver.StepOptimal:
		attrs = append(attrs, l.optimalAttrs(state)...)
	}

	l.log.Info("Solver step", attrs...)
}

// LogHistory логирует всю последовательность снимков по порядку
func (l *StepLogger) LogHistory(states []*solver.SolutionState) {
	for i, state := range states {
		l.LogStep(state, i+1)
	}
}

func (l *StepLogger) basisAttrs(state *solver.SolutionState) []any {
	basis := make([]string, 0, len(state.Basis))
	for _, edge := range l.graph.Edges() {
		key := edge.Key()
		if state.Basis.Contains(key) {
			basis = append(basis, fmt.Sprintf("%s x=%g c=%g", key, state.Flows[key], edge.Cost))
		}
	}
	return []any{
		"basis_size", len(state.Basis),
		"non_basis_size", len(state.NonBasis),
		"basis", basis,
	}
}

func (l *StepLogger) potentialAttrs(state *solver.SolutionState) []any {
	potentials := make(map[string]float64, len(state.Potentials))
	for id, u := range state.Potentials {
		potentials[id.String()] = u
	}
	return []any{"potentials", potentials}
}

func (l *StepLogger) optimalityAttrs(state *solver.SolutionState) []any {
	// Нарушением считается положительная оценка на пустом ребре либо
	// отрицательная на насыщенном
	var violations []string
	for _, edge := range l.graph.Edges() {
		key := edge.Key()
		delta, ok := state.Deltas[key]
		if !ok {
			continue
		}
		flow := state.Flows[key]
		empty := flow < domain.Epsilon
		saturated := edge.HasCapacityLimit() && domain.FloatEquals(flow, edge.Capacity)
		if (empty && delta > domain.Epsilon) || (saturated && delta < -domain.Epsilon) {
			violations = append(violations, fmt.Sprintf("%s Δ=%+.2f", key, delta))
		}
	}

	attrs := []any{"violations", len(violations)}
	if len(violations) > 0 {
		attrs = append(attrs, "violating_edges", violations)
	}
	if state.Entering != nil {
		attrs = append(attrs,
			"entering", state.Entering.String(),
			"direction", string(state.Direction),
		)
	}
	return attrs
}

func (l *StepLogger) cycleAttrs(state *solver.SolutionState) []any {
	edges := make([]string, 0, len(state.Cycle))
	for _, ce := range state.Cycle {
		sign := "+"
		if ce.Sign == domain.SignBackward {
			sign = "-"
		}
		edges = append(edges, fmt.Sprintf("(%s) %s θ_limit=%g", sign, ce.Edge.Key(), ce.ThetaLimit))
	}
	return []any{
		"cycle_length", len(state.Cycle),
		"cycle", edges,
	}
}

func (l *StepLogger) thetaAttrs(state *solver.SolutionState) []any {
	attrs := []any{"theta", state.Theta}
	if state.Leaving != nil {
		attrs = append(attrs, "leaving", state.Leaving.String())
	}
	return attrs
}

func (l *StepLogger) flowUpdateAttrs(state *solver.SolutionState) []any {
	attrs := []any{
		"basis_size", len(state.Basis),
		"non_basis_size", len(state.NonBasis),
	}
	if state.Entering != nil {
		attrs = append(attrs, "entering", state.Entering.String())
	}
	if state.Leaving != nil {
		attrs = append(attrs, "leaving", state.Leaving.String())
	}
	return attrs
}

func (l *StepLogger) optimalAttrs(state *solver.SolutionState) []any {
	// В итоговой записи показываем только рёбра с ненулевым потоком
	var flows []string
	for _, edge := range l.graph.Edges() {
		key := edge.Key()
		flow := state.Flows[key]
		if flow > domain.Epsilon {
			flows = append(flows, fmt.Sprintf("%s x=%g cost=%g", key, flow, flow*edge.Cost))
		}
	}
	return []any{
		"final_flows", flows,
		"total_iterations", state.Iteration,
	}
}
