// Package solver implements the network simplex method for the minimum-cost
// capacitated transportation problem as an explicit state machine. Every
// micro-step of the algorithm (basis construction, potential calculation,
// optimality check, cycle search, theta selection, flow update) produces an
// immutable SolutionState snapshot, so callers can replay and inspect the
// full pivot history.
//
// # Thread Safety
//
// A TransportSolver is NOT thread-safe. It is created once per solve attempt
// and driven from a single goroutine. The input graph is shared read-only:
// strategies never mutate it.
//
// # Determinism
//
// Given the same graph the solver produces an identical snapshot sequence.
// All strategies iterate edges in sorted key order and break ties
// lexicographically.
package solver

import (
	"fmt"
	"strings"

	"transport/internal/solver/strategy"
	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// MaxIterations предельное число пивотов одной попытки решения
const MaxIterations = 1000

// TransportSolver конечный автомат сетевого симплекс-метода.
// Переходы в фиксированном порядке:
//
//	INITIAL_STATE -> INITIAL_BASIS -> CALCULATE_POTENTIALS ->
//	CHECK_OPTIMALITY -> {OPTIMAL | FIND_CYCLE -> CALCULATE_THETA ->
//	UPDATE_FLOWS -> CALCULATE_POTENTIALS (цикл)}
type TransportSolver struct {
	graph     *domain.Graph
	iteration int
	current   *SolutionState

	initializer strategy.Initializer
	potentials  strategy.PotentialCalculator
	optimality  strategy.OptimalityChecker
	cycles      strategy.CycleFinder
	theta       strategy.ThetaCalculator
	flows       strategy.FlowUpdater
}

// Option переопределяет одну из шести стратегий решателя
type Option func(*TransportSolver)

// WithInitializer задаёт стратегию построения начального базиса
func WithInitializer(init strategy.Initializer) Option {
	return func(s *TransportSolver) { s.initializer = init }
}

// WithPotentialCalculator задаёт стратегию вычисления потенциалов
func WithPotentialCalculator(pc strategy.PotentialCalculator) Option {
	return func(s *TransportSolver) { s.potentials = pc }
}

// WithOptimalityChecker задаёт стратегию проверки оптимальности
func WithOptimalityChecker(oc strategy.OptimalityChecker) Option {
	return func(s *TransportSolver) { s.optimality = oc }
}

// WithCycleFinder задаёт стратегию поиска цикла
func WithCycleFinder(cf strategy.CycleFinder) Option {
	return func(s *TransportSolver) { s.cycles = cf }
}

// WithThetaCalculator задаёт стратегию выбора theta
func WithThetaCalculator(tc strategy.ThetaCalculator) Option {
	return func(s *TransportSolver) { s.theta = tc }
}

// WithFlowUpdater задаёт стратегию обновления потоков
func WithFlowUpdater(fu strategy.FlowUpdater) Option {
	return func(s *TransportSolver) { s.flows = fu }
}

// New создаёт решатель над построенным графом. Стратегии по умолчанию:
// двухфазная инициализация, BFS-потенциалы, steepest-edge проверка,
// DFS-поиск цикла, минимальный предел theta, циклическое обновление.
func New(g *domain.Graph, opts ...Option) *TransportSolver {
	s := &TransportSolver{
		graph:   g,
		current: NewInitialState(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.initializer == nil {
		// Вложенный решатель первой фазы собирается той же функцией New
		s.initializer = strategy.NewPhaseOne(func(aux *domain.Graph, init strategy.Initializer) (domain.EdgeSet, domain.FlowMap, error) {
			nested := New(aux, WithInitializer(init))
			if _, err := nested.SolveStepByStep(); err != nil {
				return nil, nil, err
			}
			final := nested.CurrentState()
			return final.Basis, final.Flows, nil
		})
	}
	if s.potentials == nil {
		s.potentials = strategy.NewPotentialCalculator()
	}
	if s.optimality == nil {
		s.optimality = strategy.NewOptimalityChecker()
	}
	if s.cycles == nil {
		s.cycles = strategy.NewCycleFinder()
	}
	if s.theta == nil {
		s.theta = strategy.NewThetaCalculator()
	}
	if s.flows == nil {
		s.flows = strategy.NewFlowUpdater()
	}
	return s
}

// Graph возвращает граф задачи
func (s *TransportSolver) Graph() *domain.Graph {
	return s.graph
}

// CurrentState возвращает последний снимок
func (s *TransportSolver) CurrentState() *SolutionState {
	return s.current
}

// Iteration возвращает число завершённых пивотов
func (s *TransportSolver) Iteration() int {
	return s.iteration
}

// IsOptimal сообщает, достигнут ли оптимум
func (s *TransportSolver) IsOptimal() bool {
	return s.current.Type == StepOptimal
}

// Step выполняет ровно один переход автомата. Вызов в состоянии OPTIMAL
// ничего не делает. Превышение лимита итераций — фатальная ошибка:
// последний снимок остаётся доступным, дальнейшие шаги невозможны.
func (s *TransportSolver) Step() error {
	if s.current.Type == StepOptimal {
		return nil
	}
	if s.iteration >= MaxIterations {
		return apperror.Newf(apperror.CodeIterationLimit,
			"maximum iterations (%d) exceeded without reaching optimal solution", MaxIterations)
	}

	switch s.current.Type {
	case StepInitialState:
		return s.executeInitialization()
	case StepInitialBasis, StepUpdateFlows:
		return s.executePotentialCalculation()
	case StepCalculatePotentials:
		return s.executeOptimalityCheck()
	case StepCheckOptimality:
		return s.executeCycleFinding()
	case StepFindCycle:
		return s.executeThetaCalculation()
	case StepCalculateTheta:
		if err := s.executeFlowUpdate(); err != nil {
			return err
		}
		s.iteration++
		return nil
	default:
		return apperror.Newf(apperror.CodeInternal, "unknown solver state %q", s.current.Type)
	}
}

// SolveStepByStep доводит решение до оптимума, собирая каждый
// промежуточный снимок. При превышении лимита итераций возвращает
// ошибку ITERATION_LIMIT вместе с уже накопленными снимками.
func (s *TransportSolver) SolveStepByStep() ([]*SolutionState, error) {
	var states []*SolutionState
	for !s.IsOptimal() {
		if err := s.Step(); err != nil {
			return states, err
		}
		states = append(states, s.current)
	}
	return states, nil
}

func (s *TransportSolver) executeInitialization() error {
	result, err := s.initializer.Execute(s.graph)
	if err != nil {
		return err
	}

	objective, err := s.objectiveValue(result.Flows)
	if err != nil {
		return err
	}
	s.current = &SolutionState{
		Type:        StepInitialBasis,
		Iteration:   0,
		Basis:       result.Basis.Clone(),
		NonBasis:    result.NonBasis.Clone(),
		Potentials:  domain.PotentialMap{},
		Deltas:      domain.DeltaMap{},
		Flows:       result.Flows.Clone(),
		Description: "Initial feasible basis constructed",
		Objective:   objective,
	}
	return nil
}

func (s *TransportSolver) executePotentialCalculation() error {
	potentials, err := s.potentials.Execute(s.graph, s.current.Basis)
	if err != nil {
		return err
	}

	objective, err := s.objectiveValue(s.current.Flows)
	if err != nil {
		return err
	}
	s.current = &SolutionState{
		Type:        StepCalculatePotentials,
		Iteration:   s.iteration,
		Basis:       s.current.Basis.Clone(),
		NonBasis:    s.current.NonBasis.Clone(),
		Potentials:  potentials,
		Deltas:      domain.DeltaMap{},
		Flows:       s.current.Flows.Clone(),
		Description: "Node potentials calculated",
		Objective:   objective,
	}
	return nil
}

func (s *TransportSolver) executeOptimalityCheck() error {
	result, err := s.optimality.Execute(s.graph, s.current.NonBasis, s.current.Potentials, s.current.Flows)
	if err != nil {
		return err
	}

	objective, err := s.objectiveValue(s.current.Flows)
	if err != nil {
		return err
	}

	if result.Optimal {
		s.current = &SolutionState{
			Type:        StepOptimal,
			Iteration:   s.iteration,
			Basis:       s.current.Basis.Clone(),
			NonBasis:    s.current.NonBasis.Clone(),
			Potentials:  s.current.Potentials.Clone(),
			Deltas:      result.Deltas,
			Flows:       s.current.Flows.Clone(),
			Description: "Optimal solution found",
			Objective:   objective,
		}
		return nil
	}

	delta := result.Deltas[*result.Entering]
	s.current = &SolutionState{
		Type:       StepCheckOptimality,
		Iteration:  s.iteration,
		Basis:      s.current.Basis.Clone(),
		NonBasis:   s.current.NonBasis.Clone(),
		Potentials: s.current.Potentials.Clone(),
		Deltas:     result.Deltas,
		Flows:      s.current.Flows.Clone(),
		Entering:   cloneEdgeKey(result.Entering),
		Direction:  result.Direction,
		Description: fmt.Sprintf("Violation detected: %s (Δ=%.2f, %s)",
			result.Entering, delta, strings.ToUpper(string(result.Direction))),
		Objective: objective,
	}
	return nil
}

func (s *TransportSolver) executeCycleFinding() error {
	cycle, err := s.cycles.Execute(s.graph, s.current.Basis, *s.current.Entering, s.current.Direction, s.current.Flows)
	if err != nil {
		return err
	}

	objective, err := s.objectiveValue(s.current.Flows)
	if err != nil {
		return err
	}
	s.current = &SolutionState{
		Type:        StepFindCycle,
		Iteration:   s.iteration,
		Basis:       s.current.Basis.Clone(),
		NonBasis:    s.current.NonBasis.Clone(),
		Potentials:  s.current.Potentials.Clone(),
		Deltas:      s.current.Deltas.Clone(),
		Flows:       s.current.Flows.Clone(),
		Entering:    cloneEdgeKey(s.current.Entering),
		Direction:   s.current.Direction,
		Cycle:       cloneCycle(cycle),
		Description: fmt.Sprintf("Improvement cycle found (%d edges)", len(cycle)),
		Objective:   objective,
	}
	return nil
}

func (s *TransportSolver) executeThetaCalculation() error {
	theta, leaving := s.theta.Execute(s.current.Cycle, s.current.Basis)

	objective, err := s.objectiveValue(s.current.Flows)
	if err != nil {
		return err
	}
	s.current = &SolutionState{
		Type:        StepCalculateTheta,
		Iteration:   s.iteration,
		Basis:       s.current.Basis.Clone(),
		NonBasis:    s.current.NonBasis.Clone(),
		Potentials:  s.current.Potentials.Clone(),
		Deltas:      s.current.Deltas.Clone(),
		Flows:       s.current.Flows.Clone(),
		Entering:    cloneEdgeKey(s.current.Entering),
		Leaving:     cloneEdgeKey(leaving),
		Direction:   s.current.Direction,
		Cycle:       cloneCycle(s.current.Cycle),
		Theta:       theta,
		Description: fmt.Sprintf("Maximum flow adjustment: θ = %.2f", theta),
		Objective:   objective,
	}
	return nil
}

func (s *TransportSolver) executeFlowUpdate() error {
	newBasis, newNonBasis, newFlows := s.flows.Execute(
		s.graph, s.current.Cycle, s.current.Theta,
		*s.current.Entering, s.current.Leaving,
		s.current.Basis, s.current.Flows,
	)

	objective, err := s.objectiveValue(newFlows)
	if err != nil {
		return err
	}
	s.current = &SolutionState{
		Type:        StepUpdateFlows,
		Iteration:   s.iteration,
		Basis:       newBasis,
		NonBasis:    newNonBasis,
		Potentials:  domain.PotentialMap{},
		Deltas:      domain.DeltaMap{},
		Flows:       newFlows,
		Entering:    cloneEdgeKey(s.current.Entering),
		Leaving:     cloneEdgeKey(s.current.Leaving),
		Theta:       s.current.Theta,
		Description: "Flows updated, basis swapped",
		Objective:   objective,
	}
	return nil
}

// objectiveValue пересчитывает целевую функцию как сумму flow*cost по
// всем рёбрам. Небазисные рёбра всегда прижаты к границе, поэтому сумма
// по всем рёбрам совпадает с суммой по базису и насыщенным рёбрам.
func (s *TransportSolver) objectiveValue(flows domain.FlowMap) (float64, error) {
	var total float64
	for key, flow := range flows {
		edge, ok := s.graph.GetEdge(key.From, key.To)
		if !ok {
			return 0, apperror.Newf(apperror.CodeInternal, "edge %s not found in graph", key)
		}
		total += edge.Cost * flow
	}
	return total, nil
}
