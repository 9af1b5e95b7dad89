package solver

import "transport/pkg/domain"

// StepType метка перехода конечного автомата решателя
type StepType string

const (
	StepInitialState        StepType = "initial_state"
	StepInitialBasis        StepType = "initial_basis"
	StepCalculatePotentials StepType = "calculate_potentials"
	StepCheckOptimality     StepType = "check_optimality"
	StepFindCycle           StepType = "find_cycle"
	StepCalculateTheta      StepType = "calculate_theta"
	StepUpdateFlows         StepType = "update_flows"
	StepOptimal             StepType = "optimal"
)

// SolutionState неизменяемый снимок состояния решателя после одного
// перехода. Каждый снимок владеет собственными копиями коллекций и
// никогда не разделяет их с соседними снимками: исторические записи
// остаются корректными, пока решатель идёт дальше.
type SolutionState struct {
	Type        StepType
	Iteration   int
	Basis       domain.EdgeSet
	NonBasis    domain.EdgeSet
	Potentials  domain.PotentialMap
	Deltas      domain.DeltaMap
	Flows       domain.FlowMap
	Entering    *domain.EdgeKey
	Leaving     *domain.EdgeKey
	Direction   domain.Direction
	Cycle       []domain.CycleEdge
	Theta       float64
	Objective   float64
	Description string
}

// NewInitialState возвращает сентинельный снимок "решение не начато"
func NewInitialState() *SolutionState {
	return &SolutionState{Type: StepInitialState, Iteration: -1}
}

// cloneEdgeKey копирует указатель на ключ ребра, не разделяя память
func cloneEdgeKey(key *domain.EdgeKey) *domain.EdgeKey {
	if key == nil {
		return nil
	}
	k := *key
	return &k
}

// cloneCycle копирует срез рёбер цикла. Указатели на рёбра графа
// разделяются намеренно: граф неизменяем в течение решения.
func cloneCycle(cycle []domain.CycleEdge) []domain.CycleEdge {
	if cycle == nil {
		return nil
	}
	clone := make([]domain.CycleEdge, len(cycle))
	copy(clone, cycle)
	return clone
}
