// Package strategy contains the six pluggable stages of the network simplex
// pivot loop: initial basis construction, potential calculation, optimality
// checking, cycle finding, theta calculation and flow update.
//
// # Determinism
//
// All default implementations produce deterministic results for the same
// input graph. Sets and maps are iterated in sorted key order, ties are
// broken lexicographically by (from, to).
//
// # Purity
//
// Every strategy is a pure function of the graph and the current partial
// solver state. Strategies never mutate the graph and never retain
// references to the maps they are given; returned collections are freshly
// allocated.
package strategy

import "transport/pkg/domain"

// Initializer строит начальный допустимый базис
type Initializer interface {
	Execute(g *domain.Graph) (*domain.BasisResult, error)
}

// PotentialCalculator вычисляет потенциалы узлов по базисному дереву
type PotentialCalculator interface {
	Execute(g *domain.Graph, basis domain.EdgeSet) (domain.PotentialMap, error)
}

// OptimalityResult результат проверки оптимальности
type OptimalityResult struct {
	Optimal   bool
	Deltas    domain.DeltaMap
	Entering  *domain.EdgeKey
	Direction domain.Direction
	// Score величина нарушения для выбранного входящего ребра
	Score float64
}

// OptimalityChecker вычисляет оценки небазисных рёбер и выбирает
// входящее ребро
type OptimalityChecker interface {
	Execute(g *domain.Graph, nonBasis domain.EdgeSet, potentials domain.PotentialMap, flows domain.FlowMap) (*OptimalityResult, error)
}

// CycleFinder находит цикл, образованный входящим ребром и базисным деревом
type CycleFinder interface {
	Execute(g *domain.Graph, basis domain.EdgeSet, entering domain.EdgeKey, direction domain.Direction, flows domain.FlowMap) ([]domain.CycleEdge, error)
}

// ThetaCalculator определяет величину сдвига потока и выходящее ребро
type ThetaCalculator interface {
	Execute(cycle []domain.CycleEdge, basis domain.EdgeSet) (theta float64, leaving *domain.EdgeKey)
}

// FlowUpdater применяет сдвиг потока вдоль цикла и меняет базис
type FlowUpdater interface {
	Execute(g *domain.Graph, cycle []domain.CycleEdge, theta float64, entering domain.EdgeKey, leaving *domain.EdgeKey, basis domain.EdgeSet, flows domain.FlowMap) (newBasis, newNonBasis domain.EdgeSet, newFlows domain.FlowMap)
}

// RunnerFactory решает вспомогательную задачу первой фазы до оптимальности
// и возвращает финальный базис и потоки. Передаётся инициализатору снаружи,
// чтобы стратегия не зависела от конкретного типа решателя.
type RunnerFactory func(aux *domain.Graph, init Initializer) (basis domain.EdgeSet, flows domain.FlowMap, err error)
