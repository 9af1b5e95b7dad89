package strategy

import (
	"math"

	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// Prebuilt инициализатор с заранее заданным базисом и потоками.
// Применяется вложенным решателем первой фазы и в тестах.
type Prebuilt struct {
	Basis domain.EdgeSet
	Flows domain.FlowMap
}

// NewPrebuilt создаёт инициализатор с фиксированным стартовым базисом
func NewPrebuilt(basis domain.EdgeSet, flows domain.FlowMap) *Prebuilt {
	return &Prebuilt{Basis: basis, Flows: flows}
}

// Execute возвращает заданный базис, дополняя небазисное множество
// до полного комплекта рёбер графа
func (p *Prebuilt) Execute(g *domain.Graph) (*domain.BasisResult, error) {
	nonBasis := make(domain.EdgeSet)
	for _, edge := range g.Edges() {
		if !p.Basis.Contains(edge.Key()) {
			nonBasis.Add(edge.Key())
		}
	}
	return &domain.BasisResult{
		Basis:    p.Basis.Clone(),
		NonBasis: nonBasis,
		Flows:    p.Flows.Clone(),
	}, nil
}

// Стоимости рёбер вспомогательной задачи
const (
	artificialCost = 1.0
	originalCost   = 0.0
)

// PhaseOne строит начальный допустимый базис методом двух фаз.
//
// Вспомогательная задача гарантированно допустима: искусственный корень
// соединён с каждым узлом ребром стоимости 1, исходные рёбра получают
// стоимость 0. Минимизация суммарного искусственного потока до нуля
// эквивалентна поиску любого допустимого потока исходной задачи.
type PhaseOne struct {
	runner RunnerFactory
}

// NewPhaseOne создаёт двухфазный инициализатор. runner решает
// вспомогательную задачу до оптимальности.
func NewPhaseOne(runner RunnerFactory) *PhaseOne {
	return &PhaseOne{runner: runner}
}

// Execute выполняет первую фазу и возвращает допустимый стартовый базис
func (p *PhaseOne) Execute(g *domain.Graph) (*domain.BasisResult, error) {
	if !g.CheckBalanceFeasibility() {
		return nil, apperror.Newf(apperror.CodeUnbalanced,
			"total balance is %g, sum of supply must equal sum of demand", g.TotalImbalance())
	}

	aux, err := p.buildAuxiliaryGraph(g)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInternal, "failed to build auxiliary graph")
	}

	basis, flows := p.seedInitialState(g)

	finalBasis, finalFlows, err := p.runner(aux, NewPrebuilt(basis, flows))
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInfeasible, "phase one did not reach optimality")
	}

	return p.extractOriginalSolution(g, finalBasis, finalFlows)
}

// buildAuxiliaryGraph собирает вспомогательный граф: корень с нулевым
// балансом, исходные узлы, исходные рёбра с нулевой стоимостью и
// искусственные рёбра к корню
func (p *PhaseOne) buildAuxiliaryGraph(g *domain.Graph) (*domain.Graph, error) {
	aux := domain.NewGraph()

	if err := aux.AddNode(domain.NewNode(domain.Root(), 0)); err != nil {
		return nil, err
	}
	for _, node := range g.Nodes() {
		if err := aux.AddNode(domain.NewNode(node.ID, node.Balance)); err != nil {
			return nil, err
		}
	}
	for _, edge := range g.Edges() {
		if err := aux.AddEdge(domain.NewEdgeWithCapacity(edge.From, edge.To, originalCost, edge.Capacity)); err != nil {
			return nil, err
		}
	}

	// Источники отдают поток корню, все остальные узлы получают от корня
	for _, node := range g.Nodes() {
		var artificial *domain.Edge
		if domain.IsPositive(node.Balance) {
			artificial = domain.NewEdge(node.ID, domain.Root(), artificialCost)
		} else {
			artificial = domain.NewEdge(domain.Root(), node.ID, artificialCost)
		}
		if err := aux.AddEdge(artificial); err != nil {
			return nil, err
		}
	}
	return aux, nil
}

// seedInitialState формирует стартовый базис вспомогательной задачи:
// звезда из искусственных рёбер с потоком |баланс|, исходные рёбра пусты
func (p *PhaseOne) seedInitialState(g *domain.Graph) (domain.EdgeSet, domain.FlowMap) {
	basis := make(domain.EdgeSet)
	flows := make(domain.FlowMap)

	for _, edge := range g.Edges() {
		flows[edge.Key()] = 0
	}
	for _, node := range g.Nodes() {
		var key domain.EdgeKey
		if domain.IsPositive(node.Balance) {
			key = domain.EdgeKey{From: node.ID, To: domain.Root()}
		} else {
			key = domain.EdgeKey{From: domain.Root(), To: node.ID}
		}
		basis.Add(key)
		flows[key] = math.Abs(node.Balance)
		if domain.IsZero(node.Balance) {
			flows[key] = 0
		}
	}
	return basis, flows
}

// extractOriginalSolution проецирует оптимум вспомогательной задачи на
// исходный граф. Остаточный искусственный поток означает недопустимость.
func (p *PhaseOne) extractOriginalSolution(g *domain.Graph, finalBasis domain.EdgeSet, finalFlows domain.FlowMap) (*domain.BasisResult, error) {
	var artificialFlow float64
	for key, flow := range finalFlows {
		if key.From.IsRoot() || key.To.IsRoot() {
			artificialFlow += flow
		}
	}
	if artificialFlow > domain.Epsilon {
		return nil, apperror.Newf(apperror.CodeInfeasible,
			"problem is infeasible, total artificial flow %.6f", artificialFlow)
	}

	flows := make(domain.FlowMap, g.EdgeCount())
	for _, edge := range g.Edges() {
		flows[edge.Key()] = finalFlows[edge.Key()]
	}

	partial := make(domain.EdgeSet)
	for key := range finalBasis {
		if !key.From.IsRoot() && !key.To.IsRoot() {
			partial.Add(key)
		}
	}

	basis, err := p.rebuildBasis(g, partial, flows)
	if err != nil {
		return nil, err
	}

	nonBasis := make(domain.EdgeSet)
	for _, edge := range g.Edges() {
		if !basis.Contains(edge.Key()) {
			nonBasis.Add(edge.Key())
		}
	}

	return &domain.BasisResult{Basis: basis, NonBasis: nonBasis, Flows: flows}, nil
}

// rebuildBasis достраивает частичный базис до остовного дерева:
// сначала рёбра с положительным потоком, затем любые оставшиеся
func (p *PhaseOne) rebuildBasis(g *domain.Graph, partial domain.EdgeSet, flows domain.FlowMap) (domain.EdgeSet, error) {
	required := g.NodeCount() - 1
	dsu := NewDisjointSet(g.NodeIDs())
	basis := make(domain.EdgeSet)

	tryAdd := func(key domain.EdgeKey) {
		if dsu.Union(key.From, key.To) {
			basis.Add(key)
		}
	}

	for _, edge := range g.Edges() {
		if partial.Contains(edge.Key()) {
			tryAdd(edge.Key())
		}
	}

	if len(basis) < required {
		for _, edge := range g.Edges() {
			if len(basis) >= required {
				break
			}
			if !basis.Contains(edge.Key()) && flows[edge.Key()] > domain.Epsilon {
				tryAdd(edge.Key())
			}
		}
	}

	if len(basis) < required {
		for _, edge := range g.Edges() {
			if len(basis) >= required {
				break
			}
			if !basis.Contains(edge.Key()) {
				tryAdd(edge.Key())
			}
		}
	}

	if len(basis) < required {
		return nil, apperror.Newf(apperror.CodeDisconnected,
			"graph is not connected, spanning tree has %d edges, required %d", len(basis), required)
	}
	return basis, nil
}
