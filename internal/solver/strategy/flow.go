package strategy

import (
	"math"

	"transport/pkg/domain"
)

// CycleFlowUpdater применяет сдвиг theta вдоль цикла и выполняет замену
// базиса: выходящее ребро покидает базис, входящее занимает его место.
type CycleFlowUpdater struct{}

// NewFlowUpdater создаёт обновление потоков по умолчанию
func NewFlowUpdater() *CycleFlowUpdater {
	return &CycleFlowUpdater{}
}

// Execute возвращает новый базис, небазисное множество и потоки.
// При вырожденном самопивоте (входящее ребро равно выходящему) либо
// отсутствии выходящего ребра базис не меняется.
func (u *CycleFlowUpdater) Execute(g *domain.Graph, cycle []domain.CycleEdge, theta float64, entering domain.EdgeKey, leaving *domain.EdgeKey, basis domain.EdgeSet, flows domain.FlowMap) (domain.EdgeSet, domain.EdgeSet, domain.FlowMap) {
	newFlows := flows.Clone()
	for _, ce := range cycle {
		key := ce.Edge.Key()
		flow := newFlows[key]
		if ce.Sign == domain.SignForward {
			flow += theta
		} else {
			flow -= theta
		}
		newFlows[key] = snapFlow(flow, ce.Edge.Capacity)
	}

	newBasis := basis.Clone()
	if leaving != nil && *leaving != entering {
		newBasis.Remove(*leaving)
		newBasis.Add(entering)
	}

	newNonBasis := make(domain.EdgeSet, g.EdgeCount()-len(newBasis))
	for _, edge := range g.Edges() {
		if !newBasis.Contains(edge.Key()) {
			newNonBasis.Add(edge.Key())
		}
	}
	return newBasis, newNonBasis, newFlows
}

// snapFlow прижимает поток точно к границе при попадании в ε-окрестность
func snapFlow(flow, capacity float64) float64 {
	if math.Abs(flow) < domain.Epsilon {
		return 0
	}
	if math.Abs(flow-capacity) < domain.Epsilon {
		return capacity
	}
	return flow
}
