package strategy

import (
	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// TreeCycleFinder находит цикл, который входящее ребро образует с базисным
// деревом: единственный путь по дереву от to-узла входящего ребра к его
// from-узлу плюс само ребро.
type TreeCycleFinder struct{}

// NewCycleFinder создаёт поиск цикла по умолчанию
func NewCycleFinder() *TreeCycleFinder {
	return &TreeCycleFinder{}
}

type treeArc struct {
	neighbor domain.NodeID
	edge     *domain.Edge
	forward  bool
}

// Execute возвращает рёбра цикла со знаками и пределами theta
func (f *TreeCycleFinder) Execute(g *domain.Graph, basis domain.EdgeSet, entering domain.EdgeKey, direction domain.Direction, flows domain.FlowMap) ([]domain.CycleEdge, error) {
	enteringEdge, ok := g.GetEdge(entering.From, entering.To)
	if !ok {
		return nil, apperror.Newf(apperror.CodeBrokenBasis, "entering edge %s not found in graph", entering)
	}

	adjacency := f.buildAdjacency(g, basis)

	var path []treeArc
	visited := make(map[domain.NodeID]bool)
	if !f.dfs(entering.To, entering.From, adjacency, visited, &path) {
		return nil, apperror.Newf(apperror.CodeBrokenBasis,
			"no tree path between %q and %q", entering.To, entering.From)
	}

	cycle := make([]domain.CycleEdge, 0, len(path)+1)
	cycle = append(cycle, f.cycleEdge(enteringEdge, true, direction, flows))
	for _, arc := range path {
		cycle = append(cycle, f.cycleEdge(arc.edge, arc.forward, direction, flows))
	}
	return cycle, nil
}

// buildAdjacency строит неориентированные списки смежности базисного
// дерева, помечая направление обхода относительно исходного ребра
func (f *TreeCycleFinder) buildAdjacency(g *domain.Graph, basis domain.EdgeSet) map[domain.NodeID][]treeArc {
	adjacency := make(map[domain.NodeID][]treeArc, g.NodeCount())
	for _, edge := range g.Edges() {
		if !basis.Contains(edge.Key()) {
			continue
		}
		adjacency[edge.From] = append(adjacency[edge.From], treeArc{neighbor: edge.To, edge: edge, forward: true})
		adjacency[edge.To] = append(adjacency[edge.To], treeArc{neighbor: edge.From, edge: edge, forward: false})
	}
	return adjacency
}

func (f *TreeCycleFinder) dfs(current, target domain.NodeID, adjacency map[domain.NodeID][]treeArc, visited map[domain.NodeID]bool, path *[]treeArc) bool {
	if current == target {
		return true
	}
	visited[current] = true

	for _, arc := range adjacency[current] {
		if visited[arc.neighbor] {
			continue
		}
		*path = append(*path, arc)
		if f.dfs(arc.neighbor, target, adjacency, visited, path) {
			return true
		}
		*path = (*path)[:len(*path)-1]
	}
	return false
}

// cycleEdge назначает знак и предел theta. Входящее ребро эквивалентно
// сонаправленному: при увеличении поток по нему растёт до остатка
// пропускной способности, при уменьшении убывает до нуля.
func (f *TreeCycleFinder) cycleEdge(edge *domain.Edge, forward bool, direction domain.Direction, flows domain.FlowMap) domain.CycleEdge {
	flow := flows[edge.Key()]

	var sign domain.Sign
	var limit float64
	if direction == domain.DirectionIncrease {
		if forward {
			sign, limit = domain.SignForward, edge.Capacity-flow
		} else {
			sign, limit = domain.SignBackward, flow
		}
	} else {
		if forward {
			sign, limit = domain.SignBackward, flow
		} else {
			sign, limit = domain.SignForward, edge.Capacity-flow
		}
	}
	return domain.CycleEdge{Edge: edge, Sign: sign, ThetaLimit: limit}
}
