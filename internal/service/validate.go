package service

import (
	"fmt"

	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// ValidateGraph проверяет граф перед решением. Ошибки: пустой граф,
// дисбаланс, несвязность. Предупреждения: изолированные узлы, источники
// без исходящих рёбер, стоки без входящих.
func ValidateGraph(g *domain.Graph) *apperror.ValidationErrors {
	result := apperror.NewValidationErrors()

	if g == nil || g.NodeCount() == 0 {
		result.AddError(apperror.CodeEmptyGraph, "graph has no nodes")
		return result
	}

	if !g.CheckBalanceFeasibility() {
		result.AddError(apperror.CodeUnbalanced,
			fmt.Sprintf("total supply and demand differ by %g", g.TotalImbalance()))
	}

	for _, node := range g.Nodes() {
		adjacent := g.AdjacentEdges(node.ID)
		if len(adjacent) == 0 {
			if node.Type() == domain.NodeTypeTransit {
				result.AddWarning(apperror.CodeInvalidGraph,
					fmt.Sprintf("transit node %q is isolated", node.ID))
			} else {
				result.AddErrorWithField(apperror.CodeDisconnected,
					fmt.Sprintf("node %q with non-zero balance has no edges", node.ID), node.ID.String())
			}
			continue
		}
		if node.Type() == domain.NodeTypeSource && len(g.OutgoingEdges(node.ID)) == 0 {
			result.AddWarning(apperror.CodeInvalidGraph,
				fmt.Sprintf("source node %q has no outgoing edges", node.ID))
		}
		if node.Type() == domain.NodeTypeSink && len(g.IncomingEdges(node.ID)) == 0 {
			result.AddWarning(apperror.CodeInvalidGraph,
				fmt.Sprintf("sink node %q has no incoming edges", node.ID))
		}
	}

	if g.EdgeCount() > 0 && !isConnected(g) {
		result.AddError(apperror.CodeDisconnected, "graph is not connected")
	}

	return result
}

// isConnected проверяет связность графа в неориентированном смысле
// обходом в ширину от наименьшего узла
func isConnected(g *domain.Graph) bool {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return true
	}

	visited := make(map[domain.NodeID]bool, len(ids))
	queue := []domain.NodeID{ids[0]}
	visited[ids[0]] = true

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, edge := range g.AdjacentEdges(current) {
			next := edge.To
			if next == current {
				next = edge.From
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return len(visited) == len(ids)
}
