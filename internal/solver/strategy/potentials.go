package strategy

import (
	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// BFSPotentialCalculator вычисляет потенциалы обходом базисного дерева
// в ширину. Якорный узел — наименьший идентификатор, его потенциал 0.
// Для базисного ребра (i, j): u[j] = u[i] + cost(i, j).
type BFSPotentialCalculator struct{}

// NewPotentialCalculator создаёт вычислитель потенциалов по умолчанию
func NewPotentialCalculator() *BFSPotentialCalculator {
	return &BFSPotentialCalculator{}
}

// Execute возвращает потенциалы всех узлов графа. Базис обязан быть
// остовным деревом; неполное покрытие узлов — нарушение внутреннего
// инварианта решателя, а не ошибка пользователя.
func (c *BFSPotentialCalculator) Execute(g *domain.Graph, basis domain.EdgeSet) (domain.PotentialMap, error) {
	ids := g.NodeIDs()
	if len(ids) == 0 {
		return domain.PotentialMap{}, nil
	}

	// Списки смежности базисного дерева
	type arc struct {
		neighbor domain.NodeID
		cost     float64
		forward  bool
	}
	adjacency := make(map[domain.NodeID][]arc, len(ids))
	for _, edge := range g.Edges() {
		if !basis.Contains(edge.Key()) {
			continue
		}
		adjacency[edge.From] = append(adjacency[edge.From], arc{neighbor: edge.To, cost: edge.Cost, forward: true})
		adjacency[edge.To] = append(adjacency[edge.To], arc{neighbor: edge.From, cost: edge.Cost, forward: false})
	}

	anchor := ids[0]
	potentials := domain.PotentialMap{anchor: 0}
	queue := []domain.NodeID{anchor}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		base := potentials[current]

		for _, a := range adjacency[current] {
			if _, seen := potentials[a.neighbor]; seen {
				continue
			}
			if a.forward {
				potentials[a.neighbor] = base + a.cost
			} else {
				potentials[a.neighbor] = base - a.cost
			}
			queue = append(queue, a.neighbor)
		}
	}

	if len(potentials) != len(ids) {
		return nil, apperror.Newf(apperror.CodeBrokenBasis,
			"basis tree spans %d of %d nodes", len(potentials), len(ids))
	}
	return potentials, nil
}
