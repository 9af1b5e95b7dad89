package strategy

import (
	"sort"

	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// SteepestEdgeChecker проверяет условия оптимальности по приведённым
// стоимостям и выбирает входящее ребро с наибольшей величиной нарушения.
// Равные нарушения упорядочиваются лексикографически по (from, to).
type SteepestEdgeChecker struct{}

// NewOptimalityChecker создаёт проверку оптимальности по умолчанию
func NewOptimalityChecker() *SteepestEdgeChecker {
	return &SteepestEdgeChecker{}
}

type violation struct {
	score     float64
	key       domain.EdgeKey
	direction domain.Direction
}

// Execute вычисляет оценки небазисных рёбер и выбирает входящее ребро.
// Нарушение: пустое ребро с delta > ε (поток выгодно увеличить) либо
// насыщенное ребро с delta < -ε (поток выгодно уменьшить).
func (c *SteepestEdgeChecker) Execute(g *domain.Graph, nonBasis domain.EdgeSet, potentials domain.PotentialMap, flows domain.FlowMap) (*OptimalityResult, error) {
	deltas := make(domain.DeltaMap, len(nonBasis))
	var violations []violation

	for _, edge := range g.Edges() {
		key := edge.Key()
		if !nonBasis.Contains(key) {
			continue
		}

		ui, ok := potentials[edge.From]
		if !ok {
			return nil, apperror.Newf(apperror.CodeBrokenBasis, "potential for node %q is undefined", edge.From)
		}
		uj, ok := potentials[edge.To]
		if !ok {
			return nil, apperror.Newf(apperror.CodeBrokenBasis, "potential for node %q is undefined", edge.To)
		}

		delta := uj - ui - edge.Cost
		deltas[key] = delta

		flow := flows[key]
		isEmpty := flow <= domain.Epsilon
		isSaturated := flow >= edge.Capacity-domain.Epsilon

		switch {
		case isEmpty && delta > domain.Epsilon:
			violations = append(violations, violation{score: delta, key: key, direction: domain.DirectionIncrease})
		case isSaturated && delta < -domain.Epsilon:
			violations = append(violations, violation{score: -delta, key: key, direction: domain.DirectionDecrease})
		}
	}

	if len(violations) == 0 {
		return &OptimalityResult{Optimal: true, Deltas: deltas}, nil
	}

	// Steepest edge: наибольшее нарушение, затем (from, to)
	sort.Slice(violations, func(i, j int) bool {
		if violations[i].score != violations[j].score {
			return violations[i].score > violations[j].score
		}
		return violations[i].key.Less(violations[j].key)
	})

	best := violations[0]
	entering := best.key
	return &OptimalityResult{
		Optimal:   false,
		Deltas:    deltas,
		Entering:  &entering,
		Direction: best.direction,
		Score:     best.score,
	}, nil
}
