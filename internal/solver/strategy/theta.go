package strategy

import (
	"math"
	"sort"

	"transport/pkg/domain"
)

// MinLimitThetaCalculator выбирает величину сдвига потока как минимум
// пределов по циклу и определяет выходящее ребро среди ограничивающих.
type MinLimitThetaCalculator struct{}

// NewThetaCalculator создаёт вычислитель theta по умолчанию
func NewThetaCalculator() *MinLimitThetaCalculator {
	return &MinLimitThetaCalculator{}
}

// Execute возвращает theta и выходящее ребро. Если ни одно ребро не
// ограничивает сдвиг (все пределы бесконечны), пивот вырожденный:
// theta = 0, выходящего ребра нет.
func (c *MinLimitThetaCalculator) Execute(cycle []domain.CycleEdge, basis domain.EdgeSet) (float64, *domain.EdgeKey) {
	if len(cycle) == 0 {
		return 0, nil
	}

	theta := math.Inf(1)
	for _, ce := range cycle {
		if ce.ThetaLimit < theta {
			theta = ce.ThetaLimit
		}
	}
	if math.IsInf(theta, 1) {
		theta = 0
	}

	var candidates []domain.CycleEdge
	for _, ce := range cycle {
		if math.Abs(ce.ThetaLimit-theta) < domain.Epsilon {
			candidates = append(candidates, ce)
		}
	}
	if len(candidates) == 0 {
		return theta, nil
	}

	// Предпочитаем базисные рёбра, затем (from, to)
	sort.Slice(candidates, func(i, j int) bool {
		inBasisI := basis.Contains(candidates[i].Edge.Key())
		inBasisJ := basis.Contains(candidates[j].Edge.Key())
		if inBasisI != inBasisJ {
			return inBasisI
		}
		return candidates[i].Edge.Key().Less(candidates[j].Edge.Key())
	})

	leaving := candidates[0].Edge.Key()
	return theta, &leaving
}
