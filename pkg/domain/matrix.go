package domain

import (
	"fmt"
	"math"

	"transport/pkg/apperror"
)

// FromMatrix строит транспортную сеть из табличной постановки задачи:
// матрица стоимостей costs[i][j] задаёт удельную стоимость перевозки от
// поставщика i к потребителю j. Поставщики получают имена A1..An,
// потребители — B1..Bm. capacities может быть nil, тогда все рёбра
// без ограничений.
func FromMatrix(costs [][]float64, supplies, demands []float64, capacities [][]float64) (*Graph, error) {
	n, m := len(supplies), len(demands)
	if n == 0 || m == 0 {
		return nil, apperror.New(apperror.CodeEmptyGraph, "supplies and demands must be non-empty")
	}
	if len(costs) != n {
		return nil, apperror.Newf(apperror.CodeInvalidArgument,
			"cost matrix has %d rows, expected %d", len(costs), n).WithField("costs")
	}
	for i, row := range costs {
		if len(row) != m {
			return nil, apperror.Newf(apperror.CodeInvalidArgument,
				"cost matrix row %d has %d columns, expected %d", i, len(row), m).WithField("costs")
		}
	}
	if capacities != nil {
		if len(capacities) != n {
			return nil, apperror.Newf(apperror.CodeInvalidArgument,
				"capacity matrix has %d rows, expected %d", len(capacities), n).WithField("capacities")
		}
		for i, row := range capacities {
			if len(row) != m {
				return nil, apperror.Newf(apperror.CodeInvalidArgument,
					"capacity matrix row %d has %d columns, expected %d", i, len(row), m).WithField("capacities")
			}
		}
	}

	var totalSupply, totalDemand float64
	for _, s := range supplies {
		totalSupply += s
	}
	for _, d := range demands {
		totalDemand += d
	}
	if !FloatEquals(totalSupply, totalDemand) {
		return nil, apperror.Newf(apperror.CodeUnbalanced,
			"total supply %g does not match total demand %g", totalSupply, totalDemand)
	}

	g := NewGraph()
	for i, s := range supplies {
		if err := g.AddNode(NewNode(ID(fmt.Sprintf("A%d", i+1)), s)); err != nil {
			return nil, err
		}
	}
	for j, d := range demands {
		if err := g.AddNode(NewNode(ID(fmt.Sprintf("B%d", j+1)), -d)); err != nil {
			return nil, err
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			capacity := math.Inf(1)
			if capacities != nil {
				capacity = capacities[i][j]
			}
			edge := NewEdgeWithCapacity(ID(fmt.Sprintf("A%d", i+1)), ID(fmt.Sprintf("B%d", j+1)), costs[i][j], capacity)
			if err := g.AddEdge(edge); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}
