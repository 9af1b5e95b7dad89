// Package converter translates between JSON transport DTOs and internal
// domain types. Graphs are accepted in two equivalent forms: an explicit
// node/edge list and a tabular cost-matrix form.
package converter

import (
	"math"

	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// NodeRequest узел в JSON-представлении
type NodeRequest struct {
	ID      string  `json:"id"`
	Balance float64 `json:"balance"`
}

// EdgeRequest ребро в JSON-представлении. Отсутствующая пропускная
// способность означает бесконечность.
type EdgeRequest struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Cost     float64  `json:"cost"`
	Capacity *float64 `json:"capacity,omitempty"`
}

// MatrixRequest табличная постановка: матрица стоимостей, запасы
// поставщиков и потребности потребителей
type MatrixRequest struct {
	Costs      [][]float64 `json:"costs"`
	Supplies   []float64   `json:"supplies"`
	Demands    []float64   `json:"demands"`
	Capacities [][]float64 `json:"capacities,omitempty"`
}

// GraphRequest граф задачи в одной из двух форм. Формы взаимоисключающие.
type GraphRequest struct {
	Nodes  []NodeRequest  `json:"nodes,omitempty"`
	Edges  []EdgeRequest  `json:"edges,omitempty"`
	Matrix *MatrixRequest `json:"matrix,omitempty"`
}

// ToGraph строит доменный граф из запроса. Ошибки построения (дубликаты,
// неизвестные узлы, отрицательные пропускные способности, дисбаланс
// матрицы) возвращаются как есть.
func ToGraph(req *GraphRequest) (*domain.Graph, error) {
	if req == nil {
		return nil, apperror.New(apperror.CodeNilInput, "request is nil")
	}

	hasList := len(req.Nodes) > 0 || len(req.Edges) > 0
	if req.Matrix != nil && hasList {
		return nil, apperror.New(apperror.CodeInvalidArgument,
			"graph must be given either as nodes/edges or as a matrix, not both")
	}

	if req.Matrix != nil {
		return domain.FromMatrix(req.Matrix.Costs, req.Matrix.Supplies, req.Matrix.Demands, req.Matrix.Capacities)
	}

	if len(req.Nodes) == 0 {
		return nil, apperror.New(apperror.CodeEmptyGraph, "graph has no nodes")
	}

	g := domain.NewGraph()
	for _, n := range req.Nodes {
		if n.ID == "" {
			return nil, apperror.New(apperror.CodeInvalidArgument, "node id must not be empty").WithField("id")
		}
		if err := g.AddNode(domain.NewNode(domain.ID(n.ID), n.Balance)); err != nil {
			return nil, err
		}
	}
	for _, e := range req.Edges {
		capacity := math.Inf(1)
		if e.Capacity != nil {
			capacity = *e.Capacity
		}
		edge := domain.NewEdgeWithCapacity(domain.ID(e.From), domain.ID(e.To), e.Cost, capacity)
		if err := g.AddEdge(edge); err != nil {
			return nil, err
		}
	}
	return g, nil
}
