package domain

import (
	"math"
	"sort"

	"transport/pkg/apperror"
)

// Graph представляет транспортную сеть: узлы с балансами и направленные
// рёбра со стоимостями. Граф строится один раз и не изменяется в процессе
// решения; решатель хранит потоки и потенциалы отдельно.
type Graph struct {
	nodes map[NodeID]*Node
	edges map[EdgeKey]*Edge
}

// NewGraph создаёт новый пустой граф
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[NodeID]*Node),
		edges: make(map[EdgeKey]*Edge),
	}
}

// AddNode добавляет узел в граф. Повторное добавление узла с тем же
// идентификатором — ошибка DUPLICATE_NODE.
func (g *Graph) AddNode(node *Node) error {
	if node == nil {
		return apperror.New(apperror.CodeNilInput, "node is nil")
	}
	if _, ok := g.nodes[node.ID]; ok {
		return apperror.Newf(apperror.CodeDuplicateNode, "node %q already exists", node.ID)
	}
	g.nodes[node.ID] = node
	return nil
}

// AddEdge добавляет ребро в граф. Оба конца должны существовать, ребро с
// тем же ключом не должно быть добавлено раньше, пропускная способность
// не может быть отрицательной.
func (g *Graph) AddEdge(edge *Edge) error {
	if edge == nil {
		return apperror.New(apperror.CodeNilInput, "edge is nil")
	}
	if _, ok := g.nodes[edge.From]; !ok {
		return apperror.Newf(apperror.CodeUnknownNode, "node %q not found", edge.From).WithField("from")
	}
	if _, ok := g.nodes[edge.To]; !ok {
		return apperror.Newf(apperror.CodeUnknownNode, "node %q not found", edge.To).WithField("to")
	}
	key := edge.Key()
	if _, ok := g.edges[key]; ok {
		return apperror.Newf(apperror.CodeDuplicateEdge, "edge %s already exists", key)
	}
	if edge.Capacity < 0 {
		return apperror.Newf(apperror.CodeNegativeCapacity, "edge %s has negative capacity %g", key, edge.Capacity).WithField("capacity")
	}
	g.edges[key] = edge
	return nil
}

// GetNode возвращает узел по идентификатору
func (g *Graph) GetNode(id NodeID) (*Node, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

// GetEdge возвращает ребро по паре узлов
func (g *Graph) GetEdge(from, to NodeID) (*Edge, bool) {
	edge, ok := g.edges[EdgeKey{From: from, To: to}]
	return edge, ok
}

// NodeCount возвращает количество узлов
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount возвращает количество рёбер
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// NodeIDs возвращает идентификаторы узлов в детерминированном порядке
func (g *Graph) NodeIDs() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Nodes возвращает узлы, отсортированные по идентификатору
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, node := range g.nodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID.Less(nodes[j].ID) })
	return nodes
}

// Edges возвращает рёбра в лексикографическом порядке ключей
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(g.edges))
	for _, edge := range g.edges {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].Key().Less(edges[j].Key()) })
	return edges
}

// OutgoingEdges возвращает исходящие рёбра узла в порядке ключей
func (g *Graph) OutgoingEdges(id NodeID) []*Edge {
	var result []*Edge
	for _, edge := range g.Edges() {
		if edge.From == id {
			result = append(result, edge)
		}
	}
	return result
}

// IncomingEdges возвращает входящие рёбра узла в порядке ключей
func (g *Graph) IncomingEdges(id NodeID) []*Edge {
	var result []*Edge
	for _, edge := range g.Edges() {
		if edge.To == id {
			result = append(result, edge)
		}
	}
	return result
}

// AdjacentEdges возвращает все рёбра, инцидентные узлу
func (g *Graph) AdjacentEdges(id NodeID) []*Edge {
	var result []*Edge
	for _, edge := range g.Edges() {
		if edge.From == id || edge.To == id {
			result = append(result, edge)
		}
	}
	return result
}

// TotalImbalance возвращает суммарный баланс всех узлов
func (g *Graph) TotalImbalance() float64 {
	var total float64
	for _, node := range g.nodes {
		total += node.Balance
	}
	return total
}

// CheckBalanceFeasibility проверяет, что суммарный баланс равен нулю.
// Без этого условия допустимого решения не существует.
func (g *Graph) CheckBalanceFeasibility() bool {
	return math.Abs(g.TotalImbalance()) < Epsilon
}
