package domain

import (
	"fmt"
	"math"
)

// EdgeKey уникальный ключ направленного ребра
type EdgeKey struct {
	From NodeID
	To   NodeID
}

// String возвращает строковое представление ключа ребра
func (k EdgeKey) String() string {
	return fmt.Sprintf("%s->%s", k.From, k.To)
}

// Less задаёт лексикографический порядок ключей (from, to)
func (k EdgeKey) Less(other EdgeKey) bool {
	if k.From != other.From {
		return k.From.Less(other.From)
	}
	return k.To.Less(other.To)
}

// Edge представляет направленное ребро с удельной стоимостью и верхней
// границей потока. Пропускная способность по умолчанию бесконечна.
type Edge struct {
	From     NodeID
	To       NodeID
	Cost     float64
	Capacity float64
}

// NewEdge создаёт ребро с бесконечной пропускной способностью
func NewEdge(from, to NodeID, cost float64) *Edge {
	return &Edge{From: from, To: to, Cost: cost, Capacity: math.Inf(1)}
}

// NewEdgeWithCapacity создаёт ребро с ограниченной пропускной способностью
func NewEdgeWithCapacity(from, to NodeID, cost, capacity float64) *Edge {
	return &Edge{From: from, To: to, Cost: cost, Capacity: capacity}
}

// Key возвращает ключ ребра
func (e *Edge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// HasCapacityLimit сообщает, ограничена ли пропускная способность
func (e *Edge) HasCapacityLimit() bool {
	return !math.IsInf(e.Capacity, 1)
}

// String возвращает строковое представление ребра
func (e *Edge) String() string {
	if e.HasCapacityLimit() {
		return fmt.Sprintf("%s->%s (cost=%g, cap=%g)", e.From, e.To, e.Cost, e.Capacity)
	}
	return fmt.Sprintf("%s->%s (cost=%g)", e.From, e.To, e.Cost)
}
