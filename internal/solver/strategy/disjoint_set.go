package strategy

import "transport/pkg/domain"

// DisjointSet система непересекающихся множеств со сжатием путей.
// Используется для достройки остовного дерева без образования циклов.
type DisjointSet struct {
	parent map[domain.NodeID]domain.NodeID
}

// NewDisjointSet создаёт структуру, где каждый элемент сам себе корень
func NewDisjointSet(elements []domain.NodeID) *DisjointSet {
	parent := make(map[domain.NodeID]domain.NodeID, len(elements))
	for _, e := range elements {
		parent[e] = e
	}
	return &DisjointSet{parent: parent}
}

// Find возвращает представителя множества со сжатием пути
func (d *DisjointSet) Find(x domain.NodeID) domain.NodeID {
	if d.parent[x] != x {
		d.parent[x] = d.Find(d.parent[x])
	}
	return d.parent[x]
}

// Union объединяет множества. Возвращает false, если элементы уже
// в одном множестве (добавление ребра образовало бы цикл).
func (d *DisjointSet) Union(x, y domain.NodeID) bool {
	rootX := d.Find(x)
	rootY := d.Find(y)
	if rootX == rootY {
		return false
	}
	d.parent[rootX] = rootY
	return true
}
