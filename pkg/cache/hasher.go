package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"transport/pkg/domain"
)

// GraphHash вычисляет хеш графа для использования как ключ кэша.
// Два графа с одинаковыми узлами, балансами и рёбрами дают один хеш
// независимо от порядка добавления.
func GraphHash(graph *domain.Graph) string {
	if graph == nil {
		return ""
	}

	data := graphToCanonical(graph)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:16])
}

// graphToCanonical создаёт детерминированное представление графа.
// Узлы и рёбра берутся в отсортированном порядке.
func graphToCanonical(graph *domain.Graph) []byte {
	var result []byte

	for _, node := range graph.Nodes() {
		result = append(result, []byte(fmt.Sprintf("n:%s:%.6f;", node.ID, node.Balance))...)
	}

	for _, edge := range graph.Edges() {
		result = append(result, []byte(fmt.Sprintf("e:%s:%s:%.6f:%.6f;",
			edge.From, edge.To, edge.Cost, edge.Capacity))...)
	}

	return result
}

// BuildSolveKey строит ключ кэша для результата решения
func BuildSolveKey(graphHash string) string {
	return fmt.Sprintf("solve:simplex:%s", graphHash)
}

// QuickHash быстрый хеш для произвольных данных
func QuickHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// ShortHash короткий хеш (16 символов)
func ShortHash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
