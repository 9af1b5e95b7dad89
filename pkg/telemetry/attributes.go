package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Стандартные ключи атрибутов
const (
	// Граф
	AttrGraphNodes = "graph.nodes"
	AttrGraphEdges = "graph.edges"
	AttrGraphHash  = "graph.hash"

	// Решение
	AttrSolveIterations = "solve.iterations"
	AttrSolveObjective  = "solve.objective"
	AttrSolveSteps      = "solve.steps"
	AttrSolveStatus     = "solve.status"
	AttrSolveCached     = "solve.cached"

	// Валидация
	AttrValidationErrors   = "validation.errors"
	AttrValidationWarnings = "validation.warnings"
	AttrValidationPassed   = "validation.passed"
)

// GraphAttributes возвращает атрибуты графа
func GraphAttributes(nodes, edges int, hash string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrGraphNodes, nodes),
		attribute.Int(AttrGraphEdges, edges),
		attribute.String(AttrGraphHash, hash),
	}
}

// SolveAttributes возвращает атрибуты решения
func SolveAttributes(iterations, steps int, objective float64, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrSolveIterations, iterations),
		attribute.Int(AttrSolveSteps, steps),
		attribute.Float64(AttrSolveObjective, objective),
		attribute.String(AttrSolveStatus, status),
	}
}

// ValidationAttributes возвращает атрибуты валидации
func ValidationAttributes(errorsCount, warningsCount int, passed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(AttrValidationErrors, errorsCount),
		attribute.Int(AttrValidationWarnings, warningsCount),
		attribute.Bool(AttrValidationPassed, passed),
	}
}
