// Package controller separates "compute the next transition" from "replay an
// already-computed one". It keeps an append-only history of solver snapshots
// and a navigation cursor, so consumers (loggers, visualizers, the HTTP
// surface) can walk the pivot history back and forth without recomputation.
package controller

import (
	"transport/internal/solver"
	"transport/pkg/domain"
)

// SolverFactory собирает новый решатель над графом. Используется при
// создании контроллера и при сбросе.
type SolverFactory func(g *domain.Graph) *solver.TransportSolver

// SolverController управляет пошаговым решением: хранит историю снимков
// и курсор навигации. Курсор -1 означает "решение не начато".
type SolverController struct {
	graph   *domain.Graph
	factory SolverFactory
	solver  *solver.TransportSolver
	states  []*solver.SolutionState
	cursor  int
}

// New создаёт контроллер. Нулевая фабрика заменяется конструктором
// решателя по умолчанию.
func New(g *domain.Graph, factory SolverFactory) *SolverController {
	if factory == nil {
		factory = func(g *domain.Graph) *solver.TransportSolver {
			return solver.New(g)
		}
	}
	return &SolverController{
		graph:   g,
		factory: factory,
		solver:  factory(g),
		cursor:  -1,
	}
}

// IsStarted сообщает, был ли выполнен хотя бы один шаг навигации
func (c *SolverController) IsStarted() bool {
	return c.cursor >= 0
}

// IsSolved сообщает, достигнут ли оптимум (последняя запись истории)
func (c *SolverController) IsSolved() bool {
	if len(c.states) == 0 {
		return false
	}
	return c.states[len(c.states)-1].Type == solver.StepOptimal
}

// CanGoNext сообщает, возможен ли шаг вперёд: либо курсор позади конца
// истории, либо решение ещё не достигло оптимума
func (c *SolverController) CanGoNext() bool {
	if c.cursor < len(c.states)-1 {
		return true
	}
	return !c.IsSolved()
}

// CanGoPrev сообщает, возможен ли шаг назад
func (c *SolverController) CanGoPrev() bool {
	return c.cursor >= 0
}

// CurrentState возвращает снимок под курсором. До первого шага
// возвращается сентинельный снимок INITIAL_STATE.
func (c *SolverController) CurrentState() *solver.SolutionState {
	if c.cursor >= 0 && c.cursor < len(c.states) {
		return c.states[c.cursor]
	}
	return solver.NewInitialState()
}

// StepCount возвращает число вычисленных снимков
func (c *SolverController) StepCount() int {
	return len(c.states)
}

// NextStep выполняет шаг вперёд. Если курсор на конце истории и оптимум
// не достигнут, вычисляется новый переход; иначе курсор просто двигается
// по уже вычисленной истории. Ошибки решателя передаются без изменений.
func (c *SolverController) NextStep() error {
	if !c.CanGoNext() {
		return nil
	}

	if c.cursor >= len(c.states)-1 {
		if err := c.solver.Step(); err != nil {
			return err
		}
		c.states = append(c.states, c.solver.CurrentState())
		c.cursor = len(c.states) - 1
		return nil
	}

	c.cursor++
	return nil
}

// PrevStep двигает курсор назад, не ниже -1. Чистая навигация, никаких
// перевычислений.
func (c *SolverController) PrevStep() {
	if c.CanGoPrev() {
		c.cursor--
	}
}

// SolveAll выполняет шаги до оптимума или до невозможности прогресса
func (c *SolverController) SolveAll() error {
	for c.CanGoNext() {
		if err := c.NextStep(); err != nil {
			return err
		}
		if c.IsSolved() {
			break
		}
	}
	return nil
}

// Reset очищает историю и пересоздаёт решатель через фабрику
func (c *SolverController) Reset() {
	c.states = nil
	c.cursor = -1
	c.solver = c.factory(c.graph)
}
