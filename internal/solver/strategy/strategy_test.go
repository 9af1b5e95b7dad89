package strategy_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transport/internal/solver"
	"transport/internal/solver/strategy"
	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// buildGraph собирает граф из балансов и рёбер, падая при ошибке
func buildGraph(t *testing.T, balances map[string]float64, edges []*domain.Edge) *domain.Graph {
	t.Helper()
	g := domain.NewGraph()
	for _, id := range sortedKeys(balances) {
		require.NoError(t, g.AddNode(domain.NewNode(domain.ID(id), balances[id])))
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e))
	}
	return g
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			if keys[j] < keys[i] {
				keys[i], keys[j] = keys[j], keys[i]
			}
		}
	}
	return keys
}

func key(from, to string) domain.EdgeKey {
	return domain.EdgeKey{From: domain.ID(from), To: domain.ID(to)}
}

// testRunner решает вспомогательную задачу настоящим решателем
func testRunner() strategy.RunnerFactory {
	return func(aux *domain.Graph, init strategy.Initializer) (domain.EdgeSet, domain.FlowMap, error) {
		nested := solver.New(aux, solver.WithInitializer(init))
		if _, err := nested.SolveStepByStep(); err != nil {
			return nil, nil, err
		}
		final := nested.CurrentState()
		return final.Basis, final.Flows, nil
	}
}

func TestDisjointSet(t *testing.T) {
	elements := []domain.NodeID{domain.ID("a"), domain.ID("b"), domain.ID("c")}
	dsu := strategy.NewDisjointSet(elements)

	assert.True(t, dsu.Union(domain.ID("a"), domain.ID("b")))
	assert.True(t, dsu.Union(domain.ID("b"), domain.ID("c")))
	// Замыкание цикла отклоняется
	assert.False(t, dsu.Union(domain.ID("a"), domain.ID("c")))
	assert.Equal(t, dsu.Find(domain.ID("a")), dsu.Find(domain.ID("c")))
}

func TestPrebuilt(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 5, "b": -5},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("a"), domain.ID("b"), 1),
			domain.NewEdge(domain.ID("b"), domain.ID("a"), 2),
		},
	)

	init := strategy.NewPrebuilt(
		domain.NewEdgeSet(key("a", "b")),
		domain.FlowMap{key("a", "b"): 5, key("b", "a"): 0},
	)
	result, err := init.Execute(g)
	require.NoError(t, err)

	assert.True(t, result.Basis.Contains(key("a", "b")))
	assert.True(t, result.NonBasis.Contains(key("b", "a")))
	assert.Len(t, result.NonBasis, 1)
	assert.Equal(t, 5.0, result.Flows[key("a", "b")])
}

func TestPhaseOne_SimpleBalanced(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"A1": 10, "B1": -10},
		[]*domain.Edge{domain.NewEdge(domain.ID("A1"), domain.ID("B1"), 3)},
	)

	init := strategy.NewPhaseOne(testRunner())
	result, err := init.Execute(g)
	require.NoError(t, err)

	// Остовное дерево из |V|-1 рёбер
	assert.Len(t, result.Basis, 1)
	assert.True(t, result.Basis.Contains(key("A1", "B1")))
	assert.Equal(t, 10.0, result.Flows[key("A1", "B1")])
	assert.Empty(t, result.NonBasis)
}

func TestPhaseOne_Unbalanced(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"A1": 10, "B1": -8},
		[]*domain.Edge{domain.NewEdge(domain.ID("A1"), domain.ID("B1"), 3)},
	)

	init := strategy.NewPhaseOne(testRunner())
	_, err := init.Execute(g)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeUnbalanced))
}

func TestPhaseOne_Disconnected(t *testing.T) {
	// Две сбалансированные компоненты без рёбер между ними
	g := buildGraph(t,
		map[string]float64{"A1": 5, "B1": -5, "A2": 3, "B2": -3},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("A1"), domain.ID("B1"), 1),
			domain.NewEdge(domain.ID("A2"), domain.ID("B2"), 1),
		},
	)

	init := strategy.NewPhaseOne(testRunner())
	_, err := init.Execute(g)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeDisconnected))
}

func TestPhaseOne_Infeasible(t *testing.T) {
	// Пропускной способности не хватает для покрытия спроса
	g := buildGraph(t,
		map[string]float64{"A1": 10, "B1": -10},
		[]*domain.Edge{domain.NewEdgeWithCapacity(domain.ID("A1"), domain.ID("B1"), 3, 4)},
	)

	init := strategy.NewPhaseOne(testRunner())
	_, err := init.Execute(g)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInfeasible))
}

func TestPhaseOne_TransitNode(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"A1": 7, "T": 0, "B1": -7},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("A1"), domain.ID("T"), 1),
			domain.NewEdge(domain.ID("T"), domain.ID("B1"), 1),
		},
	)

	init := strategy.NewPhaseOne(testRunner())
	result, err := init.Execute(g)
	require.NoError(t, err)

	assert.Len(t, result.Basis, 2)
	assert.Equal(t, 7.0, result.Flows[key("A1", "T")])
	assert.Equal(t, 7.0, result.Flows[key("T", "B1")])
}

func TestPotentialCalculator(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 5, "b": 0, "c": -5},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("a"), domain.ID("b"), 2),
			domain.NewEdge(domain.ID("c"), domain.ID("b"), 5),
		},
	)
	basis := domain.NewEdgeSet(key("a", "b"), key("c", "b"))

	potentials, err := strategy.NewPotentialCalculator().Execute(g, basis)
	require.NoError(t, err)

	// Якорь — наименьший идентификатор
	assert.Equal(t, 0.0, potentials[domain.ID("a")])
	// Прямое ребро: u[b] = u[a] + cost
	assert.Equal(t, 2.0, potentials[domain.ID("b")])
	// Обратный обход: u[c] = u[b] - cost
	assert.Equal(t, -3.0, potentials[domain.ID("c")])
}

func TestPotentialCalculator_BrokenBasis(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 5, "b": 0, "c": -5},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("a"), domain.ID("b"), 2),
			domain.NewEdge(domain.ID("b"), domain.ID("c"), 1),
		},
	)
	// Базис не покрывает узел c
	basis := domain.NewEdgeSet(key("a", "b"))

	_, err := strategy.NewPotentialCalculator().Execute(g, basis)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeBrokenBasis))
}

func TestOptimalityChecker(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 10, "b": -5, "c": -5},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("a"), domain.ID("b"), 1),
			domain.NewEdge(domain.ID("a"), domain.ID("c"), 1),
			domain.NewEdge(domain.ID("b"), domain.ID("c"), 1),
		},
	)
	nonBasis := domain.NewEdgeSet(key("b", "c"))
	potentials := domain.PotentialMap{
		domain.ID("a"): 0,
		domain.ID("b"): 1,
		domain.ID("c"): 6,
	}
	flows := domain.FlowMap{key("a", "b"): 5, key("a", "c"): 5, key("b", "c"): 0}

	result, err := strategy.NewOptimalityChecker().Execute(g, nonBasis, potentials, flows)
	require.NoError(t, err)

	// delta = u[c] - u[b] - cost = 6 - 1 - 1 = 4 > 0 при пустом ребре
	assert.False(t, result.Optimal)
	require.NotNil(t, result.Entering)
	assert.Equal(t, key("b", "c"), *result.Entering)
	assert.Equal(t, domain.DirectionIncrease, result.Direction)
	assert.InDelta(t, 4.0, result.Deltas[key("b", "c")], 1e-9)
	assert.InDelta(t, 4.0, result.Score, 1e-9)
}

func TestOptimalityChecker_Optimal(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 5, "b": -5},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("a"), domain.ID("b"), 1),
			domain.NewEdge(domain.ID("b"), domain.ID("a"), 1),
		},
	)
	nonBasis := domain.NewEdgeSet(key("b", "a"))
	potentials := domain.PotentialMap{domain.ID("a"): 0, domain.ID("b"): 1}
	flows := domain.FlowMap{key("a", "b"): 5, key("b", "a"): 0}

	result, err := strategy.NewOptimalityChecker().Execute(g, nonBasis, potentials, flows)
	require.NoError(t, err)

	// delta = u[a] - u[b] - cost = -2 < 0 при пустом ребре: нарушения нет
	assert.True(t, result.Optimal)
	assert.Nil(t, result.Entering)
}

func TestOptimalityChecker_SaturatedDecrease(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 5, "b": -5},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("a"), domain.ID("b"), 1),
			domain.NewEdgeWithCapacity(domain.ID("b"), domain.ID("a"), 10, 3),
		},
	)
	nonBasis := domain.NewEdgeSet(key("b", "a"))
	potentials := domain.PotentialMap{domain.ID("a"): 0, domain.ID("b"): 1}
	// Насыщенное ребро с отрицательной оценкой: поток выгодно уменьшить
	flows := domain.FlowMap{key("a", "b"): 8, key("b", "a"): 3}

	result, err := strategy.NewOptimalityChecker().Execute(g, nonBasis, potentials, flows)
	require.NoError(t, err)

	assert.False(t, result.Optimal)
	require.NotNil(t, result.Entering)
	assert.Equal(t, key("b", "a"), *result.Entering)
	assert.Equal(t, domain.DirectionDecrease, result.Direction)
	// score = |delta| = |0 - 1 - 10| = 11
	assert.InDelta(t, 11.0, result.Score, 1e-9)
}

func TestOptimalityChecker_LexicographicTieBreak(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 10, "b": -5, "c": -5},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("a"), domain.ID("b"), 1),
			domain.NewEdge(domain.ID("a"), domain.ID("c"), 1),
		},
	)
	nonBasis := domain.NewEdgeSet(key("a", "b"), key("a", "c"))
	// Обе оценки равны: выбирается лексикографически меньший ключ
	potentials := domain.PotentialMap{
		domain.ID("a"): 0,
		domain.ID("b"): 4,
		domain.ID("c"): 4,
	}
	flows := domain.FlowMap{key("a", "b"): 0, key("a", "c"): 0}

	result, err := strategy.NewOptimalityChecker().Execute(g, nonBasis, potentials, flows)
	require.NoError(t, err)

	require.NotNil(t, result.Entering)
	assert.Equal(t, key("a", "b"), *result.Entering)
}

func TestCycleFinder(t *testing.T) {
	// Базисное дерево a->b, b->c; входящее ребро a->c замыкает цикл
	g := buildGraph(t,
		map[string]float64{"a": 10, "b": 0, "c": -10},
		[]*domain.Edge{
			domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("b"), 1, 20),
			domain.NewEdgeWithCapacity(domain.ID("b"), domain.ID("c"), 1, 20),
			domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("c"), 5, 20),
		},
	)
	basis := domain.NewEdgeSet(key("a", "b"), key("b", "c"))
	flows := domain.FlowMap{key("a", "b"): 10, key("b", "c"): 10, key("a", "c"): 0}

	cycle, err := strategy.NewCycleFinder().Execute(g, basis, key("a", "c"), domain.DirectionIncrease, flows)
	require.NoError(t, err)
	require.Len(t, cycle, 3)

	// Входящее ребро идёт первым со знаком + и пределом capacity - flow
	assert.Equal(t, key("a", "c"), cycle[0].Edge.Key())
	assert.Equal(t, domain.SignForward, cycle[0].Sign)
	assert.Equal(t, 20.0, cycle[0].ThetaLimit)

	// Путь по дереву от c к a проходит рёбра против направления
	limits := map[domain.EdgeKey]domain.CycleEdge{}
	for _, ce := range cycle[1:] {
		limits[ce.Edge.Key()] = ce
	}
	assert.Equal(t, domain.SignBackward, limits[key("b", "c")].Sign)
	assert.Equal(t, 10.0, limits[key("b", "c")].ThetaLimit)
	assert.Equal(t, domain.SignBackward, limits[key("a", "b")].Sign)
	assert.Equal(t, 10.0, limits[key("a", "b")].ThetaLimit)
}

func TestCycleFinder_DecreaseDirection(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 10, "b": 0, "c": -10},
		[]*domain.Edge{
			domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("b"), 1, 20),
			domain.NewEdgeWithCapacity(domain.ID("b"), domain.ID("c"), 1, 20),
			domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("c"), 5, 10),
		},
	)
	basis := domain.NewEdgeSet(key("a", "b"), key("b", "c"))
	// Входящее ребро насыщено: направление decrease
	flows := domain.FlowMap{key("a", "b"): 0, key("b", "c"): 0, key("a", "c"): 10}

	cycle, err := strategy.NewCycleFinder().Execute(g, basis, key("a", "c"), domain.DirectionDecrease, flows)
	require.NoError(t, err)
	require.Len(t, cycle, 3)

	// При уменьшении входящее ребро получает знак - и предел flow
	assert.Equal(t, domain.SignBackward, cycle[0].Sign)
	assert.Equal(t, 10.0, cycle[0].ThetaLimit)

	for _, ce := range cycle[1:] {
		// Обратные рёбра пути получают знак + и предел capacity - flow
		assert.Equal(t, domain.SignForward, ce.Sign)
		assert.Equal(t, 20.0, ce.ThetaLimit)
	}
}

func TestThetaCalculator(t *testing.T) {
	edgeAB := domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("b"), 1, 20)
	edgeBC := domain.NewEdgeWithCapacity(domain.ID("b"), domain.ID("c"), 1, 20)
	edgeAC := domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("c"), 5, 20)

	cycle := []domain.CycleEdge{
		{Edge: edgeAC, Sign: domain.SignForward, ThetaLimit: 20},
		{Edge: edgeBC, Sign: domain.SignBackward, ThetaLimit: 10},
		{Edge: edgeAB, Sign: domain.SignBackward, ThetaLimit: 10},
	}
	basis := domain.NewEdgeSet(key("a", "b"), key("b", "c"))

	theta, leaving := strategy.NewThetaCalculator().Execute(cycle, basis)

	assert.Equal(t, 10.0, theta)
	require.NotNil(t, leaving)
	// Оба кандидата базисные: лексикографический порядок выбирает a->b
	assert.Equal(t, key("a", "b"), *leaving)
}

func TestThetaCalculator_PrefersBasisEdge(t *testing.T) {
	edgeAB := domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("b"), 1, 10)
	edgeBC := domain.NewEdgeWithCapacity(domain.ID("b"), domain.ID("c"), 1, 20)

	cycle := []domain.CycleEdge{
		{Edge: edgeAB, Sign: domain.SignForward, ThetaLimit: 10},
		{Edge: edgeBC, Sign: domain.SignBackward, ThetaLimit: 10},
	}
	// Только b->c в базисе: он выигрывает несмотря на больший ключ
	basis := domain.NewEdgeSet(key("b", "c"))

	theta, leaving := strategy.NewThetaCalculator().Execute(cycle, basis)

	assert.Equal(t, 10.0, theta)
	require.NotNil(t, leaving)
	assert.Equal(t, key("b", "c"), *leaving)
}

func TestThetaCalculator_Degenerate(t *testing.T) {
	edgeAB := domain.NewEdge(domain.ID("a"), domain.ID("b"), 1)
	edgeBC := domain.NewEdge(domain.ID("b"), domain.ID("c"), 1)

	// Все пределы бесконечны: полностью вырожденный пивот
	cycle := []domain.CycleEdge{
		{Edge: edgeAB, Sign: domain.SignForward, ThetaLimit: math.Inf(1)},
		{Edge: edgeBC, Sign: domain.SignForward, ThetaLimit: math.Inf(1)},
	}

	theta, leaving := strategy.NewThetaCalculator().Execute(cycle, domain.NewEdgeSet())

	assert.Equal(t, 0.0, theta)
	assert.Nil(t, leaving)
}

func TestThetaCalculator_EmptyCycle(t *testing.T) {
	theta, leaving := strategy.NewThetaCalculator().Execute(nil, domain.NewEdgeSet())
	assert.Equal(t, 0.0, theta)
	assert.Nil(t, leaving)
}

func TestFlowUpdater(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 10, "b": 0, "c": -10},
		[]*domain.Edge{
			domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("b"), 1, 20),
			domain.NewEdgeWithCapacity(domain.ID("b"), domain.ID("c"), 1, 20),
			domain.NewEdgeWithCapacity(domain.ID("a"), domain.ID("c"), 5, 20),
		},
	)
	edgeAB, _ := g.GetEdge(domain.ID("a"), domain.ID("b"))
	edgeBC, _ := g.GetEdge(domain.ID("b"), domain.ID("c"))
	edgeAC, _ := g.GetEdge(domain.ID("a"), domain.ID("c"))

	cycle := []domain.CycleEdge{
		{Edge: edgeAC, Sign: domain.SignForward, ThetaLimit: 20},
		{Edge: edgeBC, Sign: domain.SignBackward, ThetaLimit: 10},
		{Edge: edgeAB, Sign: domain.SignBackward, ThetaLimit: 10},
	}
	basis := domain.NewEdgeSet(key("a", "b"), key("b", "c"))
	flows := domain.FlowMap{key("a", "b"): 10, key("b", "c"): 10, key("a", "c"): 0}

	leaving := key("a", "b")
	newBasis, newNonBasis, newFlows := strategy.NewFlowUpdater().Execute(g, cycle, 10, key("a", "c"), &leaving, basis, flows)

	// Потоки сдвинуты на theta и прижаты к границам
	assert.Equal(t, 0.0, newFlows[key("a", "b")])
	assert.Equal(t, 0.0, newFlows[key("b", "c")])
	assert.Equal(t, 10.0, newFlows[key("a", "c")])

	// Замена базиса: a->b ушло, a->c вошло
	assert.False(t, newBasis.Contains(key("a", "b")))
	assert.True(t, newBasis.Contains(key("a", "c")))
	assert.True(t, newBasis.Contains(key("b", "c")))
	assert.True(t, newNonBasis.Contains(key("a", "b")))

	// Исходные коллекции не изменены
	assert.Equal(t, 10.0, flows[key("a", "b")])
	assert.True(t, basis.Contains(key("a", "b")))
}

func TestFlowUpdater_DegenerateSelfPivot(t *testing.T) {
	g := buildGraph(t,
		map[string]float64{"a": 5, "b": -5},
		[]*domain.Edge{
			domain.NewEdge(domain.ID("a"), domain.ID("b"), 1),
			domain.NewEdgeWithCapacity(domain.ID("b"), domain.ID("a"), 1, 0),
		},
	)
	edgeBA, _ := g.GetEdge(domain.ID("b"), domain.ID("a"))

	cycle := []domain.CycleEdge{{Edge: edgeBA, Sign: domain.SignForward, ThetaLimit: 0}}
	basis := domain.NewEdgeSet(key("a", "b"))
	flows := domain.FlowMap{key("a", "b"): 5, key("b", "a"): 0}

	entering := key("b", "a")
	newBasis, newNonBasis, newFlows := strategy.NewFlowUpdater().Execute(g, cycle, 0, entering, &entering, basis, flows)

	// Входящее равно выходящему: базис не меняется
	assert.True(t, newBasis.Contains(key("a", "b")))
	assert.False(t, newBasis.Contains(key("b", "a")))
	assert.True(t, newNonBasis.Contains(key("b", "a")))
	assert.Equal(t, 0.0, newFlows[key("b", "a")])
}
