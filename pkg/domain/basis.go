package domain

// BasisResult результат построения начального базиса: остовное дерево
// из |V|-1 рёбер, остальные рёбра и допустимые стартовые потоки.
type BasisResult struct {
	Basis    EdgeSet
	NonBasis EdgeSet
	Flows    FlowMap
}

// Direction направление улучшения для входящего ребра
type Direction string

const (
	// DirectionIncrease поток по входящему ребру выгодно увеличить
	DirectionIncrease Direction = "increase"
	// DirectionDecrease поток по насыщенному ребру выгодно уменьшить
	DirectionDecrease Direction = "decrease"
)

// Sign ориентация ребра относительно направления обхода цикла
type Sign int

const (
	// SignForward ребро сонаправлено циклу: поток по нему растёт
	SignForward Sign = 1
	// SignBackward ребро противонаправлено: поток по нему убывает
	SignBackward Sign = -1
)

// CycleEdge ребро цикла с ориентацией и пределом изменения потока
type CycleEdge struct {
	Edge *Edge
	Sign Sign
	// ThetaLimit максимально допустимое theta для этого ребра:
	// остаток пропускной способности для сонаправленных, текущий
	// поток для противонаправленных
	ThetaLimit float64
}
