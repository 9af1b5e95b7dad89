package domain

// FlowMap потоки по рёбрам
type FlowMap map[EdgeKey]float64

// Clone возвращает независимую копию карты потоков
func (m FlowMap) Clone() FlowMap {
	clone := make(FlowMap, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// PotentialMap потенциалы узлов
type PotentialMap map[NodeID]float64

// Clone возвращает независимую копию карты потенциалов
func (m PotentialMap) Clone() PotentialMap {
	clone := make(PotentialMap, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// DeltaMap оценки (приведённые стоимости) небазисных рёбер
type DeltaMap map[EdgeKey]float64

// Clone возвращает независимую копию карты оценок
func (m DeltaMap) Clone() DeltaMap {
	clone := make(DeltaMap, len(m))
	for k, v := range m {
		clone[k] = v
	}
	return clone
}

// EdgeSet множество ключей рёбер
type EdgeSet map[EdgeKey]struct{}

// NewEdgeSet строит множество из перечисленных ключей
func NewEdgeSet(keys ...EdgeKey) EdgeSet {
	set := make(EdgeSet, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

// Add добавляет ключ в множество
func (s EdgeSet) Add(k EdgeKey) {
	s[k] = struct{}{}
}

// Remove удаляет ключ из множества
func (s EdgeSet) Remove(k EdgeKey) {
	delete(s, k)
}

// Contains проверяет принадлежность ключа множеству
func (s EdgeSet) Contains(k EdgeKey) bool {
	_, ok := s[k]
	return ok
}

// Clone возвращает независимую копию множества
func (s EdgeSet) Clone() EdgeSet {
	clone := make(EdgeSet, len(s))
	for k := range s {
		clone[k] = struct{}{}
	}
	return clone
}
