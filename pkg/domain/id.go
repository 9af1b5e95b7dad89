package domain

// NodeID идентификатор узла транспортной сети. Обычные узлы создаются
// через ID, искусственный корень первой фазы — через Root. Корень помечен
// отдельным флагом и не может совпасть ни с каким пользовательским
// идентификатором, какое бы имя тот ни носил.
type NodeID struct {
	name string
	root bool
}

// ID создаёт идентификатор пользовательского узла
func ID(name string) NodeID {
	return NodeID{name: name}
}

// Root возвращает идентификатор искусственного корневого узла
func Root() NodeID {
	return NodeID{root: true}
}

// IsRoot сообщает, является ли идентификатор искусственным корнем
func (id NodeID) IsRoot() bool {
	return id.root
}

// Name возвращает имя пользовательского узла (пустое для корня)
func (id NodeID) Name() string {
	return id.name
}

// String возвращает строковое представление идентификатора
func (id NodeID) String() string {
	if id.root {
		return "<root>"
	}
	return id.name
}

// Less задаёт полный порядок: пользовательские узлы раньше корня,
// между собой — лексикографически по имени
func (id NodeID) Less(other NodeID) bool {
	if id.root != other.root {
		return !id.root
	}
	return id.name < other.name
}
