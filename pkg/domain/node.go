package domain

// NodeType тип узла, производный от знака баланса
type NodeType int

const (
	NodeTypeTransit NodeType = iota
	NodeTypeSource
	NodeTypeSink
)

// String возвращает строковое представление типа узла
func (t NodeType) String() string {
	switch t {
	case NodeTypeSource:
		return "source"
	case NodeTypeSink:
		return "sink"
	default:
		return "transit"
	}
}

// Node представляет узел транспортной сети. Баланс больше нуля — узел
// предлагает поток (поставщик), меньше нуля — потребляет, ноль — транзит.
// Узел неизменяем после создания.
type Node struct {
	ID      NodeID
	Balance float64
}

// NewNode создаёт узел с заданным идентификатором и балансом
func NewNode(id NodeID, balance float64) *Node {
	return &Node{ID: id, Balance: balance}
}

// Type возвращает тип узла по знаку баланса
func (n *Node) Type() NodeType {
	switch {
	case IsPositive(n.Balance):
		return NodeTypeSource
	case n.Balance < -Epsilon:
		return NodeTypeSink
	default:
		return NodeTypeTransit
	}
}
