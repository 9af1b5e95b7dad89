package domain

import "sort"

// FlowEntry поток по одному ребру в сериализуемом виде
type FlowEntry struct {
	From string  `json:"from"`
	To   string  `json:"to"`
	Flow float64 `json:"flow"`
}

// SolveSummary итог решения: финальные потоки, значение целевой функции,
// число итераций и размер базиса. Используется кэшем и HTTP-ответами.
type SolveSummary struct {
	Flows      []FlowEntry `json:"flows"`
	Objective  float64     `json:"objective"`
	Iterations int         `json:"iterations"`
	BasisSize  int         `json:"basis_size"`
	Steps      int         `json:"steps"`
}

// NewSolveSummary собирает итог из карты потоков, упорядочивая рёбра
// лексикографически
func NewSolveSummary(flows FlowMap, objective float64, iterations, basisSize, steps int) *SolveSummary {
	entries := make([]FlowEntry, 0, len(flows))
	for key, flow := range flows {
		entries = append(entries, FlowEntry{From: key.From.String(), To: key.To.String(), Flow: flow})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].From != entries[j].From {
			return entries[i].From < entries[j].From
		}
		return entries[i].To < entries[j].To
	})
	return &SolveSummary{
		Flows:      entries,
		Objective:  objective,
		Iterations: iterations,
		BasisSize:  basisSize,
		Steps:      steps,
	}
}
