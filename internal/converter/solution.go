package converter

import (
	"sort"

	"transport/internal/solver"
	"transport/pkg/apperror"
	"transport/pkg/domain"
)

// EdgeRef ссылка на ребро в ответе
type EdgeRef struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DeltaEntry оценка одного небазисного ребра
type DeltaEntry struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Delta float64 `json:"delta"`
}

// CycleEdgeDTO ребро цикла улучшения с ориентацией и пределом theta
type CycleEdgeDTO struct {
	From       string  `json:"from"`
	To         string  `json:"to"`
	Sign       int     `json:"sign"`
	ThetaLimit float64 `json:"theta_limit"`
}

// StateDTO сериализуемый снимок одного перехода решателя
type StateDTO struct {
	Type        string             `json:"type"`
	Iteration   int                `json:"iteration"`
	Description string             `json:"description"`
	Objective   float64            `json:"objective"`
	Basis       []EdgeRef          `json:"basis,omitempty"`
	NonBasis    []EdgeRef          `json:"non_basis,omitempty"`
	Flows       []domain.FlowEntry `json:"flows,omitempty"`
	Potentials  map[string]float64 `json:"potentials,omitempty"`
	Deltas      []DeltaEntry       `json:"deltas,omitempty"`
	Entering    *EdgeRef           `json:"entering,omitempty"`
	Leaving     *EdgeRef           `json:"leaving,omitempty"`
	Direction   string             `json:"direction,omitempty"`
	Cycle       []CycleEdgeDTO     `json:"cycle,omitempty"`
	Theta       float64            `json:"theta,omitempty"`
}

// SolveResponse итог решения для HTTP-ответа
type SolveResponse struct {
	Status     string             `json:"status"`
	Objective  float64            `json:"objective"`
	Iterations int                `json:"iterations"`
	BasisSize  int                `json:"basis_size"`
	Steps      int                `json:"steps"`
	Flows      []domain.FlowEntry `json:"flows"`
	Cached     bool               `json:"cached"`
}

// StepsResponse итог решения вместе с полной историей снимков
type StepsResponse struct {
	States  []*StateDTO    `json:"states"`
	Summary *SolveResponse `json:"summary"`
}

// IssueDTO одна ошибка или предупреждение валидации
type IssueDTO struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ValidateResponse результат проверки графа
type ValidateResponse struct {
	Valid    bool       `json:"valid"`
	Errors   []IssueDTO `json:"errors"`
	Warnings []IssueDTO `json:"warnings"`
}

// FromSummary преобразует итог решения в HTTP-ответ
func FromSummary(s *domain.SolveSummary, cached bool) *SolveResponse {
	if s == nil {
		return nil
	}
	return &SolveResponse{
		Status:     "optimal",
		Objective:  s.Objective,
		Iterations: s.Iterations,
		BasisSize:  s.BasisSize,
		Steps:      s.Steps,
		Flows:      s.Flows,
		Cached:     cached,
	}
}

// FromState преобразует снимок решателя в DTO. Циклы включаются в ответ
// только при includeCycles: на больших графах они заметно раздувают
// историю.
func FromState(state *solver.SolutionState, includeCycles bool) *StateDTO {
	if state == nil {
		return nil
	}

	dto := &StateDTO{
		Type:        string(state.Type),
		Iteration:   state.Iteration,
		Description: state.Description,
		Objective:   state.Objective,
		Basis:       edgeSetToRefs(state.Basis),
		NonBasis:    edgeSetToRefs(state.NonBasis),
		Entering:    edgeKeyToRef(state.Entering),
		Leaving:     edgeKeyToRef(state.Leaving),
		Direction:   string(state.Direction),
		Theta:       state.Theta,
	}

	if len(state.Flows) > 0 {
		dto.Flows = flowEntries(state.Flows)
	}

	if len(state.Potentials) > 0 {
		dto.Potentials = make(map[string]float64, len(state.Potentials))
		for id, u := range state.Potentials {
			dto.Potentials[id.String()] = u
		}
	}

	if len(state.Deltas) > 0 {
		dto.Deltas = make([]DeltaEntry, 0, len(state.Deltas))
		for key, delta := range state.Deltas {
			dto.Deltas = append(dto.Deltas, DeltaEntry{From: key.From.String(), To: key.To.String(), Delta: delta})
		}
		sortDeltas(dto.Deltas)
	}

	if includeCycles && len(state.Cycle) > 0 {
		dto.Cycle = make([]CycleEdgeDTO, 0, len(state.Cycle))
		for _, ce := range state.Cycle {
			dto.Cycle = append(dto.Cycle, CycleEdgeDTO{
				From:       ce.Edge.From.String(),
				To:         ce.Edge.To.String(),
				Sign:       int(ce.Sign),
				ThetaLimit: ce.ThetaLimit,
			})
		}
	}

	return dto
}

// FromStates преобразует историю снимков
func FromStates(states []*solver.SolutionState, includeCycles bool) []*StateDTO {
	dtos := make([]*StateDTO, 0, len(states))
	for _, state := range states {
		dtos = append(dtos, FromState(state, includeCycles))
	}
	return dtos
}

// FromValidation преобразует результат валидации в HTTP-ответ
func FromValidation(v *apperror.ValidationErrors) *ValidateResponse {
	resp := &ValidateResponse{
		Valid:    v.IsValid(),
		Errors:   make([]IssueDTO, 0, len(v.Errors)),
		Warnings: make([]IssueDTO, 0, len(v.Warnings)),
	}
	for _, e := range v.Errors {
		resp.Errors = append(resp.Errors, IssueDTO{Code: string(e.Code), Message: e.Message, Field: e.Field})
	}
	for _, w := range v.Warnings {
		resp.Warnings = append(resp.Warnings, IssueDTO{Code: string(w.Code), Message: w.Message, Field: w.Field})
	}
	return resp
}

func edgeSetToRefs(set domain.EdgeSet) []EdgeRef {
	if len(set) == 0 {
		return nil
	}
	refs := make([]EdgeRef, 0, len(set))
	for key := range set {
		refs = append(refs, EdgeRef{From: key.From.String(), To: key.To.String()})
	}
	sortRefs(refs)
	return refs
}

func edgeKeyToRef(key *domain.EdgeKey) *EdgeRef {
	if key == nil {
		return nil
	}
	return &EdgeRef{From: key.From.String(), To: key.To.String()}
}

func flowEntries(flows domain.FlowMap) []domain.FlowEntry {
	entries := make([]domain.FlowEntry, 0, len(flows))
	for key, flow := range flows {
		entries = append(entries, domain.FlowEntry{From: key.From.String(), To: key.To.String(), Flow: flow})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].From != entries[j].From {
			return entries[i].From < entries[j].From
		}
		return entries[i].To < entries[j].To
	})
	return entries
}

func sortRefs(refs []EdgeRef) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].From != refs[j].From {
			return refs[i].From < refs[j].From
		}
		return refs[i].To < refs[j].To
	})
}

func sortDeltas(deltas []DeltaEntry) {
	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].From != deltas[j].From {
			return deltas[i].From < deltas[j].From
		}
		return deltas[i].To < deltas[j].To
	})
}
