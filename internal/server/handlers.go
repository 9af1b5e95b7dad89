package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"transport/internal/converter"
	"transport/pkg/apperror"
	"transport/pkg/logger"
)

// errorBody тело ошибки JSON API
type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Field   string         `json:"field,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// handleSolve решает задачу до оптимума и возвращает итог
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGraphRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := converter.ToGraph(req)
	if err != nil {
		writeError(w, err)
		return
	}

	summary, cached, err := s.svc.Solve(r.Context(), g)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, converter.FromSummary(summary, cached))
}

// handleSolveSteps решает задачу и возвращает полную историю снимков
func (s *Server) handleSolveSteps(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGraphRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := converter.ToGraph(req)
	if err != nil {
		writeError(w, err)
		return
	}

	states, summary, err := s.svc.SolveSteps(r.Context(), g)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, &converter.StepsResponse{
		States:  converter.FromStates(states, s.cfg.Solver.IncludeCycles),
		Summary: converter.FromSummary(summary, false),
	})
}

// handleValidate проверяет граф без решения. Ошибки валидации не являются
// ошибками HTTP: ответ всегда 200 со списком найденных проблем.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeGraphRequest(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := converter.ToGraph(req)
	if err != nil {
		// Структурные ошибки построения тоже отдаём как результат проверки
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			result := apperror.NewValidationErrors()
			result.Add(appErr)
			writeJSON(w, http.StatusOK, converter.FromValidation(result))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, converter.FromValidation(s.svc.Validate(r.Context(), g)))
}

// handleHealth отвечает на проверки живости
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.svc.Version(),
	})
}

// decodeGraphRequest читает и разбирает тело запроса с лимитом размера
func (s *Server) decodeGraphRequest(w http.ResponseWriter, r *http.Request) (*converter.GraphRequest, error) {
	if s.cfg.HTTP.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.HTTP.MaxBodyBytes)
	}

	var req converter.GraphRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, apperror.Newf(apperror.CodeInvalidArgument,
				"request body exceeds %d bytes", maxBytesErr.Limit)
		}
		if errors.Is(err, io.EOF) {
			return nil, apperror.New(apperror.CodeInvalidArgument, "request body is empty")
		}
		return nil, apperror.Wrap(err, apperror.CodeInvalidArgument, "malformed JSON body")
	}
	return &req, nil
}

// writeJSON сериализует ответ. Ошибка записи означает оборванное
// соединение, повторить её некуда.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Log.Warn("Failed to write response", "error", err)
	}
}

// writeError отображает ошибку приложения на HTTP-статус и тело
func writeError(w http.ResponseWriter, err error) {
	status := apperror.HTTPStatus(err)

	body := errorBody{
		Code:    string(apperror.CodeInternal),
		Message: "internal server error",
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		body.Code = string(appErr.Code)
		body.Message = appErr.Message
		body.Field = appErr.Field
		if len(appErr.Details) > 0 {
			body.Details = appErr.Details
		}
	}

	if status >= http.StatusInternalServerError {
		logger.Log.Error("Request error", "error", err, "status", status)
	}

	writeJSON(w, status, errorResponse{Error: body})
}
