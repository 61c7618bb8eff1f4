package web

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"

	"task-manager/internal/domain"
	"task-manager/internal/errors"
	"task-manager/internal/logging"
	"task-manager/internal/services"
	"task-manager/internal/validation"
)

// pageData is what templates/index.html renders
type pageData struct {
	Tasks     []domain.Task
	Input     string
	Summary   domain.Summary
	Loading   bool
	Error     string
	FormError string
}

// statusForError maps application errors to HTTP status codes.
func statusForError(err error) int {
	if stderrors.Is(err, services.ErrRefreshInProgress) {
		return http.StatusConflict
	}
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeFetch:
		return http.StatusBadGateway
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrorTypeConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.ShouldLogError(err) && !stderrors.Is(err, services.ErrRefreshInProgress) {
		log := logging.FromContext(r.Context())
		log.Error().Err(err).Fields(errors.LogFields(err)).Msg("request failed")
	}
	message := err.Error()
	if errors.IsAppError(err) {
		message = errors.GetUserMessage(err)
	}
	WriteError(w, statusForError(err), message)
}

func parseTaskID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("id", raw, "must be a number")
	}
	if err := validation.NewTaskValidator().ValidateTaskID(id); err != nil {
		return 0, errors.NewInvalidInputError("id", raw, "must be a positive number")
	}
	return id, nil
}

// ========== View ==========

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, formError string) {
	state, err := s.api.GetViewState(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := pageData{
		Tasks:     state.Tasks,
		Input:     state.Input,
		Summary:   state.Summary,
		Loading:   state.Loading,
		Error:     state.Error,
		FormError: formError,
	}
	if err := s.tmpl.ExecuteTemplate(w, "index.html", data); err != nil {
		log := logging.FromContext(r.Context())
		log.Error().Err(err).Msg("render view")
	}
}

func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleIndex renders the view. The first display starts the initial bill refresh.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if s.api.EnsureInitialRefresh(s.baseCtx) {
		log := logging.FromContext(r.Context())
		log.Debug().Msg("initial bill refresh started")
	}
	s.render(w, r, http.StatusOK, "")
}

func (s *Server) handleAddForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "invalid form")
		return
	}

	// Each post carries its own text. The shared input buffer is left to the shell.
	if _, err := s.api.AddTask(r.Context(), r.PostFormValue("text")); err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeValidation) {
			s.render(w, r, http.StatusBadRequest, errors.GetUserMessage(err))
			return
		}
		s.writeAppError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleToggleForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if _, err := s.api.ToggleTask(r.Context(), id); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	redirectHome(w, r)
}

func (s *Server) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if err := s.api.DeleteTask(r.Context(), id); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	redirectHome(w, r)
}

// handleRefreshForm runs a refresh; failures show up as the view's error indicator.
func (s *Server) handleRefreshForm(w http.ResponseWriter, r *http.Request) {
	s.api.RefreshBills(r.Context())
	redirectHome(w, r)
}

// ========== JSON API ==========

type tasksResponse struct {
	Tasks   []domain.Task  `json:"tasks"`
	Summary domain.Summary `json:"summary"`
}

func (s *Server) tasksResponse(ctx context.Context) (*tasksResponse, error) {
	tasks, err := s.api.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.api.GetSummary(ctx)
	if err != nil {
		return nil, err
	}
	return &tasksResponse{Tasks: tasks, Summary: summary}, nil
}

// handleListTasks handles GET /api/tasks
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	resp, err := s.tasksResponse(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, resp)
}

// handleCreateTask handles POST /api/tasks. Blank text creates nothing.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	task, err := s.api.AddTask(r.Context(), req.Text)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if task == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	WriteJSON(w, http.StatusCreated, task)
}

// handleToggleTask handles POST /api/tasks/{id}/toggle
func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	task, err := s.api.ToggleTask(r.Context(), id)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if task == nil {
		WriteError(w, http.StatusNotFound, "task not found")
		return
	}
	WriteJSON(w, http.StatusOK, task)
}

// handleDeleteTask handles DELETE /api/tasks/{id}
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseTaskID(r)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if err := s.api.DeleteTask(r.Context(), id); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRefreshBills handles POST /api/bills/refresh
func (s *Server) handleRefreshBills(w http.ResponseWriter, r *http.Request) {
	added, err := s.api.RefreshBills(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}

	summary, err := s.api.GetSummary(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"added":   added,
		"summary": summary,
	})
}

// handleState handles GET /api/state
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state, err := s.api.GetViewState(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}
