package handler

import (
	"encoding/json"
	"net/http"

	"medintake/internal/service"

	"github.com/gorilla/mux"
)

// SessionHandler handles intake session endpoints
type SessionHandler struct {
	intakeSvc *service.IntakeService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(intakeSvc *service.IntakeService) *SessionHandler {
	return &SessionHandler{intakeSvc: intakeSvc}
}

// StartSessionRequest is the request body for starting a session.
// Profile hints are keyed by question id and may pre-fill
// non-compulsory questions.
type StartSessionRequest struct {
	Profile map[string]string `json:"profile,omitempty"`
}

// AnswerRequest is the request body for submitting an answer
type AnswerRequest struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req StartSessionRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	result, err := h.intakeSvc.Start(r.Context(), req.Profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// Answer handles POST /v1/sessions/{sessionId}/answers
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	var req AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "questionId is required")
		return
	}

	result, err := h.intakeSvc.Answer(r.Context(), sessionID, req.QuestionID, req.Value)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	view, err := h.intakeSvc.Get(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// End handles DELETE /v1/sessions/{sessionId}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.intakeSvc.End(r.Context(), sessionID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}
