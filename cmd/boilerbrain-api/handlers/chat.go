// Package handlers provides HTTP handlers for the BoilerBrain API.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/boilerbrain-ai/boilerbrain/internal/chat"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
)

// ChatHandler handles diagnostic chat requests.
type ChatHandler struct {
	logger  *observability.Logger
	service *chat.Service
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, service *chat.Service) *ChatHandler {
	return &ChatHandler{logger: logger, service: service}
}

// ChatRequestDTO represents the API request for one chat turn.
type ChatRequestDTO struct {
	SessionID string `json:"session_id,omitempty"`
	Question  string `json:"question"`
}

// Chat handles POST /api/v1/chat. A missing session ID starts a new session.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var reqDTO ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if reqDTO.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required", "")
		return
	}

	sessionID := reqDTO.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	resp, err := h.service.Handle(r.Context(), sessionID, reqDTO.Question)
	if err != nil {
		h.logger.Error().Err(err).Str("session_id", sessionID).Msg("Chat turn failed")
		writeError(w, http.StatusInternalServerError, "chat turn failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{"error": message}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}
