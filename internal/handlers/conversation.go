package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"mentordesk/internal/contextutil"
	"mentordesk/internal/persona"
	"mentordesk/internal/service"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConversationHandler exposes conversation sessions over HTTP.
type ConversationHandler struct {
	conversations service.ConversationService
	personas      persona.Store
	logger        *slog.Logger
}

// NewConversationHandler creates a new ConversationHandler.
func NewConversationHandler(conversations service.ConversationService, personas persona.Store) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		personas:      personas,
		logger:        slog.Default(),
	}
}

// CreateConversationRequest is the payload for creating a conversation.
type CreateConversationRequest struct {
	PersonaID string `json:"personaId"`
}

// PostMessageRequest is the payload for appending a user message.
type PostMessageRequest struct {
	Message string `json:"message"`
}

// ConversationResponse is the transcript-bearing response shape.
type ConversationResponse struct {
	ID        string            `json:"id"`
	PersonaID string            `json:"personaId"`
	Messages  []service.Message `json:"messages"`
}

// ListPersonas handles GET /api/personas.
func (h *ConversationHandler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r.Context(), http.StatusOK, h.personas.List())
}

// Create handles POST /api/conversations.
func (h *ConversationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := h.conversations.Create(ctx, req.PersonaID)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to create conversation")
		return
	}

	_, messages, err := h.conversations.Transcript(ctx, info.ID)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to load transcript")
		return
	}

	writeJSON(w, ctx, http.StatusCreated, ConversationResponse{
		ID:        info.ID,
		PersonaID: info.PersonaID,
		Messages:  messages,
	})
}

// PostMessage handles POST /api/conversations/{conversationID}/messages.
// The response carries the full transcript including the assistant reply
// (or the error-flavored assistant turn when generation failed).
func (h *ConversationHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)
	conversationID := chi.URLParam(r, "conversationID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.conversations.AppendUserMessage(ctx, conversationID, req.Message); err != nil {
		h.handleServiceError(w, ctx, err, "Failed to process message")
		return
	}

	info, messages, err := h.conversations.Transcript(ctx, conversationID)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to load transcript")
		return
	}

	writeJSON(w, ctx, http.StatusOK, ConversationResponse{
		ID:        info.ID,
		PersonaID: info.PersonaID,
		Messages:  messages,
	})
}

// GetTranscript handles GET /api/conversations/{conversationID}.
func (h *ConversationHandler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	conversationID := chi.URLParam(r, "conversationID")

	info, messages, err := h.conversations.Transcript(ctx, conversationID)
	if err != nil {
		h.handleServiceError(w, ctx, err, "Failed to load transcript")
		return
	}

	writeJSON(w, ctx, http.StatusOK, ConversationResponse{
		ID:        info.ID,
		PersonaID: info.PersonaID,
		Messages:  messages,
	})
}

// handleServiceError maps service errors to HTTP status codes.
func (h *ConversationHandler) handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, "Validation error: "+validationErr.Error())
		return
	}

	if errors.Is(err, service.ErrConversationNotFound) {
		writeError(w, http.StatusNotFound, "Conversation not found")
		return
	}

	if errors.Is(err, service.ErrPersonaNotFound) {
		writeError(w, http.StatusNotFound, "Persona not found")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, ctx context.Context, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
