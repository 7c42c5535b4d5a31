package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"mentordesk/internal/contextutil"
	"mentordesk/internal/gemini"
	"mentordesk/internal/service"
)

const (
	errMethodNotAllowed = "Method Not Allowed"
	errInvalidPayload   = "Invalid request payload."
	errKeyNotConfigured = "Gemini API key is not configured on the server."
)

// GatewayHandler is the stateless proxy between browser clients and the
// Gemini API. It validates the payload, attaches the server-held credential
// via the forwarder, and relays the provider's response or error. It holds
// no state between invocations.
type GatewayHandler struct {
	generator service.Generator
	apiKey    gemini.KeyFunc
	logger    *slog.Logger
}

// NewGatewayHandler creates a new GatewayHandler. apiKey is consulted per
// request so key rotation requires no restart.
func NewGatewayHandler(generator service.Generator, apiKey gemini.KeyFunc) *GatewayHandler {
	return &GatewayHandler{
		generator: generator,
		apiKey:    apiKey,
		logger:    slog.Default(),
	}
}

// proxyPayload is the browser-facing request body. Everything except model
// is opaque to the gateway and forwarded verbatim.
type proxyPayload struct {
	Model             string          `json:"model"`
	Contents          json.RawMessage `json:"contents"`
	SystemInstruction json.RawMessage `json:"systemInstruction,omitempty"`
	GenerationConfig  json.RawMessage `json:"generationConfig,omitempty"`
}

// forwardBody is the payload relayed to the provider; the model travels in
// the URL instead.
type forwardBody struct {
	Contents          json.RawMessage `json:"contents"`
	SystemInstruction json.RawMessage `json:"systemInstruction,omitempty"`
	GenerationConfig  json.RawMessage `json:"generationConfig,omitempty"`
}

// ServeHTTP handles proxy requests.
func (h *GatewayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	// Every response carries the wildcard CORS header, errors included.
	w.Header().Set("Access-Control-Allow-Origin", "*")

	switch r.Method {
	case http.MethodOptions:
		h.setPreflightHeaders(w)
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
		// Handled below.
	default:
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		h.setPreflightHeaders(w)
		h.writeError(w, http.StatusMethodNotAllowed, errMethodNotAllowed)
		return
	}

	// The credential check precedes any look at the request body.
	if h.apiKey() == "" {
		logger.ErrorContext(ctx, "gemini api key not configured")
		h.writeError(w, http.StatusInternalServerError, errKeyNotConfigured)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.ErrorContext(ctx, "failed to read request body", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		body = []byte("{}")
	}

	var payload proxyPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		// Valid JSON of the wrong shape (a number, a string) fails payload
		// validation; only malformed JSON is an internal error.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			logger.WarnContext(ctx, "non-object request body", "error", err)
			h.writeError(w, http.StatusBadRequest, errInvalidPayload)
			return
		}
		logger.WarnContext(ctx, "malformed request body", "error", err)
		h.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if payload.Model == "" || !isNonEmptyJSONArray(payload.Contents) {
		logger.WarnContext(ctx, "invalid request payload", "model", payload.Model)
		h.writeError(w, http.StatusBadRequest, errInvalidPayload)
		return
	}

	resp, err := h.generator.GenerateContent(ctx, payload.Model, forwardBody{
		Contents:          payload.Contents,
		SystemInstruction: payload.SystemInstruction,
		GenerationConfig:  payload.GenerationConfig,
	})
	if err != nil {
		var upstream *gemini.UpstreamError
		switch {
		case errors.As(err, &upstream):
			// Relay the provider's status and extracted message.
			logger.WarnContext(ctx, "provider error relayed",
				"status", upstream.StatusCode, "message", upstream.Message)
			h.writeError(w, upstream.StatusCode, upstream.Message)
		case errors.Is(err, gemini.ErrNoAPIKey):
			h.writeError(w, http.StatusInternalServerError, errKeyNotConfigured)
		default:
			logger.ErrorContext(ctx, "forwarding failed", "error", err)
			h.writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(resp.Raw); err != nil {
		logger.ErrorContext(ctx, "failed to write response", "error", err)
	}
}

// setPreflightHeaders declares the allowed methods and headers. Set on
// OPTIONS and 405 responses.
func (h *GatewayHandler) setPreflightHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// writeError writes a structured JSON error response.
func (h *GatewayHandler) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// isNonEmptyJSONArray reports whether raw holds a JSON array with at least
// one element.
func isNonEmptyJSONArray(raw json.RawMessage) bool {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return false
	}
	return len(elems) > 0
}
