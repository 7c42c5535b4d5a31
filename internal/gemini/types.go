package gemini

import (
	"encoding/json"
	"fmt"
)

// Role vocabulary understood by the generateContent API.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Part is one piece of a content block. Only text parts are used here.
type Part struct {
	Text string `json:"text"`
}

// Content is a single provider-shaped conversation turn.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// GenerationConfig holds the sampling parameters for a generation call.
type GenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopK            int     `json:"topK,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GenerateRequest is the JSON body for a generateContent call.
// The target model travels in the URL, not the body.
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one generated alternative. Only the first is consumed.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateResponse is a parsed provider reply. Raw retains the verbatim
// response body so the gateway can relay it unchanged.
type GenerateResponse struct {
	Candidates []Candidate     `json:"candidates"`
	Raw        json.RawMessage `json:"-"`
}

// FirstCandidateText returns the first text part of the first candidate,
// or an empty string when the response carries none.
func (r *GenerateResponse) FirstCandidateText() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

// UpstreamError is a non-2xx reply from the provider. The gateway relays
// its status code and message to the caller.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("gemini api status %d: %s", e.StatusCode, e.Message)
}
