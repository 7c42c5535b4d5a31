package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_score_store.go -package=mocks mentordesk/internal/handlers ScoreStore

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"mentordesk/internal/contextutil"
	"mentordesk/internal/storage"
)

// ScoreStore defines the score persistence operations used by the handler.
// This interface is defined from the handler's perspective (consumer-first).
type ScoreStore interface {
	Save(ctx context.Context, rec *storage.ScoreRecord) error
	ListByStudent(ctx context.Context, student string) ([]storage.ScoreRecord, error)
}

// ScoreHandler records and lists practice and mock-interview results.
type ScoreHandler struct {
	scores ScoreStore
	logger *slog.Logger
}

// NewScoreHandler creates a new ScoreHandler.
func NewScoreHandler(scores ScoreStore) *ScoreHandler {
	return &ScoreHandler{
		scores: scores,
		logger: slog.Default(),
	}
}

// SaveScoreRequest is the payload for recording a score.
type SaveScoreRequest struct {
	Student  string  `json:"student"`
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
	Feedback string  `json:"feedback,omitempty"`
}

// ScoreResponse is one recorded score.
type ScoreResponse struct {
	ID        string  `json:"id"`
	Student   string  `json:"student"`
	Category  string  `json:"category"`
	Score     float64 `json:"score"`
	MaxScore  float64 `json:"maxScore"`
	Feedback  string  `json:"feedback,omitempty"`
	CreatedAt string  `json:"createdAt"`
}

// Save handles POST /api/scores.
func (h *ScoreHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SaveScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Student == "" || req.Category == "" {
		writeError(w, http.StatusBadRequest, "student and category are required")
		return
	}
	if req.MaxScore <= 0 || req.Score < 0 || req.Score > req.MaxScore {
		writeError(w, http.StatusBadRequest, "score must be between 0 and maxScore")
		return
	}

	rec := &storage.ScoreRecord{
		Student:  req.Student,
		Category: req.Category,
		Score:    req.Score,
		MaxScore: req.MaxScore,
		Feedback: req.Feedback,
	}
	if err := h.scores.Save(ctx, rec); err != nil {
		logger.ErrorContext(ctx, "failed to save score", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	writeJSON(w, ctx, http.StatusCreated, toScoreResponse(*rec))
}

// ListByStudent handles GET /api/scores?student=<id>.
func (h *ScoreHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	student := r.URL.Query().Get("student")
	if student == "" {
		writeError(w, http.StatusBadRequest, "student query parameter is required")
		return
	}

	records, err := h.scores.ListByStudent(ctx, student)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list scores", "student", student, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list scores")
		return
	}

	out := make([]ScoreResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toScoreResponse(rec))
	}
	writeJSON(w, ctx, http.StatusOK, out)
}

func toScoreResponse(rec storage.ScoreRecord) ScoreResponse {
	return ScoreResponse{
		ID:        rec.ID,
		Student:   rec.Student,
		Category:  rec.Category,
		Score:     rec.Score,
		MaxScore:  rec.MaxScore,
		Feedback:  rec.Feedback,
		CreatedAt: rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}
