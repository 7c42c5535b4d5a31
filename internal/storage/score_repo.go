package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ScoreRepo persists practice and mock-interview results.
type ScoreRepo struct {
	db *sql.DB
}

// NewScoreRepo creates a new ScoreRepo.
func NewScoreRepo(db *sql.DB) *ScoreRepo {
	return &ScoreRepo{db: db}
}

// Save inserts a score record. A missing ID is filled with a fresh UUID.
func (r *ScoreRepo) Save(ctx context.Context, rec *ScoreRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO scores (id, student, category, score, max_score, feedback, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		rec.ID, rec.Student, rec.Category, rec.Score, rec.MaxScore, rec.Feedback, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}
	return nil
}

// ListByStudent returns a student's score history, most recent first.
func (r *ScoreRepo) ListByStudent(ctx context.Context, student string) ([]ScoreRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, student, category, score, max_score, feedback, created_at FROM scores WHERE student = ? ORDER BY created_at DESC",
		student,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		var feedback sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Student, &rec.Category, &rec.Score, &rec.MaxScore, &feedback, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		rec.Feedback = feedback.String
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}

	return records, nil
}
