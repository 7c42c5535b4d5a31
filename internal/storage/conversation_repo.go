package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// ConversationRepo persists conversation headers and transcripts.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// SaveConversation inserts a conversation header.
func (r *ConversationRepo) SaveConversation(ctx context.Context, rec *ConversationRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO conversations (id, persona_id, created_at) VALUES (?, ?, ?)",
		rec.ID, rec.PersonaID, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// GetConversation fetches a conversation header by id.
// Returns ErrNotFound if no such conversation exists.
func (r *ConversationRepo) GetConversation(ctx context.Context, id string) (*ConversationRecord, error) {
	var rec ConversationRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT id, persona_id, created_at FROM conversations WHERE id = ?", id,
	).Scan(&rec.ID, &rec.PersonaID, &rec.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}
	return &rec, nil
}

// SaveMessage appends one turn to a conversation's stored transcript.
// A missing ID is filled with a fresh UUID.
func (r *ConversationRepo) SaveMessage(ctx context.Context, rec *MessageRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO messages (id, conversation_id, seq, role, content, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		rec.ID, rec.ConversationID, rec.Seq, rec.Role, rec.Content, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// ListMessages returns a conversation's stored turns in sequence order.
func (r *ConversationRepo) ListMessages(ctx context.Context, conversationID string) ([]MessageRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, conversation_id, seq, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY seq",
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []MessageRecord
	for rows.Next() {
		var rec MessageRecord
		if err := rows.Scan(&rec.ID, &rec.ConversationID, &rec.Seq, &rec.Role, &rec.Content, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return records, nil
}
