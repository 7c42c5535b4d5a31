package storage

import "time"

// ConversationRecord is a persisted conversation header.
type ConversationRecord struct {
	ID        string
	PersonaID string
	CreatedAt time.Time
}

// MessageRecord is one persisted conversation turn.
type MessageRecord struct {
	ID             string // UUID
	ConversationID string
	Seq            int // Position within the conversation (starts at 1)
	Role           string
	Content        string
	CreatedAt      time.Time
}

// ScoreRecord is a saved practice or interview result for a student.
type ScoreRecord struct {
	ID        string // UUID
	Student   string // Student identifier (email or uid)
	Category  string // e.g. "mock-interview", "behavioral"
	Score     float64
	MaxScore  float64
	Feedback  string
	CreatedAt time.Time
}
