package storage

import (
	"context"
	"testing"
	"time"
)

func TestScoreRepo_SaveAndListByStudent(t *testing.T) {
	db := openTestDB(t)
	repo := NewScoreRepo(db)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []*ScoreRecord{
		{Student: "s1", Category: "mock-interview", Score: 6, MaxScore: 10, Feedback: "solid", CreatedAt: base},
		{Student: "s1", Category: "behavioral", Score: 8, MaxScore: 10, CreatedAt: base.Add(time.Hour)},
		{Student: "s2", Category: "mock-interview", Score: 9, MaxScore: 10, CreatedAt: base},
	}
	for _, rec := range records {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if rec.ID == "" {
			t.Error("Save() should fill ID")
		}
	}

	got, err := repo.ListByStudent(ctx, "s1")
	if err != nil {
		t.Fatalf("ListByStudent() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ListByStudent() returned %d records, want 2", len(got))
	}
	// Most recent first
	if got[0].Category != "behavioral" || got[1].Category != "mock-interview" {
		t.Errorf("order = %s, %s", got[0].Category, got[1].Category)
	}
	if got[1].Feedback != "solid" {
		t.Errorf("feedback = %q, want solid", got[1].Feedback)
	}
}

func TestScoreRepo_ListByStudent_Empty(t *testing.T) {
	db := openTestDB(t)
	repo := NewScoreRepo(db)

	got, err := repo.ListByStudent(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("ListByStudent() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListByStudent() returned %d records, want 0", len(got))
	}
}
