package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/studynotes-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSubject(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Subject {
	tb.Helper()
	s := &types.Subject{
		ID:          uuid.New(),
		Name:        name,
		Description: name + " description",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subject: %v", err)
	}
	return s
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, subjectID uuid.UUID, title string, status types.TopicStatus) *types.StudyTopic {
	tb.Helper()
	t := &types.StudyTopic{
		ID:          uuid.New(),
		UserID:      userID,
		SubjectID:   subjectID,
		Title:       title,
		Description: title + " description",
		Difficulty:  types.DifficultyBeginner,
		Status:      status,
	}
	if err := tx.WithContext(ctx).Create(t).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return t
}

// SeedNote creates a note and its analytics row for topicID.
func SeedNote(tb testing.TB, ctx context.Context, tx *gorm.DB, topicID uuid.UUID, content string) *types.StudyNote {
	tb.Helper()
	n := &types.StudyNote{
		ID:                 uuid.New(),
		TopicID:            topicID,
		Content:            content,
		Summary:            "summary",
		KeyPoints:          datatypes.JSONSlice[string]{"a", "b"},
		References:         datatypes.JSONSlice[string]{"ref"},
		WordCount:          len(content),
		ReadingTimeMinutes: 1,
		AIModelUsed:        "test-model",
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed note: %v", err)
	}
	a := &types.NoteAnalytics{ID: uuid.New(), NoteID: n.ID}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed analytics: %v", err)
	}
	return n
}

func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
