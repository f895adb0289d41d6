package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StudyTopic is a user-owned unit of subject matter. It has at most one StudyNote.
type StudyTopic struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	SubjectID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"subject_id"`
	Subject     *Subject    `gorm:"foreignKey:SubjectID;references:ID" json:"subject,omitempty"`
	Title       string      `gorm:"column:title;not null" json:"title"`
	Description string      `gorm:"column:description;type:text" json:"description"`
	Difficulty  Difficulty  `gorm:"column:difficulty;not null;default:'beginner';index" json:"difficulty"`
	Status      TopicStatus `gorm:"column:status;not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"not null" json:"updated_at"`
}

func (StudyTopic) TableName() string { return "study_topic" }

func (t *StudyTopic) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = TopicStatusPending
	}
	if t.Difficulty == "" {
		t.Difficulty = DifficultyBeginner
	}
	return nil
}

// TopicStatusEvent describes one lifecycle move, published to subscribers.
type TopicStatusEvent struct {
	TopicID uuid.UUID   `json:"topic_id"`
	UserID  uuid.UUID   `json:"user_id"`
	From    TopicStatus `json:"from"`
	To      TopicStatus `json:"to"`
	NoteID  *uuid.UUID  `json:"note_id,omitempty"`
	At      time.Time   `json:"at"`
}
