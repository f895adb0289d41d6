package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StudyNote is AI-generated material for exactly one topic. It is replaced, never edited.
type StudyNote struct {
	ID                    uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID               uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex" json:"topic_id"`
	Topic                 *StudyTopic                 `gorm:"foreignKey:TopicID;references:ID" json:"topic,omitempty"`
	Content               string                      `gorm:"column:content;type:text;not null" json:"content"`
	Summary               string                      `gorm:"column:summary;type:text" json:"summary"`
	KeyPoints             datatypes.JSONSlice[string] `gorm:"column:key_points" json:"key_points"`
	References            datatypes.JSONSlice[string] `gorm:"column:references_list" json:"references"`
	WordCount             int                         `gorm:"column:word_count;not null;default:0" json:"word_count"`
	ReadingTimeMinutes    int                         `gorm:"column:reading_time_minutes;not null;default:0" json:"reading_time_minutes"`
	AIModelUsed           string                      `gorm:"column:ai_model_used;index" json:"ai_model_used"`
	GenerationTimeSeconds float64                     `gorm:"column:generation_time_seconds" json:"generation_time_seconds"`
	Analytics             *NoteAnalytics              `gorm:"foreignKey:NoteID;references:ID" json:"analytics,omitempty"`
	CreatedAt             time.Time                   `gorm:"not null;index" json:"created_at"`
	UpdatedAt             time.Time                   `gorm:"not null" json:"updated_at"`
}

func (StudyNote) TableName() string { return "study_note" }

func (n *StudyNote) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.KeyPoints == nil {
		n.KeyPoints = datatypes.JSONSlice[string]{}
	}
	if n.References == nil {
		n.References = datatypes.JSONSlice[string]{}
	}
	return nil
}

// NoteAnalytics is the view/rating telemetry attached to one note.
type NoteAnalytics struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	NoteID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"note_id"`
	ViewsCount int64      `gorm:"column:views_count;not null;default:0" json:"views_count"`
	LastViewed *time.Time `gorm:"column:last_viewed" json:"last_viewed"`
	UserRating *int       `gorm:"column:user_rating" json:"user_rating"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (NoteAnalytics) TableName() string { return "note_analytics" }

func (a *NoteAnalytics) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

const (
	MinRating = 1
	MaxRating = 5
)

func ValidRating(r int) bool { return r >= MinRating && r <= MaxRating }
