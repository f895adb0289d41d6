package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserPreference holds per-user settings the note generator reads.
type UserPreference struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	LearningStyle       string     `gorm:"column:learning_style;not null;default:'reading'" json:"learning_style"`
	PreferredDifficulty Difficulty `gorm:"column:preferred_difficulty;not null;default:'intermediate'" json:"preferred_difficulty"`
	NoteLength          string     `gorm:"column:note_length;not null;default:'medium'" json:"note_length"`
	IncludeExamples     bool       `gorm:"column:include_examples;not null" json:"include_examples"`
	IncludeDiagrams     bool       `gorm:"column:include_diagrams;not null" json:"include_diagrams"`
	Language            string     `gorm:"column:language;not null;default:'en'" json:"language"`
	CreatedAt           time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time  `gorm:"not null" json:"updated_at"`
}

func (UserPreference) TableName() string { return "user_preference" }

func (p *UserPreference) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

var (
	LearningStyles = []string{"visual", "auditory", "reading", "kinesthetic"}
	NoteLengths    = []string{"short", "medium", "long"}
)

// DefaultUserPreference is what a user gets before they ever save preferences.
func DefaultUserPreference(userID uuid.UUID) *UserPreference {
	return &UserPreference{
		UserID:              userID,
		LearningStyle:       "reading",
		PreferredDifficulty: DifficultyIntermediate,
		NoteLength:          "medium",
		IncludeExamples:     true,
		IncludeDiagrams:     false,
		Language:            "en",
	}
}

func ValidLearningStyle(s string) bool { return contains(LearningStyles, s) }
func ValidNoteLength(s string) bool    { return contains(NoteLengths, s) }

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
