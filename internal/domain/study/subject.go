package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subject is a global, read-only category of study content.
type Subject struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name" yaml:"name"`
	Description string    `gorm:"column:description;type:text" json:"description" yaml:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at" yaml:"-"`
}

func (Subject) TableName() string { return "subject" }

func (s *Subject) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
