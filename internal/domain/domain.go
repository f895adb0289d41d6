package domain

import (
	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/domain/user"
)

type User = user.User

type Subject = study.Subject
type StudyTopic = study.StudyTopic
type StudyNote = study.StudyNote
type NoteAnalytics = study.NoteAnalytics
type UserPreference = study.UserPreference
type TopicStatusEvent = study.TopicStatusEvent

type TopicStatus = study.TopicStatus
type Difficulty = study.Difficulty

const (
	TopicStatusPending    = study.TopicStatusPending
	TopicStatusProcessing = study.TopicStatusProcessing
	TopicStatusCompleted  = study.TopicStatusCompleted
	TopicStatusFailed     = study.TopicStatusFailed

	DifficultyBeginner     = study.DifficultyBeginner
	DifficultyIntermediate = study.DifficultyIntermediate
	DifficultyAdvanced     = study.DifficultyAdvanced
)

var (
	TopicStatuses = study.TopicStatuses
	Difficulties  = study.Difficulties

	DefaultUserPreference = study.DefaultUserPreference
)

type GenerationError = study.GenerationError

// AllModels lists every persisted type in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&Subject{},
		&StudyTopic{},
		&StudyNote{},
		&NoteAnalytics{},
		&UserPreference{},
	}
}
