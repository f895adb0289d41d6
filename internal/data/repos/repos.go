package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/repos/study"
	"github.com/yungbote/studynotes-backend/internal/data/repos/user"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo

type SubjectRepo = study.SubjectRepo
type TopicRepo = study.TopicRepo
type NoteRepo = study.NoteRepo
type NoteAnalyticsRepo = study.NoteAnalyticsRepo
type UserPreferenceRepo = study.UserPreferenceRepo

type TopicFilter = study.TopicFilter
type NoteFilter = study.NoteFilter
type NoteStatRow = study.NoteStatRow
type Page = study.Page

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }

func NewSubjectRepo(db *gorm.DB, log *logger.Logger) SubjectRepo {
	return study.NewSubjectRepo(db, log)
}
func NewTopicRepo(db *gorm.DB, log *logger.Logger) TopicRepo { return study.NewTopicRepo(db, log) }
func NewNoteRepo(db *gorm.DB, log *logger.Logger) NoteRepo   { return study.NewNoteRepo(db, log) }
func NewNoteAnalyticsRepo(db *gorm.DB, log *logger.Logger) NoteAnalyticsRepo {
	return study.NewNoteAnalyticsRepo(db, log)
}
func NewUserPreferenceRepo(db *gorm.DB, log *logger.Logger) UserPreferenceRepo {
	return study.NewUserPreferenceRepo(db, log)
}
