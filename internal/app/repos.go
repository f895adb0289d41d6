package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type Repos struct {
	User          repos.UserRepo
	Subject       repos.SubjectRepo
	Topic         repos.TopicRepo
	Note          repos.NoteRepo
	NoteAnalytics repos.NoteAnalyticsRepo
	Preference    repos.UserPreferenceRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:          repos.NewUserRepo(db, log),
		Subject:       repos.NewSubjectRepo(db, log),
		Topic:         repos.NewTopicRepo(db, log),
		Note:          repos.NewNoteRepo(db, log),
		NoteAnalytics: repos.NewNoteAnalyticsRepo(db, log),
		Preference:    repos.NewUserPreferenceRepo(db, log),
	}
}
