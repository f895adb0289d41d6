package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/platform/logger"
	"github.com/yungbote/studynotes-backend/internal/services"
)

type Services struct {
	Auth          services.AuthService
	Subject       services.SubjectService
	Topic         services.TopicService
	TopicStats    services.TopicAnalyticsService
	Note          services.NoteService
	Preference    services.PreferenceService
	NoteLifecycle services.NoteLifecycleService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg *Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")
	return Services{
		Auth:       services.NewAuthService(db, log, r.User, cfg.Auth.JWTSecret, cfg.Auth.AccessTTL),
		Subject:    services.NewSubjectService(db, log, r.Subject),
		Topic:      services.NewTopicService(db, log, r.Topic, r.Subject, r.Note),
		TopicStats: services.NewTopicAnalyticsService(log, r.Topic, r.Note),
		Note:       services.NewNoteService(db, log, r.Note, r.NoteAnalytics),
		Preference: services.NewPreferenceService(db, log, r.Preference),
		NoteLifecycle: services.NewNoteLifecycleService(
			db, log,
			r.Topic, r.Note, r.NoteAnalytics, r.Preference,
			c.Generator,
			c.TopicEvents,
		),
	}
}
