package app

import (
	"fmt"

	"github.com/yungbote/studynotes-backend/internal/http"
	httpH "github.com/yungbote/studynotes-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studynotes-backend/internal/http/middleware"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Subject    *httpH.SubjectHandler
	Topic      *httpH.TopicHandler
	Generation *httpH.GenerationHandler
	Note       *httpH.NoteHandler
	Preference *httpH.PreferenceHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(),
		Auth:       httpH.NewAuthHandler(services.Auth),
		Subject:    httpH.NewSubjectHandler(services.Subject),
		Topic:      httpH.NewTopicHandler(services.Topic, services.TopicStats),
		Generation: httpH.NewGenerationHandler(log, services.NoteLifecycle),
		Note:       httpH.NewNoteHandler(services.Note),
		Preference: httpH.NewPreferenceHandler(services.Preference),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg *Config, handlers Handlers, middleware Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(fmt.Sprintf(":%d", cfg.Server.Port), http.RouterConfig{
		Log:               log,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.Server.CORSOrigins,
		HealthHandler:     handlers.Health,
		AuthHandler:       handlers.Auth,
		AuthMiddleware:    middleware.Auth,
		SubjectHandler:    handlers.Subject,
		TopicHandler:      handlers.Topic,
		GenerationHandler: handlers.Generation,
		NoteHandler:       handlers.Note,
		PreferenceHandler: handlers.Preference,
	})
}
