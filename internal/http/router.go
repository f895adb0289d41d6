package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/studynotes-backend/internal/http/handlers"
	httpMW "github.com/yungbote/studynotes-backend/internal/http/middleware"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string

	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	SubjectHandler    *httpH.SubjectHandler
	TopicHandler      *httpH.TopicHandler
	GenerationHandler *httpH.GenerationHandler
	NoteHandler       *httpH.NoteHandler
	PreferenceHandler *httpH.PreferenceHandler

	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
		}

		// Subjects (public)
		if cfg.SubjectHandler != nil {
			api.GET("/subjects", cfg.SubjectHandler.ListSubjects)
		}
	}

	protected := api.Group("/")
	{
		// Middleware
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		// Topics
		if cfg.TopicHandler != nil {
			protected.GET("/topics", cfg.TopicHandler.ListTopics)
			protected.POST("/topics", cfg.TopicHandler.CreateTopic)
			protected.GET("/topics/analytics", cfg.TopicHandler.TopicAnalytics)
			protected.GET("/topics/:id", cfg.TopicHandler.GetTopic)
			protected.PUT("/topics/:id", cfg.TopicHandler.ReplaceTopic)
			protected.PATCH("/topics/:id", cfg.TopicHandler.PatchTopic)
			protected.DELETE("/topics/:id", cfg.TopicHandler.DeleteTopic)
		}

		// Note generation
		if cfg.GenerationHandler != nil {
			protected.POST("/topics/:id/generate", cfg.GenerationHandler.GenerateNotes)
			protected.POST("/topics/:id/regenerate", cfg.GenerationHandler.RegenerateNotes)
		}

		// Notes
		if cfg.NoteHandler != nil {
			protected.GET("/notes", cfg.NoteHandler.ListNotes)
			protected.GET("/notes/:id", cfg.NoteHandler.GetNote)
			protected.GET("/notes/:id/export", cfg.NoteHandler.ExportNote)
			protected.POST("/notes/:id/rate", cfg.NoteHandler.RateNote)
		}

		// Preferences
		if cfg.PreferenceHandler != nil {
			protected.GET("/preferences", cfg.PreferenceHandler.GetPreferences)
			protected.PUT("/preferences", cfg.PreferenceHandler.ReplacePreferences)
			protected.PATCH("/preferences", cfg.PreferenceHandler.PatchPreferences)
		}
	}

	return r
}
