package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/http/response"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
	"github.com/yungbote/studynotes-backend/internal/services"
)

type GenerationHandler struct {
	log       *logger.Logger
	lifecycle services.NoteLifecycleService
}

func NewGenerationHandler(log *logger.Logger, lifecycle services.NoteLifecycleService) *GenerationHandler {
	return &GenerationHandler{log: log.With("handler", "GenerationHandler"), lifecycle: lifecycle}
}

// POST /api/topics/:id/generate
func (h *GenerationHandler) GenerateNotes(c *gin.Context) {
	id, ok := pathID(c, "id", study.ErrTopicNotFound)
	if !ok {
		return
	}
	note, err := h.lifecycle.Generate(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"message": "Study notes generated successfully",
		"note":    note,
	})
}

// POST /api/topics/:id/regenerate
func (h *GenerationHandler) RegenerateNotes(c *gin.Context) {
	id, ok := pathID(c, "id", study.ErrTopicNotFound)
	if !ok {
		return
	}
	note, err := h.lifecycle.Regenerate(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{
		"message": "Study notes regenerated successfully",
		"note":    note,
	})
}
