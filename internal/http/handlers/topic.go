package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/http/response"
	"github.com/yungbote/studynotes-backend/internal/services"
)

type TopicHandler struct {
	topics    services.TopicService
	analytics services.TopicAnalyticsService
}

func NewTopicHandler(topics services.TopicService, analytics services.TopicAnalyticsService) *TopicHandler {
	return &TopicHandler{topics: topics, analytics: analytics}
}

type topicRequest struct {
	Subject     *uuid.UUID `json:"subject"`
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Difficulty  *string    `json:"difficulty"`
}

func (r topicRequest) update() services.UpdateTopicInput {
	return services.UpdateTopicInput{
		SubjectID:   r.Subject,
		Title:       r.Title,
		Description: r.Description,
		Difficulty:  r.Difficulty,
	}
}

// GET /api/topics
func (h *TopicHandler) ListTopics(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	rows, err := h.topics.List(c.Request.Context(), services.TopicQuery{
		Subject:    c.Query("subject"),
		Difficulty: c.Query("difficulty"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		Ordering:   c.Query("ordering"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topics": rows})
}

// POST /api/topics
func (h *TopicHandler) CreateTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	in := services.CreateTopicInput{}
	if req.Subject != nil {
		in.SubjectID = *req.Subject
	}
	if req.Title != nil {
		in.Title = *req.Title
	}
	if req.Description != nil {
		in.Description = *req.Description
	}
	if req.Difficulty != nil {
		in.Difficulty = *req.Difficulty
	}
	topic, err := h.topics.Create(c.Request.Context(), in)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"topic": topic})
}

// GET /api/topics/:id
func (h *TopicHandler) GetTopic(c *gin.Context) {
	id, ok := pathID(c, "id", study.ErrTopicNotFound)
	if !ok {
		return
	}
	topic, err := h.topics.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic": topic})
}

// PUT /api/topics/:id
func (h *TopicHandler) ReplaceTopic(c *gin.Context) { h.update(c, false) }

// PATCH /api/topics/:id
func (h *TopicHandler) PatchTopic(c *gin.Context) { h.update(c, true) }

func (h *TopicHandler) update(c *gin.Context, partial bool) {
	id, ok := pathID(c, "id", study.ErrTopicNotFound)
	if !ok {
		return
	}
	var req struct {
		topicRequest
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	if req.Status != nil {
		response.RespondBadRequest(c, errors.New("status is read-only"))
		return
	}
	topic, err := h.topics.Update(c.Request.Context(), id, req.update(), partial)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"topic": topic})
}

// DELETE /api/topics/:id
func (h *TopicHandler) DeleteTopic(c *gin.Context) {
	id, ok := pathID(c, "id", study.ErrTopicNotFound)
	if !ok {
		return
	}
	if err := h.topics.Delete(c.Request.Context(), id); err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondNoContent(c)
}

// GET /api/topics/analytics
func (h *TopicHandler) TopicAnalytics(c *gin.Context) {
	out, err := h.analytics.Summary(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
