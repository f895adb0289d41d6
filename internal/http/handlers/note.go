package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/http/response"
	"github.com/yungbote/studynotes-backend/internal/services"
)

type NoteHandler struct {
	notes services.NoteService
}

func NewNoteHandler(notes services.NoteService) *NoteHandler {
	return &NoteHandler{notes: notes}
}

// GET /api/notes
func (h *NoteHandler) ListNotes(c *gin.Context) {
	limit, offset, err := pageParams(c)
	if err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	rows, err := h.notes.List(c.Request.Context(), services.NoteQuery{
		AIModelUsed: c.Query("ai_model_used"),
		Search:      c.Query("search"),
		Ordering:    c.Query("ordering"),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"notes": rows})
}

// GET /api/notes/:id
func (h *NoteHandler) GetNote(c *gin.Context) {
	id, ok := pathID(c, "id", study.ErrNoteNotFound)
	if !ok {
		return
	}
	note, err := h.notes.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"note": note})
}

// POST /api/notes/:id/rate
func (h *NoteHandler) RateNote(c *gin.Context) {
	id, ok := pathID(c, "id", study.ErrNoteNotFound)
	if !ok {
		return
	}
	var req struct {
		Rating json.RawMessage `json:"rating"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	// Anything that is not a whole number is passed on as 0 so ownership is checked first.
	analytics, err := h.notes.Rate(c.Request.Context(), id, parseRating(req.Rating))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"message":   "Rating saved successfully",
		"analytics": analytics,
	})
}

// GET /api/notes/:id/export?format=markdown|html|pdf
func (h *NoteHandler) ExportNote(c *gin.Context) {
	id, ok := pathID(c, "id", study.ErrNoteNotFound)
	if !ok {
		return
	}
	out, err := h.notes.Export(c.Request.Context(), id, c.DefaultQuery("format", services.ExportFormatMarkdown))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Body)
}

func parseRating(raw json.RawMessage) int {
	var f float64
	if len(raw) == 0 || json.Unmarshal(raw, &f) != nil {
		return 0
	}
	if f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}
