package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studynotes-backend/internal/http/response"
	"github.com/yungbote/studynotes-backend/internal/services"
)

type PreferenceHandler struct {
	prefs services.PreferenceService
}

func NewPreferenceHandler(prefs services.PreferenceService) *PreferenceHandler {
	return &PreferenceHandler{prefs: prefs}
}

// GET /api/preferences
func (h *PreferenceHandler) GetPreferences(c *gin.Context) {
	pref, err := h.prefs.Get(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": pref})
}

// PUT /api/preferences
func (h *PreferenceHandler) ReplacePreferences(c *gin.Context) { h.update(c, false) }

// PATCH /api/preferences
func (h *PreferenceHandler) PatchPreferences(c *gin.Context) { h.update(c, true) }

func (h *PreferenceHandler) update(c *gin.Context, partial bool) {
	var req struct {
		LearningStyle       *string `json:"learning_style"`
		PreferredDifficulty *string `json:"preferred_difficulty"`
		NoteLength          *string `json:"note_length"`
		IncludeExamples     *bool   `json:"include_examples"`
		IncludeDiagrams     *bool   `json:"include_diagrams"`
		Language            *string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBadRequest(c, err)
		return
	}
	pref, err := h.prefs.Update(c.Request.Context(), services.UpdatePreferenceInput{
		LearningStyle:       req.LearningStyle,
		PreferredDifficulty: req.PreferredDifficulty,
		NoteLength:          req.NoteLength,
		IncludeExamples:     req.IncludeExamples,
		IncludeDiagrams:     req.IncludeDiagrams,
		Language:            req.Language,
	}, partial)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"preferences": pref})
}
