package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/studynotes-backend/internal/platform/apierr"
)

const internalMessage = "internal server error"

// RespondServiceError maps a service error to its HTTP status and writes the envelope.
// Unclassified 500s never leak their cause; generation failures do.
func RespondServiceError(c *gin.Context, err error) {
	ae := apierr.FromError(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", errors.New(internalMessage))
		return
	}
	_ = c.Error(err)
	if ae.Status == http.StatusInternalServerError && ae.Code == "internal_error" {
		RespondError(c, ae.Status, ae.Code, errors.New(internalMessage))
		return
	}
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

// RespondBadRequest reports a malformed body or parameter.
func RespondBadRequest(c *gin.Context, err error) {
	RespondError(c, http.StatusBadRequest, "invalid_request", err)
}
