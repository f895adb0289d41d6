package apierr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
	pkgerrors "github.com/yungbote/studynotes-backend/internal/pkg/errors"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// FromError classifies a service error into an HTTP status and code.
// Unknown errors map to 500.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	if study.IsGenerationError(err) {
		return New(http.StatusInternalServerError, "generation_failed", err)
	}
	switch {
	case errors.Is(err, study.ErrInvalidTransition):
		return New(http.StatusConflict, "invalid_status_transition", err)
	case errors.Is(err, study.ErrNoteAlreadyExists):
		return New(http.StatusBadRequest, "note_exists", err)
	case errors.Is(err, study.ErrRatingOutOfRange):
		return New(http.StatusBadRequest, "invalid_rating", err)
	case errors.Is(err, pkgerrors.ErrNotFound):
		return New(http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		return New(http.StatusBadRequest, "invalid_request", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		return New(http.StatusConflict, "conflict", err)
	case errors.Is(err, pkgerrors.ErrUnauthorized):
		return New(http.StatusUnauthorized, "unauthorized", err)
	}
	return New(http.StatusInternalServerError, "internal_error", err)
}
