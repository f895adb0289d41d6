package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
	pkgerrors "github.com/yungbote/studynotes-backend/internal/pkg/errors"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"topic missing", study.ErrTopicNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("load: %w", pkgerrors.ErrNotFound), http.StatusNotFound, "not_found"},
		{"validation", study.Invalid("title is required"), http.StatusBadRequest, "invalid_request"},
		{"note exists", study.ErrNoteAlreadyExists, http.StatusBadRequest, "note_exists"},
		{"rating", study.ErrRatingOutOfRange, http.StatusBadRequest, "invalid_rating"},
		{"transition", study.ErrInvalidTransition, http.StatusConflict, "invalid_status_transition"},
		{"conflict", pkgerrors.ErrConflict, http.StatusConflict, "conflict"},
		{"unauthorized", pkgerrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"generation", &study.GenerationError{Op: study.OpGenerate, Err: errors.New("boom")}, http.StatusInternalServerError, "generation_failed"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ae := FromError(tc.err)
			require.NotNil(t, ae)
			assert.Equal(t, tc.status, ae.Status)
			assert.Equal(t, tc.code, ae.Code)
			assert.ErrorIs(t, ae, tc.err)
		})
	}
}

func TestFromErrorPassesThroughAPIError(t *testing.T) {
	orig := New(http.StatusTeapot, "teapot", errors.New("short and stout"))
	assert.Same(t, orig, FromError(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, FromError(nil))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", New(500, "x", errors.New("boom")).Error())
	assert.Equal(t, "teapot", New(418, "teapot", nil).Error())
	assert.Equal(t, "api error (418)", New(418, "", nil).Error())
	assert.Equal(t, "api error", (&Error{}).Error())
}
