package study

import (
	"errors"
	"fmt"

	pkgerrors "github.com/yungbote/studynotes-backend/internal/pkg/errors"
)

var (
	ErrNotFound   = pkgerrors.ErrNotFound
	ErrValidation = pkgerrors.ErrInvalidArgument

	// ErrInvalidTransition is returned for status moves outside the lifecycle table,
	// including moves that lost a compare-and-set race.
	ErrInvalidTransition error = &kindError{msg: "invalid status transition", kind: pkgerrors.ErrConflict}

	ErrNoteAlreadyExists error = &kindError{msg: "Notes already exist for this topic", kind: pkgerrors.ErrInvalidArgument}
	ErrRatingOutOfRange  error = &kindError{msg: "Rating must be between 1 and 5", kind: pkgerrors.ErrInvalidArgument}

	ErrTopicNotFound   error = &kindError{msg: "Topic not found", kind: pkgerrors.ErrNotFound}
	ErrNoteNotFound    error = &kindError{msg: "Note not found", kind: pkgerrors.ErrNotFound}
	ErrSubjectNotFound error = &kindError{msg: "Subject not found", kind: pkgerrors.ErrNotFound}
)

// kindError carries a client-facing message and unwraps to a generic sentinel.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Invalid builds a validation error with a client-facing message.
func Invalid(format string, args ...any) error {
	return &kindError{msg: fmt.Sprintf(format, args...), kind: pkgerrors.ErrInvalidArgument}
}

const (
	OpGenerate   = "generate"
	OpRegenerate = "regenerate"
)

// GenerationError wraps any failure raised while producing a note.
// The underlying detail is part of the message.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e == nil {
		return ""
	}
	op := e.Op
	if op == "" {
		op = OpGenerate
	}
	return fmt.Sprintf("Failed to %s notes: %v", op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
