package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

// UpdatePreferenceInput carries requested changes. Nil fields are left alone on
// a partial update and reset to their defaults on a full one.
type UpdatePreferenceInput struct {
	LearningStyle       *string
	PreferredDifficulty *string
	NoteLength          *string
	IncludeExamples     *bool
	IncludeDiagrams     *bool
	Language            *string
}

type PreferenceService interface {
	Get(ctx context.Context) (*types.UserPreference, error)
	Update(ctx context.Context, in UpdatePreferenceInput, partial bool) (*types.UserPreference, error)
}

type preferenceService struct {
	db       *gorm.DB
	log      *logger.Logger
	prefRepo repos.UserPreferenceRepo
}

func NewPreferenceService(db *gorm.DB, log *logger.Logger, prefRepo repos.UserPreferenceRepo) PreferenceService {
	return &preferenceService{
		db:       db,
		log:      log.With("service", "PreferenceService"),
		prefRepo: prefRepo,
	}
}

func (s *preferenceService) Get(ctx context.Context) (*types.UserPreference, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	pref, err := s.prefRepo.FindOrInit(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	return pref, nil
}

func (s *preferenceService) Update(ctx context.Context, in UpdatePreferenceInput, partial bool) (*types.UserPreference, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}

	var out *types.UserPreference
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		pref, err := s.prefRepo.FindOrInit(inner, userID)
		if err != nil {
			return fmt.Errorf("load preferences: %w", err)
		}
		if !partial {
			def := types.DefaultUserPreference(userID)
			def.ID, def.CreatedAt = pref.ID, pref.CreatedAt
			pref = def
		}
		if err := applyPreferenceInput(pref, in); err != nil {
			return err
		}
		if err := s.prefRepo.Save(inner, pref); err != nil {
			return fmt.Errorf("save preferences: %w", err)
		}
		out, err = s.prefRepo.GetByUserID(inner, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func applyPreferenceInput(pref *types.UserPreference, in UpdatePreferenceInput) error {
	if in.LearningStyle != nil {
		v := strings.ToLower(strings.TrimSpace(*in.LearningStyle))
		if !study.ValidLearningStyle(v) {
			return study.Invalid("invalid learning_style %q", *in.LearningStyle)
		}
		pref.LearningStyle = v
	}
	if in.PreferredDifficulty != nil {
		d, err := study.ParseDifficulty(*in.PreferredDifficulty)
		if err != nil {
			return err
		}
		pref.PreferredDifficulty = d
	}
	if in.NoteLength != nil {
		v := strings.ToLower(strings.TrimSpace(*in.NoteLength))
		if !study.ValidNoteLength(v) {
			return study.Invalid("invalid note_length %q", *in.NoteLength)
		}
		pref.NoteLength = v
	}
	if in.IncludeExamples != nil {
		pref.IncludeExamples = *in.IncludeExamples
	}
	if in.IncludeDiagrams != nil {
		pref.IncludeDiagrams = *in.IncludeDiagrams
	}
	if in.Language != nil {
		v := strings.TrimSpace(*in.Language)
		if v == "" || len(v) > 10 {
			return study.Invalid("language must be between 1 and 10 characters")
		}
		pref.Language = v
	}
	return nil
}
