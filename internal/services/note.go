package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type NoteQuery struct {
	AIModelUsed string
	Search      string
	Ordering    string
	Limit       int
	Offset      int
}

type NoteService interface {
	List(ctx context.Context, q NoteQuery) ([]*types.StudyNote, error)
	// Get returns the note and records one view against it.
	Get(ctx context.Context, id uuid.UUID) (*types.StudyNote, error)
	Rate(ctx context.Context, id uuid.UUID, rating int) (*types.NoteAnalytics, error)
	Export(ctx context.Context, id uuid.UUID, format string) (*NoteExport, error)
}

type noteService struct {
	db            *gorm.DB
	log           *logger.Logger
	noteRepo      repos.NoteRepo
	analyticsRepo repos.NoteAnalyticsRepo
	now           func() time.Time
}

func NewNoteService(db *gorm.DB, log *logger.Logger, noteRepo repos.NoteRepo, analyticsRepo repos.NoteAnalyticsRepo) NoteService {
	return &noteService{
		db:            db,
		log:           log.With("service", "NoteService"),
		noteRepo:      noteRepo,
		analyticsRepo: analyticsRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *noteService) List(ctx context.Context, q NoteQuery) ([]*types.StudyNote, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, study.Invalid("limit and offset must not be negative")
	}
	rows, err := s.noteRepo.List(dbctx.Context{Ctx: ctx}, repos.NoteFilter{
		UserID:      userID,
		AIModelUsed: strings.TrimSpace(q.AIModelUsed),
		Search:      strings.TrimSpace(q.Search),
		Ordering:    strings.TrimSpace(q.Ordering),
		Page:        repos.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return rows, nil
}

func (s *noteService) Get(ctx context.Context, id uuid.UUID) (*types.StudyNote, error) {
	note, err := s.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.analyticsRepo.FindOrInit(inner, note.ID); err != nil {
			return fmt.Errorf("init analytics: %w", err)
		}
		if err := s.analyticsRepo.RecordView(inner, note.ID, s.now()); err != nil {
			return fmt.Errorf("record view: %w", err)
		}
		analytics, err := s.analyticsRepo.GetByNoteID(inner, note.ID)
		if err != nil {
			return fmt.Errorf("reload analytics: %w", err)
		}
		note.Analytics = analytics
		return nil
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// Rate overwrites the note's rating. The range check runs before any row is touched.
func (s *noteService) Rate(ctx context.Context, id uuid.UUID, rating int) (*types.NoteAnalytics, error) {
	note, err := s.loadOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	if !study.ValidRating(rating) {
		return nil, study.ErrRatingOutOfRange
	}
	var out *types.NoteAnalytics
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.analyticsRepo.FindOrInit(inner, note.ID); err != nil {
			return fmt.Errorf("init analytics: %w", err)
		}
		if err := s.analyticsRepo.SetRating(inner, note.ID, rating); err != nil {
			return fmt.Errorf("set rating: %w", err)
		}
		out, err = s.analyticsRepo.GetByNoteID(inner, note.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *noteService) loadOwned(ctx context.Context, id uuid.UUID) (*types.StudyNote, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	note, err := s.noteRepo.GetByIDForUser(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load note: %w", err)
	}
	if note == nil {
		return nil, study.ErrNoteNotFound
	}
	return note, nil
}
