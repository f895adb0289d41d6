package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type NoteAnalyticsRepo interface {
	Create(dbc dbctx.Context, a *types.NoteAnalytics) (*types.NoteAnalytics, error)
	GetByNoteID(dbc dbctx.Context, noteID uuid.UUID) (*types.NoteAnalytics, error)
	FindOrInit(dbc dbctx.Context, noteID uuid.UUID) (*types.NoteAnalytics, error)
	RecordView(dbc dbctx.Context, noteID uuid.UUID, at time.Time) error
	SetRating(dbc dbctx.Context, noteID uuid.UUID, rating int) error
}

type noteAnalyticsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteAnalyticsRepo(db *gorm.DB, baseLog *logger.Logger) NoteAnalyticsRepo {
	return &noteAnalyticsRepo{db: db, log: baseLog.With("repo", "NoteAnalyticsRepo")}
}

func (r *noteAnalyticsRepo) Create(dbc dbctx.Context, a *types.NoteAnalytics) (*types.NoteAnalytics, error) {
	if a == nil {
		return nil, nil
	}
	if err := dbc.Resolve(r.db).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

func (r *noteAnalyticsRepo) GetByNoteID(dbc dbctx.Context, noteID uuid.UUID) (*types.NoteAnalytics, error) {
	if noteID == uuid.Nil {
		return nil, nil
	}
	var row types.NoteAnalytics
	if err := dbc.Resolve(r.db).Where("note_id = ?", noteID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// FindOrInit returns the analytics row for noteID, inserting an empty one if absent.
// Concurrent callers converge on the same row through the unique note_id index.
func (r *noteAnalyticsRepo) FindOrInit(dbc dbctx.Context, noteID uuid.UUID) (*types.NoteAnalytics, error) {
	row := &types.NoteAnalytics{ID: uuid.New(), NoteID: noteID}
	if err := dbc.Resolve(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "note_id"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByNoteID(dbc, noteID)
}

func (r *noteAnalyticsRepo) RecordView(dbc dbctx.Context, noteID uuid.UUID, at time.Time) error {
	return dbc.Resolve(r.db).
		Model(&types.NoteAnalytics{}).
		Where("note_id = ?", noteID).
		Updates(map[string]any{
			"views_count": gorm.Expr("views_count + 1"),
			"last_viewed": at,
			"updated_at":  at,
		}).Error
}

func (r *noteAnalyticsRepo) SetRating(dbc dbctx.Context, noteID uuid.UUID, rating int) error {
	return dbc.Resolve(r.db).
		Model(&types.NoteAnalytics{}).
		Where("note_id = ?", noteID).
		Updates(map[string]any{
			"user_rating": rating,
			"updated_at":  time.Now().UTC(),
		}).Error
}
