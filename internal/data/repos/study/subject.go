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

type SubjectRepo interface {
	List(dbc dbctx.Context) ([]*types.Subject, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error)
	UpsertByName(dbc dbctx.Context, rows []*types.Subject) error
}

type subjectRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubjectRepo(db *gorm.DB, baseLog *logger.Logger) SubjectRepo {
	return &subjectRepo{db: db, log: baseLog.With("repo", "SubjectRepo")}
}

func (r *subjectRepo) List(dbc dbctx.Context) ([]*types.Subject, error) {
	var out []*types.Subject
	if err := dbc.Resolve(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subjectRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Subject, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Subject
	if err := dbc.Resolve(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// UpsertByName inserts subjects, refreshing the description of names that already exist.
func (r *subjectRepo) UpsertByName(dbc dbctx.Context, rows []*types.Subject) error {
	if len(rows) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, s := range rows {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		s.UpdatedAt = now
	}
	return dbc.Resolve(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "updated_at"}),
		}).
		Create(&rows).Error
}
