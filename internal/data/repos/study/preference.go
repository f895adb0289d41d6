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

type UserPreferenceRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserPreference, error)
	FindOrInit(dbc dbctx.Context, userID uuid.UUID) (*types.UserPreference, error)
	Save(dbc dbctx.Context, row *types.UserPreference) error
}

type userPreferenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserPreferenceRepo(db *gorm.DB, baseLog *logger.Logger) UserPreferenceRepo {
	return &userPreferenceRepo{db: db, log: baseLog.With("repo", "UserPreferenceRepo")}
}

func (r *userPreferenceRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserPreference, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var row types.UserPreference
	if err := dbc.Resolve(r.db).Where("user_id = ?", userID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// FindOrInit returns the user's preferences, inserting defaults on first use.
func (r *userPreferenceRepo) FindOrInit(dbc dbctx.Context, userID uuid.UUID) (*types.UserPreference, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	row := types.DefaultUserPreference(userID)
	row.ID = uuid.New()
	if err := dbc.Resolve(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(row).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, userID)
}

// Save writes every settings column, including false booleans.
func (r *userPreferenceRepo) Save(dbc dbctx.Context, row *types.UserPreference) error {
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	row.UpdatedAt = time.Now().UTC()
	return dbc.Resolve(r.db).
		Model(&types.UserPreference{}).
		Where("id = ?", row.ID).
		Updates(map[string]any{
			"learning_style":       row.LearningStyle,
			"preferred_difficulty": row.PreferredDifficulty,
			"note_length":          row.NoteLength,
			"include_examples":     row.IncludeExamples,
			"include_diagrams":     row.IncludeDiagrams,
			"language":             row.Language,
			"updated_at":           row.UpdatedAt,
		}).Error
}
