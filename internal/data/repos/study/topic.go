package study

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

var topicOrderings = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"title":      true,
}

// TopicFilter scopes a topic listing. UserID is required.
type TopicFilter struct {
	UserID     uuid.UUID
	SubjectID  *uuid.UUID
	Difficulty types.Difficulty
	Status     types.TopicStatus
	Search     string
	Ordering   string
	Page       Page
}

type TopicRepo interface {
	Create(dbc dbctx.Context, t *types.StudyTopic) (*types.StudyTopic, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudyTopic, error)
	GetByIDForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.StudyTopic, error)
	List(dbc dbctx.Context, f TopicFilter) ([]*types.StudyTopic, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error
	CompareAndSetStatus(dbc dbctx.Context, id uuid.UUID, from, to types.TopicStatus) (bool, error)
	DeleteByID(dbc dbctx.Context, id uuid.UUID) error
	CountByStatus(dbc dbctx.Context, userID uuid.UUID) (map[types.TopicStatus]int64, error)
	CountByDifficulty(dbc dbctx.Context, userID uuid.UUID) (map[types.Difficulty]int64, error)
	ListStuckProcessing(dbc dbctx.Context, updatedBefore time.Time) ([]*types.StudyTopic, error)
}

type topicRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTopicRepo(db *gorm.DB, baseLog *logger.Logger) TopicRepo {
	return &topicRepo{db: db, log: baseLog.With("repo", "TopicRepo")}
}

func (r *topicRepo) Create(dbc dbctx.Context, t *types.StudyTopic) (*types.StudyTopic, error) {
	if t == nil {
		return nil, nil
	}
	if err := dbc.Resolve(r.db).Omit("Subject").Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *topicRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.StudyTopic, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.StudyTopic
	if err := dbc.Resolve(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// GetByIDForUser returns nil when the topic does not exist or belongs to someone else.
func (r *topicRepo) GetByIDForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.StudyTopic, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var row types.StudyTopic
	if err := dbc.Resolve(r.db).
		Preload("Subject").
		Where("id = ? AND user_id = ?", id, userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *topicRepo) List(dbc dbctx.Context, f TopicFilter) ([]*types.StudyTopic, error) {
	order, err := orderBy(types.StudyTopic{}.TableName(), f.Ordering, "-created_at", topicOrderings)
	if err != nil {
		return nil, err
	}
	q := dbc.Resolve(r.db).
		Preload("Subject").
		Where("user_id = ?", f.UserID)
	if f.SubjectID != nil {
		q = q.Where("subject_id = ?", *f.SubjectID)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where("(LOWER(title) LIKE ?"+likeEscape+" OR LOWER(description) LIKE ?"+likeEscape+")", p, p)
	}

	var out []*types.StudyTopic
	if err := f.Page.apply(q.Clauses(order)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *topicRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	updates := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now().UTC()
	return dbc.Resolve(r.db).
		Model(&types.StudyTopic{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CompareAndSetStatus moves the topic to `to` only if it is currently `from`.
// It reports false when another writer changed the status first.
func (r *topicRepo) CompareAndSetStatus(dbc dbctx.Context, id uuid.UUID, from, to types.TopicStatus) (bool, error) {
	res := dbc.Resolve(r.db).
		Model(&types.StudyTopic{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *topicRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.Resolve(r.db).Where("id = ?", id).Delete(&types.StudyTopic{}).Error
}

type countRow struct {
	Bucket string
	Count  int64
}

func (r *topicRepo) countBy(dbc dbctx.Context, userID uuid.UUID, column string) ([]countRow, error) {
	var rows []countRow
	err := dbc.Resolve(r.db).
		Model(&types.StudyTopic{}).
		Select(column+" AS bucket, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group(column).
		Scan(&rows).Error
	return rows, err
}

// CountByStatus returns a count for every status, zero-filled.
func (r *topicRepo) CountByStatus(dbc dbctx.Context, userID uuid.UUID) (map[types.TopicStatus]int64, error) {
	rows, err := r.countBy(dbc, userID, "status")
	if err != nil {
		return nil, err
	}
	out := make(map[types.TopicStatus]int64, 4)
	for _, s := range types.TopicStatuses {
		out[s] = 0
	}
	for _, row := range rows {
		out[types.TopicStatus(row.Bucket)] += row.Count
	}
	return out, nil
}

// CountByDifficulty returns a count for every difficulty, zero-filled.
func (r *topicRepo) CountByDifficulty(dbc dbctx.Context, userID uuid.UUID) (map[types.Difficulty]int64, error) {
	rows, err := r.countBy(dbc, userID, "difficulty")
	if err != nil {
		return nil, err
	}
	out := make(map[types.Difficulty]int64, 3)
	for _, d := range types.Difficulties {
		out[d] = 0
	}
	for _, row := range rows {
		out[types.Difficulty(row.Bucket)] += row.Count
	}
	return out, nil
}

func (r *topicRepo) ListStuckProcessing(dbc dbctx.Context, updatedBefore time.Time) ([]*types.StudyTopic, error) {
	var out []*types.StudyTopic
	if err := dbc.Resolve(r.db).
		Where("status = ? AND updated_at < ?", types.TopicStatusProcessing, updatedBefore).
		Order("updated_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
