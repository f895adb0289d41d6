package study

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

var noteOrderings = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"word_count": true,
}

// NoteFilter scopes a note listing to the topics a user owns.
type NoteFilter struct {
	UserID      uuid.UUID
	AIModelUsed string
	Search      string
	Ordering    string
	Page        Page
}

// NoteStatRow is the per-note slice of data the analytics summary aggregates.
type NoteStatRow struct {
	WordCount          int
	ReadingTimeMinutes int
	ViewsCount         int64
	UserRating         *int
}

type NoteRepo interface {
	Create(dbc dbctx.Context, n *types.StudyNote) (*types.StudyNote, error)
	GetByIDForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.StudyNote, error)
	GetByTopicID(dbc dbctx.Context, topicID uuid.UUID) (*types.StudyNote, error)
	ExistsForTopic(dbc dbctx.Context, topicID uuid.UUID) (bool, error)
	List(dbc dbctx.Context, f NoteFilter) ([]*types.StudyNote, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	StatRows(dbc dbctx.Context, userID uuid.UUID) ([]NoteStatRow, error)
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

const joinNoteTopic = "JOIN study_topic ON study_topic.id = study_note.topic_id"

func (r *noteRepo) Create(dbc dbctx.Context, n *types.StudyNote) (*types.StudyNote, error) {
	if n == nil {
		return nil, nil
	}
	if err := dbc.Resolve(r.db).Omit("Topic", "Analytics").Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// GetByIDForUser returns nil unless the note's topic belongs to userID.
func (r *noteRepo) GetByIDForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.StudyNote, error) {
	if id == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var row types.StudyNote
	if err := dbc.Resolve(r.db).
		Preload("Topic").
		Preload("Topic.Subject").
		Preload("Analytics").
		Joins(joinNoteTopic).
		Where("study_note.id = ? AND study_topic.user_id = ?", id, userID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *noteRepo) GetByTopicID(dbc dbctx.Context, topicID uuid.UUID) (*types.StudyNote, error) {
	if topicID == uuid.Nil {
		return nil, nil
	}
	var row types.StudyNote
	if err := dbc.Resolve(r.db).
		Preload("Analytics").
		Where("topic_id = ?", topicID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *noteRepo) ExistsForTopic(dbc dbctx.Context, topicID uuid.UUID) (bool, error) {
	var count int64
	if err := dbc.Resolve(r.db).
		Model(&types.StudyNote{}).
		Where("topic_id = ?", topicID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *noteRepo) List(dbc dbctx.Context, f NoteFilter) ([]*types.StudyNote, error) {
	order, err := orderBy(types.StudyNote{}.TableName(), f.Ordering, "-created_at", noteOrderings)
	if err != nil {
		return nil, err
	}
	q := dbc.Resolve(r.db).
		Preload("Topic").
		Preload("Analytics").
		Joins(joinNoteTopic).
		Where("study_topic.user_id = ?", f.UserID)
	if f.AIModelUsed != "" {
		q = q.Where("study_note.ai_model_used = ?", f.AIModelUsed)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(
			"(LOWER(study_topic.title) LIKE ?"+likeEscape+
				" OR LOWER(study_note.content) LIKE ?"+likeEscape+
				" OR LOWER(study_note.summary) LIKE ?"+likeEscape+")",
			p, p, p,
		)
	}

	var out []*types.StudyNote
	if err := f.Page.apply(q.Clauses(order)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteByIDs hard-deletes notes together with their analytics rows.
// Callers wanting atomicity pass a transaction.
func (r *noteRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	t := dbc.Resolve(r.db)
	if err := t.Where("note_id IN ?", ids).Delete(&types.NoteAnalytics{}).Error; err != nil {
		return err
	}
	return t.Where("id IN ?", ids).Delete(&types.StudyNote{}).Error
}

func (r *noteRepo) StatRows(dbc dbctx.Context, userID uuid.UUID) ([]NoteStatRow, error) {
	var rows []NoteStatRow
	err := dbc.Resolve(r.db).
		Model(&types.StudyNote{}).
		Select("study_note.word_count, study_note.reading_time_minutes, " +
			"COALESCE(note_analytics.views_count, 0) AS views_count, note_analytics.user_rating").
		Joins(joinNoteTopic).
		Joins("LEFT JOIN note_analytics ON note_analytics.note_id = study_note.id").
		Where("study_topic.user_id = ?", userID).
		Scan(&rows).Error
	return rows, err
}
