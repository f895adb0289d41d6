package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

const maxTopicTitleLength = 200

// TopicQuery is the raw listing query as received from a client.
type TopicQuery struct {
	Subject    string
	Difficulty string
	Status     string
	Search     string
	Ordering   string
	Limit      int
	Offset     int
}

type CreateTopicInput struct {
	SubjectID   uuid.UUID
	Title       string
	Description string
	Difficulty  string
}

// UpdateTopicInput holds the writable topic fields. Nil means "not supplied".
type UpdateTopicInput struct {
	SubjectID   *uuid.UUID
	Title       *string
	Description *string
	Difficulty  *string
}

type TopicService interface {
	Create(ctx context.Context, in CreateTopicInput) (*types.StudyTopic, error)
	Get(ctx context.Context, id uuid.UUID) (*types.StudyTopic, error)
	List(ctx context.Context, q TopicQuery) ([]*types.StudyTopic, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateTopicInput, partial bool) (*types.StudyTopic, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type topicService struct {
	db          *gorm.DB
	log         *logger.Logger
	topicRepo   repos.TopicRepo
	subjectRepo repos.SubjectRepo
	noteRepo    repos.NoteRepo
}

func NewTopicService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	subjectRepo repos.SubjectRepo,
	noteRepo repos.NoteRepo,
) TopicService {
	return &topicService{
		db:          db,
		log:         log.With("service", "TopicService"),
		topicRepo:   topicRepo,
		subjectRepo: subjectRepo,
		noteRepo:    noteRepo,
	}
}

func (s *topicService) Create(ctx context.Context, in CreateTopicInput) (*types.StudyTopic, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	difficulty := types.DifficultyBeginner
	if strings.TrimSpace(in.Difficulty) != "" {
		if difficulty, err = study.ParseDifficulty(in.Difficulty); err != nil {
			return nil, err
		}
	}
	dbc := dbctx.Context{Ctx: ctx}
	if err := s.requireSubject(dbc, in.SubjectID); err != nil {
		return nil, err
	}

	topic := &types.StudyTopic{
		UserID:      userID,
		SubjectID:   in.SubjectID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Difficulty:  difficulty,
		Status:      types.TopicStatusPending,
	}
	if _, err := s.topicRepo.Create(dbc, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return s.Get(ctx, topic.ID)
}

func (s *topicService) Get(ctx context.Context, id uuid.UUID) (*types.StudyTopic, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	topic, err := s.topicRepo.GetByIDForUser(dbctx.Context{Ctx: ctx}, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load topic: %w", err)
	}
	if topic == nil {
		return nil, study.ErrTopicNotFound
	}
	return topic, nil
}

func (s *topicService) List(ctx context.Context, q TopicQuery) ([]*types.StudyTopic, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	f := repos.TopicFilter{
		UserID:   userID,
		Search:   strings.TrimSpace(q.Search),
		Ordering: strings.TrimSpace(q.Ordering),
		Page:     repos.Page{Limit: q.Limit, Offset: q.Offset},
	}
	if raw := strings.TrimSpace(q.Subject); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, study.Invalid("invalid subject id %q", raw)
		}
		f.SubjectID = &id
	}
	if raw := strings.TrimSpace(q.Difficulty); raw != "" {
		if f.Difficulty, err = study.ParseDifficulty(raw); err != nil {
			return nil, err
		}
	}
	if raw := strings.TrimSpace(q.Status); raw != "" {
		if f.Status, err = study.ParseTopicStatus(raw); err != nil {
			return nil, err
		}
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, study.Invalid("limit and offset must not be negative")
	}

	rows, err := s.topicRepo.List(dbctx.Context{Ctx: ctx}, f)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return rows, nil
}

// Update applies a full (PUT) or partial (PATCH) change. Status is never writable here.
func (s *topicService) Update(ctx context.Context, id uuid.UUID, in UpdateTopicInput, partial bool) (*types.StudyTopic, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	if !partial && (in.Title == nil || in.SubjectID == nil) {
		return nil, study.Invalid("title and subject are required")
	}

	dbc := dbctx.Context{Ctx: ctx}
	topic, err := s.topicRepo.GetByIDForUser(dbc, userID, id)
	if err != nil {
		return nil, fmt.Errorf("load topic: %w", err)
	}
	if topic == nil {
		return nil, study.ErrTopicNotFound
	}

	fields := map[string]any{}
	if in.Title != nil {
		title, err := cleanTitle(*in.Title)
		if err != nil {
			return nil, err
		}
		fields["title"] = title
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	} else if !partial {
		fields["description"] = ""
	}
	if in.Difficulty != nil {
		d, err := study.ParseDifficulty(*in.Difficulty)
		if err != nil {
			return nil, err
		}
		fields["difficulty"] = d
	} else if !partial {
		fields["difficulty"] = types.DifficultyBeginner
	}
	if in.SubjectID != nil {
		if err := s.requireSubject(dbc, *in.SubjectID); err != nil {
			return nil, err
		}
		fields["subject_id"] = *in.SubjectID
	}

	if err := s.topicRepo.UpdateFields(dbc, topic.ID, fields); err != nil {
		return nil, fmt.Errorf("update topic: %w", err)
	}
	return s.Get(ctx, topic.ID)
}

// Delete removes the topic together with its note and the note's analytics.
func (s *topicService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := requireUserID(ctx)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		topic, err := s.topicRepo.GetByIDForUser(inner, userID, id)
		if err != nil {
			return fmt.Errorf("load topic: %w", err)
		}
		if topic == nil {
			return study.ErrTopicNotFound
		}
		note, err := s.noteRepo.GetByTopicID(inner, topic.ID)
		if err != nil {
			return fmt.Errorf("load note: %w", err)
		}
		if note != nil {
			if err := s.noteRepo.DeleteByIDs(inner, []uuid.UUID{note.ID}); err != nil {
				return fmt.Errorf("delete note: %w", err)
			}
		}
		if err := s.topicRepo.DeleteByID(inner, topic.ID); err != nil {
			return fmt.Errorf("delete topic: %w", err)
		}
		return nil
	})
}

func (s *topicService) requireSubject(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return study.Invalid("subject is required")
	}
	subject, err := s.subjectRepo.GetByID(dbc, id)
	if err != nil {
		return fmt.Errorf("load subject: %w", err)
	}
	if subject == nil {
		return study.Invalid("subject %s does not exist", id)
	}
	return nil
}

func cleanTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", study.Invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTopicTitleLength {
		return "", study.Invalid("title must be at most %d characters", maxTopicTitleLength)
	}
	return title, nil
}
