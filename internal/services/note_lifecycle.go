package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
	"github.com/yungbote/studynotes-backend/internal/modules/notegen"
	"github.com/yungbote/studynotes-backend/internal/platform/ctxutil"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

const tracerName = "github.com/yungbote/studynotes-backend/internal/services"

// TopicEventPublisher receives every committed status move. Delivery is best effort.
type TopicEventPublisher interface {
	Publish(ctx context.Context, ev types.TopicStatusEvent) error
}

type NoteLifecycleService interface {
	Generate(ctx context.Context, topicID uuid.UUID) (*types.StudyNote, error)
	Regenerate(ctx context.Context, topicID uuid.UUID) (*types.StudyNote, error)
	// RecoverStuck fails every topic that has sat in processing since before now-olderThan.
	RecoverStuck(ctx context.Context, olderThan time.Duration) (int, error)
}

type noteLifecycleService struct {
	db            *gorm.DB
	log           *logger.Logger
	topicRepo     repos.TopicRepo
	noteRepo      repos.NoteRepo
	analyticsRepo repos.NoteAnalyticsRepo
	prefRepo      repos.UserPreferenceRepo
	generator     notegen.Generator
	events        TopicEventPublisher
	now           func() time.Time
}

func NewNoteLifecycleService(
	db *gorm.DB,
	log *logger.Logger,
	topicRepo repos.TopicRepo,
	noteRepo repos.NoteRepo,
	analyticsRepo repos.NoteAnalyticsRepo,
	prefRepo repos.UserPreferenceRepo,
	generator notegen.Generator,
	events TopicEventPublisher,
) NoteLifecycleService {
	return &noteLifecycleService{
		db:            db,
		log:           log.With("service", "NoteLifecycleService"),
		topicRepo:     topicRepo,
		noteRepo:      noteRepo,
		analyticsRepo: analyticsRepo,
		prefRepo:      prefRepo,
		generator:     generator,
		events:        events,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *noteLifecycleService) Generate(ctx context.Context, topicID uuid.UUID) (*types.StudyNote, error) {
	// Once started, a generation runs to a terminal status even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	topic, err := s.loadOwnedTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	exists, err := s.noteRepo.ExistsForTopic(dbc, topic.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing note: %w", err)
	}
	if exists {
		return nil, study.ErrNoteAlreadyExists
	}

	from := topic.Status
	if _, err := from.TransitionTo(types.TopicStatusProcessing); err != nil {
		return nil, err
	}
	ok, err := s.topicRepo.CompareAndSetStatus(dbc, topic.ID, from, types.TopicStatusProcessing)
	if err != nil {
		return nil, fmt.Errorf("mark processing: %w", err)
	}
	if !ok {
		return nil, lostRace(from)
	}
	s.publish(ctx, topic, from, types.TopicStatusProcessing, nil)

	return s.run(ctx, topic, study.OpGenerate)
}

func (s *noteLifecycleService) Regenerate(ctx context.Context, topicID uuid.UUID) (*types.StudyNote, error) {
	ctx = context.WithoutCancel(ctx)
	topic, err := s.loadOwnedTopic(ctx, topicID)
	if err != nil {
		return nil, err
	}

	from := topic.Status
	if _, err := from.TransitionTo(types.TopicStatusProcessing); err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		ok, err := s.topicRepo.CompareAndSetStatus(inner, topic.ID, from, types.TopicStatusProcessing)
		if err != nil {
			return fmt.Errorf("mark processing: %w", err)
		}
		if !ok {
			return lostRace(from)
		}
		old, err := s.noteRepo.GetByTopicID(inner, topic.ID)
		if err != nil {
			return fmt.Errorf("load existing note: %w", err)
		}
		if old != nil {
			if err := s.noteRepo.DeleteByIDs(inner, []uuid.UUID{old.ID}); err != nil {
				return fmt.Errorf("delete existing note: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, topic, from, types.TopicStatusProcessing, nil)

	return s.run(ctx, topic, study.OpRegenerate)
}

// run executes the generator for a topic already marked processing and drives it
// to completed or failed.
func (s *noteLifecycleService) run(ctx context.Context, topic *types.StudyTopic, op string) (*types.StudyNote, error) {
	dbc := dbctx.Context{Ctx: ctx}
	pref, err := s.prefRepo.GetByUserID(dbc, topic.UserID)
	if err != nil {
		return nil, s.fail(ctx, topic, op, fmt.Errorf("load preferences: %w", err))
	}
	in := notegen.Input{Topic: topic, Preferences: pref}
	if topic.Subject != nil {
		in.SubjectName = topic.Subject.Name
	}

	res, err := s.callGenerator(ctx, op, in)
	if err != nil {
		return nil, s.fail(ctx, topic, op, err)
	}

	var note *types.StudyNote
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		note = noteFromResult(topic.ID, res)
		if _, err := s.noteRepo.Create(inner, note); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		if _, err := s.analyticsRepo.Create(inner, &types.NoteAnalytics{NoteID: note.ID}); err != nil {
			return fmt.Errorf("create analytics: %w", err)
		}
		ok, err := s.topicRepo.CompareAndSetStatus(inner, topic.ID, types.TopicStatusProcessing, types.TopicStatusCompleted)
		if err != nil {
			return fmt.Errorf("mark completed: %w", err)
		}
		if !ok {
			return fmt.Errorf("mark completed: %w", study.ErrInvalidTransition)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail(ctx, topic, op, err)
	}
	s.publish(ctx, topic, types.TopicStatusProcessing, types.TopicStatusCompleted, &note.ID)

	full, err := s.noteRepo.GetByIDForUser(dbc, topic.UserID, note.ID)
	if err != nil || full == nil {
		s.log.Warn("Reload generated note failed", "note_id", note.ID, "error", err)
		return note, nil
	}
	return full, nil
}

func (s *noteLifecycleService) callGenerator(ctx context.Context, op string, in notegen.Input) (*notegen.Result, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "notegen.Generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("notes.op", op),
		attribute.String("notes.topic_id", in.Topic.ID.String()),
		attribute.String("notes.difficulty", string(in.Topic.Difficulty)),
		attribute.Bool("notes.has_preferences", in.Preferences != nil),
	)

	start := s.now()
	res, err := s.generator.Generate(ctx, in)
	if err == nil && res == nil {
		err = errors.New("generator returned no result")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if res.GenerationTimeSeconds <= 0 {
		res.GenerationTimeSeconds = s.now().Sub(start).Seconds()
	}
	span.SetAttributes(
		attribute.String("notes.model", res.AIModelUsed),
		attribute.Int("notes.word_count", res.WordCount),
	)
	return res, nil
}

// fail records the failed status and returns the error the caller should surface.
func (s *noteLifecycleService) fail(ctx context.Context, topic *types.StudyTopic, op string, cause error) error {
	fields := append([]any{"op", op, "topic_id", topic.ID, "error", cause}, ctxutil.LogFields(ctx)...)
	s.log.Error("Note generation failed", fields...)
	ok, err := s.topicRepo.CompareAndSetStatus(dbctx.Context{Ctx: ctx}, topic.ID, types.TopicStatusProcessing, types.TopicStatusFailed)
	switch {
	case err != nil:
		s.log.Error("Mark topic failed", "topic_id", topic.ID, "error", err)
	case !ok:
		s.log.Warn("Topic left processing before failure was recorded", "topic_id", topic.ID)
	default:
		s.publish(ctx, topic, types.TopicStatusProcessing, types.TopicStatusFailed, nil)
	}
	return &study.GenerationError{Op: op, Err: cause}
}

func (s *noteLifecycleService) RecoverStuck(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, study.Invalid("older-than must be positive")
	}
	dbc := dbctx.Context{Ctx: ctx}
	stuck, err := s.topicRepo.ListStuckProcessing(dbc, s.now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("list stuck topics: %w", err)
	}
	recovered := 0
	for _, t := range stuck {
		ok, err := s.topicRepo.CompareAndSetStatus(dbc, t.ID, types.TopicStatusProcessing, types.TopicStatusFailed)
		if err != nil {
			return recovered, fmt.Errorf("fail topic %s: %w", t.ID, err)
		}
		if !ok {
			continue
		}
		recovered++
		s.publish(ctx, t, types.TopicStatusProcessing, types.TopicStatusFailed, nil)
	}
	if recovered > 0 {
		s.log.Info("Recovered stuck topics", "count", recovered, "older_than", olderThan.String())
	}
	return recovered, nil
}

func (s *noteLifecycleService) loadOwnedTopic(ctx context.Context, topicID uuid.UUID) (*types.StudyTopic, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	topic, err := s.topicRepo.GetByIDForUser(dbctx.Context{Ctx: ctx}, userID, topicID)
	if err != nil {
		return nil, fmt.Errorf("load topic: %w", err)
	}
	if topic == nil {
		return nil, study.ErrTopicNotFound
	}
	return topic, nil
}

func (s *noteLifecycleService) publish(ctx context.Context, topic *types.StudyTopic, from, to types.TopicStatus, noteID *uuid.UUID) {
	if s.events == nil {
		return
	}
	ev := types.TopicStatusEvent{
		TopicID: topic.ID,
		UserID:  topic.UserID,
		From:    from,
		To:      to,
		NoteID:  noteID,
		At:      s.now(),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("Publish topic status event failed", "topic_id", topic.ID, "to", string(to), "error", err)
	}
}

func lostRace(from types.TopicStatus) error {
	return fmt.Errorf("topic is no longer %s: %w", from, study.ErrInvalidTransition)
}

func noteFromResult(topicID uuid.UUID, res *notegen.Result) *types.StudyNote {
	if res.WordCount <= 0 {
		res.WordCount = notegen.CountWords(res.Content)
	}
	if res.ReadingTimeMinutes <= 0 {
		res.ReadingTimeMinutes = notegen.ReadingTimeMinutes(res.WordCount)
	}
	return &types.StudyNote{
		TopicID:               topicID,
		Content:               res.Content,
		Summary:               res.Summary,
		KeyPoints:             datatypes.JSONSlice[string](nonNil(res.KeyPoints)),
		References:            datatypes.JSONSlice[string](nonNil(res.References)),
		WordCount:             res.WordCount,
		ReadingTimeMinutes:    res.ReadingTimeMinutes,
		AIModelUsed:           res.AIModelUsed,
		GenerationTimeSeconds: res.GenerationTimeSeconds,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
