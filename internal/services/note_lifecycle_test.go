package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	"github.com/yungbote/studynotes-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
	mock_notegen "github.com/yungbote/studynotes-backend/internal/mocks/notegen"
	"github.com/yungbote/studynotes-backend/internal/modules/notegen"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
)

func sampleResult() *notegen.Result {
	return &notegen.Result{
		Content:               "Light bends when it changes medium.",
		Summary:               "Refraction basics",
		KeyPoints:             []string{"Snell's law", "Index of refraction"},
		References:            []string{"Hecht, Optics"},
		WordCount:             6,
		ReadingTimeMinutes:    1,
		AIModelUsed:           "test-model",
		GenerationTimeSeconds: 1.5,
	}
}

func newLifecycle(h *harness, gen notegen.Generator, pub TopicEventPublisher) NoteLifecycleService {
	return NewNoteLifecycleService(h.db, h.log, h.topics, h.notes, h.analytics, h.prefs, gen, pub)
}

func TestGenerateSuccess(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	pub := &recordingPublisher{}
	svc := newLifecycle(h, gen, pub)
	topic := h.seedTopic(t, types.TopicStatusPending)

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, in notegen.Input) (*notegen.Result, error) {
			// processing must already be durable while the generator runs
			assert.Equal(t, types.TopicStatusProcessing, h.topicStatus(t, topic.ID))
			assert.Equal(t, topic.ID, in.Topic.ID)
			assert.Equal(t, "Physics", in.SubjectName)
			assert.Nil(t, in.Preferences)
			return sampleResult(), nil
		})

	note, err := svc.Generate(h.ctx, topic.ID)
	require.NoError(t, err)
	require.NotNil(t, note)
	assert.Equal(t, topic.ID, note.TopicID)
	assert.Equal(t, "test-model", note.AIModelUsed)
	assert.Equal(t, []string{"Snell's law", "Index of refraction"}, []string(note.KeyPoints))
	require.NotNil(t, note.Analytics)
	assert.EqualValues(t, 0, note.Analytics.ViewsCount)
	assert.Nil(t, note.Analytics.UserRating)

	assert.Equal(t, types.TopicStatusCompleted, h.topicStatus(t, topic.ID))
	assert.EqualValues(t, 1, h.count(t, &types.NoteAnalytics{}, "note_id = ?", note.ID))
	assert.EqualValues(t, 0, h.count(t, &types.UserPreference{}, "user_id = ?", h.user.ID), "preferences must not be created by generation")
	assert.Equal(t, []string{"pending->processing", "processing->completed"}, pub.moves())
}

func TestGeneratePassesSavedPreferences(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	svc := newLifecycle(h, gen, nil)
	topic := h.seedTopic(t, types.TopicStatusPending)

	pref, err := h.prefs.FindOrInit(dbctx.Context{Ctx: context.Background()}, h.user.ID)
	require.NoError(t, err)
	pref.NoteLength = "long"
	require.NoError(t, h.prefs.Save(dbctx.Context{Ctx: context.Background()}, pref))

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in notegen.Input) (*notegen.Result, error) {
			require.NotNil(t, in.Preferences)
			assert.Equal(t, "long", in.Preferences.NoteLength)
			return sampleResult(), nil
		})

	_, err = svc.Generate(h.ctx, topic.ID)
	require.NoError(t, err)
}

func TestGenerateRejectsExistingNote(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	svc := newLifecycle(h, gen, nil)
	topic := h.seedTopic(t, types.TopicStatusCompleted)
	testutil.SeedNote(t, context.Background(), h.db, topic.ID, "existing")

	_, err := svc.Generate(h.ctx, topic.ID)
	require.ErrorIs(t, err, study.ErrNoteAlreadyExists)
	assert.ErrorIs(t, err, study.ErrValidation)
	assert.Equal(t, types.TopicStatusCompleted, h.topicStatus(t, topic.ID))
	assert.EqualValues(t, 1, h.count(t, &types.StudyNote{}, "topic_id = ?", topic.ID))
}

func TestGenerateNotFoundForOtherUser(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	svc := newLifecycle(h, mock_notegen.NewMockGenerator(ctrl), nil)
	topic := h.seedTopic(t, types.TopicStatusPending)

	_, err := svc.Generate(asUser(uuid.New()), topic.ID)
	require.ErrorIs(t, err, study.ErrNotFound)

	_, err = svc.Regenerate(asUser(uuid.New()), topic.ID)
	require.ErrorIs(t, err, study.ErrNotFound)

	_, err = svc.Generate(h.ctx, uuid.New())
	require.ErrorIs(t, err, study.ErrTopicNotFound)
	assert.Equal(t, types.TopicStatusPending, h.topicStatus(t, topic.ID))
}

func TestGenerateFailureMarksFailed(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	pub := &recordingPublisher{err: errors.New("bus down")}
	svc := newLifecycle(h, gen, pub)
	topic := h.seedTopic(t, types.TopicStatusPending)

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, errors.New("model timeout"))

	_, err := svc.Generate(h.ctx, topic.ID)
	require.Error(t, err)
	var ge *study.GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "Failed to generate notes: model timeout", err.Error())
	assert.Equal(t, types.TopicStatusFailed, h.topicStatus(t, topic.ID))
	assert.EqualValues(t, 0, h.count(t, &types.StudyNote{}, "topic_id = ?", topic.ID))
	// publish errors are logged, never surfaced
	assert.Equal(t, []string{"pending->processing", "processing->failed"}, pub.moves())
}

func TestGenerateCompletesAfterCallerCancels(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	svc := newLifecycle(h, gen, nil)
	topic := h.seedTopic(t, types.TopicStatusPending)

	ctx, cancel := context.WithCancel(h.ctx)
	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(gctx context.Context, _ notegen.Input) (*notegen.Result, error) {
			cancel()
			assert.NoError(t, gctx.Err())
			return sampleResult(), nil
		})

	_, err := svc.Generate(ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TopicStatusCompleted, h.topicStatus(t, topic.ID))
}

func TestGenerateFromFailedWithoutNote(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	svc := newLifecycle(h, gen, nil)
	topic := h.seedTopic(t, types.TopicStatusFailed)

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(sampleResult(), nil)
	_, err := svc.Generate(h.ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TopicStatusCompleted, h.topicStatus(t, topic.ID))
}

func TestGenerateWhileProcessingConflicts(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	svc := newLifecycle(h, mock_notegen.NewMockGenerator(ctrl), nil)
	topic := h.seedTopic(t, types.TopicStatusProcessing)

	_, err := svc.Generate(h.ctx, topic.ID)
	require.ErrorIs(t, err, study.ErrInvalidTransition)
	assert.Equal(t, types.TopicStatusProcessing, h.topicStatus(t, topic.ID))
}

// staleTopicRepo reports an out-of-date status so the compare-and-set loses.
type staleTopicRepo struct {
	repos.TopicRepo
	status types.TopicStatus
}

func (r staleTopicRepo) GetByIDForUser(dbc dbctx.Context, userID, id uuid.UUID) (*types.StudyTopic, error) {
	t, err := r.TopicRepo.GetByIDForUser(dbc, userID, id)
	if t != nil {
		t.Status = r.status
	}
	return t, err
}

func TestGenerateLosesCompareAndSet(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	topic := h.seedTopic(t, types.TopicStatusProcessing)
	svc := NewNoteLifecycleService(h.db, h.log, staleTopicRepo{TopicRepo: h.topics, status: types.TopicStatusPending},
		h.notes, h.analytics, h.prefs, gen, nil)

	_, err := svc.Generate(h.ctx, topic.ID)
	require.ErrorIs(t, err, study.ErrInvalidTransition)

	_, err = svc.Regenerate(h.ctx, topic.ID)
	require.ErrorIs(t, err, study.ErrInvalidTransition)
	assert.Equal(t, types.TopicStatusProcessing, h.topicStatus(t, topic.ID))
}

func TestRegenerateReplacesNote(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	pub := &recordingPublisher{}
	svc := newLifecycle(h, gen, pub)
	topic := h.seedTopic(t, types.TopicStatusCompleted)
	old := testutil.SeedNote(t, context.Background(), h.db, topic.ID, "old content")
	require.NoError(t, h.analytics.RecordView(dbctx.Context{Ctx: context.Background()}, old.ID, time.Now().UTC()))

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, notegen.Input) (*notegen.Result, error) {
			assert.EqualValues(t, 0, h.count(t, &types.StudyNote{}, "id = ?", old.ID))
			return sampleResult(), nil
		})

	note, err := svc.Regenerate(h.ctx, topic.ID)
	require.NoError(t, err)
	assert.NotEqual(t, old.ID, note.ID)
	require.NotNil(t, note.Analytics)
	assert.EqualValues(t, 0, note.Analytics.ViewsCount)
	assert.EqualValues(t, 0, h.count(t, &types.NoteAnalytics{}, "note_id = ?", old.ID))
	assert.EqualValues(t, 1, h.count(t, &types.StudyNote{}, "topic_id = ?", topic.ID))
	assert.Equal(t, types.TopicStatusCompleted, h.topicStatus(t, topic.ID))
	assert.Equal(t, []string{"completed->processing", "processing->completed"}, pub.moves())
}

func TestRegenerateWhileProcessingKeepsNote(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	svc := newLifecycle(h, mock_notegen.NewMockGenerator(ctrl), nil)
	topic := h.seedTopic(t, types.TopicStatusProcessing)
	note := testutil.SeedNote(t, context.Background(), h.db, topic.ID, "keep me")

	_, err := svc.Regenerate(h.ctx, topic.ID)
	require.ErrorIs(t, err, study.ErrInvalidTransition)
	assert.EqualValues(t, 1, h.count(t, &types.StudyNote{}, "id = ?", note.ID))
	assert.Equal(t, types.TopicStatusProcessing, h.topicStatus(t, topic.ID))
}

func TestRegenerateFailure(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	svc := newLifecycle(h, gen, nil)
	topic := h.seedTopic(t, types.TopicStatusFailed)
	testutil.SeedNote(t, context.Background(), h.db, topic.ID, "stale")

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(nil, errors.New("quota exceeded"))

	_, err := svc.Regenerate(h.ctx, topic.ID)
	require.Error(t, err)
	assert.True(t, study.IsGenerationError(err))
	assert.Equal(t, "Failed to regenerate notes: quota exceeded", err.Error())
	assert.Equal(t, types.TopicStatusFailed, h.topicStatus(t, topic.ID))
	assert.EqualValues(t, 0, h.count(t, &types.StudyNote{}, "topic_id = ?", topic.ID))
}

func TestRegenerateWithoutExistingNote(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	svc := newLifecycle(h, gen, nil)
	topic := h.seedTopic(t, types.TopicStatusPending)

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(sampleResult(), nil)
	_, err := svc.Regenerate(h.ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TopicStatusCompleted, h.topicStatus(t, topic.ID))
}

func TestGenerateFillsMissingCounts(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	gen := mock_notegen.NewMockGenerator(ctrl)
	svc := newLifecycle(h, gen, nil)
	topic := h.seedTopic(t, types.TopicStatusPending)

	gen.EXPECT().Generate(gomock.Any(), gomock.Any()).Return(&notegen.Result{
		Content:     "one two three",
		AIModelUsed: "m",
	}, nil)
	note, err := svc.Generate(h.ctx, topic.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, note.WordCount)
	assert.Equal(t, 1, note.ReadingTimeMinutes)
	assert.NotNil(t, note.KeyPoints)
	assert.GreaterOrEqual(t, note.GenerationTimeSeconds, 0.0)
}

func TestRecoverStuck(t *testing.T) {
	h := newHarness(t)
	ctrl := gomock.NewController(t)
	pub := &recordingPublisher{}
	svc := newLifecycle(h, mock_notegen.NewMockGenerator(ctrl), pub)

	stuck := h.seedTopic(t, types.TopicStatusProcessing)
	fresh := h.seedTopic(t, types.TopicStatusProcessing)
	done := h.seedTopic(t, types.TopicStatusCompleted)
	old := time.Now().UTC().Add(-2 * time.Hour)
	require.NoError(t, h.db.Model(&types.StudyTopic{}).Where("id IN ?", []uuid.UUID{stuck.ID, done.ID}).
		UpdateColumn("updated_at", old).Error)

	n, err := svc.RecoverStuck(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, types.TopicStatusFailed, h.topicStatus(t, stuck.ID))
	assert.Equal(t, types.TopicStatusProcessing, h.topicStatus(t, fresh.ID))
	assert.Equal(t, types.TopicStatusCompleted, h.topicStatus(t, done.ID))
	assert.Equal(t, []string{"processing->failed"}, pub.moves())

	_, err = svc.RecoverStuck(context.Background(), 0)
	assert.ErrorIs(t, err, study.ErrValidation)
}
