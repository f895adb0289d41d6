package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/studynotes-backend/internal/data/repos/testutil"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
	pkgerrors "github.com/yungbote/studynotes-backend/internal/pkg/errors"
)

func newTopicService(h *harness) TopicService {
	return NewTopicService(h.db, h.log, h.topics, h.subjects, h.notes)
}

func strPtr(s string) *string { return &s }

func TestTopicCreate(t *testing.T) {
	h := newHarness(t)
	svc := newTopicService(h)

	topic, err := svc.Create(h.ctx, CreateTopicInput{
		SubjectID:   h.subject.ID,
		Title:       "  Optics ",
		Description: "light",
		Difficulty:  "advanced",
	})
	require.NoError(t, err)
	assert.Equal(t, "Optics", topic.Title)
	assert.Equal(t, types.TopicStatusPending, topic.Status)
	assert.Equal(t, types.DifficultyAdvanced, topic.Difficulty)
	assert.Equal(t, h.user.ID, topic.UserID)
	require.NotNil(t, topic.Subject)
	assert.Equal(t, "Physics", topic.Subject.Name)

	cases := map[string]CreateTopicInput{
		"missing title":       {SubjectID: h.subject.ID},
		"long title":          {SubjectID: h.subject.ID, Title: strings.Repeat("x", maxTopicTitleLength+1)},
		"bad difficulty":      {SubjectID: h.subject.ID, Title: "t", Difficulty: "expert"},
		"missing subject":     {Title: "t"},
		"nonexistent subject": {SubjectID: uuid.New(), Title: "t"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(h.ctx, in)
			assert.ErrorIs(t, err, study.ErrValidation)
		})
	}

	_, err = svc.Create(context.Background(), CreateTopicInput{SubjectID: h.subject.ID, Title: "t"})
	assert.ErrorIs(t, err, pkgerrors.ErrUnauthorized)
}

func TestTopicUpdatePutAndPatch(t *testing.T) {
	h := newHarness(t)
	svc := newTopicService(h)
	other := testutil.SeedSubject(t, context.Background(), h.db, "Chemistry")
	topic := h.seedTopic(t, types.TopicStatusCompleted)

	got, err := svc.Update(h.ctx, topic.ID, UpdateTopicInput{Difficulty: strPtr("intermediate")}, true)
	require.NoError(t, err)
	assert.Equal(t, types.DifficultyIntermediate, got.Difficulty)
	assert.Equal(t, "Optics", got.Title)
	assert.Equal(t, "Optics description", got.Description)
	assert.Equal(t, types.TopicStatusCompleted, got.Status, "status is read-only")

	_, err = svc.Update(h.ctx, topic.ID, UpdateTopicInput{Title: strPtr("New")}, false)
	assert.ErrorIs(t, err, study.ErrValidation, "PUT needs title and subject")

	got, err = svc.Update(h.ctx, topic.ID, UpdateTopicInput{Title: strPtr("Bonds"), SubjectID: &other.ID}, false)
	require.NoError(t, err)
	assert.Equal(t, "Bonds", got.Title)
	assert.Equal(t, other.ID, got.SubjectID)
	assert.Equal(t, "", got.Description)
	assert.Equal(t, types.DifficultyBeginner, got.Difficulty)

	_, err = svc.Update(h.ctx, topic.ID, UpdateTopicInput{Title: strPtr(" ")}, true)
	assert.ErrorIs(t, err, study.ErrValidation)

	_, err = svc.Update(asUser(uuid.New()), topic.ID, UpdateTopicInput{Title: strPtr("x")}, true)
	assert.ErrorIs(t, err, study.ErrTopicNotFound)
}

func TestTopicDeleteCascades(t *testing.T) {
	h := newHarness(t)
	svc := newTopicService(h)
	topic := h.seedTopic(t, types.TopicStatusCompleted)
	note := testutil.SeedNote(t, context.Background(), h.db, topic.ID, "content")

	require.ErrorIs(t, svc.Delete(asUser(uuid.New()), topic.ID), study.ErrNotFound)
	require.NoError(t, svc.Delete(h.ctx, topic.ID))

	assert.EqualValues(t, 0, h.count(t, &types.StudyTopic{}, "id = ?", topic.ID))
	assert.EqualValues(t, 0, h.count(t, &types.StudyNote{}, "id = ?", note.ID))
	assert.EqualValues(t, 0, h.count(t, &types.NoteAnalytics{}, "note_id = ?", note.ID))

	_, err := svc.Get(h.ctx, topic.ID)
	assert.ErrorIs(t, err, study.ErrTopicNotFound)
}

func TestTopicListQuery(t *testing.T) {
	h := newHarness(t)
	svc := newTopicService(h)
	ctx := context.Background()
	chem := testutil.SeedSubject(t, ctx, h.db, "Chemistry")
	a := testutil.SeedTopic(t, ctx, h.db, h.user.ID, h.subject.ID, "Alpha decay", types.TopicStatusPending)
	b := testutil.SeedTopic(t, ctx, h.db, h.user.ID, chem.ID, "Bonds", types.TopicStatusFailed)
	testutil.SeedTopic(t, ctx, h.db, uuid.New(), h.subject.ID, "Not mine", types.TopicStatusPending)

	rows, err := svc.List(h.ctx, TopicQuery{Ordering: "title"})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, a.ID, rows[0].ID)
	assert.Equal(t, b.ID, rows[1].ID)

	rows, err = svc.List(h.ctx, TopicQuery{Subject: chem.ID.String()})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b.ID, rows[0].ID)

	rows, err = svc.List(h.ctx, TopicQuery{Status: "failed"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, b.ID, rows[0].ID)

	rows, err = svc.List(h.ctx, TopicQuery{Search: "DECAY"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].ID)

	rows, err = svc.List(h.ctx, TopicQuery{Ordering: "-title", Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, a.ID, rows[0].ID)

	for name, q := range map[string]TopicQuery{
		"subject":    {Subject: "nope"},
		"status":     {Status: "done"},
		"difficulty": {Difficulty: "expert"},
		"ordering":   {Ordering: "status"},
		"limit":      {Limit: -1},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.List(h.ctx, q)
			assert.ErrorIs(t, err, study.ErrValidation)
		})
	}
}
