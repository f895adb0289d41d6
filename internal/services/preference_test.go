package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/domain/study"
)

func boolPtr(b bool) *bool { return &b }

func TestPreferenceGetCreatesDefaults(t *testing.T) {
	h := newHarness(t)
	svc := NewPreferenceService(h.db, h.log, h.prefs)

	p, err := svc.Get(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, "reading", p.LearningStyle)
	assert.Equal(t, types.DifficultyIntermediate, p.PreferredDifficulty)
	assert.Equal(t, "medium", p.NoteLength)
	assert.True(t, p.IncludeExamples)
	assert.False(t, p.IncludeDiagrams)
	assert.Equal(t, "en", p.Language)

	again, err := svc.Get(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.EqualValues(t, 1, h.count(t, &types.UserPreference{}, "user_id = ?", h.user.ID))
}

func TestPreferenceUpdate(t *testing.T) {
	h := newHarness(t)
	svc := NewPreferenceService(h.db, h.log, h.prefs)

	p, err := svc.Update(h.ctx, UpdatePreferenceInput{
		LearningStyle:   strPtr("Visual"),
		IncludeExamples: boolPtr(false),
		IncludeDiagrams: boolPtr(true),
	}, true)
	require.NoError(t, err)
	assert.Equal(t, "visual", p.LearningStyle)
	assert.False(t, p.IncludeExamples)
	assert.True(t, p.IncludeDiagrams)
	assert.Equal(t, "medium", p.NoteLength)

	p, err = svc.Update(h.ctx, UpdatePreferenceInput{NoteLength: strPtr("short"), Language: strPtr("de")}, false)
	require.NoError(t, err)
	assert.Equal(t, "short", p.NoteLength)
	assert.Equal(t, "de", p.Language)
	assert.Equal(t, "reading", p.LearningStyle, "full update resets omitted fields")
	assert.True(t, p.IncludeExamples)
	assert.False(t, p.IncludeDiagrams)

	for name, in := range map[string]UpdatePreferenceInput{
		"style":      {LearningStyle: strPtr("osmosis")},
		"difficulty": {PreferredDifficulty: strPtr("expert")},
		"length":     {NoteLength: strPtr("epic")},
		"language":   {Language: strPtr("")},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Update(h.ctx, in, true)
			assert.ErrorIs(t, err, study.ErrValidation)
		})
	}

	got, err := svc.Get(h.ctx)
	require.NoError(t, err)
	assert.Equal(t, "short", got.NoteLength, "rejected updates leave the row alone")
}
