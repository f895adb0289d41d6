package notegen

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
	mock_openai "github.com/yungbote/studynotes-backend/internal/mocks/openai"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

func sampleTopic() *study.StudyTopic {
	return &study.StudyTopic{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Title:       "Photosynthesis",
		Description: "Light and dark reactions",
		Difficulty:  study.DifficultyIntermediate,
	}
}

func TestReadingTimeMinutes(t *testing.T) {
	tests := []struct {
		words int
		want  int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{1000, 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReadingTimeMinutes(tt.words), "words=%d", tt.words)
	}
	assert.Equal(t, 3, CountWords("  one two\nthree "))
}

func TestBuildPromptUsesPreferences(t *testing.T) {
	topic := sampleTopic()
	prefs := study.DefaultUserPreference(topic.UserID)
	prefs.LearningStyle = "visual"
	prefs.NoteLength = "short"
	prefs.IncludeExamples = false
	prefs.IncludeDiagrams = true
	prefs.Language = "fr"

	system, user, err := BuildPrompt(Input{Topic: topic, SubjectName: "Biology", Preferences: prefs})
	require.NoError(t, err)
	assert.Contains(t, system, "Return JSON only.")
	assert.Contains(t, user, "SUBJECT: Biology")
	assert.Contains(t, user, "TOPIC: Photosynthesis")
	assert.Contains(t, user, "learning_style: visual")
	assert.Contains(t, user, "about 400 words")
	assert.Contains(t, user, "language: fr")
	assert.Contains(t, user, "describe it in a fenced text block")
	assert.NotContains(t, user, "worked examples")
}

func TestBuildPromptDefaultsWithoutPreferences(t *testing.T) {
	_, user, err := BuildPrompt(Input{Topic: sampleTopic()})
	require.NoError(t, err)
	assert.Contains(t, user, "learning_style: reading")
	assert.Contains(t, user, "worked examples")

	_, _, err = BuildPrompt(Input{})
	assert.Error(t, err)
}

func TestOpenAIGenerator(t *testing.T) {
	ctrl := gomock.NewController(t)
	ai := mock_openai.NewMockClient(ctrl)

	content := "# Photosynthesis\n\nPlants convert light into chemical energy."
	ai.EXPECT().
		GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any(), SchemaName, gomock.Any()).
		Return(map[string]any{
			"content":    content,
			"summary":    " Light in, sugar out. ",
			"key_points": []any{"chlorophyll", " ", "ATP"},
			"references": []any{"Campbell Biology"},
		}, nil)
	ai.EXPECT().Model().Return("gpt-test")

	g := NewOpenAIGenerator(logger.Nop(), ai)
	res, err := g.Generate(context.Background(), Input{Topic: sampleTopic(), SubjectName: "Biology"})
	require.NoError(t, err)
	assert.Equal(t, content, res.Content)
	assert.Equal(t, "Light in, sugar out.", res.Summary)
	assert.Equal(t, []string{"chlorophyll", "ATP"}, res.KeyPoints)
	assert.Equal(t, []string{"Campbell Biology"}, res.References)
	assert.Equal(t, CountWords(content), res.WordCount)
	assert.Equal(t, 1, res.ReadingTimeMinutes)
	assert.Equal(t, "gpt-test", res.AIModelUsed)
	assert.GreaterOrEqual(t, res.GenerationTimeSeconds, 0.0)
}

func TestOpenAIGeneratorErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	ai := mock_openai.NewMockClient(ctrl)
	g := NewOpenAIGenerator(logger.Nop(), ai)

	ai.EXPECT().GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("openai http 500: boom"))
	_, err := g.Generate(context.Background(), Input{Topic: sampleTopic()})
	assert.EqualError(t, err, "openai http 500: boom")

	ai.EXPECT().GenerateJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(map[string]any{"content": "  "}, nil)
	_, err = g.Generate(context.Background(), Input{Topic: sampleTopic()})
	assert.ErrorContains(t, err, "empty content")
}

func TestStaticGenerator(t *testing.T) {
	res, err := StaticGenerator{}.Generate(context.Background(), Input{Topic: sampleTopic(), SubjectName: "Biology"})
	require.NoError(t, err)
	assert.Contains(t, res.Content, "# Photosynthesis")
	assert.Equal(t, StaticModel, res.AIModelUsed)
	assert.Equal(t, CountWords(res.Content), res.WordCount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = StaticGenerator{}.Generate(ctx, Input{Topic: sampleTopic()})
	assert.ErrorIs(t, err, context.Canceled)
}
