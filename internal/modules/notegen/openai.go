package notegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/studynotes-backend/internal/platform/logger"
	"github.com/yungbote/studynotes-backend/internal/platform/openai"
)

// OpenAIGenerator produces notes through a structured-output OpenAI call.
type OpenAIGenerator struct {
	log *logger.Logger
	ai  openai.Client
	now func() time.Time
}

func NewOpenAIGenerator(log *logger.Logger, ai openai.Client) *OpenAIGenerator {
	return &OpenAIGenerator{
		log: log.With("generator", "OpenAIGenerator"),
		ai:  ai,
		now: time.Now,
	}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, in Input) (*Result, error) {
	system, user, err := BuildPrompt(in)
	if err != nil {
		return nil, err
	}

	start := g.now()
	obj, err := g.ai.GenerateJSON(ctx, system, user, SchemaName, NoteSchema())
	if err != nil {
		return nil, err
	}
	elapsed := g.now().Sub(start)

	content := strings.TrimSpace(stringField(obj, "content"))
	if content == "" {
		return nil, fmt.Errorf("model returned empty content")
	}
	words := CountWords(content)
	res := &Result{
		Content:               content,
		Summary:               strings.TrimSpace(stringField(obj, "summary")),
		KeyPoints:             cleanList(stringsField(obj, "key_points")),
		References:            cleanList(stringsField(obj, "references")),
		WordCount:             words,
		ReadingTimeMinutes:    ReadingTimeMinutes(words),
		AIModelUsed:           g.ai.Model(),
		GenerationTimeSeconds: elapsed.Seconds(),
	}
	g.log.Debug("notes generated",
		"topic_id", in.Topic.ID,
		"words", res.WordCount,
		"elapsed", elapsed.String(),
	)
	return res, nil
}

func stringField(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return v
	}
	return ""
}

func stringsField(obj map[string]any, key string) []string {
	raw, ok := obj[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
