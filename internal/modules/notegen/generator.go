package notegen

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/studynotes-backend/internal/domain/study"
)

//go:generate mockgen -source=generator.go -destination=../../mocks/notegen/mock_generator.go -package=mock_notegen

// Generator turns a topic into study notes. Implementations must be safe for concurrent use.
type Generator interface {
	Generate(ctx context.Context, in Input) (*Result, error)
}

type Input struct {
	Topic       *study.StudyTopic
	SubjectName string
	// Preferences is nil when the user never saved any.
	Preferences *study.UserPreference
}

type Result struct {
	Content               string
	Summary               string
	KeyPoints             []string
	References            []string
	WordCount             int
	ReadingTimeMinutes    int
	AIModelUsed           string
	GenerationTimeSeconds float64
}

const WordsPerMinute = 200

func CountWords(text string) int {
	return len(strings.Fields(text))
}

// ReadingTimeMinutes rounds up at WordsPerMinute with a floor of one minute.
func ReadingTimeMinutes(words int) int {
	if words <= 0 {
		return 1
	}
	return int(math.Ceil(float64(words) / WordsPerMinute))
}

// effectivePreferences fills in defaults for users without saved preferences.
func effectivePreferences(in Input) study.UserPreference {
	if in.Preferences != nil {
		return *in.Preferences
	}
	if in.Topic != nil {
		return *study.DefaultUserPreference(in.Topic.UserID)
	}
	return *study.DefaultUserPreference(uuid.Nil)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s := strings.TrimSpace(it); s != "" {
			out = append(out, s)
		}
	}
	return out
}
