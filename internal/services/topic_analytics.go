package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/montanaflynn/stats"

	"github.com/yungbote/studynotes-backend/internal/data/repos"
	types "github.com/yungbote/studynotes-backend/internal/domain"
	"github.com/yungbote/studynotes-backend/internal/platform/dbctx"
	"github.com/yungbote/studynotes-backend/internal/platform/logger"
)

type DifficultyDistribution struct {
	Beginner     int64 `json:"beginner"`
	Intermediate int64 `json:"intermediate"`
	Advanced     int64 `json:"advanced"`
}

// NoteStats summarizes a user's notes. Means are nil when there is nothing to average.
type NoteStats struct {
	TotalNotes             int64    `json:"total_notes"`
	TotalViews             int64    `json:"total_views"`
	MeanWordCount          *float64 `json:"mean_word_count"`
	MedianWordCount        *float64 `json:"median_word_count"`
	MeanReadingTimeMinutes *float64 `json:"mean_reading_time_minutes"`
	RatedNotes             int64    `json:"rated_notes"`
	MeanRating             *float64 `json:"mean_rating"`
}

type TopicAnalytics struct {
	TotalTopics            int64                  `json:"total_topics"`
	CompletedTopics        int64                  `json:"completed_topics"`
	PendingTopics          int64                  `json:"pending_topics"`
	ProcessingTopics       int64                  `json:"processing_topics"`
	FailedTopics           int64                  `json:"failed_topics"`
	DifficultyDistribution DifficultyDistribution `json:"difficulty_distribution"`
	NoteStats              NoteStats              `json:"note_stats"`
}

type TopicAnalyticsService interface {
	Summary(ctx context.Context) (*TopicAnalytics, error)
}

type topicAnalyticsService struct {
	log       *logger.Logger
	topicRepo repos.TopicRepo
	noteRepo  repos.NoteRepo
}

func NewTopicAnalyticsService(log *logger.Logger, topicRepo repos.TopicRepo, noteRepo repos.NoteRepo) TopicAnalyticsService {
	return &topicAnalyticsService{
		log:       log.With("service", "TopicAnalyticsService"),
		topicRepo: topicRepo,
		noteRepo:  noteRepo,
	}
}

// Summary is computed fresh on every call.
func (s *topicAnalyticsService) Summary(ctx context.Context) (*TopicAnalytics, error) {
	userID, err := requireUserID(ctx)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	byStatus, err := s.topicRepo.CountByStatus(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("count topics by status: %w", err)
	}
	byDifficulty, err := s.topicRepo.CountByDifficulty(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("count topics by difficulty: %w", err)
	}
	rows, err := s.noteRepo.StatRows(dbc, userID)
	if err != nil {
		return nil, fmt.Errorf("load note stats: %w", err)
	}

	out := &TopicAnalytics{
		CompletedTopics:  byStatus[types.TopicStatusCompleted],
		PendingTopics:    byStatus[types.TopicStatusPending],
		ProcessingTopics: byStatus[types.TopicStatusProcessing],
		FailedTopics:     byStatus[types.TopicStatusFailed],
		DifficultyDistribution: DifficultyDistribution{
			Beginner:     byDifficulty[types.DifficultyBeginner],
			Intermediate: byDifficulty[types.DifficultyIntermediate],
			Advanced:     byDifficulty[types.DifficultyAdvanced],
		},
	}
	for _, n := range byStatus {
		out.TotalTopics += n
	}
	out.NoteStats, err = summarizeNotes(rows)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func summarizeNotes(rows []repos.NoteStatRow) (NoteStats, error) {
	ns := NoteStats{TotalNotes: int64(len(rows))}
	words := make([]float64, 0, len(rows))
	reading := make([]float64, 0, len(rows))
	ratings := make([]float64, 0, len(rows))
	for _, r := range rows {
		ns.TotalViews += r.ViewsCount
		words = append(words, float64(r.WordCount))
		reading = append(reading, float64(r.ReadingTimeMinutes))
		if r.UserRating != nil {
			ratings = append(ratings, float64(*r.UserRating))
		}
	}
	ns.RatedNotes = int64(len(ratings))

	var err error
	if ns.MeanWordCount, err = rounded(stats.Mean, words); err != nil {
		return ns, err
	}
	if ns.MedianWordCount, err = rounded(stats.Median, words); err != nil {
		return ns, err
	}
	if ns.MeanReadingTimeMinutes, err = rounded(stats.Mean, reading); err != nil {
		return ns, err
	}
	if ns.MeanRating, err = rounded(stats.Mean, ratings); err != nil {
		return ns, err
	}
	return ns, nil
}

// rounded applies fn and rounds to two places. Empty input yields nil.
func rounded(fn func(stats.Float64Data) (float64, error), data []float64) (*float64, error) {
	v, err := fn(data)
	if errors.Is(err, stats.ErrEmptyInput) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("note stats: %w", err)
	}
	v, err = stats.Round(v, 2)
	if err != nil {
		return nil, fmt.Errorf("note stats: %w", err)
	}
	return &v, nil
}
