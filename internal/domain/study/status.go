package study

import (
	"fmt"
)

// TopicStatus tracks where a topic is in the note generation lifecycle.
type TopicStatus string

const (
	TopicStatusPending    TopicStatus = "pending"
	TopicStatusProcessing TopicStatus = "processing"
	TopicStatusCompleted  TopicStatus = "completed"
	TopicStatusFailed     TopicStatus = "failed"
)

var TopicStatuses = []TopicStatus{
	TopicStatusPending,
	TopicStatusProcessing,
	TopicStatusCompleted,
	TopicStatusFailed,
}

// topicTransitions is the full set of legal status moves. Anything not listed is rejected.
var topicTransitions = map[TopicStatus][]TopicStatus{
	TopicStatusPending:    {TopicStatusProcessing},
	TopicStatusProcessing: {TopicStatusCompleted, TopicStatusFailed},
	TopicStatusCompleted:  {TopicStatusProcessing},
	TopicStatusFailed:     {TopicStatusProcessing},
}

func (s TopicStatus) Valid() bool {
	_, ok := topicTransitions[s]
	return ok
}

func (s TopicStatus) String() string { return string(s) }

func (s TopicStatus) CanTransitionTo(next TopicStatus) bool {
	for _, allowed := range topicTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates the move and returns the new status.
func (s TopicStatus) TransitionTo(next TopicStatus) (TopicStatus, error) {
	if !s.CanTransitionTo(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}

func ParseTopicStatus(raw string) (TopicStatus, error) {
	s := TopicStatus(raw)
	if !s.Valid() {
		return "", Invalid("unknown status %q", raw)
	}
	return s, nil
}

// Difficulty is the learner level a topic targets.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(raw)
	if !d.Valid() {
		return "", Invalid("unknown difficulty %q", raw)
	}
	return d, nil
}
