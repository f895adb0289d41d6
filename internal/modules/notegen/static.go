package notegen

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const StaticModel = "static-template"

// StaticGenerator renders placeholder notes without calling a model.
// It backs local development when no API key is configured.
type StaticGenerator struct{}

func (StaticGenerator) Generate(ctx context.Context, in Input) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if in.Topic == nil {
		return nil, fmt.Errorf("topic required")
	}
	start := time.Now()
	prefs := effectivePreferences(in)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", in.Topic.Title)
	if in.SubjectName != "" {
		fmt.Fprintf(&b, "_Subject: %s. Level: %s._\n\n", in.SubjectName, in.Topic.Difficulty)
	}
	b.WriteString("## Overview\n\n")
	if d := strings.TrimSpace(in.Topic.Description); d != "" {
		b.WriteString(d + "\n\n")
	} else {
		fmt.Fprintf(&b, "An introduction to %s.\n\n", in.Topic.Title)
	}
	if prefs.IncludeExamples {
		b.WriteString("## Example\n\nWork through one concrete case before generalizing.\n")
	}

	content := b.String()
	words := CountWords(content)
	return &Result{
		Content:               content,
		Summary:               fmt.Sprintf("Placeholder notes for %s.", in.Topic.Title),
		KeyPoints:             []string{"Review the overview", "Practice with an example"},
		References:            []string{},
		WordCount:             words,
		ReadingTimeMinutes:    ReadingTimeMinutes(words),
		AIModelUsed:           StaticModel,
		GenerationTimeSeconds: time.Since(start).Seconds(),
	}, nil
}
