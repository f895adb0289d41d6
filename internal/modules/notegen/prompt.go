package notegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const SchemaName = "study_notes"

func NoteSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content":    map[string]any{"type": "string"},
			"summary":    map[string]any{"type": "string"},
			"key_points": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"references": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required":             []string{"content", "summary", "key_points", "references"},
		"additionalProperties": false,
	}
}

const systemPrompt = `
You are an expert tutor writing study notes for a single learner.
Notes must be accurate, well structured markdown, and pitched at the requested difficulty.
Never invent citations; references must be real, widely known sources.
Return JSON only.`

var userTemplate = template.Must(template.New("note_user").Option("missingkey=zero").Parse(`
SUBJECT: {{.Subject}}
TOPIC: {{.Title}}
TOPIC_DESCRIPTION:
{{.Description}}

LEARNER:
- difficulty: {{.Difficulty}}
- learning_style: {{.LearningStyle}} ({{.StyleHint}})
- note_length: {{.NoteLength}} (target about {{.TargetWords}} words)
- language: {{.Language}}

Output rules:
- content: full markdown notes with headings.{{if .IncludeExamples}} Include worked examples.{{end}}{{if .IncludeDiagrams}} Where a diagram helps, describe it in a fenced text block.{{end}}
- summary: 2-4 sentences.
- key_points: 4-10 short bullet strings.
- references: 0-6 real sources (book, article or site titles).`))

var styleHints = map[string]string{
	"visual":      "favor tables, layouts and spatial descriptions",
	"auditory":    "favor conversational explanations and mnemonics",
	"reading":     "favor clear prose and definitions",
	"kinesthetic": "favor exercises and hands-on steps",
}

var targetWords = map[string]int{
	"short":  400,
	"medium": 900,
	"long":   1600,
}

// BuildPrompt renders the system and user prompts for in.
func BuildPrompt(in Input) (string, string, error) {
	if in.Topic == nil {
		return "", "", fmt.Errorf("topic required")
	}
	prefs := effectivePreferences(in)

	difficulty := string(in.Topic.Difficulty)
	if difficulty == "" {
		difficulty = string(prefs.PreferredDifficulty)
	}
	words, ok := targetWords[prefs.NoteLength]
	if !ok {
		words = targetWords["medium"]
	}

	var buf bytes.Buffer
	err := userTemplate.Execute(&buf, map[string]any{
		"Subject":         in.SubjectName,
		"Title":           in.Topic.Title,
		"Description":     in.Topic.Description,
		"Difficulty":      difficulty,
		"LearningStyle":   prefs.LearningStyle,
		"StyleHint":       styleHints[prefs.LearningStyle],
		"NoteLength":      prefs.NoteLength,
		"TargetWords":     words,
		"Language":        prefs.Language,
		"IncludeExamples": prefs.IncludeExamples,
		"IncludeDiagrams": prefs.IncludeDiagrams,
	})
	if err != nil {
		return "", "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimSpace(systemPrompt), strings.TrimSpace(buf.String()), nil
}
