package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubjectsList(t *testing.T) {
	rows, err := parseSubjects(strings.NewReader(`
- name: Physics
  description: Matter and energy
- name: History
`))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Physics", rows[0].Name)
	assert.Equal(t, "Matter and energy", rows[0].Description)
	assert.Equal(t, "History", rows[1].Name)
	assert.Empty(t, rows[1].Description)
}

func TestParseSubjectsDocument(t *testing.T) {
	rows, err := parseSubjects(strings.NewReader(`
subjects:
  - name: Chemistry
`))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Chemistry", rows[0].Name)
}

func TestParseSubjectsInvalid(t *testing.T) {
	_, err := parseSubjects(strings.NewReader("subjects: [name: {"))
	require.Error(t, err)
}
