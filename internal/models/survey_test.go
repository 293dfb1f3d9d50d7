package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionAt(t *testing.T) {
	first, ok := QuestionAt(1)
	require.True(t, ok)
	assert.Equal(t, AnswerFullName, first.Key)
	assert.NotEmpty(t, first.Prompt)

	last, ok := QuestionAt(QuestionCount())
	require.True(t, ok)
	assert.Equal(t, AnswerDesiredVacancy, last.Key)

	_, ok = QuestionAt(0)
	assert.False(t, ok)

	_, ok = QuestionAt(QuestionCount() + 1)
	assert.False(t, ok)
}

func TestQuestionKeysAreUnique(t *testing.T) {
	seen := make(map[AnswerKey]bool)
	for step := 1; step <= QuestionCount(); step++ {
		q, ok := QuestionAt(step)
		require.True(t, ok)
		assert.False(t, seen[q.Key], "duplicate answer key %q", q.Key)
		seen[q.Key] = true
	}
}

func TestSurveyResponseAnswer(t *testing.T) {
	resp := &SurveyResponse{
		FullName:       "Иванов Иван",
		AgeGroup:       "35",
		Email:          "ivanov@example.com",
		DesiredVacancy: "Сварщик",
	}

	assert.Equal(t, "Иванов Иван", resp.Answer(AnswerFullName))
	assert.Equal(t, "35", resp.Answer(AnswerAgeGroup))
	assert.Equal(t, "ivanov@example.com", resp.Answer(AnswerEmail))
	assert.Equal(t, "Сварщик", resp.Answer(AnswerDesiredVacancy))
	assert.Equal(t, "", resp.Answer(AnswerKey("unknown")))
}
