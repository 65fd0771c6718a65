package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutor-orchestrator/server/internal/agent/model"
)

func newExecutor(t *testing.T) *Executor {
	t.Helper()
	e, err := NewExecutor(DefaultRegistry(), nil)
	require.NoError(t, err)
	return e
}

func args(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func learner() model.UserInfo {
	return model.UserInfo{
		UserID:         "student123",
		Name:           "Alex",
		TeachingStyle:  model.TeachingVisual,
		EmotionalState: model.EmotionConfused,
		MasteryLevel:   model.MasteryFoundation,
	}
}

func TestExecuteFlashcards(t *testing.T) {
	e := newExecutor(t)

	resp := e.Execute(context.Background(), ToolFlashcardGenerator, args(t, map[string]any{
		"topic": "photosynthesis", "count": 3, "difficulty": "easy", "subject": "Biology",
		"user_info": learner(),
	}))

	require.Equal(t, StatusSuccess, resp.Status, resp.Error)
	assert.Equal(t, 200, resp.Code)

	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Len(t, result["flashcards"], 3)
	assert.Equal(t, "Flashcards adapted for a confused student at mastery level Levels 1-3.", result["adaptation_details"])
}

func TestExecuteRejectsInvalidInput(t *testing.T) {
	e := newExecutor(t)

	resp := e.Execute(context.Background(), ToolFlashcardGenerator, args(t, map[string]any{
		"topic": "photosynthesis", "count": 40, "difficulty": "impossible", "subject": "Biology",
	}))

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, 400, resp.Code)
	details, ok := resp.Details.([]any)
	require.True(t, ok)
	assert.Len(t, details, 2)
}

func TestExecuteRejectsPlaceholderConcept(t *testing.T) {
	e := newExecutor(t)

	for _, concept := range []string{"test", "  Something "} {
		resp := e.Execute(context.Background(), ToolConceptExplainer, args(t, map[string]any{
			"concept_to_explain": concept, "current_topic": "cells", "desired_depth": "basic",
		}))
		assert.Equal(t, 400, resp.Code, concept)
		assert.Contains(t, resp.Error, "too vague")
	}

	resp := e.Execute(context.Background(), ToolConceptExplainer, args(t, map[string]any{
		"concept_to_explain": "osmosis", "current_topic": "cells", "desired_depth": "basic",
	}))
	assert.Equal(t, 200, resp.Code)
}

func TestExecuteQuizDefaultsQuestionCount(t *testing.T) {
	e := newExecutor(t)

	resp := e.Execute(context.Background(), ToolQuizGenerator, args(t, map[string]any{
		"topic": "acids", "subject": "Chemistry", "difficulty": "beginner",
		"question_types": []string{"multiple_choice", "true_false"},
	}))
	require.Equal(t, 200, resp.Code, resp.Error)

	result := resp.Result.(map[string]any)
	assert.Len(t, result["questions"], 10)
}

func TestExecuteQuizRejectsUnknownQuestionType(t *testing.T) {
	resp := newExecutor(t).Execute(context.Background(), ToolQuizGenerator, args(t, map[string]any{
		"topic": "acids", "subject": "Chemistry", "difficulty": "beginner",
		"question_types": []string{"essay"},
	}))
	assert.Equal(t, 400, resp.Code)
}

func TestExecuteNotesHonoursFlags(t *testing.T) {
	resp := newExecutor(t).Execute(context.Background(), ToolNoteMaker, args(t, map[string]any{
		"topic": "cells", "subject": "Biology", "note_taking_style": "outline",
		"include_examples": false, "include_analogies": true,
	}))
	require.Equal(t, 200, resp.Code, resp.Error)

	sections := resp.Result.(map[string]any)["note_sections"].([]any)
	require.Len(t, sections, 1)
	section := sections[0].(map[string]any)
	assert.NotContains(t, section, "examples")
	assert.Contains(t, section, "analogies")
}

func TestExecuteUnknownTool(t *testing.T) {
	resp := newExecutor(t).Execute(context.Background(), "InvalidTool", "{}")
	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, 404, resp.Code)
}

func TestExecuteMalformedArguments(t *testing.T) {
	resp := newExecutor(t).Execute(context.Background(), ToolNoteMaker, "{not json")
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "invalid arguments", resp.Error)
}

func TestExecuteNormalizedParameters(t *testing.T) {
	e := newExecutor(t)
	s, err := DefaultRegistry().Lookup(ToolQuizGenerator)
	require.NoError(t, err)

	params := s.Normalize(map[string]any{
		"topic": "acids", "subject": "Chemistry", "difficulty": "beginner",
		"question_types": []any{"true_false"}, "question_count": "",
	})
	require.Empty(t, s.MissingFields(params))

	resp := e.Execute(context.Background(), ToolQuizGenerator, args(t, params))
	require.Equal(t, StatusSuccess, resp.Status, resp.Error)
	result, ok := resp.Result.(map[string]any)
	require.True(t, ok)
	assert.Len(t, result["questions"], 10)
}
