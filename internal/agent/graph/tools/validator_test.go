package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

func TestIsMissing(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"blank string", "   ", true},
		{"empty any slice", []any{}, true},
		{"empty string slice", []string{}, true},
		{"nil pointer", (*int)(nil), true},
		{"zero int", 0, false},
		{"false", false, false},
		{"text", "Biology", false},
		{"list", []string{"true_false"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsMissing(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name       string
		extracted  model.ExtractedParameters
		complete   []string
		incomplete map[string][]string
	}{
		{
			name: "complete flashcards",
			extracted: model.ExtractedParameters{
				ToolFlashcardGenerator: {"topic": "photosynthesis", "count": 5, "difficulty": "easy", "subject": "Biology"},
			},
			complete:   []string{ToolFlashcardGenerator},
			incomplete: map[string][]string{},
		},
		{
			name: "blank count is missing",
			extracted: model.ExtractedParameters{
				ToolFlashcardGenerator: {"topic": "photosynthesis", "count": "", "difficulty": "easy", "subject": "Biology"},
			},
			incomplete: map[string][]string{ToolFlashcardGenerator: {"count"}},
		},
		{
			name: "missing fields keep schema order",
			extracted: model.ExtractedParameters{
				ToolQuizGenerator: {"question_types": []any{}, "topic": "cells"},
			},
			incomplete: map[string][]string{ToolQuizGenerator: {"subject", "difficulty", "question_types"}},
		},
		{
			name: "mixed",
			extracted: model.ExtractedParameters{
				ToolConceptExplainer: {"concept_to_explain": "osmosis", "current_topic": "cells", "desired_depth": "basic"},
				ToolNoteMaker:        {"topic": "cells"},
			},
			complete:   []string{ToolConceptExplainer},
			incomplete: map[string][]string{ToolNoteMaker: {"subject", "note_taking_style"}},
		},
		{
			name:       "nothing extracted",
			extracted:  model.ExtractedParameters{},
			incomplete: map[string][]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Validate(tt.extracted)
			require.NoError(t, err)

			assert.ElementsMatch(t, tt.complete, keys(res.CompleteTools))
			assert.Equal(t, tt.incomplete, res.IncompleteTools)

			// every extracted tool lands in exactly one bucket
			assert.Equal(t, len(tt.extracted), len(res.CompleteTools)+len(res.IncompleteTools))
			for name := range tt.extracted {
				_, c := res.CompleteTools[name]
				_, i := res.IncompleteTools[name]
				assert.True(t, c != i, name)
			}
		})
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	r := DefaultRegistry()
	in := model.ExtractedParameters{
		ToolFlashcardGenerator: {"topic": "atoms", "count": 3, "difficulty": "hard", "subject": "Chemistry"},
		ToolNoteMaker:          {"topic": ""},
	}

	first, err := r.Validate(in)
	require.NoError(t, err)
	second, err := r.Validate(in)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestValidateCopiesCompleteParameters(t *testing.T) {
	in := model.ExtractedParameters{
		ToolConceptExplainer: {"concept_to_explain": "osmosis", "current_topic": "cells", "desired_depth": "basic"},
	}
	res, err := DefaultRegistry().Validate(in)
	require.NoError(t, err)

	res.CompleteTools[ToolConceptExplainer]["desired_depth"] = "advanced"
	assert.Equal(t, "basic", in[ToolConceptExplainer]["desired_depth"])
}

func TestValidateUnknownTool(t *testing.T) {
	_, err := DefaultRegistry().Validate(model.ExtractedParameters{"InvalidTool": {}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrUnknownTool))
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
