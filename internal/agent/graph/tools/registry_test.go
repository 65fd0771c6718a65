package tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

func TestDefaultRegistryNames(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, []string{ToolNoteMaker, ToolFlashcardGenerator, ToolConceptExplainer, ToolQuizGenerator}, r.Names())
	assert.True(t, r.Has(ToolQuizGenerator))
	assert.False(t, r.Has("InvalidTool"))
}

func TestLookupUnknownTool(t *testing.T) {
	_, err := DefaultRegistry().Lookup("InvalidTool")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrUnknownTool))
	assert.Equal(t, 404, errx.StatusOf(err))
}

func TestRequiredFieldsKeepDeclarationOrder(t *testing.T) {
	r := DefaultRegistry()

	fc, err := r.Lookup(ToolFlashcardGenerator)
	require.NoError(t, err)
	assert.Equal(t, []string{"topic", "count", "difficulty", "subject"}, fc.RequiredFields())

	quiz, err := r.Lookup(ToolQuizGenerator)
	require.NoError(t, err)
	assert.Equal(t, []string{"topic", "subject", "difficulty", "question_types"}, quiz.RequiredFields())
}

func TestDisplayName(t *testing.T) {
	r := DefaultRegistry()
	assert.Equal(t, "Flashcard Generator", r.DisplayName(ToolFlashcardGenerator))
	assert.Equal(t, "Mystery", r.DisplayName("Mystery"))
}

func TestNewRegistrySkipsDuplicates(t *testing.T) {
	a := &Schema{Name: "A"}
	r := NewRegistry(a, &Schema{Name: "A", Desc: "shadow"}, &Schema{Name: "B"})
	assert.Equal(t, []string{"A", "B"}, r.Names())
	s, err := r.Lookup("A")
	require.NoError(t, err)
	assert.Same(t, a, s)
}

func TestToolInfo(t *testing.T) {
	s, err := DefaultRegistry().Lookup(ToolQuizGenerator)
	require.NoError(t, err)

	info := s.ToolInfo()
	assert.Equal(t, ToolQuizGenerator, info.Name)
	assert.NotNil(t, info.ParamsOneOf)
}

func TestJSONSchema(t *testing.T) {
	s, err := DefaultRegistry().Lookup(ToolFlashcardGenerator)
	require.NoError(t, err)

	js := s.JSONSchema()
	assert.Equal(t, "object", js.Type)
	assert.Equal(t, s.RequiredFields(), js.Required)

	count, ok := js.Properties.Get("count")
	require.True(t, ok)
	assert.Equal(t, "integer", count.Type)
	assert.EqualValues(t, "1", count.Minimum)
	assert.EqualValues(t, "20", count.Maximum)

	difficulty, ok := js.Properties.Get("difficulty")
	require.True(t, ok)
	assert.Equal(t, []any{"easy", "medium", "hard"}, difficulty.Enum)
}

func TestDescriptors(t *testing.T) {
	d := DefaultRegistry().Descriptors()
	require.Len(t, d, 4)
	assert.Equal(t, ToolNoteMaker, d[0].Name)
	assert.Equal(t, "Note Maker", d[0].DisplayName)
	assert.Equal(t, []string{"topic", "subject", "note_taking_style"}, d[0].Parameters.Required)
}
