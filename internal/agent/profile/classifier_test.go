package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/oracle"
	"github.com/tutor-orchestrator/server/internal/agent/oracle/oracletest"
	"github.com/tutor-orchestrator/server/internal/agent/repo"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

var history = []model.ChatMessage{model.UserMessage("I don't get photosynthesis at all, this is so confusing")}

func seeded(t *testing.T, state model.UserState) model.UserStateRepository {
	t.Helper()
	states := repo.NewFileUserStateRepository(t.TempDir())
	require.NoError(t, states.SaveState(context.Background(), "s1", state))
	return states
}

var socratic = model.UserState{
	TeachingStyle:  model.TeachingSocratic,
	EmotionalState: model.EmotionFocused,
	MasteryLevel:   model.MasteryAdvanced,
}

func TestClassifyEmptyHistorySkipsOracle(t *testing.T) {
	fake := oracletest.New()
	c := NewClassifier(fake, seeded(t, socratic), 10)

	assert.Equal(t, socratic, c.Classify(context.Background(), "s1", nil))
	assert.Empty(t, fake.Calls())
}

func TestClassifyUpdatesAndPersists(t *testing.T) {
	ctx := context.Background()
	states := seeded(t, socratic)
	want := model.UserState{
		TeachingStyle:  model.TeachingVisual,
		EmotionalState: model.EmotionConfused,
		MasteryLevel:   model.MasteryFoundation,
	}
	fake := oracletest.New().On(oracle.TaskClassifyState, oracletest.JSON(want))

	got := NewClassifier(fake, states, 10).Classify(ctx, "s1", history)
	assert.Equal(t, want, got)

	persisted, err := states.LoadState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, persisted)

	calls := fake.Calls(oracle.TaskClassifyState)
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, "teaching_style: Socratic")
	assert.NotNil(t, calls[0].Schema)
}

func TestClassifyFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler oracletest.Handler
	}{
		{"oracle unavailable", oracletest.Fail(errx.OracleUnavailable(errors.New("down")))},
		{"out of enumeration", oracletest.JSON(map[string]string{
			"teaching_style":  "Lecture",
			"emotional_state": "Focused",
			"mastery_level":   "Levels 4-6: Developing competence",
		})},
		{"partial answer", oracletest.JSON(map[string]string{"teaching_style": "Direct"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			states := seeded(t, socratic)
			fake := oracletest.New().On(oracle.TaskClassifyState, tt.handler)

			assert.Equal(t, socratic, NewClassifier(fake, states, 10).Classify(ctx, "s1", history))

			persisted, err := states.LoadState(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, socratic, persisted)
		})
	}
}

func TestClassifyDefaultsWithoutPersistedState(t *testing.T) {
	fake := oracletest.New()
	c := NewClassifier(fake, repo.NewFileUserStateRepository(t.TempDir()), 10)
	assert.Equal(t, model.DefaultUserState(), c.Classify(context.Background(), "fresh", nil))
}
