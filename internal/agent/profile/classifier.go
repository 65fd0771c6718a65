// Package profile infers the student's learning state from the conversation.
package profile

import (
	"context"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"

	"github.com/tutor-orchestrator/server/internal/agent/graph/conversations"
	"github.com/tutor-orchestrator/server/internal/agent/graph/prompts"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/oracle"
	"github.com/tutor-orchestrator/server/internal/metrics"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// Classifier re-computes the UserState once per turn. It never fails a turn:
// any problem falls back to the last persisted state.
type Classifier struct {
	oracle   oracle.Oracle
	states   model.UserStateRepository
	maxTurns int
}

func NewClassifier(o oracle.Oracle, states model.UserStateRepository, maxTurns int) *Classifier {
	return &Classifier{oracle: o, states: states, maxTurns: maxTurns}
}

// Classify returns the state for this turn given the full history, including
// the message being answered. Empty history skips inference entirely.
func (c *Classifier) Classify(ctx context.Context, sessionID string, history []model.ChatMessage) model.UserState {
	previous, err := c.states.LoadState(ctx, sessionID)
	if err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("Could not load user state; using default")
		previous = model.DefaultUserState()
	}
	if len(history) == 0 {
		return previous
	}

	p, err := prompts.RenderState(ctx, previous, conversations.FormatContext(history, c.maxTurns))
	if err != nil {
		return c.fallback(sessionID, previous, err)
	}

	var next model.UserState
	if err := c.oracle.Complete(ctx, oracle.Request{
		Task:   oracle.TaskClassifyState,
		System: p.System,
		Prompt: p.User,
		Schema: stateSchema(),
	}, &next); err != nil {
		return c.fallback(sessionID, previous, err)
	}
	if err := next.Validate(); err != nil {
		return c.fallback(sessionID, previous, err)
	}

	if err := c.states.SaveState(ctx, sessionID, next); err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("Could not persist user state")
	}
	logx.Debug().
		Str("session_id", sessionID).
		Str("teaching_style", string(next.TeachingStyle)).
		Str("emotional_state", string(next.EmotionalState)).
		Str("mastery_level", string(next.MasteryLevel)).
		Msg("User state updated")
	return next
}

func (c *Classifier) fallback(sessionID string, previous model.UserState, err error) model.UserState {
	metrics.RecordStateFallback()
	logx.Warn().Err(err).Str("session_id", sessionID).Msg("Error updating user state; using previous state")
	return previous
}

func stateSchema() *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("teaching_style", &jsonschema.Schema{
		Type:        "string",
		Description: "The best teaching style for the next turn.",
		Enum:        lo.ToAnySlice(model.TeachingStyles()),
	})
	props.Set("emotional_state", &jsonschema.Schema{
		Type:        "string",
		Description: "The student's current emotional state.",
		Enum:        lo.ToAnySlice(model.EmotionalStates()),
	})
	props.Set("mastery_level", &jsonschema.Schema{
		Type:        "string",
		Description: "The student's mastery of the topic discussed.",
		Enum:        lo.ToAnySlice(model.MasteryLevels()),
	})
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"teaching_style", "emotional_state", "mastery_level"},
	}
}
