package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// NewValidateNode partitions the extracted parameters into complete and
// incomplete tools.
func NewValidateNode(d Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.ExtractedParameters) (model.ValidationResult, error) {
		return d.Registry.Validate(in)
	})
}

// NewValidatePostHandler stores the partition.
func NewValidatePostHandler() func(context.Context, model.ValidationResult, *model.PipelineState) (model.ValidationResult, error) {
	return func(ctx context.Context, out model.ValidationResult, s *model.PipelineState) (model.ValidationResult, error) {
		s.CompleteTools = out.CompleteTools
		s.IncompleteTools = out.IncompleteTools
		logx.Debug().
			Str("session_id", s.SessionID).
			Str("node", NodeValidate).
			Int("complete", len(out.CompleteTools)).
			Int("incomplete", len(out.IncompleteTools)).
			Msg("Parameters validated")
		return out, nil
	}
}

// Decide picks the terminal node. Any complete tool wins over incomplete ones.
func Decide(res model.ValidationResult) string {
	switch {
	case len(res.CompleteTools) > 0:
		return NodeRespondTools
	case len(res.IncompleteTools) > 0:
		return NodeRequestInfo
	default:
		return NodeNoMatch
	}
}

// NewOutcomeCondition routes on the validation result.
func NewOutcomeCondition() func(context.Context, model.ValidationResult) (string, error) {
	return func(ctx context.Context, in model.ValidationResult) (string, error) {
		next := Decide(in)
		logx.Debug().Str("next", next).Msg("Routing turn")
		return next, nil
	}
}
