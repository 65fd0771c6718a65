package nodes

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/samber/lo"

	"github.com/tutor-orchestrator/server/internal/agent/graph/prompts"
	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/oracle"
	"github.com/tutor-orchestrator/server/internal/metrics"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// NoMatchMessage answers turns where no tool was classified.
const NoMatchMessage = "Sorry, I could not help with that request. I can make study notes, generate flashcards, explain a concept, or build a practice quiz. What would you like to do?"

// NewRespondToolsNode returns the complete tools, in classified order, with
// their parameters. Incomplete tools of the same turn are not surfaced.
func NewRespondToolsNode(d Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.ValidationResult) (*model.TurnResult, error) {
		st, err := readState(ctx)
		if err != nil {
			return nil, err
		}

		names := lo.Filter(st.ClassifiedTools, func(n string, _ int) bool {
			_, ok := in.CompleteTools[n]
			return ok
		})
		params := make(model.ExtractedParameters, len(names))
		for _, n := range names {
			params[n] = in.CompleteTools[n]
		}

		display := lo.Map(names, func(n string, _ int) string { return d.Registry.DisplayName(n) })
		logx.Debug().Str("session_id", st.SessionID).Str("node", NodeRespondTools).Strs("tools", names).Msg("Responding with tools")

		return &model.TurnResult{
			Outcome:             model.OutcomeTools,
			ClassifiedTools:     names,
			ExtractedParameters: params,
			AssistantMessage:    "I can help with: " + strings.Join(display, ", ") + ".",
		}, nil
	})
}

// ClarificationSummary lists the missing fields per incomplete tool, one line
// per tool, following order (tools absent from order come last, by name).
func ClarificationSummary(r *tools.Registry, order []string, incomplete map[string][]string) string {
	names := lo.Filter(order, func(n string, _ int) bool {
		_, ok := incomplete[n]
		return ok
	})
	rest := lo.Without(lo.Keys(incomplete), names...)
	names = append(lo.Uniq(names), sortedStrings(rest)...)

	lines := make([]string, 0, len(names))
	for _, n := range names {
		lines = append(lines, fmt.Sprintf("For the %s, I'm missing: %s.", r.DisplayName(n), strings.Join(incomplete[n], ", ")))
	}
	return strings.Join(lines, "\n")
}

// NewRequestInfoNode asks one question covering every missing field. When the
// oracle cannot phrase it, the raw summary is used instead.
func NewRequestInfoNode(d Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.ValidationResult) (*model.TurnResult, error) {
		st, err := readState(ctx)
		if err != nil {
			return nil, err
		}

		summary := ClarificationSummary(d.Registry, st.ClassifiedTools, in.IncompleteTools)
		question, err := clarify(ctx, d, st, summary)
		if err != nil {
			metrics.RecordClarifyFallback()
			logx.Warn().Err(err).Str("session_id", st.SessionID).Str("node", NodeRequestInfo).Msg("Clarification failed; using missing-field summary")
			question = summary
		}

		err = compose.ProcessState(ctx, func(_ context.Context, s *model.PipelineState) error {
			s.ClarificationQuestion = question
			return nil
		})
		if err != nil {
			return nil, err
		}

		return &model.TurnResult{
			Outcome:               model.OutcomeClarify,
			ClarificationQuestion: question,
			AssistantMessage:      question,
		}, nil
	})
}

func clarify(ctx context.Context, d Deps, st model.PipelineState, summary string) (string, error) {
	p, err := prompts.RenderClarify(ctx, st.UserInfo, summary, st.UserInput)
	if err != nil {
		return "", err
	}
	var question string
	if err := d.Oracle.Complete(ctx, oracle.Request{
		Task:   oracle.TaskClarify,
		System: p.System,
		Prompt: p.User,
	}, &question); err != nil {
		return "", err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("empty clarification")
	}
	return question, nil
}

// NewNoMatchNode answers with the generic could-not-help message.
func NewNoMatchNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.ValidationResult) (*model.TurnResult, error) {
		logx.Debug().Str("node", NodeNoMatch).Msg("No tool matched")
		return &model.TurnResult{
			Outcome:               model.OutcomeNoMatch,
			ClarificationQuestion: NoMatchMessage,
			AssistantMessage:      NoMatchMessage,
		}, nil
	})
}
