package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"

	"github.com/tutor-orchestrator/server/internal/agent/graph/prompts"
	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/oracle"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

type toolSelection struct {
	Tools []string `json:"tools"`
}

// NewClassifyPreHandler seeds the pipeline state from the turn input.
func NewClassifyPreHandler() func(context.Context, model.TurnInput, *model.PipelineState) (model.TurnInput, error) {
	return func(ctx context.Context, in model.TurnInput, s *model.PipelineState) (model.TurnInput, error) {
		s.SessionID = in.SessionID
		s.UserInput = in.UserInput
		s.History = in.History
		s.UserInfo = in.UserInfo
		return in, nil
	}
}

// NewClassifyNode asks the oracle which tools the message needs. Names outside
// the registry fail the turn; duplicates are dropped keeping first occurrence.
func NewClassifyNode(d Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, in model.TurnInput) ([]string, error) {
		summaries := make([]prompts.ToolSummary, 0, len(d.Registry.Names()))
		for _, s := range d.Registry.Schemas() {
			summaries = append(summaries, prompts.ToolSummary{Name: s.Name, Desc: s.Desc})
		}

		p, err := prompts.RenderClassify(ctx, summaries, d.historyContext(in.History), in.UserInput)
		if err != nil {
			return nil, err
		}

		var sel toolSelection
		if err := d.Oracle.Complete(ctx, oracle.Request{
			Task:   oracle.TaskClassifyTools,
			System: p.System,
			Prompt: p.User,
			Schema: selectionSchema(d.Registry),
		}, &sel); err != nil {
			return nil, err
		}

		for _, name := range sel.Tools {
			if !d.Registry.Has(name) {
				logx.Warn().Str("session_id", in.SessionID).Str("tool_name", name).Msg("Classifier returned an unknown tool")
				return nil, errx.OracleMalformed(fmt.Errorf("classification: %w", errx.UnknownTool(name)))
			}
		}

		classified := lo.Uniq(sel.Tools)
		logx.Debug().Str("session_id", in.SessionID).Str("node", NodeClassify).Strs("tools", classified).Msg("Tools classified")
		return classified, nil
	})
}

// NewClassifyPostHandler stores the classified tools.
func NewClassifyPostHandler() func(context.Context, []string, *model.PipelineState) ([]string, error) {
	return func(ctx context.Context, out []string, s *model.PipelineState) ([]string, error) {
		s.ClassifiedTools = out
		return out, nil
	}
}

func selectionSchema(r *tools.Registry) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("tools", &jsonschema.Schema{
		Type:        "array",
		Description: "Names of the tools the student's message asks for. Empty when none fits.",
		Items: &jsonschema.Schema{
			Type: "string",
			Enum: lo.Map(r.Names(), func(n string, _ int) any { return n }),
		},
	})
	return &jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   []string{"tools"},
	}
}
