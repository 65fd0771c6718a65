package nodes

import (
	"context"

	"github.com/cloudwego/eino/compose"
	"github.com/invopop/jsonschema"

	"github.com/tutor-orchestrator/server/internal/agent/graph/prompts"
	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/oracle"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// NewExtractNode fills each classified tool's schema with one oracle call per
// tool, in classified order. Every schema is resolved before the first call so
// an unknown tool fails the turn without any extraction.
func NewExtractNode(d Deps) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, classified []string) (model.ExtractedParameters, error) {
		extracted := make(model.ExtractedParameters, len(classified))
		if len(classified) == 0 {
			return extracted, nil
		}

		schemas := make([]*tools.Schema, 0, len(classified))
		for _, name := range classified {
			s, err := d.Registry.Lookup(name)
			if err != nil {
				return nil, err
			}
			schemas = append(schemas, s)
		}

		st, err := readState(ctx)
		if err != nil {
			return nil, err
		}
		history := d.historyContext(st.History)

		for _, s := range schemas {
			p, err := prompts.RenderExtract(ctx, prompts.ExtractVars{
				Tool:    s.Name,
				Desc:    s.Desc,
				User:    st.UserInfo,
				History: history,
				Input:   st.UserInput,
			})
			if err != nil {
				return nil, err
			}

			raw := map[string]any{}
			if err := d.Oracle.Complete(ctx, oracle.Request{
				Task:   oracle.TaskExtractParameters,
				System: p.System,
				Prompt: p.User,
				Schema: extractionSchema(s),
			}, &raw); err != nil {
				return nil, err
			}

			extracted[s.Name] = s.Normalize(raw)
			logx.Debug().
				Str("session_id", st.SessionID).
				Str("node", NodeExtract).
				Str("tool_name", s.Name).
				Int("fields", len(extracted[s.Name])).
				Msg("Parameters extracted")
		}
		return extracted, nil
	})
}

// NewExtractPostHandler stores the extracted parameters.
func NewExtractPostHandler() func(context.Context, model.ExtractedParameters, *model.PipelineState) (model.ExtractedParameters, error) {
	return func(ctx context.Context, out model.ExtractedParameters, s *model.PipelineState) (model.ExtractedParameters, error) {
		s.ExtractedParameters = out
		return out, nil
	}
}

// extractionSchema is the tool schema without required markers, so the oracle
// may leave unknown values out.
func extractionSchema(s *tools.Schema) *jsonschema.Schema {
	js := s.JSONSchema()
	js.Required = nil
	js.Description = s.Desc + " Leave out any field whose value is not stated or clearly implied."
	return js
}
