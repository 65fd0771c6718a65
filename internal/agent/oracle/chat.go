package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
	"github.com/tutor-orchestrator/server/internal/metrics"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

const (
	resultOK          = "ok"
	resultUnavailable = "unavailable"
	resultMalformed   = "malformed"
)

var errEmptyAnswer = errors.New("empty answer")

// TaskModel is the chat model serving one task. Name is used for pricing and logs.
type TaskModel struct {
	Model einomodel.BaseChatModel
	Name  string
}

// ChatOracle answers requests with Eino chat models, one per task.
type ChatOracle struct {
	models map[Task]TaskModel
}

func NewChatOracle(models map[Task]TaskModel) (*ChatOracle, error) {
	for _, task := range Tasks() {
		tm, ok := models[task]
		if !ok || tm.Model == nil {
			return nil, fmt.Errorf("no chat model configured for task %s", task)
		}
	}
	return &ChatOracle{models: models}, nil
}

func (o *ChatOracle) Complete(ctx context.Context, req Request, out any) error {
	tm, ok := o.models[req.Task]
	if !ok {
		return errx.OracleUnavailable(fmt.Errorf("unknown task %q", req.Task))
	}

	system := req.System
	if req.Schema != nil {
		b, err := json.MarshalIndent(req.Schema, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal output schema: %w", err)
		}
		system += "\n\nRespond with a single JSON object that validates against this JSON Schema. Do not add prose or code fences.\n" + string(b)
	}

	ctx = einocb.ReuseHandlers(ctx, &einocb.RunInfo{
		Name:      string(req.Task),
		Type:      tm.Name,
		Component: components.ComponentOfChatModel,
	})

	msg, err := tm.Model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(req.Prompt),
	})
	if err != nil {
		metrics.RecordOracleCall(string(req.Task), resultUnavailable)
		logx.Error().Err(err).Str("task", string(req.Task)).Str("model", tm.Name).Msg("Inference call failed")
		return errx.OracleUnavailable(err)
	}
	recordUsage(req.Task, tm.Name, msg)

	if err := decode(msg, req.Schema != nil, out); err != nil {
		metrics.RecordOracleCall(string(req.Task), resultMalformed)
		logx.Warn().Err(err).Str("task", string(req.Task)).Str("model", tm.Name).Msg("Inference answer is malformed")
		return errx.OracleMalformed(err)
	}
	metrics.RecordOracleCall(string(req.Task), resultOK)
	return nil
}

func decode(msg *schema.Message, structured bool, out any) error {
	if msg == nil {
		return errEmptyAnswer
	}
	content := strings.TrimSpace(msg.Content)
	if content == "" {
		return errEmptyAnswer
	}

	if !structured {
		s, ok := out.(*string)
		if !ok {
			return fmt.Errorf("free text answer needs *string, got %T", out)
		}
		*s = content
		return nil
	}

	raw := extractJSON(content)
	if raw == "" {
		return fmt.Errorf("no JSON object in answer")
	}
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode answer: %w", err)
	}
	return nil
}

// extractJSON returns the outermost JSON object in s, ignoring code fences and
// surrounding prose.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

func recordUsage(task Task, modelName string, msg *schema.Message) {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return
	}
	usage := msg.ResponseMeta.Usage
	cost := model.ComputeCost(usage, model.ResolvePricing(modelName))
	metrics.RecordOracleCost(modelName, cost.Total())

	logx.Debug().
		Str("task", string(task)).
		Str("model", modelName).
		Int("prompt_tokens", usage.PromptTokens).
		Int("completion_tokens", usage.CompletionTokens).
		Int("total_tokens", usage.TotalTokens).
		Float64("input_cost_usd", cost.Input).
		Float64("output_cost_usd", cost.Output).
		Float64("total_cost_usd", cost.Total()).
		Msg("LLM usage")
}
