package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/samber/lo"

	"github.com/tutor-orchestrator/server/internal/agent/model"
)

var (
	//go:embed template/classify_system.txt
	classifySystem string
	//go:embed template/classify_user.txt
	classifyUser string
	//go:embed template/extract_system.txt
	extractSystem string
	//go:embed template/extract_user.txt
	extractUser string
	//go:embed template/clarify_system.txt
	clarifySystem string
	//go:embed template/clarify_user.txt
	clarifyUser string
	//go:embed template/state_system.txt
	stateSystem string
	//go:embed template/state_user.txt
	stateUser string
)

// Rendered is a system instruction plus the task prompt.
type Rendered struct {
	System string
	User   string
}

// ToolSummary is the name and purpose of one tool, listed to the classifier.
type ToolSummary struct {
	Name string
	Desc string
}

// ExtractVars feeds the per-tool extraction prompt.
type ExtractVars struct {
	Tool    string
	Desc    string
	User    model.UserInfo
	History string
	Input   string
}

// RenderClassify renders the tool classification prompt.
func RenderClassify(ctx context.Context, tools []ToolSummary, history, input string) (Rendered, error) {
	return render(ctx, "classify", classifySystem, classifyUser, map[string]any{
		"tools":   tools,
		"history": history,
		"input":   input,
	})
}

// RenderExtract renders the parameter extraction prompt for one tool. Negative
// emotional states add an instruction to prefer easier settings.
func RenderExtract(ctx context.Context, v ExtractVars) (Rendered, error) {
	return render(ctx, "extract", extractSystem, extractUser, map[string]any{
		"tool":     v.Tool,
		"desc":     v.Desc,
		"user":     v.User,
		"negative": v.User.EmotionalState.IsNegative(),
		"emotion":  strings.ToLower(string(v.User.EmotionalState)),
		"history":  v.History,
		"input":    v.Input,
	})
}

// RenderClarify renders the clarification prompt around the missing-field summary.
func RenderClarify(ctx context.Context, user model.UserInfo, summary, input string) (Rendered, error) {
	return render(ctx, "clarify", clarifySystem, clarifyUser, map[string]any{
		"user":    user,
		"summary": summary,
		"input":   input,
	})
}

// RenderState renders the user state classification prompt.
func RenderState(ctx context.Context, previous model.UserState, history string) (Rendered, error) {
	return render(ctx, "state", stateSystem, stateUser, map[string]any{
		"styles":   joinValues(model.TeachingStyles(), ", "),
		"emotions": joinValues(model.EmotionalStates(), ", "),
		"levels":   joinValues(model.MasteryLevels(), "; "),
		"previous": previous,
		"history":  history,
	})
}

func joinValues[T ~string](vals []T, sep string) string {
	return strings.Join(lo.Map(vals, func(v T, _ int) string { return string(v) }), sep)
}

// render goes through the Eino prompt component so prompt callbacks fire.
func render(ctx context.Context, name, system, user string, vars map[string]any) (Rendered, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(system),
		schema.UserMessage(user),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return Rendered{}, fmt.Errorf("render %s prompt: %w", name, err)
	}
	if len(msgs) != 2 || msgs[0] == nil || msgs[1] == nil {
		return Rendered{}, fmt.Errorf("render %s prompt: unexpected result", name)
	}
	return Rendered{
		System: strings.TrimSpace(msgs[0].Content),
		User:   strings.TrimSpace(msgs[1].Content),
	}, nil
}
