package nodes

import (
	"context"
	"sort"

	"github.com/cloudwego/eino/compose"

	"github.com/tutor-orchestrator/server/internal/agent/graph/conversations"
	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/oracle"
)

// Node names
const (
	NodeClassify     = "ClassifyTools"
	NodeExtract      = "ExtractParameters"
	NodeValidate     = "ValidateParameters"
	NodeRespondTools = "RespondTools"
	NodeRequestInfo  = "RequestInfo"
	NodeNoMatch      = "NoMatch"
)

// Deps are the collaborators shared by the pipeline nodes.
type Deps struct {
	Oracle   oracle.Oracle
	Registry *tools.Registry
	// MaxTurns bounds the history rendered into prompts.
	MaxTurns int
}

func (d Deps) historyContext(history []model.ChatMessage) string {
	return conversations.FormatContext(history, d.MaxTurns)
}

// readState copies the pipeline state out of the graph.
func readState(ctx context.Context) (model.PipelineState, error) {
	var snapshot model.PipelineState
	err := compose.ProcessState(ctx, func(_ context.Context, s *model.PipelineState) error {
		snapshot = *s
		return nil
	})
	return snapshot, err
}

func sortedStrings(in []string) []string {
	out := append([]string(nil), in...)
	sort.Strings(out)
	return out
}
