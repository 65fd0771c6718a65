package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// newPromptHandler logs rendered prompts.
func newPromptHandler() *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			ev := logx.Debug().Str("component", "prompt").Str("type", info.Type).Str("name", info.Name)
			if output != nil {
				ev = ev.Int("messages", len(output.Result))
				if len(output.Result) > 0 && output.Result[0] != nil {
					ev = ev.Str("rendered", truncate(output.Result[0].Content, maxLoggedContent))
				}
			}
			ev.Msg("Prompt rendered")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("component", "prompt").Str("name", info.Name).Msg("Prompt rendering failed")
			return ctx
		},
	}
}
