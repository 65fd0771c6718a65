package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// newToolHandler logs tool arguments and responses.
func newToolHandler() *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			ev := logx.Debug().Str("component", "tool").Str("tool_name", info.Name)
			if input != nil {
				ev = ev.Str("arguments", truncate(input.ArgumentsInJSON, maxLoggedContent))
			}
			ev.Msg("Tool started")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			ev := logx.Debug().Str("component", "tool").Str("tool_name", info.Name)
			if output != nil {
				ev = ev.Str("response", truncate(output.Response, maxLoggedContent))
			}
			ev.Msg("Tool finished")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Warn().Err(err).Str("component", "tool").Str("tool_name", info.Name).Msg("Tool execution failed")
			return ctx
		},
	}
}
