// Package tutor runs chat turns end to end: history, user state, pipeline.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tutor-orchestrator/server/internal/agent/graph"
	"github.com/tutor-orchestrator/server/internal/agent/graph/conversations"
	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/profile"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
	"github.com/tutor-orchestrator/server/internal/metrics"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// Config wires the service. Every field is required.
type Config struct {
	Messages   *conversations.MessagesManager
	States     model.UserStateRepository
	Classifier *profile.Classifier
	Pipeline   graph.Runner
	Executor   *tools.Executor
	Profile    model.UserProfileConfig
}

type Service struct {
	messages   *conversations.MessagesManager
	states     model.UserStateRepository
	classifier *profile.Classifier
	pipeline   graph.Runner
	executor   *tools.Executor
	profile    model.UserProfileConfig
}

func NewService(cfg Config) (*Service, error) {
	switch {
	case cfg.Messages == nil:
		return nil, errors.New("messages manager is nil")
	case cfg.States == nil:
		return nil, errors.New("user state repository is nil")
	case cfg.Classifier == nil:
		return nil, errors.New("state classifier is nil")
	case cfg.Pipeline == nil:
		return nil, errors.New("pipeline is nil")
	case cfg.Executor == nil:
		return nil, errors.New("tool executor is nil")
	}
	return &Service{
		messages:   cfg.Messages,
		states:     cfg.States,
		classifier: cfg.Classifier,
		pipeline:   cfg.Pipeline,
		executor:   cfg.Executor,
		profile:    cfg.Profile,
	}, nil
}

// Turn answers one student message. The message is persisted before the
// user state is inferred so the classifier sees it; the assistant reply is
// persisted after the pipeline finishes.
func (s *Service) Turn(ctx context.Context, sessionID, message string) (*model.TurnResult, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errx.InvalidInput("message must not be empty")
	}

	prior, full, err := s.messages.RecordUserMessage(ctx, sessionID, message)
	if err != nil {
		metrics.RecordTurn("error")
		return nil, err
	}

	state := s.classifier.Classify(ctx, sessionID, full)

	res, err := s.pipeline.Invoke(ctx, model.TurnInput{
		SessionID: sessionID,
		UserInput: message,
		History:   prior,
		UserInfo:  model.NewUserInfo(s.profile, state),
	})
	if err != nil {
		metrics.RecordTurn("error")
		logx.Error().Err(err).Str("session_id", sessionID).Msg("Turn failed")
		return nil, err
	}

	if err := s.messages.RecordAssistantMessage(ctx, sessionID, res.AssistantMessage); err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("Could not persist assistant message")
	}
	metrics.RecordTurn(string(res.Outcome))
	logx.Info().Str("session_id", sessionID).Str("outcome", string(res.Outcome)).Msg("Turn completed")
	return res, nil
}

func (s *Service) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	return s.messages.History(ctx, sessionID)
}

// UserInfo returns the identity plus the last persisted state of the session.
func (s *Service) UserInfo(ctx context.Context, sessionID string) model.UserInfo {
	state, err := s.states.LoadState(ctx, sessionID)
	if err != nil {
		logx.Warn().Err(err).Str("session_id", sessionID).Msg("Could not load user state; using default")
		state = model.DefaultUserState()
	}
	return model.NewUserInfo(s.profile, state)
}

// ClearSession drops both the chat history and the user state.
func (s *Service) ClearSession(ctx context.Context, sessionID string) error {
	if err := s.messages.Clear(ctx, sessionID); err != nil {
		return err
	}
	return s.states.ClearState(ctx, sessionID)
}

// CallTool runs a tool directly. user_info and chat_history are filled from
// the session when the caller leaves them out.
func (s *Service) CallTool(ctx context.Context, sessionID, name string, args map[string]any) (*tools.ToolResponse, error) {
	if args == nil {
		args = map[string]any{}
	}
	if _, ok := args["user_info"]; !ok {
		args["user_info"] = s.UserInfo(ctx, sessionID)
	}
	if _, ok := args["chat_history"]; !ok {
		history, err := s.messages.History(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		args["chat_history"] = history
	}

	b, err := json.Marshal(args)
	if err != nil {
		return nil, errx.InvalidInput(fmt.Sprintf("arguments are not serialisable: %v", err))
	}
	return s.executor.Execute(ctx, name, string(b)), nil
}

// Tools describes every executable tool.
func (s *Service) Tools() []tools.Descriptor {
	return s.executor.Descriptors()
}
