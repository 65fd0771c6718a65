package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tutor-orchestrator/server/internal/agent/graph"
	"github.com/tutor-orchestrator/server/internal/agent/graph/conversations"
	"github.com/tutor-orchestrator/server/internal/agent/graph/observers"
	"github.com/tutor-orchestrator/server/internal/agent/graph/tools"
	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/agent/oracle"
	"github.com/tutor-orchestrator/server/internal/agent/profile"
	"github.com/tutor-orchestrator/server/internal/agent/repo"
	"github.com/tutor-orchestrator/server/internal/agent/tutor"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

type stores struct {
	conversations model.ConversationRepository
	states        model.UserStateRepository
	close         func()
}

func openStores(cfg AppConfig) (*stores, error) {
	switch cfg.storeBackend() {
	case "redis":
		ttl, err := cfg.conversationTTL()
		if err != nil {
			return nil, err
		}
		rdb, err := cfg.Redis.New()
		if err != nil {
			return nil, fmt.Errorf("failed to initialise Redis client: %w", err)
		}
		logx.Info().Msg("Connected to Redis successfully")
		return &stores{
			conversations: repo.NewRedisConversationRepository(rdb, ttl),
			states:        repo.NewRedisUserStateRepository(rdb, ttl),
			close:         func() { _ = rdb.Close() },
		}, nil
	case "file", "":
		logx.Info().Str("dir", cfg.Store.DataDir).Msg("Using file store")
		return &stores{
			conversations: repo.NewFileConversationRepository(cfg.Store.DataDir),
			states:        repo.NewFileUserStateRepository(cfg.Store.DataDir),
			close:         func() {},
		}, nil
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}
}

// buildService wires stores, oracle, pipeline and executor into a tutor.Service.
// The returned func releases the stores.
func buildService(ctx context.Context, cfg AppConfig) (*tutor.Service, func(), error) {
	if cfg.APIKey == "" {
		return nil, nil, errors.New("GEMINI_API_KEY is required")
	}

	st, err := openStores(cfg)
	if err != nil {
		return nil, nil, err
	}

	svc, err := newService(ctx, cfg, st)
	if err != nil {
		st.close()
		return nil, nil, err
	}
	return svc, st.close, nil
}

func newService(ctx context.Context, cfg AppConfig, st *stores) (*tutor.Service, error) {
	o, err := oracle.NewGeminiOracle(ctx, oracle.GeminiConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Oracle:  cfg.Oracle,
	})
	if err != nil {
		return nil, err
	}

	registry := tools.DefaultRegistry()

	executor, err := tools.NewExecutor(registry, observers.NewToolCallbacks())
	if err != nil {
		return nil, fmt.Errorf("failed to build tool executor: %w", err)
	}

	pipeline, err := graph.BuildPipeline(ctx, graph.Config{
		Oracle:       o,
		Registry:     registry,
		Conversation: cfg.Conversation,
		Callbacks:    observers.NewAllCallbacks(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	return tutor.NewService(tutor.Config{
		Messages:   conversations.NewMessagesManager(st.conversations, cfg.Conversation),
		States:     st.states,
		Classifier: profile.NewClassifier(o, st.states, cfg.Conversation.Prompt.MaxTurns),
		Pipeline:   pipeline,
		Executor:   executor,
		Profile:    cfg.User,
	})
}
