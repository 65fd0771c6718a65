package oracle

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// GeminiConfig holds what is needed to build the per-task Gemini chat models.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Oracle  model.OracleConfig
}

// NewGeminiOracle creates one Gemini chat model per task over a shared client.
func NewGeminiOracle(ctx context.Context, cfg GeminiConfig) (*ChatOracle, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	perTask := map[Task]model.ModelConfig{
		TaskClassifyTools:     cfg.Oracle.Classifier.ModelConfig(),
		TaskExtractParameters: cfg.Oracle.Extractor.ModelConfig(),
		TaskClarify:           cfg.Oracle.Clarifier.ModelConfig(),
		TaskClassifyState:     cfg.Oracle.State.ModelConfig(),
	}

	models := make(map[Task]TaskModel, len(perTask))
	for task, mc := range perTask {
		cm, err := newGeminiChatModel(ctx, client, mc, cfg.Oracle.ThinkingBudget)
		if err != nil {
			logx.Error().Err(err).Str("task", string(task)).Msg("Error creating chat model")
			return nil, fmt.Errorf("error creating %s model: %w", task, err)
		}
		models[task] = TaskModel{Model: cm, Name: mc.Model}
	}

	return NewChatOracle(models)
}

func newGeminiChatModel(ctx context.Context, client *genai.Client, mc model.ModelConfig, thinkingBudget int32) (*gemini.ChatModel, error) {
	temperature := mc.Temperature
	maxTokens := mc.MaxTokens

	cfg := &gemini.Config{
		Client:      client,
		Model:       mc.Model,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	}
	if thinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(thinkingBudget),
		}
	}
	return gemini.NewChatModel(ctx, cfg)
}
