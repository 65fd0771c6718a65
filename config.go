package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	"github.com/tutor-orchestrator/server/internal/core"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
	pkgredis "github.com/tutor-orchestrator/server/pkg/redis"
)

// AppConfig defines all configurable parameters of the service,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis pkgredis.Config
	Store model.StoreConfig

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Oracle       model.OracleConfig
	Conversation model.ConversationConfig
	User         model.UserProfileConfig
	HTTP         model.HTTPConfig
}

// loadConfig reads .env when present, then the process environment, and
// initialises the logger for the configured environment.
func loadConfig(envFile string) (AppConfig, error) {
	envErr := godotenv.Load(envFile)

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, fmt.Errorf("failed to process environment config: %w", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})
	if envErr != nil {
		logx.Warn().Err(envErr).Str("file", envFile).Msg("Could not load env file")
	}
	return cfg, nil
}

func (c AppConfig) conversationTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Conversation.TTL)
	if err != nil {
		return 0, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", c.Conversation.TTL, err)
	}
	return ttl, nil
}

func (c AppConfig) httpTimeouts() (read, write time.Duration, err error) {
	if read, err = time.ParseDuration(c.HTTP.ReadTimeout); err != nil {
		return 0, 0, fmt.Errorf("invalid HTTP_READ_TIMEOUT %q: %w", c.HTTP.ReadTimeout, err)
	}
	if write, err = time.ParseDuration(c.HTTP.WriteTimeout); err != nil {
		return 0, 0, fmt.Errorf("invalid HTTP_WRITE_TIMEOUT %q: %w", c.HTTP.WriteTimeout, err)
	}
	return read, write, nil
}

func (c AppConfig) storeBackend() string {
	return strings.ToLower(strings.TrimSpace(c.Store.Backend))
}
