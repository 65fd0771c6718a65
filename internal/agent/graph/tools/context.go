package tools

import "github.com/tutor-orchestrator/server/internal/agent/model"

// LearnerContext is injected into every tool call next to the extracted
// parameters.
type LearnerContext struct {
	UserInfo    model.UserInfo      `json:"user_info"`
	ChatHistory []model.ChatMessage `json:"chat_history,omitempty"`
}
