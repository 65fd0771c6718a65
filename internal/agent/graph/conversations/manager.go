package conversations

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/tutor-orchestrator/server/internal/agent/model"
)

type MessagesManager struct {
	conversationRepo model.ConversationRepository
	promptMaxTurns   int
}

func NewMessagesManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *MessagesManager {
	return &MessagesManager{
		conversationRepo: conversationRepo,
		promptMaxTurns:   config.Prompt.MaxTurns,
	}
}

// RecordUserMessage persists the student's message and returns the history
// that preceded it together with the full history including it.
func (cm *MessagesManager) RecordUserMessage(ctx context.Context, sessionID, content string) (prior, full []model.ChatMessage, err error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	msg := model.UserMessage(content)
	if err := cm.conversationRepo.AddMessage(ctx, sessionID, msg); err != nil {
		return nil, nil, err
	}
	prior = history.Messages
	full = append(append(make([]model.ChatMessage, 0, len(prior)+1), prior...), msg)
	return prior, full, nil
}

func (cm *MessagesManager) RecordAssistantMessage(ctx context.Context, sessionID, content string) error {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	return cm.conversationRepo.AddMessage(ctx, sessionID, model.AssistantMessage(content))
}

func (cm *MessagesManager) History(ctx context.Context, sessionID string) ([]model.ChatMessage, error) {
	history, err := cm.conversationRepo.LoadHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return history.Messages, nil
}

func (cm *MessagesManager) Clear(ctx context.Context, sessionID string) error {
	return cm.conversationRepo.ClearHistory(ctx, sessionID)
}

// Context renders the tail of messages for a prompt.
func (cm *MessagesManager) Context(messages []model.ChatMessage) string {
	return FormatContext(messages, cm.promptMaxTurns)
}

// FormatContext renders the last maxTurns messages as a tagged transcript.
// maxTurns <= 0 keeps every message.
func FormatContext(messages []model.ChatMessage, maxTurns int) string {
	recentMessages := trimTail(messages, maxTurns)

	var contextBuilder strings.Builder
	contextBuilder.WriteString("<conversation_context>\n")

	for _, msg := range recentMessages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case schema.User:
			contextBuilder.WriteString("UserMessage(" + msg.Content + ")\n")
		case schema.Assistant:
			contextBuilder.WriteString("AssistantMessage(" + msg.Content + ")\n")
		}
	}

	contextBuilder.WriteString("</conversation_context>")
	return contextBuilder.String()
}

// ====================== Helper function ======================
func trimTail(messages []model.ChatMessage, maxTurns int) []model.ChatMessage {
	if maxTurns <= 0 || len(messages) <= maxTurns {
		result := make([]model.ChatMessage, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]model.ChatMessage, len(source))
	copy(result, source)
	return result
}
