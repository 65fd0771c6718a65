package model

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// ChatMessage is one immutable entry of a session's chat history.
// Only schema.User and schema.Assistant roles are persisted.
type ChatMessage struct {
	Role    schema.RoleType `json:"role"`
	Content string          `json:"content"`
}

func UserMessage(content string) ChatMessage {
	return ChatMessage{Role: schema.User, Content: content}
}

func AssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: schema.Assistant, Content: content}
}

type ConversationRepository interface {
	// AddMessage appends a message to the history of the given session
	AddMessage(ctx context.Context, sessionID string, message ChatMessage) error

	// LoadHistory retrieves the ordered history for a session
	LoadHistory(ctx context.Context, sessionID string) (*ConversationHistory, error)

	// ClearHistory removes all history for a session
	ClearHistory(ctx context.Context, sessionID string) error

	// GetMessageCount returns the number of messages in the session
	GetMessageCount(ctx context.Context, sessionID string) (int, error)
}

// UserStateRepository persists the last known UserState per session.
// Writes are last-write-wins; no locking is provided.
type UserStateRepository interface {
	// LoadState returns DefaultUserState when nothing is persisted yet.
	LoadState(ctx context.Context, sessionID string) (UserState, error)
	SaveState(ctx context.Context, sessionID string, state UserState) error
	ClearState(ctx context.Context, sessionID string) error
}

// ConversationHistory represents loaded conversation data with metadata.
type ConversationHistory struct {
	SessionID string
	Messages  []ChatMessage
}
