package repo

import (
	"context"
	"sync"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// FileConversationRepository keeps each session's history as a JSON array in
// <dir>/<session>/chat_history.json. Every append rewrites the whole file.
type FileConversationRepository struct {
	dir string
	mu  sync.Mutex
}

func NewFileConversationRepository(dir string) *FileConversationRepository {
	return &FileConversationRepository{dir: dir}
}

func (r *FileConversationRepository) load(sessionID string) ([]model.ChatMessage, string, error) {
	path, err := sessionPath(r.dir, sessionID, chatHistoryFile)
	if err != nil {
		return nil, "", err
	}
	msgs := []model.ChatMessage{}
	if _, err := readJSON(path, &msgs); err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to read chat history")
		return nil, "", err
	}
	return msgs, path, nil
}

func (r *FileConversationRepository) AddMessage(ctx context.Context, sessionID string, message model.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs, path, err := r.load(sessionID)
	if err != nil {
		return err
	}
	if err := writeJSON(path, append(msgs, message)); err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to write chat history")
		return err
	}
	return nil
}

func (r *FileConversationRepository) LoadHistory(ctx context.Context, sessionID string) (*model.ConversationHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgs, _, err := r.load(sessionID)
	if err != nil {
		return nil, err
	}
	return &model.ConversationHistory{SessionID: sessionID, Messages: msgs}, nil
}

func (r *FileConversationRepository) ClearHistory(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := sessionPath(r.dir, sessionID, chatHistoryFile)
	if err != nil {
		return err
	}
	return removeFile(path)
}

func (r *FileConversationRepository) GetMessageCount(ctx context.Context, sessionID string) (int, error) {
	h, err := r.LoadHistory(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return len(h.Messages), nil
}

var _ model.ConversationRepository = (*FileConversationRepository)(nil)
