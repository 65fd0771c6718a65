package repo

import (
	"context"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// FileUserStateRepository keeps <dir>/<session>/user_state.json.
type FileUserStateRepository struct {
	dir string
}

func NewFileUserStateRepository(dir string) *FileUserStateRepository {
	return &FileUserStateRepository{dir: dir}
}

func (r *FileUserStateRepository) LoadState(ctx context.Context, sessionID string) (model.UserState, error) {
	path, err := sessionPath(r.dir, sessionID, userStateFile)
	if err != nil {
		return model.UserState{}, err
	}
	var state model.UserState
	found, err := readJSON(path, &state)
	if err != nil {
		logx.Error().Err(err).Str("path", path).Msg("failed to read user state")
		return model.UserState{}, err
	}
	if !found {
		return model.DefaultUserState(), nil
	}
	return state, nil
}

func (r *FileUserStateRepository) SaveState(ctx context.Context, sessionID string, state model.UserState) error {
	path, err := sessionPath(r.dir, sessionID, userStateFile)
	if err != nil {
		return err
	}
	return writeJSON(path, state)
}

func (r *FileUserStateRepository) ClearState(ctx context.Context, sessionID string) error {
	path, err := sessionPath(r.dir, sessionID, userStateFile)
	if err != nil {
		return err
	}
	return removeFile(path)
}

var _ model.UserStateRepository = (*FileUserStateRepository)(nil)
