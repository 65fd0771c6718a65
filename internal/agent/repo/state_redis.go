package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
	logx "github.com/tutor-orchestrator/server/pkg/logger"
)

// RedisUserStateRepository stores one JSON document per session. SET replaces
// the whole document, so concurrent writers resolve as last write wins.
type RedisUserStateRepository struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisUserStateRepository(rdb redis.Cmdable, ttl time.Duration) *RedisUserStateRepository {
	return &RedisUserStateRepository{rdb: rdb, ttl: ttl}
}

func (r *RedisUserStateRepository) stateKey(sessionID string) string {
	return fmt.Sprintf("session:%s:user_state", sessionID)
}

func (r *RedisUserStateRepository) LoadState(ctx context.Context, sessionID string) (model.UserState, error) {
	key := r.stateKey(sessionID)
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.DefaultUserState(), nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load user state from redis")
		return model.UserState{}, errx.WrapRedis(err)
	}

	var state model.UserState
	if err := json.Unmarshal(raw, &state); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to unmarshal user state")
		return model.UserState{}, fmt.Errorf("unmarshal user state: %w", err)
	}
	return state, nil
}

func (r *RedisUserStateRepository) SaveState(ctx context.Context, sessionID string, state model.UserState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal user state: %w", err)
	}
	key := r.stateKey(sessionID)
	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save user state to redis")
		return errx.WrapRedis(err)
	}
	return nil
}

func (r *RedisUserStateRepository) ClearState(ctx context.Context, sessionID string) error {
	key := r.stateKey(sessionID)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete user state from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ model.UserStateRepository = (*RedisUserStateRepository)(nil)
