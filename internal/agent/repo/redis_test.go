package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutor-orchestrator/server/internal/agent/model"
	errx "github.com/tutor-orchestrator/server/internal/core/error"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestRedisConversationRepository(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	repo := NewRedisConversationRepository(rdb, time.Hour)

	h, err := repo.LoadHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, h.Messages)

	require.NoError(t, repo.AddMessage(ctx, "s1", model.UserMessage("make flashcards")))
	require.NoError(t, repo.AddMessage(ctx, "s1", model.AssistantMessage("How many?")))
	require.NoError(t, repo.AddMessage(ctx, "s2", model.UserMessage("other session")))

	h, err = repo.LoadHistory(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []model.ChatMessage{model.UserMessage("make flashcards"), model.AssistantMessage("How many?")}, h.Messages)

	n, err := repo.GetMessageCount(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.True(t, mr.Exists("session:s1:messages"))
	assert.Equal(t, time.Hour, mr.TTL("session:s1:messages"))

	require.NoError(t, repo.ClearHistory(ctx, "s1"))
	n, err = repo.GetMessageCount(ctx, "s1")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.GetMessageCount(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRedisConversationRepositoryUnavailable(t *testing.T) {
	mr, rdb := newRedis(t)
	mr.Close()

	_, err := NewRedisConversationRepository(rdb, 0).LoadHistory(context.Background(), "s1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errx.ErrStorage))
	assert.Equal(t, 502, errx.StatusOf(err))
}

func TestRedisUserStateRepository(t *testing.T) {
	ctx := context.Background()
	mr, rdb := newRedis(t)
	repo := NewRedisUserStateRepository(rdb, 30*time.Minute)

	state, err := repo.LoadState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUserState(), state)

	want := model.UserState{
		TeachingStyle:  model.TeachingSocratic,
		EmotionalState: model.EmotionTired,
		MasteryLevel:   model.MasteryAdvanced,
	}
	require.NoError(t, repo.SaveState(ctx, "s1", want))
	assert.Equal(t, 30*time.Minute, mr.TTL("session:s1:user_state"))

	state, err = repo.LoadState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, want, state)

	require.NoError(t, repo.ClearState(ctx, "s1"))
	state, err = repo.LoadState(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultUserState(), state)
}

func TestRedisUserStateRepositoryCorruptDocument(t *testing.T) {
	mr, rdb := newRedis(t)
	require.NoError(t, mr.Set("session:s1:user_state", "{not json"))

	_, err := NewRedisUserStateRepository(rdb, 0).LoadState(context.Background(), "s1")
	assert.Error(t, err)
}
