package lock

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	values  map[string]interface{}
	setErr  error
	evalErr error
	evals   int
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]interface{}{}}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, _ time.Duration) *redis.BoolCmd {
	if f.setErr != nil {
		return redis.NewBoolResult(false, f.setErr)
	}

	if _, ok := f.values[key]; ok {
		return redis.NewBoolResult(false, nil)
	}

	f.values[key] = value

	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) Eval(_ context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	f.evals++

	if f.evalErr != nil {
		return redis.NewCmdResult(nil, f.evalErr)
	}

	if f.values[keys[0]] == args[0] {
		delete(f.values, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}

	return redis.NewCmdResult(int64(0), nil)
}

func TestRedisLock_Exclusive(t *testing.T) {
	client := newFakeRedis()
	ctx := context.Background()

	first := NewRedisLock(client, "dispatcher:run", time.Minute)
	second := NewRedisLock(client, "dispatcher:run", time.Minute)

	ok, err := first.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, first.Unlock(ctx))

	ok, err = second.TryLock(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLock_UnlockWithoutHoldingIsNoop(t *testing.T) {
	client := newFakeRedis()
	l := NewRedisLock(client, "dispatcher:run", time.Minute)

	assert.NoError(t, l.Unlock(context.Background()))
	assert.Equal(t, 0, client.evals)
}

func TestRedisLock_DoesNotReleaseForeignToken(t *testing.T) {
	client := newFakeRedis()
	ctx := context.Background()

	l := NewRedisLock(client, "dispatcher:run", time.Minute)
	ok, err := l.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	// The key expired and another instance took it.
	client.values["dispatcher:run"] = "someone-else"

	require.NoError(t, l.Unlock(ctx))
	assert.Equal(t, "someone-else", client.values["dispatcher:run"])
}

func TestRedisLock_Errors(t *testing.T) {
	client := newFakeRedis()
	client.setErr = errors.New("connection refused")
	ctx := context.Background()

	l := NewRedisLock(client, "dispatcher:run", time.Minute)

	ok, err := l.TryLock(ctx)
	assert.Error(t, err)
	assert.False(t, ok)

	client.setErr = nil
	client.evalErr = errors.New("timeout")

	ok, err = l.TryLock(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Error(t, l.Unlock(ctx))
}
