package redis

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/narusushi/lunch-backend/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDel(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	require.NoError(t, client.Set(ctx, client.CartKey("sess-1"), `[]`, time.Hour))
	got, err := client.Get(ctx, "nsl:cart:sess-1")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)
	assert.Equal(t, time.Hour, mock.ttls["nsl:cart:sess-1"])

	require.NoError(t, client.Del(ctx, "nsl:cart:sess-1"))
	_, err = client.Get(ctx, "nsl:cart:sess-1")
	assert.True(t, errors.Is(err, ErrNil))
}

func TestSetNXOnlyOnce(t *testing.T) {
	ctx := context.Background()
	client := &Client{store: newMockCmdable()}

	ok, err := client.SetNX(ctx, "k", "1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.SetNX(ctx, "k", "1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUninitializedClient(t *testing.T) {
	var client *Client
	assert.Error(t, client.Ping(context.Background()))
	assert.Error(t, client.Set(context.Background(), "k", "v", 0))
	assert.NoError(t, client.Close())
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	assert.Equal(t, "nsl:idempotency:stripe_webhook:evt_1", client.IdempotencyKey("stripe_webhook", "evt_1"))
	assert.Equal(t, "nsl:cart:abc", client.CartKey(" abc "))
	assert.Equal(t, "nsl:lock:keepalive", client.LockKey("keepalive"))
	assert.Equal(t, "nsl:cart", client.CartKey(""))
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	assert.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@localhost:6380/2", PoolSize: 7, DialTimeout: time.Second})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "pw", opts.Password)
	assert.Equal(t, 7, opts.PoolSize)
	assert.Equal(t, time.Second, opts.DialTimeout)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 3})
	require.NoError(t, err)
	assert.Equal(t, "cache:6379", opts.Addr)
	assert.Equal(t, 3, opts.DB)
}

type mockCmdable struct {
	data map[string]string
	ttls map[string]time.Duration
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}
