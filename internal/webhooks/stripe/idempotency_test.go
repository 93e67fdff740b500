package stripewebhook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyGuard(t *testing.T) {
	store := newMemoryStore()
	guard, err := NewIdempotencyGuard(store, time.Minute, "stripe-email")
	require.NoError(t, err)
	ctx := context.Background()

	seen, err := guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)
	assert.Contains(t, store.data, "nsl:idempotency:stripe-email:evt_1")

	seen, err = guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, guard.Delete(ctx, "evt_1"))
	seen, err = guard.CheckAndMark(ctx, "evt_1")
	require.NoError(t, err)
	assert.False(t, seen)

	_, err = guard.CheckAndMark(ctx, "")
	assert.Error(t, err)
}

func TestNewIdempotencyGuardValidation(t *testing.T) {
	_, err := NewIdempotencyGuard(nil, time.Minute, "x")
	assert.Error(t, err)
	_, err = NewIdempotencyGuard(newMemoryStore(), -time.Second, "x")
	assert.Error(t, err)
	_, err = NewIdempotencyGuard(newMemoryStore(), time.Minute, "")
	assert.Error(t, err)
}
