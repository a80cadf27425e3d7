package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	kv := NewMemoryKV()
	kv.now = func() time.Time { return now }

	_, err := kv.Get(ctx, "a")
	assert.True(t, errors.Is(err, ErrMiss))

	require.NoError(t, kv.Set(ctx, "a", "1", time.Minute))
	v, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", v)

	ok, err := kv.SetNX(ctx, "a", "2", 0)
	require.NoError(t, err)
	assert.False(t, ok)

	now = now.Add(time.Minute)
	_, err = kv.Get(ctx, "a")
	assert.True(t, errors.Is(err, ErrMiss))

	ok, err = kv.SetNX(ctx, "a", "2", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, kv.Del(ctx, "a"))
	_, err = kv.Get(ctx, "a")
	assert.True(t, errors.Is(err, ErrMiss))
}
