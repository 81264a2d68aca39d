package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/holistic-provider-directory/internal/domain/providers"
)

func TestLRUAdapter_SetGet(t *testing.T) {
	c, err := NewLRUAdapter(10)
	require.NoError(t, err)
	ctx := context.Background()

	value := []byte(`{"id":1}`)
	require.NoError(t, c.Set(ctx, "provider:1", value, 60))
	value[0] = 'X'

	got, err := c.Get(ctx, "provider:1")
	require.NoError(t, err)
	assert.Equal(t, `{"id":1}`, string(got))

	_, err = c.Get(ctx, "provider:2")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
}

func TestLRUAdapter_Expiry(t *testing.T) {
	c, err := NewLRUAdapter(10)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "short", []byte("a"), 5))
	require.NoError(t, c.Set(ctx, "forever", []byte("b"), 0))

	now = now.Add(5 * time.Second)

	_, err = c.Get(ctx, "short")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
	got, err := c.Get(ctx, "forever")
	require.NoError(t, err)
	assert.Equal(t, "b", string(got))
}

func TestLRUAdapter_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := NewLRUAdapter(2)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))
	_, _ = c.Get(ctx, "a")
	require.NoError(t, c.Set(ctx, "c", []byte("3"), 0))

	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, providers.ErrCacheMiss)
	assert.Equal(t, 2, c.Len())
}

func TestLRUAdapter_DeletePattern(t *testing.T) {
	c, err := NewLRUAdapter(10)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "providers:list:abc", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "providers:list:def", []byte("2"), 0))
	require.NoError(t, c.Set(ctx, "provider:1", []byte("3"), 0))

	require.NoError(t, c.DeletePattern(ctx, "providers:list:*"))

	assert.Equal(t, 1, c.Len())
	_, err = c.Get(ctx, "provider:1")
	assert.NoError(t, err)

	assert.Error(t, c.DeletePattern(ctx, "[unclosed"))
}

func TestNewLRUAdapter_InvalidSize(t *testing.T) {
	_, err := NewLRUAdapter(0)
	assert.Error(t, err)
}
