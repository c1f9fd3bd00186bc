package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var got []string
	found, err := c.Get(ctx, "assets:brands", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "assets:brands", []string{"Dell", "HP"}, time.Minute))

	found, err = c.Get(ctx, "assets:brands", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"Dell", "HP"}, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", 45*time.Second))

	now = now.Add(44 * time.Second)
	var v string
	found, _ := c.Get(ctx, "k", &v)
	assert.True(t, found)

	now = now.Add(time.Second)
	found, _ = c.Get(ctx, "k", &v)
	assert.False(t, found)
}

func TestMemoryCache_DeletePattern(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	require.NoError(t, c.Set(ctx, "assets:notices:1:2", []string{"a"}, 0))
	require.NoError(t, c.Set(ctx, "assets:notices:3:2", []string{"b"}, 0))
	require.NoError(t, c.Set(ctx, "assets:brands", []string{"Dell"}, 0))

	require.NoError(t, c.DeletePattern(ctx, "assets:notices:*"))

	var v []string
	found, _ := c.Get(ctx, "assets:notices:1:2", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "assets:brands", &v)
	assert.True(t, found)
}
