package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb, "test:"), mr
}

type listing struct {
	IDs   []int64 `json:"ids"`
	Label string  `json:"label"`
}

func TestCache_SetGet(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	var miss listing
	ok, err := c.Get(ctx, "flashsales:202603011200:20:vabc", &miss)
	require.NoError(t, err)
	assert.False(t, ok)

	in := listing{IDs: []int64{7, 3}, Label: "flash"}
	require.NoError(t, c.Set(ctx, "flashsales:202603011200:20:vabc", in, 5*time.Minute))
	assert.True(t, mr.Exists("test:flashsales:202603011200:20:vabc"))

	var out listing
	ok, err = c.Get(ctx, "flashsales:202603011200:20:vabc", &out)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, in, out)

	mr.FastForward(6 * time.Minute)
	ok, err = c.Get(ctx, "flashsales:202603011200:20:vabc", &out)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_VersionLifecycle(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	v1, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Len(t, v1, 32)

	stored, err := mr.Get("test:" + VersionKey)
	require.NoError(t, err)
	assert.Equal(t, v1, stored)

	same, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, v1, same)

	v2, err := c.Bump(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, v1, v2)

	current, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, v2, current)
}

func TestCache_Delete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)

	require.NoError(t, c.Set(ctx, "featured:list:v1", []int{1}, time.Minute))
	require.NoError(t, c.Set(ctx, "product:9:details:v1", []int{9}, time.Minute))

	require.NoError(t, c.Delete(ctx, "featured:list:v1", "product:9:details:v1", "absent"))
	assert.False(t, mr.Exists("test:featured:list:v1"))
	assert.False(t, mr.Exists("test:product:9:details:v1"))

	require.NoError(t, c.Delete(ctx))
}

func TestCache_UnavailableStore(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t)
	mr.Close()

	_, err := c.Version(ctx)
	assert.Error(t, err)

	var out listing
	_, err = c.Get(ctx, "k", &out)
	assert.Error(t, err)
}
