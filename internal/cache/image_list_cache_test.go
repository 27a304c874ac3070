package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imageuploader-api/internal/model"
)

func newTestCache(t *testing.T, ttl time.Duration) (*ImageListCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewImageListCache(client, ttl), mr
}

func TestImageListCache_MissThenHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	_, version, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(0), version)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	images := []model.ImageView{
		{ID: 2, URL: "https://cdn/b.png", OriginalName: "b.png", Size: 20, Mimetype: "image/png", CreatedAt: created},
	}
	require.NoError(t, c.Set(ctx, 1, version, images))

	got, _, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, hit)
	require.Len(t, got, 1)
	assert.Equal(t, images[0].URL, got[0].URL)
	assert.True(t, created.Equal(got[0].CreatedAt))
}

func TestImageListCache_EmptyListIsAHit(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 3, 0, []model.ImageView{}))

	got, _, hit, err := c.Get(ctx, 3)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Empty(t, got)
}

func TestImageListCache_KeysArePerUser(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, 0, []model.ImageView{{ID: 1}}))

	_, _, hit, err := c.Get(ctx, 2)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.True(t, mr.Exists("image:list:1:v0"))
}

func TestImageListCache_Invalidate(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, 0, []model.ImageView{{ID: 1}}))
	require.NoError(t, c.Invalidate(ctx, 1))

	_, version, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(1), version)
	assert.Equal(t, time.Duration(0), mr.TTL("image:list:ver:1"))
}

func TestImageListCache_WriteUnderSupersededVersionIsNeverServed(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	// a reader misses and queries the database
	_, readVersion, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	require.False(t, hit)

	// an upload completes before the reader fills the cache
	require.NoError(t, c.Invalidate(ctx, 1))
	require.NoError(t, c.Set(ctx, 1, readVersion, []model.ImageView{}))

	_, current, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, readVersion+1, current)
}

func TestImageListCache_TTL(t *testing.T) {
	c, mr := newTestCache(t, 30*time.Second)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, 1, 0, []model.ImageView{{ID: 1}}))
	assert.Equal(t, 30*time.Second, mr.TTL("image:list:1:v0"))

	mr.FastForward(31 * time.Second)
	_, _, hit, err := c.Get(ctx, 1)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestImageListCache_CorruptPayload(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	require.NoError(t, mr.Set("image:list:1:v0", "{not json"))

	_, _, hit, err := c.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.False(t, hit)
}

func TestImageListCache_ServerDown(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Close()

	_, _, _, err := c.Get(context.Background(), 1)
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(context.Background(), 1))
}
