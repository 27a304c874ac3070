package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"imageuploader-api/internal/model"
)

// ImageListCache stores each user's image list under a per-user version.
// Invalidate bumps the version, so a list read from the database before an
// upload can only be written under the old version and is never served.
type ImageListCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewImageListCache(client *redisv9.Client, ttl time.Duration) *ImageListCache {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &ImageListCache{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the cached list, the user's current version and whether the
// list was present. The version is meaningful on a miss and must be passed
// back to Set.
func (c *ImageListCache) Get(ctx context.Context, userID uint) ([]model.ImageView, int64, bool, error) {
	version, err := c.version(ctx, userID)
	if err != nil {
		return nil, 0, false, err
	}

	raw, err := c.client.Get(ctx, c.listKey(userID, version)).Bytes()
	if errors.Is(err, redisv9.Nil) {
		return nil, version, false, nil
	}
	if err != nil {
		return nil, 0, false, fmt.Errorf("redis get image list failed: %w", err)
	}

	images := make([]model.ImageView, 0)
	if err := json.Unmarshal(raw, &images); err != nil {
		return nil, 0, false, fmt.Errorf("unmarshal cached image list failed: %w", err)
	}
	return images, version, true, nil
}

// Set stores images under version, the value Get returned before the
// database read.
func (c *ImageListCache) Set(ctx context.Context, userID uint, version int64, images []model.ImageView) error {
	payload, err := json.Marshal(images)
	if err != nil {
		return fmt.Errorf("marshal image list cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.listKey(userID, version), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set image list failed: %w", err)
	}
	return nil
}

// Invalidate moves the user to a new version. The version key has no expiry;
// it is one integer per uploader.
func (c *ImageListCache) Invalidate(ctx context.Context, userID uint) error {
	if err := c.client.Incr(ctx, c.versionKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis bump image list version failed: %w", err)
	}
	return nil
}

func (c *ImageListCache) version(ctx context.Context, userID uint) (int64, error) {
	version, err := c.client.Get(ctx, c.versionKey(userID)).Int64()
	if errors.Is(err, redisv9.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get image list version failed: %w", err)
	}
	return version, nil
}

func (c *ImageListCache) listKey(userID uint, version int64) string {
	return fmt.Sprintf("image:list:%d:v%d", userID, version)
}

func (c *ImageListCache) versionKey(userID uint) string {
	return fmt.Sprintf("image:list:ver:%d", userID)
}
