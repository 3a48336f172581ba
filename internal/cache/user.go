package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ladle/ladle/internal/model"
)

const (
	// userCachePrefix is the Redis key prefix for cached user projections.
	userCachePrefix = "user:id:"
	// userCacheTTL is the time-to-live for cached users.
	userCacheTTL = 5 * time.Minute
)

// cachedUser is the user projection stored in Redis.
// The password hash is deliberately absent from this struct so it can
// never end up in the cache.
type cachedUser struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
	Bio      *string `json:"bio"`
}

// GetUser retrieves a cached user projection by id.
// Returns nil if not found (cache miss).
func (c *Cache) GetUser(ctx context.Context, id int64) (*model.User, error) {
	key := userCachePrefix + strconv.FormatInt(id, 10)

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		// Cache miss is not an error
		return nil, nil //nolint:nilerr
	}

	var cached cachedUser
	if err := json.Unmarshal(data, &cached); err != nil {
		// Corrupted cache entry - treat as miss
		return nil, nil //nolint:nilerr
	}

	return &model.User{
		ID:       cached.ID,
		Username: cached.Username,
		ImageURL: cached.ImageURL,
		Bio:      cached.Bio,
	}, nil
}

// SetUser caches a user projection.
func (c *Cache) SetUser(ctx context.Context, user *model.User) error {
	key := userCachePrefix + strconv.FormatInt(user.ID, 10)

	cached := cachedUser{
		ID:       user.ID,
		Username: user.Username,
		ImageURL: user.ImageURL,
		Bio:      user.Bio,
	}

	data, err := json.Marshal(cached)
	if err != nil {
		return fmt.Errorf("marshal cached user: %w", err)
	}

	return c.client.Set(ctx, key, data, userCacheTTL).Err()
}

// DeleteUser removes a cached user projection.
func (c *Cache) DeleteUser(ctx context.Context, id int64) error {
	key := userCachePrefix + strconv.FormatInt(id, 10)
	return c.client.Del(ctx, key).Err()
}
