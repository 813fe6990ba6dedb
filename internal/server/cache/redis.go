package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ndenisov/imgvault/internal/server/models"
	"github.com/redis/go-redis/v9"
)

const (
	imageListKeyPrefix = "images:"
	userKeyPrefix      = "user:"

	// upper bound on how long an entry whose eviction was lost can stay
	redisEntryTTL = 24 * time.Hour
)

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// RedisImageListCache stores image lists as JSON values under
// "images:<username>".
type RedisImageListCache struct {
	client *redis.Client
}

func NewRedisImageListCache(client *redis.Client) *RedisImageListCache {
	return &RedisImageListCache{client: client}
}

func (c *RedisImageListCache) Get(ctx context.Context, username string) ([]models.ImageSummary, bool, error) {
	data, err := c.client.Get(ctx, imageListKeyPrefix+username).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var images []models.ImageSummary
	if err := json.Unmarshal(data, &images); err != nil {
		return nil, false, err
	}
	return images, true, nil
}

func (c *RedisImageListCache) Set(ctx context.Context, username string, images []models.ImageSummary) error {
	data, err := json.Marshal(images)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, imageListKeyPrefix+username, data, redisEntryTTL).Err()
}

func (c *RedisImageListCache) Evict(ctx context.Context, username string) error {
	return c.client.Del(ctx, imageListKeyPrefix+username).Err()
}

// EvictAll removes every image-list key with a cursor scan, so the global
// clear after bulk association does not block Redis the way KEYS would.
func (c *RedisImageListCache) EvictAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, imageListKeyPrefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

// RedisUserCache stores profile summaries as JSON values under
// "user:<username>".
type RedisUserCache struct {
	client *redis.Client
}

func NewRedisUserCache(client *redis.Client) *RedisUserCache {
	return &RedisUserCache{client: client}
}

func (c *RedisUserCache) Get(ctx context.Context, username string) (*models.UserSummary, bool, error) {
	data, err := c.client.Get(ctx, userKeyPrefix+username).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var user models.UserSummary
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (c *RedisUserCache) Set(ctx context.Context, username string, user *models.UserSummary) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userKeyPrefix+username, data, redisEntryTTL).Err()
}

func (c *RedisUserCache) Evict(ctx context.Context, username string) error {
	return c.client.Del(ctx, userKeyPrefix+username).Err()
}
