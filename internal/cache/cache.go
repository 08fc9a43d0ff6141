// Package cache keeps global master lists in Redis so list endpoints do not
// hit the database on every page load.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Keys of the cached master lists.
const (
	KeyMentorTasks   = "supertasks:mentor_tasks"
	KeyTrainingMenus = "supertasks:training_menus"
	KeyMealMenus     = "supertasks:meal_menus"
)

// Cache is a JSON read-through cache. A nil *Cache or one without a client
// never hits and never fails.
type Cache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *log.Logger
}

func New(client *redis.Client, ttl time.Duration, logger *log.Logger) *Cache {
	if ttl < 0 {
		ttl = 0
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Cache{redis: client, ttl: ttl, logger: logger}
}

// NewFromURL parses a redis:// URL; an empty URL yields a disabled cache.
func NewFromURL(rawURL string, ttl time.Duration, logger *log.Logger) (*Cache, error) {
	if rawURL == "" {
		return New(nil, ttl, logger), nil
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	return New(redis.NewClient(opts), ttl, logger), nil
}

func (c *Cache) enabled() bool {
	return c != nil && c.redis != nil
}

// Load decodes the cached value of key into dst and reports whether it was found.
func (c *Cache) Load(ctx context.Context, key string, dst any) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WithError(err).WithField("key", key).Warn("cache get failed")
		}
		return false
	}
	if err := sonic.Unmarshal(raw, dst); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache decode failed")
		return false
	}
	return true
}

func (c *Cache) Store(ctx context.Context, key string, v any) {
	if !c.enabled() {
		return
	}
	raw, err := sonic.Marshal(v)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache encode failed")
		return
	}
	if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("cache set failed")
	}
}

func (c *Cache) Evict(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.WithError(err).WithField("keys", keys).Warn("cache evict failed")
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	if !c.enabled() {
		return nil
	}
	return c.redis.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if !c.enabled() {
		return nil
	}
	return c.redis.Close()
}

// Fetch returns the cached list under key or loads and stores it.
func Fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	if c.Load(ctx, key, &cached) {
		return cached, nil
	}
	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	c.Store(ctx, key, items)
	return items, nil
}
