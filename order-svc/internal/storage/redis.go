package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"little-lemon/order-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

const menuVersionKey = "menu:version"

// RedisCache caches menu listings under keys scoped by a version counter.
// Invalidate bumps the counter so every cached listing becomes unreachable
// at once and expires on its own TTL.
type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

func (c *RedisCache) version(ctx context.Context) (string, error) {
	v, err := c.Client.Get(ctx, menuVersionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return v, err
}

func (c *RedisCache) MenuKey(version string, filter domain.MenuFilter) string {
	return "menu:list:v" + version + ":" + filter.Search + ":" + filter.Ordering
}

// GetMenu also returns the version it looked under, so a listing loaded
// after a miss is stored against that version and not a newer one. The
// version is empty when it could not be read.
func (c *RedisCache) GetMenu(ctx context.Context, filter domain.MenuFilter) ([]domain.MenuItem, string, bool) {
	version, err := c.version(ctx)
	if err != nil {
		log.Printf("Warning: menu cache version lookup failed: %v", err)
		return nil, "", false
	}

	payload, err := c.Client.Get(ctx, c.MenuKey(version, filter)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Warning: menu cache read failed: %v", err)
		}
		return nil, version, false
	}

	var items []domain.MenuItem
	if err := json.Unmarshal(payload, &items); err != nil {
		log.Printf("Warning: menu cache entry is corrupt: %v", err)
		return nil, version, false
	}
	return items, version, true
}

func (c *RedisCache) SetMenu(ctx context.Context, version string, filter domain.MenuFilter, items []domain.MenuItem) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, c.MenuKey(version, filter), payload, c.TTL).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.Client.Incr(ctx, menuVersionKey).Err()
}
