// cache — опциональный Redis-кэш посчитанных trending-страниц.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/workhub/discussions-service/internal/models"
)

// TrendingCache — минимальный контракт кэша trending-выдачи.
type TrendingCache interface {
	// Get возвращает страницу и признак её наличия в кэше.
	Get(ctx context.Context, key string) (*models.TrendingPage, bool, error)
	// Set сохраняет страницу с TTL.
	Set(ctx context.Context, key string, page *models.TrendingPage, ttl time.Duration) error
	// Close закрывает клиент Redis.
	Close() error
}

type redisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой — используется "discussions:trending:".
func NewRedisCache(redisURL, prefix string) (TrendingCache, error) {
	if prefix == "" {
		prefix = "discussions:trending:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return &redisCache{rdb: rdb, prefix: prefix}, nil
}

func (c *redisCache) key(k string) string { return c.prefix + k }

// Храним страницу целиком как JSON-строку под одним ключом.
func (c *redisCache) Get(ctx context.Context, key string) (*models.TrendingPage, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}

		return nil, false, err
	}

	var page models.TrendingPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, false, err
	}

	return &page, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, page *models.TrendingPage, ttl time.Duration) error {
	raw, err := json.Marshal(page)
	if err != nil {
		return err
	}

	return c.rdb.Set(ctx, c.key(key), raw, ttl).Err()
}

func (c *redisCache) Close() error { return c.rdb.Close() }
