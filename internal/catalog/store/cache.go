package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/google/uuid"

	"intake/internal/catalog/models"
	platformredis "intake/internal/platform/redis"
)

// Cached wraps another store with a Redis read-through cache on FindByID.
// Service definitions are immutable once created, so entries never need
// invalidation; the TTL only bounds memory on the Redis side.
//
// Cache failures degrade to the underlying store and are logged, never
// surfaced: a cold or down Redis must not break submissions.
type Cached struct {
	inner  Store
	redis  *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// Store is the persistence contract the catalog service depends on.
type Store interface {
	Create(ctx context.Context, service *models.Service) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error)
	List(ctx context.Context) ([]*models.Service, error)
}

func NewCached(inner Store, redis *platformredis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, redis: redis, ttl: ttl, logger: logger}
}

func (c *Cached) Create(ctx context.Context, service *models.Service) error {
	return c.inner.Create(ctx, service)
}

func (c *Cached) FindByID(ctx context.Context, id uuid.UUID) (*models.Service, error) {
	key := cacheKey(id)

	raw, err := c.redis.Get(ctx, key).Bytes()
	if err == nil {
		var service models.Service
		if err := json.Unmarshal(raw, &service); err == nil {
			return &service, nil
		}
		c.logger.WarnContext(ctx, "corrupt cache entry, falling through", "key", key)
	} else if !errors.Is(err, goredis.Nil) {
		c.logger.WarnContext(ctx, "cache read failed, falling through", "key", key, "error", err.Error())
	}

	service, err := c.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(service); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err.Error())
		}
	}
	return service, nil
}

func (c *Cached) List(ctx context.Context) ([]*models.Service, error) {
	return c.inner.List(ctx)
}

func cacheKey(id uuid.UUID) string {
	return "intake:service:" + id.String()
}
