package jobs

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"strings"
	"time"

	"ats-console/internal/common/database"
	"ats-console/internal/models"

	gocache "github.com/patrickmn/go-cache"
)

// Cache holds job lists per page load.
type Cache interface {
	Get(ctx context.Context, key string) ([]models.Job, bool, error)
	Set(ctx context.Context, key string, jobs []models.Job, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// RedisCache stores job lists as JSON.
type RedisCache struct {
	client *database.RedisClient
}

func NewRedisCache(c *database.RedisClient) *RedisCache {
	return &RedisCache{client: c}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]models.Job, bool, error) {
	raw, err := c.client.Get(ctx, key)
	if stderrors.Is(err, database.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var jobs []models.Job
	if err := json.Unmarshal(raw, &jobs); err != nil {
		return nil, false, err
	}
	return jobs, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, jobs []models.Job, ttl time.Duration) error {
	raw, err := json.Marshal(jobs)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, ttl)
}

func (c *RedisCache) DeletePrefix(ctx context.Context, prefix string) error {
	return c.client.DeletePrefix(ctx, prefix)
}

// MemoryCache is used when Redis is disabled.
type MemoryCache struct {
	items *gocache.Cache
}

// memoryCleanupInterval is how often expired lists are purged; reads never see
// them either way.
const memoryCleanupInterval = 5 * time.Minute

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: gocache.New(gocache.NoExpiration, memoryCleanupInterval)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]models.Job, bool, error) {
	v, ok := c.items.Get(key)
	if !ok {
		return nil, false, nil
	}
	jobs := v.([]models.Job)
	out := make([]models.Job, len(jobs))
	copy(out, jobs)
	return out, true, nil
}

// Set stores a copy of jobs. A non-positive ttl never expires.
func (c *MemoryCache) Set(_ context.Context, key string, jobs []models.Job, ttl time.Duration) error {
	stored := make([]models.Job, len(jobs))
	copy(stored, jobs)
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	c.items.Set(key, stored, ttl)
	return nil
}

func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	for k := range c.items.Items() {
		if strings.HasPrefix(k, prefix) {
			c.items.Delete(k)
		}
	}
	return nil
}
