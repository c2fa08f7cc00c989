package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const cacheKeyPrefix = "directory:"

// Cache is a read-through Redis cache over a Directory. Concurrent loads
// of the same record collapse into one upstream query.
type Cache struct {
	next   Directory
	client *redis.Client
	ttl    time.Duration
	group  singleflight.Group
}

// NewCache wraps a Directory with Redis caching.
func NewCache(next Directory, client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{next: next, client: client, ttl: ttl}
}

func (c *Cache) Client(ctx context.Context, id int64) (*ClientRecord, error) {
	var record ClientRecord
	err := c.fetchJSON(ctx, fmt.Sprintf("%sclient:%d", cacheKeyPrefix, id), &record, func(ctx context.Context) (any, error) {
		return c.next.Client(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Cache) Lead(ctx context.Context, id int64) (*LeadRecord, error) {
	var record LeadRecord
	err := c.fetchJSON(ctx, fmt.Sprintf("%slead:%d", cacheKeyPrefix, id), &record, func(ctx context.Context) (any, error) {
		return c.next.Lead(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Cache) Clients(ctx context.Context) ([]ClientRecord, error) {
	var records []ClientRecord
	err := c.fetchJSON(ctx, cacheKeyPrefix+"clients", &records, func(ctx context.Context) (any, error) {
		return c.next.Clients(ctx)
	})
	return records, err
}

func (c *Cache) Leads(ctx context.Context) ([]LeadRecord, error) {
	var records []LeadRecord
	err := c.fetchJSON(ctx, cacheKeyPrefix+"leads", &records, func(ctx context.Context) (any, error) {
		return c.next.Leads(ctx)
	})
	return records, err
}

// fetchJSON loads a cached value or populates it using the loader. A
// cache read failure other than a miss is returned to the caller; loader
// failures are never cached.
func (c *Cache) fetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error {
	if c.client != nil {
		payload, err := c.client.Get(ctx, key).Bytes()
		if err == nil {
			return json.Unmarshal(payload, dest)
		}
		if !errors.Is(err, redis.Nil) {
			return err
		}
	}

	value, err, _ := c.group.Do(key, func() (any, error) {
		value, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		if c.client != nil {
			if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				return nil, err
			}
		}
		return raw, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(value.([]byte), dest)
}
