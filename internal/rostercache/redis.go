package rostercache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bunthoeuntok/salarean-sub000/internal/obs"
	"github.com/bunthoeuntok/salarean-sub000/internal/roster"
)

const keyPrefix = "roster:"

// Redis is a Cache backed by a shared Redis instance. TTL expiry is delegated
// to Redis. Each owner's entry keys are tracked in a per-owner index set, so
// bulk eviction reads that one set and deletes exactly its members: O(the
// owner's entries), never a walk over anyone else's keys. Any backend error
// is logged, counted and reported as a miss or no-op: the cache is an
// optimization, never a dependency whose failure blocks correctness.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ roster.Cache = (*Redis)(nil)

// NewRedis wraps an existing client. ttl <= 0 selects DefaultTTL.
func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Redis{client: client, ttl: ttl}
}

func listKey(ownerID string) string    { return keyPrefix + ownerID + ":all" }
func oneKey(ownerID, id string) string { return keyPrefix + ownerID + ":one:" + id }
func indexKey(ownerID string) string   { return keyPrefix + ownerID + ":keys" }

func (c *Redis) GetList(ctx context.Context, ownerID string) ([]roster.Student, bool) {
	raw, err := c.client.Get(ctx, listKey(ownerID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.degraded("get list", err)
		}
		return nil, false
	}
	var items []roster.Student
	if err := json.Unmarshal(raw, &items); err != nil {
		c.degraded("decode list", err)
		return nil, false
	}
	return items, true
}

func (c *Redis) SetList(ctx context.Context, ownerID string, items []roster.Student) {
	if items == nil {
		items = []roster.Student{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		c.degraded("encode list", err)
		return
	}
	c.setTracked(ctx, ownerID, listKey(ownerID), raw, "set list")
}

func (c *Redis) GetOne(ctx context.Context, ownerID, id string) (roster.Student, bool) {
	raw, err := c.client.Get(ctx, oneKey(ownerID, id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.degraded("get one", err)
		}
		return roster.Student{}, false
	}
	var st roster.Student
	if err := json.Unmarshal(raw, &st); err != nil {
		c.degraded("decode one", err)
		return roster.Student{}, false
	}
	return st, true
}

func (c *Redis) SetOne(ctx context.Context, ownerID string, s roster.Student) {
	raw, err := json.Marshal(s)
	if err != nil {
		c.degraded("encode one", err)
		return
	}
	c.setTracked(ctx, ownerID, oneKey(ownerID, s.ID), raw, "set one")
}

// setTracked writes the entry and records its key in the owner's index set.
// The index expires with the newest entry, so an idle owner leaves nothing
// behind.
func (c *Redis) setTracked(ctx context.Context, ownerID, key string, raw []byte, op string) {
	idx := indexKey(ownerID)
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, raw, c.ttl)
		p.SAdd(ctx, idx, key)
		p.Expire(ctx, idx, c.ttl)
		return nil
	})
	if err != nil {
		c.degraded(op, err)
	}
}

func (c *Redis) InvalidateOne(ctx context.Context, ownerID, id string) {
	c.dropTracked(ctx, ownerID, oneKey(ownerID, id), "invalidate one")
}

func (c *Redis) InvalidateList(ctx context.Context, ownerID string) {
	c.dropTracked(ctx, ownerID, listKey(ownerID), "invalidate list")
}

func (c *Redis) dropTracked(ctx context.Context, ownerID, key, op string) {
	var del *redis.IntCmd
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		del = p.Del(ctx, key)
		p.SRem(ctx, indexKey(ownerID), key)
		return nil
	})
	if err != nil {
		c.degraded(op, err)
		return
	}
	obs.CacheEvicted(int(del.Val()))
}

func (c *Redis) InvalidateAll(ctx context.Context, ownerID string) {
	idx := indexKey(ownerID)
	keys, err := c.client.SMembers(ctx, idx).Result()
	if err != nil {
		c.degraded("read owner key index", err)
		return
	}
	evicted := 0
	if len(keys) > 0 {
		n, err := c.client.Del(ctx, keys...).Result()
		if err != nil {
			c.degraded("delete owner keys", err)
			return
		}
		evicted = int(n)
	}
	if err := c.client.Del(ctx, idx).Err(); err != nil {
		c.degraded("delete owner key index", err)
		return
	}
	if evicted > 0 {
		obs.CacheEvicted(evicted)
	}
}

func (c *Redis) degraded(op string, err error) {
	obs.CacheFallback()
	obs.LogEvent(map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": "warn",
		"msg":   "cache backend degraded, serving from store",
		"op":    op,
		"error": err.Error(),
	})
}
