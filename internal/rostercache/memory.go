// Package rostercache provides owner-scoped cache backends for the roster
// core. Every key embeds the owner identifier, so one owner's entries are
// unreachable from another owner's lookups even when the backing store is
// shared. Backends absorb their own failures: a broken backend reports
// misses and the caller falls through to the store.
package rostercache

import (
	"context"
	"sync"
	"time"

	"github.com/bunthoeuntok/salarean-sub000/internal/obs"
	"github.com/bunthoeuntok/salarean-sub000/internal/roster"
)

// DefaultTTL bounds staleness when no explicit TTL is configured.
const DefaultTTL = 30 * time.Minute

type listEntry struct {
	items     []roster.Student
	expiresAt time.Time
}

type oneEntry struct {
	student   roster.Student
	expiresAt time.Time
}

// ownerBucket holds all cached entries of a single owner. Keeping a bucket
// per owner makes InvalidateAll O(one owner's entries).
type ownerBucket struct {
	list *listEntry
	ones map[string]oneEntry
}

// Memory is an in-process Cache with TTL expiry.
type Memory struct {
	mu     sync.Mutex
	owners map[string]*ownerBucket
	ttl    time.Duration
	now    func() time.Time
}

var _ roster.Cache = (*Memory)(nil)

// NewMemory creates an empty cache. ttl <= 0 selects DefaultTTL.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory{
		owners: make(map[string]*ownerBucket),
		ttl:    ttl,
		now:    time.Now,
	}
}

// SetClock overrides the time source. Only intended for test use.
func (c *Memory) SetClock(fn func() time.Time) {
	if fn != nil {
		c.now = fn
	}
}

func (c *Memory) bucket(ownerID string) *ownerBucket {
	b := c.owners[ownerID]
	if b == nil {
		b = &ownerBucket{ones: make(map[string]oneEntry)}
		c.owners[ownerID] = b
	}
	return b
}

func (c *Memory) GetList(ctx context.Context, ownerID string) ([]roster.Student, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.owners[ownerID]
	if b == nil || b.list == nil {
		return nil, false
	}
	if c.now().After(b.list.expiresAt) {
		b.list = nil
		obs.CacheEvicted(1)
		return nil, false
	}
	out := make([]roster.Student, len(b.list.items))
	copy(out, b.list.items)
	return out, true
}

func (c *Memory) SetList(ctx context.Context, ownerID string, items []roster.Student) {
	snapshot := make([]roster.Student, len(items))
	copy(snapshot, items)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.bucket(ownerID).list = &listEntry{
		items:     snapshot,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *Memory) GetOne(ctx context.Context, ownerID, id string) (roster.Student, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := c.owners[ownerID]
	if b == nil {
		return roster.Student{}, false
	}
	e, ok := b.ones[id]
	if !ok {
		return roster.Student{}, false
	}
	if c.now().After(e.expiresAt) {
		delete(b.ones, id)
		obs.CacheEvicted(1)
		return roster.Student{}, false
	}
	return e.student, true
}

func (c *Memory) SetOne(ctx context.Context, ownerID string, s roster.Student) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bucket(ownerID).ones[s.ID] = oneEntry{
		student:   s,
		expiresAt: c.now().Add(c.ttl),
	}
}

func (c *Memory) InvalidateOne(ctx context.Context, ownerID, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b := c.owners[ownerID]; b != nil {
		if _, ok := b.ones[id]; ok {
			delete(b.ones, id)
			obs.CacheEvicted(1)
		}
	}
}

func (c *Memory) InvalidateList(ctx context.Context, ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if b := c.owners[ownerID]; b != nil && b.list != nil {
		b.list = nil
		obs.CacheEvicted(1)
	}
}

func (c *Memory) InvalidateAll(ctx context.Context, ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b := c.owners[ownerID]
	if b == nil {
		return
	}
	n := len(b.ones)
	if b.list != nil {
		n++
	}
	delete(c.owners, ownerID)
	if n > 0 {
		obs.CacheEvicted(n)
	}
}
