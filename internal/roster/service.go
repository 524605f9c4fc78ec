package roster

import (
	"context"
	"errors"
	"time"

	"github.com/bunthoeuntok/salarean-sub000/internal/auth"
	"github.com/bunthoeuntok/salarean-sub000/internal/obs"
)

// Service is the caller-facing surface of the roster core. Operations take
// no owner parameter: the owner is always resolved from the request context,
// so a handler cannot accidentally thread an attacker-supplied identifier
// into a scoped query. Reads go through the owner cache; writes go to the
// store and invalidate the affected cache keys in the same call.
type Service struct {
	store Store
	cache Cache
	now   func() time.Time
}

// ReloadReceipt confirms a manual cache reload.
type ReloadReceipt struct {
	OwnerID    string    `json:"owner_id"`
	ReloadedAt time.Time `json:"reloaded_at"`
	Success    bool      `json:"success"`
}

// NewService wires the store with an owner-scoped cache. The cache handle is
// injected so tests can substitute an in-memory fake.
func NewService(store Store, cache Cache) *Service {
	return &Service{store: store, cache: cache, now: time.Now}
}

// SetClock overrides the time source. Only intended for test use.
func (s *Service) SetClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// ListOwned returns the calling owner's ACTIVE students (read-through cached).
func (s *Service) ListOwned(ctx context.Context) ([]Student, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return nil, err
	}
	if items, ok := s.cache.GetList(ctx, ownerID); ok {
		obs.CacheHit("all")
		return items, nil
	}
	obs.CacheMiss("all")
	items, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	s.cache.SetList(ctx, ownerID, items)
	return items, nil
}

// GetOwned returns one student of the calling owner. ErrNotFound covers both
// an absent id and an id that belongs to someone else.
func (s *Service) GetOwned(ctx context.Context, id string) (Student, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return Student{}, err
	}
	if st, ok := s.cache.GetOne(ctx, ownerID, id); ok {
		obs.CacheHit("one")
		return st, nil
	}
	obs.CacheMiss("one")
	st, err := s.store.GetByIDForOwner(ctx, ownerID, id)
	if err != nil {
		// NotFound is not cached; absence entries would need the same
		// owner-scoped invalidation for little benefit at this scale.
		return Student{}, translateGuardErr(err)
	}
	s.cache.SetOne(ctx, ownerID, st)
	return st, nil
}

// CreateOwned stores a new student under the calling owner's identity.
func (s *Service) CreateOwned(ctx context.Context, p Payload) (Student, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return Student{}, err
	}
	st, err := s.store.Create(ctx, ownerID, p)
	if err != nil {
		return Student{}, err
	}
	s.cache.InvalidateList(ctx, ownerID)
	return st, nil
}

// UpdateOwned applies the payload to an owned student.
func (s *Service) UpdateOwned(ctx context.Context, id string, p Payload) (Student, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return Student{}, err
	}
	st, err := s.store.UpdateForOwner(ctx, ownerID, id, p)
	if err != nil {
		return Student{}, translateGuardErr(err)
	}
	s.cache.InvalidateOne(ctx, ownerID, id)
	s.cache.InvalidateList(ctx, ownerID)
	return st, nil
}

// DeleteOwned soft-deletes an owned student.
func (s *Service) DeleteOwned(ctx context.Context, id, reason string) (Student, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return Student{}, err
	}
	st, err := s.store.SoftDeleteForOwner(ctx, ownerID, id, reason)
	if err != nil {
		return Student{}, translateGuardErr(err)
	}
	s.cache.InvalidateOne(ctx, ownerID, id)
	s.cache.InvalidateList(ctx, ownerID)
	return st, nil
}

// ReloadCache evicts every cache entry of the calling owner. Safe to call
// repeatedly; evicting an already-empty scope is a no-op success. It takes no
// parameter that could target another owner's cache.
func (s *Service) ReloadCache(ctx context.Context) (ReloadReceipt, error) {
	ownerID, err := auth.RequireOwner(ctx)
	if err != nil {
		return ReloadReceipt{}, err
	}
	s.cache.InvalidateAll(ctx, ownerID)
	return ReloadReceipt{
		OwnerID:    ownerID,
		ReloadedAt: s.now().UTC(),
		Success:    true,
	}, nil
}

// translateGuardErr unifies the guard's internal denial with plain absence so
// the distinction never reaches a caller.
func translateGuardErr(err error) error {
	if errors.Is(err, ErrUnauthorized) {
		return ErrNotFound
	}
	return err
}
