package roster

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bunthoeuntok/salarean-sub000/internal/ids"
)

// InMemory implements Store with in-process concurrency safety. It backs
// tests and DSN-less dev runs; production uses the PostgreSQL store.
type InMemory struct {
	mu       sync.RWMutex
	students map[string]*Student          // id -> record
	codes    map[string]map[string]string // ownerID -> active code -> id
	now      func() time.Time
}

var _ Store = (*InMemory)(nil)

// NewInMemory creates an empty roster store.
func NewInMemory() *InMemory {
	return &InMemory{
		students: make(map[string]*Student),
		codes:    make(map[string]map[string]string),
		now:      time.Now,
	}
}

// SetClock overrides the time source. Only intended for test use.
func (s *InMemory) SetClock(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

func (s *InMemory) ListByOwner(ctx context.Context, ownerID string) ([]Student, error) {
	if ownerID == "" {
		return nil, ErrInvalidInput
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []Student
	for _, st := range s.students {
		if st.OwnerID == ownerID && st.Status == StatusActive {
			res = append(res, *st)
		}
	}
	// ULIDs sort by creation time, so ordering by id is creation order.
	sort.Slice(res, func(i, j int) bool { return res[i].ID < res[j].ID })
	return res, nil
}

func (s *InMemory) GetByIDForOwner(ctx context.Context, ownerID, id string) (Student, error) {
	if ownerID == "" || id == "" {
		return Student{}, ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.students[id]
	if !ok || st.Status != StatusActive {
		return Student{}, ErrNotFound
	}
	if err := AssertOwnership(ownerID, *st); err != nil {
		// Existence must not leak to a non-owner.
		return Student{}, ErrNotFound
	}
	return *st, nil
}

func (s *InMemory) Create(ctx context.Context, ownerID string, p Payload) (Student, error) {
	if ownerID == "" {
		return Student{}, ErrInvalidInput
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	owned := s.codes[ownerID]
	if owned == nil {
		owned = make(map[string]string)
		s.codes[ownerID] = owned
	}
	if _, exists := owned[p.Code]; exists {
		return Student{}, ErrDuplicateCode
	}

	now := s.now().UTC()
	st := &Student{
		ID:        ids.New(),
		OwnerID:   ownerID,
		Code:      p.Code,
		FullName:  p.FullName,
		Email:     p.Email,
		Phone:     p.Phone,
		Status:    StatusActive,
		CreatedBy: ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.students[st.ID] = st
	owned[p.Code] = st.ID
	return *st, nil
}

func (s *InMemory) UpdateForOwner(ctx context.Context, ownerID, id string, p Payload) (Student, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return Student{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok || st.Status != StatusActive || AssertOwnership(ownerID, *st) != nil {
		return Student{}, ErrNotFound
	}

	owned := s.codes[ownerID]
	if p.Code != st.Code {
		if _, exists := owned[p.Code]; exists {
			return Student{}, ErrDuplicateCode
		}
		delete(owned, st.Code)
		owned[p.Code] = st.ID
	}

	st.Code = p.Code
	st.FullName = p.FullName
	st.Email = p.Email
	st.Phone = p.Phone
	st.UpdatedBy = ownerID
	st.UpdatedAt = s.now().UTC()
	return *st, nil
}

func (s *InMemory) SoftDeleteForOwner(ctx context.Context, ownerID, id, reason string) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.students[id]
	if !ok || st.Status != StatusActive || AssertOwnership(ownerID, *st) != nil {
		return Student{}, ErrNotFound
	}

	now := s.now().UTC()
	st.Status = StatusInactive
	st.DeleteReason = reason
	st.DeletedBy = ownerID
	st.DeletedAt = &now
	st.UpdatedAt = now
	// An inactive record frees its code for reuse within the same roster.
	delete(s.codes[ownerID], st.Code)
	return *st, nil
}
