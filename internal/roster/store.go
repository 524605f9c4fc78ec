package roster

import "context"

// Store is the only abstraction allowed to issue persistence queries for
// student records. Every method takes the owner identifier explicitly and
// guarantees the owner predicate is part of the query itself, never applied
// as an after-the-fact filter.
type Store interface {
	// ListByOwner returns the owner's ACTIVE students in stable order
	// (creation order, id as tie-breaker).
	ListByOwner(ctx context.Context, ownerID string) ([]Student, error)

	// GetByIDForOwner returns the ACTIVE student only when both the id and
	// the owner match. A record owned by someone else yields ErrNotFound,
	// identical to a record that does not exist.
	GetByIDForOwner(ctx context.Context, ownerID, id string) (Student, error)

	// Create stores a new ACTIVE student owned by ownerID. The owner and
	// createdBy stamps come from the argument, never from the payload.
	// Returns ErrDuplicateCode when the code is already taken within the
	// same owner's roster.
	Create(ctx context.Context, ownerID string, p Payload) (Student, error)

	// UpdateForOwner applies the payload to an owned student, stamping
	// updatedBy and updatedAt. The owner field itself is never mutated.
	UpdateForOwner(ctx context.Context, ownerID, id string, p Payload) (Student, error)

	// SoftDeleteForOwner marks an owned student INACTIVE and stamps the
	// deletion metadata. Records are never hard-deleted.
	SoftDeleteForOwner(ctx context.Context, ownerID, id, reason string) (Student, error)
}

// Cache sits in front of Store and carries the same isolation guarantee:
// every key embeds the owner identifier, so an entry written for one owner is
// unreachable from any other owner's key. Implementations absorb backend
// failures internally (log, count, report a miss); a broken cache degrades to
// direct store access and never blocks correctness.
type Cache interface {
	GetList(ctx context.Context, ownerID string) ([]Student, bool)
	SetList(ctx context.Context, ownerID string, items []Student)
	GetOne(ctx context.Context, ownerID, id string) (Student, bool)
	SetOne(ctx context.Context, ownerID string, s Student)
	InvalidateOne(ctx context.Context, ownerID, id string)
	InvalidateList(ctx context.Context, ownerID string)
	// InvalidateAll evicts every entry of one owner without touching or
	// enumerating any other owner's entries.
	InvalidateAll(ctx context.Context, ownerID string)
}
