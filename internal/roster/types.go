package roster

import (
	"errors"
	"strings"
	"time"
)

// Status marks whether a student record is live or soft-deleted.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// Student is a record owned by exactly one teacher. OwnerID is stamped at
// creation from the authenticated owner and never changes afterwards; there
// is no transfer operation.
type Student struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Code         string     `json:"code"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Status       Status     `json:"status"`
	DeleteReason string     `json:"delete_reason,omitempty"`
	CreatedBy    string     `json:"created_by"`
	UpdatedBy    string     `json:"updated_by,omitempty"`
	DeletedBy    string     `json:"deleted_by,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Payload carries the caller-editable business fields of a student. Ownership
// and audit fields are never part of it, so no request input can set them.
type Payload struct {
	Code     string `json:"code"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Normalize trims whitespace in place.
func (p *Payload) Normalize() {
	p.Code = strings.TrimSpace(p.Code)
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
}

// Validate reports whether the payload can be stored.
func (p Payload) Validate() error {
	if strings.TrimSpace(p.Code) == "" {
		return ErrInvalidInput
	}
	if len(p.Code) > 32 {
		return ErrInvalidInput
	}
	if strings.TrimSpace(p.FullName) == "" {
		return ErrInvalidInput
	}
	if len(p.FullName) > 255 || len(p.Email) > 255 || len(p.Phone) > 32 {
		return ErrInvalidInput
	}
	return nil
}

var (
	// ErrNotFound covers both "no such record" and "record belongs to another
	// owner". The two cases are deliberately indistinguishable so record ids
	// cannot be probed across owners.
	ErrNotFound = errors.New("roster: not found")

	// ErrUnauthorized is raised by the ownership guard when invoked directly.
	// Paths fronted by a store lookup translate it to ErrNotFound before it
	// reaches the caller.
	ErrUnauthorized = errors.New("roster: unauthorized")

	// ErrDuplicateCode means the student code already exists in the same
	// owner's roster. Codes are unique per owner, not globally.
	ErrDuplicateCode = errors.New("roster: duplicate student code")

	ErrInvalidInput = errors.New("roster: invalid input")
)
