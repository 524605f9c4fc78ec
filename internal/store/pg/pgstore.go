package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/bunthoeuntok/salarean-sub000/internal/ids"
	"github.com/bunthoeuntok/salarean-sub000/internal/roster"
)

// Store implements roster.Store on PostgreSQL. Every statement carries the
// owner predicate; nothing is fetched broadly and filtered afterwards. The
// partial unique index on (owner_id, code) where status='ACTIVE' enforces
// owner-scoped code uniqueness at the storage layer, which also closes the
// race between two concurrent creates of the same code by one owner.
type Store struct {
	db *sql.DB
}

var _ roster.Store = (*Store)(nil)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

const studentColumns = `id, owner_id, code, full_name, coalesce(email,''), coalesce(phone,''),
	status, coalesce(delete_reason,''), created_by, coalesce(updated_by,''), coalesce(deleted_by,''),
	created_at, updated_at, deleted_at`

// Open connects with tuned pool defaults.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// New wraps an existing handle (tests use this with sqlmock).
func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) ListByOwner(ctx context.Context, ownerID string) ([]roster.Student, error) {
	if ownerID == "" {
		return nil, roster.ErrInvalidInput
	}
	rows, err := s.db.QueryContext(ctx, `
		select `+studentColumns+`
		from students
		where owner_id = $1 and status = 'ACTIVE'
		order by created_at asc, id asc
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []roster.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, st)
	}
	return res, rows.Err()
}

func (s *Store) GetByIDForOwner(ctx context.Context, ownerID, id string) (roster.Student, error) {
	if ownerID == "" || id == "" {
		return roster.Student{}, roster.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		select `+studentColumns+`
		from students
		where id = $1 and owner_id = $2 and status = 'ACTIVE'
	`, id, ownerID)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		// Same result whether the record is absent or foreign-owned.
		return roster.Student{}, roster.ErrNotFound
	}
	if err != nil {
		return roster.Student{}, err
	}
	return st, nil
}

func (s *Store) Create(ctx context.Context, ownerID string, p roster.Payload) (roster.Student, error) {
	if ownerID == "" {
		return roster.Student{}, roster.ErrInvalidInput
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return roster.Student{}, err
	}

	id := ids.New()
	row := s.db.QueryRowContext(ctx, `
		insert into students(id, owner_id, code, full_name, email, phone, status, created_by, created_at, updated_at)
		values ($1, $2, $3, $4, nullif($5,''), nullif($6,''), 'ACTIVE', $2, now(), now())
		returning `+studentColumns+`
	`, id, ownerID, p.Code, p.FullName, p.Email, p.Phone)
	st, err := scanStudent(row)
	if err != nil {
		return roster.Student{}, mapWriteErr(err)
	}
	return st, nil
}

func (s *Store) UpdateForOwner(ctx context.Context, ownerID, id string, p roster.Payload) (roster.Student, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return roster.Student{}, err
	}

	// The owner predicate gates the write itself; owner_id is never in the
	// SET list, so no payload can move a record between owners.
	row := s.db.QueryRowContext(ctx, `
		update students
		set code = $3, full_name = $4, email = nullif($5,''), phone = nullif($6,''),
			updated_by = $1, updated_at = now()
		where id = $2 and owner_id = $1 and status = 'ACTIVE'
		returning `+studentColumns+`
	`, ownerID, id, p.Code, p.FullName, p.Email, p.Phone)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Student{}, roster.ErrNotFound
	}
	if err != nil {
		return roster.Student{}, mapWriteErr(err)
	}
	return st, nil
}

func (s *Store) SoftDeleteForOwner(ctx context.Context, ownerID, id, reason string) (roster.Student, error) {
	row := s.db.QueryRowContext(ctx, `
		update students
		set status = 'INACTIVE', delete_reason = nullif($3,''),
			deleted_by = $1, deleted_at = now(), updated_at = now()
		where id = $2 and owner_id = $1 and status = 'ACTIVE'
		returning `+studentColumns+`
	`, ownerID, id, reason)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return roster.Student{}, roster.ErrNotFound
	}
	if err != nil {
		return roster.Student{}, err
	}
	return st, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStudent(row rowScanner) (roster.Student, error) {
	var (
		st        roster.Student
		deletedAt sql.NullTime
	)
	err := row.Scan(
		&st.ID, &st.OwnerID, &st.Code, &st.FullName, &st.Email, &st.Phone,
		&st.Status, &st.DeleteReason, &st.CreatedBy, &st.UpdatedBy, &st.DeletedBy,
		&st.CreatedAt, &st.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return roster.Student{}, err
	}
	if deletedAt.Valid {
		t := deletedAt.Time
		st.DeletedAt = &t
	}
	return st, nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return roster.ErrDuplicateCode
	}
	return err
}
