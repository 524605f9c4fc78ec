package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/bunthoeuntok/salarean-sub000/internal/roster"
)

var studentCols = []string{
	"id", "owner_id", "code", "full_name", "email", "phone",
	"status", "delete_reason", "created_by", "updated_by", "deleted_by",
	"created_at", "updated_at", "deleted_at",
}

func studentRow(id, ownerID, code string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(studentCols).AddRow(
		id, ownerID, code, "Sok Dara", "", "",
		"ACTIVE", "", ownerID, "", "",
		now, now, nil,
	)
}

func newStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), mock
}

func TestListByOwnerCarriesOwnerPredicate(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`(?s)select .+ from students\s+where owner_id = \$1 and status = 'ACTIVE'\s+order by created_at asc, id asc`).
		WithArgs("teacher-a").
		WillReturnRows(studentRow("st-1", "teacher-a", "S-001"))

	items, err := s.ListByOwner(context.Background(), "teacher-a")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(items) != 1 || items[0].OwnerID != "teacher-a" {
		t.Fatalf("unexpected items: %v", items)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetByIDForOwnerNotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`(?s)select .+ from students\s+where id = \$1 and owner_id = \$2 and status = 'ACTIVE'`).
		WithArgs("st-1", "teacher-b").
		WillReturnRows(sqlmock.NewRows(studentCols))

	_, err := s.GetByIDForOwner(context.Background(), "teacher-b", "st-1")
	if !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateMapsUniqueViolation(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`insert into students`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "students_owner_code_key"})

	_, err := s.Create(context.Background(), "teacher-a", roster.Payload{Code: "S-001", FullName: "Sok Dara"})
	if !errors.Is(err, roster.ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateStampsOwnerFromArgument(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`insert into students`).
		WithArgs(sqlmock.AnyArg(), "teacher-a", "S-001", "Sok Dara", "", "").
		WillReturnRows(studentRow("st-1", "teacher-a", "S-001"))

	st, err := s.Create(context.Background(), "teacher-a", roster.Payload{Code: "S-001", FullName: "Sok Dara"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if st.OwnerID != "teacher-a" || st.CreatedBy != "teacher-a" {
		t.Fatalf("owner stamps wrong: %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpdateForOwnerMissIsNotFound(t *testing.T) {
	s, mock := newStore(t)

	mock.ExpectQuery(`(?s)update students\s+set code = \$3.+where id = \$2 and owner_id = \$1 and status = 'ACTIVE'`).
		WithArgs("teacher-b", "st-1", "S-002", "Sok Dara", "", "").
		WillReturnRows(sqlmock.NewRows(studentCols))

	_, err := s.UpdateForOwner(context.Background(), "teacher-b", "st-1", roster.Payload{Code: "S-002", FullName: "Sok Dara"})
	if !errors.Is(err, roster.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSoftDeleteForOwnerStampsMetadata(t *testing.T) {
	s, mock := newStore(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows(studentCols).AddRow(
		"st-1", "teacher-a", "S-001", "Sok Dara", "", "",
		"INACTIVE", "left school", "teacher-a", "", "teacher-a",
		now, now, now,
	)
	mock.ExpectQuery(`(?s)update students\s+set status = 'INACTIVE'.+where id = \$2 and owner_id = \$1 and status = 'ACTIVE'`).
		WithArgs("teacher-a", "st-1", "left school").
		WillReturnRows(rows)

	st, err := s.SoftDeleteForOwner(context.Background(), "teacher-a", "st-1", "left school")
	if err != nil {
		t.Fatalf("SoftDeleteForOwner: %v", err)
	}
	if st.Status != roster.StatusInactive || st.DeletedBy != "teacher-a" || st.DeletedAt == nil {
		t.Fatalf("deletion metadata missing: %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
