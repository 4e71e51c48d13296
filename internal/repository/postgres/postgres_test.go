package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mkettle/quicknotes/internal/repository"
)

func TestMapErrorNoRows(t *testing.T) {
	if got := mapError(pgx.ErrNoRows); !errors.Is(got, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", got)
	}
}

func TestMapErrorDeadline(t *testing.T) {
	if got := mapError(context.DeadlineExceeded); !errors.Is(got, repository.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", got)
	}
	wrapped := fmt.Errorf("exec query: %w", context.DeadlineExceeded)
	if got := mapError(wrapped); !errors.Is(got, repository.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable for wrapped deadline, got %v", got)
	}
}

func TestMapErrorUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: uniqueViolation, ConstraintName: "users_email_idx"}
	if got := mapError(pgErr); !errors.Is(got, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", got)
	}
	otherPg := &pgconn.PgError{Code: "23503"}
	if got := mapError(otherPg); errors.Is(got, repository.ErrConflict) {
		t.Fatalf("foreign key violation should not map to ErrConflict, got %v", got)
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	boom := errors.New("boom")
	if got := mapError(boom); !errors.Is(got, boom) {
		t.Fatalf("expected passthrough, got %v", got)
	}
}
