package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mkettle/quicknotes/internal/domain"
	"github.com/mkettle/quicknotes/internal/repository"
)

// Repository implements persistence interfaces on PostgreSQL.
type Repository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// New constructs a Repository. Every call runs under the given
// deadline; a deadline hit surfaces as repository.ErrUnavailable.
func New(pool *pgxpool.Pool, timeout time.Duration) *Repository {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Repository{pool: pool, timeout: timeout}
}

// ensure Repository satisfies interfaces.
var (
	_ repository.UserRepository = (*Repository)(nil)
	_ repository.NoteRepository = (*Repository)(nil)
)

const uniqueViolation = "23505"

func (r *Repository) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return repository.ErrNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return repository.ErrUnavailable
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrConflict
	}
	return err
}

// CreateUser inserts an account.
func (r *Repository) CreateUser(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()
	const query = `INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.pool.Exec(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

// GetUserByEmail fetches an account by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()
	const query = `SELECT id, name, email, password_hash, created_at FROM users WHERE email = $1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

// FindUserByEmailOrName probes for an account matching either field.
// Used by the registration uniqueness check.
func (r *Repository) FindUserByEmailOrName(ctx context.Context, email, name string) (*domain.User, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()
	const query = `SELECT id, name, email, password_hash, created_at FROM users
		WHERE email = $1 OR name = $2
		LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, query, email, name))
}

// ListUsers returns all accounts, newest first.
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()
	const query = `SELECT id, name, email, password_hash, created_at FROM users
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return users, nil
}

func (r *Repository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

// CreateNote inserts a note row.
func (r *Repository) CreateNote(ctx context.Context, note *domain.Note) error {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()
	const query = `INSERT INTO notes (id, user_id, title, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.pool.Exec(ctx, query, note.ID, note.UserID, note.Title, note.Content, note.CreatedAt, note.UpdatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

// ListNotesByUser returns the owner's notes, newest first.
func (r *Repository) ListNotesByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()
	const query = `SELECT id, user_id, title, content, created_at, updated_at FROM notes
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	var notes []domain.Note
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return notes, nil
}

// UpdateNote rewrites title and content of the caller's note. The owner
// id is part of the predicate, so a row under another account reads as
// absent.
func (r *Repository) UpdateNote(ctx context.Context, noteID, userID, title, content string) (*domain.Note, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()
	const query = `UPDATE notes SET title = $3, content = $4, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, content, created_at, updated_at`
	return r.scanNote(r.pool.QueryRow(ctx, query, noteID, userID, title, content))
}

// DeleteNote removes the caller's note and returns the removed row.
func (r *Repository) DeleteNote(ctx context.Context, noteID, userID string) (*domain.Note, error) {
	ctx, cancel := r.withDeadline(ctx)
	defer cancel()
	const query = `DELETE FROM notes
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, title, content, created_at, updated_at`
	return r.scanNote(r.pool.QueryRow(ctx, query, noteID, userID))
}

func (r *Repository) scanNote(row pgx.Row) (*domain.Note, error) {
	var n domain.Note
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	return &n, nil
}
