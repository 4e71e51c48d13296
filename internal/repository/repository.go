package repository

import (
	"context"

	"github.com/mkettle/quicknotes/internal/domain"
)

// UserRepository persists accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByEmailOrName(ctx context.Context, email, name string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// NoteRepository persists notes. Update and delete predicates always
// include the owner id, so a row can never be touched across accounts
// and a foreign row reads as absent.
type NoteRepository interface {
	CreateNote(ctx context.Context, note *domain.Note) error
	ListNotesByUser(ctx context.Context, userID string) ([]domain.Note, error)
	UpdateNote(ctx context.Context, noteID, userID, title, content string) (*domain.Note, error)
	DeleteNote(ctx context.Context, noteID, userID string) (*domain.Note, error)
}
