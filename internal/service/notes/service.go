package notes

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/mkettle/quicknotes/internal/domain"
	"github.com/mkettle/quicknotes/internal/repository"
)

// ErrMissingIdentity signals a data operation attempted without an
// authenticated caller. The middleware guarantees one; this is a second
// check at the layer that touches rows.
var ErrMissingIdentity = errors.New("missing caller identity")

// Service performs ownership-scoped note CRUD. Every operation filters
// by the caller's identity, so one account can never observe or mutate
// another account's rows.
type Service struct {
	notes  repository.NoteRepository
	logger *slog.Logger
}

// New constructs a Service.
func New(notes repository.NoteRepository, logger *slog.Logger) Service {
	return Service{notes: notes, logger: logger}
}

// List returns the caller's notes, newest first.
func (s Service) List(ctx context.Context, identity domain.Identity) ([]domain.Note, error) {
	if identity.ID == "" {
		return nil, ErrMissingIdentity
	}
	return s.notes.ListNotesByUser(ctx, identity.ID)
}

// Create stores a note owned by the caller. The owner always comes from
// the authenticated identity, never from the request body.
func (s Service) Create(ctx context.Context, identity domain.Identity, title, content string) (*domain.Note, error) {
	if identity.ID == "" {
		return nil, ErrMissingIdentity
	}
	now := time.Now().UTC()
	note := &domain.Note{
		ID:        uuid.NewString(),
		UserID:    identity.ID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	s.logger.Info("note created", "note_id", note.ID, "user_id", identity.ID)
	return note, nil
}

// Update rewrites the caller's note. A note under another account is
// reported exactly like a missing one.
func (s Service) Update(ctx context.Context, identity domain.Identity, noteID, title, content string) (*domain.Note, error) {
	if identity.ID == "" {
		return nil, ErrMissingIdentity
	}
	note, err := s.notes.UpdateNote(ctx, noteID, identity.ID, title, content)
	if err != nil {
		return nil, err
	}
	s.logger.Info("note updated", "note_id", note.ID, "user_id", identity.ID)
	return note, nil
}

// Delete removes the caller's note and returns the removed row.
func (s Service) Delete(ctx context.Context, identity domain.Identity, noteID string) (*domain.Note, error) {
	if identity.ID == "" {
		return nil, ErrMissingIdentity
	}
	note, err := s.notes.DeleteNote(ctx, noteID, identity.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("note deleted", "note_id", noteID, "user_id", identity.ID)
	return note, nil
}
