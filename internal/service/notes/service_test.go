package notes

import (
	"context"
	"errors"
	"io"
	"testing"

	"log/slog"

	"github.com/mkettle/quicknotes/internal/domain"
	"github.com/mkettle/quicknotes/internal/repository"
)

type stubNoteRepository struct {
	rows map[string]domain.Note
}

func newStubNoteRepository() *stubNoteRepository {
	return &stubNoteRepository{rows: make(map[string]domain.Note)}
}

func (s *stubNoteRepository) CreateNote(ctx context.Context, note *domain.Note) error {
	s.rows[note.ID] = *note
	return nil
}

func (s *stubNoteRepository) ListNotesByUser(ctx context.Context, userID string) ([]domain.Note, error) {
	var out []domain.Note
	for _, n := range s.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *stubNoteRepository) UpdateNote(ctx context.Context, noteID, userID, title, content string) (*domain.Note, error) {
	n, ok := s.rows[noteID]
	if !ok || n.UserID != userID {
		return nil, repository.ErrNotFound
	}
	n.Title = title
	n.Content = content
	s.rows[noteID] = n
	return &n, nil
}

func (s *stubNoteRepository) DeleteNote(ctx context.Context, noteID, userID string) (*domain.Note, error) {
	n, ok := s.rows[noteID]
	if !ok || n.UserID != userID {
		return nil, repository.ErrNotFound
	}
	delete(s.rows, noteID)
	return &n, nil
}

func newTestService(repo *stubNoteRepository) Service {
	return New(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestCreateSetsOwnerFromIdentity(t *testing.T) {
	repo := newStubNoteRepository()
	svc := newTestService(repo)

	note, err := svc.Create(context.Background(), domain.Identity{ID: "u1"}, "T", "C")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if note.UserID != "u1" {
		t.Fatalf("expected owner u1, got %q", note.UserID)
	}
	if note.ID == "" {
		t.Fatal("expected generated note id")
	}
	if note.CreatedAt.IsZero() || note.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %+v", note)
	}
}

func TestOperationsRequireIdentity(t *testing.T) {
	svc := newTestService(newStubNoteRepository())
	ctx := context.Background()

	if _, err := svc.List(ctx, domain.Identity{}); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("list: expected ErrMissingIdentity, got %v", err)
	}
	if _, err := svc.Create(ctx, domain.Identity{}, "T", "C"); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("create: expected ErrMissingIdentity, got %v", err)
	}
	if _, err := svc.Update(ctx, domain.Identity{}, "n1", "T", "C"); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("update: expected ErrMissingIdentity, got %v", err)
	}
	if _, err := svc.Delete(ctx, domain.Identity{}, "n1"); !errors.Is(err, ErrMissingIdentity) {
		t.Fatalf("delete: expected ErrMissingIdentity, got %v", err)
	}
}

func TestForeignNoteReadsAsAbsent(t *testing.T) {
	repo := newStubNoteRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	note, err := svc.Create(ctx, domain.Identity{ID: "owner"}, "T", "C")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, domain.Identity{ID: "intruder"}, note.ID, "X", "Y"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Delete(ctx, domain.Identity{ID: "intruder"}, note.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}

	kept, ok := repo.rows[note.ID]
	if !ok {
		t.Fatal("note should survive foreign delete")
	}
	if kept.Title != "T" || kept.Content != "C" {
		t.Fatalf("note modified by foreign update: %+v", kept)
	}
}

func TestListReturnsOnlyOwnNotes(t *testing.T) {
	repo := newStubNoteRepository()
	svc := newTestService(repo)
	ctx := context.Background()

	if _, err := svc.Create(ctx, domain.Identity{ID: "u1"}, "mine", "c"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, domain.Identity{ID: "u2"}, "theirs", "c"); err != nil {
		t.Fatalf("create: %v", err)
	}

	list, err := svc.List(ctx, domain.Identity{ID: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "mine" {
		t.Fatalf("unexpected list: %+v", list)
	}
}
