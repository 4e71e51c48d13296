package user

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"log/slog"

	"github.com/mkettle/quicknotes/internal/domain"
	"github.com/mkettle/quicknotes/internal/repository"
	"github.com/mkettle/quicknotes/internal/service/auth"
	"github.com/mkettle/quicknotes/pkg/crypto"
)

type stubUserRepository struct {
	accounts []domain.User
	created  []*domain.User
}

func (s *stubUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	s.created = append(s.created, user)
	s.accounts = append(s.accounts, *user)
	return nil
}

func (s *stubUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	for i := range s.accounts {
		if s.accounts[i].Email == email {
			u := s.accounts[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepository) FindUserByEmailOrName(ctx context.Context, email, name string) (*domain.User, error) {
	for i := range s.accounts {
		if s.accounts[i].Email == email || s.accounts[i].Name == name {
			u := s.accounts[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *stubUserRepository) ListUsers(ctx context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), s.accounts...), nil
}

func newTestService(repo *stubUserRepository) (Service, auth.Service) {
	tokens := auth.New("test-secret", time.Hour)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(repo, tokens, log), tokens
}

func TestRegisterTokenMatchesStoredAccount(t *testing.T) {
	repo := &stubUserRepository{}
	svc, tokens := newTestService(repo)

	account, token, err := svc.Register(context.Background(), "a", "a@x.com", "pw")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	identity, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if identity.ID != account.ID {
		t.Fatalf("token identity %q does not match account %q", identity.ID, account.ID)
	}
	if identity.Email != "a@x.com" || identity.Username != "a" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestRegisterDuplicateEmailOrName(t *testing.T) {
	repo := &stubUserRepository{accounts: []domain.User{{ID: "u1", Name: "a", Email: "a@x.com"}}}
	svc, _ := newTestService(repo)

	if _, _, err := svc.Register(context.Background(), "b", "a@x.com", "pw"); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists for duplicate email, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "a", "b@x.com", "pw"); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists for duplicate name, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("expected no inserts, got %d", len(repo.created))
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	hash, err := crypto.HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubUserRepository{accounts: []domain.User{{ID: "u1", Name: "a", Email: "a@x.com", PasswordHash: hash}}}
	svc, _ := newTestService(repo)

	_, _, unknownErr := svc.Login(context.Background(), "nobody@x.com", "pw")
	_, _, wrongErr := svc.Login(context.Background(), "a@x.com", "wrong")
	if !errors.Is(unknownErr, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknownErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongErr)
	}
}

func TestLoginSuccessIssuesToken(t *testing.T) {
	hash, err := crypto.HashPassword("pw")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	repo := &stubUserRepository{accounts: []domain.User{{ID: "u1", Name: "a", Email: "a@x.com", PasswordHash: hash}}}
	svc, tokens := newTestService(repo)

	account, token, err := svc.Login(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	identity, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if identity.ID != account.ID {
		t.Fatalf("token identity %q does not match account %q", identity.ID, account.ID)
	}
}
