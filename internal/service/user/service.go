package user

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/mkettle/quicknotes/internal/domain"
	"github.com/mkettle/quicknotes/internal/repository"
	"github.com/mkettle/quicknotes/internal/service/auth"
	"github.com/mkettle/quicknotes/pkg/crypto"
)

var (
	// ErrAccountExists signals a registration against a taken email or name.
	ErrAccountExists = errors.New("account already exists")
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, so responses cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service handles account registration and login.
type Service struct {
	users  repository.UserRepository
	tokens auth.Service
	logger *slog.Logger
}

// New constructs a Service.
func New(users repository.UserRepository, tokens auth.Service, logger *slog.Logger) Service {
	return Service{users: users, tokens: tokens, logger: logger}
}

// Register creates an account and returns it with a fresh token. The
// uniqueness probe runs before any hashing or insert; a lost race still
// surfaces as ErrAccountExists via the store's unique constraint.
func (s Service) Register(ctx context.Context, name, email, password string) (*domain.User, string, error) {
	existing, err := s.users.FindUserByEmailOrName(ctx, email, name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrAccountExists
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, "", err
	}
	account := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.CreateUser(ctx, account); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, "", ErrAccountExists
		}
		return nil, "", err
	}
	token, err := s.tokens.Issue(domain.Identity{ID: account.ID, Email: account.Email, Username: account.Name})
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user registered", "user_id", account.ID)
	return account, token, nil
}

// Login authenticates by email and password.
func (s Service) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	account, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := crypto.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(domain.Identity{ID: account.ID, Email: account.Email, Username: account.Name})
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user logged in", "user_id", account.ID)
	return account, token, nil
}

// List returns all accounts. Callers are responsible for rendering a
// sanitized view; the hash never serializes regardless.
func (s Service) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}
