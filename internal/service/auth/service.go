package auth

import (
	"strings"
	"time"

	"github.com/mkettle/quicknotes/internal/domain"
	jwtpkg "github.com/mkettle/quicknotes/pkg/jwt"
)

// Service issues and verifies identity tokens. It holds no mutable
// state: a token is a pure function of the claims, the secret key, and
// the clock.
type Service struct {
	secret string
	ttl    time.Duration
}

// New constructs a Service.
func New(secret string, ttl time.Duration) Service {
	return Service{secret: secret, ttl: ttl}
}

// Issue signs a token embedding the identity plus an expiry claim.
func (s Service) Issue(identity domain.Identity) (string, error) {
	return jwtpkg.GenerateToken(identity.ID, identity.Email, identity.Username, s.secret, s.ttl)
}

// Verify decodes a bearer token into the identity it carries. Expired
// tokens surface as jwt.ErrExpired, everything else as jwt.ErrInvalid.
func (s Service) Verify(token string) (domain.Identity, error) {
	trimmed := strings.TrimSpace(token)
	if trimmed == "" {
		return domain.Identity{}, jwtpkg.ErrInvalid
	}
	claims, err := jwtpkg.Parse(trimmed, s.secret)
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{ID: claims.UserID, Email: claims.Email, Username: claims.Username}, nil
}
