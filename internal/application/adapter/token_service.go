package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims represents the claims contained in a JWT token.
type TokenClaims struct {
	UserID    uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// TokenService defines the interface for JWT token operations.
// Tokens are issued by the upstream auth service; this service only validates them.
type TokenService interface {
	// GenerateAccessToken signs an access token, used by tooling and tests.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID, email string, ttl time.Duration) (string, error)

	// ValidateAccessToken validates an access token and returns its claims.
	ValidateAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
