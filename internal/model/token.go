package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenClaims are the facts carried by a bearer token.
type TokenClaims struct {
	UserID    uuid.UUID
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies signed, time-bound bearer tokens.
type TokenCodec interface {
	Issue(userID uuid.UUID, issuedAt time.Time) (string, error)
	// Verify fails with ErrTokenInvalid or ErrTokenExpired.
	Verify(token string) (TokenClaims, error)
	TTL() time.Duration
}
