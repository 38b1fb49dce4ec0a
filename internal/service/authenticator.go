package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/model"
)

// Authenticator resolves a bearer token to an active user.
//
// It is stateless: the outcome depends only on the token, the current state
// of the user store and the current time, so it is safe for concurrent use.
type Authenticator struct {
	userStore model.UserStore
	tokens    model.TokenCodec
	logger    *logger.Logger
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(userStore model.UserStore, tokens model.TokenCodec, logger *logger.Logger) *Authenticator {
	return &Authenticator{userStore: userStore, tokens: tokens, logger: logger}
}

// Authenticate verifies token and returns its user without the password hash.
//
// Failures are ErrNoToken, ErrTokenInvalid, ErrTokenExpired, ErrUserNotFound,
// ErrAccountDeactivated or ErrStalePasswordToken. Any other error comes from
// the user store.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (model.User, error) {
	if token == "" {
		return model.User{}, model.ErrNoToken
	}

	claims, err := a.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, model.ErrTokenExpired) {
			return model.User{}, model.ErrTokenExpired
		}
		a.logger.Debug("Authenticator: token rejected",
			"error", err.Error())
		return model.User{}, model.ErrTokenInvalid
	}

	user, err := a.userStore.GetByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrNotFound) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if !user.IsActive {
		return model.User{}, model.ErrAccountDeactivated
	}

	if user.PasswordChangedAfter(claims.IssuedAt) {
		return model.User{}, model.ErrStalePasswordToken
	}

	return user.Public(), nil
}
