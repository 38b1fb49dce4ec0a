package service

import (
	"slices"

	"github.com/dtroode/boogle-server/internal/model"
)

// Authorize allows user iff its role is one of allowed. It must only be
// called with a user produced by Authenticator.
func Authorize(user model.User, allowed ...model.Role) error {
	if slices.Contains(allowed, user.Role) {
		return nil
	}
	return model.ErrForbidden
}
