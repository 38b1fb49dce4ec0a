package model

import "errors"

var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")

	ErrDuplicateEmail           = errors.New("email already registered")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
	ErrHashing                  = errors.New("password hashing failed")
	ErrPasswordTooLong          = errors.New("password too long")
	ErrInvalidRole              = errors.New("unknown role")

	ErrUserNotFound       = errors.New("user belonging to this token no longer exists")
	ErrAccountDeactivated = errors.New("account has been deactivated")
	ErrStalePasswordToken = errors.New("password changed after token was issued")
	ErrForbidden          = errors.New("insufficient role")

	ErrRateLimited = errors.New("too many requests")
)
