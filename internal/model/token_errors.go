package model

import "errors"

var (
	ErrNoToken      = errors.New("no token provided")
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token has expired")
)
