package model

import "context"

// ContextManager attaches the authenticated user to a request context.
type ContextManager interface {
	SetUser(ctx context.Context, user User) context.Context
	GetUser(ctx context.Context) (User, bool)
}
