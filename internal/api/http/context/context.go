package context

import (
	"context"

	"github.com/dtroode/boogle-server/internal/model"
)

type userKey struct{}

var _ model.ContextManager = (*Manager)(nil)

// Manager stores the authenticated user in a request context.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUser returns a copy of ctx carrying user. The password hash is never stored.
func (m *Manager) SetUser(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user.Public())
}

// GetUser returns the user attached by SetUser.
func (m *Manager) GetUser(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey{}).(model.User)
	return user, ok
}
