package middleware

import (
	"net/http"

	"github.com/dtroode/boogle-server/internal/api/http/handler"
	"github.com/dtroode/boogle-server/internal/metrics"
	"github.com/dtroode/boogle-server/internal/model"
	"github.com/dtroode/boogle-server/internal/service"
)

// Authorize gates routes by role. It must run after Authenticate.Required.
type Authorize struct {
	contextManager model.ContextManager
	responder      *handler.Responder
	observer       AuthObserver
}

// NewAuthorize creates a new Authorize middleware instance.
func NewAuthorize(contextManager model.ContextManager, responder *handler.Responder, observer AuthObserver) *Authorize {
	return &Authorize{
		contextManager: contextManager,
		responder:      responder,
		observer:       observer,
	}
}

// RequireRoles lets through users whose role is one of roles. A request
// without an authenticated user is rejected as unauthenticated.
func (m *Authorize) RequireRoles(roles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := m.contextManager.GetUser(r.Context())
			if !ok {
				m.responder.Error(w, r, model.ErrNoToken)
				return
			}
			if err := service.Authorize(user, roles...); err != nil {
				m.observer.ObserveAuth(metrics.OutcomeForbidden)
				m.responder.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
