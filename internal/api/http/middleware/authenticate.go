package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/boogle-server/internal/api/http/handler"
	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/metrics"
	"github.com/dtroode/boogle-server/internal/model"
)

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.User, error)
}

// AuthObserver records authentication outcomes.
type AuthObserver interface {
	ObserveAuth(outcome string)
}

// Authenticate validates bearer tokens and injects the user into the request context.
type Authenticate struct {
	authenticator  Authenticator
	contextManager model.ContextManager
	responder      *handler.Responder
	observer       AuthObserver
	cookieName     string
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(
	authenticator Authenticator,
	contextManager model.ContextManager,
	responder *handler.Responder,
	observer AuthObserver,
	cookieName string,
	logger *logger.Logger,
) *Authenticate {
	return &Authenticate{
		authenticator:  authenticator,
		contextManager: contextManager,
		responder:      responder,
		observer:       observer,
		cookieName:     cookieName,
		logger:         logger,
	}
}

// Required rejects requests without a valid token.
func (m *Authenticate) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticate(r)
		if err != nil {
			m.responder.Error(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUser(r.Context(), user)))
	})
}

// Optional attaches the user when a valid token is present and otherwise
// serves the request anonymously. Store failures are not treated as a
// missing token and end the request.
func (m *Authenticate) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.authenticate(r)
		if err != nil {
			if authOutcome(err) == metrics.OutcomeError {
				m.responder.Error(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUser(r.Context(), user)))
	})
}

func (m *Authenticate) authenticate(r *http.Request) (model.User, error) {
	token := ExtractToken(r, m.cookieName)

	user, err := m.authenticator.Authenticate(r.Context(), token)
	outcome := authOutcome(err)
	m.observer.ObserveAuth(outcome)

	if outcome == metrics.OutcomeError {
		m.logger.Error("Authenticate middleware: authentication failed",
			"path", r.URL.Path,
			"error", err.Error())
	}
	return user, err
}

// ExtractToken returns the bearer token from the Authorization header or,
// when the header carries no bearer credentials, from the named cookie.
func ExtractToken(r *http.Request, cookieName string) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, _ := strings.Cut(header, " ")
		if strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}

	if cookieName == "" {
		return ""
	}
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func authOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, model.ErrNoToken):
		return metrics.OutcomeNoToken
	case errors.Is(err, model.ErrTokenExpired):
		return metrics.OutcomeExpired
	case errors.Is(err, model.ErrTokenInvalid):
		return metrics.OutcomeInvalid
	case errors.Is(err, model.ErrUserNotFound):
		return metrics.OutcomeUserMissing
	case errors.Is(err, model.ErrAccountDeactivated):
		return metrics.OutcomeInactive
	case errors.Is(err, model.ErrStalePasswordToken):
		return metrics.OutcomeStale
	default:
		return metrics.OutcomeError
	}
}
