package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/dtroode/boogle-server/internal/api/http/handler"
	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/model"
	"github.com/dtroode/boogle-server/internal/ratelimit"
)

// Limiter decides whether a request keyed by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Decision, error)
}

// RateLimitObserver records rejected requests.
type RateLimitObserver interface {
	ObserveRateLimited(route string)
}

// RateLimit throttles requests per client address and route.
type RateLimit struct {
	limiter    Limiter
	responder  *handler.Responder
	observer   RateLimitObserver
	trustProxy bool
	logger     *logger.Logger
}

// NewRateLimit creates a new RateLimit middleware. Clients are keyed by the
// connection address unless trustProxy is set.
func NewRateLimit(limiter Limiter, responder *handler.Responder, observer RateLimitObserver, trustProxy bool, logger *logger.Logger) *RateLimit {
	return &RateLimit{
		limiter:    limiter,
		responder:  responder,
		observer:   observer,
		trustProxy: trustProxy,
		logger:     logger,
	}
}

// Handle rejects requests over the limit with 429. Limiter failures let the
// request through.
func (m *RateLimit) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeName(r)
		key := fmt.Sprintf("%s:%s", route, handler.ClientIP(r, m.trustProxy))

		decision, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			m.logger.Warn("RateLimit middleware: limiter unavailable",
				"route", route,
				"error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			m.observer.ObserveRateLimited(route)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(decision.RetryAfter.Seconds()))))
			m.responder.Error(w, r, model.ErrRateLimited)
			return
		}

		next.ServeHTTP(w, r)
	})
}
