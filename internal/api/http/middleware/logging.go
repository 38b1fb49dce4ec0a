package middleware

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dtroode/boogle-server/internal/logger"
)

// RequestObserver records finished HTTP requests.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// Logging logs every HTTP request and records its metrics.
type Logging struct {
	logger   *logger.Logger
	observer RequestObserver
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger, observer RequestObserver) *Logging {
	return &Logging{logger: logger, observer: observer}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Handle logs method, route, duration and status for each request.
func (l *Logging) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		route := routeName(r)

		l.observer.ObserveRequest(r.Method, route, rec.status, duration)

		l.logger.Info("HTTP request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", duration.Milliseconds(),
			"status", rec.status)
	})
}

// routeName returns the matched route template so metrics labels stay bounded.
func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
