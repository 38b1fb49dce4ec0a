package handler

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health reports service liveness and dependency readiness.
type Health struct {
	responder *Responder
	checks    map[string]Pinger
}

// NewHealth creates a Health handler checking the given dependencies.
func NewHealth(responder *Responder, checks map[string]Pinger) *Health {
	return &Health{responder: responder, checks: checks}
}

type healthResponse struct {
	Checks map[string]string `json:"checks,omitempty"`
}

// Check pings every dependency and answers 503 if any is down.
func (h *Health) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	message := "Server is running"
	results := make(map[string]string, len(h.checks))
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			results[name] = "down"
			status = http.StatusServiceUnavailable
			message = "Service degraded"
			continue
		}
		results[name] = "up"
	}

	if status != http.StatusOK {
		h.responder.write(w, status, envelope{
			Status:  statusError,
			Message: message,
			Data:    healthResponse{Checks: results},
		})
		return
	}
	h.responder.Success(w, status, message, healthResponse{Checks: results})
}
