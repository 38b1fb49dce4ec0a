package handler

import (
	"net/http"
	"time"

	"github.com/dtroode/boogle-server/internal/model"
)

// Dashboard serves the learner dashboard. It reads the account attached by
// the authentication middleware and does not query the store.
type Dashboard struct {
	contextManager model.ContextManager
	responder      *Responder
	now            func() time.Time
}

// NewDashboard creates a new Dashboard handler.
func NewDashboard(contextManager model.ContextManager, responder *Responder) *Dashboard {
	return &Dashboard{
		contextManager: contextManager,
		responder:      responder,
		now:            time.Now,
	}
}

type dashboardStats struct {
	Role            model.Role `json:"role"`
	MemberSince     time.Time  `json:"memberSince"`
	DaysAsMember    int        `json:"daysAsMember"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	ProfileComplete bool       `json:"profileComplete"`
}

type dashboardEnvelope struct {
	User  userResponse   `json:"user"`
	Stats dashboardStats `json:"stats"`
}

// Stats returns a summary of the authenticated account.
func (h *Dashboard) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUser(r.Context())
	if !ok {
		h.responder.Error(w, r, model.ErrNoToken)
		return
	}

	days := 0
	if !user.CreatedAt.IsZero() {
		days = int(h.now().Sub(user.CreatedAt).Hours() / 24)
	}

	h.responder.Success(w, http.StatusOK, "", dashboardEnvelope{
		User: newUserResponse(user),
		Stats: dashboardStats{
			Role:            user.Role,
			MemberSince:     user.CreatedAt,
			DaysAsMember:    days,
			LastLogin:       user.LastLoginAt,
			ProfileComplete: user.Bio != "" && user.Avatar != "",
		},
	})
}
