package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/dtroode/boogle-server/internal/logger"
)

// User handles account administration endpoints.
type User struct {
	authService AuthService
	responder   *Responder
	validator   *Validator
	logger      *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(authService AuthService, responder *Responder, validator *Validator, logger *logger.Logger) *User {
	return &User{
		authService: authService,
		responder:   responder,
		validator:   validator,
		logger:      logger,
	}
}

// SetStatus activates or deactivates the account in the path.
func (h *User) SetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, h.responder)
	if !ok {
		return
	}

	var req setStatusRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	user, err := h.authService.SetActive(r.Context(), userID, *req.IsActive)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	message := "User activated"
	if !user.IsActive {
		message = "User deactivated"
	}
	h.responder.Success(w, http.StatusOK, message, userEnvelope{User: newUserResponse(user)})
}

func pathID(w http.ResponseWriter, r *http.Request, responder *Responder) (uuid.UUID, bool) {
	raw := mux.Vars(r)["id"]
	id, err := uuid.Parse(raw)
	if err != nil {
		responder.Fail(w, http.StatusBadRequest, "Invalid id: "+raw)
		return uuid.Nil, false
	}
	return id, true
}
