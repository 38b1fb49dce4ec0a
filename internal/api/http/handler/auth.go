package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/model"
)

const (
	maxAvatarSize     = 5 << 20
	loggedOutCookie   = "loggedout"
	loginResultOK     = "success"
	loginResultFailed = "failure"
)

// AuthService defines the credential lifecycle and profile operations.
type AuthService interface {
	Register(ctx context.Context, reg model.Registration) (model.Session, error)
	Login(ctx context.Context, email, password string) (model.Session, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) (model.Session, error)
	Me(ctx context.Context, userID uuid.UUID) (model.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd model.ProfileUpdate) (model.User, error)
	SetActive(ctx context.Context, userID uuid.UUID, active bool) (model.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, r io.Reader, size int64, contentType string) (model.User, error)
	Avatar(ctx context.Context, userID uuid.UUID) (io.ReadCloser, error)
}

// LoginObserver records login attempt results.
type LoginObserver interface {
	ObserveLogin(result string)
}

// CookieConfig controls the session cookie written on token issuance.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Auth handles authentication and profile endpoints.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	responder      *Responder
	validator      *Validator
	observer       LoginObserver
	cookie         CookieConfig
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(
	authService AuthService,
	contextManager model.ContextManager,
	responder *Responder,
	validator *Validator,
	observer LoginObserver,
	cookie CookieConfig,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		responder:      responder,
		validator:      validator,
		observer:       observer,
		cookie:         cookie,
		logger:         logger,
	}
}

// Register creates an account. Only an authenticated admin may choose the
// role of the new account; anyone else gets the default role.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	role := req.Role
	if role != "" {
		caller, ok := h.contextManager.GetUser(r.Context())
		if !ok || caller.Role != model.RoleAdmin {
			h.logger.Info("Auth handler: ignoring role requested by non-admin",
				"role", role)
			role = ""
		}
	}

	sess, err := h.authService.Register(r.Context(), model.Registration{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     role,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.writeSession(w, http.StatusCreated, sess)
}

// Login exchanges credentials for a session token.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	sess, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.observer.ObserveLogin(loginResultFailed)
		h.responder.Error(w, r, err)
		return
	}
	h.observer.ObserveLogin(loginResultOK)

	h.writeSession(w, http.StatusOK, sess)
}

// Logout overwrites the session cookie.
func (h *Auth) Logout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    loggedOutCookie,
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	h.responder.Success(w, http.StatusOK, "Logged out successfully", nil)
}

// Me returns the authenticated user's profile.
func (h *Auth) Me(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	user, err := h.authService.Me(r.Context(), caller.ID)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Success(w, http.StatusOK, "", userEnvelope{User: newUserResponse(user)})
}

// UpdateProfile changes the name or bio of the authenticated user.
func (h *Auth) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	user, err := h.authService.UpdateProfile(r.Context(), caller.ID, model.ProfileUpdate{
		FullName: req.FullName,
		Bio:      req.Bio,
	})
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Success(w, http.StatusOK, "Profile updated successfully", userEnvelope{User: newUserResponse(user)})
}

// ChangePassword replaces the password and issues a fresh session.
func (h *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	var req changePasswordRequest
	if err := h.validator.Decode(r, &req); err != nil {
		h.responder.Error(w, r, err)
		return
	}

	sess, err := h.authService.ChangePassword(r.Context(), caller.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.writeSession(w, http.StatusOK, sess)
}

// UploadAvatar stores the request body as the user's avatar image.
func (h *Auth) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		h.responder.Fail(w, http.StatusUnsupportedMediaType, "Avatar must be an image")
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxAvatarSize+1))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	if len(data) == 0 {
		h.responder.Fail(w, http.StatusBadRequest, "Avatar image is required")
		return
	}
	if len(data) > maxAvatarSize {
		h.responder.Fail(w, http.StatusRequestEntityTooLarge, "Avatar cannot exceed 5 MB")
		return
	}

	user, err := h.authService.UploadAvatar(r.Context(), caller.ID, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	h.responder.Success(w, http.StatusOK, "Avatar updated successfully", userEnvelope{User: newUserResponse(user)})
}

// Avatar streams the user's avatar image.
func (h *Auth) Avatar(w http.ResponseWriter, r *http.Request) {
	caller, ok := h.caller(w, r)
	if !ok {
		return
	}

	rc, err := h.authService.Avatar(r.Context(), caller.ID)
	if errors.Is(err, model.ErrNotFound) {
		h.responder.Fail(w, http.StatusNotFound, "Avatar not found")
		return
	}
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxAvatarSize))
	if err != nil {
		h.responder.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("Auth handler: failed to write avatar",
			"user_id", caller.ID,
			"error", err.Error())
	}
}

func (h *Auth) caller(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := h.contextManager.GetUser(r.Context())
	if !ok {
		h.responder.Error(w, r, model.ErrNoToken)
		return model.User{}, false
	}
	return user, true
}

func (h *Auth) writeSession(w http.ResponseWriter, status int, sess model.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
	h.responder.Success(w, status, "Authentication successful", sessionResponse{
		Token: sess.Token,
		User:  newUserResponse(sess.User),
	})
}
