package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dtroode/boogle-server/internal/logger"
	"github.com/dtroode/boogle-server/internal/model"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// FieldError describes a single rejected request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type envelope struct {
	Status    string       `json:"status"`
	Message   string       `json:"message"`
	Data      any          `json:"data,omitempty"`
	Errors    []FieldError `json:"errors,omitempty"`
	Timestamp string       `json:"timestamp"`
}

// ValidationError is returned when a request body fails validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

type errorMapping struct {
	err     error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{model.ErrNoToken, http.StatusUnauthorized, "You are not logged in. Please log in to access this resource."},
	{model.ErrTokenInvalid, http.StatusUnauthorized, "Invalid token. Please log in again."},
	{model.ErrTokenExpired, http.StatusUnauthorized, "Your token has expired. Please log in again."},
	{model.ErrUserNotFound, http.StatusUnauthorized, "The user belonging to this token no longer exists."},
	{model.ErrAccountDeactivated, http.StatusUnauthorized, "Your account has been deactivated. Please contact support."},
	{model.ErrStalePasswordToken, http.StatusUnauthorized, "User recently changed password. Please log in again."},
	{model.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{model.ErrForbidden, http.StatusForbidden, "You do not have permission to perform this action"},
	{model.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered"},
	{model.ErrCurrentPasswordIncorrect, http.StatusBadRequest, "Current password is incorrect"},
	{model.ErrInvalidRole, http.StatusBadRequest, "Invalid role"},
	{model.ErrPasswordTooLong, http.StatusBadRequest, "Password cannot exceed 72 bytes"},
	{model.ErrNotFound, http.StatusNotFound, "Resource not found"},
	{model.ErrRateLimited, http.StatusTooManyRequests, "Too many requests. Please try again later."},
}

// Responder writes the JSON response envelope shared by all endpoints.
type Responder struct {
	logger      *logger.Logger
	development bool
}

// NewResponder creates a Responder. In development mode internal errors are
// echoed to the client.
func NewResponder(logger *logger.Logger, development bool) *Responder {
	return &Responder{logger: logger, development: development}
}

// Success writes a success envelope with data.
func (rs *Responder) Success(w http.ResponseWriter, status int, message string, data any) {
	if message == "" {
		message = "Success"
	}
	rs.write(w, status, envelope{
		Status:  statusSuccess,
		Message: message,
		Data:    data,
	})
}

// Error maps err to a status code and user-facing message and writes an
// error envelope. Unknown errors become 500 and are logged.
func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		rs.write(w, http.StatusBadRequest, envelope{
			Status:  statusError,
			Message: "Validation failed",
			Errors:  validationErr.Fields,
		})
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			rs.write(w, m.status, envelope{
				Status:  statusError,
				Message: m.message,
			})
			return
		}
	}

	rs.logger.Error("HTTP handler: internal error",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error())

	env := envelope{
		Status:  statusError,
		Message: "Internal server error",
	}
	if rs.development {
		env.Errors = []FieldError{{Field: "internal", Message: err.Error()}}
	}
	rs.write(w, http.StatusInternalServerError, env)
}

// Fail writes an error envelope with an explicit status and message.
func (rs *Responder) Fail(w http.ResponseWriter, status int, message string) {
	rs.write(w, status, envelope{
		Status:  statusError,
		Message: message,
	})
}

func (rs *Responder) write(w http.ResponseWriter, status int, env envelope) {
	env.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(env); err != nil {
		rs.logger.Warn("HTTP handler: failed to encode response",
			"error", err.Error())
	}
}
