package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when no user matches the given id or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when an email is already bound to another user.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidCredentials is returned when the password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned when the caller lacks the required role or identity.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidRole is returned when a role outside the known set is supplied.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidImage is returned when an uploaded file is not an accepted image.
	ErrInvalidImage = errors.New("invalid image upload")
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Token   string      `json:"token,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message string) *HTTPError {
	return &HTTPError{StatusCode: statusCode, Message: message}
}

// MapError maps domain errors to HTTP errors. DuplicateEmail maps to 403 by
// API contract, not 409.
func MapError(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error())
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusForbidden, ErrEmailTaken.Error())
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidImage):
		return NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
