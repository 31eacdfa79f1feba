package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"user not found", ErrUserNotFound, http.StatusNotFound},
		// Duplicate email maps to 403 by API contract.
		{"email taken", ErrEmailTaken, http.StatusForbidden},
		{"invalid credentials", ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"invalid role", ErrInvalidRole, http.StatusBadRequest},
		{"invalid image", ErrInvalidImage, http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("update user: %w", ErrEmailTaken), http.StatusForbidden},
		{"unexpected error", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			assert.Equal(t, tt.expectedStatus, mapped.StatusCode)
		})
	}
}

func TestMapError_HidesInternalDetail(t *testing.T) {
	mapped := MapError(errors.New("dial tcp 10.0.0.5:3306: connect: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, mapped.StatusCode)
	assert.Equal(t, "internal server error", mapped.Message)
}
