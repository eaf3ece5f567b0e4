package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned when login is rejected.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated is returned when an operation needs a session and none is stored.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotFound is returned when neither the API nor the fallback data knows the entity.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned before any call when required ids are empty.
	ErrInvalidInput = errors.New("course and lesson ids are required")
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Message)
}

// IsAuthError reports whether the API rejected the bearer token.
func (e *StatusError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
