package domain

import (
	"errors"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface lets the boundary layer translate service
// failures without inspecting concrete types.
type HTTPError interface {
	error
	StatusCode() int
}

// Service error types implementing HTTPError
type (
	// NotFoundError indicates the actor or a referenced entity is absent
	NotFoundError struct {
		Message string
	}

	// ValidationError indicates malformed or contradictory input
	ValidationError struct {
		Message string
	}

	// UnauthorizedError indicates authentication failure
	UnauthorizedError struct {
		Message string
	}

	// ForbiddenError indicates the actor lacks a required membership or role
	ForbiddenError struct {
		Message string
	}
)

func (e *NotFoundError) Error() string     { return e.Message }
func (e *ValidationError) Error() string   { return e.Message }
func (e *UnauthorizedError) Error() string { return e.Message }
func (e *ForbiddenError) Error() string    { return e.Message }

func (e *NotFoundError) StatusCode() int     { return http.StatusNotFound }
func (e *ValidationError) StatusCode() int   { return http.StatusBadRequest }
func (e *UnauthorizedError) StatusCode() int { return http.StatusUnauthorized }
func (e *ForbiddenError) StatusCode() int    { return http.StatusForbidden }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("already exists")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

func (e *NotFoundError) Is(target error) bool     { return target == ErrNotFound }
func (e *ValidationError) Is(target error) bool   { return target == ErrValidation }
func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
func (e *ForbiddenError) Is(target error) bool    { return target == ErrForbidden }

// ConflictError represents a state conflict: a duplicate participation edge
// or an ownership-continuity violation.
type ConflictError struct {
	Message      string // Human-readable error message
	ResourceType string // Type of resource (project, task, participation)
	ResourceID   string // ID of the existing/conflicting resource
}

func (e *ConflictError) Error() string {
	return e.Message
}

func (e *ConflictError) StatusCode() int {
	return http.StatusConflict
}

// Is allows errors.Is() to match against ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// StoreInconsistencyError reports a violated uniqueness invariant the store
// should have guaranteed: a supposedly unique key matched more than one row.
// It is a server fault, never a client-correctable condition, and always
// forces the owning transaction to roll back.
type StoreInconsistencyError struct {
	Message      string
	ResourceType string
}

func (e *StoreInconsistencyError) Error() string {
	return e.Message
}

func (e *StoreInconsistencyError) StatusCode() int {
	return http.StatusInternalServerError
}
