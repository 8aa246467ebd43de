package domain

import (
	"errors"
	"fmt"
)

const (
	DateLayout = "2006-01-02"

	LocalsUserEmail = "user_email"
	LocalsUserID    = "user_id"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedGetToken       = "failed to get token"
	MessageInternalError        = "internal server error"
	MessageUpstreamError        = "upstream service unavailable"

	// Taxonomy roots. Every error returned by a service wraps one of these.
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUpstream     = errors.New("upstream error")

	ErrUserNotFound      = fmt.Errorf("user %w", ErrNotFound)
	ErrLocationNotFound  = fmt.Errorf("location %w", ErrNotFound)
	ErrContainerNotFound = fmt.Errorf("container %w", ErrNotFound)
	ErrItemNotFound      = fmt.Errorf("item %w", ErrNotFound)

	ErrTokenNotFound = fmt.Errorf("%w: token not found", ErrUnauthorized)
	ErrTokenExpired  = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenInvalid  = fmt.Errorf("%w: token invalid", ErrUnauthorized)

	ErrParseUUID       = fmt.Errorf("%w: malformed identifier", ErrValidation)
	ErrVersionConflict = fmt.Errorf("%w: document was modified concurrently", ErrConflict)
	ErrDuplicateEmail  = fmt.Errorf("%w: email already registered", ErrConflict)
)

// Upstream wraps a collaborator or store failure so it never reaches clients verbatim.
func Upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrUpstream, op, err)
}

// Invalid builds a validation error with a client-facing reason.
func Invalid(reason string) error {
	return fmt.Errorf("%w: %s", ErrValidation, reason)
}
