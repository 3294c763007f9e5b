// Package services holds the business logic for claim case files: the form
// store, the claim lifecycle, claim documents, users and authentication.
//
// This file centralizes the service-level error taxonomy. Services return
// these values (or errors that match them under errors.Is) and handlers map
// them to HTTP status codes; no driver error crosses this boundary unwrapped.
package services

import (
	"errors"
	"fmt"

	"github.com/tbourn/claims-backend/internal/domain"
	"github.com/tbourn/claims-backend/internal/repo"
)

var (
	// ErrNotFound: the addressed claim, form, document, or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict: a unique key is taken (username, claim id) or an
	// inspection id belongs to another claim.
	ErrConflict = errors.New("conflict")

	// ErrInvalidCredentials: unknown user or wrong password. Both cases share
	// one error so callers cannot enumerate usernames.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken: any failure to verify a bearer or refresh token.
	ErrInvalidToken = errors.New("invalid token")

	// ErrWrongTokenType: a valid token of the wrong kind was presented.
	ErrWrongTokenType = errors.New("invalid token type")

	// ErrUnauthorized: the caller could not be authenticated.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden: authenticated but not permitted.
	ErrForbidden = errors.New("forbidden")

	// ErrStorage: the database failed. The cause is kept for logging only.
	ErrStorage = errors.New("storage error")
)

// ValidationError reports a bad input field; handlers answer 400.
type ValidationError = domain.ValidationError

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// kindError pairs a caller-facing message with one of the sentinels above.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.cause != nil {
		return e.msg + ": " + e.cause.Error()
	}
	return e.msg
}

func (e *kindError) Is(target error) bool { return target == e.kind }
func (e *kindError) Unwrap() error        { return e.cause }

// Message returns the text safe to show to API clients.
func (e *kindError) Message() string { return e.msg }

func notFound(format string, args ...any) error {
	return &kindError{kind: ErrNotFound, msg: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) error {
	return &kindError{kind: ErrConflict, msg: fmt.Sprintf(format, args...)}
}

func storage(cause error) error {
	return &kindError{kind: ErrStorage, msg: "storage error", cause: cause}
}

// PublicMessage returns the client-facing text of a service error, without
// any wrapped storage detail.
func PublicMessage(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.Message()
	}
	return err.Error()
}

// translate maps repository errors onto the service taxonomy. what names
// the missing thing in not-found messages ("accident claim").
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	var ke *kindError
	switch {
	case errors.As(err, &ve), errors.As(err, &ke):
		return err
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrWrongTokenType), errors.Is(err, ErrUnauthorized), errors.Is(err, ErrForbidden):
		return err
	case errors.Is(err, repo.ErrNotFound):
		return notFound("%s not found", what)
	case errors.Is(err, repo.ErrDuplicate):
		return conflict("%s already exists", what)
	case errors.Is(err, repo.ErrKeyOwned):
		return conflict("inspection_id belongs to another claim")
	}
	return storage(err)
}
