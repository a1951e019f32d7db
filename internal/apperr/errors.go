// Package apperr defines errors that carry their HTTP representation.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable error codes.
const (
	CodeUserNotFound       = "user_not_found"
	CodePostNotFound       = "post_not_found"
	CodeInvalidCredentials = "invalid_credentials"
	CodeMissingToken       = "missing_token"
	CodeInvalidToken       = "invalid_token"
	CodeEmailTaken         = "email_taken"
	CodeSelfFriendship     = "self_friendship"
	CodeConcurrentUpdate   = "concurrent_update"
	CodeInvalidID          = "invalid_id"
	CodeValidationFailed   = "validation_failed"
	CodePostNotCreated     = "post_not_created"
	CodeUserNotCreated     = "user_not_created"
	CodeAssetNotFound      = "asset_not_found"
	CodePayloadTooLarge    = "payload_too_large"
	CodeInternal           = "internal_error"
)

// Error is a classified failure that is safe to show to clients.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// As returns the *Error wrapped in err, if any.
func As(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	apiErr, ok := As(err)
	return ok && apiErr.Code == code
}

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func NewErrUserNotFound() *Error {
	return newError(http.StatusNotFound, CodeUserNotFound, "user does not exist")
}

// NewErrUnknownLogin is returned by login for an unregistered email.
func NewErrUnknownLogin() *Error {
	return newError(http.StatusBadRequest, CodeUserNotFound, "user does not exist")
}

func NewErrPostNotFound() *Error {
	return newError(http.StatusNotFound, CodePostNotFound, "post does not exist")
}

func NewErrInvalidCredentials() *Error {
	return newError(http.StatusBadRequest, CodeInvalidCredentials, "invalid credentials")
}

func NewErrMissingToken() *Error {
	return newError(http.StatusForbidden, CodeMissingToken, "access denied")
}

func NewErrInvalidToken() *Error {
	return newError(http.StatusUnauthorized, CodeInvalidToken, "invalid authorization token")
}

func NewErrEmailIsTaken() *Error {
	return newError(http.StatusConflict, CodeEmailTaken, "email is already registered")
}

func NewErrUserNotCreated() *Error {
	return newError(http.StatusInternalServerError, CodeUserNotCreated, "user could not be created")
}

func NewErrSelfFriendship() *Error {
	return newError(http.StatusBadRequest, CodeSelfFriendship, "users cannot befriend themselves")
}

func NewErrConcurrentUpdate() *Error {
	return newError(http.StatusConflict, CodeConcurrentUpdate, "record was modified concurrently, retry")
}

func NewErrInvalidID(field string) *Error {
	return newError(http.StatusBadRequest, CodeInvalidID, fmt.Sprintf("%s is not a valid id", field))
}

func NewErrValidation(message string) *Error {
	return newError(http.StatusBadRequest, CodeValidationFailed, message)
}

func NewErrPostNotCreated() *Error {
	return newError(http.StatusConflict, CodePostNotCreated, "post could not be created")
}

func NewErrAssetNotFound() *Error {
	return newError(http.StatusNotFound, CodeAssetNotFound, "asset does not exist")
}

func NewErrPayloadTooLarge() *Error {
	return newError(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "request body is too large")
}

func NewErrInternal() *Error {
	return newError(http.StatusInternalServerError, CodeInternal, "internal server error")
}
