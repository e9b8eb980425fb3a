// Package errors provides the HTTP error taxonomy of the API
package errors

import (
	"fmt"
	"net/http"
)

// APIError is the base interface for all API errors
type APIError interface {
	error
	HTTPStatus() int
	Code() string
}

// BaseError is the base implementation of APIError
type BaseError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	ErrorCode  string `json:"code"`
}

func (e *BaseError) Error() string {
	return e.Message
}

func (e *BaseError) HTTPStatus() int {
	return e.StatusCode
}

func (e *BaseError) Code() string {
	return e.ErrorCode
}

// AuthError represents an authentication failure. Every kind maps to 401; the
// code distinguishes missing, malformed, expired and orphaned tokens.
type AuthError struct {
	BaseError
}

func newAuthError(code, message string) *AuthError {
	return &AuthError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusUnauthorized,
			ErrorCode:  code,
		},
	}
}

// NewMissingTokenError reports an absent Authorization header
func NewMissingTokenError() *AuthError {
	return newAuthError("MISSING_TOKEN", "Token is missing!")
}

// NewInvalidTokenError reports a token that failed signature or claim checks
func NewInvalidTokenError() *AuthError {
	return newAuthError("INVALID_TOKEN", "Invalid token!")
}

// NewExpiredTokenError reports a well-signed token past its expiry
func NewExpiredTokenError() *AuthError {
	return newAuthError("EXPIRED_TOKEN", "Token has expired!")
}

// NewUserNotFoundError reports a token whose subject no longer resolves to an
// active user
func NewUserNotFoundError() *AuthError {
	return newAuthError("USER_NOT_FOUND", "User not found!")
}

// NewInvalidCredentialsError reports a failed login. The message is identical
// for an unknown email and a wrong password so callers cannot enumerate users.
func NewInvalidCredentialsError() *AuthError {
	return newAuthError("INVALID_CREDENTIALS", "Invalid credentials!")
}

// NewInactiveUserError reports a login against a deactivated account
func NewInactiveUserError() *AuthError {
	return newAuthError("INACTIVE_USER", "User is inactive!")
}

// ForbiddenError represents a role check failure
type ForbiddenError struct {
	BaseError
}

func NewForbiddenError() *ForbiddenError {
	return &ForbiddenError{
		BaseError: BaseError{
			Message:    "Unauthorized!",
			StatusCode: http.StatusForbidden,
			ErrorCode:  "FORBIDDEN",
		},
	}
}

// ConflictError represents a uniqueness violation
type ConflictError struct {
	BaseError
	Resource string
}

func NewConflictError(resource string) *ConflictError {
	return &ConflictError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s already exists!", resource),
			StatusCode: http.StatusConflict,
			ErrorCode:  "CONFLICT",
		},
		Resource: resource,
	}
}

// NotFoundError represents a missing resource
type NotFoundError struct {
	BaseError
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{
		BaseError: BaseError{
			Message:    fmt.Sprintf("%s not found!", resource),
			StatusCode: http.StatusNotFound,
			ErrorCode:  "NOT_FOUND",
		},
		Resource: resource,
	}
}

// BadRequestError represents a malformed or incomplete request body
type BadRequestError struct {
	BaseError
}

func NewBadRequestError(message string) *BadRequestError {
	return &BadRequestError{
		BaseError: BaseError{
			Message:    message,
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "BAD_REQUEST",
		},
	}
}

// InternalError represents an unexpected server-side failure
type InternalError struct {
	BaseError
	OriginalError error
}

func NewInternalError(original error) *InternalError {
	return &InternalError{
		BaseError: BaseError{
			Message:    "internal server error",
			StatusCode: http.StatusInternalServerError,
			ErrorCode:  "INTERNAL_ERROR",
		},
		OriginalError: original,
	}
}

// ToHTTPError converts any error to an HTTP status and response body
func ToHTTPError(err error) (int, map[string]interface{}) {
	if err == nil {
		return http.StatusOK, nil
	}

	if ae, ok := err.(APIError); ok {
		return ae.HTTPStatus(), map[string]interface{}{
			"error":   ae.Code(),
			"message": ae.Error(),
		}
	}

	return http.StatusInternalServerError, map[string]interface{}{
		"error":   "INTERNAL_ERROR",
		"message": "internal server error",
	}
}
