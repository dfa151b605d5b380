package models

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. Handlers map them to HTTP status with StatusFor.
const (
	CodeInvalidIdentifier = "INVALID_IDENTIFIER"
	CodeValidation        = "VALIDATION_ERROR"
	CodeConflict          = "CONFLICT"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeNotOwner          = "NOT_OWNER"
	CodeUpstream          = "UPSTREAM_FAILURE"
	CodeInternal          = "INTERNAL_ERROR"
)

var (
	// ErrNotFound marks a resource lookup that found nothing.
	ErrNotFound = errors.New("resource not found")
	// ErrNotOwner marks a resource that exists but belongs to someone else.
	ErrNotOwner = errors.New("caller is not the owner")
)

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidIdentifierError reports a malformed resource id, e.g. "Invalid video id".
func NewInvalidIdentifierError(resource string) *AppError {
	return &AppError{
		Code:    CodeInvalidIdentifier,
		Message: fmt.Sprintf("Invalid %s id", strings.ToLower(resource)),
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     fmt.Errorf("%w: %s %v", ErrNotFound, strings.ToLower(resource), id),
	}
}

// NewOwnedNotFoundError is the not-found half of an ownership check. Its message
// is shared with NewNotOwnerError so callers cannot probe for existence.
func NewOwnedNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: ownershipMessage(resource),
		Err:     ErrNotFound,
	}
}

func NewNotOwnerError(resource string) *AppError {
	return &AppError{
		Code:    CodeNotOwner,
		Message: ownershipMessage(resource),
		Err:     ErrNotOwner,
	}
}

func ownershipMessage(resource string) string {
	return fmt.Sprintf("%s not found or you are not the owner", resource)
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// NewUpstreamError wraps a failure from an external collaborator such as the media store.
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Code:    CodeUpstream,
		Message: message,
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// StatusFor maps an error to the HTTP status it is reported with.
// Ownership denials collapse into 404 regardless of which half failed.
func StatusFor(err error) int {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeInvalidIdentifier, CodeValidation, CodeConflict:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeNotFound, CodeNotOwner:
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondWithError writes the failure envelope. Causes wrapped inside the error
// are logged, never serialized.
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	message := "Internal server error"
	code := CodeInternal

	var appErr *AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
		code = appErr.Code
	}
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			slog.String("code", code),
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
	}

	return c.Status(status).JSON(ErrorResponse{
		StatusCode: status,
		Data:       nil,
		Message:    message,
		Success:    false,
		Code:       code,
	})
}

// RespondWithAppError derives the status from the error itself.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	return RespondWithError(c, StatusFor(err), err)
}
