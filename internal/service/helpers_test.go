package service

import (
	"errors"
	"testing"

	"vidtube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertAppErrorCode asserts that err is an AppError carrying code.
func assertAppErrorCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppErrorCode(t, err, models.CodeValidation)
}

// assertDenied asserts that err is an ownership denial with the shared message.
func assertDenied(t *testing.T, err error, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Contains(t, []string{models.CodeNotFound, models.CodeNotOwner}, appErr.Code)
	assert.Equal(t, message, appErr.Message)
	assert.Equal(t, 404, models.StatusFor(err))
}
