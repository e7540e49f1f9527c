package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error message", func(t *testing.T) {
		err := &NotFoundError{Entity: "tenant"}
		assert.Equal(t, "tenant not found", err.Error())
	})

	t.Run("errors.Is comparison with same entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "tenant"}
		err2 := &NotFoundError{Entity: "tenant"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is comparison with different entity", func(t *testing.T) {
		err1 := &NotFoundError{Entity: "tenant"}
		err2 := &NotFoundError{Entity: "budget"}
		assert.False(t, errors.Is(err1, err2))
	})

	t.Run("errors.Is with predefined errors", func(t *testing.T) {
		assert.True(t, errors.Is(ErrTenantNotFound, ErrTenantNotFound))
		assert.False(t, errors.Is(ErrTenantNotFound, ErrBudgetNotFound))
	})

	t.Run("errors.Is through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("loading directory: %w", ErrTenantNotFound)
		assert.True(t, errors.Is(wrapped, ErrTenantNotFound))
	})

	t.Run("IsNotFound helper", func(t *testing.T) {
		assert.True(t, IsNotFound(ErrStockItemNotFound))
		assert.False(t, IsNotFound(ErrInsufficientStock))
	})
}

func TestAlreadyExistsError(t *testing.T) {
	t.Run("Error message with context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "tenant", Context: "with this code"}
		assert.Equal(t, "tenant already exists with this code", err.Error())
	})

	t.Run("Error message without context", func(t *testing.T) {
		err := &AlreadyExistsError{Entity: "tenant"}
		assert.Equal(t, "tenant already exists", err.Error())
	})

	t.Run("errors.Is comparison", func(t *testing.T) {
		err1 := &AlreadyExistsError{Entity: "user", Context: "with this email"}
		err2 := &AlreadyExistsError{Entity: "user", Context: "with this email"}
		assert.True(t, errors.Is(err1, err2))
	})

	t.Run("IsAlreadyExists helper", func(t *testing.T) {
		assert.True(t, IsAlreadyExists(ErrUserExists))
		assert.False(t, IsAlreadyExists(ErrUserNotFound))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("Error message with field", func(t *testing.T) {
		err := &ValidationError{Field: "email", Message: "invalid format"}
		assert.Equal(t, "validation error: email - invalid format", err.Error())
	})

	t.Run("Error message without field", func(t *testing.T) {
		err := &ValidationError{Message: "invalid format"}
		assert.Equal(t, "validation error: invalid format", err.Error())
	})

	t.Run("IsValidation helper", func(t *testing.T) {
		err := NewValidationError("email", "invalid")
		assert.True(t, IsValidation(err))
		assert.False(t, IsValidation(ErrTenantNotFound))
	})
}

func TestAuthErrors(t *testing.T) {
	t.Run("IsAuthentication helper", func(t *testing.T) {
		assert.True(t, IsAuthentication(ErrInvalidCredentials))
		assert.True(t, IsAuthentication(ErrTenantContextMissing))
		assert.False(t, IsAuthentication(ErrTenantInactive))
	})

	t.Run("IsAuthorization helper", func(t *testing.T) {
		assert.True(t, IsAuthorization(ErrTenantAccessDenied))
		assert.True(t, IsAuthorization(ErrTenantManagementDenied))
		assert.True(t, IsAuthorization(ErrExtendedAccessDenied))
		assert.False(t, IsAuthorization(ErrInvalidCredentials))
	})

	t.Run("helpers see through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("checking scope: %w", ErrTenantManagementDenied)
		assert.True(t, IsAuthorization(wrapped))
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("NewNotFoundError", func(t *testing.T) {
		err := NewNotFoundError("custom entity")
		assert.Equal(t, "custom entity not found", err.Error())
		assert.True(t, IsNotFound(err))
	})

	t.Run("NewAlreadyExistsError", func(t *testing.T) {
		err := NewAlreadyExistsError("custom", "in scope")
		assert.Equal(t, "custom already exists in scope", err.Error())
		assert.True(t, IsAlreadyExists(err))
	})

	t.Run("NewValidationError", func(t *testing.T) {
		err := NewValidationError("field", "message")
		assert.Equal(t, "validation error: field - message", err.Error())
		assert.True(t, IsValidation(err))
	})

	t.Run("NewAuthorizationError", func(t *testing.T) {
		err := NewAuthorizationError("denied")
		assert.Equal(t, "denied", err.Error())
		assert.True(t, IsAuthorization(err))
	})
}

func TestBusinessLogicErrors(t *testing.T) {
	t.Run("hierarchy errors", func(t *testing.T) {
		assert.Error(t, ErrInvalidHierarchyLevel)
		assert.Error(t, ErrParentRequired)
		assert.Error(t, ErrParentLevelMismatch)
	})

	t.Run("domain errors", func(t *testing.T) {
		assert.Error(t, ErrInvalidStatus)
		assert.Error(t, ErrInsufficientStock)
		assert.Error(t, ErrUnitNotAvailable)
		assert.Error(t, ErrAllocationClosed)
		assert.Error(t, ErrBudgetClosed)
	})
}
