package errors

import (
	"errors"
	"fmt"
)

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// Is enables errors.Is() comparison for NotFoundError
func (e *NotFoundError) Is(target error) bool {
	t, ok := target.(*NotFoundError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// AlreadyExistsError represents an error when an entity already exists
type AlreadyExistsError struct {
	Entity  string
	Context string // Additional context like "in tenant"
}

func (e *AlreadyExistsError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s already exists %s", e.Entity, e.Context)
	}
	return fmt.Sprintf("%s already exists", e.Entity)
}

// Is enables errors.Is() comparison for AlreadyExistsError
func (e *AlreadyExistsError) Is(target error) bool {
	t, ok := target.(*AlreadyExistsError)
	if !ok {
		return false
	}
	return e.Entity == t.Entity
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// AuthenticationError represents authentication-related errors
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return e.Message
}

// AuthorizationError represents authorization-related errors
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}

// ConfigurationError represents configuration-related errors
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// Entity Not Found Errors
var (
	ErrTenantNotFound        = &NotFoundError{Entity: "tenant"}
	ErrUserNotFound          = &NotFoundError{Entity: "user"}
	ErrBudgetNotFound        = &NotFoundError{Entity: "budget"}
	ErrBudgetLineNotFound    = &NotFoundError{Entity: "budget line"}
	ErrStockItemNotFound     = &NotFoundError{Entity: "stock item"}
	ErrStockMovementNotFound = &NotFoundError{Entity: "stock movement"}
	ErrHousingUnitNotFound   = &NotFoundError{Entity: "housing unit"}
	ErrAllocationNotFound    = &NotFoundError{Entity: "housing allocation"}
	ErrVehicleNotFound       = &NotFoundError{Entity: "vehicle"}
	ErrTripNotFound          = &NotFoundError{Entity: "transport trip"}
)

// Already Exists Errors
var (
	ErrTenantExists      = &AlreadyExistsError{Entity: "tenant", Context: "with this code"}
	ErrUserExists        = &AlreadyExistsError{Entity: "user", Context: "with this email"}
	ErrStockItemExists   = &AlreadyExistsError{Entity: "stock item", Context: "with this code in the tenant"}
	ErrHousingUnitExists = &AlreadyExistsError{Entity: "housing unit", Context: "with this number in the building"}
	ErrVehicleExists     = &AlreadyExistsError{Entity: "vehicle", Context: "with this plate number"}
)

// Business Logic Errors
var (
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidHierarchyLevel   = errors.New("invalid hierarchy level")
	ErrInvalidPaginationParams = errors.New("invalid pagination parameters")
	ErrInsufficientStock       = errors.New("insufficient stock for outbound movement")
	ErrUnitNotAvailable        = errors.New("housing unit is not available")
	ErrAllocationClosed        = errors.New("housing allocation is already closed")
	ErrBudgetClosed            = errors.New("budget is closed and cannot be modified")
	ErrParentRequired          = errors.New("non-ministry tenants require a parent tenant")
	ErrParentLevelMismatch     = errors.New("parent tenant is not one hierarchy level above")
)

// Authentication Errors
var (
	ErrInvalidCredentials   = &AuthenticationError{Message: "invalid email or password"}
	ErrTenantContextMissing = &AuthenticationError{Message: "tenant context not resolved for request"}
	ErrInvalidRefreshToken  = errors.New("invalid refresh token")
	ErrRefreshTokenExpired  = errors.New("refresh token has expired")
)

// Authorization Errors
var (
	ErrTenantInactive         = &AuthorizationError{Message: "tenant is deactivated"}
	ErrTenantAccessDenied     = &AuthorizationError{Message: "access denied to target tenant"}
	ErrTenantManagementDenied = &AuthorizationError{Message: "caller may not manage this tenant"}
	ErrExtendedAccessDenied   = &AuthorizationError{Message: "extended access requires ministry level"}
)

// Helper Functions

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.Is(err, &NotFoundError{}) || errors.As(err, &notFoundErr)
}

// IsAlreadyExists checks if an error is an AlreadyExistsError
func IsAlreadyExists(err error) bool {
	var existsErr *AlreadyExistsError
	return errors.Is(err, &AlreadyExistsError{}) || errors.As(err, &existsErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// IsAuthentication checks if an error is an AuthenticationError
func IsAuthentication(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsAuthorization checks if an error is an AuthorizationError
func IsAuthorization(err error) bool {
	var authzErr *AuthorizationError
	return errors.As(err, &authzErr)
}

// IsConfiguration checks if an error is a ConfigurationError
func IsConfiguration(err error) bool {
	var configErr *ConfigurationError
	return errors.As(err, &configErr)
}

// NewNotFoundError creates a new NotFoundError for a custom entity
func NewNotFoundError(entity string) error {
	return &NotFoundError{Entity: entity}
}

// NewAlreadyExistsError creates a new AlreadyExistsError for a custom entity
func NewAlreadyExistsError(entity, context string) error {
	return &AlreadyExistsError{Entity: entity, Context: context}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(message string) error {
	return &AuthenticationError{Message: message}
}

// NewAuthorizationError creates a new AuthorizationError
func NewAuthorizationError(message string) error {
	return &AuthorizationError{Message: message}
}

// NewConfigurationError creates a new ConfigurationError
func NewConfigurationError(message string) error {
	return &ConfigurationError{Message: message}
}
