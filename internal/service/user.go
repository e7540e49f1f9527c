package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/logger"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// UserService handles business logic for user accounts. Users always belong
// to exactly one tenant; creating an account in another tenant requires
// management rights over that tenant and leaves an audit trail.
type UserService struct {
	repo      *repository.UserRepository
	access    *tenancy.AccessValidator
	validator *validator.Validate
}

// NewUserService creates a new user service
func NewUserService(repo *repository.UserRepository, access *tenancy.AccessValidator, validator *validator.Validate) *UserService {
	return &UserService{
		repo:      repo,
		access:    access,
		validator: validator,
	}
}

// CreateUserRequest represents the request to create a user
type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required,email,max=150"`
	FullName string     `json:"full_name" validate:"required,max=150"`
	Password string     `json:"password" validate:"required,min=8,max=72"`
	Role     string     `json:"role" validate:"required"`
	TenantID *uuid.UUID `json:"tenant_id,omitempty"`
}

// UpdateUserRequest represents the request to update a user
type UpdateUserRequest struct {
	FullName string `json:"full_name" validate:"required,max=150"`
	Role     string `json:"role" validate:"required"`
	IsActive *bool  `json:"is_active,omitempty"`
}

// UserResponse represents the response for user operations
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// UserListResponse represents a paginated list of users
type UserListResponse struct {
	Users    []UserResponse `json:"users"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Create creates a new user in the caller's tenant, or in a managed tenant
// when tenant_id is set explicitly.
func (s *UserService) Create(ctx context.Context, tc *tenancy.Context, req *CreateUserRequest) (*UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	role := tenancy.Role(req.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("role", "unknown role "+req.Role)
	}
	if role == tenancy.RoleSuperAdmin && tc.Role != tenancy.RoleSuperAdmin {
		return nil, apperrors.NewAuthorizationError("only a superadmin may grant the superadmin role")
	}

	targetTenant := tc.TenantID
	if req.TenantID != nil && *req.TenantID != tc.TenantID {
		allowed, err := s.access.CanManageTenantStrict(tc, *req.TenantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrTenantNotFound
			}
			return nil, fmt.Errorf("failed to check management scope: %w", err)
		}
		if !allowed {
			return nil, apperrors.ErrTenantManagementDenied
		}
		targetTenant = *req.TenantID
		s.access.LogResourceAccess(ctx, tc, targetTenant, "user_create", tenancy.AccessOptions{})
	}

	existing, err := s.repo.GetByEmail(req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		TenantID:     targetTenant,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.ForActor(tc.UserID.String(), tc.TenantID.String()).
		WithField("created_user_id", user.ID).
		Infof("created user %s in tenant %s", user.Email, targetTenant)

	return s.toResponse(user), nil
}

// GetByID retrieves a user within the caller's tenant view
func (s *UserService) GetByID(ctx context.Context, tc *tenancy.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !tenancy.CanAccessTenant(tc.TenantID, tc.HierarchyLevel, user.TenantID) {
		return nil, apperrors.ErrUserNotFound
	}
	s.access.LogResourceAccess(ctx, tc, user.TenantID, "user_read", tenancy.AccessOptions{})

	return s.toResponse(user), nil
}

// GetByTenant lists the users of the caller's tenant with pagination. The
// ministry may widen the listing to all tenants.
func (s *UserService) GetByTenant(ctx context.Context, tc *tenancy.Context, includeAll bool, page, pageSize int) (*UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	opts := tenancy.ScopeOptions{BypassForExtendedAccess: includeAll}
	offset := (page - 1) * pageSize
	users, total, err := s.repo.GetByTenant(tc, opts, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	if includeAll && tc.HierarchyLevel == tenancy.LevelMinistry {
		s.access.LogResourceAccess(ctx, tc, uuid.Nil, "users", tenancy.AccessOptions{})
	}

	responses := make([]UserResponse, len(users))
	for i, u := range users {
		responses[i] = *s.toResponse(&u)
	}

	return &UserListResponse{
		Users:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates a user inside the caller's management scope
func (s *UserService) Update(ctx context.Context, tc *tenancy.Context, id uuid.UUID, req *UpdateUserRequest) (*UserResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	role := tenancy.Role(req.Role)
	if !role.IsValid() {
		return nil, apperrors.NewValidationError("role", "unknown role "+req.Role)
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	// Role changes into or out of superadmin are reserved to superadmins,
	// same as on create. Without this an agent could grant themselves the
	// role and from there manage any tenant.
	if (role == tenancy.RoleSuperAdmin || user.Role == tenancy.RoleSuperAdmin) && tc.Role != tenancy.RoleSuperAdmin {
		return nil, apperrors.NewAuthorizationError("only a superadmin may change the superadmin role")
	}

	if user.TenantID != tc.TenantID {
		allowed, err := s.access.CanManageTenantStrict(tc, user.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to check management scope: %w", err)
		}
		if !allowed {
			return nil, apperrors.ErrUserNotFound
		}
		s.access.LogResourceAccess(ctx, tc, user.TenantID, "user_update", tenancy.AccessOptions{})
	}

	user.FullName = req.FullName
	user.Role = role
	if req.IsActive != nil {
		if user.ID == tc.UserID && !*req.IsActive {
			return nil, apperrors.NewValidationError("is_active", "a user cannot deactivate their own account")
		}
		user.IsActive = *req.IsActive
	}

	if err := s.repo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return s.toResponse(user), nil
}

// Delete removes a user from the caller's own tenant
func (s *UserService) Delete(ctx context.Context, tc *tenancy.Context, id uuid.UUID) error {
	if id == tc.UserID {
		return apperrors.NewValidationError("id", "a user cannot delete their own account")
	}

	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if user.TenantID != tc.TenantID {
		// Deleting across tenants is not supported even for the ministry;
		// deactivate instead
		return apperrors.ErrUserNotFound
	}

	if err := s.repo.Delete(tc, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	logger.ForActor(tc.UserID.String(), tc.TenantID.String()).
		Infof("deleted user %s", user.Email)

	return nil
}

// toResponse converts a user model to response
func (s *UserService) toResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		TenantID:  user.TenantID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: user.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
