package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/logger"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// TenantService handles business logic for the tenant directory. Every
// mutation is gated by the strict hierarchy management check; listing is
// narrowed to the subtree the caller can see.
type TenantService struct {
	repo      *repository.TenantRepository
	access    *tenancy.AccessValidator
	validator *validator.Validate
}

// NewTenantService creates a new tenant service
func NewTenantService(repo *repository.TenantRepository, access *tenancy.AccessValidator, validator *validator.Validate) *TenantService {
	return &TenantService{
		repo:      repo,
		access:    access,
		validator: validator,
	}
}

// CreateTenantRequest represents the request to create a tenant
type CreateTenantRequest struct {
	Code           string     `json:"code" validate:"required,min=2,max=20"`
	Name           string     `json:"name" validate:"required,max=200"`
	HierarchyLevel string     `json:"hierarchy_level" validate:"required"`
	ParentID       *uuid.UUID `json:"parent_id,omitempty"`
}

// UpdateTenantRequest represents the request to update a tenant
type UpdateTenantRequest struct {
	Name string `json:"name" validate:"required,max=200"`
}

// TenantResponse represents the response for tenant operations
type TenantResponse struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	HierarchyLevel string     `json:"hierarchy_level"`
	ParentID       *uuid.UUID `json:"parent_id,omitempty"`
	IsActive       bool       `json:"is_active"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// TenantListResponse represents a list of tenants
type TenantListResponse struct {
	Tenants []TenantResponse `json:"tenants"`
	Total   int64            `json:"total"`
}

// Create creates a new tenant under the caller's management scope
func (s *TenantService) Create(ctx context.Context, tc *tenancy.Context, req *CreateTenantRequest) (*TenantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	level := tenancy.HierarchyLevel(req.HierarchyLevel)
	if !level.IsValid() {
		return nil, apperrors.ErrInvalidHierarchyLevel
	}

	if err := s.checkParent(level, req.ParentID); err != nil {
		return nil, err
	}

	// Creating a tenant means managing its parent's subtree. A new ministry
	// root is only for the superadmin.
	if req.ParentID != nil {
		allowed, err := s.access.CanManageTenantStrict(tc, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("failed to check management scope: %w", err)
		}
		if !allowed {
			return nil, apperrors.ErrTenantManagementDenied
		}
	} else if tc.Role != tenancy.RoleSuperAdmin {
		return nil, apperrors.ErrTenantManagementDenied
	}

	existing, err := s.repo.GetByCode(req.Code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing tenant: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrTenantExists
	}

	tenant := &models.Tenant{
		Code:           req.Code,
		Name:           req.Name,
		HierarchyLevel: level,
		ParentID:       req.ParentID,
		IsActive:       true,
	}

	if err := s.repo.Create(tenant); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	logger.ForActor(tc.UserID.String(), tc.TenantID.String()).
		WithField("created_tenant_id", tenant.ID).
		Infof("created %s tenant %s", tenant.HierarchyLevel, tenant.Code)

	return s.toResponse(tenant), nil
}

// GetByID retrieves a tenant the caller is allowed to see
func (s *TenantService) GetByID(ctx context.Context, tc *tenancy.Context, id uuid.UUID) (*TenantResponse, error) {
	tenant, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	if !s.canSee(tc, tenant) {
		// Indistinguishable from a missing tenant
		return nil, apperrors.ErrTenantNotFound
	}

	return s.toResponse(tenant), nil
}

// GetAll lists the tenants visible to the caller: the whole directory for the
// ministry, self plus children for a region, self only for a crou.
func (s *TenantService) GetAll(ctx context.Context, tc *tenancy.Context) (*TenantListResponse, error) {
	var tenants []models.Tenant
	var err error

	switch {
	case tc.HierarchyLevel == tenancy.LevelMinistry:
		// The directory is small (one ministry, a handful of regions and
		// crou centers), no pagination needed here
		tenants, _, err = s.repo.GetAll(500, 0)
	case tc.HierarchyLevel == tenancy.LevelRegion:
		var self *models.Tenant
		self, err = s.repo.GetByID(tc.TenantID)
		if err == nil {
			var children []models.Tenant
			children, err = s.repo.GetChildren(tc.TenantID)
			if err == nil {
				tenants = append([]models.Tenant{*self}, children...)
			}
		}
	default:
		var self *models.Tenant
		self, err = s.repo.GetByID(tc.TenantID)
		if err == nil {
			tenants = []models.Tenant{*self}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}

	responses := make([]TenantResponse, len(tenants))
	for i, t := range tenants {
		responses[i] = *s.toResponse(&t)
	}

	return &TenantListResponse{Tenants: responses, Total: int64(len(responses))}, nil
}

// GetChildren lists the direct children of a tenant within the caller's view
func (s *TenantService) GetChildren(ctx context.Context, tc *tenancy.Context, id uuid.UUID) (*TenantListResponse, error) {
	parent, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	if !s.canSee(tc, parent) {
		return nil, apperrors.ErrTenantNotFound
	}

	children, err := s.repo.GetChildren(id)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	responses := make([]TenantResponse, len(children))
	for i, t := range children {
		responses[i] = *s.toResponse(&t)
	}
	return &TenantListResponse{Tenants: responses, Total: int64(len(responses))}, nil
}

// Update renames a tenant the caller manages
func (s *TenantService) Update(ctx context.Context, tc *tenancy.Context, id uuid.UUID, req *UpdateTenantRequest) (*TenantResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	allowed, err := s.access.CanManageTenantStrict(tc, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to check management scope: %w", err)
	}
	if !allowed {
		return nil, apperrors.ErrTenantManagementDenied
	}

	tenant, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	tenant.Name = req.Name
	if err := s.repo.Update(tenant); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}

	return s.toResponse(tenant), nil
}

// SetActive activates or deactivates a tenant the caller manages. A tenant
// cannot deactivate itself.
func (s *TenantService) SetActive(ctx context.Context, tc *tenancy.Context, id uuid.UUID, active bool) (*TenantResponse, error) {
	if id == tc.TenantID && !active {
		return nil, apperrors.NewValidationError("is_active", "a tenant cannot deactivate itself")
	}

	allowed, err := s.access.CanManageTenantStrict(tc, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to check management scope: %w", err)
	}
	if !allowed {
		return nil, apperrors.ErrTenantManagementDenied
	}

	if err := s.repo.SetActive(id, active); err != nil {
		return nil, fmt.Errorf("failed to update tenant state: %w", err)
	}

	logger.ForActor(tc.UserID.String(), tc.TenantID.String()).
		Infof("set tenant %s active=%t", id, active)

	tenant, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload tenant: %w", err)
	}
	return s.toResponse(tenant), nil
}

// checkParent enforces the shape of the hierarchy: ministry at the root,
// regions under the ministry, crou centers under a region.
func (s *TenantService) checkParent(level tenancy.HierarchyLevel, parentID *uuid.UUID) error {
	if level == tenancy.LevelMinistry {
		if parentID != nil {
			return apperrors.ErrParentLevelMismatch
		}
		return nil
	}

	if parentID == nil {
		return apperrors.ErrParentRequired
	}

	parent, err := s.repo.GetByID(*parentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrTenantNotFound
		}
		return fmt.Errorf("failed to get parent tenant: %w", err)
	}

	if parent.HierarchyLevel.Rank() != level.Rank()-1 {
		return apperrors.ErrParentLevelMismatch
	}
	return nil
}

// canSee reports whether the directory entry is inside the caller's view:
// own tenant, any tenant for the ministry, or a direct child for a region.
func (s *TenantService) canSee(tc *tenancy.Context, tenant *models.Tenant) bool {
	if tenant.ID == tc.TenantID || tc.HierarchyLevel == tenancy.LevelMinistry {
		return true
	}
	if tc.HierarchyLevel == tenancy.LevelRegion {
		return tenant.ParentID != nil && *tenant.ParentID == tc.TenantID
	}
	return false
}

// toResponse converts a tenant model to response
func (s *TenantService) toResponse(tenant *models.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:             tenant.ID,
		Code:           tenant.Code,
		Name:           tenant.Name,
		HierarchyLevel: string(tenant.HierarchyLevel),
		ParentID:       tenant.ParentID,
		IsActive:       tenant.IsActive,
		CreatedAt:      tenant.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:      tenant.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
