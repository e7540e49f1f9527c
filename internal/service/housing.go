package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// HousingService handles business logic for housing units and allocations
type HousingService struct {
	repo      *repository.HousingRepository
	access    *tenancy.AccessValidator
	validator *validator.Validate
}

// NewHousingService creates a new housing service
func NewHousingService(repo *repository.HousingRepository, access *tenancy.AccessValidator, validator *validator.Validate) *HousingService {
	return &HousingService{
		repo:      repo,
		access:    access,
		validator: validator,
	}
}

// CreateHousingUnitRequest represents the request to create a housing unit
type CreateHousingUnitRequest struct {
	Building string `json:"building" validate:"required,max=100"`
	Number   string `json:"number" validate:"required,max=20"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=12"`
}

// UpdateHousingUnitRequest represents the request to update a housing unit
type UpdateHousingUnitRequest struct {
	Capacity int    `json:"capacity" validate:"required,min=1,max=12"`
	Status   string `json:"status" validate:"required"`
}

// CreateAllocationRequest represents the request to allocate a unit
type CreateAllocationRequest struct {
	StudentName   string    `json:"student_name" validate:"required,max=150"`
	StudentNumber string    `json:"student_number" validate:"required,max=40"`
	StartDate     time.Time `json:"start_date" validate:"required"`
}

// HousingUnitResponse represents a housing unit in API responses
type HousingUnitResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Building  string    `json:"building"`
	Number    string    `json:"number"`
	Capacity  int       `json:"capacity"`
	Status    string    `json:"status"`
	CreatedAt string    `json:"created_at"`
	UpdatedAt string    `json:"updated_at"`
}

// HousingUnitListResponse represents a paginated list of housing units
type HousingUnitListResponse struct {
	Units    []HousingUnitResponse `json:"units"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

// AllocationResponse represents an allocation in API responses
type AllocationResponse struct {
	ID            uuid.UUID  `json:"id"`
	UnitID        uuid.UUID  `json:"unit_id"`
	StudentName   string     `json:"student_name"`
	StudentNumber string     `json:"student_number"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       *time.Time `json:"end_date,omitempty"`
	Status        string     `json:"status"`
}

// AllocationListResponse represents a paginated list of allocations
type AllocationListResponse struct {
	Allocations []AllocationResponse `json:"allocations"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	PageSize    int                  `json:"page_size"`
}

// CreateUnit creates a housing unit in the caller's tenant
func (s *HousingService) CreateUnit(ctx context.Context, tc *tenancy.Context, req *CreateHousingUnitRequest) (*HousingUnitResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	unit := &models.HousingUnit{
		Building: req.Building,
		Number:   req.Number,
		Capacity: req.Capacity,
		Status:   models.UnitAvailable,
	}

	if err := s.repo.CreateUnit(tc, unit, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to create housing unit: %w", err)
	}

	return s.toUnitResponse(unit), nil
}

// GetUnitByID retrieves one housing unit
func (s *HousingService) GetUnitByID(ctx context.Context, tc *tenancy.Context, id uuid.UUID, extended bool) (*HousingUnitResponse, error) {
	unit, err := s.repo.GetUnitByID(tc, tenancy.ScopeOptions{BypassForExtendedAccess: extended}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHousingUnitNotFound
		}
		return nil, fmt.Errorf("failed to get housing unit: %w", err)
	}

	s.access.LogResourceAccess(ctx, tc, unit.TenantID, "housing_unit", tenancy.AccessOptions{})
	return s.toUnitResponse(unit), nil
}

// GetUnits lists housing units, optionally filtered by status
func (s *HousingService) GetUnits(ctx context.Context, tc *tenancy.Context, status string, extended bool, page, pageSize int) (*HousingUnitListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	unitStatus := models.HousingUnitStatus(status)
	if status != "" && !unitStatus.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	offset := (page - 1) * pageSize
	units, total, err := s.repo.GetUnits(tc, tenancy.ScopeOptions{BypassForExtendedAccess: extended}, unitStatus, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list housing units: %w", err)
	}

	if extended && tc.HierarchyLevel == tenancy.LevelMinistry {
		s.access.LogResourceAccess(ctx, tc, uuid.Nil, "housing_units", tenancy.AccessOptions{})
	}

	responses := make([]HousingUnitResponse, len(units))
	for i, u := range units {
		responses[i] = *s.toUnitResponse(&u)
	}

	return &HousingUnitListResponse{
		Units:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateUnit updates a housing unit's capacity and status
func (s *HousingService) UpdateUnit(ctx context.Context, tc *tenancy.Context, id uuid.UUID, req *UpdateHousingUnitRequest) (*HousingUnitResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	status := models.HousingUnitStatus(req.Status)
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	unit, err := s.repo.GetUnitByID(tc, tenancy.ScopeOptions{}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHousingUnitNotFound
		}
		return nil, fmt.Errorf("failed to get housing unit: %w", err)
	}

	unit.Capacity = req.Capacity
	unit.Status = status

	if err := s.repo.UpdateUnit(tc, unit, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to update housing unit: %w", err)
	}

	return s.toUnitResponse(unit), nil
}

// Allocate assigns a student to an available unit with free capacity
func (s *HousingService) Allocate(ctx context.Context, tc *tenancy.Context, unitID uuid.UUID, req *CreateAllocationRequest) (*AllocationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	unit, err := s.repo.GetUnitByID(tc, tenancy.ScopeOptions{}, unitID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHousingUnitNotFound
		}
		return nil, fmt.Errorf("failed to get housing unit: %w", err)
	}

	if unit.Status == models.UnitMaintenance {
		return nil, apperrors.ErrUnitNotAvailable
	}

	active, err := s.repo.CountActiveAllocations(tc, unit.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count allocations: %w", err)
	}
	if active >= int64(unit.Capacity) {
		return nil, apperrors.ErrUnitNotAvailable
	}

	allocation := &models.HousingAllocation{
		UnitID:        unit.ID,
		StudentName:   req.StudentName,
		StudentNumber: req.StudentNumber,
		StartDate:     req.StartDate,
		Status:        models.AllocationActive,
	}

	if err := s.repo.CreateAllocation(tc, allocation, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to create allocation: %w", err)
	}

	// Unit fills up when the last bed is taken
	if active+1 >= int64(unit.Capacity) && unit.Status == models.UnitAvailable {
		unit.Status = models.UnitOccupied
		if err := s.repo.UpdateUnit(tc, unit, tenancy.ValidateOptions{StrictMode: true}); err != nil {
			return nil, fmt.Errorf("failed to update unit status: %w", err)
		}
	}

	return s.toAllocationResponse(allocation), nil
}

// GetAllocations lists allocations, optionally for one unit
func (s *HousingService) GetAllocations(ctx context.Context, tc *tenancy.Context, unitID *uuid.UUID, page, pageSize int) (*AllocationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	allocations, total, err := s.repo.GetAllocations(tc, tenancy.ScopeOptions{}, unitID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}

	responses := make([]AllocationResponse, len(allocations))
	for i, a := range allocations {
		responses[i] = *s.toAllocationResponse(&a)
	}

	return &AllocationListResponse{
		Allocations: responses,
		Total:       total,
		Page:        page,
		PageSize:    pageSize,
	}, nil
}

// EndAllocation closes an active allocation and frees the unit if it was full
func (s *HousingService) EndAllocation(ctx context.Context, tc *tenancy.Context, id uuid.UUID) (*AllocationResponse, error) {
	allocation, err := s.repo.GetAllocationByID(tc, tenancy.ScopeOptions{}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAllocationNotFound
		}
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}

	if allocation.Status == models.AllocationEnded {
		return nil, apperrors.ErrAllocationClosed
	}

	now := time.Now()
	if err := s.repo.EndAllocation(tc, id, now); err != nil {
		return nil, fmt.Errorf("failed to end allocation: %w", err)
	}

	unit, err := s.repo.GetUnitByID(tc, tenancy.ScopeOptions{}, allocation.UnitID)
	if err == nil && unit.Status == models.UnitOccupied {
		unit.Status = models.UnitAvailable
		if err := s.repo.UpdateUnit(tc, unit, tenancy.ValidateOptions{StrictMode: true}); err != nil {
			return nil, fmt.Errorf("failed to update unit status: %w", err)
		}
	}

	allocation.Status = models.AllocationEnded
	allocation.EndDate = &now
	return s.toAllocationResponse(allocation), nil
}

// toUnitResponse converts a housing unit model to response
func (s *HousingService) toUnitResponse(unit *models.HousingUnit) *HousingUnitResponse {
	return &HousingUnitResponse{
		ID:        unit.ID,
		TenantID:  unit.TenantID,
		Building:  unit.Building,
		Number:    unit.Number,
		Capacity:  unit.Capacity,
		Status:    string(unit.Status),
		CreatedAt: unit.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: unit.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toAllocationResponse converts an allocation model to response
func (s *HousingService) toAllocationResponse(a *models.HousingAllocation) *AllocationResponse {
	return &AllocationResponse{
		ID:            a.ID,
		UnitID:        a.UnitID,
		StudentName:   a.StudentName,
		StudentNumber: a.StudentNumber,
		StartDate:     a.StartDate,
		EndDate:       a.EndDate,
		Status:        string(a.Status),
	}
}
