package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// HousingRepository handles tenant-scoped database operations for housing
// units and allocations
type HousingRepository struct {
	units       *ScopedRepository[models.HousingUnit, *models.HousingUnit]
	allocations *ScopedRepository[models.HousingAllocation, *models.HousingAllocation]
	db          *gorm.DB
}

// NewHousingRepository creates a new housing repository
func NewHousingRepository(db *gorm.DB) *HousingRepository {
	return &HousingRepository{
		units:       NewScopedRepository[models.HousingUnit, *models.HousingUnit](db),
		allocations: NewScopedRepository[models.HousingAllocation, *models.HousingAllocation](db),
		db:          db,
	}
}

// CreateUnit creates a housing unit through the isolation gate
func (r *HousingRepository) CreateUnit(tc *tenancy.Context, unit *models.HousingUnit, opts tenancy.ValidateOptions) error {
	return r.units.Create(tc, unit, opts)
}

// GetUnitByID retrieves a housing unit within the caller's scope
func (r *HousingRepository) GetUnitByID(tc *tenancy.Context, opts tenancy.ScopeOptions, id uuid.UUID) (*models.HousingUnit, error) {
	return r.units.GetByID(tc, opts, id)
}

// GetUnits retrieves housing units within scope, optionally by status
func (r *HousingRepository) GetUnits(tc *tenancy.Context, opts tenancy.ScopeOptions, status models.HousingUnitStatus, limit, offset int) ([]models.HousingUnit, int64, error) {
	var units []models.HousingUnit
	var total int64

	query := r.units.Query(tc, opts)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("building, number").Limit(limit).Offset(offset).Find(&units).Error
	if err != nil {
		return nil, 0, err
	}
	return units, total, nil
}

// UpdateUnit saves housing unit changes through the isolation gate
func (r *HousingRepository) UpdateUnit(tc *tenancy.Context, unit *models.HousingUnit, opts tenancy.ValidateOptions) error {
	return r.units.Save(tc, unit, opts)
}

// DeleteUnit deletes a housing unit within the caller's scope
func (r *HousingRepository) DeleteUnit(tc *tenancy.Context, id uuid.UUID) error {
	return r.units.Delete(tc, id)
}

// CreateAllocation creates an allocation through the isolation gate
func (r *HousingRepository) CreateAllocation(tc *tenancy.Context, allocation *models.HousingAllocation, opts tenancy.ValidateOptions) error {
	return r.allocations.Create(tc, allocation, opts)
}

// GetAllocationByID retrieves an allocation within the caller's scope
func (r *HousingRepository) GetAllocationByID(tc *tenancy.Context, opts tenancy.ScopeOptions, id uuid.UUID) (*models.HousingAllocation, error) {
	return r.allocations.GetByID(tc, opts, id)
}

// GetAllocations retrieves allocations within scope, optionally for one unit
func (r *HousingRepository) GetAllocations(tc *tenancy.Context, opts tenancy.ScopeOptions, unitID *uuid.UUID, limit, offset int) ([]models.HousingAllocation, int64, error) {
	var allocations []models.HousingAllocation
	var total int64

	query := r.allocations.Query(tc, opts)
	if unitID != nil {
		query = query.Where("unit_id = ?", *unitID)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("start_date DESC").Limit(limit).Offset(offset).Find(&allocations).Error
	if err != nil {
		return nil, 0, err
	}
	return allocations, total, nil
}

// CountActiveAllocations counts the active allocations of a unit
func (r *HousingRepository) CountActiveAllocations(tc *tenancy.Context, unitID uuid.UUID) (int64, error) {
	var total int64
	err := r.allocations.Query(tc, tenancy.ScopeOptions{}).
		Where("unit_id = ? AND status = ?", unitID, models.AllocationActive).
		Count(&total).Error
	return total, err
}

// EndAllocation closes an active allocation
func (r *HousingRepository) EndAllocation(tc *tenancy.Context, id uuid.UUID, endDate time.Time) error {
	return r.db.Model(&models.HousingAllocation{}).
		Scopes(tenancy.Scope(tc)).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   models.AllocationEnded,
			"end_date": endDate,
		}).Error
}
