package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// TenantRepository handles database operations for the tenant directory.
// The directory is not itself tenant-scoped: visibility rules are enforced
// by the tenant service through the hierarchy checks.
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create creates a new tenant
func (r *TenantRepository) Create(tenant *models.Tenant) error {
	return r.db.Create(tenant).Error
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(id uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.First(&tenant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetByCode retrieves a tenant by its short code
func (r *TenantRepository) GetByCode(code string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.First(&tenant, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// GetAll retrieves all tenants with pagination
func (r *TenantRepository) GetAll(limit, offset int) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	if err := r.db.Model(&models.Tenant{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Order("hierarchy_level, code").Limit(limit).Offset(offset).Find(&tenants).Error
	if err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// GetChildren retrieves the direct children of a tenant
func (r *TenantRepository) GetChildren(parentID uuid.UUID) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Where("parent_id = ?", parentID).Order("code").Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// GetByLevel retrieves tenants at a hierarchy level
func (r *TenantRepository) GetByLevel(level tenancy.HierarchyLevel) ([]models.Tenant, error) {
	var tenants []models.Tenant
	err := r.db.Where("hierarchy_level = ?", level).Order("code").Find(&tenants).Error
	if err != nil {
		return nil, err
	}
	return tenants, nil
}

// Update updates a tenant
func (r *TenantRepository) Update(tenant *models.Tenant) error {
	return r.db.Save(tenant).Error
}

// SetActive toggles a tenant's active flag
func (r *TenantRepository) SetActive(id uuid.UUID, active bool) error {
	return r.db.Model(&models.Tenant{}).Where("id = ?", id).Update("is_active", active).Error
}

// Directory adapts the repositories to the tenancy.Directory interface
// consumed by the context resolver and the access validator.
type Directory struct {
	tenants *TenantRepository
	users   *UserRepository
}

// NewDirectory creates a directory over the tenant and user repositories
func NewDirectory(tenants *TenantRepository, users *UserRepository) *Directory {
	return &Directory{tenants: tenants, users: users}
}

// GetTenant implements tenancy.Directory
func (d *Directory) GetTenant(id uuid.UUID) (*tenancy.TenantRecord, error) {
	tenant, err := d.tenants.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &tenancy.TenantRecord{
		ID:             tenant.ID,
		Code:           tenant.Code,
		Name:           tenant.Name,
		HierarchyLevel: tenant.HierarchyLevel,
		ParentID:       tenant.ParentID,
		IsActive:       tenant.IsActive,
	}, nil
}

// GetUser implements tenancy.Directory
func (d *Directory) GetUser(id uuid.UUID) (*tenancy.UserRecord, error) {
	user, err := d.users.GetByID(id)
	if err != nil {
		return nil, err
	}
	return &tenancy.UserRecord{
		ID:       user.ID,
		TenantID: user.TenantID,
		Role:     user.Role,
		IsActive: user.IsActive,
	}, nil
}
