package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// UserRepository handles database operations for users. Reads used by the
// authentication path (GetByID, GetByEmail) are unscoped; everything the
// API exposes goes through the tenant scope.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByTenant retrieves the users of one tenant with pagination. The tenant
// filter comes from the caller's context, not from a request parameter.
func (r *UserRepository) GetByTenant(tc *tenancy.Context, opts tenancy.ScopeOptions, limit, offset int) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	base := r.db.Model(&models.User{}).Scopes(tenancy.ScopeWith(tc, opts))
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Scopes(tenancy.ScopeWith(tc, opts)).
		Order("full_name").Limit(limit).Offset(offset).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update updates a user
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete deletes a user within the caller's tenant scope
func (r *UserRepository) Delete(tc *tenancy.Context, id uuid.UUID) error {
	return r.db.Scopes(tenancy.Scope(tc)).Delete(&models.User{}, "id = ?", id).Error
}
