package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// ScopedRepository wraps the generic query capability so that every read is
// conjoined with the context's tenant filter and every write passes through
// the isolation utilities. Callers cannot forget the filter and cannot widen
// a query past their tenant by omission; explicit conditions are ANDed with
// the scope, never substituted for it.
type ScopedRepository[T any, PT tenancy.ScopedPtr[T]] struct {
	db *gorm.DB
}

// NewScopedRepository creates a tenant-scoped repository for one entity type
func NewScopedRepository[T any, PT tenancy.ScopedPtr[T]](db *gorm.DB) *ScopedRepository[T, PT] {
	return &ScopedRepository[T, PT]{db: db}
}

// Query returns a builder with the tenant scope already applied. Additional
// Where clauses narrow the result within the tenant.
func (r *ScopedRepository[T, PT]) Query(tc *tenancy.Context, opts tenancy.ScopeOptions) *gorm.DB {
	var model T
	return r.db.Model(&model).Scopes(tenancy.ScopeWith(tc, opts))
}

// Find retrieves scoped records with pagination
func (r *ScopedRepository[T, PT]) Find(tc *tenancy.Context, opts tenancy.ScopeOptions, limit, offset int) ([]T, error) {
	var records []T
	err := r.Query(tc, opts).Limit(limit).Offset(offset).Order("created_at DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts scoped records
func (r *ScopedRepository[T, PT]) Count(tc *tenancy.Context, opts tenancy.ScopeOptions) (int64, error) {
	var total int64
	if err := r.Query(tc, opts).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// GetByID retrieves one scoped record by id. A record owned by another
// tenant is indistinguishable from a missing one: both return
// gorm.ErrRecordNotFound.
func (r *ScopedRepository[T, PT]) GetByID(tc *tenancy.Context, opts tenancy.ScopeOptions, id uuid.UUID) (*T, error) {
	var record T
	err := r.db.Scopes(tenancy.ScopeWith(tc, opts)).First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Create persists a record after routing it through the isolation gate:
// validate the tenant ownership, then inject or force-correct the tenant id.
func (r *ScopedRepository[T, PT]) Create(tc *tenancy.Context, record PT, opts tenancy.ValidateOptions) error {
	if err := r.gate(tc, record, opts); err != nil {
		return err
	}
	return r.db.Create(record).Error
}

// Save persists changes to a record through the same isolation gate.
func (r *ScopedRepository[T, PT]) Save(tc *tenancy.Context, record PT, opts tenancy.ValidateOptions) error {
	if err := r.gate(tc, record, opts); err != nil {
		return err
	}
	return r.db.Save(record).Error
}

// Delete removes a scoped record by id
func (r *ScopedRepository[T, PT]) Delete(tc *tenancy.Context, id uuid.UUID) error {
	var model T
	return r.db.Scopes(tenancy.Scope(tc)).Delete(&model, "id = ?", id).Error
}

func (r *ScopedRepository[T, PT]) gate(tc *tenancy.Context, record PT, opts tenancy.ValidateOptions) error {
	result := tenancy.ValidateTenantData[PT](record, tc, opts)
	if !result.IsValid {
		return apperrors.NewAuthorizationError(result.Reason)
	}
	if result.ForceTenantID || record.GetTenantID() == uuid.Nil {
		record.SetTenantID(tc.TenantID)
	}
	return nil
}
