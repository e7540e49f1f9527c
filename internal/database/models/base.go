package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common fields for all models with UUID primary keys
type BaseModel struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by" gorm:"size:40" validate:"max=40"`
	UpdatedAt time.Time `json:"updated_at"`
	UpdatedBy string    `json:"updated_by" gorm:"size:40" validate:"max=40"`
}

// BeforeCreate sets the UUID if not already set
func (base *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return nil
}

// TenantModel is embedded by every tenant-scoped entity. The TenantID column
// is the ownership reference the tenancy scope filters on; the accessors
// satisfy tenancy.Scoped and tenancy.ScopedPtr so the isolation utilities
// work on these records at compile time instead of probing fields at
// runtime.
type TenantModel struct {
	BaseModel
	TenantID uuid.UUID `json:"tenant_id" gorm:"type:uuid;index;not null"`
}

// GetTenantID returns the owning tenant's id
func (m TenantModel) GetTenantID() uuid.UUID {
	return m.TenantID
}

// SetTenantID sets the owning tenant's id
func (m *TenantModel) SetTenantID(id uuid.UUID) {
	m.TenantID = id
}
