package models

import (
	"github.com/google/uuid"

	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// Tenant represents an organizational unit owning a disjoint slice of data:
// the ministry, a regional office, or a local CROU center. The directory is
// read-mostly; administration is restricted to callers that pass the
// hierarchy management checks.
type Tenant struct {
	BaseModel
	Code           string                 `json:"code" gorm:"uniqueIndex;not null;size:20" validate:"required,min=2,max=20"`
	Name           string                 `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	HierarchyLevel tenancy.HierarchyLevel `json:"hierarchy_level" gorm:"type:varchar(20);not null;index"`
	ParentID       *uuid.UUID             `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	IsActive       bool                   `json:"is_active" gorm:"default:true"`

	// Relationships
	Parent   *Tenant  `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Children []Tenant `json:"children,omitempty" gorm:"foreignKey:ParentID"`
	Users    []User   `json:"users,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName returns the table name for Tenant
func (Tenant) TableName() string {
	return "tenants"
}
