package models

import (
	"github.com/google/uuid"

	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// User represents an agent of a tenant. Users authenticate with email and
// password; their tenant membership and role drive every access decision.
type User struct {
	BaseModel
	TenantID     uuid.UUID    `json:"tenant_id" gorm:"type:uuid;index;not null"`
	Email        string       `json:"email" gorm:"uniqueIndex;not null;size:150" validate:"required,email,max=150"`
	FullName     string       `json:"full_name" gorm:"not null;size:150" validate:"required,max=150"`
	PasswordHash string       `json:"-" gorm:"not null;size:100"`
	Role         tenancy.Role `json:"role" gorm:"type:varchar(20);not null;default:'agent'"`
	IsActive     bool         `json:"is_active" gorm:"default:true"`

	// Relationships
	Tenant *Tenant `json:"tenant,omitempty" gorm:"foreignKey:TenantID"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}
