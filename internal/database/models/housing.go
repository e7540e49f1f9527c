package models

import (
	"time"

	"github.com/google/uuid"
)

// HousingUnit is a student lodging unit (a room) managed by a CROU center.
type HousingUnit struct {
	TenantModel
	Building string            `json:"building" gorm:"not null;size:100" validate:"required,max=100"`
	Number   string            `json:"number" gorm:"not null;size:20" validate:"required,max=20"`
	Capacity int               `json:"capacity" gorm:"not null;default:1" validate:"min=1,max=12"`
	Status   HousingUnitStatus `json:"status" gorm:"type:varchar(20);not null;default:'available'"`

	// Relationships
	Allocations []HousingAllocation `json:"allocations,omitempty" gorm:"foreignKey:UnitID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for HousingUnit
func (HousingUnit) TableName() string {
	return "housing_units"
}

// HousingAllocation assigns a student to a housing unit for a period.
type HousingAllocation struct {
	TenantModel
	UnitID        uuid.UUID        `json:"unit_id" gorm:"type:uuid;index;not null"`
	StudentName   string           `json:"student_name" gorm:"not null;size:150" validate:"required,max=150"`
	StudentNumber string           `json:"student_number" gorm:"not null;size:40;index" validate:"required,max=40"`
	StartDate     time.Time        `json:"start_date" gorm:"not null"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	Status        AllocationStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for HousingAllocation
func (HousingAllocation) TableName() string {
	return "housing_allocations"
}
