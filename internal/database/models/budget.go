package models

import (
	"github.com/google/uuid"
)

// Budget represents one fiscal-year budget envelope of a tenant. Amounts are
// whole CFA francs.
type Budget struct {
	TenantModel
	FiscalYear      int          `json:"fiscal_year" gorm:"not null;index" validate:"required,min=2000,max=2100"`
	Label           string       `json:"label" gorm:"not null;size:200" validate:"required,max=200"`
	AllocatedAmount int64        `json:"allocated_amount" gorm:"not null" validate:"min=0"`
	Status          BudgetStatus `json:"status" gorm:"type:varchar(20);not null;default:'draft'"`

	// Relationships
	Lines []BudgetLine `json:"lines,omitempty" gorm:"foreignKey:BudgetID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Budget
func (Budget) TableName() string {
	return "budgets"
}

// BudgetLine is a single expenditure line inside a budget.
type BudgetLine struct {
	TenantModel
	BudgetID uuid.UUID `json:"budget_id" gorm:"type:uuid;index;not null"`
	Category string    `json:"category" gorm:"not null;size:100" validate:"required,max=100"`
	Label    string    `json:"label" gorm:"not null;size:200" validate:"required,max=200"`
	Amount   int64     `json:"amount" gorm:"not null" validate:"min=0"`
}

// TableName returns the table name for BudgetLine
func (BudgetLine) TableName() string {
	return "budget_lines"
}
