package models

import (
	"github.com/google/uuid"
)

// StockItem is an inventory article held by a tenant. Quantity is the
// current on-hand count maintained through movements.
type StockItem struct {
	TenantModel
	Code         string `json:"code" gorm:"not null;size:40;index" validate:"required,max=40"`
	Name         string `json:"name" gorm:"not null;size:200" validate:"required,max=200"`
	Unit         string `json:"unit" gorm:"not null;size:20" validate:"required,max=20"`
	Quantity     int64  `json:"quantity" gorm:"not null;default:0"`
	ReorderLevel int64  `json:"reorder_level" gorm:"not null;default:0" validate:"min=0"`

	// Relationships
	Movements []StockMovement `json:"movements,omitempty" gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for StockItem
func (StockItem) TableName() string {
	return "stock_items"
}

// StockMovement is one entry of the in/out quantity ledger for a stock item.
type StockMovement struct {
	TenantModel
	ItemID     uuid.UUID         `json:"item_id" gorm:"type:uuid;index;not null"`
	Direction  MovementDirection `json:"direction" gorm:"type:varchar(10);not null"`
	Quantity   int64             `json:"quantity" gorm:"not null" validate:"required,min=1"`
	Reference  string            `json:"reference" gorm:"size:100" validate:"max=100"`
	RecordedBy uuid.UUID         `json:"recorded_by" gorm:"type:uuid;not null"`
}

// TableName returns the table name for StockMovement
func (StockMovement) TableName() string {
	return "stock_movements"
}
