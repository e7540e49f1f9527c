package models

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle is a transport vehicle of a tenant's fleet.
type Vehicle struct {
	TenantModel
	PlateNumber string        `json:"plate_number" gorm:"not null;size:20;index" validate:"required,max=20"`
	Model       string        `json:"model" gorm:"not null;size:100" validate:"required,max=100"`
	Capacity    int           `json:"capacity" gorm:"not null" validate:"required,min=1,max=120"`
	Status      VehicleStatus `json:"status" gorm:"type:varchar(20);not null;default:'in_service'"`

	// Relationships
	Trips []TransportTrip `json:"trips,omitempty" gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for Vehicle
func (Vehicle) TableName() string {
	return "vehicles"
}

// TransportTrip is one scheduled run of a vehicle on a route.
type TransportTrip struct {
	TenantModel
	VehicleID   uuid.UUID `json:"vehicle_id" gorm:"type:uuid;index;not null"`
	Route       string    `json:"route" gorm:"not null;size:200" validate:"required,max=200"`
	DepartureAt time.Time `json:"departure_at" gorm:"not null"`
	SeatsBooked int       `json:"seats_booked" gorm:"not null;default:0" validate:"min=0"`
}

// TableName returns the table name for TransportTrip
func (TransportTrip) TableName() string {
	return "transport_trips"
}
