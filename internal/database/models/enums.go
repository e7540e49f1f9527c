package models

// BudgetStatus defines the lifecycle states of a budget
type BudgetStatus string

const (
	BudgetStatusDraft    BudgetStatus = "draft"
	BudgetStatusApproved BudgetStatus = "approved"
	BudgetStatusClosed   BudgetStatus = "closed"
)

// IsValid checks if the BudgetStatus is valid
func (s BudgetStatus) IsValid() bool {
	switch s {
	case BudgetStatusDraft, BudgetStatusApproved, BudgetStatusClosed:
		return true
	}
	return false
}

// MovementDirection defines the direction of a stock movement
type MovementDirection string

const (
	MovementIn  MovementDirection = "in"
	MovementOut MovementDirection = "out"
)

// IsValid checks if the MovementDirection is valid
func (d MovementDirection) IsValid() bool {
	switch d {
	case MovementIn, MovementOut:
		return true
	}
	return false
}

// HousingUnitStatus defines the occupancy states of a housing unit
type HousingUnitStatus string

const (
	UnitAvailable   HousingUnitStatus = "available"
	UnitOccupied    HousingUnitStatus = "occupied"
	UnitMaintenance HousingUnitStatus = "maintenance"
)

// IsValid checks if the HousingUnitStatus is valid
func (s HousingUnitStatus) IsValid() bool {
	switch s {
	case UnitAvailable, UnitOccupied, UnitMaintenance:
		return true
	}
	return false
}

// AllocationStatus defines the lifecycle states of a housing allocation
type AllocationStatus string

const (
	AllocationActive AllocationStatus = "active"
	AllocationEnded  AllocationStatus = "ended"
)

// IsValid checks if the AllocationStatus is valid
func (s AllocationStatus) IsValid() bool {
	switch s {
	case AllocationActive, AllocationEnded:
		return true
	}
	return false
}

// VehicleStatus defines the operational states of a vehicle
type VehicleStatus string

const (
	VehicleInService    VehicleStatus = "in_service"
	VehicleOutOfService VehicleStatus = "out_of_service"
)

// IsValid checks if the VehicleStatus is valid
func (s VehicleStatus) IsValid() bool {
	switch s {
	case VehicleInService, VehicleOutOfService:
		return true
	}
	return false
}
