package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// TransportRepository handles tenant-scoped database operations for vehicles
// and trips
type TransportRepository struct {
	vehicles *ScopedRepository[models.Vehicle, *models.Vehicle]
	trips    *ScopedRepository[models.TransportTrip, *models.TransportTrip]
	db       *gorm.DB
}

// NewTransportRepository creates a new transport repository
func NewTransportRepository(db *gorm.DB) *TransportRepository {
	return &TransportRepository{
		vehicles: NewScopedRepository[models.Vehicle, *models.Vehicle](db),
		trips:    NewScopedRepository[models.TransportTrip, *models.TransportTrip](db),
		db:       db,
	}
}

// CreateVehicle creates a vehicle through the isolation gate
func (r *TransportRepository) CreateVehicle(tc *tenancy.Context, vehicle *models.Vehicle, opts tenancy.ValidateOptions) error {
	return r.vehicles.Create(tc, vehicle, opts)
}

// GetVehicleByID retrieves a vehicle within the caller's scope
func (r *TransportRepository) GetVehicleByID(tc *tenancy.Context, opts tenancy.ScopeOptions, id uuid.UUID) (*models.Vehicle, error) {
	return r.vehicles.GetByID(tc, opts, id)
}

// GetVehicleByPlate retrieves a vehicle by plate number within the tenant
func (r *TransportRepository) GetVehicleByPlate(tc *tenancy.Context, plate string) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	err := r.db.Scopes(tenancy.Scope(tc)).First(&vehicle, "plate_number = ?", plate).Error
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

// GetVehicles retrieves vehicles within scope with pagination
func (r *TransportRepository) GetVehicles(tc *tenancy.Context, opts tenancy.ScopeOptions, limit, offset int) ([]models.Vehicle, int64, error) {
	var vehicles []models.Vehicle
	var total int64

	if err := r.vehicles.Query(tc, opts).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.vehicles.Query(tc, opts).Order("plate_number").Limit(limit).Offset(offset).Find(&vehicles).Error
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// UpdateVehicle saves vehicle changes through the isolation gate
func (r *TransportRepository) UpdateVehicle(tc *tenancy.Context, vehicle *models.Vehicle, opts tenancy.ValidateOptions) error {
	return r.vehicles.Save(tc, vehicle, opts)
}

// DeleteVehicle deletes a vehicle within the caller's scope
func (r *TransportRepository) DeleteVehicle(tc *tenancy.Context, id uuid.UUID) error {
	return r.vehicles.Delete(tc, id)
}

// CreateTrip creates a trip through the isolation gate
func (r *TransportRepository) CreateTrip(tc *tenancy.Context, trip *models.TransportTrip, opts tenancy.ValidateOptions) error {
	return r.trips.Create(tc, trip, opts)
}

// GetTrips retrieves trips within scope departing after the given time
func (r *TransportRepository) GetTrips(tc *tenancy.Context, opts tenancy.ScopeOptions, after time.Time, limit, offset int) ([]models.TransportTrip, int64, error) {
	var trips []models.TransportTrip
	var total int64

	query := r.trips.Query(tc, opts).Where("departure_at >= ?", after)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("departure_at").Limit(limit).Offset(offset).Find(&trips).Error
	if err != nil {
		return nil, 0, err
	}
	return trips, total, nil
}

// DeleteTrip deletes a trip within the caller's scope
func (r *TransportRepository) DeleteTrip(tc *tenancy.Context, id uuid.UUID) error {
	return r.trips.Delete(tc, id)
}
