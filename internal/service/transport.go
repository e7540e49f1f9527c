package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// TransportService handles business logic for the vehicle fleet and trips
type TransportService struct {
	repo      *repository.TransportRepository
	access    *tenancy.AccessValidator
	validator *validator.Validate
}

// NewTransportService creates a new transport service
func NewTransportService(repo *repository.TransportRepository, access *tenancy.AccessValidator, validator *validator.Validate) *TransportService {
	return &TransportService{
		repo:      repo,
		access:    access,
		validator: validator,
	}
}

// CreateVehicleRequest represents the request to create a vehicle
type CreateVehicleRequest struct {
	PlateNumber string `json:"plate_number" validate:"required,max=20"`
	Model       string `json:"model" validate:"required,max=100"`
	Capacity    int    `json:"capacity" validate:"required,min=1,max=120"`
}

// UpdateVehicleRequest represents the request to update a vehicle
type UpdateVehicleRequest struct {
	Model    string `json:"model" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1,max=120"`
	Status   string `json:"status" validate:"required"`
}

// CreateTripRequest represents the request to schedule a trip
type CreateTripRequest struct {
	Route       string    `json:"route" validate:"required,max=200"`
	DepartureAt time.Time `json:"departure_at" validate:"required"`
	SeatsBooked int       `json:"seats_booked" validate:"min=0"`
}

// VehicleResponse represents a vehicle in API responses
type VehicleResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	PlateNumber string    `json:"plate_number"`
	Model       string    `json:"model"`
	Capacity    int       `json:"capacity"`
	Status      string    `json:"status"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// VehicleListResponse represents a paginated list of vehicles
type VehicleListResponse struct {
	Vehicles []VehicleResponse `json:"vehicles"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// TripResponse represents a trip in API responses
type TripResponse struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	Route       string    `json:"route"`
	DepartureAt time.Time `json:"departure_at"`
	SeatsBooked int       `json:"seats_booked"`
}

// TripListResponse represents a paginated list of trips
type TripListResponse struct {
	Trips    []TripResponse `json:"trips"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// CreateVehicle registers a vehicle in the caller's fleet
func (s *TransportService) CreateVehicle(ctx context.Context, tc *tenancy.Context, req *CreateVehicleRequest) (*VehicleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.repo.GetVehicleByPlate(tc, req.PlateNumber)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing vehicle: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrVehicleExists
	}

	vehicle := &models.Vehicle{
		PlateNumber: req.PlateNumber,
		Model:       req.Model,
		Capacity:    req.Capacity,
		Status:      models.VehicleInService,
	}

	if err := s.repo.CreateVehicle(tc, vehicle, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to create vehicle: %w", err)
	}

	return s.toVehicleResponse(vehicle), nil
}

// GetVehicleByID retrieves one vehicle
func (s *TransportService) GetVehicleByID(ctx context.Context, tc *tenancy.Context, id uuid.UUID, extended bool) (*VehicleResponse, error) {
	vehicle, err := s.repo.GetVehicleByID(tc, tenancy.ScopeOptions{BypassForExtendedAccess: extended}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	s.access.LogResourceAccess(ctx, tc, vehicle.TenantID, "vehicle", tenancy.AccessOptions{})
	return s.toVehicleResponse(vehicle), nil
}

// GetVehicles lists the fleet with pagination
func (s *TransportService) GetVehicles(ctx context.Context, tc *tenancy.Context, extended bool, page, pageSize int) (*VehicleListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	vehicles, total, err := s.repo.GetVehicles(tc, tenancy.ScopeOptions{BypassForExtendedAccess: extended}, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	if extended && tc.HierarchyLevel == tenancy.LevelMinistry {
		s.access.LogResourceAccess(ctx, tc, uuid.Nil, "vehicles", tenancy.AccessOptions{})
	}

	responses := make([]VehicleResponse, len(vehicles))
	for i, v := range vehicles {
		responses[i] = *s.toVehicleResponse(&v)
	}

	return &VehicleListResponse{
		Vehicles: responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// UpdateVehicle updates a vehicle's model, capacity and status
func (s *TransportService) UpdateVehicle(ctx context.Context, tc *tenancy.Context, id uuid.UUID, req *UpdateVehicleRequest) (*VehicleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	status := models.VehicleStatus(req.Status)
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	vehicle, err := s.repo.GetVehicleByID(tc, tenancy.ScopeOptions{}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	vehicle.Model = req.Model
	vehicle.Capacity = req.Capacity
	vehicle.Status = status

	if err := s.repo.UpdateVehicle(tc, vehicle, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to update vehicle: %w", err)
	}

	return s.toVehicleResponse(vehicle), nil
}

// DeleteVehicle removes a vehicle and its trips
func (s *TransportService) DeleteVehicle(ctx context.Context, tc *tenancy.Context, id uuid.UUID) error {
	_, err := s.repo.GetVehicleByID(tc, tenancy.ScopeOptions{}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrVehicleNotFound
		}
		return fmt.Errorf("failed to get vehicle: %w", err)
	}

	if err := s.repo.DeleteVehicle(tc, id); err != nil {
		return fmt.Errorf("failed to delete vehicle: %w", err)
	}
	return nil
}

// CreateTrip schedules a trip on an in-service vehicle
func (s *TransportService) CreateTrip(ctx context.Context, tc *tenancy.Context, vehicleID uuid.UUID, req *CreateTripRequest) (*TripResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	vehicle, err := s.repo.GetVehicleByID(tc, tenancy.ScopeOptions{}, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}

	if vehicle.Status != models.VehicleInService {
		return nil, apperrors.ErrInvalidStatus
	}
	if req.SeatsBooked > vehicle.Capacity {
		return nil, apperrors.NewValidationError("seats_booked", "seats booked exceed vehicle capacity")
	}

	trip := &models.TransportTrip{
		VehicleID:   vehicle.ID,
		Route:       req.Route,
		DepartureAt: req.DepartureAt,
		SeatsBooked: req.SeatsBooked,
	}

	if err := s.repo.CreateTrip(tc, trip, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to create trip: %w", err)
	}

	return s.toTripResponse(trip), nil
}

// GetTrips lists upcoming trips departing after the given time
func (s *TransportService) GetTrips(ctx context.Context, tc *tenancy.Context, after time.Time, extended bool, page, pageSize int) (*TripListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	trips, total, err := s.repo.GetTrips(tc, tenancy.ScopeOptions{BypassForExtendedAccess: extended}, after, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}

	if extended && tc.HierarchyLevel == tenancy.LevelMinistry {
		s.access.LogResourceAccess(ctx, tc, uuid.Nil, "transport_trips", tenancy.AccessOptions{})
	}

	responses := make([]TripResponse, len(trips))
	for i, trip := range trips {
		responses[i] = *s.toTripResponse(&trip)
	}

	return &TripListResponse{
		Trips:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// DeleteTrip cancels a scheduled trip
func (s *TransportService) DeleteTrip(ctx context.Context, tc *tenancy.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTrip(tc, id); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}

// toVehicleResponse converts a vehicle model to response
func (s *TransportService) toVehicleResponse(v *models.Vehicle) *VehicleResponse {
	return &VehicleResponse{
		ID:          v.ID,
		TenantID:    v.TenantID,
		PlateNumber: v.PlateNumber,
		Model:       v.Model,
		Capacity:    v.Capacity,
		Status:      string(v.Status),
		CreatedAt:   v.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:   v.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toTripResponse converts a trip model to response
func (s *TransportService) toTripResponse(t *models.TransportTrip) *TripResponse {
	return &TripResponse{
		ID:          t.ID,
		VehicleID:   t.VehicleID,
		Route:       t.Route,
		DepartureAt: t.DepartureAt,
		SeatsBooked: t.SeatsBooked,
	}
}
