package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
)

// TransportHandler handles HTTP requests for the vehicle fleet and trips
type TransportHandler struct {
	service *service.TransportService
}

// NewTransportHandler creates a new transport handler
func NewTransportHandler(service *service.TransportService) *TransportHandler {
	return &TransportHandler{service: service}
}

// CreateVehicle handles POST /api/v1/transport/vehicles
// @Summary Register a vehicle
// @Description Register a vehicle in the caller's fleet, initially in service
// @Tags transport
// @Accept json
// @Produce json
// @Param vehicle body service.CreateVehicleRequest true "Vehicle data"
// @Success 201 {object} service.VehicleResponse "Successfully created vehicle"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 409 {object} map[string]interface{} "Plate number already registered"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /transport/vehicles [post]
func (h *TransportHandler) CreateVehicle(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	var req service.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	vehicle, err := h.service.CreateVehicle(c.Request.Context(), tc, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrVehicleExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vehicle", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, vehicle)
}

// GetVehicle handles GET /api/v1/transport/vehicles/:id
// @Summary Get vehicle by ID
// @Description Get one vehicle
// @Tags transport
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID (UUID)"
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.VehicleResponse "Successfully retrieved vehicle"
// @Failure 400 {object} map[string]interface{} "Invalid vehicle ID"
// @Failure 404 {object} map[string]interface{} "Vehicle not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /transport/vehicles/{id} [get]
func (h *TransportHandler) GetVehicle(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID: invalid UUID format"})
		return
	}

	vehicle, err := h.service.GetVehicleByID(c.Request.Context(), tc, id, extendedScope(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrVehicleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get vehicle", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// ListVehicles handles GET /api/v1/transport/vehicles
// @Summary List vehicles
// @Description List the caller's fleet with pagination
// @Tags transport
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.VehicleListResponse "Successfully retrieved vehicles"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /transport/vehicles [get]
func (h *TransportHandler) ListVehicles(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	vehicles, err := h.service.GetVehicles(c.Request.Context(), tc, extendedScope(c), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list vehicles", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

// UpdateVehicle handles PUT /api/v1/transport/vehicles/:id
// @Summary Update a vehicle
// @Description Update a vehicle's model, capacity and status
// @Tags transport
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID (UUID)"
// @Param vehicle body service.UpdateVehicleRequest true "Vehicle data"
// @Success 200 {object} service.VehicleResponse "Successfully updated vehicle"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Vehicle not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /transport/vehicles/{id} [put]
func (h *TransportHandler) UpdateVehicle(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID: invalid UUID format"})
		return
	}

	var req service.UpdateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	vehicle, err := h.service.UpdateVehicle(c.Request.Context(), tc, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrVehicleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidStatus), apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vehicle", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

// DeleteVehicle handles DELETE /api/v1/transport/vehicles/:id
// @Summary Delete a vehicle
// @Description Remove a vehicle and its trips from the fleet
// @Tags transport
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID (UUID)"
// @Success 204 "Successfully deleted vehicle"
// @Failure 400 {object} map[string]interface{} "Invalid vehicle ID"
// @Failure 404 {object} map[string]interface{} "Vehicle not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /transport/vehicles/{id} [delete]
func (h *TransportHandler) DeleteVehicle(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID: invalid UUID format"})
		return
	}

	if err := h.service.DeleteVehicle(c.Request.Context(), tc, id); err != nil {
		if errors.Is(err, apperrors.ErrVehicleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vehicle", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// CreateTrip handles POST /api/v1/transport/vehicles/:id/trips
// @Summary Schedule a trip
// @Description Schedule a trip on an in-service vehicle
// @Tags transport
// @Accept json
// @Produce json
// @Param id path string true "Vehicle ID (UUID)"
// @Param trip body service.CreateTripRequest true "Trip data"
// @Success 201 {object} service.TripResponse "Successfully created trip"
// @Failure 400 {object} map[string]interface{} "Invalid request or vehicle out of service"
// @Failure 404 {object} map[string]interface{} "Vehicle not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /transport/vehicles/{id}/trips [post]
func (h *TransportHandler) CreateTrip(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vehicle ID: invalid UUID format"})
		return
	}

	var req service.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	trip, err := h.service.CreateTrip(c.Request.Context(), tc, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrVehicleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidStatus), apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create trip", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, trip)
}

// ListTrips handles GET /api/v1/transport/trips
// @Summary List trips
// @Description List scheduled trips with pagination, ordered by departure time
// @Tags transport
// @Accept json
// @Produce json
// @Param after query string false "Only trips departing after this RFC 3339 time"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.TripListResponse "Successfully retrieved trips"
// @Failure 400 {object} map[string]interface{} "Invalid after filter"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /transport/trips [get]
func (h *TransportHandler) ListTrips(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	var after time.Time
	if raw := c.Query("after"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid after filter: expected RFC 3339 timestamp"})
			return
		}
		after = parsed
	}

	page, pageSize := pagination(c)
	trips, err := h.service.GetTrips(c.Request.Context(), tc, after, extendedScope(c), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, trips)
}

// DeleteTrip handles DELETE /api/v1/transport/trips/:id
// @Summary Cancel a trip
// @Description Cancel a scheduled trip
// @Tags transport
// @Accept json
// @Produce json
// @Param id path string true "Trip ID (UUID)"
// @Success 204 "Successfully cancelled trip"
// @Failure 400 {object} map[string]interface{} "Invalid trip ID"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /transport/trips/{id} [delete]
func (h *TransportHandler) DeleteTrip(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID: invalid UUID format"})
		return
	}

	if err := h.service.DeleteTrip(c.Request.Context(), tc, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete trip", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
