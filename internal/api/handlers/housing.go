package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
)

// HousingHandler handles HTTP requests for housing units and allocations
type HousingHandler struct {
	service *service.HousingService
}

// NewHousingHandler creates a new housing handler
func NewHousingHandler(service *service.HousingService) *HousingHandler {
	return &HousingHandler{service: service}
}

// CreateUnit handles POST /api/v1/housing/units
// @Summary Create a housing unit
// @Description Create a housing unit in the caller's tenant, initially available
// @Tags housing
// @Accept json
// @Produce json
// @Param unit body service.CreateHousingUnitRequest true "Unit data"
// @Success 201 {object} service.HousingUnitResponse "Successfully created unit"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /housing/units [post]
func (h *HousingHandler) CreateUnit(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	var req service.CreateHousingUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	unit, err := h.service.CreateUnit(c.Request.Context(), tc, &req)
	if err != nil {
		if apperrors.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create housing unit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, unit)
}

// GetUnit handles GET /api/v1/housing/units/:id
// @Summary Get housing unit by ID
// @Description Get one housing unit
// @Tags housing
// @Accept json
// @Produce json
// @Param id path string true "Unit ID (UUID)"
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.HousingUnitResponse "Successfully retrieved unit"
// @Failure 400 {object} map[string]interface{} "Invalid unit ID"
// @Failure 404 {object} map[string]interface{} "Unit not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /housing/units/{id} [get]
func (h *HousingHandler) GetUnit(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit ID: invalid UUID format"})
		return
	}

	unit, err := h.service.GetUnitByID(c.Request.Context(), tc, id, extendedScope(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrHousingUnitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get housing unit", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, unit)
}

// ListUnits handles GET /api/v1/housing/units
// @Summary List housing units
// @Description List housing units with pagination, optionally filtered by status
// @Tags housing
// @Accept json
// @Produce json
// @Param status query string false "Status filter (available, occupied, maintenance)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.HousingUnitListResponse "Successfully retrieved units"
// @Failure 400 {object} map[string]interface{} "Invalid status filter"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /housing/units [get]
func (h *HousingHandler) ListUnits(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	units, err := h.service.GetUnits(c.Request.Context(), tc, c.Query("status"), extendedScope(c), page, pageSize)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list housing units", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, units)
}

// UpdateUnit handles PUT /api/v1/housing/units/:id
// @Summary Update a housing unit
// @Description Update a housing unit's capacity and status
// @Tags housing
// @Accept json
// @Produce json
// @Param id path string true "Unit ID (UUID)"
// @Param unit body service.UpdateHousingUnitRequest true "Unit data"
// @Success 200 {object} service.HousingUnitResponse "Successfully updated unit"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Unit not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /housing/units/{id} [put]
func (h *HousingHandler) UpdateUnit(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit ID: invalid UUID format"})
		return
	}

	var req service.UpdateHousingUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	unit, err := h.service.UpdateUnit(c.Request.Context(), tc, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrHousingUnitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidStatus), apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update housing unit", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, unit)
}

// AllocateUnit handles POST /api/v1/housing/units/:id/allocations
// @Summary Allocate a housing unit
// @Description Assign a student to an available unit with free capacity
// @Tags housing
// @Accept json
// @Produce json
// @Param id path string true "Unit ID (UUID)"
// @Param allocation body service.CreateAllocationRequest true "Allocation data"
// @Success 201 {object} service.AllocationResponse "Successfully created allocation"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Unit not found"
// @Failure 409 {object} map[string]interface{} "Unit full or under maintenance"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /housing/units/{id}/allocations [post]
func (h *HousingHandler) AllocateUnit(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit ID: invalid UUID format"})
		return
	}

	var req service.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	allocation, err := h.service.Allocate(c.Request.Context(), tc, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrHousingUnitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrUnitNotAvailable):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate unit", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, allocation)
}

// ListAllocations handles GET /api/v1/housing/allocations
// @Summary List allocations
// @Description List allocations with pagination, optionally narrowed to one unit
// @Tags housing
// @Accept json
// @Produce json
// @Param unit_id query string false "Unit ID filter (UUID)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.AllocationListResponse "Successfully retrieved allocations"
// @Failure 400 {object} map[string]interface{} "Invalid unit ID filter"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /housing/allocations [get]
func (h *HousingHandler) ListAllocations(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	var unitID *uuid.UUID
	if raw := c.Query("unit_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid unit_id: invalid UUID format"})
			return
		}
		unitID = &parsed
	}

	page, pageSize := pagination(c)
	allocations, err := h.service.GetAllocations(c.Request.Context(), tc, unitID, page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list allocations", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, allocations)
}

// EndAllocation handles POST /api/v1/housing/allocations/:id/end
// @Summary End an allocation
// @Description Close an active allocation and free the unit if it was full
// @Tags housing
// @Accept json
// @Produce json
// @Param id path string true "Allocation ID (UUID)"
// @Success 200 {object} service.AllocationResponse "Successfully ended allocation"
// @Failure 400 {object} map[string]interface{} "Invalid allocation ID"
// @Failure 404 {object} map[string]interface{} "Allocation not found"
// @Failure 409 {object} map[string]interface{} "Allocation already ended"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /housing/allocations/{id}/end [post]
func (h *HousingHandler) EndAllocation(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid allocation ID: invalid UUID format"})
		return
	}

	allocation, err := h.service.EndAllocation(c.Request.Context(), tc, id)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAllocationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrAllocationClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to end allocation", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, allocation)
}
