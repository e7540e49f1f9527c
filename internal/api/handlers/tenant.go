package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
)

// TenantHandler handles HTTP requests for the tenant directory
type TenantHandler struct {
	service *service.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(service *service.TenantService) *TenantHandler {
	return &TenantHandler{service: service}
}

// CreateTenant handles POST /api/v1/tenants
// @Summary Create a new tenant
// @Description Create a new tenant under the caller's management scope
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body service.CreateTenantRequest true "Tenant data"
// @Success 201 {object} service.TenantResponse "Successfully created tenant"
// @Failure 400 {object} map[string]interface{} "Invalid request body or hierarchy"
// @Failure 403 {object} map[string]interface{} "Management scope denied"
// @Failure 409 {object} map[string]interface{} "Tenant code already exists"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /tenants [post]
func (h *TenantHandler) CreateTenant(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	var req service.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tenant, err := h.service.Create(c.Request.Context(), tc, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTenantExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrTenantManagementDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidHierarchyLevel),
			errors.Is(err, apperrors.ErrParentRequired),
			errors.Is(err, apperrors.ErrParentLevelMismatch),
			errors.Is(err, apperrors.ErrTenantNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create tenant", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, tenant)
}

// GetTenant handles GET /api/v1/tenants/:id
// @Summary Get tenant by ID
// @Description Get a tenant inside the caller's visible subtree
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID (UUID)"
// @Success 200 {object} service.TenantResponse "Successfully retrieved tenant"
// @Failure 400 {object} map[string]interface{} "Invalid tenant ID"
// @Failure 404 {object} map[string]interface{} "Tenant not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /tenants/{id} [get]
func (h *TenantHandler) GetTenant(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID: invalid UUID format"})
		return
	}

	tenant, err := h.service.GetByID(c.Request.Context(), tc, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get tenant", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// ListTenants handles GET /api/v1/tenants
// @Summary List visible tenants
// @Description List the tenants inside the caller's visible subtree
// @Tags tenants
// @Accept json
// @Produce json
// @Success 200 {object} service.TenantListResponse "Successfully retrieved tenants"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /tenants [get]
func (h *TenantHandler) ListTenants(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	tenants, err := h.service.GetAll(c.Request.Context(), tc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tenants", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, tenants)
}

// GetTenantChildren handles GET /api/v1/tenants/:id/children
// @Summary List direct children of a tenant
// @Description List the direct children of a tenant inside the caller's view
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID (UUID)"
// @Success 200 {object} service.TenantListResponse "Successfully retrieved children"
// @Failure 400 {object} map[string]interface{} "Invalid tenant ID"
// @Failure 404 {object} map[string]interface{} "Tenant not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /tenants/{id}/children [get]
func (h *TenantHandler) GetTenantChildren(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID: invalid UUID format"})
		return
	}

	children, err := h.service.GetChildren(c.Request.Context(), tc, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrTenantNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list children", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, children)
}

// UpdateTenant handles PUT /api/v1/tenants/:id
// @Summary Update a tenant
// @Description Rename a tenant inside the caller's management scope
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID (UUID)"
// @Param tenant body service.UpdateTenantRequest true "Tenant data"
// @Success 200 {object} service.TenantResponse "Successfully updated tenant"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 403 {object} map[string]interface{} "Management scope denied"
// @Failure 404 {object} map[string]interface{} "Tenant not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /tenants/{id} [put]
func (h *TenantHandler) UpdateTenant(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID: invalid UUID format"})
		return
	}

	var req service.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tenant, err := h.service.Update(c.Request.Context(), tc, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTenantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrTenantManagementDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tenant", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// SetTenantActive handles PATCH /api/v1/tenants/:id/active
// @Summary Activate or deactivate a tenant
// @Description Toggle a tenant's active state inside the caller's management scope
// @Tags tenants
// @Accept json
// @Produce json
// @Param id path string true "Tenant ID (UUID)"
// @Param state body handlers.SetActiveRequest true "Active state"
// @Success 200 {object} service.TenantResponse "Successfully updated tenant state"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 403 {object} map[string]interface{} "Management scope denied"
// @Failure 404 {object} map[string]interface{} "Tenant not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /tenants/{id}/active [patch]
func (h *TenantHandler) SetTenantActive(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tenant ID: invalid UUID format"})
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	tenant, err := h.service.SetActive(c.Request.Context(), tc, id, *req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTenantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrTenantManagementDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update tenant state", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// SetActiveRequest carries the desired active state
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
