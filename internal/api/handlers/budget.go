package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
)

// BudgetHandler handles HTTP requests for budgets and budget lines
type BudgetHandler struct {
	service *service.BudgetService
}

// NewBudgetHandler creates a new budget handler
func NewBudgetHandler(service *service.BudgetService) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// CreateBudget handles POST /api/v1/budgets
// @Summary Create a budget
// @Description Create a fiscal-year budget for the caller's tenant, or for another tenant with extended access
// @Tags budgets
// @Accept json
// @Produce json
// @Param budget body service.CreateBudgetRequest true "Budget data"
// @Success 201 {object} service.BudgetResponse "Successfully created budget"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 403 {object} map[string]interface{} "Cross-tenant access denied"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /budgets [post]
func (h *BudgetHandler) CreateBudget(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	var req service.CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	budget, err := h.service.Create(c.Request.Context(), tc, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrTenantAccessDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create budget", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, budget)
}

// GetBudget handles GET /api/v1/budgets/:id
// @Summary Get budget by ID
// @Description Get a budget with its expenditure lines
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID (UUID)"
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.BudgetResponse "Successfully retrieved budget"
// @Failure 400 {object} map[string]interface{} "Invalid budget ID"
// @Failure 404 {object} map[string]interface{} "Budget not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /budgets/{id} [get]
func (h *BudgetHandler) GetBudget(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget ID: invalid UUID format"})
		return
	}

	budget, err := h.service.GetByID(c.Request.Context(), tc, id, extendedScope(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrBudgetNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get budget", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, budget)
}

// ListBudgets handles GET /api/v1/budgets
// @Summary List budgets
// @Description List the caller's budgets with pagination, optionally narrowed to a fiscal year
// @Tags budgets
// @Accept json
// @Produce json
// @Param fiscal_year query int false "Fiscal year filter"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.BudgetListResponse "Successfully retrieved budgets"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /budgets [get]
func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	fiscalYear, _ := strconv.Atoi(c.DefaultQuery("fiscal_year", "0"))
	page, pageSize := pagination(c)

	budgets, err := h.service.GetAll(c.Request.Context(), tc, fiscalYear, extendedScope(c), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list budgets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, budgets)
}

// UpdateBudget handles PUT /api/v1/budgets/:id
// @Summary Update a budget
// @Description Update a budget's label, envelope and status; closed budgets stay closed
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID (UUID)"
// @Param budget body service.UpdateBudgetRequest true "Budget data"
// @Success 200 {object} service.BudgetResponse "Successfully updated budget"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Budget not found"
// @Failure 409 {object} map[string]interface{} "Budget is closed"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /budgets/{id} [put]
func (h *BudgetHandler) UpdateBudget(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget ID: invalid UUID format"})
		return
	}

	var req service.UpdateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	budget, err := h.service.Update(c.Request.Context(), tc, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBudgetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrBudgetClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidStatus), apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update budget", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, budget)
}

// DeleteBudget handles DELETE /api/v1/budgets/:id
// @Summary Delete a draft budget
// @Description Delete a budget that is still in draft
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID (UUID)"
// @Success 204 "Successfully deleted budget"
// @Failure 400 {object} map[string]interface{} "Budget is not in draft"
// @Failure 404 {object} map[string]interface{} "Budget not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /budgets/{id} [delete]
func (h *BudgetHandler) DeleteBudget(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget ID: invalid UUID format"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), tc, id); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBudgetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Only draft budgets can be deleted"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget", "details": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// AddBudgetLine handles POST /api/v1/budgets/:id/lines
// @Summary Add a budget line
// @Description Append an expenditure line to an open budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID (UUID)"
// @Param line body service.CreateBudgetLineRequest true "Line data"
// @Success 201 {object} service.BudgetLineResponse "Successfully created line"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Budget not found"
// @Failure 409 {object} map[string]interface{} "Budget is closed"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /budgets/{id}/lines [post]
func (h *BudgetHandler) AddBudgetLine(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget ID: invalid UUID format"})
		return
	}

	var req service.CreateBudgetLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	line, err := h.service.AddLine(c.Request.Context(), tc, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBudgetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrBudgetClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add budget line", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, line)
}

// DeleteBudgetLine handles DELETE /api/v1/budgets/:id/lines/:lineId
// @Summary Delete a budget line
// @Description Remove an expenditure line from an open budget
// @Tags budgets
// @Accept json
// @Produce json
// @Param id path string true "Budget ID (UUID)"
// @Param lineId path string true "Line ID (UUID)"
// @Success 204 "Successfully deleted line"
// @Failure 400 {object} map[string]interface{} "Invalid ID"
// @Failure 404 {object} map[string]interface{} "Budget not found"
// @Failure 409 {object} map[string]interface{} "Budget is closed"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /budgets/{id}/lines/{lineId} [delete]
func (h *BudgetHandler) DeleteBudgetLine(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget ID: invalid UUID format"})
		return
	}

	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid line ID: invalid UUID format"})
		return
	}

	if err := h.service.DeleteLine(c.Request.Context(), tc, id, lineID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrBudgetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrBudgetClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete budget line", "details": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
