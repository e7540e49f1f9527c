package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
)

// StockHandler handles HTTP requests for stock items and the movement ledger
type StockHandler struct {
	service *service.StockService
}

// NewStockHandler creates a new stock handler
func NewStockHandler(service *service.StockService) *StockHandler {
	return &StockHandler{service: service}
}

// CreateStockItem handles POST /api/v1/stock/items
// @Summary Create a stock item
// @Description Create a stock item in the caller's tenant with an initial quantity of zero
// @Tags stock
// @Accept json
// @Produce json
// @Param item body service.CreateStockItemRequest true "Item data"
// @Success 201 {object} service.StockItemResponse "Successfully created item"
// @Failure 400 {object} map[string]interface{} "Invalid request body"
// @Failure 409 {object} map[string]interface{} "Item code already exists"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /stock/items [post]
func (h *StockHandler) CreateStockItem(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	var req service.CreateStockItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	item, err := h.service.CreateItem(c.Request.Context(), tc, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrStockItemExists):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock item", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, item)
}

// GetStockItem handles GET /api/v1/stock/items/:id
// @Summary Get stock item by ID
// @Description Get a stock item with its current on-hand quantity
// @Tags stock
// @Accept json
// @Produce json
// @Param id path string true "Item ID (UUID)"
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.StockItemResponse "Successfully retrieved item"
// @Failure 400 {object} map[string]interface{} "Invalid item ID"
// @Failure 404 {object} map[string]interface{} "Item not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /stock/items/{id} [get]
func (h *StockHandler) GetStockItem(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID: invalid UUID format"})
		return
	}

	item, err := h.service.GetItemByID(c.Request.Context(), tc, id, extendedScope(c))
	if err != nil {
		if errors.Is(err, apperrors.ErrStockItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get stock item", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, item)
}

// ListStockItems handles GET /api/v1/stock/items
// @Summary List stock items
// @Description List the caller's stock items with pagination
// @Tags stock
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param all query bool false "Cross-tenant view (ministry only)"
// @Success 200 {object} service.StockItemListResponse "Successfully retrieved items"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /stock/items [get]
func (h *StockHandler) ListStockItems(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	page, pageSize := pagination(c)
	items, err := h.service.GetItems(c.Request.Context(), tc, extendedScope(c), page, pageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list stock items", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, items)
}

// DeleteStockItem handles DELETE /api/v1/stock/items/:id
// @Summary Delete a stock item
// @Description Delete a stock item and its movement ledger
// @Tags stock
// @Accept json
// @Produce json
// @Param id path string true "Item ID (UUID)"
// @Success 204 "Successfully deleted item"
// @Failure 400 {object} map[string]interface{} "Invalid item ID"
// @Failure 404 {object} map[string]interface{} "Item not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /stock/items/{id} [delete]
func (h *StockHandler) DeleteStockItem(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID: invalid UUID format"})
		return
	}

	if err := h.service.DeleteItem(c.Request.Context(), tc, id); err != nil {
		if errors.Is(err, apperrors.ErrStockItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stock item", "details": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// RecordMovement handles POST /api/v1/stock/items/:id/movements
// @Summary Record a stock movement
// @Description Append a ledger entry and adjust the item's on-hand quantity
// @Tags stock
// @Accept json
// @Produce json
// @Param id path string true "Item ID (UUID)"
// @Param movement body service.RecordMovementRequest true "Movement data"
// @Success 201 {object} service.StockMovementResponse "Successfully recorded movement"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 404 {object} map[string]interface{} "Item not found"
// @Failure 409 {object} map[string]interface{} "Insufficient stock"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /stock/items/{id}/movements [post]
func (h *StockHandler) RecordMovement(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID: invalid UUID format"})
		return
	}

	var req service.RecordMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	movement, err := h.service.RecordMovement(c.Request.Context(), tc, id, &req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrStockItemNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record movement", "details": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, movement)
}

// ListMovements handles GET /api/v1/stock/items/:id/movements
// @Summary List stock movements
// @Description List the movement ledger of one item, newest first
// @Tags stock
// @Accept json
// @Produce json
// @Param id path string true "Item ID (UUID)"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} service.StockMovementListResponse "Successfully retrieved movements"
// @Failure 400 {object} map[string]interface{} "Invalid item ID"
// @Failure 404 {object} map[string]interface{} "Item not found"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Security BearerAuth
// @Router /stock/items/{id}/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	tc, ok := tenantContext(c)
	if !ok {
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID: invalid UUID format"})
		return
	}

	page, pageSize := pagination(c)
	movements, err := h.service.GetMovements(c.Request.Context(), tc, id, page, pageSize)
	if err != nil {
		if errors.Is(err, apperrors.ErrStockItemNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list movements", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, movements)
}
