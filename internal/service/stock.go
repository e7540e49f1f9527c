package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// StockService handles business logic for stock items and movements.
// Quantities only change through movements so the ledger always explains the
// on-hand count.
type StockService struct {
	repo      *repository.StockRepository
	access    *tenancy.AccessValidator
	validator *validator.Validate
}

// NewStockService creates a new stock service
func NewStockService(repo *repository.StockRepository, access *tenancy.AccessValidator, validator *validator.Validate) *StockService {
	return &StockService{
		repo:      repo,
		access:    access,
		validator: validator,
	}
}

// CreateStockItemRequest represents the request to create a stock item
type CreateStockItemRequest struct {
	Code         string `json:"code" validate:"required,max=40"`
	Name         string `json:"name" validate:"required,max=200"`
	Unit         string `json:"unit" validate:"required,max=20"`
	ReorderLevel int64  `json:"reorder_level" validate:"min=0"`
}

// RecordMovementRequest represents the request to record a stock movement
type RecordMovementRequest struct {
	Direction string `json:"direction" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,min=1"`
	Reference string `json:"reference" validate:"max=100"`
}

// StockItemResponse represents a stock item in API responses
type StockItemResponse struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	Quantity     int64     `json:"quantity"`
	ReorderLevel int64     `json:"reorder_level"`
	BelowReorder bool      `json:"below_reorder"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

// StockItemListResponse represents a paginated list of stock items
type StockItemListResponse struct {
	Items    []StockItemResponse `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

// StockMovementResponse represents a movement in API responses
type StockMovementResponse struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	Direction  string    `json:"direction"`
	Quantity   int64     `json:"quantity"`
	Reference  string    `json:"reference,omitempty"`
	RecordedBy uuid.UUID `json:"recorded_by"`
	CreatedAt  string    `json:"created_at"`
}

// StockMovementListResponse represents a paginated movement ledger
type StockMovementListResponse struct {
	Movements []StockMovementResponse `json:"movements"`
	Total     int64                   `json:"total"`
	Page      int                     `json:"page"`
	PageSize  int                     `json:"page_size"`
}

// CreateItem creates a stock item in the caller's tenant
func (s *StockService) CreateItem(ctx context.Context, tc *tenancy.Context, req *CreateStockItemRequest) (*StockItemResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.repo.GetItemByCode(tc, req.Code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing item: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrStockItemExists
	}

	item := &models.StockItem{
		Code:         req.Code,
		Name:         req.Name,
		Unit:         req.Unit,
		Quantity:     0,
		ReorderLevel: req.ReorderLevel,
	}

	if err := s.repo.CreateItem(tc, item, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to create stock item: %w", err)
	}

	return s.toItemResponse(item), nil
}

// GetItemByID retrieves one stock item
func (s *StockService) GetItemByID(ctx context.Context, tc *tenancy.Context, id uuid.UUID, extended bool) (*StockItemResponse, error) {
	item, err := s.repo.GetItemByID(tc, tenancy.ScopeOptions{BypassForExtendedAccess: extended}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}

	s.access.LogResourceAccess(ctx, tc, item.TenantID, "stock_item", tenancy.AccessOptions{})
	return s.toItemResponse(item), nil
}

// GetItems lists stock items with pagination
func (s *StockService) GetItems(ctx context.Context, tc *tenancy.Context, extended bool, page, pageSize int) (*StockItemListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	items, total, err := s.repo.GetItems(tc, tenancy.ScopeOptions{BypassForExtendedAccess: extended}, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list stock items: %w", err)
	}

	if extended && tc.HierarchyLevel == tenancy.LevelMinistry {
		s.access.LogResourceAccess(ctx, tc, uuid.Nil, "stock_items", tenancy.AccessOptions{})
	}

	responses := make([]StockItemResponse, len(items))
	for i, item := range items {
		responses[i] = *s.toItemResponse(&item)
	}

	return &StockItemListResponse{
		Items:    responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// DeleteItem removes a stock item and its ledger
func (s *StockService) DeleteItem(ctx context.Context, tc *tenancy.Context, id uuid.UUID) error {
	_, err := s.repo.GetItemByID(tc, tenancy.ScopeOptions{}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrStockItemNotFound
		}
		return fmt.Errorf("failed to get stock item: %w", err)
	}

	if err := s.repo.DeleteItem(tc, id); err != nil {
		return fmt.Errorf("failed to delete stock item: %w", err)
	}
	return nil
}

// RecordMovement appends a ledger entry and adjusts the on-hand quantity.
// Outbound movements must not take the quantity below zero.
func (s *StockService) RecordMovement(ctx context.Context, tc *tenancy.Context, itemID uuid.UUID, req *RecordMovementRequest) (*StockMovementResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	direction := models.MovementDirection(req.Direction)
	if !direction.IsValid() {
		return nil, apperrors.NewValidationError("direction", "direction must be in or out")
	}

	item, err := s.repo.GetItemByID(tc, tenancy.ScopeOptions{}, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}

	delta := req.Quantity
	if direction == models.MovementOut {
		if item.Quantity < req.Quantity {
			return nil, apperrors.ErrInsufficientStock
		}
		delta = -req.Quantity
	}

	movement := &models.StockMovement{
		ItemID:     item.ID,
		Direction:  direction,
		Quantity:   req.Quantity,
		Reference:  req.Reference,
		RecordedBy: tc.UserID,
	}

	if err := s.repo.RecordMovement(tc, movement, delta, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to record movement: %w", err)
	}

	return s.toMovementResponse(movement), nil
}

// GetMovements lists the ledger of one item, newest first
func (s *StockService) GetMovements(ctx context.Context, tc *tenancy.Context, itemID uuid.UUID, page, pageSize int) (*StockMovementListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	_, err := s.repo.GetItemByID(tc, tenancy.ScopeOptions{}, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStockItemNotFound
		}
		return nil, fmt.Errorf("failed to get stock item: %w", err)
	}

	offset := (page - 1) * pageSize
	movements, total, err := s.repo.GetMovements(tc, tenancy.ScopeOptions{}, itemID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}

	responses := make([]StockMovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = *s.toMovementResponse(&m)
	}

	return &StockMovementListResponse{
		Movements: responses,
		Total:     total,
		Page:      page,
		PageSize:  pageSize,
	}, nil
}

// toItemResponse converts a stock item model to response
func (s *StockService) toItemResponse(item *models.StockItem) *StockItemResponse {
	return &StockItemResponse{
		ID:           item.ID,
		TenantID:     item.TenantID,
		Code:         item.Code,
		Name:         item.Name,
		Unit:         item.Unit,
		Quantity:     item.Quantity,
		ReorderLevel: item.ReorderLevel,
		BelowReorder: item.Quantity < item.ReorderLevel,
		CreatedAt:    item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:    item.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// toMovementResponse converts a movement model to response
func (s *StockService) toMovementResponse(m *models.StockMovement) *StockMovementResponse {
	return &StockMovementResponse{
		ID:         m.ID,
		ItemID:     m.ItemID,
		Direction:  string(m.Direction),
		Quantity:   m.Quantity,
		Reference:  m.Reference,
		RecordedBy: m.RecordedBy,
		CreatedAt:  m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
