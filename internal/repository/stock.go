package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// StockRepository handles tenant-scoped database operations for stock items
// and their movement ledger
type StockRepository struct {
	items     *ScopedRepository[models.StockItem, *models.StockItem]
	movements *ScopedRepository[models.StockMovement, *models.StockMovement]
	db        *gorm.DB
}

// NewStockRepository creates a new stock repository
func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{
		items:     NewScopedRepository[models.StockItem, *models.StockItem](db),
		movements: NewScopedRepository[models.StockMovement, *models.StockMovement](db),
		db:        db,
	}
}

// CreateItem creates a stock item through the isolation gate
func (r *StockRepository) CreateItem(tc *tenancy.Context, item *models.StockItem, opts tenancy.ValidateOptions) error {
	return r.items.Create(tc, item, opts)
}

// GetItemByID retrieves a stock item within the caller's scope
func (r *StockRepository) GetItemByID(tc *tenancy.Context, opts tenancy.ScopeOptions, id uuid.UUID) (*models.StockItem, error) {
	return r.items.GetByID(tc, opts, id)
}

// GetItemByCode retrieves a stock item by code within the caller's tenant
func (r *StockRepository) GetItemByCode(tc *tenancy.Context, code string) (*models.StockItem, error) {
	var item models.StockItem
	err := r.db.Scopes(tenancy.Scope(tc)).First(&item, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItems retrieves stock items within scope with pagination
func (r *StockRepository) GetItems(tc *tenancy.Context, opts tenancy.ScopeOptions, limit, offset int) ([]models.StockItem, int64, error) {
	var items []models.StockItem
	var total int64

	if err := r.items.Query(tc, opts).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.items.Query(tc, opts).Order("code").Limit(limit).Offset(offset).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateItem saves stock item changes through the isolation gate
func (r *StockRepository) UpdateItem(tc *tenancy.Context, item *models.StockItem, opts tenancy.ValidateOptions) error {
	return r.items.Save(tc, item, opts)
}

// DeleteItem deletes a stock item within the caller's scope
func (r *StockRepository) DeleteItem(tc *tenancy.Context, id uuid.UUID) error {
	return r.items.Delete(tc, id)
}

// RecordMovement appends a ledger entry and adjusts the item quantity in one
// transaction. delta is positive for inbound, negative for outbound; the
// underlying store owns the atomicity of the pair.
func (r *StockRepository) RecordMovement(tc *tenancy.Context, movement *models.StockMovement, delta int64, opts tenancy.ValidateOptions) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		scoped := NewScopedRepository[models.StockMovement, *models.StockMovement](tx)
		if err := scoped.Create(tc, movement, opts); err != nil {
			return err
		}
		return tx.Model(&models.StockItem{}).
			Scopes(tenancy.Scope(tc)).
			Where("id = ?", movement.ItemID).
			Update("quantity", gorm.Expr("quantity + ?", delta)).Error
	})
}

// GetMovements retrieves the movements of an item within scope, newest first
func (r *StockRepository) GetMovements(tc *tenancy.Context, opts tenancy.ScopeOptions, itemID uuid.UUID, limit, offset int) ([]models.StockMovement, int64, error) {
	var movements []models.StockMovement
	var total int64

	query := r.movements.Query(tc, opts).Where("item_id = ?", itemID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&movements).Error
	if err != nil {
		return nil, 0, err
	}
	return movements, total, nil
}
