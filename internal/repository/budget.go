package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// BudgetRepository handles tenant-scoped database operations for budgets
type BudgetRepository struct {
	budgets *ScopedRepository[models.Budget, *models.Budget]
	lines   *ScopedRepository[models.BudgetLine, *models.BudgetLine]
	db      *gorm.DB
}

// NewBudgetRepository creates a new budget repository
func NewBudgetRepository(db *gorm.DB) *BudgetRepository {
	return &BudgetRepository{
		budgets: NewScopedRepository[models.Budget, *models.Budget](db),
		lines:   NewScopedRepository[models.BudgetLine, *models.BudgetLine](db),
		db:      db,
	}
}

// Create creates a new budget through the isolation gate
func (r *BudgetRepository) Create(tc *tenancy.Context, budget *models.Budget, opts tenancy.ValidateOptions) error {
	return r.budgets.Create(tc, budget, opts)
}

// GetByID retrieves a budget within the caller's scope
func (r *BudgetRepository) GetByID(tc *tenancy.Context, opts tenancy.ScopeOptions, id uuid.UUID) (*models.Budget, error) {
	return r.budgets.GetByID(tc, opts, id)
}

// GetByFiscalYear retrieves the budgets of a fiscal year within scope
func (r *BudgetRepository) GetByFiscalYear(tc *tenancy.Context, opts tenancy.ScopeOptions, fiscalYear, limit, offset int) ([]models.Budget, int64, error) {
	var budgets []models.Budget
	var total int64

	query := r.budgets.Query(tc, opts).Where("fiscal_year = ?", fiscalYear)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&budgets).Error
	if err != nil {
		return nil, 0, err
	}
	return budgets, total, nil
}

// GetAll retrieves budgets within scope with pagination
func (r *BudgetRepository) GetAll(tc *tenancy.Context, opts tenancy.ScopeOptions, limit, offset int) ([]models.Budget, int64, error) {
	total, err := r.budgets.Count(tc, opts)
	if err != nil {
		return nil, 0, err
	}
	budgets, err := r.budgets.Find(tc, opts, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return budgets, total, nil
}

// Update saves budget changes through the isolation gate
func (r *BudgetRepository) Update(tc *tenancy.Context, budget *models.Budget, opts tenancy.ValidateOptions) error {
	return r.budgets.Save(tc, budget, opts)
}

// Delete deletes a budget within the caller's scope
func (r *BudgetRepository) Delete(tc *tenancy.Context, id uuid.UUID) error {
	return r.budgets.Delete(tc, id)
}

// GetWithLines retrieves a budget with its lines preloaded
func (r *BudgetRepository) GetWithLines(tc *tenancy.Context, opts tenancy.ScopeOptions, id uuid.UUID) (*models.Budget, error) {
	var budget models.Budget
	err := r.db.Scopes(tenancy.ScopeWith(tc, opts)).Preload("Lines").First(&budget, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// CreateLine creates a budget line through the isolation gate
func (r *BudgetRepository) CreateLine(tc *tenancy.Context, line *models.BudgetLine, opts tenancy.ValidateOptions) error {
	return r.lines.Create(tc, line, opts)
}

// GetLines retrieves the lines of a budget within scope
func (r *BudgetRepository) GetLines(tc *tenancy.Context, opts tenancy.ScopeOptions, budgetID uuid.UUID) ([]models.BudgetLine, error) {
	var lines []models.BudgetLine
	err := r.lines.Query(tc, opts).Where("budget_id = ?", budgetID).Order("category, label").Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// DeleteLine deletes a budget line within the caller's scope
func (r *BudgetRepository) DeleteLine(tc *tenancy.Context, id uuid.UUID) error {
	return r.lines.Delete(tc, id)
}
