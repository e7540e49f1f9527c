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

// BudgetService handles business logic for budgets and budget lines
type BudgetService struct {
	repo      *repository.BudgetRepository
	access    *tenancy.AccessValidator
	validator *validator.Validate
}

// NewBudgetService creates a new budget service
func NewBudgetService(repo *repository.BudgetRepository, access *tenancy.AccessValidator, validator *validator.Validate) *BudgetService {
	return &BudgetService{
		repo:      repo,
		access:    access,
		validator: validator,
	}
}

// CreateBudgetRequest represents the request to create a budget
type CreateBudgetRequest struct {
	FiscalYear      int        `json:"fiscal_year" validate:"required,min=2000,max=2100"`
	Label           string     `json:"label" validate:"required,max=200"`
	AllocatedAmount int64      `json:"allocated_amount" validate:"min=0"`
	TenantID        *uuid.UUID `json:"tenant_id,omitempty"`
}

// UpdateBudgetRequest represents the request to update a budget
type UpdateBudgetRequest struct {
	Label           string `json:"label" validate:"required,max=200"`
	AllocatedAmount int64  `json:"allocated_amount" validate:"min=0"`
	Status          string `json:"status" validate:"required"`
}

// CreateBudgetLineRequest represents the request to add a budget line
type CreateBudgetLineRequest struct {
	Category string `json:"category" validate:"required,max=100"`
	Label    string `json:"label" validate:"required,max=200"`
	Amount   int64  `json:"amount" validate:"min=0"`
}

// BudgetLineResponse represents a budget line in API responses
type BudgetLineResponse struct {
	ID       uuid.UUID `json:"id"`
	BudgetID uuid.UUID `json:"budget_id"`
	Category string    `json:"category"`
	Label    string    `json:"label"`
	Amount   int64     `json:"amount"`
}

// BudgetResponse represents the response for budget operations
type BudgetResponse struct {
	ID              uuid.UUID            `json:"id"`
	TenantID        uuid.UUID            `json:"tenant_id"`
	FiscalYear      int                  `json:"fiscal_year"`
	Label           string               `json:"label"`
	AllocatedAmount int64                `json:"allocated_amount"`
	Status          string               `json:"status"`
	Lines           []BudgetLineResponse `json:"lines,omitempty"`
	CreatedAt       string               `json:"created_at"`
	UpdatedAt       string               `json:"updated_at"`
}

// BudgetListResponse represents a paginated list of budgets
type BudgetListResponse struct {
	Budgets  []BudgetResponse `json:"budgets"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// Create creates a budget for the caller's tenant, or for another tenant when
// the caller has extended access and names it explicitly.
func (s *BudgetService) Create(ctx context.Context, tc *tenancy.Context, req *CreateBudgetRequest) (*BudgetResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	budget := &models.Budget{
		FiscalYear:      req.FiscalYear,
		Label:           req.Label,
		AllocatedAmount: req.AllocatedAmount,
		Status:          models.BudgetStatusDraft,
	}

	opts, err := s.writeOptions(ctx, tc, req.TenantID, "budget_create")
	if err != nil {
		return nil, err
	}
	if req.TenantID != nil {
		budget.TenantID = *req.TenantID
	}

	if err := s.repo.Create(tc, budget, opts); err != nil {
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}

	return s.toResponse(budget), nil
}

// GetByID retrieves a budget with its lines
func (s *BudgetService) GetByID(ctx context.Context, tc *tenancy.Context, id uuid.UUID, extended bool) (*BudgetResponse, error) {
	budget, err := s.repo.GetWithLines(tc, tenancy.ScopeOptions{BypassForExtendedAccess: extended}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	s.access.LogResourceAccess(ctx, tc, budget.TenantID, "budget", tenancy.AccessOptions{})
	return s.toResponse(budget), nil
}

// GetAll lists budgets with pagination, optionally narrowed to a fiscal year
func (s *BudgetService) GetAll(ctx context.Context, tc *tenancy.Context, fiscalYear int, extended bool, page, pageSize int) (*BudgetListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	opts := tenancy.ScopeOptions{BypassForExtendedAccess: extended}
	offset := (page - 1) * pageSize

	var budgets []models.Budget
	var total int64
	var err error
	if fiscalYear > 0 {
		budgets, total, err = s.repo.GetByFiscalYear(tc, opts, fiscalYear, pageSize, offset)
	} else {
		budgets, total, err = s.repo.GetAll(tc, opts, pageSize, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}

	if extended && tc.HierarchyLevel == tenancy.LevelMinistry {
		s.access.LogResourceAccess(ctx, tc, uuid.Nil, "budgets", tenancy.AccessOptions{})
	}

	responses := make([]BudgetResponse, len(budgets))
	for i, b := range budgets {
		responses[i] = *s.toResponse(&b)
	}

	return &BudgetListResponse{
		Budgets:  responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Update updates a budget's label, envelope and status
func (s *BudgetService) Update(ctx context.Context, tc *tenancy.Context, id uuid.UUID, req *UpdateBudgetRequest) (*BudgetResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	status := models.BudgetStatus(req.Status)
	if !status.IsValid() {
		return nil, apperrors.ErrInvalidStatus
	}

	budget, err := s.repo.GetByID(tc, tenancy.ScopeOptions{}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	// A closed budget stays closed
	if budget.Status == models.BudgetStatusClosed && status != models.BudgetStatusClosed {
		return nil, apperrors.ErrBudgetClosed
	}

	budget.Label = req.Label
	budget.AllocatedAmount = req.AllocatedAmount
	budget.Status = status

	if err := s.repo.Update(tc, budget, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	return s.toResponse(budget), nil
}

// Delete deletes a draft budget
func (s *BudgetService) Delete(ctx context.Context, tc *tenancy.Context, id uuid.UUID) error {
	budget, err := s.repo.GetByID(tc, tenancy.ScopeOptions{}, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return fmt.Errorf("failed to get budget: %w", err)
	}

	if budget.Status != models.BudgetStatusDraft {
		return apperrors.ErrInvalidStatus
	}

	if err := s.repo.Delete(tc, id); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	return nil
}

// AddLine appends an expenditure line to an open budget
func (s *BudgetService) AddLine(ctx context.Context, tc *tenancy.Context, budgetID uuid.UUID, req *CreateBudgetLineRequest) (*BudgetLineResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	budget, err := s.repo.GetByID(tc, tenancy.ScopeOptions{}, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	if budget.Status == models.BudgetStatusClosed {
		return nil, apperrors.ErrBudgetClosed
	}

	line := &models.BudgetLine{
		BudgetID: budget.ID,
		Category: req.Category,
		Label:    req.Label,
		Amount:   req.Amount,
	}

	if err := s.repo.CreateLine(tc, line, tenancy.ValidateOptions{StrictMode: true}); err != nil {
		return nil, fmt.Errorf("failed to create budget line: %w", err)
	}

	return s.toLineResponse(line), nil
}

// DeleteLine removes a line from an open budget
func (s *BudgetService) DeleteLine(ctx context.Context, tc *tenancy.Context, budgetID, lineID uuid.UUID) error {
	budget, err := s.repo.GetByID(tc, tenancy.ScopeOptions{}, budgetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBudgetNotFound
		}
		return fmt.Errorf("failed to get budget: %w", err)
	}

	if budget.Status == models.BudgetStatusClosed {
		return apperrors.ErrBudgetClosed
	}

	if err := s.repo.DeleteLine(tc, lineID); err != nil {
		return fmt.Errorf("failed to delete budget line: %w", err)
	}
	return nil
}

// writeOptions resolves the isolation options for a write that may target
// another tenant. Cross-tenant writes need an audited access decision.
func (s *BudgetService) writeOptions(ctx context.Context, tc *tenancy.Context, target *uuid.UUID, action string) (tenancy.ValidateOptions, error) {
	opts := tenancy.ValidateOptions{StrictMode: true}
	if target == nil || *target == tc.TenantID {
		return opts, nil
	}

	decision := s.access.ValidateTenantAccess(ctx, tc, *target, tenancy.AccessOptions{Action: action})
	if !decision.Allowed {
		return opts, apperrors.ErrTenantAccessDenied
	}
	opts.AllowCrossTenant = true
	return opts, nil
}

// toResponse converts a budget model to response
func (s *BudgetService) toResponse(budget *models.Budget) *BudgetResponse {
	resp := &BudgetResponse{
		ID:              budget.ID,
		TenantID:        budget.TenantID,
		FiscalYear:      budget.FiscalYear,
		Label:           budget.Label,
		AllocatedAmount: budget.AllocatedAmount,
		Status:          string(budget.Status),
		CreatedAt:       budget.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       budget.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	for i := range budget.Lines {
		resp.Lines = append(resp.Lines, *s.toLineResponse(&budget.Lines[i]))
	}
	return resp
}

// toLineResponse converts a budget line model to response
func (s *BudgetService) toLineResponse(line *models.BudgetLine) *BudgetLineResponse {
	return &BudgetLineResponse{
		ID:       line.ID,
		BudgetID: line.BudgetID,
		Category: line.Category,
		Label:    line.Label,
		Amount:   line.Amount,
	}
}
