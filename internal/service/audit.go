package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// AuditService exposes the access audit trail. Reading it is a ministry-only
// operation; other levels never see entries about tenants they cannot access.
type AuditService struct {
	repo *repository.AuditLogRepository
}

// NewAuditService creates a new audit service
func NewAuditService(repo *repository.AuditLogRepository) *AuditService {
	return &AuditService{repo: repo}
}

// AuditLogResponse represents one audit entry in API responses
type AuditLogResponse struct {
	ID             uuid.UUID              `json:"id"`
	ActorUserID    uuid.UUID              `json:"actor_user_id"`
	Action         string                 `json:"action"`
	SourceTenantID uuid.UUID              `json:"source_tenant_id"`
	TargetTenantID *uuid.UUID             `json:"target_tenant_id,omitempty"`
	IPAddress      string                 `json:"ip_address,omitempty"`
	UserAgent      string                 `json:"user_agent,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

// AuditLogListResponse represents a paginated audit trail
type AuditLogListResponse struct {
	Entries  []AuditLogResponse `json:"entries"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// AuditListQuery narrows the audit listing
type AuditListQuery struct {
	ActorUserID    *uuid.UUID
	Action         string
	SourceTenantID *uuid.UUID
	TargetTenantID *uuid.UUID
	Since          *time.Time
	Page           int
	PageSize       int
}

// List returns the audit trail, newest first. Only ministry callers may read
// it; the trail spans every tenant by nature.
func (s *AuditService) List(ctx context.Context, tc *tenancy.Context, query AuditListQuery) (*AuditLogListResponse, error) {
	if tc.HierarchyLevel != tenancy.LevelMinistry {
		return nil, apperrors.ErrExtendedAccessDenied
	}

	page := query.Page
	pageSize := query.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	filter := repository.ListFilter{
		ActorUserID:    query.ActorUserID,
		Action:         query.Action,
		SourceTenantID: query.SourceTenantID,
		TargetTenantID: query.TargetTenantID,
		Since:          query.Since,
	}

	offset := (page - 1) * pageSize
	logs, total, err := s.repo.List(filter, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	responses := make([]AuditLogResponse, len(logs))
	for i, log := range logs {
		responses[i] = s.toResponse(&log)
	}

	return &AuditLogListResponse{
		Entries:  responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// toResponse converts an audit log model to response
func (s *AuditService) toResponse(log *models.AuditLog) AuditLogResponse {
	var metadata map[string]interface{}
	if len(log.Metadata) > 0 {
		_ = json.Unmarshal(log.Metadata, &metadata)
	}

	return AuditLogResponse{
		ID:             log.ID,
		ActorUserID:    log.ActorUserID,
		Action:         log.Action,
		SourceTenantID: log.SourceTenantID,
		TargetTenantID: log.TargetTenantID,
		IPAddress:      log.IPAddress,
		UserAgent:      log.UserAgent,
		Metadata:       metadata,
		CreatedAt:      log.CreatedAt,
	}
}
