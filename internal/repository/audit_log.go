package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// AuditLogRepository persists and reads audit entries. It is the GORM-backed
// tenancy.AuditSink; rows are append-only.
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new audit log repository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Record implements tenancy.AuditSink
func (r *AuditLogRepository) Record(ctx context.Context, entry tenancy.AuditEntry) error {
	var metadata json.RawMessage
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return err
		}
		metadata = raw
	}

	log := &models.AuditLog{
		ActorUserID:    entry.ActorUserID,
		Action:         entry.Action,
		SourceTenantID: entry.SourceTenantID,
		TargetTenantID: entry.TargetTenantID,
		IPAddress:      entry.IPAddress,
		UserAgent:      entry.UserAgent,
		Metadata:       metadata,
		CreatedAt:      time.Now(),
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListFilter narrows an audit query.
type ListFilter struct {
	ActorUserID    *uuid.UUID
	Action         string
	SourceTenantID *uuid.UUID
	TargetTenantID *uuid.UUID
	Since          *time.Time
}

// List retrieves audit entries, newest first
func (r *AuditLogRepository) List(filter ListFilter, limit, offset int) ([]models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{})
	if filter.ActorUserID != nil {
		query = query.Where("actor_user_id = ?", *filter.ActorUserID)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.SourceTenantID != nil {
		query = query.Where("source_tenant_id = ?", *filter.SourceTenantID)
	}
	if filter.TargetTenantID != nil {
		query = query.Where("target_tenant_id = ?", *filter.TargetTenantID)
	}
	if filter.Since != nil {
		query = query.Where("created_at >= ?", *filter.Since)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}
