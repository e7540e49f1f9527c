package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLog is one append-only access-control record: who did what, from
// which tenant toward which tenant, when. Rows are inserted and read, never
// updated or deleted by the application.
type AuditLog struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ActorUserID    uuid.UUID       `json:"actor_user_id" gorm:"type:uuid;index;not null"`
	Action         string          `json:"action" gorm:"not null;size:60;index"`
	SourceTenantID uuid.UUID       `json:"source_tenant_id" gorm:"type:uuid;index;not null"`
	TargetTenantID *uuid.UUID      `json:"target_tenant_id,omitempty" gorm:"type:uuid;index"`
	IPAddress      string          `json:"ip_address" gorm:"size:45"`
	UserAgent      string          `json:"user_agent" gorm:"size:255"`
	Metadata       json.RawMessage `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TableName returns the table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate sets the UUID if not already set
func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
