package tenancy

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Audit actions recorded by the access validator.
const (
	ActionTenantAccessAllowed = "tenant_access_allowed"
	ActionTenantAccessDenied  = "tenant_access_denied"
	ActionCrossTenantRead     = "cross_tenant_read"
)

// AuditEntry describes one access-control event. Entries are append-only;
// nothing in this package updates or deletes them.
type AuditEntry struct {
	ActorUserID    uuid.UUID
	Action         string
	SourceTenantID uuid.UUID
	TargetTenantID *uuid.UUID
	IPAddress      string
	UserAgent      string
	Metadata       map[string]interface{}
}

// AuditSink receives audit entries. Could be a table insert, a queue
// publish, or a local log; the validator does not care which.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AccessOptions parameterizes a single access decision.
type AccessOptions struct {
	// AllowCrossTenant grants the operation regardless of the tenant check.
	// The decision is still audited.
	AllowCrossTenant bool
	// Action names the operation for the audit trail, e.g. "budget_update".
	Action    string
	IPAddress string
	UserAgent string
}

// Decision is the outcome of ValidateTenantAccess.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// AccessValidator decides cross-tenant operations and records them. The
// audit write is fire-and-forget relative to the decision: a sink failure is
// logged locally and never flips an otherwise valid decision, nor the other
// way around.
type AccessValidator struct {
	directory Directory
	sink      AuditSink
	log       *logrus.Entry
}

// NewAccessValidator creates a new access validator
func NewAccessValidator(directory Directory, sink AuditSink) *AccessValidator {
	return &AccessValidator{
		directory: directory,
		sink:      sink,
		log:       logrus.WithField("component", "access_validator"),
	}
}

// ValidateTenantAccess decides whether the context may operate on records
// owned by targetTenantID. Both allow and deny outcomes are audited.
func (v *AccessValidator) ValidateTenantAccess(ctx context.Context, tc *Context, targetTenantID uuid.UUID, opts AccessOptions) Decision {
	decision := Decision{Allowed: true}
	if !CanAccessTenant(tc.TenantID, tc.HierarchyLevel, targetTenantID) && !opts.AllowCrossTenant {
		decision = Decision{
			Allowed: false,
			Reason:  "access denied to tenant " + targetTenantID.String(),
		}
	}

	action := ActionTenantAccessAllowed
	if !decision.Allowed {
		action = ActionTenantAccessDenied
	}
	v.record(ctx, AuditEntry{
		ActorUserID:    tc.UserID,
		Action:         action,
		SourceTenantID: tc.TenantID,
		TargetTenantID: &targetTenantID,
		IPAddress:      opts.IPAddress,
		UserAgent:      opts.UserAgent,
		Metadata: map[string]interface{}{
			"operation":          opts.Action,
			"allow_cross_tenant": opts.AllowCrossTenant,
		},
	})

	return decision
}

// LogResourceAccess records a cross-tenant read for later forensic review,
// carrying both the source and the target tenant. Same-tenant reads are not
// worth an entry and are skipped. A uuid.Nil target marks a directory-wide
// read (an extended listing spanning every tenant) and is recorded with no
// target tenant.
func (v *AccessValidator) LogResourceAccess(ctx context.Context, tc *Context, targetTenantID uuid.UUID, resource string, opts AccessOptions) {
	if targetTenantID == tc.TenantID {
		return
	}
	entry := AuditEntry{
		ActorUserID:    tc.UserID,
		Action:         ActionCrossTenantRead,
		SourceTenantID: tc.TenantID,
		IPAddress:      opts.IPAddress,
		UserAgent:      opts.UserAgent,
		Metadata: map[string]interface{}{
			"resource": resource,
		},
	}
	if targetTenantID != uuid.Nil {
		entry.TargetTenantID = &targetTenantID
	}
	v.record(ctx, entry)
}

// CanManageTenantStrict is the server-side counterpart of CanManageTenant.
// On top of the rank rules it confirms lineage against the tenant directory:
// a region user manages a crou only when that crou is actually one of its
// children.
func (v *AccessValidator) CanManageTenantStrict(tc *Context, tenantID uuid.UUID) (bool, error) {
	target, err := v.directory.GetTenant(tenantID)
	if err != nil {
		return false, err
	}
	if !CanManageTenant(tc, target.ID, target.HierarchyLevel) {
		return false, nil
	}
	// Rank allowed it. Superadmin, ministry and self-management need no
	// lineage proof; the region over crou branch does.
	if tc.Role == RoleSuperAdmin || tc.HierarchyLevel == LevelMinistry || tc.TenantID == target.ID {
		return true, nil
	}
	return target.ParentID != nil && *target.ParentID == tc.TenantID, nil
}

func (v *AccessValidator) record(ctx context.Context, entry AuditEntry) {
	if v.sink == nil {
		return
	}
	if err := v.sink.Record(ctx, entry); err != nil {
		v.log.WithError(err).WithFields(logrus.Fields{
			"action":   entry.Action,
			"actor_id": entry.ActorUserID,
		}).Warn("audit sink write failed")
	}
}
