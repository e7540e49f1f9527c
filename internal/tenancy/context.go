package tenancy

import (
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
)

// Context is the resolved identity and scope bundle for the acting user.
// It is built once per authenticated request from the tenant directory and
// never mutated afterwards; the ancestor ids are derived from the directory
// lineage, not taken from the client.
type Context struct {
	UserID         uuid.UUID      `json:"user_id"`
	TenantID       uuid.UUID      `json:"tenant_id"`
	HierarchyLevel HierarchyLevel `json:"hierarchy_level"`
	Role           Role           `json:"role"`

	// Ancestor ids for fast hierarchy checks. Only the ids at or above the
	// tenant's own level are set: a crou context carries all three, a
	// ministry context only MinistryID.
	MinistryID *uuid.UUID `json:"ministry_id,omitempty"`
	RegionID   *uuid.UUID `json:"region_id,omitempty"`
	CrouID     *uuid.UUID `json:"crou_id,omitempty"`
}

// TenantRecord is the directory's view of a tenant.
type TenantRecord struct {
	ID             uuid.UUID
	Code           string
	Name           string
	HierarchyLevel HierarchyLevel
	ParentID       *uuid.UUID
	IsActive       bool
}

// UserRecord is the directory's view of a user's tenant membership.
type UserRecord struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Role     Role
	IsActive bool
}

//go:generate mockgen -destination=../mocks/tenancy_mocks.go -package=mocks github.com/roufai-ne/crou-management-system-sub007/internal/tenancy Directory,AuditSink

// Directory provides read access to the tenant directory. Implemented by the
// repository layer; this package performs no I/O of its own beyond these
// lookups.
type Directory interface {
	GetTenant(id uuid.UUID) (*TenantRecord, error)
	GetUser(id uuid.UUID) (*UserRecord, error)
}

// Resolver builds a Context for an authenticated principal.
type Resolver struct {
	directory Directory
}

// NewResolver creates a new context resolver
func NewResolver(directory Directory) *Resolver {
	return &Resolver{directory: directory}
}

// Resolve produces the tenant context for the given user. It fails when the
// user or its tenant cannot be resolved or is inactive; callers must reject
// the request in that case and never fall back to a permissive default.
func (r *Resolver) Resolve(userID uuid.UUID) (*Context, error) {
	user, err := r.directory.GetUser(userID)
	if err != nil {
		return nil, fmt.Errorf("resolve user %s: %w", userID, err)
	}
	if !user.IsActive {
		return nil, apperrors.NewAuthenticationError("user account is deactivated")
	}

	tenant, err := r.directory.GetTenant(user.TenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve tenant %s: %w", user.TenantID, err)
	}
	if !tenant.IsActive {
		return nil, apperrors.ErrTenantInactive
	}

	tc := &Context{
		UserID:         user.ID,
		TenantID:       tenant.ID,
		HierarchyLevel: tenant.HierarchyLevel,
		Role:           user.Role,
	}
	if err := r.fillAncestors(tc, tenant); err != nil {
		return nil, err
	}
	return tc, nil
}

// fillAncestors walks the parent chain and records the ancestor id for each
// level. The chain is at most three tenants deep; the loop is bounded so a
// corrupted parent link cannot spin.
func (r *Resolver) fillAncestors(tc *Context, tenant *TenantRecord) error {
	current := tenant
	for depth := 0; depth < 3; depth++ {
		id := current.ID
		switch current.HierarchyLevel {
		case LevelMinistry:
			tc.MinistryID = &id
		case LevelRegion:
			tc.RegionID = &id
		case LevelCrou:
			tc.CrouID = &id
		default:
			return fmt.Errorf("tenant %s has unknown hierarchy level %q", current.ID, current.HierarchyLevel)
		}

		if current.ParentID == nil {
			return nil
		}
		parent, err := r.directory.GetTenant(*current.ParentID)
		if err != nil {
			return fmt.Errorf("resolve ancestor %s: %w", *current.ParentID, err)
		}
		current = parent
	}
	return fmt.Errorf("tenant %s has a parent chain deeper than the hierarchy allows", tenant.ID)
}
