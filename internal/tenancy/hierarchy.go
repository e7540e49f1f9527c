package tenancy

import "github.com/google/uuid"

// HierarchyLevel identifies a tenant's position in the three-level CROU
// hierarchy: the ministry at the top, regional offices below it, and the
// local CROU centers at the bottom.
type HierarchyLevel string

const (
	LevelMinistry HierarchyLevel = "ministry"
	LevelRegion   HierarchyLevel = "region"
	LevelCrou     HierarchyLevel = "crou"
)

// Rank returns the numeric rank of a hierarchy level. Lower rank means
// broader authority: ministry=0, region=1, crou=2. Unknown levels rank
// below everything so they never gain access by accident.
func (l HierarchyLevel) Rank() int {
	switch l {
	case LevelMinistry:
		return 0
	case LevelRegion:
		return 1
	case LevelCrou:
		return 2
	}
	return 3
}

// IsValid checks if the HierarchyLevel is valid
func (l HierarchyLevel) IsValid() bool {
	switch l {
	case LevelMinistry, LevelRegion, LevelCrou:
		return true
	}
	return false
}

// Role defines the application roles a user can hold within their tenant.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleAgent      Role = "agent"
)

// IsValid checks if the Role is valid
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleAgent:
		return true
	}
	return false
}

// CanAccessLevel reports whether a user at userLevel may act at targetLevel.
// A user may act at or below their own rank, never above it. This is the
// single rank comparison shared by the API layer and the /me/permissions
// payload the front end consumes, so the two cannot drift.
func CanAccessLevel(userLevel, targetLevel HierarchyLevel) bool {
	return targetLevel.Rank() >= userLevel.Rank()
}

// CanManageTenant reports whether the user described by tc may manage the
// tenant identified by tenantID at tenantLevel. Rank only: the region over
// crou branch does not confirm that the crou actually descends from the
// caller's region. Server-side enforcement goes through
// AccessValidator.CanManageTenantStrict, which adds the lineage check; this
// function is the advisory guard mirrored to the UI.
func CanManageTenant(tc *Context, tenantID uuid.UUID, tenantLevel HierarchyLevel) bool {
	if tc == nil {
		return false
	}
	if tc.Role == RoleSuperAdmin {
		return true
	}
	if tc.TenantID == tenantID {
		return true
	}
	switch tc.HierarchyLevel {
	case LevelMinistry:
		return tenantLevel == LevelRegion || tenantLevel == LevelCrou
	case LevelRegion:
		return tenantLevel == LevelCrou
	}
	return false
}
