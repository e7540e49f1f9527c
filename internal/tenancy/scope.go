package tenancy

import "gorm.io/gorm"

// ScopeOptions controls the tenant scope applied to a query.
type ScopeOptions struct {
	// BypassForExtendedAccess skips the tenant filter entirely. Only honored
	// for ministry-level contexts; every other level keeps the filter no
	// matter what the caller asked for.
	BypassForExtendedAccess bool
}

// Scope returns a GORM scope that conjoins the context's tenant filter with
// whatever conditions the caller already built. GORM ANDs scope conditions
// with explicit Where clauses, so callers can narrow the query but never
// widen it past their tenant.
func Scope(tc *Context) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tc.TenantID)
	}
}

// ScopeWith is Scope with an explicit bypass request for ministry-level
// extended access.
func ScopeWith(tc *Context, opts ScopeOptions) func(db *gorm.DB) *gorm.DB {
	if opts.BypassForExtendedAccess && tc.HierarchyLevel == LevelMinistry {
		return func(db *gorm.DB) *gorm.DB { return db }
	}
	return Scope(tc)
}
