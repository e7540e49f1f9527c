package tenancy

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Scoped is satisfied by any record that carries a tenant ownership column.
// Business entities get it for free by embedding models.TenantModel.
type Scoped interface {
	GetTenantID() uuid.UUID
}

// ScopedPtr constrains a pointer to a tenant-scoped record so injection can
// set the tenant id on a copy without mutating the caller's value.
type ScopedPtr[T any] interface {
	*T
	GetTenantID() uuid.UUID
	SetTenantID(uuid.UUID)
}

// ValidateOptions controls how ValidateTenantData treats a record whose
// tenant id differs from the context's.
type ValidateOptions struct {
	// StrictMode rejects mismatched records instead of correcting them.
	StrictMode bool
	// AllowCrossTenant accepts mismatched records as-is, regardless of
	// StrictMode. Reserved for callers that have already passed
	// ValidateTenantAccess.
	AllowCrossTenant bool
}

// ValidationResult is the outcome of ValidateTenantData.
type ValidationResult struct {
	IsValid bool   `json:"is_valid"`
	Reason  string `json:"reason,omitempty"`
	// ForceTenantID tells the caller to overwrite the record's tenant id
	// with the context's before persisting (lenient-mode correction).
	ForceTenantID bool `json:"force_tenant_id,omitempty"`
}

// CanAccessTenant reports whether a user belonging to userTenantID at the
// given hierarchy level may touch records owned by targetTenantID: same
// tenant, or ministry. This is the strict record-level check; broader
// hierarchy reach (region over its crous) is the business of CanAccessLevel
// and CanManageTenant, which gate navigation and tenant administration, not
// record writes. Keep the two distinct.
func CanAccessTenant(userTenantID uuid.UUID, userLevel HierarchyLevel, targetTenantID uuid.UUID) bool {
	if userTenantID == targetTenantID {
		return true
	}
	return userLevel == LevelMinistry
}

// InjectTenantID returns a shallow copy of record with the tenant id set to
// the context's. The input is never mutated and the operation is idempotent.
func InjectTenantID[T any, PT ScopedPtr[T]](record T, tc *Context) T {
	out := record
	PT(&out).SetTenantID(tc.TenantID)
	return out
}

// ValidateTenantData decides whether a record may be persisted under the
// given context.
//
// A record without a tenant id is valid; the caller injects one separately.
// A matching tenant id is valid. A mismatched one is valid when cross-tenant
// writes were explicitly allowed, invalid under StrictMode, and otherwise
// valid with ForceTenantID set: the caller must overwrite the tenant id
// before persisting. The correction is logged because it papers over a
// caller bug and must never happen silently.
func ValidateTenantData[T Scoped](record T, tc *Context, opts ValidateOptions) ValidationResult {
	recordTenant := record.GetTenantID()
	if recordTenant == uuid.Nil {
		return ValidationResult{IsValid: true}
	}
	if recordTenant == tc.TenantID {
		return ValidationResult{IsValid: true}
	}
	if opts.AllowCrossTenant {
		return ValidationResult{IsValid: true}
	}
	if opts.StrictMode {
		return ValidationResult{
			IsValid: false,
			Reason:  "access denied to tenant " + recordTenant.String(),
		}
	}

	logrus.WithFields(logrus.Fields{
		"user_id":          tc.UserID,
		"record_tenant_id": recordTenant,
		"forced_tenant_id": tc.TenantID,
	}).Warn("tenant id mismatch corrected to caller's tenant")

	return ValidationResult{IsValid: true, ForceTenantID: true}
}

// FilterOptions controls FilterByTenant and TransformResponse.
type FilterOptions struct {
	// BypassForExtendedAccess returns the input unfiltered when the context
	// holds ministry-level extended access.
	BypassForExtendedAccess bool
}

// FilterByTenant keeps only the records owned by the context's tenant,
// preserving input order. With BypassForExtendedAccess a ministry context
// sees everything.
func FilterByTenant[T Scoped](records []T, tc *Context, opts FilterOptions) []T {
	if opts.BypassForExtendedAccess && tc.HierarchyLevel == LevelMinistry {
		return records
	}
	filtered := make([]T, 0, len(records))
	for _, record := range records {
		if record.GetTenantID() == tc.TenantID {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// APIResponse is the list envelope returned by collection endpoints.
type APIResponse[T Scoped] struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Data     []T    `json:"data"`
	Total    int64  `json:"total,omitempty"`
	Page     int    `json:"page,omitempty"`
	PageSize int    `json:"page_size,omitempty"`
}

// TransformResponse applies FilterByTenant to the envelope's data and
// returns a shallow copy; every other envelope field passes through
// unchanged.
func TransformResponse[T Scoped](response APIResponse[T], tc *Context, opts FilterOptions) APIResponse[T] {
	out := response
	out.Data = FilterByTenant(response.Data, tc, opts)
	return out
}
