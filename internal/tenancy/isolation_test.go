package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// record is a minimal tenant-scoped type for exercising the generics.
type record struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Label    string
}

func (r record) GetTenantID() uuid.UUID    { return r.TenantID }
func (r *record) SetTenantID(id uuid.UUID) { r.TenantID = id }

func TestCanAccessTenant(t *testing.T) {
	own := uuid.New()
	other := uuid.New()

	assert.True(t, CanAccessTenant(own, LevelCrou, own), "same tenant always allowed")
	assert.True(t, CanAccessTenant(own, LevelMinistry, other), "ministry reaches every tenant")
	assert.False(t, CanAccessTenant(own, LevelRegion, other), "region does not get record-level reach")
	assert.False(t, CanAccessTenant(own, LevelCrou, other))
}

func TestInjectTenantID(t *testing.T) {
	tc := &Context{TenantID: uuid.New()}

	t.Run("sets tenant id on a copy", func(t *testing.T) {
		original := record{ID: uuid.New(), Label: "riz"}
		injected := InjectTenantID[record, *record](original, tc)

		assert.Equal(t, tc.TenantID, injected.TenantID)
		assert.Equal(t, uuid.Nil, original.TenantID, "input must not be mutated")
		assert.Equal(t, original.Label, injected.Label)
	})

	t.Run("idempotent", func(t *testing.T) {
		first := InjectTenantID[record, *record](record{}, tc)
		second := InjectTenantID[record, *record](first, tc)
		assert.Equal(t, first, second)
	})

	t.Run("overwrites a foreign tenant id", func(t *testing.T) {
		foreign := record{TenantID: uuid.New()}
		injected := InjectTenantID[record, *record](foreign, tc)
		assert.Equal(t, tc.TenantID, injected.TenantID)
	})
}

func TestValidateTenantData(t *testing.T) {
	tc := &Context{UserID: uuid.New(), TenantID: uuid.New()}
	foreign := uuid.New()

	tests := []struct {
		name       string
		tenantID   uuid.UUID
		opts       ValidateOptions
		wantValid  bool
		wantForced bool
	}{
		{"empty tenant id is valid", uuid.Nil, ValidateOptions{StrictMode: true}, true, false},
		{"matching tenant id is valid", tc.TenantID, ValidateOptions{StrictMode: true}, true, false},
		{"mismatch rejected in strict mode", foreign, ValidateOptions{StrictMode: true}, false, false},
		{"mismatch corrected in lenient mode", foreign, ValidateOptions{}, true, true},
		{"mismatch accepted with cross-tenant grant", foreign, ValidateOptions{StrictMode: true, AllowCrossTenant: true}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateTenantData(record{TenantID: tt.tenantID}, tc, tt.opts)
			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Equal(t, tt.wantForced, result.ForceTenantID)
			if !tt.wantValid {
				assert.NotEmpty(t, result.Reason)
			}
		})
	}
}

func TestFilterByTenant(t *testing.T) {
	own := uuid.New()
	foreign := uuid.New()
	records := []record{
		{Label: "a", TenantID: own},
		{Label: "b", TenantID: foreign},
		{Label: "c", TenantID: own},
	}

	t.Run("keeps only own records in order", func(t *testing.T) {
		tc := &Context{TenantID: own, HierarchyLevel: LevelCrou}
		filtered := FilterByTenant(records, tc, FilterOptions{})
		assert.Len(t, filtered, 2)
		assert.Equal(t, "a", filtered[0].Label)
		assert.Equal(t, "c", filtered[1].Label)
	})

	t.Run("ministry bypass returns everything", func(t *testing.T) {
		tc := &Context{TenantID: own, HierarchyLevel: LevelMinistry}
		filtered := FilterByTenant(records, tc, FilterOptions{BypassForExtendedAccess: true})
		assert.Len(t, filtered, 3)
	})

	t.Run("bypass ignored below ministry", func(t *testing.T) {
		tc := &Context{TenantID: own, HierarchyLevel: LevelRegion}
		filtered := FilterByTenant(records, tc, FilterOptions{BypassForExtendedAccess: true})
		assert.Len(t, filtered, 2)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		tc := &Context{TenantID: own, HierarchyLevel: LevelCrou}
		filtered := FilterByTenant([]record{}, tc, FilterOptions{})
		assert.Empty(t, filtered)
	})
}

func TestTransformResponse(t *testing.T) {
	own := uuid.New()
	tc := &Context{TenantID: own, HierarchyLevel: LevelCrou}

	response := APIResponse[record]{
		Success: true,
		Message: "ok",
		Data: []record{
			{Label: "mine", TenantID: own},
			{Label: "theirs", TenantID: uuid.New()},
		},
		Total:    2,
		Page:     1,
		PageSize: 20,
	}

	out := TransformResponse(response, tc, FilterOptions{})

	assert.Len(t, out.Data, 1)
	assert.Equal(t, "mine", out.Data[0].Label)
	assert.True(t, out.Success)
	assert.Equal(t, "ok", out.Message)
	assert.Equal(t, int64(2), out.Total, "envelope fields pass through unchanged")
	assert.Len(t, response.Data, 2, "input envelope must not be mutated")
}
