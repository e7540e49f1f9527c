package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHierarchyLevelRank(t *testing.T) {
	assert.Equal(t, 0, LevelMinistry.Rank())
	assert.Equal(t, 1, LevelRegion.Rank())
	assert.Equal(t, 2, LevelCrou.Rank())
	assert.Equal(t, 3, HierarchyLevel("bogus").Rank(), "unknown levels rank below everything")
}

func TestHierarchyLevelIsValid(t *testing.T) {
	assert.True(t, LevelMinistry.IsValid())
	assert.True(t, LevelRegion.IsValid())
	assert.True(t, LevelCrou.IsValid())
	assert.False(t, HierarchyLevel("").IsValid())
	assert.False(t, HierarchyLevel("national").IsValid())
}

func TestRoleIsValid(t *testing.T) {
	for _, role := range []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleAgent} {
		assert.True(t, role.IsValid(), string(role))
	}
	assert.False(t, Role("root").IsValid())
}

func TestCanAccessLevel(t *testing.T) {
	tests := []struct {
		name        string
		userLevel   HierarchyLevel
		targetLevel HierarchyLevel
		want        bool
	}{
		{"ministry reaches ministry", LevelMinistry, LevelMinistry, true},
		{"ministry reaches region", LevelMinistry, LevelRegion, true},
		{"ministry reaches crou", LevelMinistry, LevelCrou, true},
		{"region reaches region", LevelRegion, LevelRegion, true},
		{"region reaches crou", LevelRegion, LevelCrou, true},
		{"region cannot reach ministry", LevelRegion, LevelMinistry, false},
		{"crou reaches crou", LevelCrou, LevelCrou, true},
		{"crou cannot reach region", LevelCrou, LevelRegion, false},
		{"crou cannot reach ministry", LevelCrou, LevelMinistry, false},
		{"unknown level reaches nothing above it", HierarchyLevel("bogus"), LevelCrou, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessLevel(tt.userLevel, tt.targetLevel))
		})
	}
}

func TestCanManageTenant(t *testing.T) {
	ownTenant := uuid.New()
	otherTenant := uuid.New()

	tests := []struct {
		name        string
		tc          *Context
		tenantID    uuid.UUID
		tenantLevel HierarchyLevel
		want        bool
	}{
		{
			name: "superadmin manages anything",
			tc:   &Context{TenantID: ownTenant, HierarchyLevel: LevelCrou, Role: RoleSuperAdmin},

			tenantID:    otherTenant,
			tenantLevel: LevelMinistry,
			want:        true,
		},
		{
			name:        "own tenant is always manageable",
			tc:          &Context{TenantID: ownTenant, HierarchyLevel: LevelCrou, Role: RoleAgent},
			tenantID:    ownTenant,
			tenantLevel: LevelCrou,
			want:        true,
		},
		{
			name:        "ministry manages regions",
			tc:          &Context{TenantID: ownTenant, HierarchyLevel: LevelMinistry, Role: RoleAdmin},
			tenantID:    otherTenant,
			tenantLevel: LevelRegion,
			want:        true,
		},
		{
			name:        "ministry manages crous",
			tc:          &Context{TenantID: ownTenant, HierarchyLevel: LevelMinistry, Role: RoleAdmin},
			tenantID:    otherTenant,
			tenantLevel: LevelCrou,
			want:        true,
		},
		{
			name:        "ministry does not manage a foreign ministry",
			tc:          &Context{TenantID: ownTenant, HierarchyLevel: LevelMinistry, Role: RoleAdmin},
			tenantID:    otherTenant,
			tenantLevel: LevelMinistry,
			want:        false,
		},
		{
			name:        "region manages crous by rank",
			tc:          &Context{TenantID: ownTenant, HierarchyLevel: LevelRegion, Role: RoleAdmin},
			tenantID:    otherTenant,
			tenantLevel: LevelCrou,
			want:        true,
		},
		{
			name:        "region does not manage a sibling region",
			tc:          &Context{TenantID: ownTenant, HierarchyLevel: LevelRegion, Role: RoleAdmin},
			tenantID:    otherTenant,
			tenantLevel: LevelRegion,
			want:        false,
		},
		{
			name:        "crou manages nothing but itself",
			tc:          &Context{TenantID: ownTenant, HierarchyLevel: LevelCrou, Role: RoleAdmin},
			tenantID:    otherTenant,
			tenantLevel: LevelCrou,
			want:        false,
		},
		{
			name:        "nil context denied",
			tc:          nil,
			tenantID:    otherTenant,
			tenantLevel: LevelCrou,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanManageTenant(tt.tc, tt.tenantID, tt.tenantLevel))
		})
	}
}
