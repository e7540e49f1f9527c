package tenancy_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/mocks"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

func TestValidateTenantAccess(t *testing.T) {
	ownTenant := uuid.New()
	foreignTenant := uuid.New()
	userID := uuid.New()

	crouCtx := &tenancy.Context{
		UserID:         userID,
		TenantID:       ownTenant,
		HierarchyLevel: tenancy.LevelCrou,
		Role:           tenancy.RoleAgent,
	}

	t.Run("same tenant allowed and audited", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockAuditSink(ctrl)

		var recorded tenancy.AuditEntry
		sink.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry tenancy.AuditEntry) error {
				recorded = entry
				return nil
			})

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), sink)
		decision := v.ValidateTenantAccess(context.Background(), crouCtx, ownTenant, tenancy.AccessOptions{Action: "budget_update"})

		assert.True(t, decision.Allowed)
		assert.Equal(t, tenancy.ActionTenantAccessAllowed, recorded.Action)
		assert.Equal(t, userID, recorded.ActorUserID)
		assert.Equal(t, ownTenant, recorded.SourceTenantID)
		require.NotNil(t, recorded.TargetTenantID)
		assert.Equal(t, ownTenant, *recorded.TargetTenantID)
		assert.Equal(t, "budget_update", recorded.Metadata["operation"])
	})

	t.Run("foreign tenant denied and audited", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockAuditSink(ctrl)

		var recorded tenancy.AuditEntry
		sink.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry tenancy.AuditEntry) error {
				recorded = entry
				return nil
			})

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), sink)
		decision := v.ValidateTenantAccess(context.Background(), crouCtx, foreignTenant, tenancy.AccessOptions{Action: "budget_update"})

		assert.False(t, decision.Allowed)
		assert.NotEmpty(t, decision.Reason)
		assert.Equal(t, tenancy.ActionTenantAccessDenied, recorded.Action)
		require.NotNil(t, recorded.TargetTenantID)
		assert.Equal(t, foreignTenant, *recorded.TargetTenantID)
	})

	t.Run("ministry reaches any tenant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockAuditSink(ctrl)
		sink.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

		ministryCtx := &tenancy.Context{
			UserID:         userID,
			TenantID:       ownTenant,
			HierarchyLevel: tenancy.LevelMinistry,
			Role:           tenancy.RoleAdmin,
		}

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), sink)
		decision := v.ValidateTenantAccess(context.Background(), ministryCtx, foreignTenant, tenancy.AccessOptions{Action: "tenant_read"})
		assert.True(t, decision.Allowed)
	})

	t.Run("cross-tenant grant allows but still audits", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockAuditSink(ctrl)

		var recorded tenancy.AuditEntry
		sink.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry tenancy.AuditEntry) error {
				recorded = entry
				return nil
			})

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), sink)
		decision := v.ValidateTenantAccess(context.Background(), crouCtx, foreignTenant, tenancy.AccessOptions{
			AllowCrossTenant: true,
			Action:           "stock_transfer",
		})

		assert.True(t, decision.Allowed)
		assert.Equal(t, tenancy.ActionTenantAccessAllowed, recorded.Action)
		assert.Equal(t, true, recorded.Metadata["allow_cross_tenant"])
	})

	t.Run("sink failure does not flip the decision", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockAuditSink(ctrl)
		sink.EXPECT().Record(gomock.Any(), gomock.Any()).Return(errors.New("audit table unavailable"))

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), sink)
		decision := v.ValidateTenantAccess(context.Background(), crouCtx, ownTenant, tenancy.AccessOptions{Action: "budget_update"})
		assert.True(t, decision.Allowed)
	})

	t.Run("nil sink is tolerated", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), nil)
		decision := v.ValidateTenantAccess(context.Background(), crouCtx, foreignTenant, tenancy.AccessOptions{})
		assert.False(t, decision.Allowed)
	})
}

func TestLogResourceAccess(t *testing.T) {
	ownTenant := uuid.New()
	foreignTenant := uuid.New()

	tc := &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       ownTenant,
		HierarchyLevel: tenancy.LevelMinistry,
		Role:           tenancy.RoleAdmin,
	}

	t.Run("same-tenant read is not recorded", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockAuditSink(ctrl)
		// No Record expectation; any call fails the test.

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), sink)
		v.LogResourceAccess(context.Background(), tc, ownTenant, "budget", tenancy.AccessOptions{})
	})

	t.Run("cross-tenant read is recorded with the resource name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockAuditSink(ctrl)

		var recorded tenancy.AuditEntry
		sink.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry tenancy.AuditEntry) error {
				recorded = entry
				return nil
			})

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), sink)
		v.LogResourceAccess(context.Background(), tc, foreignTenant, "budget", tenancy.AccessOptions{IPAddress: "10.0.0.4"})

		assert.Equal(t, tenancy.ActionCrossTenantRead, recorded.Action)
		assert.Equal(t, "budget", recorded.Metadata["resource"])
		assert.Equal(t, "10.0.0.4", recorded.IPAddress)
	})

	t.Run("directory-wide read is recorded without a target tenant", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		sink := mocks.NewMockAuditSink(ctrl)

		var recorded tenancy.AuditEntry
		sink.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entry tenancy.AuditEntry) error {
				recorded = entry
				return nil
			})

		v := tenancy.NewAccessValidator(mocks.NewMockDirectory(ctrl), sink)
		v.LogResourceAccess(context.Background(), tc, uuid.Nil, "budgets", tenancy.AccessOptions{})

		assert.Equal(t, tenancy.ActionCrossTenantRead, recorded.Action)
		assert.Equal(t, ownTenant, recorded.SourceTenantID)
		assert.Nil(t, recorded.TargetTenantID)
	})
}

func TestCanManageTenantStrict(t *testing.T) {
	regionID := uuid.New()
	siblingRegionID := uuid.New()
	crouID := uuid.New()

	crou := tenancy.TenantRecord{
		ID:             crouID,
		Code:           "CROU-NIAMEY",
		HierarchyLevel: tenancy.LevelCrou,
		ParentID:       &regionID,
		IsActive:       true,
	}

	t.Run("region manages its own child crou", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockDirectory(ctrl)
		directory.EXPECT().GetTenant(crouID).Return(&crou, nil)

		v := tenancy.NewAccessValidator(directory, mocks.NewMockAuditSink(ctrl))
		tc := &tenancy.Context{TenantID: regionID, HierarchyLevel: tenancy.LevelRegion, Role: tenancy.RoleAdmin}

		ok, err := v.CanManageTenantStrict(tc, crouID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("sibling region is blocked despite rank", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockDirectory(ctrl)
		directory.EXPECT().GetTenant(crouID).Return(&crou, nil)

		v := tenancy.NewAccessValidator(directory, mocks.NewMockAuditSink(ctrl))
		tc := &tenancy.Context{TenantID: siblingRegionID, HierarchyLevel: tenancy.LevelRegion, Role: tenancy.RoleAdmin}

		ok, err := v.CanManageTenantStrict(tc, crouID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("ministry needs no lineage proof", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockDirectory(ctrl)
		directory.EXPECT().GetTenant(crouID).Return(&crou, nil)

		v := tenancy.NewAccessValidator(directory, mocks.NewMockAuditSink(ctrl))
		tc := &tenancy.Context{TenantID: uuid.New(), HierarchyLevel: tenancy.LevelMinistry, Role: tenancy.RoleAdmin}

		ok, err := v.CanManageTenantStrict(tc, crouID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("superadmin bypasses lineage from anywhere", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockDirectory(ctrl)
		directory.EXPECT().GetTenant(crouID).Return(&crou, nil)

		v := tenancy.NewAccessValidator(directory, mocks.NewMockAuditSink(ctrl))
		tc := &tenancy.Context{TenantID: uuid.New(), HierarchyLevel: tenancy.LevelCrou, Role: tenancy.RoleSuperAdmin}

		ok, err := v.CanManageTenantStrict(tc, crouID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("self management passes without a parent lookup", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockDirectory(ctrl)
		directory.EXPECT().GetTenant(crouID).Return(&crou, nil)

		v := tenancy.NewAccessValidator(directory, mocks.NewMockAuditSink(ctrl))
		tc := &tenancy.Context{TenantID: crouID, HierarchyLevel: tenancy.LevelCrou, Role: tenancy.RoleAgent}

		ok, err := v.CanManageTenantStrict(tc, crouID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("rank denial never consults lineage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockDirectory(ctrl)
		region := tenancy.TenantRecord{ID: regionID, HierarchyLevel: tenancy.LevelRegion, IsActive: true}
		directory.EXPECT().GetTenant(regionID).Return(&region, nil)

		v := tenancy.NewAccessValidator(directory, mocks.NewMockAuditSink(ctrl))
		tc := &tenancy.Context{TenantID: crouID, HierarchyLevel: tenancy.LevelCrou, Role: tenancy.RoleAdmin}

		ok, err := v.CanManageTenantStrict(tc, regionID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("directory error propagates", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		directory := mocks.NewMockDirectory(ctrl)
		directory.EXPECT().GetTenant(crouID).Return(nil, gorm.ErrRecordNotFound)

		v := tenancy.NewAccessValidator(directory, mocks.NewMockAuditSink(ctrl))
		tc := &tenancy.Context{TenantID: regionID, HierarchyLevel: tenancy.LevelRegion, Role: tenancy.RoleAdmin}

		_, err := v.CanManageTenantStrict(tc, crouID)
		assert.Error(t, err)
	})
}
