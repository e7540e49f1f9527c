//go:build integration
// +build integration

package service_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
	"github.com/roufai-ne/crou-management-system-sub007/internal/testutils"
)

type StockServiceTestSuite struct {
	*testutils.BaseTestSuite
	svc       *service.StockService
	hierarchy *testutils.Hierarchy
	factories *testutils.FactorySet
}

func TestStockServiceTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	suite.Run(t, &StockServiceTestSuite{BaseTestSuite: base})
}

func (s *StockServiceTestSuite) SetupTest() {
	s.BaseTestSuite.SetupTest()

	tenantRepo := repository.NewTenantRepository(s.DB)
	userRepo := repository.NewUserRepository(s.DB)
	directory := repository.NewDirectory(tenantRepo, userRepo)
	access := tenancy.NewAccessValidator(directory, repository.NewAuditLogRepository(s.DB))
	s.svc = service.NewStockService(repository.NewStockRepository(s.DB), access, validator.New())
	s.factories = testutils.NewFactorySet()

	hierarchy, err := s.SeedHierarchy()
	s.Require().NoError(err)
	s.hierarchy = hierarchy
}

func (s *StockServiceTestSuite) crouContext() *tenancy.Context {
	return &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Crou.ID,
		HierarchyLevel: tenancy.LevelCrou,
		Role:           tenancy.RoleAgent,
	}
}

func (s *StockServiceTestSuite) foreignCrouContext() *tenancy.Context {
	crou := s.factories.Tenant.Crou(s.hierarchy.Region.ID)
	s.Require().NoError(s.DB.Create(crou).Error)
	return &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       crou.ID,
		HierarchyLevel: tenancy.LevelCrou,
		Role:           tenancy.RoleAgent,
	}
}

func (s *StockServiceTestSuite) TestCreateItemStartsEmpty() {
	resp, err := s.svc.CreateItem(context.Background(), s.crouContext(), &service.CreateStockItemRequest{
		Code:         "RIZ-25",
		Name:         "Riz 25kg",
		Unit:         "sac",
		ReorderLevel: 10,
	})
	s.Require().NoError(err)
	s.Equal(int64(0), resp.Quantity)
	s.True(resp.BelowReorder)
	s.Equal(s.hierarchy.Crou.ID, resp.TenantID)
}

func (s *StockServiceTestSuite) TestCreateItemRejectsDuplicateCodePerTenant() {
	tc := s.crouContext()
	req := &service.CreateStockItemRequest{Code: "RIZ-25", Name: "Riz 25kg", Unit: "sac"}

	_, err := s.svc.CreateItem(context.Background(), tc, req)
	s.Require().NoError(err)

	_, err = s.svc.CreateItem(context.Background(), tc, req)
	s.ErrorIs(err, apperrors.ErrStockItemExists)

	// The same code in a different tenant is fine.
	_, err = s.svc.CreateItem(context.Background(), s.foreignCrouContext(), req)
	s.NoError(err)
}

func (s *StockServiceTestSuite) TestMovementsAdjustQuantity() {
	tc := s.crouContext()
	item := s.factories.StockItem.Create(tc.TenantID)
	s.Require().NoError(s.DB.Create(item).Error)

	_, err := s.svc.RecordMovement(context.Background(), tc, item.ID, &service.RecordMovementRequest{
		Direction: "in",
		Quantity:  40,
		Reference: "BL-2026-0012",
	})
	s.Require().NoError(err)

	mv, err := s.svc.RecordMovement(context.Background(), tc, item.ID, &service.RecordMovementRequest{
		Direction: "out",
		Quantity:  15,
	})
	s.Require().NoError(err)
	s.Equal(tc.UserID, mv.RecordedBy)

	resp, err := s.svc.GetItemByID(context.Background(), tc, item.ID, false)
	s.Require().NoError(err)
	s.Equal(int64(25), resp.Quantity)
}

func (s *StockServiceTestSuite) TestOutboundMovementCannotGoNegative() {
	tc := s.crouContext()
	item := s.factories.StockItem.WithQuantity(tc.TenantID, 5)
	s.Require().NoError(s.DB.Create(item).Error)

	_, err := s.svc.RecordMovement(context.Background(), tc, item.ID, &service.RecordMovementRequest{
		Direction: "out",
		Quantity:  6,
	})
	s.ErrorIs(err, apperrors.ErrInsufficientStock)

	// The failed movement must not touch the quantity or the ledger.
	resp, err := s.svc.GetItemByID(context.Background(), tc, item.ID, false)
	s.Require().NoError(err)
	s.Equal(int64(5), resp.Quantity)

	ledger, err := s.svc.GetMovements(context.Background(), tc, item.ID, 1, 20)
	s.Require().NoError(err)
	s.Equal(int64(0), ledger.Total)
}

func (s *StockServiceTestSuite) TestMovementRejectsUnknownDirection() {
	tc := s.crouContext()
	item := s.factories.StockItem.Create(tc.TenantID)
	s.Require().NoError(s.DB.Create(item).Error)

	_, err := s.svc.RecordMovement(context.Background(), tc, item.ID, &service.RecordMovementRequest{
		Direction: "sideways",
		Quantity:  1,
	})
	s.True(apperrors.IsValidation(err))
}

func (s *StockServiceTestSuite) TestItemsAreTenantScoped() {
	tc := s.crouContext()
	foreign := s.foreignCrouContext()

	item := s.factories.StockItem.Create(foreign.TenantID)
	s.Require().NoError(s.DB.Create(item).Error)

	_, err := s.svc.GetItemByID(context.Background(), tc, item.ID, false)
	s.ErrorIs(err, apperrors.ErrStockItemNotFound)

	list, err := s.svc.GetItems(context.Background(), tc, false, 1, 20)
	s.Require().NoError(err)
	s.Equal(int64(0), list.Total)
}

func (s *StockServiceTestSuite) TestExtendedScopeIgnoredBelowMinistry() {
	tc := s.crouContext()
	foreign := s.foreignCrouContext()

	item := s.factories.StockItem.Create(foreign.TenantID)
	s.Require().NoError(s.DB.Create(item).Error)

	_, err := s.svc.GetItemByID(context.Background(), tc, item.ID, true)
	s.ErrorIs(err, apperrors.ErrStockItemNotFound)
}

func (s *StockServiceTestSuite) TestMinistryExtendedScopeSeesEveryTenant() {
	foreign := s.foreignCrouContext()
	item := s.factories.StockItem.Create(foreign.TenantID)
	s.Require().NoError(s.DB.Create(item).Error)

	ministry := &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Ministry.ID,
		HierarchyLevel: tenancy.LevelMinistry,
		Role:           tenancy.RoleAdmin,
	}

	resp, err := s.svc.GetItemByID(context.Background(), ministry, item.ID, true)
	s.Require().NoError(err)
	s.Equal(foreign.TenantID, resp.TenantID)

	// The foreign read must land in the audit trail.
	var logs []models.AuditLog
	s.Require().NoError(s.DB.Where("action = ?", tenancy.ActionCrossTenantRead).Find(&logs).Error)
	s.Require().Len(logs, 1)
	s.Equal(ministry.UserID, logs[0].ActorUserID)
	s.Equal(ministry.TenantID, logs[0].SourceTenantID)
	s.Require().NotNil(logs[0].TargetTenantID)
	s.Equal(foreign.TenantID, *logs[0].TargetTenantID)
}

func (s *StockServiceTestSuite) TestSameTenantReadLeavesNoAuditEntry() {
	tc := s.crouContext()
	item := s.factories.StockItem.Create(tc.TenantID)
	s.Require().NoError(s.DB.Create(item).Error)

	_, err := s.svc.GetItemByID(context.Background(), tc, item.ID, false)
	s.Require().NoError(err)

	var count int64
	s.Require().NoError(s.DB.Model(&models.AuditLog{}).
		Where("action = ?", tenancy.ActionCrossTenantRead).Count(&count).Error)
	s.Equal(int64(0), count)
}

func (s *StockServiceTestSuite) TestExtendedListingIsAudited() {
	foreign := s.foreignCrouContext()
	item := s.factories.StockItem.Create(foreign.TenantID)
	s.Require().NoError(s.DB.Create(item).Error)

	ministry := &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Ministry.ID,
		HierarchyLevel: tenancy.LevelMinistry,
		Role:           tenancy.RoleAdmin,
	}

	_, err := s.svc.GetItems(context.Background(), ministry, true, 1, 20)
	s.Require().NoError(err)

	// A directory-wide listing is one entry with no single target tenant.
	var logs []models.AuditLog
	s.Require().NoError(s.DB.Where("action = ?", tenancy.ActionCrossTenantRead).Find(&logs).Error)
	s.Require().Len(logs, 1)
	s.Nil(logs[0].TargetTenantID)

	// A plain tenant-scoped listing adds nothing.
	_, err = s.svc.GetItems(context.Background(), s.crouContext(), false, 1, 20)
	s.Require().NoError(err)

	var count int64
	s.Require().NoError(s.DB.Model(&models.AuditLog{}).
		Where("action = ?", tenancy.ActionCrossTenantRead).Count(&count).Error)
	s.Equal(int64(1), count)
}

func (s *StockServiceTestSuite) TestDeleteItemRemovesLedger() {
	tc := s.crouContext()
	item := s.factories.StockItem.Create(tc.TenantID)
	s.Require().NoError(s.DB.Create(item).Error)

	_, err := s.svc.RecordMovement(context.Background(), tc, item.ID, &service.RecordMovementRequest{
		Direction: "in",
		Quantity:  3,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteItem(context.Background(), tc, item.ID))

	_, err = s.svc.GetItemByID(context.Background(), tc, item.ID, false)
	s.ErrorIs(err, apperrors.ErrStockItemNotFound)
}
