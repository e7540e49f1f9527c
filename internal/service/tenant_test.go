//go:build integration
// +build integration

package service_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
	"github.com/roufai-ne/crou-management-system-sub007/internal/testutils"
)

type TenantServiceTestSuite struct {
	*testutils.BaseTestSuite
	svc       *service.TenantService
	hierarchy *testutils.Hierarchy
}

func TestTenantServiceTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	suite.Run(t, &TenantServiceTestSuite{BaseTestSuite: base})
}

func (s *TenantServiceTestSuite) SetupTest() {
	s.BaseTestSuite.SetupTest()

	tenantRepo := repository.NewTenantRepository(s.DB)
	userRepo := repository.NewUserRepository(s.DB)
	auditRepo := repository.NewAuditLogRepository(s.DB)
	directory := repository.NewDirectory(tenantRepo, userRepo)
	access := tenancy.NewAccessValidator(directory, auditRepo)
	s.svc = service.NewTenantService(tenantRepo, access, validator.New())

	hierarchy, err := s.SeedHierarchy()
	s.Require().NoError(err)
	s.hierarchy = hierarchy
}

func (s *TenantServiceTestSuite) ministryContext() *tenancy.Context {
	return &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Ministry.ID,
		HierarchyLevel: tenancy.LevelMinistry,
		Role:           tenancy.RoleAdmin,
	}
}

func (s *TenantServiceTestSuite) regionContext() *tenancy.Context {
	return &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Region.ID,
		HierarchyLevel: tenancy.LevelRegion,
		Role:           tenancy.RoleAdmin,
	}
}

func (s *TenantServiceTestSuite) crouContext() *tenancy.Context {
	return &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Crou.ID,
		HierarchyLevel: tenancy.LevelCrou,
		Role:           tenancy.RoleAgent,
	}
}

func (s *TenantServiceTestSuite) TestCreateRegionUnderMinistry() {
	resp, err := s.svc.Create(context.Background(), s.ministryContext(), &service.CreateTenantRequest{
		Code:           "REG-MARADI",
		Name:           "Direction regionale de Maradi",
		HierarchyLevel: string(tenancy.LevelRegion),
		ParentID:       &s.hierarchy.Ministry.ID,
	})
	s.Require().NoError(err)
	s.Equal("REG-MARADI", resp.Code)
	s.True(resp.IsActive)
	s.Require().NotNil(resp.ParentID)
	s.Equal(s.hierarchy.Ministry.ID, *resp.ParentID)
}

func (s *TenantServiceTestSuite) TestCreateMinistryRootRequiresSuperadmin() {
	_, err := s.svc.Create(context.Background(), s.ministryContext(), &service.CreateTenantRequest{
		Code:           "MESRI-2",
		Name:           "Second ministry",
		HierarchyLevel: string(tenancy.LevelMinistry),
	})
	s.ErrorIs(err, apperrors.ErrTenantManagementDenied)
}

func (s *TenantServiceTestSuite) TestCreateMinistryRootAsSuperadmin() {
	tc := s.crouContext()
	tc.Role = tenancy.RoleSuperAdmin

	resp, err := s.svc.Create(context.Background(), tc, &service.CreateTenantRequest{
		Code:           "MESRI-2",
		Name:           "Second ministry",
		HierarchyLevel: string(tenancy.LevelMinistry),
	})
	s.Require().NoError(err)
	s.Nil(resp.ParentID)
}

func (s *TenantServiceTestSuite) TestCreateRejectsParentLevelMismatch() {
	_, err := s.svc.Create(context.Background(), s.ministryContext(), &service.CreateTenantRequest{
		Code:           "CROU-X",
		Name:           "Misplaced center",
		HierarchyLevel: string(tenancy.LevelCrou),
		ParentID:       &s.hierarchy.Ministry.ID,
	})
	s.ErrorIs(err, apperrors.ErrParentLevelMismatch)
}

func (s *TenantServiceTestSuite) TestCreateRequiresParentBelowRoot() {
	_, err := s.svc.Create(context.Background(), s.ministryContext(), &service.CreateTenantRequest{
		Code:           "REG-ORPHAN",
		Name:           "Orphan region",
		HierarchyLevel: string(tenancy.LevelRegion),
	})
	s.ErrorIs(err, apperrors.ErrParentRequired)
}

func (s *TenantServiceTestSuite) TestCreateRejectsDuplicateCode() {
	_, err := s.svc.Create(context.Background(), s.regionContext(), &service.CreateTenantRequest{
		Code:           s.hierarchy.Crou.Code,
		Name:           "Duplicate center",
		HierarchyLevel: string(tenancy.LevelCrou),
		ParentID:       &s.hierarchy.Region.ID,
	})
	s.ErrorIs(err, apperrors.ErrTenantExists)
}

func (s *TenantServiceTestSuite) TestCreateDeniedOutsideManagedSubtree() {
	// A second region has no authority over the first region's subtree.
	factory := testutils.NewTenantFactory()
	other := factory.Region(s.hierarchy.Ministry.ID)
	s.Require().NoError(s.DB.Create(other).Error)

	tc := &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       other.ID,
		HierarchyLevel: tenancy.LevelRegion,
		Role:           tenancy.RoleAdmin,
	}

	_, err := s.svc.Create(context.Background(), tc, &service.CreateTenantRequest{
		Code:           "CROU-INTRUS",
		Name:           "Center in a foreign region",
		HierarchyLevel: string(tenancy.LevelCrou),
		ParentID:       &s.hierarchy.Region.ID,
	})
	s.ErrorIs(err, apperrors.ErrTenantManagementDenied)
}

func (s *TenantServiceTestSuite) TestGetByIDHidesInvisibleTenants() {
	factory := testutils.NewTenantFactory()
	other := factory.Region(s.hierarchy.Ministry.ID)
	s.Require().NoError(s.DB.Create(other).Error)

	// A crou cannot tell a hidden tenant from a missing one.
	_, err := s.svc.GetByID(context.Background(), s.crouContext(), other.ID)
	s.ErrorIs(err, apperrors.ErrTenantNotFound)

	_, err = s.svc.GetByID(context.Background(), s.crouContext(), uuid.New())
	s.ErrorIs(err, apperrors.ErrTenantNotFound)
}

func (s *TenantServiceTestSuite) TestGetAllScopesToCallerView() {
	resp, err := s.svc.GetAll(context.Background(), s.ministryContext())
	s.Require().NoError(err)
	s.Equal(int64(3), resp.Total)

	resp, err = s.svc.GetAll(context.Background(), s.regionContext())
	s.Require().NoError(err)
	s.Equal(int64(2), resp.Total)

	resp, err = s.svc.GetAll(context.Background(), s.crouContext())
	s.Require().NoError(err)
	s.Equal(int64(1), resp.Total)
	s.Equal(s.hierarchy.Crou.ID, resp.Tenants[0].ID)
}

func (s *TenantServiceTestSuite) TestGetChildren() {
	resp, err := s.svc.GetChildren(context.Background(), s.regionContext(), s.hierarchy.Region.ID)
	s.Require().NoError(err)
	s.Equal(int64(1), resp.Total)
	s.Equal(s.hierarchy.Crou.ID, resp.Tenants[0].ID)
}

func (s *TenantServiceTestSuite) TestUpdateRenamesManagedChild() {
	resp, err := s.svc.Update(context.Background(), s.regionContext(), s.hierarchy.Crou.ID, &service.UpdateTenantRequest{
		Name: "CROU de Niamey",
	})
	s.Require().NoError(err)
	s.Equal("CROU de Niamey", resp.Name)
}

func (s *TenantServiceTestSuite) TestUpdateDeniedUpward() {
	_, err := s.svc.Update(context.Background(), s.crouContext(), s.hierarchy.Region.ID, &service.UpdateTenantRequest{
		Name: "Should not happen",
	})
	s.ErrorIs(err, apperrors.ErrTenantManagementDenied)
}

func (s *TenantServiceTestSuite) TestSetActiveBlocksSelfDeactivation() {
	_, err := s.svc.SetActive(context.Background(), s.regionContext(), s.hierarchy.Region.ID, false)
	s.True(apperrors.IsValidation(err))
}

func (s *TenantServiceTestSuite) TestSetActiveOnManagedChild() {
	resp, err := s.svc.SetActive(context.Background(), s.regionContext(), s.hierarchy.Crou.ID, false)
	s.Require().NoError(err)
	s.False(resp.IsActive)

	resp, err = s.svc.SetActive(context.Background(), s.regionContext(), s.hierarchy.Crou.ID, true)
	s.Require().NoError(err)
	s.True(resp.IsActive)
}
