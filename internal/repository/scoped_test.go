//go:build integration
// +build integration

package repository_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	apperrors "github.com/roufai-ne/crou-management-system-sub007/internal/errors"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
	"github.com/roufai-ne/crou-management-system-sub007/internal/testutils"
)

type ScopedRepositoryTestSuite struct {
	*testutils.BaseTestSuite
	repo      *repository.ScopedRepository[models.StockItem, *models.StockItem]
	hierarchy *testutils.Hierarchy
	factories *testutils.FactorySet
	otherCrou *models.Tenant
}

func TestScopedRepositoryTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	suite.Run(t, &ScopedRepositoryTestSuite{BaseTestSuite: base})
}

func (s *ScopedRepositoryTestSuite) SetupTest() {
	s.BaseTestSuite.SetupTest()

	s.repo = repository.NewScopedRepository[models.StockItem, *models.StockItem](s.DB)
	s.factories = testutils.NewFactorySet()

	hierarchy, err := s.SeedHierarchy()
	s.Require().NoError(err)
	s.hierarchy = hierarchy

	s.otherCrou = s.factories.Tenant.Crou(hierarchy.Region.ID)
	s.Require().NoError(s.DB.Create(s.otherCrou).Error)
}

func (s *ScopedRepositoryTestSuite) crouContext() *tenancy.Context {
	return &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Crou.ID,
		HierarchyLevel: tenancy.LevelCrou,
		Role:           tenancy.RoleAgent,
	}
}

func (s *ScopedRepositoryTestSuite) ministryContext() *tenancy.Context {
	return &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Ministry.ID,
		HierarchyLevel: tenancy.LevelMinistry,
		Role:           tenancy.RoleAdmin,
	}
}

func (s *ScopedRepositoryTestSuite) TestCreateInjectsTenantID() {
	tc := s.crouContext()
	item := &models.StockItem{Code: "RIZ", Name: "Riz 25kg", Unit: "sac"}

	s.Require().NoError(s.repo.Create(tc, item, tenancy.ValidateOptions{StrictMode: true}))
	s.Equal(tc.TenantID, item.TenantID)
}

func (s *ScopedRepositoryTestSuite) TestCreateRejectsForeignTenantIDInStrictMode() {
	tc := s.crouContext()
	item := s.factories.StockItem.Create(s.otherCrou.ID)

	err := s.repo.Create(tc, item, tenancy.ValidateOptions{StrictMode: true})
	s.True(apperrors.IsAuthorization(err))
}

func (s *ScopedRepositoryTestSuite) TestCreateForceCorrectsInLenientMode() {
	tc := s.crouContext()
	item := s.factories.StockItem.Create(s.otherCrou.ID)

	s.Require().NoError(s.repo.Create(tc, item, tenancy.ValidateOptions{}))
	s.Equal(tc.TenantID, item.TenantID)
}

func (s *ScopedRepositoryTestSuite) TestForeignRecordLooksMissing() {
	foreign := s.factories.StockItem.Create(s.otherCrou.ID)
	s.Require().NoError(s.DB.Create(foreign).Error)

	_, err := s.repo.GetByID(s.crouContext(), tenancy.ScopeOptions{}, foreign.ID)
	s.ErrorIs(err, gorm.ErrRecordNotFound)

	_, err = s.repo.GetByID(s.crouContext(), tenancy.ScopeOptions{}, uuid.New())
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *ScopedRepositoryTestSuite) TestFindIsScopedToTenant() {
	tc := s.crouContext()

	mine := s.factories.StockItem.Create(tc.TenantID)
	theirs := s.factories.StockItem.Create(s.otherCrou.ID)
	s.Require().NoError(s.DB.Create(mine).Error)
	s.Require().NoError(s.DB.Create(theirs).Error)

	records, err := s.repo.Find(tc, tenancy.ScopeOptions{}, 50, 0)
	s.Require().NoError(err)
	s.Require().Len(records, 1)
	s.Equal(mine.ID, records[0].ID)
}

func (s *ScopedRepositoryTestSuite) TestExtendedScopeHonoredOnlyForMinistry() {
	mine := s.factories.StockItem.Create(s.hierarchy.Crou.ID)
	theirs := s.factories.StockItem.Create(s.otherCrou.ID)
	s.Require().NoError(s.DB.Create(mine).Error)
	s.Require().NoError(s.DB.Create(theirs).Error)

	records, err := s.repo.Find(s.crouContext(), tenancy.ScopeOptions{BypassForExtendedAccess: true}, 50, 0)
	s.Require().NoError(err)
	s.Len(records, 1, "bypass flag must not widen a crou query")

	records, err = s.repo.Find(s.ministryContext(), tenancy.ScopeOptions{BypassForExtendedAccess: true}, 50, 0)
	s.Require().NoError(err)
	s.Len(records, 2)
}

func (s *ScopedRepositoryTestSuite) TestDeleteStaysInsideTenant() {
	foreign := s.factories.StockItem.Create(s.otherCrou.ID)
	s.Require().NoError(s.DB.Create(foreign).Error)

	s.Require().NoError(s.repo.Delete(s.crouContext(), foreign.ID))

	// The foreign record survives; the scoped delete matched nothing.
	var count int64
	s.Require().NoError(s.DB.Model(&models.StockItem{}).Where("id = ?", foreign.ID).Count(&count).Error)
	s.Equal(int64(1), count)
}
