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

type UserServiceTestSuite struct {
	*testutils.BaseTestSuite
	svc       *service.UserService
	hierarchy *testutils.Hierarchy
	factories *testutils.FactorySet
}

func TestUserServiceTestSuite(t *testing.T) {
	base := testutils.SetupTestSuite(t)
	suite.Run(t, &UserServiceTestSuite{BaseTestSuite: base})
}

func (s *UserServiceTestSuite) SetupTest() {
	s.BaseTestSuite.SetupTest()

	tenantRepo := repository.NewTenantRepository(s.DB)
	userRepo := repository.NewUserRepository(s.DB)
	directory := repository.NewDirectory(tenantRepo, userRepo)
	access := tenancy.NewAccessValidator(directory, repository.NewAuditLogRepository(s.DB))
	s.svc = service.NewUserService(userRepo, access, validator.New())
	s.factories = testutils.NewFactorySet()

	hierarchy, err := s.SeedHierarchy()
	s.Require().NoError(err)
	s.hierarchy = hierarchy
}

func (s *UserServiceTestSuite) seedUser(role tenancy.Role) *models.User {
	user := s.factories.User.WithRole(s.hierarchy.Crou.ID, role)
	s.Require().NoError(s.DB.Create(user).Error)
	return user
}

func (s *UserServiceTestSuite) contextFor(user *models.User) *tenancy.Context {
	return &tenancy.Context{
		UserID:         user.ID,
		TenantID:       user.TenantID,
		HierarchyLevel: tenancy.LevelCrou,
		Role:           user.Role,
	}
}

func (s *UserServiceTestSuite) TestCreateRejectsSuperadminGrantByAdmin() {
	admin := s.seedUser(tenancy.RoleAdmin)

	_, err := s.svc.Create(context.Background(), s.contextFor(admin), &service.CreateUserRequest{
		Email:    "escalation@crou.ne",
		FullName: "Escalation Attempt",
		Password: "long-enough-password",
		Role:     string(tenancy.RoleSuperAdmin),
	})
	s.True(apperrors.IsAuthorization(err))
}

func (s *UserServiceTestSuite) TestUpdateCannotGrantSuperadmin() {
	admin := s.seedUser(tenancy.RoleAdmin)
	agent := s.seedUser(tenancy.RoleAgent)

	// Neither a peer update nor a self update may reach superadmin.
	_, err := s.svc.Update(context.Background(), s.contextFor(admin), agent.ID, &service.UpdateUserRequest{
		FullName: agent.FullName,
		Role:     string(tenancy.RoleSuperAdmin),
	})
	s.True(apperrors.IsAuthorization(err))

	_, err = s.svc.Update(context.Background(), s.contextFor(agent), agent.ID, &service.UpdateUserRequest{
		FullName: agent.FullName,
		Role:     string(tenancy.RoleSuperAdmin),
	})
	s.True(apperrors.IsAuthorization(err))

	var stored models.User
	s.Require().NoError(s.DB.First(&stored, "id = ?", agent.ID).Error)
	s.Equal(tenancy.RoleAgent, stored.Role)
}

func (s *UserServiceTestSuite) TestUpdateCannotDemoteSuperadmin() {
	admin := s.seedUser(tenancy.RoleAdmin)
	root := s.seedUser(tenancy.RoleSuperAdmin)

	_, err := s.svc.Update(context.Background(), s.contextFor(admin), root.ID, &service.UpdateUserRequest{
		FullName: root.FullName,
		Role:     string(tenancy.RoleAgent),
	})
	s.True(apperrors.IsAuthorization(err))
}

func (s *UserServiceTestSuite) TestSuperadminManagesSuperadminRole() {
	root := s.seedUser(tenancy.RoleSuperAdmin)
	agent := s.seedUser(tenancy.RoleAgent)

	resp, err := s.svc.Update(context.Background(), s.contextFor(root), agent.ID, &service.UpdateUserRequest{
		FullName: agent.FullName,
		Role:     string(tenancy.RoleSuperAdmin),
	})
	s.Require().NoError(err)
	s.Equal(string(tenancy.RoleSuperAdmin), resp.Role)
}

func (s *UserServiceTestSuite) TestUpdateAllowsRegularRoleChanges() {
	admin := s.seedUser(tenancy.RoleAdmin)
	agent := s.seedUser(tenancy.RoleAgent)

	resp, err := s.svc.Update(context.Background(), s.contextFor(admin), agent.ID, &service.UpdateUserRequest{
		FullName: "Promoted Agent",
		Role:     string(tenancy.RoleManager),
	})
	s.Require().NoError(err)
	s.Equal(string(tenancy.RoleManager), resp.Role)
}

func (s *UserServiceTestSuite) TestUpdateBlocksSelfDeactivation() {
	admin := s.seedUser(tenancy.RoleAdmin)
	inactive := false

	_, err := s.svc.Update(context.Background(), s.contextFor(admin), admin.ID, &service.UpdateUserRequest{
		FullName: admin.FullName,
		Role:     string(admin.Role),
		IsActive: &inactive,
	})
	s.True(apperrors.IsValidation(err))
}

func (s *UserServiceTestSuite) TestExtendedUserListingIsAudited() {
	ministry := &tenancy.Context{
		UserID:         uuid.New(),
		TenantID:       s.hierarchy.Ministry.ID,
		HierarchyLevel: tenancy.LevelMinistry,
		Role:           tenancy.RoleAdmin,
	}

	_, err := s.svc.GetByTenant(context.Background(), ministry, true, 1, 20)
	s.Require().NoError(err)

	var count int64
	s.Require().NoError(s.DB.Model(&models.AuditLog{}).
		Where("action = ?", tenancy.ActionCrossTenantRead).Count(&count).Error)
	s.Equal(int64(1), count)
}
