package testutils

import (
	"time"

	"github.com/google/uuid"

	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// TenantFactory provides methods to create test Tenant data
type TenantFactory struct{}

// NewTenantFactory creates a new TenantFactory
func NewTenantFactory() *TenantFactory {
	return &TenantFactory{}
}

// Create creates a test Tenant with default values, a CROU center
func (f *TenantFactory) Create() *models.Tenant {
	id := uuid.New()
	return &models.Tenant{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		Code:           "CROU-" + id.String()[:6],
		Name:           "CROU Test Center",
		HierarchyLevel: tenancy.LevelCrou,
		IsActive:       true,
	}
}

// Ministry creates a ministry-level tenant
func (f *TenantFactory) Ministry() *models.Tenant {
	tenant := f.Create()
	tenant.Code = "MESRI-" + tenant.ID.String()[:6]
	tenant.Name = "Ministry of Higher Education"
	tenant.HierarchyLevel = tenancy.LevelMinistry
	return tenant
}

// Region creates a region-level tenant under the given ministry
func (f *TenantFactory) Region(ministryID uuid.UUID) *models.Tenant {
	tenant := f.Create()
	tenant.Code = "REG-" + tenant.ID.String()[:6]
	tenant.Name = "Regional Office"
	tenant.HierarchyLevel = tenancy.LevelRegion
	tenant.ParentID = &ministryID
	return tenant
}

// Crou creates a crou-level tenant under the given region
func (f *TenantFactory) Crou(regionID uuid.UUID) *models.Tenant {
	tenant := f.Create()
	tenant.ParentID = &regionID
	return tenant
}

// WithCode sets a custom code for the tenant
func (f *TenantFactory) WithCode(code string) *models.Tenant {
	tenant := f.Create()
	tenant.Code = code
	return tenant
}

// UserFactory provides methods to create test User data
type UserFactory struct{}

// NewUserFactory creates a new UserFactory
func NewUserFactory() *UserFactory {
	return &UserFactory{}
}

// Create creates a test User with default values
func (f *UserFactory) Create() *models.User {
	id := uuid.New()
	return &models.User{
		BaseModel: models.BaseModel{
			ID:        id,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		},
		TenantID: uuid.New(),
		Email:    "agent-" + id.String()[:8] + "@crou.ne",
		FullName: "Amina Oumarou",
		// bcrypt hash of "test-password"
		PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
		Role:         tenancy.RoleAgent,
		IsActive:     true,
	}
}

// WithTenant sets the tenant ID for the user
func (f *UserFactory) WithTenant(tenantID uuid.UUID) *models.User {
	user := f.Create()
	user.TenantID = tenantID
	return user
}

// WithRole sets a custom role for the user
func (f *UserFactory) WithRole(tenantID uuid.UUID, role tenancy.Role) *models.User {
	user := f.Create()
	user.TenantID = tenantID
	user.Role = role
	return user
}

// BudgetFactory provides methods to create test Budget data
type BudgetFactory struct{}

// NewBudgetFactory creates a new BudgetFactory
func NewBudgetFactory() *BudgetFactory {
	return &BudgetFactory{}
}

// Create creates a test Budget with default values
func (f *BudgetFactory) Create(tenantID uuid.UUID) *models.Budget {
	return &models.Budget{
		TenantModel: models.TenantModel{
			BaseModel: models.BaseModel{
				ID:        uuid.New(),
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
			TenantID: tenantID,
		},
		FiscalYear:      2026,
		Label:           "Budget de fonctionnement",
		AllocatedAmount: 50_000_000,
		Status:          models.BudgetStatusDraft,
	}
}

// WithStatus sets a custom status for the budget
func (f *BudgetFactory) WithStatus(tenantID uuid.UUID, status models.BudgetStatus) *models.Budget {
	budget := f.Create(tenantID)
	budget.Status = status
	return budget
}

// StockItemFactory provides methods to create test StockItem data
type StockItemFactory struct{}

// NewStockItemFactory creates a new StockItemFactory
func NewStockItemFactory() *StockItemFactory {
	return &StockItemFactory{}
}

// Create creates a test StockItem with default values
func (f *StockItemFactory) Create(tenantID uuid.UUID) *models.StockItem {
	id := uuid.New()
	return &models.StockItem{
		TenantModel: models.TenantModel{
			BaseModel: models.BaseModel{
				ID:        id,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
			TenantID: tenantID,
		},
		Code:         "RIZ-" + id.String()[:6],
		Name:         "Riz 25kg",
		Unit:         "sac",
		Quantity:     0,
		ReorderLevel: 10,
	}
}

// WithQuantity sets the on-hand quantity for the item
func (f *StockItemFactory) WithQuantity(tenantID uuid.UUID, quantity int64) *models.StockItem {
	item := f.Create(tenantID)
	item.Quantity = quantity
	return item
}

// HousingUnitFactory provides methods to create test HousingUnit data
type HousingUnitFactory struct{}

// NewHousingUnitFactory creates a new HousingUnitFactory
func NewHousingUnitFactory() *HousingUnitFactory {
	return &HousingUnitFactory{}
}

// Create creates a test HousingUnit with default values
func (f *HousingUnitFactory) Create(tenantID uuid.UUID) *models.HousingUnit {
	id := uuid.New()
	return &models.HousingUnit{
		TenantModel: models.TenantModel{
			BaseModel: models.BaseModel{
				ID:        id,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
			TenantID: tenantID,
		},
		Building: "Bloc A",
		Number:   id.String()[:4],
		Capacity: 2,
		Status:   models.UnitAvailable,
	}
}

// VehicleFactory provides methods to create test Vehicle data
type VehicleFactory struct{}

// NewVehicleFactory creates a new VehicleFactory
func NewVehicleFactory() *VehicleFactory {
	return &VehicleFactory{}
}

// Create creates a test Vehicle with default values
func (f *VehicleFactory) Create(tenantID uuid.UUID) *models.Vehicle {
	id := uuid.New()
	return &models.Vehicle{
		TenantModel: models.TenantModel{
			BaseModel: models.BaseModel{
				ID:        id,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			},
			TenantID: tenantID,
		},
		PlateNumber: "NE-" + id.String()[:6],
		Model:       "Toyota Coaster",
		Capacity:    30,
		Status:      models.VehicleInService,
	}
}

// FactorySet bundles all factories for convenience
type FactorySet struct {
	Tenant      *TenantFactory
	User        *UserFactory
	Budget      *BudgetFactory
	StockItem   *StockItemFactory
	HousingUnit *HousingUnitFactory
	Vehicle     *VehicleFactory
}

// NewFactorySet creates a new FactorySet
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Tenant:      NewTenantFactory(),
		User:        NewUserFactory(),
		Budget:      NewBudgetFactory(),
		StockItem:   NewStockItemFactory(),
		HousingUnit: NewHousingUnitFactory(),
		Vehicle:     NewVehicleFactory(),
	}
}

// SeedHierarchy creates and persists a ministry, one region and one crou,
// returning all three. Used by repository integration tests.
type Hierarchy struct {
	Ministry *models.Tenant
	Region   *models.Tenant
	Crou     *models.Tenant
}

// SeedHierarchy persists a three-level tenant chain
func (s *BaseTestSuite) SeedHierarchy() (*Hierarchy, error) {
	f := NewTenantFactory()

	ministry := f.Ministry()
	if err := s.DB.Create(ministry).Error; err != nil {
		return nil, err
	}
	region := f.Region(ministry.ID)
	if err := s.DB.Create(region).Error; err != nil {
		return nil, err
	}
	crou := f.Crou(region.ID)
	if err := s.DB.Create(crou).Error; err != nil {
		return nil, err
	}

	return &Hierarchy{Ministry: ministry, Region: region, Crou: crou}, nil
}
