package main

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/roufai-ne/crou-management-system-sub007/internal/auth"
	"github.com/roufai-ne/crou-management-system-sub007/internal/config"
	"github.com/roufai-ne/crou-management-system-sub007/internal/database"
	"github.com/roufai-ne/crou-management-system-sub007/internal/database/models"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// Simple structures that directly match DB schema
type TenantData struct {
	Code           string `yaml:"code"`
	Name           string `yaml:"name"`
	HierarchyLevel string `yaml:"hierarchy_level"`
	ParentCode     string `yaml:"parent_code,omitempty"`
	IsActive       *bool  `yaml:"is_active,omitempty"`
}

type UserData struct {
	Email      string `yaml:"email"`
	FullName   string `yaml:"full_name"`
	TenantCode string `yaml:"tenant_code"`
	Role       string `yaml:"role"`
	Password   string `yaml:"password"`
	IsActive   *bool  `yaml:"is_active,omitempty"`
}

// File structures
type TenantsFile struct {
	Tenants []TenantData `yaml:"tenants"`
}

type UsersFile struct {
	Users []UserData `yaml:"users"`
}

func main() {
	log.Println("Loading initial data from YAML files...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database with retry (for dockerized Postgres startup)
	db, err := connectWithRetry(cfg.DatabaseURL, 60, time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	dataDir := cfg.SeedDataPath
	if dataDir == "" {
		dataDir = "scripts/data"
	}
	if err := loadDataFromYAMLFiles(db, dataDir); err != nil {
		log.Fatalf("Failed to load data from YAML files: %v", err)
	}

	log.Println("Initial data loaded successfully")
}

// connectWithRetry attempts to initialize the DB with retries to wait for Postgres readiness.
func connectWithRetry(dsn string, maxAttempts int, delay time.Duration) (*gorm.DB, error) {
	// Suppress verbose GORM logging during data loading
	opts := &database.Options{
		LogLevel: logger.Silent,
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err := database.Initialize(dsn, opts)
		if err == nil {
			return db, nil
		}
		if attempt%10 == 0 || attempt == maxAttempts {
			log.Printf("Database not ready (%d/%d): %v", attempt, maxAttempts, err)
		}
		time.Sleep(delay)
	}
	return nil, fmt.Errorf("database not ready after %d attempts", maxAttempts)
}

func loadDataFromYAMLFiles(db *gorm.DB, dataDir string) error {
	tenants, err := loadTenants(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load tenants: %w", err)
	}

	users, err := loadUsers(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load users: %w", err)
	}

	// Create tenants top-down so parents exist before their children. The
	// YAML may list them in any order; sorting by rank is enough because the
	// hierarchy is only three levels deep.
	ordered := make([]TenantData, 0, len(tenants))
	for _, level := range []tenancy.HierarchyLevel{tenancy.LevelMinistry, tenancy.LevelRegion, tenancy.LevelCrou} {
		for _, t := range tenants {
			if tenancy.HierarchyLevel(t.HierarchyLevel) == level {
				ordered = append(ordered, t)
			}
		}
	}
	if len(ordered) != len(tenants) {
		return fmt.Errorf("tenant list contains an unknown hierarchy level")
	}

	tenantMap := make(map[string]*models.Tenant)
	tenantCreated := 0
	for _, tenantData := range ordered {
		tenant, created, err := createTenant(db, tenantData, tenantMap)
		if err != nil {
			return fmt.Errorf("failed to create tenant %s: %w", tenantData.Code, err)
		}
		tenantMap[tenantData.Code] = tenant
		if created {
			tenantCreated++
		}
	}
	log.Printf("Tenants: %d created, %d total", tenantCreated, len(tenants))

	userCreated := 0
	for _, userData := range users {
		_, created, err := createUser(db, userData, tenantMap)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", userData.Email, err)
		}
		if created {
			userCreated++
		}
	}
	log.Printf("Users: %d created, %d total", userCreated, len(users))

	return nil
}

func loadTenants(dataDir string) ([]TenantData, error) {
	var allTenants []TenantData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "tenants") {
			var file TenantsFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allTenants = append(allTenants, file.Tenants...)
		}
		return nil
	})

	return allTenants, err
}

func loadUsers(dataDir string) ([]UserData, error) {
	var allUsers []UserData

	err := filepath.WalkDir(dataDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(path, ".yaml") && strings.Contains(path, "users") {
			var file UsersFile
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}

			if err := yaml.Unmarshal(data, &file); err != nil {
				return err
			}

			allUsers = append(allUsers, file.Users...)
		}
		return nil
	})

	return allUsers, err
}

func createTenant(db *gorm.DB, tenantData TenantData, tenantMap map[string]*models.Tenant) (*models.Tenant, bool, error) {
	level := tenancy.HierarchyLevel(tenantData.HierarchyLevel)
	if !level.IsValid() {
		return nil, false, fmt.Errorf("unknown hierarchy level %q", tenantData.HierarchyLevel)
	}

	var parentID *uuid.UUID
	if tenantData.ParentCode != "" {
		parent := tenantMap[tenantData.ParentCode]
		if parent == nil {
			return nil, false, fmt.Errorf("parent %s not found for tenant %s", tenantData.ParentCode, tenantData.Code)
		}
		parentID = &parent.ID
	} else if level != tenancy.LevelMinistry {
		return nil, false, fmt.Errorf("tenant %s at level %s needs a parent_code", tenantData.Code, level)
	}

	var tenant models.Tenant
	if err := db.Where("code = ?", tenantData.Code).First(&tenant).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			isActive := true
			if tenantData.IsActive != nil {
				isActive = *tenantData.IsActive
			}

			tenant = models.Tenant{
				Code:           tenantData.Code,
				Name:           tenantData.Name,
				HierarchyLevel: level,
				ParentID:       parentID,
				IsActive:       isActive,
			}

			if err := db.Create(&tenant).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create tenant: %w", err)
			}
			return &tenant, true, nil
		}
		return nil, false, fmt.Errorf("failed to query tenant: %w", err)
	}

	return &tenant, false, nil
}

func createUser(db *gorm.DB, userData UserData, tenantMap map[string]*models.Tenant) (*models.User, bool, error) {
	tenant := tenantMap[userData.TenantCode]
	if tenant == nil {
		return nil, false, fmt.Errorf("tenant %s not found for user %s", userData.TenantCode, userData.Email)
	}

	role := tenancy.Role(userData.Role)
	if !role.IsValid() {
		return nil, false, fmt.Errorf("unknown role %q", userData.Role)
	}

	var user models.User
	if err := db.Where("email = ?", userData.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			if userData.Password == "" {
				return nil, false, fmt.Errorf("user %s has no password", userData.Email)
			}
			hash, err := auth.HashPassword(userData.Password)
			if err != nil {
				return nil, false, fmt.Errorf("failed to hash password: %w", err)
			}

			isActive := true
			if userData.IsActive != nil {
				isActive = *userData.IsActive
			}

			user = models.User{
				TenantID:     tenant.ID,
				Email:        userData.Email,
				FullName:     userData.FullName,
				PasswordHash: hash,
				Role:         role,
				IsActive:     isActive,
			}

			if err := db.Create(&user).Error; err != nil {
				return nil, false, fmt.Errorf("failed to create user: %w", err)
			}
			return &user, true, nil
		}
		return nil, false, fmt.Errorf("failed to query user: %w", err)
	}

	return &user, false, nil
}
