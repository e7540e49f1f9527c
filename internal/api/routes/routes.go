package routes

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/roufai-ne/crou-management-system-sub007/internal/api/handlers"
	"github.com/roufai-ne/crou-management-system-sub007/internal/api/middleware"
	"github.com/roufai-ne/crou-management-system-sub007/internal/auth"
	"github.com/roufai-ne/crou-management-system-sub007/internal/config"
	"github.com/roufai-ne/crou-management-system-sub007/internal/repository"
	"github.com/roufai-ne/crou-management-system-sub007/internal/service"
	"github.com/roufai-ne/crou-management-system-sub007/internal/tenancy"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg))

	// Initialize validator
	validate := validator.New()

	// Initialize repositories
	tenantRepo := repository.NewTenantRepository(db)
	userRepo := repository.NewUserRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	stockRepo := repository.NewStockRepository(db)
	housingRepo := repository.NewHousingRepository(db)
	transportRepo := repository.NewTransportRepository(db)

	// Initialize the tenancy core. The directory feeds both the per-request
	// context resolver and the access validator; audit decisions land in the
	// audit_logs table through the repository sink.
	directory := repository.NewDirectory(tenantRepo, userRepo)
	resolver := tenancy.NewResolver(directory)
	access := tenancy.NewAccessValidator(directory, auditRepo)

	// Initialize services
	tenantService := service.NewTenantService(tenantRepo, access, validate)
	userService := service.NewUserService(userRepo, access, validate)
	auditService := service.NewAuditService(auditRepo)
	budgetService := service.NewBudgetService(budgetRepo, access, validate)
	stockService := service.NewStockService(stockRepo, access, validate)
	housingService := service.NewHousingService(housingRepo, access, validate)
	transportService := service.NewTransportService(transportRepo, access, validate)

	// Initialize auth
	authConfig := auth.NewAuthConfig(cfg.JWTSecret, cfg.JWTExpiryMinutes, cfg.RefreshExpiryMinutes)
	authService, err := auth.NewAuthService(authConfig, userRepo, resolver)
	if err != nil {
		log.Fatalf("Failed to initialize auth service: %v", err)
	}
	authHandler := auth.NewAuthHandler(authService)
	authMiddleware := auth.NewAuthMiddleware(authService, resolver)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	tenantHandler := handlers.NewTenantHandler(tenantService)
	userHandler := handlers.NewUserHandler(userService)
	auditHandler := handlers.NewAuditHandler(auditService)
	budgetHandler := handlers.NewBudgetHandler(budgetService)
	stockHandler := handlers.NewStockHandler(stockService)
	housingHandler := handlers.NewHousingHandler(housingService)
	transportHandler := handlers.NewTransportHandler(transportService)
	meHandler := handlers.NewMeHandler()

	// Health check routes
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	// Swagger documentation route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Auth routes
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
		authGroup.POST("/validate", authHandler.ValidateToken)
	}

	// API v1 routes - all endpoints require a resolved tenant context
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		// Caller identity routes
		me := v1.Group("/me")
		{
			me.GET("", meHandler.Me)
			me.GET("/permissions", meHandler.Permissions)
		}

		// Tenant directory routes
		tenants := v1.Group("/tenants")
		{
			tenants.GET("", tenantHandler.ListTenants)
			tenants.POST("", tenantHandler.CreateTenant)
			tenants.GET("/:id", tenantHandler.GetTenant)
			tenants.PUT("/:id", tenantHandler.UpdateTenant)
			tenants.GET("/:id/children", tenantHandler.GetTenantChildren)
			tenants.PATCH("/:id/active", tenantHandler.SetTenantActive)
		}

		// User routes. Account mutations are reserved to admin-class roles;
		// agents and managers only read the directory.
		users := v1.Group("/users")
		userAdmin := authMiddleware.RequireRole(tenancy.RoleSuperAdmin, tenancy.RoleAdmin)
		{
			users.GET("", userHandler.ListUsers)
			users.POST("", userAdmin, userHandler.CreateUser)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userAdmin, userHandler.UpdateUser)
			users.DELETE("/:id", userAdmin, userHandler.DeleteUser)
		}

		// Budget routes
		budgets := v1.Group("/budgets")
		{
			budgets.GET("", budgetHandler.ListBudgets)
			budgets.POST("", budgetHandler.CreateBudget)
			budgets.GET("/:id", budgetHandler.GetBudget)
			budgets.PUT("/:id", budgetHandler.UpdateBudget)
			budgets.DELETE("/:id", budgetHandler.DeleteBudget)
			budgets.POST("/:id/lines", budgetHandler.AddBudgetLine)
			budgets.DELETE("/:id/lines/:lineId", budgetHandler.DeleteBudgetLine)
		}

		// Stock routes
		stock := v1.Group("/stock")
		{
			stock.GET("/items", stockHandler.ListStockItems)
			stock.POST("/items", stockHandler.CreateStockItem)
			stock.GET("/items/:id", stockHandler.GetStockItem)
			stock.DELETE("/items/:id", stockHandler.DeleteStockItem)
			stock.GET("/items/:id/movements", stockHandler.ListMovements)
			stock.POST("/items/:id/movements", stockHandler.RecordMovement)
		}

		// Housing routes
		housing := v1.Group("/housing")
		{
			housing.GET("/units", housingHandler.ListUnits)
			housing.POST("/units", housingHandler.CreateUnit)
			housing.GET("/units/:id", housingHandler.GetUnit)
			housing.PUT("/units/:id", housingHandler.UpdateUnit)
			housing.POST("/units/:id/allocations", housingHandler.AllocateUnit)
			housing.GET("/allocations", housingHandler.ListAllocations)
			housing.POST("/allocations/:id/end", housingHandler.EndAllocation)
		}

		// Transport routes
		transport := v1.Group("/transport")
		{
			transport.GET("/vehicles", transportHandler.ListVehicles)
			transport.POST("/vehicles", transportHandler.CreateVehicle)
			transport.GET("/vehicles/:id", transportHandler.GetVehicle)
			transport.PUT("/vehicles/:id", transportHandler.UpdateVehicle)
			transport.DELETE("/vehicles/:id", transportHandler.DeleteVehicle)
			transport.POST("/vehicles/:id/trips", transportHandler.CreateTrip)
			transport.GET("/trips", transportHandler.ListTrips)
			transport.DELETE("/trips/:id", transportHandler.DeleteTrip)
		}

		// Audit trail routes, ministry only
		audit := v1.Group("/audit")
		audit.Use(authMiddleware.RequireLevel(tenancy.LevelMinistry))
		{
			audit.GET("", auditHandler.ListAuditLogs)
		}
	}

	// Catch-all route for undefined endpoints
	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{
			"error":      "Endpoint not found",
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"request_id": c.GetString("request_id"),
		})
	})

	return router
}

// SetupHealthRoutes sets up only health check routes (useful for testing)
func SetupHealthRoutes(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	healthHandler := handlers.NewHealthHandler(db)
	router.GET("/health", healthHandler.Health)
	router.GET("/health/ready", healthHandler.Ready)
	router.GET("/health/live", healthHandler.Live)

	return router
}
