package router

import (
	"github.com/gin-gonic/gin"

	"hardware_shop_backend/internal/handlers"
	"hardware_shop_backend/internal/middleware"
	"hardware_shop_backend/internal/models"
	"hardware_shop_backend/internal/services"
)

// SetupPublicAuthRoutes sets up the authentication routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes sets up the authentication routes of a signed-in user.
// Only admins create accounts.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.Logout)
	group.GET("/me", authHandler.Me)
	group.POST("/register", middleware.RoleAuthMiddleware(models.RoleAdmin), authHandler.Register)
}

// SetupMasterDataRoutes sets up the CRUD routes of every master-data entity. Any signed-in
// user reads; admins and managers write.
func SetupMasterDataRoutes(authenticatedGroup *gin.RouterGroup, svc *services.Services, exposeDetails bool) {
	write := middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleManager)

	handlers.NewMasterHandler(svc.Categories, exposeDetails).Register(authenticatedGroup.Group("/categories"), write)
	handlers.NewMasterHandler(svc.Stores, exposeDetails).Register(authenticatedGroup.Group("/stores"), write)
	handlers.NewMasterHandler(svc.Items, exposeDetails).Register(authenticatedGroup.Group("/items"), write)
	handlers.NewMasterHandler(svc.Customers, exposeDetails).Register(authenticatedGroup.Group("/customers"), write)
	handlers.NewMasterHandler(svc.Suppliers, exposeDetails).Register(authenticatedGroup.Group("/suppliers"), write)
	handlers.NewMasterHandler(svc.Employees, exposeDetails).Register(authenticatedGroup.Group("/employees"), write)
}

// SetupValidationRoutes sets up the schema validation routes.
func SetupValidationRoutes(authenticatedGroup *gin.RouterGroup, systemHandler *handlers.SystemHandler) {
	validateRoutes := authenticatedGroup.Group("/validate")
	{
		validateRoutes.GET("", systemHandler.Schemas)
		validateRoutes.POST("/:schema", systemHandler.Validate)
	}
}

// SetupDashboardRoutes sets up the dashboard and settings routes.
func SetupDashboardRoutes(authenticatedGroup *gin.RouterGroup, systemHandler *handlers.SystemHandler) {
	authenticatedGroup.GET("/dashboard/summary", systemHandler.DashboardSummary)
	authenticatedGroup.GET("/settings", systemHandler.Settings)
}
