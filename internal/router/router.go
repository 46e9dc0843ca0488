package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hardware_shop_backend/internal/config"
	"hardware_shop_backend/internal/handlers"
	"hardware_shop_backend/internal/metrics"
	"hardware_shop_backend/internal/middleware"
	"hardware_shop_backend/internal/repositories"
	"hardware_shop_backend/internal/services"
	"hardware_shop_backend/pkg/utils"
)

// Dependencies are the collaborators the routes are built from.
type Dependencies struct {
	Config   *config.Config
	Store    repositories.Store
	Services *services.Services
	Auth     *services.AuthService
	Tokens   *utils.TokenManager
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
}

// New creates the engine with the global middleware and every route.
func New(deps Dependencies) *gin.Engine {
	// Request bodies carry decimal amounts; keep them as json.Number.
	binding.EnableDecoderUseNumber = true

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())
	engine.Use(middleware.MetricsMiddleware(deps.Metrics))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = deps.Config.Server.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	engine.NoRoute(func(c *gin.Context) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Route not found", nil))
	})

	Setup(engine, deps)
	return engine
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	exposeDetails := !deps.Config.IsProduction()

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(deps.Auth, exposeDetails)
	systemHandler := handlers.NewSystemHandler(
		deps.Store,
		services.NewDashboardService(deps.Services, deps.Config.Business.Location()),
		deps.Config.Business.Settings(),
		deps.Config.App.Version,
		deps.Config.App.Env,
		exposeDetails,
	)

	engine.GET("/ping", systemHandler.Ping)
	if deps.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := engine.Group("/api/v1")
	apiV1.GET("/health", systemHandler.Health)
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupMasterDataRoutes(authenticated, deps.Services, exposeDetails)
		SetupValidationRoutes(authenticated, systemHandler)
		SetupDashboardRoutes(authenticated, systemHandler)
	}
}
