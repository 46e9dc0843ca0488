package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"hardware_shop_backend/internal/models"
	"hardware_shop_backend/internal/services"
	"hardware_shop_backend/internal/validation"
	"hardware_shop_backend/pkg/utils"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus is the body of the health endpoint.
type HealthStatus struct {
	Status      string    `json:"status"`
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	Database    string    `json:"database"`
	Environment string    `json:"environment"`
}

// SystemHandler serves health, settings, schema validation and dashboard routes.
type SystemHandler struct {
	store         Pinger
	dashboard     *services.DashboardService
	settings      models.ShopSettings
	version       string
	environment   string
	exposeDetails bool
}

// NewSystemHandler creates a SystemHandler.
func NewSystemHandler(store Pinger, dashboard *services.DashboardService, settings models.ShopSettings, version, environment string, exposeDetails bool) *SystemHandler {
	return &SystemHandler{
		store:         store,
		dashboard:     dashboard,
		settings:      settings,
		version:       version,
		environment:   environment,
		exposeDetails: exposeDetails,
	}
}

// Ping answers liveness checks.
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Health reports the service version and whether the store answers. An unreachable
// store yields 503 so load balancers stop routing to the instance.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:      "ok",
		Version:     h.version,
		Timestamp:   time.Now().UTC(),
		Database:    "connected",
		Environment: h.environment,
	}
	code := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		utils.LogWarn("Health check: database unreachable", map[string]interface{}{"error": err.Error()})
		status.Status = "degraded"
		status.Database = "disconnected"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

// Settings returns the shop settings.
func (h *SystemHandler) Settings(c *gin.Context) {
	utils.RespondSuccess(c, h.settings, "")
}

// Validate checks a JSON object against the named schema without storing anything.
func (h *SystemHandler) Validate(c *gin.Context) {
	name := c.Param("schema")
	input, ok := bindObject(c, "Validate")
	if !ok {
		return
	}
	value, verr, err := validation.ValidateByName(name, input)
	if errors.Is(err, validation.ErrUnknownSchema) {
		utils.RespondNotFound(c, "Schema "+name)
		return
	}
	if verr != nil {
		utils.RespondValidationFailed(c, verr.Fields())
		return
	}
	utils.RespondSuccess(c, value, "Validation passed")
}

// Schemas lists the names accepted by Validate.
func (h *SystemHandler) Schemas(c *gin.Context) {
	utils.RespondSuccess(c, validation.SchemaNames(), "")
}

// DashboardSummary returns the active record counts.
func (h *SystemHandler) DashboardSummary(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, summary, "")
}
