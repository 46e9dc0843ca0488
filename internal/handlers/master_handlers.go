package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"hardware_shop_backend/internal/services"
	"hardware_shop_backend/pkg/utils"
)

// MasterHandler serves the CRUD routes of one master-data entity.
type MasterHandler[T any] struct {
	svc           *services.MasterService[T]
	exposeDetails bool
}

// NewMasterHandler creates a MasterHandler. exposeDetails adds error causes to 500 responses.
func NewMasterHandler[T any](svc *services.MasterService[T], exposeDetails bool) *MasterHandler[T] {
	return &MasterHandler[T]{svc: svc, exposeDetails: exposeDetails}
}

// Register mounts the entity routes on rg. write guards every route that changes data.
func (h *MasterHandler[T]) Register(rg *gin.RouterGroup, write ...gin.HandlerFunc) {
	guarded := func(hf gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, write...), hf)
	}
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.POST("", guarded(h.Create)...)
	rg.POST("/batch", guarded(h.CreateBatch)...)
	rg.PUT("/batch", guarded(h.UpdateBatch)...)
	rg.PUT("/:id", guarded(h.Replace)...)
	rg.PATCH("/:id", guarded(h.Patch)...)
	rg.DELETE("/:id", guarded(h.Delete)...)
}

// List handles GET with equality filters from the query string plus order_by and ascending.
func (h *MasterHandler[T]) List(c *gin.Context) {
	opts := services.ListOptions{Filters: map[string]string{}}
	for key, values := range c.Request.URL.Query() {
		switch key {
		case "order_by":
			opts.OrderBy = strings.TrimSpace(values[0])
		case "ascending":
			asc, err := strconv.ParseBool(values[0])
			if err != nil {
				utils.RespondBadRequest(c, "ascending must be true or false", nil)
				return
			}
			opts.Ascending = &asc
		default:
			opts.Filters[key] = values[0]
		}
	}

	utils.LogDebug("List "+h.svc.Label(), map[string]interface{}{"filters": opts.Filters, "order_by": opts.OrderBy})
	records, err := h.svc.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, records, "")
}

// Get handles GET /:id.
func (h *MasterHandler[T]) Get(c *gin.Context) {
	id, ok := bindID(c, h.svc.Label())
	if !ok {
		return
	}
	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, record, "")
}

// Create handles POST.
func (h *MasterHandler[T]) Create(c *gin.Context) {
	input, ok := bindObject(c, "Create"+h.svc.Label())
	if !ok {
		return
	}
	record, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondCreated(c, record, h.svc.Label()+" created successfully")
}

// Replace handles PUT /:id.
func (h *MasterHandler[T]) Replace(c *gin.Context) {
	id, ok := bindID(c, h.svc.Label())
	if !ok {
		return
	}
	input, ok := bindObject(c, "Replace"+h.svc.Label())
	if !ok {
		return
	}
	record, err := h.svc.Replace(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, record, h.svc.Label()+" updated successfully")
}

// Patch handles PATCH /:id.
func (h *MasterHandler[T]) Patch(c *gin.Context) {
	id, ok := bindID(c, h.svc.Label())
	if !ok {
		return
	}
	input, ok := bindObject(c, "Patch"+h.svc.Label())
	if !ok {
		return
	}
	record, err := h.svc.Patch(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, record, h.svc.Label()+" updated successfully")
}

// Delete handles DELETE /:id.
func (h *MasterHandler[T]) Delete(c *gin.Context) {
	id, ok := bindID(c, h.svc.Label())
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, nil, h.svc.Label()+" deleted successfully")
}

// CreateBatch handles POST /batch with a JSON array of records.
func (h *MasterHandler[T]) CreateBatch(c *gin.Context) {
	var inputs []map[string]any
	if err := decodeBody(c, &inputs); err != nil {
		utils.RespondBadRequest(c, "Invalid request payload", err.Error())
		return
	}
	if len(inputs) == 0 {
		utils.RespondBadRequest(c, "At least one record is required", nil)
		return
	}
	records, err := h.svc.CreateBatch(c.Request.Context(), inputs)
	if err != nil {
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondCreated(c, records, strconv.Itoa(len(records))+" records created")
}

// UpdateBatch handles PUT /batch with a JSON array of {"id": ..., "data": {...}}.
func (h *MasterHandler[T]) UpdateBatch(c *gin.Context) {
	var inputs []services.BatchUpdateInput
	if err := decodeBody(c, &inputs); err != nil {
		utils.RespondBadRequest(c, "Invalid request payload", err.Error())
		return
	}
	if len(inputs) == 0 {
		utils.RespondBadRequest(c, "At least one change is required", nil)
		return
	}
	for i := range inputs {
		id, err := utils.ParseID(inputs[i].ID)
		if err != nil {
			utils.RespondBadRequest(c, "Invalid "+h.svc.Label()+" ID format", gin.H{"index": i})
			return
		}
		inputs[i].ID = id
	}

	records, err := h.svc.UpdateBatch(c.Request.Context(), inputs)
	if err != nil {
		if len(records) > 0 {
			utils.LogWarn("UpdateBatch: stopped after partial success", map[string]interface{}{
				"entity":  h.svc.Label(),
				"applied": len(records),
			})
		}
		respondError(c, err, h.exposeDetails)
		return
	}
	utils.RespondSuccess(c, records, strconv.Itoa(len(records))+" records updated")
}
