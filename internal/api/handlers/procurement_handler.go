package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/export"
	"github.com/andresuchdata/toastshop/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type ProcurementHandler struct {
	procurement *service.ProcurementService
	exports     *service.ExportService
	shopID      string
}

func NewProcurementHandler(procurement *service.ProcurementService, exports *service.ExportService, defaultShopID string) *ProcurementHandler {
	return &ProcurementHandler{procurement: procurement, exports: exports, shopID: defaultShopID}
}

type planRequest struct {
	ShopID    string           `json:"shop_id"`
	Overrides domain.Overrides `json:"overrides"`
}

type overrideRequest struct {
	SupplierID string `json:"supplier_id" binding:"required"`
}

func (h *ProcurementHandler) GetNeeds(c *gin.Context) {
	needs, err := h.procurement.Needs(c.Request.Context(), shopIDFrom(c, h.shopID))
	if err != nil {
		respondError(c, "failed to detect needs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": needs, "total": len(needs)})
}

// CreatePlan runs a planning pass. An empty body plans the default shop with
// the stored overrides only.
func (h *ProcurementHandler) CreatePlan(c *gin.Context) {
	var req planRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan request", "details": err.Error()})
			return
		}
	}

	shopID := strings.TrimSpace(req.ShopID)
	if shopID == "" {
		shopID = shopIDFrom(c, h.shopID)
	}

	plan, err := h.procurement.Plan(c.Request.Context(), shopID, req.Overrides)
	if err != nil {
		respondError(c, "failed to build plan", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"plan":   plan,
		"routes": plan.Routes(),
		"total":  plan.Total(),
	})
}

func (h *ProcurementHandler) SetOverride(c *gin.Context) {
	itemID := c.Param("item_id")

	var req overrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "supplier_id is required", "details": err.Error()})
		return
	}

	if err := h.procurement.SetOverride(c.Request.Context(), itemID, req.SupplierID); err != nil {
		respondError(c, "failed to set override", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item_id": itemID, "supplier_id": req.SupplierID})
}

func (h *ProcurementHandler) ClearOverride(c *gin.Context) {
	if err := h.procurement.ClearOverride(c.Request.Context(), c.Param("item_id")); err != nil {
		respondError(c, "failed to clear override", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportPlan streams the shopping list of a fresh plan as a file download.
func (h *ProcurementHandler) ExportPlan(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export format", "details": err.Error()})
		return
	}
	upload, _ := strconv.ParseBool(c.DefaultQuery("upload", "false"))

	res, err := h.exports.Export(c.Request.Context(), shopIDFrom(c, h.shopID), nil, format, upload)
	if err != nil {
		respondError(c, "failed to export plan", err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+res.Filename+"\"")
	c.Header("X-Plan-ID", res.PlanID)
	if res.StorageKey != "" {
		c.Header("X-Storage-Key", res.StorageKey)
	}
	c.Data(http.StatusOK, res.ContentType, res.Data)
}
