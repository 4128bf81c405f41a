package handlers

import (
	"net/http"

	"github.com/andresuchdata/toastshop/backend-go/internal/domain"
	"github.com/andresuchdata/toastshop/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type SimulationHandler struct {
	service *service.SimulationService
	shopID  string
}

func NewSimulationHandler(service *service.SimulationService, defaultShopID string) *SimulationHandler {
	return &SimulationHandler{service: service, shopID: defaultShopID}
}

// GetCurrent returns the financials of the stored parameters.
func (h *SimulationHandler) GetCurrent(c *gin.Context) {
	result, err := h.service.Current(c.Request.Context(), shopIDFrom(c, h.shopID))
	if err != nil {
		respondError(c, "failed to run simulation", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Simulate runs the model on posted parameters without storing them.
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var params domain.BusinessParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business parameters", "details": err.Error()})
		return
	}

	result, err := h.service.Simulate(c.Request.Context(), &params)
	if err != nil {
		respondError(c, "failed to run simulation", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *SimulationHandler) GetParameters(c *gin.Context) {
	params, err := h.service.Parameters(c.Request.Context(), shopIDFrom(c, h.shopID))
	if err != nil {
		respondError(c, "failed to fetch business parameters", err)
		return
	}
	c.JSON(http.StatusOK, params)
}

func (h *SimulationHandler) PutParameters(c *gin.Context) {
	var params domain.BusinessParameters
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid business parameters", "details": err.Error()})
		return
	}

	shopID := shopIDFrom(c, h.shopID)
	if err := h.service.SaveParameters(c.Request.Context(), shopID, &params); err != nil {
		respondError(c, "failed to save business parameters", err)
		return
	}

	result, err := h.service.Simulate(c.Request.Context(), &params)
	if err != nil {
		respondError(c, "failed to run simulation", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"shop_id": shopID, "parameters": params, "result": result})
}
