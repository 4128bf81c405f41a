// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/api/handlers"
	"github.com/andresuchdata/toastshop/backend-go/internal/api/middleware"
	"github.com/andresuchdata/toastshop/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	SimulationService  *service.SimulationService
	ProcurementService *service.ProcurementService
	ExportService      *service.ExportService
	// DefaultShopID is used when a request names no shop.
	DefaultShopID string
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Plan-ID", "X-Storage-Key"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.SimulationService != nil {
			simulationHandler := handlers.NewSimulationHandler(services.SimulationService, services.DefaultShopID)
			simulationGroup := apiGroup.Group("/simulation")
			{
				simulationGroup.GET("", simulationHandler.GetCurrent)
				simulationGroup.POST("", simulationHandler.Simulate)
				simulationGroup.GET("/parameters", simulationHandler.GetParameters)
				simulationGroup.PUT("/parameters", simulationHandler.PutParameters)
			}
		}

		if services.ProcurementService != nil {
			procurementHandler := handlers.NewProcurementHandler(services.ProcurementService, services.ExportService, services.DefaultShopID)
			procurementGroup := apiGroup.Group("/procurement")
			{
				procurementGroup.GET("/needs", procurementHandler.GetNeeds)
				procurementGroup.POST("/plan", procurementHandler.CreatePlan)
				procurementGroup.PUT("/overrides/:item_id", procurementHandler.SetOverride)
				procurementGroup.DELETE("/overrides/:item_id", procurementHandler.ClearOverride)
				if services.ExportService != nil {
					procurementGroup.GET("/plan/export", procurementHandler.ExportPlan)
				}
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
