// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/toastshop/backend-go/internal/api"
	"github.com/andresuchdata/toastshop/backend-go/internal/cache"
	"github.com/andresuchdata/toastshop/backend-go/internal/config"
	"github.com/andresuchdata/toastshop/backend-go/internal/procurement"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository/memory"
	"github.com/andresuchdata/toastshop/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/toastshop/backend-go/internal/service"
	"github.com/andresuchdata/toastshop/backend-go/internal/storage"
	"github.com/andresuchdata/toastshop/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.Configure(cfg.Log.Format, cfg.Log.Level)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	// Initialize store
	var store repository.Store
	if cfg.Server.Demo {
		logger.Log.Warn().Msg("demo mode: serving a seeded in-memory store")
		store = memory.NewSeeded(time.Now())
	} else {
		db, err := postgres.NewDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()

		if err := db.EnsureSchema(ctx); err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to apply schema")
		}
		store = postgres.NewStore(db)
	}

	planCache, err := cache.NewPlanCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Redis unavailable, caching disabled")
		planCache = cache.NewNoopPlanCache()
	}

	var objects storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewS3Client(ctx, cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, uploads disabled")
		} else {
			objects = client
		}
	}

	// Initialize services
	notifier := service.NewLogNotifier(logger.Component("notifier"), true)
	opts := procurement.Options{
		ShippingFee:    cfg.Planner.ShippingFee,
		CostPerKm:      cfg.Planner.CostPerKm,
		OnlineLeadDays: cfg.Planner.OnlineLeadDays,
	}
	procurementService := service.NewProcurementService(store, planCache, notifier, opts)

	router := api.NewRouter(&api.Services{
		SimulationService:  service.NewSimulationService(store, planCache),
		ProcurementService: procurementService,
		ExportService:      service.NewExportService(procurementService, objects, notifier),
		DefaultShopID:      cfg.Server.ShopID,
	}, cfg.Server.AllowedOrigins)

	// Initialize HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Str("shop_id", cfg.Server.ShopID).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
