package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ikkim/shopstats-backend/config"
	"github.com/ikkim/shopstats-backend/internal/app/controller"
	"github.com/ikkim/shopstats-backend/internal/app/service"
	"github.com/ikkim/shopstats-backend/internal/db"
	"github.com/ikkim/shopstats-backend/internal/router"
	"github.com/ikkim/shopstats-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := cfg.LogLevel()
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      cfg.Log.Format,
		EnableColor: cfg.Log.Format == "console",
	})

	logger.Info("Starting shop statistics API server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database; an unloaded sqlite store is served as not found
	if err := db.Initialize(&cfg.Database); err != nil {
		if !errors.Is(err, db.ErrStoreNotFound) {
			logger.Fatal("Failed to initialize database", err)
		}
		logger.Warn("Store has not been loaded yet; run the loader first", map[string]interface{}{
			"path": cfg.Database.Path,
		})
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// the sqlite file must exist for the store to count as connected
	storePath := ""
	if cfg.Database.Driver == config.DriverSQLite {
		storePath = cfg.Database.Path
	}

	// Initialize services
	healthService := service.NewHealthService(db.GetDB(), storePath)
	customerService := service.NewCustomerService(db.GetDB())
	orderService := service.NewOrderService(db.GetDB())
	statsService := service.NewStatsService(db.GetDB())

	// Initialize controllers
	healthController := controller.NewHealthController(healthService)
	customerController := controller.NewCustomerController(customerService)
	orderController := controller.NewOrderController(orderService)
	statsController := controller.NewStatsController(statsService)

	// Setup router
	r := router.NewRouter(
		healthController,
		customerController,
		orderController,
		statsController,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
