package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/atm_ledger/internal/adapters"
	"github.com/SscSPs/atm_ledger/internal/core/services"
	"github.com/SscSPs/atm_ledger/internal/handlers"
	"github.com/SscSPs/atm_ledger/pkg/config"
	"github.com/gin-gonic/gin"
)

// @title ATM Ledger API
// @version 1.0
// @description Cashier operations over a single account ledger.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx := context.Background()

	store, closeStore, err := adapters.NewLedgerStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	engine, err := services.NewAccountEngine(ctx, store,
		services.WithLogger(logger),
		services.WithHistoryDefault(cfg.HistoryDefaultCount),
		services.WithReconcileOnLoad(cfg.ReconcileOnLoad),
	)
	if err != nil {
		logger.Error("Failed to start account engine", slog.String("error", err.Error()))
		os.Exit(1)
	}

	created, err := engine.EnsureDemoAccount(ctx)
	if err != nil {
		logger.Error("Failed to create demo account", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if created {
		logger.Warn("Account directory was empty, demo account created")
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := handlers.NewRouter(cfg, engine, logger)
	if err != nil {
		logger.Error("Failed to set up routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("store", cfg.StoreBackend))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
