package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "keyportal-backend/internal/api/http"
	"keyportal-backend/internal/config"
	"keyportal-backend/internal/logger"
	"keyportal-backend/internal/repository/postgres"
	"keyportal-backend/internal/security"
	"keyportal-backend/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Keyportal Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)

	// Initialize Services
	authSvc := service.NewAuthService(store.OperatorRepository, tokenManager)
	inventorySvc := service.NewInventoryService(
		store.KeyRepository,
		store.CardRepository,
		store.LoanRepository,
		store.EventRepository,
		cfg.KeyPolicy.UndoWindow(),
	)
	loanSvc := service.NewLoanService(
		store.LoanRepository,
		store.KeyRepository,
		store.CardRepository,
		store.LeaseRepository,
		store.ContactRepository,
		store.ReceiptRepository,
	)
	transferSvc := service.NewTransferService(store.LoanRepository, store.KeyRepository, loanSvc)
	flexSvc := service.NewFlexService(
		store.KeyRepository,
		store.EventRepository,
		emailSvc,
		cfg.SendGrid.NotifyEmail,
		cfg.KeyPolicy.MaxFlexNumber,
		cfg.KeyPolicy.DefaultFlexBatchCount,
	)
	reconcileSvc := service.NewReconciliationService(
		store.EventRepository,
		store.KeyRepository,
		store.LoanRepository,
		emailSvc,
		cfg.SendGrid.NotifyEmail,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Set up router
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Inventory:      inventorySvc,
		Loans:          loanSvc,
		Transfers:      transferSvc,
		Flex:           flexSvc,
		Reconciliation: reconcileSvc,
		Notifications:  noteSvc,
		Auth:           authSvc,
		Tokens:         tokenManager,
	})

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server stopped")
}
