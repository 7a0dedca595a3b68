package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "appliance-rental-backend/internal/api/grpc"
	httpapi "appliance-rental-backend/internal/api/http"
	"appliance-rental-backend/internal/cache"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/payment"
	"appliance-rental-backend/internal/repository/postgres"
	"appliance-rental-backend/internal/security"
	"appliance-rental-backend/internal/service"
	"appliance-rental-backend/internal/storage"
	"appliance-rental-backend/internal/telemetry"

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
	logger.Info("Starting Appliance Rental Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http_address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize tracing
	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	// Initialize Database
	logger.Debug("Connecting to database...", "connection_string", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database))
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	if cfg.Database.AutoMigrate {
		if err := store.Migrate(ctx); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
		logger.Info("Database schema applied")
	}

	// Initialize listing cache
	listingCache := cache.NewNoopCache()
	if cfg.Redis.URL != "" {
		redisCache, client, err := cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			logger.Error("Failed to connect to Redis, listing cache disabled", "error", err)
		} else {
			defer client.Close()
			listingCache = redisCache
			logger.Info("Redis listing cache enabled", "ttl", cfg.Redis.TTL)
		}
	}

	// Initialize Storage Service
	storageService, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)
	localFiles, _ := storageService.(storage.LocalFiles)

	// Initialize payment gateway
	var gateway payment.Gateway
	if cfg.Stripe.SecretKey != "" {
		breaker := payment.NewCircuitBreaker(cfg.Stripe.FailureThreshold, cfg.Stripe.OpenTimeout)
		gateway = payment.NewStripeGateway(cfg.Stripe.SecretKey, cfg.Stripe.Currency, breaker)
		logger.Info("Using Stripe payment gateway", "currency", cfg.Stripe.Currency)
	} else {
		gateway = payment.NewDevGateway(cfg.Stripe.Currency)
		logger.Warn("No Stripe key configured, using development payment gateway")
	}

	// Initialize delivery channels
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	pushSvc := service.NewNoopPushService()
	if cfg.Firebase.Enabled {
		pushSvc, err = service.NewPushService(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize push notifications: %v", err)
		}
	}
	notifier := service.NewNotifier(store.NotificationRepository, store.UserRepository, emailSvc, pushSvc)

	// Initialize Security
	accessExpiry := time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute
	refreshExpiry := time.Duration(cfg.JWT.RefreshTokenExpiry) * time.Minute
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, accessExpiry, refreshExpiry)

	// Initialize Services
	catalogSvc := service.NewCatalogService(store.ApplianceRepository, listingCache, cfg.Rental)
	services := httpapi.Services{
		Auth:         service.NewAuthService(store.UserRepository, tokenManager, accessExpiry),
		User:         service.NewUserService(store.UserRepository),
		Appliance:    service.NewApplianceService(store, store.ApplianceRepository, store.CategoryRepository, listingCache, cfg.Rental),
		Catalog:      catalogSvc,
		Category:     service.NewCategoryService(store.CategoryRepository),
		Rental:       service.NewRentalService(store, store.RentalRepository, store.CartRepository, gateway, notifier, listingCache, cfg.Rental),
		Review:       service.NewReviewService(store, store.ReviewRepository, listingCache, cfg.Rental),
		Cart:         service.NewCartService(store.CartRepository, store.ApplianceRepository),
		Notification: service.NewNotificationService(store.NotificationRepository),
		Admin:        service.NewAdminService(store.UserRepository, store.RentalRepository, store.StatsRepository, notifier),
		Payment:      service.NewPaymentService(catalogSvc, gateway),
		Image:        service.NewImageStorageService(storageService, cfg.Storage),
	}

	// Set up HTTP server
	httpServer := &http.Server{
		Addr: cfg.GetServerAddress(),
		Handler: httpapi.NewRouter(httpapi.RouterConfig{
			Services:    services,
			Tokens:      tokenManager,
			Files:       localFiles,
			Storage:     cfg.Storage,
			ServiceName: cfg.Telemetry.ServiceName,
		}),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Set up gRPC health server
	grpcServer, healthServer := grpcapi.NewServer()
	lis, err := net.Listen("tcp", cfg.GetGRPCAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetGRPCAddress())
		log.Fatalf("Failed to listen: %v", err)
	}
	go grpcapi.WatchDatabase(ctx, healthServer, db, cfg.GRPC.HealthInterval)

	errCh := make(chan error, 2)
	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetGRPCAddress())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc: %w", err)
		}
	}()
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}
	stop()

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	grpcServer.GracefulStop()
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error("Telemetry shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
