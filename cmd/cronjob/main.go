package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"appliance-rental-backend/internal/cache"
	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/jobs"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository/postgres"
	"appliance-rental-backend/internal/scheduler"
	"appliance-rental-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit ('send-return-reminders', 'warm-listing-cache', 'refresh-provider-ratings', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Appliance Rental Cronjob Runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.PingContext(ctx); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	listingCache := cache.NewNoopCache()
	if cfg.Redis.URL != "" {
		redisCache, client, err := cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			logger.Error("Failed to connect to Redis, cache warm-up disabled", "error", err)
		} else {
			defer client.Close()
			listingCache = redisCache
		}
	}

	// Initialize Services
	emailSvc := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	pushSvc := service.NewNoopPushService()
	if cfg.Firebase.Enabled {
		pushSvc, err = service.NewPushService(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize push notifications: %v", err)
		}
	}

	jobServices := &jobs.Services{
		Catalog:  service.NewCatalogService(store.ApplianceRepository, listingCache, cfg.Rental),
		Notifier: service.NewNotifier(store.NotificationRepository, store.UserRepository, emailSvc, pushSvc),
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(store.RentalRepository, store.UserRepository, jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-return-reminders":
		jobRunner.SendReturnReminders()
	case "warm-listing-cache":
		jobRunner.WarmListingCache()
	case "refresh-provider-ratings":
		jobRunner.RefreshProviderRatings()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		os.Exit(1)
	}
}
