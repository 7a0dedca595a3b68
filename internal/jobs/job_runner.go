package jobs

import (
	"context"
	"time"

	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/repository"
	"appliance-rental-backend/internal/service"
)

const jobTimeout = 5 * time.Minute

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	rentals  repository.RentalRepository
	users    repository.UserRepository
	services *Services
	config   *config.Config
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Catalog  service.CatalogService
	Notifier service.Notifier
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(rentals repository.RentalRepository, users repository.UserRepository, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		rentals:  rentals,
		users:    users,
		services: services,
		config:   cfg,
		now:      time.Now,
	}
}

// Config exposes the configuration the scheduler reads cron specs from
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery and a deadline
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration", time.Since(start))
		return
	}
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SendReturnReminders()
	jr.RefreshProviderRatings()
	jr.WarmListingCache()
}
