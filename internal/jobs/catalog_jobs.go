package jobs

import (
	"context"
	"fmt"

	"appliance-rental-backend/internal/logger"
)

// WarmListingCache rebuilds the cached popular, featured and brand views
func (jr *JobRunner) WarmListingCache() {
	jr.runWithRecovery("WarmListingCache", func(ctx context.Context) error {
		return jr.services.Catalog.WarmCache(ctx)
	})
}

// RefreshProviderRatings recomputes provider ratings from appliance reviews
func (jr *JobRunner) RefreshProviderRatings() {
	jr.runWithRecovery("RefreshProviderRatings", func(ctx context.Context) error {
		n, err := jr.users.RefreshProviderRatings(ctx)
		if err != nil {
			return fmt.Errorf("failed to refresh provider ratings: %w", err)
		}
		logger.Info("Refreshed provider ratings", "updated", n)
		return nil
	})
}
