package jobs

import (
	"context"
	"fmt"
	"time"

	"appliance-rental-backend/internal/logger"
)

const day = 24 * time.Hour

// SendReturnReminders notifies renters and providers of APPROVED or ACTIVE
// rentals ending exactly ReminderDays from today (UTC). The job runs daily, so
// every rental is reminded once.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", jr.sendReturnReminders)
}

func (jr *JobRunner) sendReturnReminders(ctx context.Context) error {
	days := jr.config.Rental.ReminderDays
	from := jr.now().UTC().Truncate(day).Add(time.Duration(days) * day)
	to := from.Add(day)

	rentals, err := jr.rentals.ListEndingBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to list rentals ending soon: %w", err)
	}

	for _, rt := range rentals {
		endDate := rt.EndDate.Format("2006-01-02")
		attrs := map[string]string{
			"rental_id":    rt.ID,
			"appliance_id": rt.ApplianceID,
			"end_date":     endDate,
		}
		jr.services.Notifier.Notify(ctx, rt.UserID, "Return Reminder",
			fmt.Sprintf("Your rental ends on %s. Please arrange the return with the provider.", endDate), attrs)
		jr.services.Notifier.Notify(ctx, rt.ProviderID, "Rental Ending Soon",
			fmt.Sprintf("A rental of your appliance ends on %s.", endDate), attrs)
		logger.Debug("Sent return reminder", "rental_id", rt.ID, "end_date", endDate)
	}

	logger.Info("Sent return reminders", "count", len(rentals), "from", from, "to", to)
	return nil
}
