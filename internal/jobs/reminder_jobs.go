package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"keyportal-backend/internal/domain"
	"keyportal-backend/internal/logger"
)

// RemindStaleOrders emails the configured notify address about key
// orders that have sat in ORDERED longer than the configured age, and
// drops an in-portal notification for every operator.
func (jr *JobRunner) RemindStaleOrders() {
	jr.runWithRecovery("RemindStaleOrders", func() {
		ctx := context.Background()
		cutoff := time.Now().AddDate(0, 0, -jr.config.Scheduler.StaleOrderAgeDays)

		events, err := jr.store.EventRepository.ListOrderedOlderThan(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to query stale orders", "error", err)
			return
		}
		if len(events) == 0 {
			logger.Info("No stale orders found")
			return
		}

		operators, err := jr.store.OperatorRepository.List(ctx)
		if err != nil {
			logger.Error("Failed to list operators", "error", err)
			return
		}

		count := 0
		for i := range events {
			event := &events[i]

			if jr.config.SendGrid.NotifyEmail != "" {
				if err := jr.services.Email.SendStaleOrderNotification(ctx, jr.config.SendGrid.NotifyEmail, event); err != nil {
					logger.Error("Failed to send stale order email",
						"event_id", event.ID,
						"error", err)
				}
			}

			for _, op := range operators {
				note := &domain.Notification{
					OperatorID: op.ID,
					Title:      "Key order still outstanding",
					Message: fmt.Sprintf("A %s order from %s covering %d key(s) has not been marked received.",
						event.Type, event.CreatedOn.Format("2006-01-02"), len(event.KeyIDs)),
					Attributes: map[string]string{
						"event_id":   strconv.Itoa(int(event.ID)),
						"event_type": string(event.Type),
					},
				}
				if err := jr.store.NotificationRepository.Create(ctx, note); err != nil {
					logger.Error("Failed to create stale order notification",
						"event_id", event.ID,
						"operator_id", op.ID,
						"error", err)
				}
			}

			count++
			logger.Debug("Flagged stale order", "event_id", event.ID, "created_on", event.CreatedOn)
		}

		logger.Info("Stale order reminders sent", "count", count)
	})
}

// RemindUnretrievedLoans nudges contacts whose keys have been waiting
// at the counter past the configured age without being picked up.
func (jr *JobRunner) RemindUnretrievedLoans() {
	jr.runWithRecovery("RemindUnretrievedLoans", func() {
		ctx := context.Background()
		cutoff := time.Now().AddDate(0, 0, -jr.config.Scheduler.UnretrievedAgeDays)

		loans, err := jr.store.LoanRepository.ListUnretrieved(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to query unretrieved loans", "error", err)
			return
		}

		count := 0
		for i := range loans {
			loan := &loans[i]

			contact, err := jr.store.ContactRepository.GetByCode(ctx, loan.ContactCode)
			if err != nil {
				logger.Error("Failed to load contact for pickup reminder",
					"loan_id", loan.ID,
					"contact_code", loan.ContactCode,
					"error", err)
				continue
			}
			if contact.Email == "" {
				logger.Debug("Contact has no email, skipping pickup reminder",
					"loan_id", loan.ID,
					"contact_code", loan.ContactCode)
				continue
			}

			if err := jr.services.Email.SendPickupReminder(ctx, contact.Email, contact.Name, loan.RentalObjectCode, loan.CreatedAt); err != nil {
				logger.Error("Failed to send pickup reminder",
					"loan_id", loan.ID,
					"email", contact.Email,
					"error", err)
				continue
			}

			count++
			logger.Debug("Sent pickup reminder", "loan_id", loan.ID, "contact_code", loan.ContactCode)
		}

		logger.Info("Pickup reminders sent", "count", count)
	})
}
