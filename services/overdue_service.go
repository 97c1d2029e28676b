package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/edupay/enrollment-backend/notify"
	"github.com/edupay/enrollment-backend/repository"
)

// Notifier dispatches payment reminders through the external notification
// collaborator.
type Notifier interface {
	SendPaymentReminder(ctx context.Context, reminder notify.Reminder) error
}

// OverdueService scans for payments whose due date passed without a paid
// date. The scan itself performs the pending-to-overdue transition and then
// dispatches one reminder per payment.
type OverdueService struct {
	store    repository.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewOverdueService creates a new overdue-payment service
func NewOverdueService(store repository.Store, notifier Notifier, logger *zap.Logger) *OverdueService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueService{store: store, notifier: notifier, logger: logger}
}

// Scan marks every overdue payment and returns the count of reminders
// successfully dispatched. Notification failures are logged and skipped;
// they do not roll back the status transition.
func (s *OverdueService) Scan(ctx context.Context) (int, error) {
	payments, err := s.store.MarkPaymentsOverdue(time.Now())
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, payment := range payments {
		err := s.notifier.SendPaymentReminder(ctx, notify.Reminder{
			PaymentID:    payment.ID,
			EnrollmentID: payment.EnrollmentID,
			Amount:       payment.Amount,
			DueDate:      payment.DueDate,
		})
		if err != nil {
			s.logger.Warn("payment reminder failed",
				zap.String("payment_id", payment.ID),
				zap.Error(err),
			)
			continue
		}
		sent++
	}

	s.logger.Info("overdue scan finished",
		zap.Int("marked_overdue", len(payments)),
		zap.Int("reminders_sent", sent),
	)
	return sent, nil
}
