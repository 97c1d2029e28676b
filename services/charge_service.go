package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edupay/enrollment-backend/gateway"
	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/repository"
	"github.com/edupay/enrollment-backend/utils"
)

// GatewayClient is the subset of the gateway API the charge flow needs.
type GatewayClient interface {
	Authenticate(ctx context.Context) (string, error)
	CreateCharge(ctx context.Context, token string, req gateway.ChargeRequest) (*gateway.Charge, error)
	CreateSplit(ctx context.Context, token, chargeID string, entries []gateway.SplitEntry) error
	ListPaymentMethods(ctx context.Context, token string) ([]gateway.PaymentMethod, error)
}

// ChargeService creates charges at the payment gateway for local payment
// installments and pushes any configured split along with them.
type ChargeService struct {
	store           repository.Store
	client          GatewayClient
	gatewayName     string
	notificationURL string
	logger          *zap.Logger
}

// NewChargeService creates a new charge service
func NewChargeService(store repository.Store, client GatewayClient, gatewayName, notificationURL string, logger *zap.Logger) *ChargeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChargeService{
		store:           store,
		client:          client,
		gatewayName:     gatewayName,
		notificationURL: notificationURL,
		logger:          logger,
	}
}

// CreateCharge issues the external charge for one payment. A charge is
// refused while a live integration record exists for the payment, so a
// caller retry cannot create a duplicate external charge.
func (s *ChargeService) CreateCharge(ctx context.Context, paymentID string) (*models.GatewayIntegrationRecord, error) {
	payment, err := s.store.GetPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusPaid {
		return nil, utils.NewInvalidStatusError("payment is already paid")
	}

	existing, err := s.store.GetIntegrationByPaymentID(paymentID)
	if err != nil && !utils.IsNotFound(err) {
		return nil, err
	}
	if existing != nil && existing.Status != models.IntegrationStatusFailed &&
		existing.Status != models.IntegrationStatusExpired {
		return nil, utils.NewInvalidStatusError("a charge was already requested for this payment")
	}

	enrollment, err := s.store.GetEnrollmentByID(payment.EnrollmentID)
	if err != nil {
		return nil, err
	}

	token, err := s.client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	charge, err := s.client.CreateCharge(ctx, token, gateway.ChargeRequest{
		CustomerName:      enrollment.StudentName,
		CustomerEmail:     enrollment.StudentEmail,
		Amount:            payment.Amount,
		DueDate:           payment.DueDate.Format("2006-01-02"),
		BillingType:       payment.PaymentMethod,
		ExternalReference: payment.ID,
		NotificationURL:   s.notificationURL,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	rec := &models.GatewayIntegrationRecord{
		ID:              uuid.NewString(),
		PaymentID:       payment.ID,
		Gateway:         s.gatewayName,
		GatewayChargeID: charge.ID,
		Status:          models.IntegrationStatusCreated,
		LastPayload:     charge.RawResponse,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	err = s.store.InTx(func(tx repository.Store) error {
		if err := tx.CreateIntegration(rec); err != nil {
			return err
		}
		return tx.SetPaymentGatewayCharge(payment.ID, charge.ID, charge.RawResponse)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("charge created",
		zap.String("payment_id", payment.ID),
		zap.String("charge_id", charge.ID),
	)

	// Push the split configuration, if one exists, to the gateway.
	splits, err := s.store.GetSplitsByPaymentID(payment.ID)
	if err != nil {
		return nil, err
	}
	if len(splits) > 0 {
		entries := make([]gateway.SplitEntry, 0, len(splits))
		for _, split := range splits {
			entry := gateway.SplitEntry{RecipientID: split.RecipientID}
			if split.Percentage != nil {
				pct := *split.Percentage
				entry.Percentage = &pct
			} else {
				amount := split.Amount
				entry.Amount = &amount
			}
			entries = append(entries, entry)
		}
		if err := s.client.CreateSplit(ctx, token, charge.ID, entries); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// ListPaymentMethods returns the gateway's enabled payment methods.
func (s *ChargeService) ListPaymentMethods(ctx context.Context) ([]gateway.PaymentMethod, error) {
	token, err := s.client.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	return s.client.ListPaymentMethods(ctx, token)
}
