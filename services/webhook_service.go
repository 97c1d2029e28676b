package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/repository"
	"github.com/edupay/enrollment-backend/utils"
)

// WebhookService validates signed gateway callbacks and dispatches them to
// per-event handlers. Record state machine:
// created -> approved | failed -> refunded | chargeback, created -> expired;
// refunded, chargeback and expired are terminal.
//
// Processing for one charge id is serialized with a keyed lock, and every
// multi-row transition runs inside a single database transaction.
type WebhookService struct {
	store    repository.Store
	verifier *utils.SignatureVerifier
	locks    *utils.KeyedMutex
	logger   *zap.Logger
}

// NewWebhookService creates a new webhook service
func NewWebhookService(store repository.Store, verifier *utils.SignatureVerifier, logger *zap.Logger) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookService{
		store:    store,
		verifier: verifier,
		locks:    utils.NewKeyedMutex(),
		logger:   logger,
	}
}

// HandleEvent parses the envelope, verifies the signature over the raw
// body and applies the event, in that order: a malformed payload is a 400
// even when its signature is also wrong. The returned error carries the
// HTTP status to surface (400/401/404/409); anything else maps to 500.
func (s *WebhookService) HandleEvent(gateway string, body []byte, signature string) error {
	var envelope models.WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return utils.NewBadRequestError(utils.ErrInvalidPayload)
	}
	if envelope.Event == "" || envelope.Data.ID == "" {
		return utils.NewBadRequestError(utils.ErrInvalidPayload)
	}

	if err := s.verifier.Verify(gateway, body, signature); err != nil {
		s.logger.Warn("webhook signature rejected", zap.String("gateway", gateway))
		return err
	}

	// Concurrent deliveries for the same charge must not interleave.
	unlock := s.locks.Lock(gateway + ":" + envelope.Data.ID)
	defer unlock()

	s.logger.Info("webhook received",
		zap.String("gateway", gateway),
		zap.String("event", envelope.Event),
		zap.String("charge_id", envelope.Data.ID),
	)

	switch envelope.Event {
	case models.EventPaymentCreated:
		return s.handleCreated(gateway, envelope, body)
	case models.EventPaymentApproved, models.EventBoletoPaid:
		return s.handleApproved(gateway, envelope, body)
	case models.EventPaymentFailed:
		return s.handleFailed(gateway, envelope, body)
	case models.EventBoletoExpired:
		return s.handleExpired(gateway, envelope, body)
	case models.EventPaymentRefunded:
		return s.handleRefunded(gateway, envelope, body)
	case models.EventPaymentChargeback:
		return s.handleChargeback(gateway, envelope, body)
	default:
		return utils.NewBadRequestError(utils.ErrUnsupportedEvent)
	}
}

// handleCreated mirrors a new gateway charge locally. When charge creation
// already recorded it, only the payload is refreshed.
func (s *WebhookService) handleCreated(gateway string, envelope models.WebhookEnvelope, body []byte) error {
	rec, err := s.store.GetIntegrationByChargeID(gateway, envelope.Data.ID)
	if err == nil {
		if rec.IsTerminal() {
			return s.terminalConflict(rec, envelope.Event)
		}
		return s.store.UpdateIntegrationStatus(rec.ID, rec.Status, body)
	}
	if !utils.IsNotFound(err) {
		return err
	}

	if envelope.Data.ExternalReference == "" {
		return utils.NewBadRequestError("payment.created requires an external reference")
	}
	if _, err := s.store.GetPaymentByID(envelope.Data.ExternalReference); err != nil {
		return err
	}

	now := time.Now()
	return s.store.CreateIntegration(&models.GatewayIntegrationRecord{
		ID:              uuid.NewString(),
		PaymentID:       envelope.Data.ExternalReference,
		Gateway:         gateway,
		GatewayChargeID: envelope.Data.ID,
		Status:          models.IntegrationStatusCreated,
		LastPayload:     body,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}

// handleApproved confirms a payment: the payment becomes paid, the record
// approved and every split row of the payment paid, atomically. A charge
// with no local record is a failure; a Payment is never fabricated.
func (s *WebhookService) handleApproved(gateway string, envelope models.WebhookEnvelope, body []byte) error {
	rec, err := s.lookup(gateway, envelope)
	if err != nil {
		return err
	}
	if rec.IsTerminal() {
		return s.terminalConflict(rec, envelope.Event)
	}

	now := time.Now()
	return s.store.InTx(func(tx repository.Store) error {
		if err := tx.UpdatePaymentStatus(rec.PaymentID, models.PaymentStatusPaid, &now); err != nil {
			return err
		}
		if err := tx.MarkSplitsPaid(rec.PaymentID); err != nil {
			return err
		}
		return tx.UpdateIntegrationStatus(rec.ID, models.IntegrationStatusApproved, body)
	})
}

// handleFailed returns the payment to pending so the charge can be retried
// and appends a human-readable observation.
func (s *WebhookService) handleFailed(gateway string, envelope models.WebhookEnvelope, body []byte) error {
	rec, err := s.lookup(gateway, envelope)
	if err != nil {
		return err
	}
	if rec.IsTerminal() {
		return s.terminalConflict(rec, envelope.Event)
	}

	observation := "gateway reported payment failure"
	if envelope.Data.Reason != "" {
		observation += ": " + envelope.Data.Reason
	}
	return s.store.InTx(func(tx repository.Store) error {
		if err := tx.UpdatePaymentStatus(rec.PaymentID, models.PaymentStatusPending, nil); err != nil {
			return err
		}
		if err := tx.AppendPaymentObservation(rec.PaymentID, observation); err != nil {
			return err
		}
		return tx.UpdateIntegrationStatus(rec.ID, models.IntegrationStatusFailed, body)
	})
}

// handleExpired marks a boleto that was never paid.
func (s *WebhookService) handleExpired(gateway string, envelope models.WebhookEnvelope, body []byte) error {
	rec, err := s.lookup(gateway, envelope)
	if err != nil {
		return err
	}
	if rec.IsTerminal() {
		return s.terminalConflict(rec, envelope.Event)
	}

	return s.store.InTx(func(tx repository.Store) error {
		if err := tx.UpdatePaymentStatus(rec.PaymentID, models.PaymentStatusOverdue, nil); err != nil {
			return err
		}
		return tx.UpdateIntegrationStatus(rec.ID, models.IntegrationStatusExpired, body)
	})
}

// handleRefunded transitions the payment and appends exactly one refund
// entry to the transaction ledger.
func (s *WebhookService) handleRefunded(gateway string, envelope models.WebhookEnvelope, body []byte) error {
	rec, err := s.lookup(gateway, envelope)
	if err != nil {
		return err
	}
	if rec.IsTerminal() {
		return s.terminalConflict(rec, envelope.Event)
	}

	return s.store.InTx(func(tx repository.Store) error {
		payment, err := tx.GetPaymentByID(rec.PaymentID)
		if err != nil {
			return err
		}
		amount := envelope.Data.Amount
		if amount == 0 {
			amount = payment.Amount
		}
		if err := tx.UpdatePaymentStatus(rec.PaymentID, models.PaymentStatusRefunded, payment.PaidDate); err != nil {
			return err
		}
		if err := tx.CreateTransaction(&models.Transaction{
			ID:          uuid.NewString(),
			PaymentID:   rec.PaymentID,
			Type:        models.TransactionTypeRefund,
			Amount:      amount,
			ReferenceID: envelope.Data.ID,
			CreatedAt:   time.Now(),
		}); err != nil {
			return err
		}
		return tx.UpdateIntegrationStatus(rec.ID, models.IntegrationStatusRefunded, body)
	})
}

// handleChargeback cancels the payment.
func (s *WebhookService) handleChargeback(gateway string, envelope models.WebhookEnvelope, body []byte) error {
	rec, err := s.lookup(gateway, envelope)
	if err != nil {
		return err
	}
	if rec.IsTerminal() {
		return s.terminalConflict(rec, envelope.Event)
	}

	return s.store.InTx(func(tx repository.Store) error {
		if err := tx.UpdatePaymentStatus(rec.PaymentID, models.PaymentStatusCancelled, nil); err != nil {
			return err
		}
		return tx.UpdateIntegrationStatus(rec.ID, models.IntegrationStatusChargeback, body)
	})
}

func (s *WebhookService) lookup(gateway string, envelope models.WebhookEnvelope) (*models.GatewayIntegrationRecord, error) {
	rec, err := s.store.GetIntegrationByChargeID(gateway, envelope.Data.ID)
	if utils.IsNotFound(err) {
		s.logger.Warn("webhook for unknown charge",
			zap.String("gateway", gateway),
			zap.String("event", envelope.Event),
			zap.String("charge_id", envelope.Data.ID),
		)
	}
	return rec, err
}

func (s *WebhookService) terminalConflict(rec *models.GatewayIntegrationRecord, event string) error {
	s.logger.Warn("webhook for charge in terminal state",
		zap.String("event", event),
		zap.String("charge_id", rec.GatewayChargeID),
		zap.String("status", rec.Status),
	)
	return utils.NewInvalidStatusError("charge is in terminal state " + rec.Status)
}
