package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/repository"
	"github.com/edupay/enrollment-backend/utils"
)

// SplitService validates and persists how one payment is divided among
// multiple recipients before the charge is created at the gateway.
type SplitService struct {
	store repository.Store
}

// NewSplitService creates a new split service
func NewSplitService(store repository.Store) *SplitService {
	return &SplitService{store: store}
}

// CreateSplitConfig validates the recipient list and persists one pending
// split row per recipient. All validation runs before any write. Calls are
// additive: rows persisted by earlier calls count toward the percentage
// and amount caps, so the limits hold across the payment's whole
// configuration, not per request.
func (s *SplitService) CreateSplitConfig(paymentID string, recipients []models.SplitRecipientInput) ([]models.SplitPayment, error) {
	payment, err := s.store.GetPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Status == models.PaymentStatusPaid {
		return nil, utils.NewInvalidStatusError("cannot configure splits for a paid payment")
	}
	if err := utils.ValidateNotEmpty(recipients, "recipients"); err != nil {
		return nil, err
	}

	var percentageSum, amountSum float64
	for i, r := range recipients {
		if err := utils.ValidateRequired(r.RecipientID, fmt.Sprintf("recipient %d id", i+1)); err != nil {
			return nil, err
		}
		hasAmount := r.Amount != nil
		hasPercentage := r.Percentage != nil
		if !hasAmount && !hasPercentage {
			return nil, utils.NewValidationError(fmt.Sprintf("recipient %d must supply amount or percentage", i+1))
		}
		if hasAmount && hasPercentage {
			return nil, utils.NewValidationError(fmt.Sprintf("recipient %d must supply amount or percentage, not both", i+1))
		}
		if hasAmount {
			if err := utils.ValidatePositive(*r.Amount, fmt.Sprintf("recipient %d amount", i+1)); err != nil {
				return nil, err
			}
			amountSum += *r.Amount
		} else {
			if err := utils.ValidatePositive(*r.Percentage, fmt.Sprintf("recipient %d percentage", i+1)); err != nil {
				return nil, err
			}
			percentageSum += *r.Percentage
		}
	}
	existing, err := s.store.GetSplitsByPaymentID(payment.ID)
	if err != nil {
		return nil, err
	}
	for _, split := range existing {
		if split.Percentage != nil {
			percentageSum += *split.Percentage
		} else {
			amountSum += split.Amount
		}
	}

	if percentageSum > 100 {
		return nil, utils.NewValidationError(fmt.Sprintf("split percentages sum to %.2f across the payment, must not exceed 100", percentageSum))
	}
	if utils.Round(amountSum) > payment.Amount {
		return nil, utils.NewValidationError(fmt.Sprintf("split amounts sum to %.2f across the payment, must not exceed the payment amount %.2f", amountSum, payment.Amount))
	}

	now := time.Now()
	splits := make([]models.SplitPayment, 0, len(recipients))
	for _, r := range recipients {
		split := models.SplitPayment{
			ID:            uuid.NewString(),
			PaymentID:     payment.ID,
			RecipientID:   r.RecipientID,
			RecipientType: r.RecipientType,
			Status:        models.SplitStatusPending,
			CreatedAt:     now,
		}
		if r.Amount != nil {
			split.Amount = utils.Round(*r.Amount)
		} else {
			// The derived amount is persisted alongside the percentage
			// for auditability.
			split.Amount = utils.Round(payment.Amount * *r.Percentage / 100)
			pct := *r.Percentage
			split.Percentage = &pct
		}
		splits = append(splits, split)
	}

	err = s.store.InTx(func(tx repository.Store) error {
		return tx.CreateSplitPayments(splits)
	})
	if err != nil {
		return nil, err
	}
	return splits, nil
}

// GetSplitConfig returns the persisted split rows for a payment, or an
// empty list if none exist.
func (s *SplitService) GetSplitConfig(paymentID string) ([]models.SplitPayment, error) {
	return s.store.GetSplitsByPaymentID(paymentID)
}
