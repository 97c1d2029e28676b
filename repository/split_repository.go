package repository

import (
	"github.com/edupay/enrollment-backend/models"
)

// CreateSplitPayments inserts every split row of one configuration
func (s *SQLStore) CreateSplitPayments(splits []models.SplitPayment) error {
	query := `
		INSERT INTO split_payments (id, payment_id, recipient_id, recipient_type,
			amount, percentage, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, split := range splits {
		_, err := s.q.Exec(query, split.ID, split.PaymentID, split.RecipientID,
			split.RecipientType, split.Amount, split.Percentage, split.Status, split.CreatedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetSplitsByPaymentID retrieves the split configuration of a payment,
// empty when none was configured.
func (s *SQLStore) GetSplitsByPaymentID(paymentID string) ([]models.SplitPayment, error) {
	query := `
		SELECT id, payment_id, recipient_id, recipient_type, amount, percentage, status, created_at
		FROM split_payments
		WHERE payment_id = $1
		ORDER BY created_at, id
	`
	rows, err := s.q.Query(query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	splits := make([]models.SplitPayment, 0)
	for rows.Next() {
		var split models.SplitPayment
		err := rows.Scan(&split.ID, &split.PaymentID, &split.RecipientID,
			&split.RecipientType, &split.Amount, &split.Percentage, &split.Status, &split.CreatedAt)
		if err != nil {
			return nil, err
		}
		splits = append(splits, split)
	}
	return splits, rows.Err()
}

// MarkSplitsPaid cascades a payment confirmation to its split rows
func (s *SQLStore) MarkSplitsPaid(paymentID string) error {
	query := `UPDATE split_payments SET status = $2 WHERE payment_id = $1`
	_, err := s.q.Exec(query, paymentID, models.SplitStatusPaid)
	return err
}
