package repository

import (
	"github.com/edupay/enrollment-backend/models"
)

// CreateTransaction appends one immutable ledger entry. Transactions are
// never updated or deleted.
func (s *SQLStore) CreateTransaction(t *models.Transaction) error {
	query := `
		INSERT INTO transactions (id, payment_id, type, amount, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.q.Exec(query, t.ID, t.PaymentID, t.Type, t.Amount, t.ReferenceID, t.CreatedAt)
	return err
}

// ListTransactionsByPaymentID retrieves the ledger entries of a payment
func (s *SQLStore) ListTransactionsByPaymentID(paymentID string) ([]models.Transaction, error) {
	query := `
		SELECT id, payment_id, type, amount, reference_id, created_at
		FROM transactions
		WHERE payment_id = $1
		ORDER BY created_at
	`
	rows, err := s.q.Query(query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.PaymentID, &t.Type, &t.Amount, &t.ReferenceID, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
