package repository

import (
	"database/sql"
	"time"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/utils"
)

const paymentColumns = `
	id, enrollment_id, installment_number, amount, due_date, paid_date,
	status, payment_method, COALESCE(gateway_charge_id, ''),
	COALESCE(gateway_response, 'null'), COALESCE(observations, ''),
	created_at, updated_at
`

// CreatePayment inserts a new payment installment
func (s *SQLStore) CreatePayment(p *models.Payment) error {
	query := `
		INSERT INTO payments (id, enrollment_id, installment_number, amount, due_date,
			status, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.q.Exec(query, p.ID, p.EnrollmentID, p.InstallmentNumber, p.Amount,
		p.DueDate, p.Status, p.PaymentMethod, p.CreatedAt, p.UpdatedAt)
	return err
}

// GetPaymentByID retrieves a payment by its ID
func (s *SQLStore) GetPaymentByID(id string) (*models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	payment, err := scanPayment(s.q.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Payment")
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

// UpdatePaymentStatus transitions a payment's status, optionally setting
// the paid date. Payments are never deleted.
func (s *SQLStore) UpdatePaymentStatus(id, status string, paidDate *time.Time) error {
	query := `UPDATE payments SET status = $2, paid_date = $3, updated_at = NOW() WHERE id = $1`
	result, err := s.q.Exec(query, id, status, paidDate)
	if err != nil {
		return err
	}
	return requireRow(result, "Payment")
}

// AppendPaymentObservation appends a human-readable note to the payment.
func (s *SQLStore) AppendPaymentObservation(id, observation string) error {
	query := `
		UPDATE payments
		SET observations = TRIM(BOTH E'\n' FROM COALESCE(observations, '') || E'\n' || $2),
		    updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.q.Exec(query, id, observation)
	if err != nil {
		return err
	}
	return requireRow(result, "Payment")
}

// SetPaymentGatewayCharge records the gateway correlation id and the raw
// charge response on the payment.
func (s *SQLStore) SetPaymentGatewayCharge(id, chargeID string, response []byte) error {
	query := `
		UPDATE payments SET gateway_charge_id = $2, gateway_response = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.q.Exec(query, id, chargeID, response)
	if err != nil {
		return err
	}
	return requireRow(result, "Payment")
}

// ListPaymentsByEnrollment retrieves all installments for one enrollment
func (s *SQLStore) ListPaymentsByEnrollment(enrollmentID string) ([]models.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE enrollment_id = $1 ORDER BY installment_number`
	rows, err := s.q.Query(query, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

// MarkPaymentsOverdue transitions every pending payment whose due date has
// passed without a paid date, returning the affected rows.
func (s *SQLStore) MarkPaymentsOverdue(asOf time.Time) ([]models.Payment, error) {
	query := `
		UPDATE payments SET status = $1, updated_at = NOW()
		WHERE status = $2 AND due_date < $3 AND paid_date IS NULL
		RETURNING ` + paymentColumns
	rows, err := s.q.Query(query, models.PaymentStatusOverdue, models.PaymentStatusPending, asOf)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]models.Payment, 0)
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *payment)
	}
	return payments, rows.Err()
}

// ListPaymentReportRows aggregates payment and enrollment rows for the
// financial report, bounded by due date.
func (s *SQLStore) ListPaymentReportRows(from, to time.Time) ([]models.PaymentReportRow, error) {
	query := `
		SELECT p.enrollment_id, e.student_name, p.installment_number, p.amount,
		       p.due_date, p.paid_date, p.status, p.payment_method
		FROM payments p
		JOIN enrollments e ON e.id = p.enrollment_id
		WHERE p.due_date >= $1 AND p.due_date <= $2
		ORDER BY p.due_date, e.student_name
	`
	rows, err := s.q.Query(query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	report := make([]models.PaymentReportRow, 0)
	for rows.Next() {
		var row models.PaymentReportRow
		var paidDate sql.NullTime
		err := rows.Scan(&row.EnrollmentID, &row.StudentName, &row.InstallmentNumber,
			&row.Amount, &row.DueDate, &paidDate, &row.Status, &row.PaymentMethod)
		if err != nil {
			return nil, err
		}
		if paidDate.Valid {
			row.PaidDate = &paidDate.Time
		}
		report = append(report, row)
	}
	return report, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPayment(row rowScanner) (*models.Payment, error) {
	var payment models.Payment
	var paidDate sql.NullTime
	err := row.Scan(&payment.ID, &payment.EnrollmentID, &payment.InstallmentNumber,
		&payment.Amount, &payment.DueDate, &paidDate, &payment.Status,
		&payment.PaymentMethod, &payment.GatewayChargeID, &payment.GatewayResponse,
		&payment.Observations, &payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if paidDate.Valid {
		payment.PaidDate = &paidDate.Time
	}
	return &payment, nil
}

func requireRow(result sql.Result, resource string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return utils.NewNotFoundError(resource)
	}
	return nil
}
