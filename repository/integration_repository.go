package repository

import (
	"database/sql"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/utils"
)

const integrationColumns = `
	id, payment_id, gateway, gateway_charge_id, status,
	COALESCE(last_payload, 'null'), created_at, updated_at
`

// CreateIntegration inserts the local mirror of a gateway charge
func (s *SQLStore) CreateIntegration(rec *models.GatewayIntegrationRecord) error {
	query := `
		INSERT INTO gateway_integration_records (id, payment_id, gateway,
			gateway_charge_id, status, last_payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.q.Exec(query, rec.ID, rec.PaymentID, rec.Gateway, rec.GatewayChargeID,
		rec.Status, rec.LastPayload, rec.CreatedAt, rec.UpdatedAt)
	return err
}

// GetIntegrationByChargeID looks up the record by its gateway-assigned id.
// This is the join key used by webhook dispatch.
func (s *SQLStore) GetIntegrationByChargeID(gateway, chargeID string) (*models.GatewayIntegrationRecord, error) {
	query := `SELECT ` + integrationColumns + `
		FROM gateway_integration_records
		WHERE gateway = $1 AND gateway_charge_id = $2`
	rec, err := scanIntegration(s.q.QueryRow(query, gateway, chargeID))
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Gateway integration record")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetIntegrationByPaymentID retrieves the most recent record for a payment.
// Used as the duplicate-charge guard before creating a new external charge.
func (s *SQLStore) GetIntegrationByPaymentID(paymentID string) (*models.GatewayIntegrationRecord, error) {
	query := `SELECT ` + integrationColumns + `
		FROM gateway_integration_records
		WHERE payment_id = $1
		ORDER BY created_at DESC
		LIMIT 1`
	rec, err := scanIntegration(s.q.QueryRow(query, paymentID))
	if err == sql.ErrNoRows {
		return nil, utils.NewNotFoundError("Gateway integration record")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// UpdateIntegrationStatus transitions the record and stores the raw payload
// of the callback that caused the transition.
func (s *SQLStore) UpdateIntegrationStatus(id, status string, payload []byte) error {
	query := `
		UPDATE gateway_integration_records
		SET status = $2, last_payload = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := s.q.Exec(query, id, status, payload)
	if err != nil {
		return err
	}
	return requireRow(result, "Gateway integration record")
}

func scanIntegration(row rowScanner) (*models.GatewayIntegrationRecord, error) {
	var rec models.GatewayIntegrationRecord
	err := row.Scan(&rec.ID, &rec.PaymentID, &rec.Gateway, &rec.GatewayChargeID,
		&rec.Status, &rec.LastPayload, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
