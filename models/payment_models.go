package models

import (
	"encoding/json"
	"time"
)

// Payment statuses. Payments are never deleted, only transitioned.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
	PaymentStatusRefunded  = "refunded"
)

// Split payment statuses.
const (
	SplitStatusPending = "pending"
	SplitStatusPaid    = "paid"
)

// Split recipient types.
const (
	RecipientTypeConsultant  = "consultant"
	RecipientTypePartner     = "partner"
	RecipientTypeInstitution = "institution"
)

// Gateway integration record statuses. Refunded, chargeback and expired are
// terminal: no event moves a record out of them.
const (
	IntegrationStatusCreated    = "created"
	IntegrationStatusApproved   = "approved"
	IntegrationStatusFailed     = "failed"
	IntegrationStatusExpired    = "expired"
	IntegrationStatusRefunded   = "refunded"
	IntegrationStatusChargeback = "chargeback"
)

// Webhook event types delivered by the gateway.
const (
	EventPaymentCreated    = "payment.created"
	EventPaymentApproved   = "payment.approved"
	EventBoletoPaid        = "boleto.paid"
	EventPaymentFailed     = "payment.failed"
	EventBoletoExpired     = "boleto.expired"
	EventPaymentRefunded   = "payment.refunded"
	EventPaymentChargeback = "payment.chargeback"
)

// Transaction types. Ledger entries are append-only.
const (
	TransactionTypeRefund     = "refund"
	TransactionTypeChargeback = "chargeback"
)

// Payment represents one installment of a tuition obligation
type Payment struct {
	ID                string          `json:"id" db:"id"`
	EnrollmentID      string          `json:"enrollment_id" db:"enrollment_id"`
	InstallmentNumber int             `json:"installment_number" db:"installment_number"`
	Amount            float64         `json:"amount" db:"amount"`
	DueDate           time.Time       `json:"due_date" db:"due_date"`
	PaidDate          *time.Time      `json:"paid_date,omitempty" db:"paid_date"`
	Status            string          `json:"status" db:"status"`
	PaymentMethod     string          `json:"payment_method" db:"payment_method"`
	GatewayChargeID   string          `json:"gateway_charge_id,omitempty" db:"gateway_charge_id"`
	GatewayResponse   json.RawMessage `json:"gateway_response,omitempty" db:"gateway_response"`
	Observations      string          `json:"observations,omitempty" db:"observations"`
	CreatedAt         time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at" db:"updated_at"`
}

// SplitPayment represents one recipient's share of a payment. Amount always
// holds the effective share; Percentage is set only when the share was
// configured as a percentage, kept for auditability.
type SplitPayment struct {
	ID            string    `json:"id" db:"id"`
	PaymentID     string    `json:"payment_id" db:"payment_id"`
	RecipientID   string    `json:"recipient_id" db:"recipient_id"`
	RecipientType string    `json:"recipient_type" db:"recipient_type"`
	Amount        float64   `json:"amount" db:"amount"`
	Percentage    *float64  `json:"percentage,omitempty" db:"percentage"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// GatewayIntegrationRecord mirrors one gateway charge's lifecycle locally.
// It is the join key between gateway callback ids and local payments.
type GatewayIntegrationRecord struct {
	ID              string          `json:"id" db:"id"`
	PaymentID       string          `json:"payment_id" db:"payment_id"`
	Gateway         string          `json:"gateway" db:"gateway"`
	GatewayChargeID string          `json:"gateway_charge_id" db:"gateway_charge_id"`
	Status          string          `json:"status" db:"status"`
	LastPayload     json.RawMessage `json:"last_payload,omitempty" db:"last_payload"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// IsTerminal reports whether the record's status admits no further events.
func (r *GatewayIntegrationRecord) IsTerminal() bool {
	switch r.Status {
	case IntegrationStatusRefunded, IntegrationStatusChargeback, IntegrationStatusExpired:
		return true
	}
	return false
}

// Transaction is an immutable ledger entry recording a money movement.
type Transaction struct {
	ID          string    `json:"id" db:"id"`
	PaymentID   string    `json:"payment_id" db:"payment_id"`
	Type        string    `json:"type" db:"type"`
	Amount      float64   `json:"amount" db:"amount"`
	ReferenceID string    `json:"reference_id" db:"reference_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// SplitRecipientInput is one entry of a split configuration request.
// Exactly one of Amount or Percentage must be supplied.
type SplitRecipientInput struct {
	RecipientID   string   `json:"recipient_id" binding:"required"`
	RecipientType string   `json:"recipient_type" binding:"required"`
	Amount        *float64 `json:"amount,omitempty"`
	Percentage    *float64 `json:"percentage,omitempty"`
}

// CreateSplitConfigRequest is the request body for configuring splits.
type CreateSplitConfigRequest struct {
	Recipients []SplitRecipientInput `json:"recipients" binding:"required"`
}

// WebhookEnvelope is the common shape of inbound gateway callbacks.
type WebhookEnvelope struct {
	Gateway string          `json:"gateway,omitempty"`
	Event   string          `json:"event"`
	Data    WebhookData     `json:"data"`
	Raw     json.RawMessage `json:"-"`
}

// WebhookData carries the charge identifiers inside a callback.
type WebhookData struct {
	ID                string  `json:"id"`
	ExternalReference string  `json:"external_reference,omitempty"`
	Amount            float64 `json:"amount,omitempty"`
	Reason            string  `json:"reason,omitempty"`
}

// PaymentReportRow is one line of the financial report export.
type PaymentReportRow struct {
	EnrollmentID      string     `json:"enrollment_id"`
	StudentName       string     `json:"student_name"`
	InstallmentNumber int        `json:"installment_number"`
	Amount            float64    `json:"amount"`
	DueDate           time.Time  `json:"due_date"`
	PaidDate          *time.Time `json:"paid_date,omitempty"`
	Status            string     `json:"status"`
	PaymentMethod     string     `json:"payment_method"`
}
