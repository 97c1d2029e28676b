package utils

const (
	// Contract number generation
	ContractNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	ContractNumberLength  = 8

	// HTTP status messages
	ErrInvalidRequest     = "Invalid request"
	ErrPaymentNotFound    = "Payment not found"
	ErrEnrollmentNotFound = "Enrollment not found"
	ErrInvalidSignature   = "Invalid signature"
	ErrInvalidPayload     = "Invalid payload"
	ErrUnsupportedEvent   = "Unsupported event type"

	// Precision for monetary calculations
	MoneyPrecision = 100.0
)
