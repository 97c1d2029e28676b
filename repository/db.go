package repository

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/edupay/enrollment-backend/config"
	"github.com/edupay/enrollment-backend/models"
)

// Open connects to PostgreSQL and verifies the connection. The returned
// handle is created once at process start and shared through a Store.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}
	return db, nil
}

// Store is the single persistence abstraction handed to every service.
// InTx runs fn against a transaction-scoped Store, committing on nil and
// rolling back otherwise; nested calls reuse the ambient transaction.
type Store interface {
	InTx(fn func(Store) error) error

	// payments
	CreatePayment(p *models.Payment) error
	GetPaymentByID(id string) (*models.Payment, error)
	UpdatePaymentStatus(id, status string, paidDate *time.Time) error
	AppendPaymentObservation(id, observation string) error
	SetPaymentGatewayCharge(id, chargeID string, response []byte) error
	ListPaymentsByEnrollment(enrollmentID string) ([]models.Payment, error)
	MarkPaymentsOverdue(asOf time.Time) ([]models.Payment, error)
	ListPaymentReportRows(from, to time.Time) ([]models.PaymentReportRow, error)

	// split payments
	CreateSplitPayments(splits []models.SplitPayment) error
	GetSplitsByPaymentID(paymentID string) ([]models.SplitPayment, error)
	MarkSplitsPaid(paymentID string) error

	// gateway integration records
	CreateIntegration(rec *models.GatewayIntegrationRecord) error
	GetIntegrationByChargeID(gateway, chargeID string) (*models.GatewayIntegrationRecord, error)
	GetIntegrationByPaymentID(paymentID string) (*models.GatewayIntegrationRecord, error)
	UpdateIntegrationStatus(id, status string, payload []byte) error

	// transactions
	CreateTransaction(t *models.Transaction) error
	ListTransactionsByPaymentID(paymentID string) ([]models.Transaction, error)

	// enrollments, contracts and documents
	CreateEnrollment(e *models.Enrollment) error
	GetEnrollmentByID(id string) (*models.Enrollment, error)
	ListEnrollments() ([]models.Enrollment, error)
	CreateContract(ct *models.Contract) error
	GetContractByEnrollment(enrollmentID string) (*models.Contract, error)
	CreateDocument(d *models.Document) error
	ListDocumentsByEnrollment(enrollmentID string) ([]models.Document, error)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// SQLStore implements Store on top of database/sql.
type SQLStore struct {
	db *sql.DB
	tx *sql.Tx
	q  querier
}

// NewStore creates the process-wide Store over an open database handle.
func NewStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, q: db}
}

// InTx runs fn inside a database transaction. When the store is already
// transaction-scoped the ambient transaction is reused.
func (s *SQLStore) InTx(fn func(Store) error) error {
	if s.tx != nil {
		return fn(s)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	txStore := &SQLStore{db: s.db, tx: tx, q: tx}
	if err := fn(txStore); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
