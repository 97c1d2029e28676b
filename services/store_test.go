package services

import (
	"sort"
	"time"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/repository"
	"github.com/edupay/enrollment-backend/utils"
)

// fakeStore is an in-memory repository.Store for service tests.
type fakeStore struct {
	payments     map[string]*models.Payment
	splits       map[string][]models.SplitPayment
	integrations map[string]*models.GatewayIntegrationRecord
	transactions []models.Transaction
	enrollments  map[string]*models.Enrollment
	contracts    map[string]*models.Contract
	documents    map[string][]models.Document
}

var _ repository.Store = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{
		payments:     make(map[string]*models.Payment),
		splits:       make(map[string][]models.SplitPayment),
		integrations: make(map[string]*models.GatewayIntegrationRecord),
		enrollments:  make(map[string]*models.Enrollment),
		contracts:    make(map[string]*models.Contract),
		documents:    make(map[string][]models.Document),
	}
}

func (f *fakeStore) InTx(fn func(repository.Store) error) error {
	return fn(f)
}

func (f *fakeStore) CreatePayment(p *models.Payment) error {
	clone := *p
	f.payments[p.ID] = &clone
	return nil
}

func (f *fakeStore) GetPaymentByID(id string) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, utils.NewNotFoundError("Payment")
	}
	clone := *p
	return &clone, nil
}

func (f *fakeStore) UpdatePaymentStatus(id, status string, paidDate *time.Time) error {
	p, ok := f.payments[id]
	if !ok {
		return utils.NewNotFoundError("Payment")
	}
	p.Status = status
	p.PaidDate = paidDate
	return nil
}

func (f *fakeStore) AppendPaymentObservation(id, observation string) error {
	p, ok := f.payments[id]
	if !ok {
		return utils.NewNotFoundError("Payment")
	}
	if p.Observations != "" {
		p.Observations += "\n"
	}
	p.Observations += observation
	return nil
}

func (f *fakeStore) SetPaymentGatewayCharge(id, chargeID string, response []byte) error {
	p, ok := f.payments[id]
	if !ok {
		return utils.NewNotFoundError("Payment")
	}
	p.GatewayChargeID = chargeID
	p.GatewayResponse = response
	return nil
}

func (f *fakeStore) ListPaymentsByEnrollment(enrollmentID string) ([]models.Payment, error) {
	payments := make([]models.Payment, 0)
	for _, p := range f.payments {
		if p.EnrollmentID == enrollmentID {
			payments = append(payments, *p)
		}
	}
	sort.Slice(payments, func(i, j int) bool {
		return payments[i].InstallmentNumber < payments[j].InstallmentNumber
	})
	return payments, nil
}

func (f *fakeStore) MarkPaymentsOverdue(asOf time.Time) ([]models.Payment, error) {
	marked := make([]models.Payment, 0)
	for _, p := range f.payments {
		if p.Status == models.PaymentStatusPending && p.DueDate.Before(asOf) && p.PaidDate == nil {
			p.Status = models.PaymentStatusOverdue
			marked = append(marked, *p)
		}
	}
	sort.Slice(marked, func(i, j int) bool { return marked[i].ID < marked[j].ID })
	return marked, nil
}

func (f *fakeStore) ListPaymentReportRows(from, to time.Time) ([]models.PaymentReportRow, error) {
	rows := make([]models.PaymentReportRow, 0)
	for _, p := range f.payments {
		if p.DueDate.Before(from) || p.DueDate.After(to) {
			continue
		}
		row := models.PaymentReportRow{
			EnrollmentID:      p.EnrollmentID,
			InstallmentNumber: p.InstallmentNumber,
			Amount:            p.Amount,
			DueDate:           p.DueDate,
			PaidDate:          p.PaidDate,
			Status:            p.Status,
			PaymentMethod:     p.PaymentMethod,
		}
		if e, ok := f.enrollments[p.EnrollmentID]; ok {
			row.StudentName = e.StudentName
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].DueDate.Before(rows[j].DueDate) })
	return rows, nil
}

func (f *fakeStore) CreateSplitPayments(splits []models.SplitPayment) error {
	for _, split := range splits {
		f.splits[split.PaymentID] = append(f.splits[split.PaymentID], split)
	}
	return nil
}

func (f *fakeStore) GetSplitsByPaymentID(paymentID string) ([]models.SplitPayment, error) {
	splits := make([]models.SplitPayment, len(f.splits[paymentID]))
	copy(splits, f.splits[paymentID])
	return splits, nil
}

func (f *fakeStore) MarkSplitsPaid(paymentID string) error {
	splits := f.splits[paymentID]
	for i := range splits {
		splits[i].Status = models.SplitStatusPaid
	}
	return nil
}

func (f *fakeStore) CreateIntegration(rec *models.GatewayIntegrationRecord) error {
	clone := *rec
	f.integrations[rec.ID] = &clone
	return nil
}

func (f *fakeStore) GetIntegrationByChargeID(gateway, chargeID string) (*models.GatewayIntegrationRecord, error) {
	for _, rec := range f.integrations {
		if rec.Gateway == gateway && rec.GatewayChargeID == chargeID {
			clone := *rec
			return &clone, nil
		}
	}
	return nil, utils.NewNotFoundError("Gateway integration record")
}

func (f *fakeStore) GetIntegrationByPaymentID(paymentID string) (*models.GatewayIntegrationRecord, error) {
	var latest *models.GatewayIntegrationRecord
	for _, rec := range f.integrations {
		if rec.PaymentID != paymentID {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, utils.NewNotFoundError("Gateway integration record")
	}
	clone := *latest
	return &clone, nil
}

func (f *fakeStore) UpdateIntegrationStatus(id, status string, payload []byte) error {
	rec, ok := f.integrations[id]
	if !ok {
		return utils.NewNotFoundError("Gateway integration record")
	}
	rec.Status = status
	rec.LastPayload = payload
	return nil
}

func (f *fakeStore) CreateTransaction(t *models.Transaction) error {
	f.transactions = append(f.transactions, *t)
	return nil
}

func (f *fakeStore) ListTransactionsByPaymentID(paymentID string) ([]models.Transaction, error) {
	transactions := make([]models.Transaction, 0)
	for _, t := range f.transactions {
		if t.PaymentID == paymentID {
			transactions = append(transactions, t)
		}
	}
	return transactions, nil
}

func (f *fakeStore) CreateEnrollment(e *models.Enrollment) error {
	clone := *e
	f.enrollments[e.ID] = &clone
	return nil
}

func (f *fakeStore) GetEnrollmentByID(id string) (*models.Enrollment, error) {
	e, ok := f.enrollments[id]
	if !ok {
		return nil, utils.NewNotFoundError("Enrollment")
	}
	clone := *e
	return &clone, nil
}

func (f *fakeStore) ListEnrollments() ([]models.Enrollment, error) {
	enrollments := make([]models.Enrollment, 0, len(f.enrollments))
	for _, e := range f.enrollments {
		enrollments = append(enrollments, *e)
	}
	return enrollments, nil
}

func (f *fakeStore) CreateContract(ct *models.Contract) error {
	clone := *ct
	f.contracts[ct.EnrollmentID] = &clone
	return nil
}

func (f *fakeStore) GetContractByEnrollment(enrollmentID string) (*models.Contract, error) {
	ct, ok := f.contracts[enrollmentID]
	if !ok {
		return nil, utils.NewNotFoundError("Contract")
	}
	clone := *ct
	return &clone, nil
}

func (f *fakeStore) CreateDocument(d *models.Document) error {
	f.documents[d.EnrollmentID] = append(f.documents[d.EnrollmentID], *d)
	return nil
}

func (f *fakeStore) ListDocumentsByEnrollment(enrollmentID string) ([]models.Document, error) {
	documents := make([]models.Document, len(f.documents[enrollmentID]))
	copy(documents, f.documents[enrollmentID])
	return documents, nil
}

// addPayment seeds a pending payment and returns it.
func (f *fakeStore) addPayment(id string, amount float64, dueDate time.Time) *models.Payment {
	payment := &models.Payment{
		ID:            id,
		EnrollmentID:  "enr-" + id,
		Amount:        amount,
		DueDate:       dueDate,
		Status:        models.PaymentStatusPending,
		PaymentMethod: "boleto",
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	f.payments[id] = payment
	return payment
}

// addIntegration seeds an integration record linking a charge id to a payment.
func (f *fakeStore) addIntegration(id, paymentID, gateway, chargeID, status string) *models.GatewayIntegrationRecord {
	rec := &models.GatewayIntegrationRecord{
		ID:              id,
		PaymentID:       paymentID,
		Gateway:         gateway,
		GatewayChargeID: chargeID,
		Status:          status,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	f.integrations[id] = rec
	return rec
}

func floatPtr(v float64) *float64 { return &v }
