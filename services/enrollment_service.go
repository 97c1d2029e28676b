package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/repository"
	"github.com/edupay/enrollment-backend/utils"
)

// EnrollmentService manages enrollments, their contracts and documents,
// and generates the installment payment schedule.
type EnrollmentService struct {
	store repository.Store
}

// NewEnrollmentService creates a new enrollment service
func NewEnrollmentService(store repository.Store) *EnrollmentService {
	return &EnrollmentService{store: store}
}

// CreateEnrollment creates the enrollment, its contract and the installment
// payments in one transaction. Installments are equal rounded shares with
// the remainder folded into the last, so the schedule sums to the total.
func (s *EnrollmentService) CreateEnrollment(req *models.CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := utils.ValidateRequired(req.StudentName, "student name"); err != nil {
		return nil, err
	}
	if err := utils.ValidatePositive(req.TotalAmount, "total amount"); err != nil {
		return nil, err
	}
	if req.Installments < 1 {
		return nil, utils.NewValidationError("installments must be at least 1")
	}
	firstDue, err := time.Parse("2006-01-02", req.FirstDueDate)
	if err != nil {
		return nil, utils.NewValidationError("first_due_date must be YYYY-MM-DD")
	}

	now := time.Now()
	enrollment := &models.Enrollment{
		ID:           uuid.NewString(),
		StudentName:  req.StudentName,
		StudentEmail: req.StudentEmail,
		Status:       models.EnrollmentStatusActive,
		TotalAmount:  utils.Round(req.TotalAmount),
		Installments: req.Installments,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	contract := &models.Contract{
		ID:             uuid.NewString(),
		EnrollmentID:   enrollment.ID,
		ContractNumber: utils.GenerateContractNumber(),
		TotalAmount:    enrollment.TotalAmount,
		Status:         models.ContractStatusDraft,
		CreatedAt:      now,
	}

	amounts := utils.SplitEvenly(enrollment.TotalAmount, req.Installments)
	payments := make([]models.Payment, req.Installments)
	for i := range payments {
		payments[i] = models.Payment{
			ID:                uuid.NewString(),
			EnrollmentID:      enrollment.ID,
			InstallmentNumber: i + 1,
			Amount:            amounts[i],
			DueDate:           firstDue.AddDate(0, i, 0),
			Status:            models.PaymentStatusPending,
			PaymentMethod:     req.PaymentMethod,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
	}

	err = s.store.InTx(func(tx repository.Store) error {
		if err := tx.CreateEnrollment(enrollment); err != nil {
			return err
		}
		if err := tx.CreateContract(contract); err != nil {
			return err
		}
		for i := range payments {
			if err := tx.CreatePayment(&payments[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollment, nil
}

// GetEnrollment retrieves one enrollment
func (s *EnrollmentService) GetEnrollment(id string) (*models.Enrollment, error) {
	return s.store.GetEnrollmentByID(id)
}

// ListEnrollments retrieves all enrollments
func (s *EnrollmentService) ListEnrollments() ([]models.Enrollment, error) {
	return s.store.ListEnrollments()
}

// ListPayments retrieves an enrollment's installment schedule. This is the
// read path students use to check their own payment status.
func (s *EnrollmentService) ListPayments(enrollmentID string) ([]models.Payment, error) {
	if _, err := s.store.GetEnrollmentByID(enrollmentID); err != nil {
		return nil, err
	}
	return s.store.ListPaymentsByEnrollment(enrollmentID)
}

// GetContract retrieves an enrollment's contract
func (s *EnrollmentService) GetContract(enrollmentID string) (*models.Contract, error) {
	return s.store.GetContractByEnrollment(enrollmentID)
}

// AddDocument attaches document metadata to an enrollment
func (s *EnrollmentService) AddDocument(enrollmentID string, req *models.AddDocumentRequest) (*models.Document, error) {
	if _, err := s.store.GetEnrollmentByID(enrollmentID); err != nil {
		return nil, err
	}
	doc := &models.Document{
		ID:           uuid.NewString(),
		EnrollmentID: enrollmentID,
		Name:         req.Name,
		Type:         req.Type,
		Status:       models.DocumentStatusPending,
		CreatedAt:    time.Now(),
	}
	if err := s.store.CreateDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ListDocuments retrieves an enrollment's tracked documents
func (s *EnrollmentService) ListDocuments(enrollmentID string) ([]models.Document, error) {
	if _, err := s.store.GetEnrollmentByID(enrollmentID); err != nil {
		return nil, err
	}
	return s.store.ListDocumentsByEnrollment(enrollmentID)
}
