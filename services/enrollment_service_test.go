package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/utils"
)

func TestEnrollmentService_CreateEnrollment_GeneratesSchedule(t *testing.T) {
	store := newFakeStore()
	service := NewEnrollmentService(store)

	enrollment, err := service.CreateEnrollment(&models.CreateEnrollmentRequest{
		StudentName:   "Joao Lima",
		StudentEmail:  "joao@example.com",
		TotalAmount:   1000,
		Installments:  3,
		FirstDueDate:  "2026-09-10",
		PaymentMethod: "boleto",
	})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)

	payments, err := service.ListPayments(enrollment.ID)
	require.NoError(t, err)
	require.Len(t, payments, 3)

	// Equal rounded installments; remainder folded into the last one
	assert.Equal(t, 333.33, payments[0].Amount)
	assert.Equal(t, 333.33, payments[1].Amount)
	assert.Equal(t, 333.34, payments[2].Amount)

	var total float64
	for i, payment := range payments {
		total += payment.Amount
		assert.Equal(t, i+1, payment.InstallmentNumber)
		assert.Equal(t, models.PaymentStatusPending, payment.Status)
		assert.Equal(t, "boleto", payment.PaymentMethod)
	}
	assert.Equal(t, 1000.0, utils.Round(total))

	// Monthly due dates starting at the first one
	assert.Equal(t, "2026-09-10", payments[0].DueDate.Format("2006-01-02"))
	assert.Equal(t, "2026-10-10", payments[1].DueDate.Format("2006-01-02"))
	assert.Equal(t, "2026-11-10", payments[2].DueDate.Format("2006-01-02"))

	contract, err := service.GetContract(enrollment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusDraft, contract.Status)
	assert.Equal(t, 1000.0, contract.TotalAmount)
	assert.Len(t, contract.ContractNumber, utils.ContractNumberLength)
}

func TestEnrollmentService_CreateEnrollment_Validation(t *testing.T) {
	store := newFakeStore()
	service := NewEnrollmentService(store)

	tests := []struct {
		name string
		req  models.CreateEnrollmentRequest
	}{
		{"missing name", models.CreateEnrollmentRequest{StudentEmail: "a@b.c", TotalAmount: 100, Installments: 1, FirstDueDate: "2026-09-10"}},
		{"non-positive amount", models.CreateEnrollmentRequest{StudentName: "A", StudentEmail: "a@b.c", TotalAmount: 0, Installments: 1, FirstDueDate: "2026-09-10"}},
		{"zero installments", models.CreateEnrollmentRequest{StudentName: "A", StudentEmail: "a@b.c", TotalAmount: 100, Installments: 0, FirstDueDate: "2026-09-10"}},
		{"bad date", models.CreateEnrollmentRequest{StudentName: "A", StudentEmail: "a@b.c", TotalAmount: 100, Installments: 1, FirstDueDate: "10/09/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateEnrollment(&tt.req)
			require.Error(t, err)
			assert.Equal(t, 400, err.(*utils.AppError).Code)
		})
	}
	assert.Empty(t, store.enrollments)
}

func TestEnrollmentService_Documents(t *testing.T) {
	store := newFakeStore()
	service := NewEnrollmentService(store)

	enrollment, err := service.CreateEnrollment(&models.CreateEnrollmentRequest{
		StudentName:  "Ana Reis",
		StudentEmail: "ana@example.com",
		TotalAmount:  500,
		Installments: 1,
		FirstDueDate: "2026-09-10",
	})
	require.NoError(t, err)

	doc, err := service.AddDocument(enrollment.ID, &models.AddDocumentRequest{Name: "RG", Type: "identity"})
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusPending, doc.Status)

	documents, err := service.ListDocuments(enrollment.ID)
	require.NoError(t, err)
	assert.Len(t, documents, 1)

	_, err = service.AddDocument("missing", &models.AddDocumentRequest{Name: "RG", Type: "identity"})
	require.Error(t, err)
	assert.Equal(t, 404, err.(*utils.AppError).Code)
}
