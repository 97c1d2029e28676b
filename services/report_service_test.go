package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupay/enrollment-backend/models"
)

func TestReportService_BuildPaymentsReport(t *testing.T) {
	store := newFakeStore()
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	paidAt := due.AddDate(0, 0, -2)

	p1 := store.addPayment("P1", 400, due)
	p1.Status = models.PaymentStatusPaid
	p1.PaidDate = &paidAt
	store.addPayment("P2", 600, due.AddDate(0, 1, 0))
	store.addPayment("P3", 999, due.AddDate(2, 0, 0)) // outside range
	store.enrollments["enr-P1"] = &models.Enrollment{ID: "enr-P1", StudentName: "Joao Lima"}
	store.enrollments["enr-P2"] = &models.Enrollment{ID: "enr-P2", StudentName: "Ana Reis"}

	service := NewReportService(store)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	f, filename, err := service.BuildPaymentsReport(from, to)
	require.NoError(t, err)
	assert.Equal(t, "Payments_2026-01-01_2026-12-31.xlsx", filename)

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Payments")
	assert.Contains(t, sheets, "Summary")
	assert.NotContains(t, sheets, "Sheet1")

	student, err := f.GetCellValue("Payments", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Joao Lima", student)
	status, err := f.GetCellValue("Payments", "G2")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, status)
	paid, err := f.GetCellValue("Payments", "F2")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-08", paid)

	// Out-of-range payment is excluded: only header + two rows
	rows, err := f.GetRows("Payments")
	require.NoError(t, err)
	assert.Len(t, rows, 3)

	// Summary aggregates by status, alphabetically
	summaryRows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summaryRows, 3)
	assert.Equal(t, models.PaymentStatusPaid, summaryRows[1][0])
	assert.Equal(t, models.PaymentStatusPending, summaryRows[2][0])
}
