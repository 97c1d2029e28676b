package services

import (
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/repository"
	"github.com/edupay/enrollment-backend/utils"
)

// ReportService builds the downloadable financial spreadsheet.
type ReportService struct {
	store repository.Store
}

// NewReportService creates a new report service
func NewReportService(store repository.Store) *ReportService {
	return &ReportService{store: store}
}

// statusSummary aggregates payments of one status.
type statusSummary struct {
	Status string
	Count  int
	Total  float64
}

// BuildPaymentsReport generates an Excel file covering payments due in the
// given range, with a per-payment sheet and a by-status summary sheet.
func (s *ReportService) BuildPaymentsReport(from, to time.Time) (*excelize.File, string, error) {
	rows, err := s.store.ListPaymentReportRows(from, to)
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch report rows: %v", err)
	}

	f := excelize.NewFile()

	if err := s.createPaymentsSheet(f, rows); err != nil {
		return nil, "", fmt.Errorf("failed to create payments sheet: %v", err)
	}
	if err := s.createSummarySheet(f, rows); err != nil {
		return nil, "", fmt.Errorf("failed to create summary sheet: %v", err)
	}

	// Delete the default sheet if it exists
	f.DeleteSheet("Sheet1")

	filename := fmt.Sprintf("Payments_%s_%s.xlsx",
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	return f, filename, nil
}

// createPaymentsSheet lists one row per payment installment
func (s *ReportService) createPaymentsSheet(f *excelize.File, rows []models.PaymentReportRow) error {
	sheetName := "Payments"
	f.NewSheet(sheetName)
	sheetIndex, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(sheetIndex)

	headers := []string{"Enrollment", "Student", "Installment", "Amount", "Due Date", "Paid Date", "Status", "Method"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", fmt.Sprintf("%s1", string(rune('A'+len(headers)-1))), headerStyle)

	for i, row := range rows {
		r := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), row.EnrollmentID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), row.StudentName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), row.InstallmentNumber)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", r), row.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", r), row.DueDate.Format("2006-01-02"))
		if row.PaidDate != nil {
			f.SetCellValue(sheetName, fmt.Sprintf("F%d", r), row.PaidDate.Format("2006-01-02"))
		}
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", r), row.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", r), row.PaymentMethod)
	}

	f.SetColWidth(sheetName, "A", "H", 18)
	return nil
}

// createSummarySheet aggregates count and total amount by payment status
func (s *ReportService) createSummarySheet(f *excelize.File, rows []models.PaymentReportRow) error {
	sheetName := "Summary"
	f.NewSheet(sheetName)

	byStatus := make(map[string]*statusSummary)
	for _, row := range rows {
		summary, ok := byStatus[row.Status]
		if !ok {
			summary = &statusSummary{Status: row.Status}
			byStatus[row.Status] = summary
		}
		summary.Count++
		summary.Total = utils.Round(summary.Total + row.Amount)
	}

	summaries := make([]*statusSummary, 0, len(byStatus))
	for _, summary := range byStatus {
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Status < summaries[j].Status
	})

	headers := []string{"Status", "Payments", "Total Amount"}
	for i, header := range headers {
		cell := fmt.Sprintf("%s1", string(rune('A'+i)))
		f.SetCellValue(sheetName, cell, header)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"E6F3FF"}, Pattern: 1},
	})
	f.SetCellStyle(sheetName, "A1", "C1", headerStyle)

	for i, summary := range summaries {
		r := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", r), summary.Status)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", r), summary.Count)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", r), summary.Total)
	}

	f.SetColWidth(sheetName, "A", "C", 15)
	return nil
}
