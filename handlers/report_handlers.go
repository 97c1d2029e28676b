package handlers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edupay/enrollment-backend/services"
	"github.com/edupay/enrollment-backend/utils"
)

// ReportHandler handles financial report exports
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportPayments handles GET /api/v1/reports/payments?from=&to=
// Dates are YYYY-MM-DD; the range defaults to the current year.
func (h *ReportHandler) ExportPayments(c *gin.Context) {
	now := time.Now()
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0).Add(-time.Second)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.HandleError(c, utils.NewValidationError("from must be YYYY-MM-DD"))
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			utils.HandleError(c, utils.NewValidationError("to must be YYYY-MM-DD"))
			return
		}
		to = parsed
	}
	if to.Before(from) {
		utils.HandleError(c, utils.NewValidationError("to must not be before from"))
		return
	}

	excelFile, filename, err := h.reportService.BuildPaymentsReport(from, to)
	if err != nil {
		utils.HandleError(c, utils.NewInternalError("Failed to build report"))
		return
	}

	// Set headers for file download
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	c.Header("Content-Transfer-Encoding", "binary")

	if err := excelFile.Write(c.Writer); err != nil {
		utils.HandleError(c, utils.NewInternalError("Failed to write report"))
		return
	}
}
