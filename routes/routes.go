package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupay/enrollment-backend/handlers"
)

// Handlers groups the handler dependencies wired in main.
type Handlers struct {
	Enrollment *handlers.EnrollmentHandler
	Payment    *handlers.PaymentHandler
	Webhook    *handlers.WebhookHandler
	Report     *handlers.ReportHandler
	Cron       *handlers.CronHandler
}

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, h Handlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Gateway callbacks
	webhooks := router.Group("/api/webhooks")
	{
		webhooks.POST("/lytex", h.Webhook.HandleLytex)
		webhooks.POST("/security", h.Webhook.HandleGeneric)
	}

	// Platform cron triggers
	router.GET("/api/cron/overdue-payments", h.Cron.OverduePayments)

	v1 := router.Group("/api/v1")
	{
		// Enrollment endpoints
		v1.POST("/enrollments", h.Enrollment.CreateEnrollment)
		v1.GET("/enrollments", h.Enrollment.ListEnrollments)
		v1.GET("/enrollments/:id", h.Enrollment.GetEnrollment)
		v1.GET("/enrollments/:id/payments", h.Enrollment.ListPayments)
		v1.GET("/enrollments/:id/contract", h.Enrollment.GetContract)
		v1.POST("/enrollments/:id/documents", h.Enrollment.AddDocument)
		v1.GET("/enrollments/:id/documents", h.Enrollment.ListDocuments)

		// Payment endpoints
		v1.POST("/payments/:id/split", h.Payment.CreateSplitConfig)
		v1.GET("/payments/:id/split", h.Payment.GetSplitConfig)
		v1.POST("/payments/:id/charge", h.Payment.CreateCharge)
		v1.GET("/payments/:id/transactions", h.Payment.ListTransactions)
		v1.GET("/payment-methods", h.Payment.ListPaymentMethods)

		// Report endpoints
		v1.GET("/reports/payments", h.Report.ExportPayments)
	}
}
