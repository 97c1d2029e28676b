package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/services"
	"github.com/edupay/enrollment-backend/utils"
)

// EnrollmentHandler handles enrollment, contract and document requests
type EnrollmentHandler struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler
func NewEnrollmentHandler(enrollmentService *services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// CreateEnrollment handles POST /api/v1/enrollments
func (h *EnrollmentHandler) CreateEnrollment(c *gin.Context) {
	var request models.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	enrollment, err := h.enrollmentService.CreateEnrollment(&request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

// ListEnrollments handles GET /api/v1/enrollments
func (h *EnrollmentHandler) ListEnrollments(c *gin.Context) {
	enrollments, err := h.enrollmentService.ListEnrollments()
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, enrollments)
}

// GetEnrollment handles GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) GetEnrollment(c *gin.Context) {
	enrollment, err := h.enrollmentService.GetEnrollment(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, enrollment)
}

// ListPayments handles GET /api/v1/enrollments/:id/payments
func (h *EnrollmentHandler) ListPayments(c *gin.Context) {
	payments, err := h.enrollmentService.ListPayments(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, payments)
}

// GetContract handles GET /api/v1/enrollments/:id/contract
func (h *EnrollmentHandler) GetContract(c *gin.Context) {
	contract, err := h.enrollmentService.GetContract(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, contract)
}

// AddDocument handles POST /api/v1/enrollments/:id/documents
func (h *EnrollmentHandler) AddDocument(c *gin.Context) {
	var request models.AddDocumentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	doc, err := h.enrollmentService.AddDocument(c.Param("id"), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles GET /api/v1/enrollments/:id/documents
func (h *EnrollmentHandler) ListDocuments(c *gin.Context) {
	documents, err := h.enrollmentService.ListDocuments(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, documents)
}
