package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/repository"
	"github.com/edupay/enrollment-backend/services"
	"github.com/edupay/enrollment-backend/utils"
)

// PaymentHandler handles split configuration, charge creation and the
// payment read paths.
type PaymentHandler struct {
	splitService  *services.SplitService
	chargeService *services.ChargeService
	store         repository.Store
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(splitService *services.SplitService, chargeService *services.ChargeService, store repository.Store) *PaymentHandler {
	return &PaymentHandler{
		splitService:  splitService,
		chargeService: chargeService,
		store:         store,
	}
}

// CreateSplitConfig handles POST /api/v1/payments/:id/split
func (h *PaymentHandler) CreateSplitConfig(c *gin.Context) {
	var request models.CreateSplitConfigRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.ErrInvalidRequest))
		return
	}

	splits, err := h.splitService.CreateSplitConfig(c.Param("id"), request.Recipients)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "splits": splits})
}

// GetSplitConfig handles GET /api/v1/payments/:id/split
func (h *PaymentHandler) GetSplitConfig(c *gin.Context) {
	splits, err := h.splitService.GetSplitConfig(c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, splits)
}

// CreateCharge handles POST /api/v1/payments/:id/charge
func (h *PaymentHandler) CreateCharge(c *gin.Context) {
	rec, err := h.chargeService.CreateCharge(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// ListTransactions handles GET /api/v1/payments/:id/transactions
func (h *PaymentHandler) ListTransactions(c *gin.Context) {
	paymentID := c.Param("id")
	if _, err := h.store.GetPaymentByID(paymentID); err != nil {
		utils.HandleError(c, err)
		return
	}
	transactions, err := h.store.ListTransactionsByPaymentID(paymentID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, transactions)
}

// ListPaymentMethods handles GET /api/v1/payment-methods
func (h *PaymentHandler) ListPaymentMethods(c *gin.Context) {
	methods, err := h.chargeService.ListPaymentMethods(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, methods)
}
