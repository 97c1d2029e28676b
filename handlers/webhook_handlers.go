package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edupay/enrollment-backend/services"
	"github.com/edupay/enrollment-backend/utils"
)

// WebhookHandler handles inbound signed gateway callbacks
type WebhookHandler struct {
	webhookService *services.WebhookService
	logger         *zap.Logger
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(webhookService *services.WebhookService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{webhookService: webhookService, logger: logger}
}

// HandleLytex handles POST /api/webhooks/lytex. The signature travels in
// the x-lytex-signature header; the gateway name is fixed.
func (h *WebhookHandler) HandleLytex(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ErrInvalidPayload})
		return
	}

	signature := c.GetHeader("x-lytex-signature")
	if err := h.webhookService.HandleEvent("lytex", body, signature); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// HandleGeneric handles POST /api/webhooks/security for any configured
// gateway. The gateway is resolved from the x-webhook-source header or the
// body's gateway field; the signature from x-webhook-signature or the
// body's signature field. Responses carry structured error detail.
func (h *WebhookHandler) HandleGeneric(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ErrInvalidPayload})
		return
	}

	var meta struct {
		Gateway   string `json:"gateway"`
		Signature string `json:"signature"`
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": utils.ErrInvalidPayload})
		return
	}

	gateway := c.GetHeader("x-webhook-source")
	if gateway == "" {
		gateway = meta.Gateway
	}
	if gateway == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "gateway is required"})
		return
	}

	signature := c.GetHeader("x-webhook-signature")
	if signature == "" {
		signature = meta.Signature
	}

	if err := h.webhookService.HandleEvent(gateway, body, signature); err != nil {
		if appErr, ok := err.(*utils.AppError); ok {
			c.JSON(appErr.Code, gin.H{"success": false, "error": appErr.Message, "gateway": gateway})
			return
		}
		h.logger.Error("webhook processing failed", zap.String("gateway", gateway), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error", "gateway": gateway})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "gateway": gateway})
}

// respondError logs unexpected errors with detail server-side and keeps
// the response opaque; the gateway retries failed deliveries.
func (h *WebhookHandler) respondError(c *gin.Context, err error) {
	if _, ok := err.(*utils.AppError); !ok {
		h.logger.Error("webhook processing failed", zap.Error(err))
	}
	utils.HandleError(c, err)
}
