package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/edupay/enrollment-backend/services"
)

// CronHandler exposes the externally-triggered scheduled jobs. The app has
// no scheduler of its own; a platform cron calls these endpoints.
type CronHandler struct {
	overdueService *services.OverdueService
	apiKey         string
	logger         *zap.Logger
}

// NewCronHandler creates a new cron handler
func NewCronHandler(overdueService *services.OverdueService, apiKey string, logger *zap.Logger) *CronHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CronHandler{overdueService: overdueService, apiKey: apiKey, logger: logger}
}

// OverduePayments handles GET /api/cron/overdue-payments, guarded by the
// x-api-key header.
func (h *CronHandler) OverduePayments(c *gin.Context) {
	key := c.GetHeader("x-api-key")
	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid api key"})
		return
	}

	sent, err := h.overdueService.Scan(c.Request.Context())
	if err != nil {
		h.logger.Error("overdue scan failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"notificationsSent": sent,
		"timestamp":         time.Now().UTC().Format(time.RFC3339),
	})
}
