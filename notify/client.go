// Package notify is the thin client for the external notification
// collaborator. Actual email/SMS delivery happens on the other side; this
// side only posts reminder requests.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/edupay/enrollment-backend/config"
	"github.com/edupay/enrollment-backend/utils"
)

// Reminder is one overdue-payment reminder request.
type Reminder struct {
	PaymentID    string    `json:"payment_id"`
	EnrollmentID string    `json:"enrollment_id"`
	Amount       float64   `json:"amount"`
	DueDate      time.Time `json:"due_date"`
}

// Client posts reminders to the notification service.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a notification client from configuration.
func NewClient(cfg config.NotifyConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendPaymentReminder asks the notification service to remind the student
// about one overdue installment.
func (c *Client) SendPaymentReminder(ctx context.Context, reminder Reminder) error {
	data, err := json.Marshal(reminder)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications/payment-reminder", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return utils.NewInternalError("notification request failed: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return utils.NewInternalError(fmt.Sprintf("notification service returned status %d", resp.StatusCode))
	}
	return nil
}
