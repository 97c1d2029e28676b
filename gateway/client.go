// Package gateway implements the HTTP client for the payment provider's
// charge API (Lytex-style): bearer-token auth, charge creation, split
// allocation and payment-method listing. No retries or circuit breaking;
// duplicate-charge protection lives at the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/edupay/enrollment-backend/config"
	"github.com/edupay/enrollment-backend/utils"
)

// Client calls the payment gateway's HTTP API.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
}

// ChargeRequest is the payload for creating a charge at the gateway.
type ChargeRequest struct {
	CustomerName      string  `json:"customer_name"`
	CustomerEmail     string  `json:"customer_email"`
	Amount            float64 `json:"amount"`
	DueDate           string  `json:"due_date"` // YYYY-MM-DD
	BillingType       string  `json:"billing_type"`
	ExternalReference string  `json:"external_reference"`
	NotificationURL   string  `json:"notification_url"`
}

// Charge is the gateway's representation of a created charge.
type Charge struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	Amount      float64         `json:"amount"`
	InvoiceURL  string          `json:"invoice_url,omitempty"`
	RawResponse json.RawMessage `json:"-"`
}

// SplitEntry is one recipient's allocation pushed to the gateway.
type SplitEntry struct {
	RecipientID string   `json:"recipient_id"`
	Amount      *float64 `json:"amount,omitempty"`
	Percentage  *float64 `json:"percentage,omitempty"`
}

// PaymentMethod is one payment method enabled at the gateway.
type PaymentMethod struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// Authenticate obtains a short-lived bearer token with the client
// credentials. Non-2xx responses fail as authentication errors.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	payload := map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
	}
	body, status, err := c.post(ctx, "/auth/token", "", payload)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", utils.NewAuthenticationError("gateway authentication failed")
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &token); err != nil || token.AccessToken == "" {
		return "", utils.NewGatewayError("gateway returned an invalid token response")
	}
	return token.AccessToken, nil
}

// CreateCharge creates a charge for one payment installment.
func (c *Client) CreateCharge(ctx context.Context, token string, req ChargeRequest) (*Charge, error) {
	body, status, err := c.post(ctx, "/charges", token, req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, utils.NewGatewayError(fmt.Sprintf("gateway rejected charge creation (status %d)", status))
	}

	var charge Charge
	if err := json.Unmarshal(body, &charge); err != nil || charge.ID == "" {
		return nil, utils.NewGatewayError("gateway returned an invalid charge response")
	}
	charge.RawResponse = body
	return &charge, nil
}

// CreateSplit posts the per-recipient allocation for an existing charge.
func (c *Client) CreateSplit(ctx context.Context, token, chargeID string, entries []SplitEntry) error {
	payload := map[string]interface{}{"splits": entries}
	_, status, err := c.post(ctx, "/charges/"+chargeID+"/split", token, payload)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return utils.NewGatewayError(fmt.Sprintf("gateway rejected split creation (status %d)", status))
	}
	return nil
}

// ListPaymentMethods returns the gateway's currently enabled methods.
func (c *Client) ListPaymentMethods(ctx context.Context, token string) ([]PaymentMethod, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payment-methods", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, utils.NewGatewayError("gateway request failed: " + err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewGatewayError("failed to read gateway response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, utils.NewGatewayError(fmt.Sprintf("gateway rejected payment-method listing (status %d)", resp.StatusCode))
	}

	var methods []PaymentMethod
	if err := json.Unmarshal(body, &methods); err != nil {
		return nil, utils.NewGatewayError("gateway returned an invalid payment-method response")
	}
	return methods, nil
}

func (c *Client) post(ctx context.Context, path, token string, payload interface{}) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, utils.NewGatewayError("gateway request failed: " + err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, utils.NewGatewayError("failed to read gateway response")
	}
	return body, resp.StatusCode, nil
}
