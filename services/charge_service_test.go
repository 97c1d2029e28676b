package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edupay/enrollment-backend/gateway"
	"github.com/edupay/enrollment-backend/models"
	"github.com/edupay/enrollment-backend/utils"
)

type fakeGateway struct {
	charges      []gateway.ChargeRequest
	splits       map[string][]gateway.SplitEntry
	nextChargeID string
	authErr      error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{splits: make(map[string][]gateway.SplitEntry), nextChargeID: "G1"}
}

func (f *fakeGateway) Authenticate(context.Context) (string, error) {
	if f.authErr != nil {
		return "", f.authErr
	}
	return "token", nil
}

func (f *fakeGateway) CreateCharge(_ context.Context, _ string, req gateway.ChargeRequest) (*gateway.Charge, error) {
	f.charges = append(f.charges, req)
	return &gateway.Charge{
		ID:          f.nextChargeID,
		Status:      "created",
		Amount:      req.Amount,
		RawResponse: []byte(`{"id":"` + f.nextChargeID + `"}`),
	}, nil
}

func (f *fakeGateway) CreateSplit(_ context.Context, _ string, chargeID string, entries []gateway.SplitEntry) error {
	f.splits[chargeID] = entries
	return nil
}

func (f *fakeGateway) ListPaymentMethods(context.Context, string) ([]gateway.PaymentMethod, error) {
	return []gateway.PaymentMethod{{Code: "boleto", Name: "Boleto", Enabled: true}}, nil
}

func seedEnrollmentWithPayment(store *fakeStore, paymentID string, amount float64) {
	payment := store.addPayment(paymentID, amount, time.Now().AddDate(0, 1, 0))
	store.enrollments[payment.EnrollmentID] = &models.Enrollment{
		ID:           payment.EnrollmentID,
		StudentName:  "Maria Souza",
		StudentEmail: "maria@example.com",
		Status:       models.EnrollmentStatusActive,
		TotalAmount:  amount,
		Installments: 1,
	}
}

func TestChargeService_CreateCharge_RecordsIntegration(t *testing.T) {
	store := newFakeStore()
	seedEnrollmentWithPayment(store, "P1", 500)
	client := newFakeGateway()
	service := NewChargeService(store, client, "lytex", "https://portal.example.com/api/webhooks/lytex", nil)

	rec, err := service.CreateCharge(context.Background(), "P1")
	require.NoError(t, err)
	assert.Equal(t, "G1", rec.GatewayChargeID)
	assert.Equal(t, models.IntegrationStatusCreated, rec.Status)
	assert.Equal(t, "lytex", rec.Gateway)

	require.Len(t, client.charges, 1)
	assert.Equal(t, "P1", client.charges[0].ExternalReference)
	assert.Equal(t, "Maria Souza", client.charges[0].CustomerName)
	assert.Equal(t, "https://portal.example.com/api/webhooks/lytex", client.charges[0].NotificationURL)

	payment, _ := store.GetPaymentByID("P1")
	assert.Equal(t, "G1", payment.GatewayChargeID)
}

func TestChargeService_CreateCharge_PushesConfiguredSplit(t *testing.T) {
	store := newFakeStore()
	seedEnrollmentWithPayment(store, "P1", 1000)
	splitService := NewSplitService(store)
	_, err := splitService.CreateSplitConfig("P1", []models.SplitRecipientInput{
		{RecipientID: "A", RecipientType: models.RecipientTypeConsultant, Percentage: floatPtr(15)},
		{RecipientID: "B", RecipientType: models.RecipientTypePartner, Amount: floatPtr(100)},
	})
	require.NoError(t, err)

	client := newFakeGateway()
	service := NewChargeService(store, client, "lytex", "", nil)

	_, err = service.CreateCharge(context.Background(), "P1")
	require.NoError(t, err)

	entries := client.splits["G1"]
	require.Len(t, entries, 2)
	require.NotNil(t, entries[0].Percentage)
	assert.Equal(t, 15.0, *entries[0].Percentage)
	require.NotNil(t, entries[1].Amount)
	assert.Equal(t, 100.0, *entries[1].Amount)
}

func TestChargeService_CreateCharge_GuardsAgainstDuplicates(t *testing.T) {
	store := newFakeStore()
	seedEnrollmentWithPayment(store, "P1", 500)
	client := newFakeGateway()
	service := NewChargeService(store, client, "lytex", "", nil)

	_, err := service.CreateCharge(context.Background(), "P1")
	require.NoError(t, err)

	// A second request must not create another external charge
	_, err = service.CreateCharge(context.Background(), "P1")
	require.Error(t, err)
	assert.Equal(t, 409, err.(*utils.AppError).Code)
	assert.Len(t, client.charges, 1)
}

func TestChargeService_CreateCharge_AllowsRetryAfterFailure(t *testing.T) {
	store := newFakeStore()
	seedEnrollmentWithPayment(store, "P1", 500)
	store.addIntegration("I0", "P1", "lytex", "G0", models.IntegrationStatusFailed)
	client := newFakeGateway()
	service := NewChargeService(store, client, "lytex", "", nil)

	_, err := service.CreateCharge(context.Background(), "P1")
	require.NoError(t, err)
	assert.Len(t, client.charges, 1)
}

func TestChargeService_CreateCharge_Rejections(t *testing.T) {
	store := newFakeStore()
	seedEnrollmentWithPayment(store, "P1", 500)
	paidAt := time.Now()
	paid := store.payments["P1"]
	paid.Status = models.PaymentStatusPaid
	paid.PaidDate = &paidAt

	service := NewChargeService(store, newFakeGateway(), "lytex", "", nil)

	_, err := service.CreateCharge(context.Background(), "P1")
	require.Error(t, err)
	assert.Equal(t, 409, err.(*utils.AppError).Code)

	_, err = service.CreateCharge(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, 404, err.(*utils.AppError).Code)
}

func TestChargeService_CreateCharge_AuthFailurePropagates(t *testing.T) {
	store := newFakeStore()
	seedEnrollmentWithPayment(store, "P1", 500)
	client := newFakeGateway()
	client.authErr = utils.NewAuthenticationError("gateway authentication failed")
	service := NewChargeService(store, client, "lytex", "", nil)

	_, err := service.CreateCharge(context.Background(), "P1")
	require.Error(t, err)
	assert.Equal(t, 401, err.(*utils.AppError).Code)
	assert.Empty(t, client.charges)
}
