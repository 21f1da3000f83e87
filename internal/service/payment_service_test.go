package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/clients"
	"github.com/urbanthreads/storefront-service/internal/models"
)

func newTestPaymentService(paypal *fakePayPal) (*PaymentService, *fakeOrderRepo, *fakePublisher) {
	orderRepo := newFakeOrderRepo()
	publisher := &fakePublisher{}
	svc := NewPaymentService(orderRepo, fakeOrderCache{}, paypal, publisher, testConfig())
	return svc, orderRepo, publisher
}

func seedOrder(t *testing.T, repo *fakeOrderRepo, order *models.Order) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), order))
}

func paypalOrder(id, userID string) *models.Order {
	return &models.Order{
		ID:            id,
		UserID:        userID,
		PaymentMethod: models.PaymentMethodPayPal,
		TotalPrice:    107.75,
	}
}

func TestCreatePayPalOrder(t *testing.T) {
	paypal := &fakePayPal{providerOrderID: "PP-123"}
	svc, orderRepo, _ := newTestPaymentService(paypal)
	seedOrder(t, orderRepo, paypalOrder("ord_1", "user_1"))

	owner := &models.Principal{UserID: "user_1"}

	providerID, err := svc.CreatePayPalOrder(context.Background(), owner, "ord_1")
	require.NoError(t, err)
	require.Equal(t, "PP-123", providerID)
	require.Equal(t, []float64{107.75}, paypal.createdAmounts)
}

func TestCreatePayPalOrder_WrongMethodOrOwner(t *testing.T) {
	paypal := &fakePayPal{providerOrderID: "PP-123"}
	svc, orderRepo, _ := newTestPaymentService(paypal)

	bankOrder := paypalOrder("ord_bank", "user_1")
	bankOrder.PaymentMethod = models.PaymentMethodBankTransfer
	seedOrder(t, orderRepo, bankOrder)
	seedOrder(t, orderRepo, paypalOrder("ord_2", "user_1"))

	_, err := svc.CreatePayPalOrder(context.Background(), &models.Principal{UserID: "user_1"}, "ord_bank")
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreatePayPalOrder(context.Background(), &models.Principal{UserID: "user_9"}, "ord_2")
	var uerr *apperrors.UnauthorizedError
	require.ErrorAs(t, err, &uerr)
}

func TestCapturePayPalOrder_Completed(t *testing.T) {
	paypal := &fakePayPal{
		captureResult: &clients.CaptureResult{
			ID:         "CAP-9",
			Status:     "COMPLETED",
			PayerEmail: "buyer@example.com",
		},
	}
	svc, orderRepo, publisher := newTestPaymentService(paypal)
	seedOrder(t, orderRepo, paypalOrder("ord_1", "user_1"))

	order, err := svc.CapturePayPalOrder(context.Background(), &models.Principal{UserID: "user_1"}, "ord_1", "PP-123")
	require.NoError(t, err)

	require.True(t, order.IsPaid)
	require.NotNil(t, order.PaidAt)
	require.NotNil(t, order.PaymentResult)
	require.Equal(t, "CAP-9", order.PaymentResult.ID)
	require.Equal(t, "COMPLETED", order.PaymentResult.Status)
	require.Equal(t, "buyer@example.com", order.PaymentResult.EmailAddress)
	require.Equal(t, []string{"ord_1"}, publisher.paid)

	stored, err := orderRepo.GetByID(context.Background(), "ord_1")
	require.NoError(t, err)
	require.True(t, stored.IsPaid)
}

func TestCapturePayPalOrder_NotCompletedLeavesOrderUnpaid(t *testing.T) {
	paypal := &fakePayPal{
		captureResult: &clients.CaptureResult{ID: "CAP-9", Status: "PENDING"},
	}
	svc, orderRepo, publisher := newTestPaymentService(paypal)
	seedOrder(t, orderRepo, paypalOrder("ord_1", "user_1"))

	_, err := svc.CapturePayPalOrder(context.Background(), &models.Principal{UserID: "user_1"}, "ord_1", "PP-123")
	var eerr *apperrors.ExternalError
	require.ErrorAs(t, err, &eerr)
	require.Empty(t, publisher.paid)

	stored, err := orderRepo.GetByID(context.Background(), "ord_1")
	require.NoError(t, err)
	require.False(t, stored.IsPaid)
	require.Nil(t, stored.PaymentResult)
}

func TestCapturePayPalOrder_AlreadyPaid(t *testing.T) {
	paypal := &fakePayPal{
		captureResult: &clients.CaptureResult{ID: "CAP-9", Status: "COMPLETED"},
	}
	svc, orderRepo, _ := newTestPaymentService(paypal)

	order := paypalOrder("ord_1", "user_1")
	order.IsPaid = true
	seedOrder(t, orderRepo, order)

	_, err := svc.CapturePayPalOrder(context.Background(), &models.Principal{UserID: "user_1"}, "ord_1", "PP-123")
	var cerr *apperrors.ConflictError
	require.ErrorAs(t, err, &cerr)
}

func bankTransferRequest() *models.BankTransferRequest {
	return &models.BankTransferRequest{
		BankName:             "First National",
		AccountNumber:        "12345678",
		AccountName:          "Jamie Doe",
		PaymentScreenshotURL: "https://cdn.example.com/receipts/1.png",
	}
}

func TestSubmitBankTransfer(t *testing.T) {
	svc, orderRepo, publisher := newTestPaymentService(&fakePayPal{})

	order := paypalOrder("ord_1", "user_1")
	order.PaymentMethod = models.PaymentMethodBankTransfer
	seedOrder(t, orderRepo, order)

	updated, err := svc.SubmitBankTransfer(context.Background(), &models.Principal{UserID: "user_1"}, "ord_1", bankTransferRequest())
	require.NoError(t, err)

	require.True(t, updated.IsBankTransferSubmitted)
	require.False(t, updated.IsBankTransferApproved)
	require.False(t, updated.IsPaid, "submission alone must not mark the order paid")
	require.NotNil(t, updated.BankTransferDetails)
	require.Equal(t, "First National", updated.BankTransferDetails.BankName)
	require.Empty(t, publisher.paid)
}

func TestSubmitBankTransfer_MissingFields(t *testing.T) {
	svc, orderRepo, _ := newTestPaymentService(&fakePayPal{})

	order := paypalOrder("ord_1", "user_1")
	order.PaymentMethod = models.PaymentMethodBankTransfer
	seedOrder(t, orderRepo, order)

	req := bankTransferRequest()
	req.AccountNumber = ""

	_, err := svc.SubmitBankTransfer(context.Background(), &models.Principal{UserID: "user_1"}, "ord_1", req)
	var verr *apperrors.ValidationError
	require.ErrorAs(t, err, &verr)

	stored, err := orderRepo.GetByID(context.Background(), "ord_1")
	require.NoError(t, err)
	require.False(t, stored.IsBankTransferSubmitted)
}

func TestApproveBankTransfer(t *testing.T) {
	svc, orderRepo, publisher := newTestPaymentService(&fakePayPal{})

	order := paypalOrder("ord_1", "user_1")
	order.PaymentMethod = models.PaymentMethodBankTransfer
	seedOrder(t, orderRepo, order)

	// Approval before submission is rejected.
	_, err := svc.ApproveBankTransfer(context.Background(), "ord_1")
	var perr *apperrors.PreconditionError
	require.ErrorAs(t, err, &perr)

	_, err = svc.SubmitBankTransfer(context.Background(), &models.Principal{UserID: "user_1"}, "ord_1", bankTransferRequest())
	require.NoError(t, err)

	approved, err := svc.ApproveBankTransfer(context.Background(), "ord_1")
	require.NoError(t, err)
	require.True(t, approved.IsBankTransferApproved)
	require.True(t, approved.IsPaid)
	require.NotNil(t, approved.PaidAt)
	require.Equal(t, []string{"ord_1"}, publisher.paid)
}
