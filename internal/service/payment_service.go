package service

import (
	"context"
	"fmt"
	"time"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// PaymentService drives the two payment flows: PayPal capture and offline
// bank transfer with admin approval.
type PaymentService struct {
	orderRepo      OrderRepository
	orderCache     OrderCache
	paypal         PaymentProvider
	eventPublisher EventPublisher
	config         *config.Config
	logger         *logging.Logger
}

// NewPaymentService creates a new payment service.
func NewPaymentService(
	orderRepo OrderRepository,
	orderCache OrderCache,
	paypal PaymentProvider,
	eventPublisher EventPublisher,
	cfg *config.Config,
) *PaymentService {
	return &PaymentService{
		orderRepo:      orderRepo,
		orderCache:     orderCache,
		paypal:         paypal,
		eventPublisher: eventPublisher,
		config:         cfg,
		logger:         logging.New("payment-service"),
	}
}

// CreatePayPalOrder registers the order's total with PayPal and returns the
// provider-side order id the client needs to drive the approval flow.
func (s *PaymentService) CreatePayPalOrder(ctx context.Context, principal *models.Principal, orderID string) (string, error) {
	order, err := s.ownedOrder(ctx, principal, orderID)
	if err != nil {
		return "", err
	}
	if order.IsPaid {
		return "", apperrors.NewConflictError("order is already paid")
	}
	if order.PaymentMethod != models.PaymentMethodPayPal {
		return "", apperrors.NewValidationError("payment_method", "order is not payable with PayPal")
	}

	providerID, err := s.paypal.CreateOrder(ctx, order.TotalPrice, s.config.PayPal.Currency)
	if err != nil {
		s.logger.Error("Failed to create PayPal order", logging.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return "", err
	}

	s.logger.Info("PayPal order created", logging.Fields{
		"order_id":          orderID,
		"provider_order_id": providerID,
	})
	return providerID, nil
}

// CapturePayPalOrder captures an approved PayPal order and, on a completed
// capture, marks the order paid. A capture in any other state leaves the
// order untouched.
func (s *PaymentService) CapturePayPalOrder(ctx context.Context, principal *models.Principal, orderID, providerOrderID string) (*models.Order, error) {
	order, err := s.ownedOrder(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsPaid {
		return nil, apperrors.NewConflictError("order is already paid")
	}

	result, err := s.paypal.CaptureOrder(ctx, providerOrderID)
	if err != nil {
		return nil, err
	}
	if !result.Completed() {
		s.logger.Warn("PayPal capture did not complete", logging.Fields{
			"order_id":          orderID,
			"provider_order_id": providerOrderID,
			"status":            result.Status,
		})
		return nil, apperrors.NewExternalError("paypal",
			fmt.Errorf("capture finished with status %s", result.Status))
	}

	now := time.Now().UTC()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &models.PaymentResult{
		ID:           result.ID,
		Status:       result.Status,
		EmailAddress: result.PayerEmail,
	}

	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order paid via PayPal", logging.Fields{
		"order_id":   orderID,
		"capture_id": result.ID,
	})

	s.publishPaid(ctx, order)
	return order, nil
}

// SubmitBankTransfer records the buyer's transfer evidence. Submission does
// not mark the order paid; that happens only on admin approval.
func (s *PaymentService) SubmitBankTransfer(ctx context.Context, principal *models.Principal, orderID string, req *models.BankTransferRequest) (*models.Order, error) {
	if err := ValidateBankTransferRequest(req); err != nil {
		return nil, err
	}

	order, err := s.ownedOrder(ctx, principal, orderID)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodBankTransfer {
		return nil, apperrors.NewValidationError("payment_method", "order is not payable by bank transfer")
	}
	if order.IsPaid {
		return nil, apperrors.NewConflictError("order is already paid")
	}

	order.BankTransferDetails = &models.BankTransferDetails{
		BankName:          req.BankName,
		AccountNumber:     req.AccountNumber,
		AccountName:       req.AccountName,
		PaymentScreenshot: req.PaymentScreenshotURL,
	}
	order.IsBankTransferSubmitted = true

	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Bank transfer submitted", logging.Fields{
		"order_id": orderID,
		"user_id":  principal.UserID,
	})
	return order, nil
}

// ApproveBankTransfer is the admin acknowledgement of a submitted transfer.
// Approval is what actually marks the order paid.
func (s *PaymentService) ApproveBankTransfer(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsBankTransferSubmitted {
		return nil, apperrors.NewPreconditionError("no bank transfer submitted for this order")
	}
	if order.IsPaid {
		return nil, apperrors.NewConflictError("order is already paid")
	}

	now := time.Now().UTC()
	order.IsBankTransferApproved = true
	order.IsPaid = true
	order.PaidAt = &now

	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Bank transfer approved", logging.Fields{
		"order_id": orderID,
	})

	s.publishPaid(ctx, order)
	return order, nil
}

func (s *PaymentService) ownedOrder(ctx context.Context, principal *models.Principal, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != principal.UserID && !principal.IsAdmin {
		return nil, apperrors.NewUnauthorizedError("order belongs to another user")
	}
	return order, nil
}

func (s *PaymentService) saveOrder(ctx context.Context, order *models.Order) error {
	order.UpdatedAt = time.Now().UTC()
	if err := s.orderRepo.Update(ctx, order); err != nil {
		s.logger.Error("Failed to update order", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
		return err
	}

	if s.config.Features.EnableOrderCaching {
		if err := s.orderCache.Set(ctx, order); err != nil {
			s.logger.Debug("Failed to refresh order cache", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
		s.orderCache.InvalidateByUserID(ctx, order.UserID)
	}
	return nil
}

func (s *PaymentService) publishPaid(ctx context.Context, order *models.Order) {
	if !s.config.Features.EnableOrderEvents {
		return
	}
	if err := s.eventPublisher.PublishOrderPaid(ctx, order); err != nil {
		s.logger.Error("Failed to publish order paid event", logging.Fields{
			"order_id": order.ID,
			"error":    err.Error(),
		})
	}
}
