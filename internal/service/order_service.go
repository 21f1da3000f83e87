package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
	"github.com/urbanthreads/storefront-service/internal/pricing"
)

// OrderService handles order creation, lookup and the paid/delivered
// lifecycle.
type OrderService struct {
	orderRepo      OrderRepository
	productRepo    ProductRepository
	orderCache     OrderCache
	eventPublisher EventPublisher
	config         *config.Config
	logger         *logging.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo OrderRepository,
	productRepo ProductRepository,
	orderCache OrderCache,
	eventPublisher EventPublisher,
	cfg *config.Config,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		productRepo:    productRepo,
		orderCache:     orderCache,
		eventPublisher: eventPublisher,
		config:         cfg,
		logger:         logging.New("order-service"),
	}
}

// CreateOrder validates the checkout payload, re-prices every line from the
// catalog and persists the order. Client-supplied prices are never used.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, req *models.CreateOrderRequest) (*models.Order, error) {
	s.logger.Info("Creating order", logging.Fields{
		"user_id":    userID,
		"item_count": len(req.Items),
	})

	if err := ValidateCreateOrderRequest(req); err != nil {
		return nil, err
	}

	items, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	pricing.Calculate(items).Apply(order)

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to create order", logging.Fields{
			"user_id": userID,
			"error":   err.Error(),
		})
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		if err := s.orderCache.Set(ctx, order); err != nil {
			s.logger.Error("Failed to cache order", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
		s.orderCache.InvalidateByUserID(ctx, order.UserID)
	}

	if s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderCreated(ctx, order); err != nil {
			s.logger.Error("Failed to publish order created event", logging.Fields{
				"order_id": order.ID,
				"error":    err.Error(),
			})
		}
	}

	return order, nil
}

// priceItems resolves every line's unit price from the catalog. If any
// product is missing the whole checkout fails and nothing is persisted.
func (s *OrderService) priceItems(ctx context.Context, reqItems []models.CreateOrderItem) ([]models.OrderItem, error) {
	ids := make([]string, 0, len(reqItems))
	for _, item := range reqItems {
		ids = append(ids, item.ProductID)
	}

	prices, err := s.productRepo.GetPricesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(reqItems))
	for _, item := range reqItems {
		price, ok := prices[item.ProductID]
		if !ok {
			s.logger.Warn("Checkout references unknown product", logging.Fields{
				"product_id": item.ProductID,
			})
			return nil, apperrors.ErrNotFound
		}
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Slug:      item.Slug,
			Qty:       item.Qty,
			Image:     item.Image,
			Price:     price,
			Color:     item.Color,
			Size:      item.Size,
		})
	}
	return items, nil
}

// GetOrder returns an order visible to the principal. Buyers see only their
// own orders; admins see everything.
func (s *OrderService) GetOrder(ctx context.Context, principal *models.Principal, orderID string) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != principal.UserID && !principal.IsAdmin {
		return nil, apperrors.NewUnauthorizedError("order belongs to another user")
	}
	return order, nil
}

func (s *OrderService) getOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if s.config.Features.EnableOrderCaching {
		if cached, err := s.orderCache.Get(ctx, orderID); err == nil && cached != nil {
			return cached, nil
		}
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.config.Features.EnableOrderCaching {
		if err := s.orderCache.Set(ctx, order); err != nil {
			s.logger.Debug("Failed to refresh order cache", logging.Fields{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}
	return order, nil
}

// GetUserOrders lists the principal's own order history, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, userID string, limit, offset int) ([]*models.Order, int, error) {
	if s.config.Features.EnableOrderCaching && offset == 0 {
		if cached, err := s.orderCache.GetByUserID(ctx, userID); err == nil && cached != nil {
			return cached, len(cached), nil
		}
	}

	orders, total, err := s.orderRepo.GetByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	if s.config.Features.EnableOrderCaching && offset == 0 {
		if err := s.orderCache.SetByUserID(ctx, userID, orders); err != nil {
			s.logger.Debug("Failed to cache user orders", logging.Fields{
				"user_id": userID,
				"error":   err.Error(),
			})
		}
	}
	return orders, total, nil
}

// ListOrders is the admin-wide order listing.
func (s *OrderService) ListOrders(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	return s.orderRepo.List(ctx, filter)
}

// TogglePaid flips the paid flag on an order. Marking paid stamps PaidAt;
// marking unpaid clears it along with any recorded payment result.
func (s *OrderService) TogglePaid(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	wasPaid := order.IsPaid
	if wasPaid {
		order.IsPaid = false
		order.PaidAt = nil
		order.PaymentResult = nil
	} else {
		now := time.Now().UTC()
		order.IsPaid = true
		order.PaidAt = &now
	}

	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order paid flag toggled", logging.Fields{
		"order_id": orderID,
		"is_paid":  order.IsPaid,
	})

	if !wasPaid && s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderPaid(ctx, order); err != nil {
			s.logger.Error("Failed to publish order paid event", logging.Fields{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}
	return order, nil
}

// ToggleDelivered flips the delivered flag. An unpaid order can never be
// marked delivered.
func (s *OrderService) ToggleDelivered(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	wasDelivered := order.IsDelivered
	if wasDelivered {
		order.IsDelivered = false
		order.DeliveredAt = nil
	} else {
		if !order.IsPaid {
			return nil, apperrors.NewPreconditionError("order is not paid yet")
		}
		now := time.Now().UTC()
		order.IsDelivered = true
		order.DeliveredAt = &now
	}

	if err := s.saveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order delivered flag toggled", logging.Fields{
		"order_id":     orderID,
		"is_delivered": order.IsDelivered,
	})

	if !wasDelivered && s.config.Features.EnableOrderEvents {
		if err := s.eventPublisher.PublishOrderDelivered(ctx, order); err != nil {
			s.logger.Error("Failed to publish order delivered event", logging.Fields{
				"order_id": orderID,
				"error":    err.Error(),
			})
		}
	}
	return order, nil
}

// saveOrder writes the order back and keeps the cache coherent.
func (s *OrderService) saveOrder(ctx context.Context, order *models.Order) error {
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
