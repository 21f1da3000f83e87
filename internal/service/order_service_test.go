package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/models"
)

func testShippingAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:    "Jamie Doe",
		Address:     "12 High Street",
		City:        "Leeds",
		PostalCode:  "LS1 4AP",
		Country:     "UK",
		PhoneNumber: "07700900123",
	}
}

func testProducts() []*models.Product {
	return []*models.Product{
		{ID: "prod_1", Name: "Slim Jeans", Slug: "slim-jeans", Category: "Jeans", Price: 30},
		{ID: "prod_2", Name: "Wool Sweater", Slug: "wool-sweater", Category: "Sweaters", Price: 25},
	}
}

func newTestOrderService(products ...*models.Product) (*OrderService, *fakeOrderRepo, *fakePublisher) {
	orderRepo := newFakeOrderRepo()
	publisher := &fakePublisher{}
	svc := NewOrderService(orderRepo, newFakeProductRepo(products...), fakeOrderCache{}, publisher, testConfig())
	return svc, orderRepo, publisher
}

func TestCreateOrder_RepricesFromCatalog(t *testing.T) {
	svc, _, publisher := newTestOrderService(testProducts()...)

	order, err := svc.CreateOrder(context.Background(), "user_1", &models.CreateOrderRequest{
		Items: []models.CreateOrderItem{
			{ProductID: "prod_1", Name: "Slim Jeans", Slug: "slim-jeans", Qty: 2},
			{ProductID: "prod_2", Name: "Wool Sweater", Slug: "wool-sweater", Qty: 1},
		},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentMethodPayPal,
	})
	require.NoError(t, err)

	require.Equal(t, 85.0, order.ItemsPrice)
	require.Equal(t, 10.0, order.ShippingPrice)
	require.Equal(t, 12.75, order.TaxPrice)
	require.Equal(t, 107.75, order.TotalPrice)

	require.Equal(t, 30.0, order.Items[0].Price)
	require.Equal(t, 25.0, order.Items[1].Price)

	require.False(t, order.IsPaid)
	require.Nil(t, order.PaidAt)
	require.False(t, order.IsDelivered)

	require.Equal(t, []string{order.ID}, publisher.created)
}

func TestCreateOrder_UnknownProductFailsWholeOrder(t *testing.T) {
	svc, orderRepo, _ := newTestOrderService(testProducts()...)

	_, err := svc.CreateOrder(context.Background(), "user_1", &models.CreateOrderRequest{
		Items: []models.CreateOrderItem{
			{ProductID: "prod_1", Qty: 1},
			{ProductID: "prod_missing", Qty: 1},
		},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentMethodPayPal,
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	require.Empty(t, orderRepo.orders)
}

func TestCreateOrder_Validation(t *testing.T) {
	svc, _, _ := newTestOrderService(testProducts()...)

	tests := []struct {
		name string
		req  *models.CreateOrderRequest
	}{
		{
			name: "empty items",
			req: &models.CreateOrderRequest{
				ShippingAddress: testShippingAddress(),
				PaymentMethod:   models.PaymentMethodPayPal,
			},
		},
		{
			name: "zero quantity",
			req: &models.CreateOrderRequest{
				Items:           []models.CreateOrderItem{{ProductID: "prod_1", Qty: 0}},
				ShippingAddress: testShippingAddress(),
				PaymentMethod:   models.PaymentMethodPayPal,
			},
		},
		{
			name: "unknown payment method",
			req: &models.CreateOrderRequest{
				Items:           []models.CreateOrderItem{{ProductID: "prod_1", Qty: 1}},
				ShippingAddress: testShippingAddress(),
				PaymentMethod:   "Barter",
			},
		},
		{
			name: "missing city",
			req: &models.CreateOrderRequest{
				Items: []models.CreateOrderItem{{ProductID: "prod_1", Qty: 1}},
				ShippingAddress: models.ShippingAddress{
					FullName:    "Jamie Doe",
					Address:     "12 High Street",
					PostalCode:  "LS1 4AP",
					Country:     "UK",
					PhoneNumber: "07700900123",
				},
				PaymentMethod: models.PaymentMethodPayPal,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(context.Background(), "user_1", tt.req)
			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
		})
	}
}

func TestGetOrder_Ownership(t *testing.T) {
	svc, orderRepo, _ := newTestOrderService(testProducts()...)

	order, err := svc.CreateOrder(context.Background(), "user_1", &models.CreateOrderRequest{
		Items:           []models.CreateOrderItem{{ProductID: "prod_1", Qty: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentMethodPayPal,
	})
	require.NoError(t, err)
	require.Len(t, orderRepo.orders, 1)

	owner := &models.Principal{UserID: "user_1"}
	stranger := &models.Principal{UserID: "user_2"}
	admin := &models.Principal{UserID: "admin_1", IsAdmin: true}

	got, err := svc.GetOrder(context.Background(), owner, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)

	_, err = svc.GetOrder(context.Background(), stranger, order.ID)
	var uerr *apperrors.UnauthorizedError
	require.ErrorAs(t, err, &uerr)

	_, err = svc.GetOrder(context.Background(), admin, order.ID)
	require.NoError(t, err)
}

func TestTogglePaid_RoundTrip(t *testing.T) {
	svc, orderRepo, publisher := newTestOrderService(testProducts()...)

	order, err := svc.CreateOrder(context.Background(), "user_1", &models.CreateOrderRequest{
		Items:           []models.CreateOrderItem{{ProductID: "prod_1", Qty: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)

	paid, err := svc.TogglePaid(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	require.Equal(t, []string{order.ID}, publisher.paid)

	unpaid, err := svc.TogglePaid(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, unpaid.IsPaid)
	require.Nil(t, unpaid.PaidAt)
	require.Nil(t, unpaid.PaymentResult)

	// Toggling back off must not publish a second paid event.
	require.Len(t, publisher.paid, 1)

	stored, err := orderRepo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, stored.IsPaid)
}

func TestToggleDelivered_RequiresPaid(t *testing.T) {
	svc, _, publisher := newTestOrderService(testProducts()...)

	order, err := svc.CreateOrder(context.Background(), "user_1", &models.CreateOrderRequest{
		Items:           []models.CreateOrderItem{{ProductID: "prod_1", Qty: 1}},
		ShippingAddress: testShippingAddress(),
		PaymentMethod:   models.PaymentMethodCashOnDelivery,
	})
	require.NoError(t, err)

	_, err = svc.ToggleDelivered(context.Background(), order.ID)
	var perr *apperrors.PreconditionError
	require.ErrorAs(t, err, &perr)
	require.Empty(t, publisher.delivered)

	_, err = svc.TogglePaid(context.Background(), order.ID)
	require.NoError(t, err)

	delivered, err := svc.ToggleDelivered(context.Background(), order.ID)
	require.NoError(t, err)
	require.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)
	require.Equal(t, []string{order.ID}, publisher.delivered)

	undone, err := svc.ToggleDelivered(context.Background(), order.ID)
	require.NoError(t, err)
	require.False(t, undone.IsDelivered)
	require.Nil(t, undone.DeliveredAt)
}

func TestGetUserOrders(t *testing.T) {
	svc, _, _ := newTestOrderService(testProducts()...)

	for _, userID := range []string{"user_1", "user_1", "user_2"} {
		_, err := svc.CreateOrder(context.Background(), userID, &models.CreateOrderRequest{
			Items:           []models.CreateOrderItem{{ProductID: "prod_1", Qty: 1}},
			ShippingAddress: testShippingAddress(),
			PaymentMethod:   models.PaymentMethodPayPal,
		})
		require.NoError(t, err)
	}

	orders, total, err := svc.GetUserOrders(context.Background(), "user_1", 20, 0)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	for _, order := range orders {
		require.Equal(t, "user_1", order.UserID)
	}
}
