package service

import (
	"context"

	"github.com/urbanthreads/storefront-service/internal/clients"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// OrderRepository persists orders.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order) error
	GetByUserID(ctx context.Context, userID string, limit, offset int) ([]*models.Order, int, error)
	List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error)
}

// ProductRepository persists catalog records.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetPricesByIDs(ctx context.Context, ids []string) (map[string]float64, error)
	List(ctx context.Context, filter *models.ProductListFilter) ([]*models.Product, int, error)
	ListRelated(ctx context.Context, category, excludeSlug string, limit int) ([]*models.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	Update(ctx context.Context, product *models.Product) error
	UpdateRating(ctx context.Context, productID string, rating float64, numReviews int) error
	Delete(ctx context.Context, id string) error
}

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByID(ctx context.Context, id string) (*models.Review, error)
	GetByUserAndProduct(ctx context.Context, userID, productID string) (*models.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]*models.Review, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Review, error)
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
}

// CartStore holds per-user carts.
type CartStore interface {
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, userID string, cart *models.Cart) error
	Clear(ctx context.Context, userID string) error
}

// OrderCache is a read-through cache in front of the order repository.
// Get returns (nil, nil) on a miss.
type OrderCache interface {
	Get(ctx context.Context, id string) (*models.Order, error)
	Set(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, id string) error
	GetByUserID(ctx context.Context, userID string) ([]*models.Order, error)
	SetByUserID(ctx context.Context, userID string, orders []*models.Order) error
	InvalidateByUserID(ctx context.Context, userID string) error
}

// PaymentProvider is the PayPal-shaped payment gateway.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, amount float64, currency string) (string, error)
	CaptureOrder(ctx context.Context, providerOrderID string) (*clients.CaptureResult, error)
}

// EventPublisher emits order lifecycle events.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *models.Order) error
	PublishOrderPaid(ctx context.Context, order *models.Order) error
	PublishOrderDelivered(ctx context.Context, order *models.Order) error
}
