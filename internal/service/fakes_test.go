package service

import (
	"context"
	"sort"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/clients"
	"github.com/urbanthreads/storefront-service/internal/config"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// In-memory collaborators shared by the service tests.

func testConfig() *config.Config {
	return &config.Config{
		PayPal: config.PayPalConfig{Currency: "USD"},
		Features: config.FeatureFlags{
			EnableOrderCaching: false,
			EnableOrderEvents:  true,
		},
	}
}

type fakeOrderRepo struct {
	orders map[string]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*models.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (r *fakeOrderRepo) Update(_ context.Context, order *models.Order) error {
	if _, ok := r.orders[order.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByUserID(_ context.Context, userID string, _, _ int) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			cp := *order
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, len(out), nil
}

func (r *fakeOrderRepo) List(_ context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	var out []*models.Order
	for _, order := range r.orders {
		if filter.IsPaid != nil && order.IsPaid != *filter.IsPaid {
			continue
		}
		cp := *order
		out = append(out, &cp)
	}
	return out, len(out), nil
}

type fakeProductRepo struct {
	products      map[string]*models.Product
	ratingUpdates map[string][]float64
	countUpdates  map[string][]int
}

func newFakeProductRepo(products ...*models.Product) *fakeProductRepo {
	r := &fakeProductRepo{
		products:      make(map[string]*models.Product),
		ratingUpdates: make(map[string][]float64),
		countUpdates:  make(map[string][]int),
	}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	for _, p := range r.products {
		if p.Slug == product.Slug {
			return apperrors.NewConflictError("slug already exists")
		}
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return product, nil
}

func (r *fakeProductRepo) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeProductRepo) GetPricesByIDs(_ context.Context, ids []string) (map[string]float64, error) {
	prices := make(map[string]float64)
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			prices[id] = p.Price
		}
	}
	return prices, nil
}

func (r *fakeProductRepo) List(_ context.Context, _ *models.ProductListFilter) ([]*models.Product, int, error) {
	var out []*models.Product
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, len(out), nil
}

func (r *fakeProductRepo) ListRelated(_ context.Context, category, excludeSlug string, limit int) ([]*models.Product, error) {
	var out []*models.Product
	for _, p := range r.products {
		if p.Category == category && p.Slug != excludeSlug && len(out) < limit {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListCategories(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range r.products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *models.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.products[product.ID] = product
	return nil
}

func (r *fakeProductRepo) UpdateRating(_ context.Context, productID string, rating float64, numReviews int) error {
	product, ok := r.products[productID]
	if !ok {
		return apperrors.ErrNotFound
	}
	product.Rating = rating
	product.NumReviews = numReviews
	r.ratingUpdates[productID] = append(r.ratingUpdates[productID], rating)
	r.countUpdates[productID] = append(r.countUpdates[productID], numReviews)
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.products[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

type fakeReviewRepo struct {
	reviews map[string]*models.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*models.Review)}
}

func (r *fakeReviewRepo) Create(_ context.Context, review *models.Review) error {
	for _, existing := range r.reviews {
		if existing.UserID == review.UserID && existing.ProductID == review.ProductID {
			return apperrors.NewConflictError("you have already reviewed this product")
		}
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) GetByID(_ context.Context, id string) (*models.Review, error) {
	review, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *review
	return &cp, nil
}

func (r *fakeReviewRepo) GetByUserAndProduct(_ context.Context, userID, productID string) (*models.Review, error) {
	for _, review := range r.reviews {
		if review.UserID == userID && review.ProductID == productID {
			cp := *review
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeReviewRepo) ListByProduct(_ context.Context, productID string) ([]*models.Review, error) {
	var out []*models.Review
	for _, review := range r.reviews {
		if review.ProductID == productID {
			cp := *review
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) ListByUser(_ context.Context, userID string) ([]*models.Review, error) {
	var out []*models.Review
	for _, review := range r.reviews {
		if review.UserID == userID {
			cp := *review
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) Update(_ context.Context, review *models.Review) error {
	if _, ok := r.reviews[review.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *fakeReviewRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.reviews[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

type fakeCartStore struct {
	carts map[string]*models.Cart
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: make(map[string]*models.Cart)}
}

func (s *fakeCartStore) Get(_ context.Context, userID string) (*models.Cart, error) {
	cart, ok := s.carts[userID]
	if !ok {
		return models.NewCart(), nil
	}
	return cart, nil
}

func (s *fakeCartStore) Save(_ context.Context, userID string, cart *models.Cart) error {
	s.carts[userID] = cart
	return nil
}

func (s *fakeCartStore) Clear(_ context.Context, userID string) error {
	delete(s.carts, userID)
	return nil
}

type fakeOrderCache struct{}

func (fakeOrderCache) Get(context.Context, string) (*models.Order, error) { return nil, nil }
func (fakeOrderCache) Set(context.Context, *models.Order) error           { return nil }
func (fakeOrderCache) Delete(context.Context, string) error               { return nil }
func (fakeOrderCache) GetByUserID(context.Context, string) ([]*models.Order, error) {
	return nil, nil
}
func (fakeOrderCache) SetByUserID(context.Context, string, []*models.Order) error { return nil }
func (fakeOrderCache) InvalidateByUserID(context.Context, string) error           { return nil }

type fakePayPal struct {
	providerOrderID string
	captureResult   *clients.CaptureResult
	captureErr      error
	createdAmounts  []float64
}

func (p *fakePayPal) CreateOrder(_ context.Context, amount float64, _ string) (string, error) {
	p.createdAmounts = append(p.createdAmounts, amount)
	return p.providerOrderID, nil
}

func (p *fakePayPal) CaptureOrder(context.Context, string) (*clients.CaptureResult, error) {
	if p.captureErr != nil {
		return nil, p.captureErr
	}
	return p.captureResult, nil
}

type fakePublisher struct {
	created   []string
	paid      []string
	delivered []string
}

func (p *fakePublisher) PublishOrderCreated(_ context.Context, order *models.Order) error {
	p.created = append(p.created, order.ID)
	return nil
}

func (p *fakePublisher) PublishOrderPaid(_ context.Context, order *models.Order) error {
	p.paid = append(p.paid, order.ID)
	return nil
}

func (p *fakePublisher) PublishOrderDelivered(_ context.Context, order *models.Order) error {
	p.delivered = append(p.delivered, order.ID)
	return nil
}
