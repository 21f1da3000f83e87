package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
)

const relatedProductsLimit = 4

// ProductService handles catalog reads and the admin-side catalog writes.
type ProductService struct {
	productRepo ProductRepository
	logger      *logging.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		logger:      logging.New("product-service"),
	}
}

// ListProducts pages the catalog with optional category, text query and sort.
func (s *ProductService) ListProducts(ctx context.Context, filter *models.ProductListFilter) ([]*models.Product, int, error) {
	return s.productRepo.List(ctx, filter)
}

// GetProductBySlug returns a single catalog record.
func (s *ProductService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.productRepo.GetBySlug(ctx, slug)
}

// GetRelatedProducts returns other products in the same category.
func (s *ProductService) GetRelatedProducts(ctx context.Context, slug string) ([]*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListRelated(ctx, product.Category, product.Slug, relatedProductsLimit)
}

// ListCategories returns the distinct catalog categories.
func (s *ProductService) ListCategories(ctx context.Context) ([]string, error) {
	return s.productRepo.ListCategories(ctx)
}

// CreateProduct adds a catalog record. Rating starts at zero; it is owned by
// the review aggregate and never set directly.
func (s *ProductService) CreateProduct(ctx context.Context, req *models.UpsertProductRequest) (*models.Product, error) {
	if err := validateUpsertProduct(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	product := &models.Product{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyUpsert(product, req)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", logging.Fields{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return product, nil
}

// UpdateProduct overwrites the editable fields of a catalog record.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, req *models.UpsertProductRequest) (*models.Product, error) {
	if err := validateUpsertProduct(req); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpsert(product, req)
	product.UpdatedAt = time.Now().UTC()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a catalog record.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product deleted", logging.Fields{"product_id": id})
	return nil
}

func applyUpsert(product *models.Product, req *models.UpsertProductRequest) {
	product.Name = req.Name
	product.Slug = req.Slug
	product.Category = req.Category
	product.Brand = req.Brand
	product.Price = req.Price
	product.Images = req.Images
	product.Colors = req.Colors
	product.Sizes = req.Sizes
	product.CountInStock = req.CountInStock
	product.Description = req.Description
	product.IsFeatured = req.IsFeatured
	product.Banner = req.Banner
}

func validateUpsertProduct(req *models.UpsertProductRequest) error {
	switch {
	case req.Name == "":
		return apperrors.NewValidationError("name", "name is required")
	case req.Slug == "":
		return apperrors.NewValidationError("slug", "slug is required")
	case req.Category == "":
		return apperrors.NewValidationError("category", "category is required")
	case req.Price < 0:
		return apperrors.NewValidationError("price", "price must not be negative")
	case req.CountInStock < 0:
		return apperrors.NewValidationError("count_in_stock", "stock must not be negative")
	}
	return nil
}
