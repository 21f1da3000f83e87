package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"
	"time"

	"github.com/lib/pq"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// PostgresProductRepository persists the product catalog in PostgreSQL.
type PostgresProductRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresProductRepository creates a new PostgreSQL product repository.
func NewPostgresProductRepository(db *sql.DB, logger *logging.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `
	id, name, slug, category, brand, price, images, colors, sizes,
	count_in_stock, rating, num_reviews, description, is_featured, banner,
	created_at, updated_at
`

// Create inserts a new catalog record.
func (r *PostgresProductRepository) Create(ctx context.Context, product *models.Product) error {
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Category,
		product.Brand,
		product.Price,
		imagesJSON,
		pq.Array(product.Colors),
		pq.Array(product.Sizes),
		product.CountInStock,
		product.Rating,
		product.NumReviews,
		product.Description,
		product.IsFeatured,
		product.Banner,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.NewConflictError("a product with this slug already exists")
		}
		r.logger.Error("Failed to create product", logging.Fields{
			"slug":  product.Slug,
			"error": err.Error(),
		})
		return err
	}

	r.logger.Info("Product created", logging.Fields{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

// GetByID retrieves a product by identifier.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetBySlug retrieves a product by its URL slug.
func (r *PostgresProductRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	return r.getOne(ctx, query, slug)
}

// GetPricesByIDs returns the current catalog unit price for each requested
// product id. Missing ids are simply absent from the result; the caller
// decides whether that is an error.
func (r *PostgresProductRepository) GetPricesByIDs(ctx context.Context, ids []string) (map[string]float64, error) {
	query := `SELECT id, price FROM products WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prices := make(map[string]float64, len(ids))
	for rows.Next() {
		var id string
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, err
		}
		prices[id] = price
	}
	return prices, rows.Err()
}

// List retrieves a page of the catalog along with the total match count.
func (r *PostgresProductRepository) List(ctx context.Context, filter *models.ProductListFilter) ([]*models.Product, int, error) {
	baseQuery := ` FROM products WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filter.Category != "" {
		args = append(args, filter.Category)
		baseQuery += ` AND category = $` + strconv.Itoa(len(args))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		baseQuery += ` AND (name ILIKE $` + strconv.Itoa(len(args)) + ` OR description ILIKE $` + strconv.Itoa(len(args)) + `)`
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*)`+baseQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := ` ORDER BY rating DESC, num_reviews DESC`
	if filter.Sort == models.ProductSortLatest {
		orderBy = ` ORDER BY created_at DESC`
	}

	args = append(args, filter.Limit)
	limitArg := strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	offsetArg := strconv.Itoa(len(args))

	query := `SELECT ` + productColumns + baseQuery + orderBy +
		` LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	return products, total, rows.Err()
}

// ListRelated retrieves products in the same category, excluding the product
// identified by slug.
func (r *PostgresProductRepository) ListRelated(ctx context.Context, category, excludeSlug string, limit int) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE category = $1 AND slug <> $2
		ORDER BY rating DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, category, excludeSlug, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

// ListCategories returns the distinct catalog categories.
func (r *PostgresProductRepository) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT category FROM products ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Update rewrites a catalog record's editable fields.
func (r *PostgresProductRepository) Update(ctx context.Context, product *models.Product) error {
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return err
	}

	product.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = $2, slug = $3, category = $4, brand = $5, price = $6,
		    images = $7, colors = $8, sizes = $9, count_in_stock = $10,
		    description = $11, is_featured = $12, banner = $13, updated_at = $14
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Category,
		product.Brand,
		product.Price,
		imagesJSON,
		pq.Array(product.Colors),
		pq.Array(product.Sizes),
		product.CountInStock,
		product.Description,
		product.IsFeatured,
		product.Banner,
		product.UpdatedAt,
	)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateRating writes the recomputed review aggregate onto a product. This is
// a separate write from the review mutation that triggered it.
func (r *PostgresProductRepository) UpdateRating(ctx context.Context, productID string, rating float64, numReviews int) error {
	query := `
		UPDATE products
		SET rating = $2, num_reviews = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, productID, rating, numReviews, time.Now())
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}

	r.logger.Debug("Product rating updated", logging.Fields{
		"product_id":  productID,
		"rating":      rating,
		"num_reviews": numReviews,
	})
	return nil
}

// Delete removes a catalog record. Orders referencing it are unaffected.
func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PostgresProductRepository) getOne(ctx context.Context, query string, arg interface{}) (*models.Product, error) {
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var product models.Product
	var imagesJSON []byte
	var banner sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Category,
		&product.Brand,
		&product.Price,
		&imagesJSON,
		pq.Array(&product.Colors),
		pq.Array(&product.Sizes),
		&product.CountInStock,
		&product.Rating,
		&product.NumReviews,
		&product.Description,
		&product.IsFeatured,
		&banner,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(imagesJSON, &product.Images); err != nil {
		return nil, err
	}
	if banner.Valid {
		product.Banner = banner.String
	}

	return &product, nil
}
