package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
)

// PostgresReviewRepository persists product reviews in PostgreSQL. The table
// carries a unique (user_id, product_id) constraint backing the one-review-
// per-user rule.
type PostgresReviewRepository struct {
	db     *sql.DB
	logger *logging.Logger
}

// NewPostgresReviewRepository creates a new PostgreSQL review repository.
func NewPostgresReviewRepository(db *sql.DB, logger *logging.Logger) *PostgresReviewRepository {
	return &PostgresReviewRepository{
		db:     db,
		logger: logger,
	}
}

const reviewColumns = `id, user_id, user_name, product_id, rating, comment, created_at, updated_at`

// Create inserts a review. A duplicate (user, product) pair is reported as a
// conflict.
func (r *PostgresReviewRepository) Create(ctx context.Context, review *models.Review) error {
	query := `
		INSERT INTO reviews (` + reviewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.UserID,
		review.UserName,
		review.ProductID,
		review.Rating,
		review.Comment,
		review.CreatedAt,
		review.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return apperrors.NewConflictError("you have already reviewed this product")
		}
		r.logger.Error("Failed to create review", logging.Fields{
			"product_id": review.ProductID,
			"user_id":    review.UserID,
			"error":      err.Error(),
		})
		return err
	}

	return nil
}

// GetByID retrieves a review by identifier.
func (r *PostgresReviewRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// GetByUserAndProduct retrieves the review a user left on a product, or
// ErrNotFound.
func (r *PostgresReviewRepository) GetByUserAndProduct(ctx context.Context, userID, productID string) (*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 AND product_id = $2`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, userID, productID))
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

// ListByProduct retrieves every review for a product, newest first.
func (r *PostgresReviewRepository) ListByProduct(ctx context.Context, productID string) ([]*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// ListByUser retrieves every review a user has written, newest first.
func (r *PostgresReviewRepository) ListByUser(ctx context.Context, userID string) ([]*models.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := make([]*models.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	return reviews, rows.Err()
}

// Update rewrites a review's rating and comment.
func (r *PostgresReviewRepository) Update(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now()

	query := `
		UPDATE reviews
		SET rating = $2, comment = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, review.ID, review.Rating, review.Comment, review.UpdatedAt)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete removes a review.
func (r *PostgresReviewRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanReview(row rowScanner) (*models.Review, error) {
	var review models.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.UserName,
		&review.ProductID,
		&review.Rating,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}
