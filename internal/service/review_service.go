package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/logging"
	"github.com/urbanthreads/storefront-service/internal/models"
	"github.com/urbanthreads/storefront-service/internal/pricing"
)

// ReviewService handles product reviews and keeps the product's rating
// aggregate in sync with them.
type ReviewService struct {
	reviewRepo  ReviewRepository
	productRepo ProductRepository
	logger      *logging.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo ReviewRepository, productRepo ProductRepository) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		logger:      logging.New("review-service"),
	}
}

// SubmitReview creates the principal's review on the product identified by
// slug. A user gets at most one review per product.
func (s *ReviewService) SubmitReview(ctx context.Context, principal *models.Principal, slug string, req *models.SubmitReviewRequest) (*models.Review, error) {
	if err := ValidateReviewRating(req.Rating); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if existing, err := s.reviewRepo.GetByUserAndProduct(ctx, principal.UserID, product.ID); err != nil {
		if err != apperrors.ErrNotFound {
			return nil, err
		}
	} else if existing != nil {
		return nil, apperrors.NewConflictError("you have already reviewed this product")
	}

	now := time.Now().UTC()
	review := &models.Review{
		ID:        uuid.NewString(),
		UserID:    principal.UserID,
		UserName:  principal.Name,
		ProductID: product.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("Review submitted", logging.Fields{
		"product_id": product.ID,
		"user_id":    principal.UserID,
		"rating":     req.Rating,
	})

	if err := s.recomputeRating(ctx, product.ID); err != nil {
		return nil, err
	}
	return review, nil
}

// UpdateReview edits an existing review. Only the author or an admin may do
// so.
func (s *ReviewService) UpdateReview(ctx context.Context, principal *models.Principal, reviewID string, req *models.UpdateReviewRequest) (*models.Review, error) {
	if err := ValidateReviewRating(req.Rating); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != principal.UserID && !principal.IsAdmin {
		return nil, apperrors.NewUnauthorizedError("review belongs to another user")
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	review.UpdatedAt = time.Now().UTC()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}

	if err := s.recomputeRating(ctx, review.ProductID); err != nil {
		return nil, err
	}
	return review, nil
}

// DeleteReview removes a review. Only the author or an admin may do so.
func (s *ReviewService) DeleteReview(ctx context.Context, principal *models.Principal, reviewID string) error {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != principal.UserID && !principal.IsAdmin {
		return apperrors.NewUnauthorizedError("review belongs to another user")
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return err
	}

	s.logger.Info("Review deleted", logging.Fields{
		"review_id":  reviewID,
		"product_id": review.ProductID,
	})
	return s.recomputeRating(ctx, review.ProductID)
}

// ListProductReviews returns all reviews on the product identified by slug.
func (s *ReviewService) ListProductReviews(ctx context.Context, slug string) ([]*models.Review, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByProduct(ctx, product.ID)
}

// ListUserReviews returns the principal's reviews across all products.
func (s *ReviewService) ListUserReviews(ctx context.Context, userID string) ([]*models.Review, error) {
	return s.reviewRepo.ListByUser(ctx, userID)
}

// recomputeRating rereads the product's reviews and stores the fresh mean
// and count. A product with no reviews goes back to zero.
func (s *ReviewService) recomputeRating(ctx context.Context, productID string) error {
	reviews, err := s.reviewRepo.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}

	var rating float64
	if len(reviews) > 0 {
		var sum float64
		for _, r := range reviews {
			sum += r.Rating
		}
		rating = pricing.Round2(sum / float64(len(reviews)))
	}

	if err := s.productRepo.UpdateRating(ctx, productID, rating, len(reviews)); err != nil {
		s.logger.Error("Failed to update product rating", logging.Fields{
			"product_id": productID,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}
