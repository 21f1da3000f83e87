package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/urbanthreads/storefront-service/internal/apperrors"
	"github.com/urbanthreads/storefront-service/internal/models"
)

func newTestReviewService() (*ReviewService, *fakeProductRepo) {
	productRepo := newFakeProductRepo(
		&models.Product{ID: "prod_1", Name: "Slim Jeans", Slug: "slim-jeans", Category: "Jeans", Price: 30},
	)
	return NewReviewService(newFakeReviewRepo(), productRepo), productRepo
}

func TestSubmitReview_UpdatesAggregate(t *testing.T) {
	svc, productRepo := newTestReviewService()

	alice := &models.Principal{UserID: "user_1", Name: "Alice"}
	bob := &models.Principal{UserID: "user_2", Name: "Bob"}

	_, err := svc.SubmitReview(context.Background(), alice, "slim-jeans", &models.SubmitReviewRequest{Rating: 4, Comment: "good fit"})
	require.NoError(t, err)
	require.Equal(t, 4.0, productRepo.products["prod_1"].Rating)
	require.Equal(t, 1, productRepo.products["prod_1"].NumReviews)

	_, err = svc.SubmitReview(context.Background(), bob, "slim-jeans", &models.SubmitReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	require.Equal(t, 4.5, productRepo.products["prod_1"].Rating)
	require.Equal(t, 2, productRepo.products["prod_1"].NumReviews)
}

func TestSubmitReview_DuplicateRejected(t *testing.T) {
	svc, productRepo := newTestReviewService()

	alice := &models.Principal{UserID: "user_1", Name: "Alice"}

	_, err := svc.SubmitReview(context.Background(), alice, "slim-jeans", &models.SubmitReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = svc.SubmitReview(context.Background(), alice, "slim-jeans", &models.SubmitReviewRequest{Rating: 2})
	var cerr *apperrors.ConflictError
	require.ErrorAs(t, err, &cerr)

	// The rejected duplicate must not have touched the aggregate.
	require.Equal(t, 4.0, productRepo.products["prod_1"].Rating)
	require.Equal(t, 1, productRepo.products["prod_1"].NumReviews)
}

func TestSubmitReview_RatingBounds(t *testing.T) {
	svc, _ := newTestReviewService()
	alice := &models.Principal{UserID: "user_1", Name: "Alice"}

	for _, rating := range []float64{0, 0.5, 5.5, 6, -1} {
		_, err := svc.SubmitReview(context.Background(), alice, "slim-jeans", &models.SubmitReviewRequest{Rating: rating})
		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr, "rating %v", rating)
	}
}

func TestSubmitReview_UnknownProduct(t *testing.T) {
	svc, _ := newTestReviewService()
	alice := &models.Principal{UserID: "user_1", Name: "Alice"}

	_, err := svc.SubmitReview(context.Background(), alice, "no-such-slug", &models.SubmitReviewRequest{Rating: 4})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateReview_AuthorOrAdmin(t *testing.T) {
	svc, productRepo := newTestReviewService()

	alice := &models.Principal{UserID: "user_1", Name: "Alice"}
	review, err := svc.SubmitReview(context.Background(), alice, "slim-jeans", &models.SubmitReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = svc.UpdateReview(context.Background(), &models.Principal{UserID: "user_2"}, review.ID, &models.UpdateReviewRequest{Rating: 1})
	var uerr *apperrors.UnauthorizedError
	require.ErrorAs(t, err, &uerr)

	updated, err := svc.UpdateReview(context.Background(), alice, review.ID, &models.UpdateReviewRequest{Rating: 2, Comment: "shrank in the wash"})
	require.NoError(t, err)
	require.Equal(t, 2.0, updated.Rating)
	require.Equal(t, 2.0, productRepo.products["prod_1"].Rating)

	admin := &models.Principal{UserID: "admin_1", IsAdmin: true}
	_, err = svc.UpdateReview(context.Background(), admin, review.ID, &models.UpdateReviewRequest{Rating: 3})
	require.NoError(t, err)
	require.Equal(t, 3.0, productRepo.products["prod_1"].Rating)
}

func TestDeleteReview_RecomputesAggregate(t *testing.T) {
	svc, productRepo := newTestReviewService()

	alice := &models.Principal{UserID: "user_1", Name: "Alice"}
	bob := &models.Principal{UserID: "user_2", Name: "Bob"}

	reviewA, err := svc.SubmitReview(context.Background(), alice, "slim-jeans", &models.SubmitReviewRequest{Rating: 4})
	require.NoError(t, err)
	reviewB, err := svc.SubmitReview(context.Background(), bob, "slim-jeans", &models.SubmitReviewRequest{Rating: 2})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(context.Background(), bob, reviewB.ID))
	require.Equal(t, 4.0, productRepo.products["prod_1"].Rating)
	require.Equal(t, 1, productRepo.products["prod_1"].NumReviews)

	// The last deletion resets the aggregate to zero.
	require.NoError(t, svc.DeleteReview(context.Background(), alice, reviewA.ID))
	require.Equal(t, 0.0, productRepo.products["prod_1"].Rating)
	require.Equal(t, 0, productRepo.products["prod_1"].NumReviews)
}
