package models

import "time"

// Review is one user's rating of a product. At most one review exists per
// (user, product) pair.
type Review struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	ProductID string    `json:"product_id"`
	Rating    float64   `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubmitReviewRequest is the payload for creating a review on a product.
type SubmitReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}

// UpdateReviewRequest is the payload for editing an existing review.
type UpdateReviewRequest struct {
	Rating  float64 `json:"rating"`
	Comment string  `json:"comment"`
}
