package models

import "time"

// ProductImage is one catalog image, optionally bound to a color variant.
type ProductImage struct {
	URL   string `json:"url"`
	Color string `json:"color,omitempty"`
}

// Product is a catalog record. Rating and NumReviews are derived from the
// product's reviews and recomputed whenever a review changes.
type Product struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Category     string         `json:"category"`
	Brand        string         `json:"brand"`
	Price        float64        `json:"price"`
	Images       []ProductImage `json:"images"`
	Colors       []string       `json:"colors,omitempty"`
	Sizes        []string       `json:"sizes,omitempty"`
	CountInStock int            `json:"count_in_stock"`
	Rating       float64        `json:"rating"`
	NumReviews   int            `json:"num_reviews"`
	Description  string         `json:"description"`
	IsFeatured   bool           `json:"is_featured"`
	Banner       string         `json:"banner,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Catalog sort orders accepted by the product listing.
const (
	ProductSortTopRated = "toprated"
	ProductSortLatest   = "latest"
)

// ProductListFilter selects and pages the catalog listing.
type ProductListFilter struct {
	Category string
	Query    string
	Sort     string
	Limit    int
	Offset   int
}

// UpsertProductRequest is the admin payload for creating or updating a
// catalog record.
type UpsertProductRequest struct {
	Name         string         `json:"name"`
	Slug         string         `json:"slug"`
	Category     string         `json:"category"`
	Brand        string         `json:"brand"`
	Price        float64        `json:"price"`
	Images       []ProductImage `json:"images"`
	Colors       []string       `json:"colors"`
	Sizes        []string       `json:"sizes"`
	CountInStock int            `json:"count_in_stock"`
	Description  string         `json:"description"`
	IsFeatured   bool           `json:"is_featured"`
	Banner       string         `json:"banner"`
}
