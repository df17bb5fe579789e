package types

import (
	"time"

	"github.com/google/uuid"
)

// RecipeSummary is the card-sized projection returned by search and list
// endpoints. It carries the computed rating aggregate but not the body text.
type RecipeSummary struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	CookingTime    int       `json:"cooking_time"`
	CategoryID     uuid.UUID `json:"category_id"`
	CategoryName   string    `json:"category"`
	ImageURL       string    `json:"image_url,omitempty"`
	AuthorUsername string    `json:"author"`
	AverageRating  float64   `json:"average_rating"`
	RatingCount    int64     `json:"rating_count"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

// RatingAggregate is the derived (average, count) pair for a recipe. A
// recipe with no ratings has average 0 and count 0, never NaN.
type RatingAggregate struct {
	Average float64 `json:"average_rating"`
	Count   int64   `json:"rating_count"`
}

// UserRating is a viewer's own rating of a recipe, carried on the detail
// response so the UI can distinguish "rate" from "update rating".
type UserRating struct {
	Value     int       `json:"value"`
	Comment   string    `json:"comment,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
