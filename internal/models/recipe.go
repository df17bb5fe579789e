package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RecipeStatus is a recipe's moderation lifecycle state.
type RecipeStatus string

const (
	StatusPending  RecipeStatus = "pending"
	StatusApproved RecipeStatus = "approved"
	StatusRejected RecipeStatus = "rejected"
)

type Recipe struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	Title            string       `gorm:"size:200;not null" json:"title"`
	Ingredients      string       `gorm:"type:text;not null" json:"ingredients"`
	PreparationSteps string       `gorm:"type:text;not null" json:"preparation_steps"`
	CookingTime      int          `gorm:"not null;check:cooking_time > 0" json:"cooking_time"`
	ImageURL         string       `gorm:"size:255" json:"image_url,omitempty"`
	Status           RecipeStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CategoryID       uuid.UUID    `gorm:"type:uuid;not null;index" json:"category_id"`
	AuthorID         uuid.UUID    `gorm:"type:uuid;not null;index" json:"author_id"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	Category  Category   `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Author    User       `gorm:"foreignKey:AuthorID" json:"-"`
	Ratings   []Rating   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites []Favorite `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
