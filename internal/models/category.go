package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Recipes []Recipe `gorm:"foreignKey:CategoryID" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// DefaultCategories are seeded on first migration.
var DefaultCategories = []Category{
	{Name: "Vegetarian", Description: "Recipes without meat or fish"},
	{Name: "Vegan", Description: "Plant-based recipes without any animal products"},
	{Name: "Non-Vegetarian", Description: "Recipes containing meat, poultry, or seafood"},
	{Name: "Desserts", Description: "Sweet treats and dessert recipes"},
	{Name: "Snacks", Description: "Quick bites and snack recipes"},
	{Name: "Beverages", Description: "Drink recipes and beverages"},
	{Name: "Breakfast", Description: "Morning meal recipes"},
	{Name: "Main Course", Description: "Primary meal dishes"},
}
