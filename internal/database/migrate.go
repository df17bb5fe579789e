package database

import (
	"errors"
	"log"

	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/models"
)

// Migrate applies the schema for all application models. Constraint
// enforcement (unique rating/favorite pairs, value checks, cascades) lives
// in the model tags so the store carries it, not just the application.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Recipe{},
		&models.Rating{},
		&models.Favorite{},
	)
}

// SeedCategories inserts the default categories, skipping any that already
// exist.
func SeedCategories(db *gorm.DB) error {
	for _, c := range models.DefaultCategories {
		var existing models.Category
		err := db.Where("name = ?", c.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		category := c
		if err := db.Create(&category).Error; err != nil {
			return err
		}
		log.Printf("seeded category %q", category.Name)
	}
	return nil
}
