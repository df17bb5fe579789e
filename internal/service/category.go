package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

// CategoryWithCount is a category plus how many recipes reference it.
type CategoryWithCount struct {
	models.Category
	RecipeCount int64 `json:"recipe_count"`
}

// CategoryService manages the recipe categories.
type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

// List returns all categories with their recipe counts, sorted by name.
func (s *CategoryService) List(ctx context.Context) ([]CategoryWithCount, error) {
	var results []CategoryWithCount
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Select("categories.*, COUNT(recipes.id) AS recipe_count").
		Joins("LEFT JOIN recipes ON recipes.category_id = categories.id").
		Group("categories.id").
		Order("categories.name ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Create adds a category. Admin only; duplicate names conflict.
func (s *CategoryService) Create(ctx context.Context, principal types.Principal, name, description string) (*models.Category, error) {
	if err := types.RequireAdmin(principal); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, types.NewValidationError("category name is required")
	}

	db := s.db.WithContext(ctx)

	var existing models.Category
	if err := db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, types.NewConflictError("category %q already exists", name)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := models.Category{Name: name, Description: strings.TrimSpace(description)}
	if err := db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes a category. It fails closed: a category still referenced
// by recipes cannot be deleted.
func (s *CategoryService) Delete(ctx context.Context, principal types.Principal, id uuid.UUID) error {
	if err := types.RequireAdmin(principal); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("category")
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Recipe{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.NewConflictError("category %q still has %d recipe(s)", category.Name, count)
		}

		return tx.Delete(&category).Error
	})
}
