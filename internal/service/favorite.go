package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

// FavoriteService handles the presence-only (user, recipe) favorite records.
type FavoriteService struct {
	db *gorm.DB
}

func NewFavoriteService(db *gorm.DB) *FavoriteService {
	return &FavoriteService{db: db}
}

// Toggle flips the favorite state for a recipe and returns the new state.
// Each call changes state exactly once; the unique (user, recipe) index
// stops a concurrent double insert.
func (s *FavoriteService) Toggle(ctx context.Context, principal types.Principal, recipeID uuid.UUID) (bool, error) {
	var favorited bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("recipe")
			}
			return err
		}

		var existing models.Favorite
		err := tx.Where("user_id = ? AND recipe_id = ?", principal.ID, recipeID).First(&existing).Error
		switch {
		case err == nil:
			favorited = false
			return tx.Delete(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			favorited = true
			favorite := models.Favorite{UserID: principal.ID, RecipeID: recipeID}
			return tx.Create(&favorite).Error
		default:
			return err
		}
	})
	return favorited, err
}

// List returns the caller's approved favorite recipes as summaries, newest
// first.
func (s *FavoriteService) List(ctx context.Context, principal types.Principal) ([]types.RecipeSummary, error) {
	agg := s.db.Model(&models.Rating{}).
		Select("recipe_id, AVG(value) AS avg_rating, COUNT(*) AS rating_count").
		Group("recipe_id")

	var results []types.RecipeSummary
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("recipes.id, recipes.title, recipes.cooking_time, recipes.category_id, "+
			"categories.name AS category_name, recipes.image_url, users.username AS author_username, "+
			"COALESCE(agg.avg_rating, 0) AS average_rating, COALESCE(agg.rating_count, 0) AS rating_count, "+
			"recipes.status, recipes.created_at").
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?", principal.ID).
		Joins("JOIN categories ON categories.id = recipes.category_id").
		Joins("JOIN users ON users.id = recipes.author_id").
		Joins("LEFT JOIN (?) AS agg ON agg.recipe_id = recipes.id", agg).
		Where("recipes.status = ?", models.StatusApproved).
		Order("recipes.created_at DESC, recipes.id ASC").
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
