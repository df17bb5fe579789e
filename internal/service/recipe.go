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

// RecipeInput carries the author-supplied fields for submit and edit.
type RecipeInput struct {
	Title            string
	Ingredients      string
	PreparationSteps string
	CookingTime      int
	CategoryID       uuid.UUID
}

func (in *RecipeInput) validate(db *gorm.DB) error {
	if strings.TrimSpace(in.Title) == "" ||
		strings.TrimSpace(in.Ingredients) == "" ||
		strings.TrimSpace(in.PreparationSteps) == "" {
		return types.NewValidationError("title, ingredients and preparation steps are required")
	}
	if in.CookingTime <= 0 {
		return types.NewValidationError("cooking time must be a positive number of minutes")
	}

	var category models.Category
	if err := db.First(&category, "id = ?", in.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return types.NewValidationError("unknown category")
		}
		return err
	}
	return nil
}

// RecipeDetail is the full recipe plus everything the detail view needs:
// the live rating aggregate, the viewer's own rating, and whether the
// viewer has favorited it.
type RecipeDetail struct {
	Recipe       models.Recipe         `json:"recipe"`
	Aggregate    types.RatingAggregate `json:"aggregate"`
	ViewerRating *types.UserRating     `json:"user_rating"`
	IsFavorited  bool                  `json:"is_favorited"`
}

// RecipeService owns the recipe lifecycle: submission, editing, deletion,
// and the pending/approved/rejected moderation transitions.
type RecipeService struct {
	db      *gorm.DB
	ratings *RatingService
}

func NewRecipeService(db *gorm.DB, ratings *RatingService) *RecipeService {
	return &RecipeService{db: db, ratings: ratings}
}

// VisibleTo reports whether a viewer may see a recipe: approved recipes are
// public, everything else is restricted to the author and admins. Search
// scoping and detail fetch both go through this predicate.
func VisibleTo(recipe *models.Recipe, viewer *types.Principal) bool {
	if recipe.Status == models.StatusApproved {
		return true
	}
	if viewer == nil {
		return false
	}
	return viewer.ID == recipe.AuthorID || viewer.IsAdmin()
}

// Submit creates a recipe in pending status, owned by the caller.
func (s *RecipeService) Submit(ctx context.Context, principal types.Principal, in RecipeInput) (*models.Recipe, error) {
	db := s.db.WithContext(ctx)
	if err := in.validate(db); err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		Title:            strings.TrimSpace(in.Title),
		Ingredients:      in.Ingredients,
		PreparationSteps: in.PreparationSteps,
		CookingTime:      in.CookingTime,
		CategoryID:       in.CategoryID,
		AuthorID:         principal.ID,
		Status:           models.StatusPending,
	}
	if err := db.Create(&recipe).Error; err != nil {
		return nil, err
	}

	if err := db.Preload("Category").First(&recipe, "id = ?", recipe.ID).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Get returns the recipe detail for a viewer. An invisible recipe is
// reported as not found, same as an absent one.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID, viewer *types.Principal) (*RecipeDetail, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Preload("Category").First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("recipe")
		}
		return nil, err
	}

	if !VisibleTo(&recipe, viewer) {
		return nil, types.NewNotFoundError("recipe")
	}

	detail := &RecipeDetail{Recipe: recipe}

	agg, err := s.ratings.Aggregate(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	detail.Aggregate = agg

	if viewer != nil {
		rating, err := s.ratings.UserRating(ctx, viewer.ID, recipe.ID)
		if err != nil {
			return nil, err
		}
		if rating != nil {
			detail.ViewerRating = &types.UserRating{
				Value:     rating.Value,
				Comment:   rating.Comment,
				UpdatedAt: rating.UpdatedAt,
			}
		}

		var count int64
		err = s.db.WithContext(ctx).Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", viewer.ID, recipe.ID).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		detail.IsFavorited = count > 0
	}

	return detail, nil
}

// Update edits a recipe's fields. Only the author may edit, and editing
// does not change the moderation status: an approved recipe stays approved.
func (s *RecipeService) Update(ctx context.Context, principal types.Principal, id uuid.UUID, in RecipeInput) (*models.Recipe, error) {
	db := s.db.WithContext(ctx)

	var recipe models.Recipe
	if err := db.First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError("recipe")
		}
		return nil, err
	}

	if recipe.AuthorID != principal.ID {
		return nil, types.NewForbiddenError("you can only edit your own recipes")
	}

	if err := in.validate(db); err != nil {
		return nil, err
	}

	recipe.Title = strings.TrimSpace(in.Title)
	recipe.Ingredients = in.Ingredients
	recipe.PreparationSteps = in.PreparationSteps
	recipe.CookingTime = in.CookingTime
	recipe.CategoryID = in.CategoryID

	if err := db.Save(&recipe).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Category").First(&recipe, "id = ?", recipe.ID).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Delete removes a recipe and cascades its ratings and favorites in one
// transaction. Permitted for the author and for admins.
func (s *RecipeService) Delete(ctx context.Context, principal types.Principal, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("recipe")
			}
			return err
		}

		if recipe.AuthorID != principal.ID && !principal.IsAdmin() {
			return types.NewForbiddenError("you can only delete your own recipes")
		}

		if err := tx.Where("recipe_id = ?", id).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

// Approve sets a recipe's status to approved. Admin only; a previously
// rejected recipe may be re-approved.
func (s *RecipeService) Approve(ctx context.Context, principal types.Principal, id uuid.UUID) (models.RecipeStatus, error) {
	return s.setStatus(ctx, principal, id, models.StatusApproved)
}

// Reject sets a recipe's status to rejected. Admin only.
func (s *RecipeService) Reject(ctx context.Context, principal types.Principal, id uuid.UUID) (models.RecipeStatus, error) {
	return s.setStatus(ctx, principal, id, models.StatusRejected)
}

func (s *RecipeService) setStatus(ctx context.Context, principal types.Principal, id uuid.UUID, status models.RecipeStatus) (models.RecipeStatus, error) {
	if err := types.RequireAdmin(principal); err != nil {
		return "", err
	}

	result := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", types.NewNotFoundError("recipe")
	}
	return status, nil
}
