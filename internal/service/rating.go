package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

// RatingNotifier tells a recipe author about a new rating on their recipe.
type RatingNotifier interface {
	SendRatingNotification(to, authorName, recipeTitle string, value int, reviewerName string) error
}

// RatingService computes rating aggregates and handles rating writes. The
// aggregate is always derived from the current rating rows; nothing is
// stored redundantly, so it cannot drift.
type RatingService struct {
	db       *gorm.DB
	notifier RatingNotifier
}

func NewRatingService(db *gorm.DB) *RatingService {
	return &RatingService{db: db}
}

// SetNotifier enables author notification email for new ratings. A nil
// notifier leaves email disabled.
func (s *RatingService) SetNotifier(n RatingNotifier) {
	s.notifier = n
}

// Aggregate returns the (average, count) pair over all ratings for a
// recipe. A recipe with zero ratings yields (0, 0).
func (s *RatingService) Aggregate(ctx context.Context, recipeID uuid.UUID) (types.RatingAggregate, error) {
	var row struct {
		Average float64
		Count   int64
	}
	err := s.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(value), 0) AS average, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Scan(&row).Error
	if err != nil {
		return types.RatingAggregate{}, err
	}
	return types.RatingAggregate{Average: row.Average, Count: row.Count}, nil
}

// UserRating returns the caller's own rating for a recipe, or nil when the
// caller has not rated it.
func (s *RatingService) UserRating(ctx context.Context, userID, recipeID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

// Upsert records or overwrites the caller's rating for a recipe. Authors
// may not rate their own recipes. The write and any existing-row check run
// in one transaction; the unique (user, recipe) index backstops concurrent
// inserts.
func (s *RatingService) Upsert(ctx context.Context, principal types.Principal, recipeID uuid.UUID, value int, comment string) (types.RatingAggregate, error) {
	if value < 1 || value > 5 {
		return types.RatingAggregate{}, types.NewValidationError("rating must be between 1 and 5")
	}

	var recipe models.Recipe
	created := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Author").First(&recipe, "id = ?", recipeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("recipe")
			}
			return err
		}

		if recipe.AuthorID == principal.ID {
			return types.NewForbiddenError("you cannot rate your own recipe")
		}

		var existing models.Rating
		err := tx.Where("user_id = ? AND recipe_id = ?", principal.ID, recipeID).First(&existing).Error
		switch {
		case err == nil:
			existing.Value = value
			existing.Comment = comment
			return tx.Save(&existing).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			rating := models.Rating{
				UserID:   principal.ID,
				RecipeID: recipeID,
				Value:    value,
				Comment:  comment,
			}
			created = true
			return tx.Create(&rating).Error
		default:
			return err
		}
	})
	if err != nil {
		return types.RatingAggregate{}, err
	}

	// The author hears about first-time ratings only, and a failed send
	// never fails the request.
	if created && s.notifier != nil && recipe.Author.Email != "" {
		if err := s.notifier.SendRatingNotification(
			recipe.Author.Email, recipe.Author.Username, recipe.Title, value, principal.Username,
		); err != nil {
			log.Printf("rating notification for recipe %s failed: %v", recipeID, err)
		}
	}

	return s.Aggregate(ctx, recipeID)
}

// Delete removes the caller's rating for a recipe. Deleting a rating that
// does not exist is an error, not a no-op.
func (s *RatingService) Delete(ctx context.Context, principal types.Principal, recipeID uuid.UUID) (types.RatingAggregate, error) {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", principal.ID, recipeID).
		Delete(&models.Rating{})
	if result.Error != nil {
		return types.RatingAggregate{}, result.Error
	}
	if result.RowsAffected == 0 {
		return types.RatingAggregate{}, types.NewNotFoundError("rating")
	}

	return s.Aggregate(ctx, recipeID)
}
