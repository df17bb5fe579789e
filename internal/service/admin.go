package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

// DashboardStats are the counters on the admin landing page.
type DashboardStats struct {
	TotalUsers     int64 `json:"total_users"`
	TotalRecipes   int64 `json:"total_recipes"`
	PendingRecipes int64 `json:"pending_recipes"`
	TotalRatings   int64 `json:"total_ratings"`
}

// AdminService covers the admin-only views and user management. Every
// operation goes through the shared RequireAdmin predicate.
type AdminService struct {
	db *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{db: db}
}

// Dashboard returns site totals and the five most recent recipes.
func (s *AdminService) Dashboard(ctx context.Context, principal types.Principal) (*DashboardStats, []models.Recipe, error) {
	if err := types.RequireAdmin(principal); err != nil {
		return nil, nil, err
	}

	db := s.db.WithContext(ctx)
	stats := &DashboardStats{}

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, nil, err
	}
	if err := db.Model(&models.Recipe{}).Count(&stats.TotalRecipes).Error; err != nil {
		return nil, nil, err
	}
	if err := db.Model(&models.Recipe{}).Where("status = ?", models.StatusPending).Count(&stats.PendingRecipes).Error; err != nil {
		return nil, nil, err
	}
	if err := db.Model(&models.Rating{}).Count(&stats.TotalRatings).Error; err != nil {
		return nil, nil, err
	}

	var recent []models.Recipe
	if err := db.Preload("Category").Order("created_at DESC, id ASC").Limit(5).Find(&recent).Error; err != nil {
		return nil, nil, err
	}

	return stats, recent, nil
}

// ListUsers returns all users, newest first.
func (s *AdminService) ListUsers(ctx context.Context, principal types.Principal) ([]models.User, error) {
	if err := types.RequireAdmin(principal); err != nil {
		return nil, err
	}

	var users []models.User
	err := s.db.WithContext(ctx).Order("created_at DESC, id ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// ToggleRole flips a user between member and admin. An admin cannot change
// their own role.
func (s *AdminService) ToggleRole(ctx context.Context, principal types.Principal, userID uuid.UUID) (types.Role, error) {
	if err := types.RequireAdmin(principal); err != nil {
		return "", err
	}
	if userID == principal.ID {
		return "", types.NewValidationError("cannot change your own role")
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", types.NewNotFoundError("user")
		}
		return "", err
	}

	if user.Role == types.RoleAdmin {
		user.Role = types.RoleMember
	} else {
		user.Role = types.RoleAdmin
	}

	if err := s.db.WithContext(ctx).Save(&user).Error; err != nil {
		return "", err
	}
	return user.Role, nil
}

// DeleteUser removes a user and everything they own. An admin cannot
// delete their own account.
func (s *AdminService) DeleteUser(ctx context.Context, principal types.Principal, userID uuid.UUID) error {
	if err := types.RequireAdmin(principal); err != nil {
		return err
	}
	if userID == principal.ID {
		return types.NewValidationError("cannot delete your own account")
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NewNotFoundError("user")
			}
			return err
		}

		// Ratings and favorites hanging off the user's recipes go first,
		// then the recipes, then the user's own activity.
		var recipeIDs []uuid.UUID
		if err := tx.Model(&models.Recipe{}).Where("author_id = ?", userID).Pluck("id", &recipeIDs).Error; err != nil {
			return err
		}
		if len(recipeIDs) > 0 {
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Rating{}).Error; err != nil {
				return err
			}
			if err := tx.Where("recipe_id IN ?", recipeIDs).Delete(&models.Favorite{}).Error; err != nil {
				return err
			}
			if err := tx.Where("author_id = ?", userID).Delete(&models.Recipe{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}

		return tx.Delete(&user).Error
	})
}
