package service

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

// newTestDB opens a fresh in-memory sqlite database with the full schema
// and the default categories.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Recipe{},
		&models.Rating{},
		&models.Favorite{},
	)
	require.NoError(t, err)

	for _, category := range models.DefaultCategories {
		c := category
		require.NoError(t, db.Create(&c).Error)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string, role types.Role) *models.User {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hashed),
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func principalFor(user *models.User) types.Principal {
	return user.Principal()
}

func firstCategory(t *testing.T, db *gorm.DB) *models.Category {
	t.Helper()

	var category models.Category
	require.NoError(t, db.Order("name ASC").First(&category).Error)
	return &category
}

func createTestRecipe(t *testing.T, db *gorm.DB, author *models.User, title string, status models.RecipeStatus) *models.Recipe {
	t.Helper()

	category := firstCategory(t, db)
	recipe := &models.Recipe{
		Title:            title,
		Ingredients:      "flour, eggs, milk",
		PreparationSteps: "mix and bake",
		CookingTime:      30,
		CategoryID:       category.ID,
		AuthorID:         author.ID,
		Status:           status,
	}
	require.NoError(t, db.Create(recipe).Error)
	return recipe
}
