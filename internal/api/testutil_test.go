package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/service"
	"github.com/recipehub/backend/internal/types"
)

const testJWTSecret = "handler-test-secret"

// setupTestRouter wires the handlers onto a gin engine backed by an
// in-memory database, mirroring the production wiring minus Redis and S3.
func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Recipe{},
		&models.Rating{},
		&models.Favorite{},
	))
	for _, category := range models.DefaultCategories {
		c := category
		require.NoError(t, db.Create(&c).Error)
	}

	authService := service.NewAuthService(db, testJWTSecret)
	ratingService := service.NewRatingService(db)
	recipeService := service.NewRecipeService(db, ratingService)
	searchService := service.NewSearchService(db)
	favoriteService := service.NewFavoriteService(db)
	categoryService := service.NewCategoryService(db)
	adminService := service.NewAdminService(db)

	engine := gin.New()
	v1 := engine.Group("/api/v1")

	NewAuthHandler(authService).RegisterRoutes(v1)
	NewRecipeHandler(recipeService, searchService, ratingService, favoriteService,
		authService, nil, nil).RegisterRoutes(v1)
	NewCategoryHandler(categoryService, authService).RegisterRoutes(v1)
	NewAdminHandler(adminService, recipeService, searchService, authService).RegisterRoutes(v1)

	return engine, db
}

// registerUser creates an account over HTTP and returns its token.
func registerUser(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// registerAdmin registers a user and promotes them directly in the store.
func registerAdmin(t *testing.T, engine *gin.Engine, db *gorm.DB, username string) string {
	t.Helper()

	token := registerUser(t, engine, username)
	err := db.Model(&models.User{}).
		Where("username = ?", username).
		Update("role", types.RoleAdmin).Error
	require.NoError(t, err)
	return token
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func defaultCategoryID(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()

	var category models.Category
	require.NoError(t, db.Order("name ASC").First(&category).Error)
	return category.ID
}

func submitRecipe(t *testing.T, engine *gin.Engine, db *gorm.DB, token, title string) uuid.UUID {
	t.Helper()

	w := doJSON(t, engine, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"title":             title,
		"ingredients":       "flour, water, salt",
		"preparation_steps": "mix and rest",
		"cooking_time":      40,
		"category_id":       defaultCategoryID(t, db),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var recipe models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipe))
	return recipe.ID
}
