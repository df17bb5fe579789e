package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/service"
)

func TestCategoryListPublic(t *testing.T) {
	engine, _ := setupTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []service.CategoryWithCount `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Categories, len(models.DefaultCategories))
}

func TestCategoryWritesAdminOnly(t *testing.T) {
	engine, db := setupTestRouter(t)

	memberToken := registerUser(t, engine, "member")
	adminToken := registerAdmin(t, engine, db, "admin")

	w := doJSON(t, engine, http.MethodPost, "/api/v1/categories", memberToken, gin.H{"name": "Fusion"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "Fusion"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/categories", adminToken, gin.H{"name": "Fusion"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCategoryDeleteConflictOverHTTP(t *testing.T) {
	engine, db := setupTestRouter(t)

	authorToken := registerUser(t, engine, "author")
	adminToken := registerAdmin(t, engine, db, "admin")

	submitRecipe(t, engine, db, authorToken, "Category Holder")
	categoryID := defaultCategoryID(t, db)

	w := doJSON(t, engine, http.MethodDelete, "/api/v1/categories/"+categoryID.String(), adminToken, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// The category is untouched after the refusal.
	var category models.Category
	assert.NoError(t, db.First(&category, "id = ?", categoryID).Error)
}
