package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/service"
)

type CategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CategoryHandler exposes the category list and the admin-only writes.
type CategoryHandler struct {
	categoryService *service.CategoryService
	auth            middleware.Authenticator
}

func NewCategoryHandler(categoryService *service.CategoryService, auth middleware.Authenticator) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auth: auth}
}

func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)

	categories := router.Group("/categories")
	{
		categories.GET("", h.List)
		categories.POST("", requireAuth, h.Create)
		categories.DELETE("/:id", requireAuth, h.Delete)
	}
}

func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.categoryService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), principal, req.Name, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), principal, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
