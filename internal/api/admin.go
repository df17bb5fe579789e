package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/service"
	"github.com/recipehub/backend/internal/types"
)

// AdminHandler exposes the moderation queue, the dashboard, and user
// management. Authorization lives in the services; the handlers only
// resolve the caller.
type AdminHandler struct {
	adminService  *service.AdminService
	recipeService *service.RecipeService
	searchService *service.SearchService
	auth          middleware.Authenticator
}

func NewAdminHandler(
	adminService *service.AdminService,
	recipeService *service.RecipeService,
	searchService *service.SearchService,
	auth middleware.Authenticator,
) *AdminHandler {
	return &AdminHandler{
		adminService:  adminService,
		recipeService: recipeService,
		searchService: searchService,
		auth:          auth,
	}
}

func (h *AdminHandler) RegisterRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin", middleware.AuthMiddleware(h.auth))
	{
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/recipes/pending", h.PendingRecipes)
		admin.POST("/recipes/:id/approve", h.Approve)
		admin.POST("/recipes/:id/reject", h.Reject)
		admin.GET("/users", h.ListUsers)
		admin.POST("/users/:id/toggle-role", h.ToggleRole)
		admin.DELETE("/users/:id", h.DeleteUser)
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	stats, recent, err := h.adminService.Dashboard(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "recent_recipes": recent})
}

// PendingRecipes returns the moderation queue, oldest submissions first
// unless the caller asks otherwise.
func (h *AdminHandler) PendingRecipes(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	if err := types.RequireAdmin(principal); err != nil {
		respondError(c, err)
		return
	}

	criteria, err := searchCriteriaFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	criteria.Scope = service.ScopeAdminPending

	results, err := h.searchService.Search(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": results, "count": len(results)})
}

func (h *AdminHandler) Approve(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.recipeService.Approve(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *AdminHandler) Reject(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	status, err := h.recipeService.Reject(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	users, err := h.adminService.ListUsers(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) ToggleRole(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	role, err := h.adminService.ToggleRole(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), principal, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
