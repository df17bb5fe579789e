package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipehub/backend/internal/middleware"
	"github.com/recipehub/backend/internal/service"
	"github.com/recipehub/backend/internal/types"
)

type RecipeRequest struct {
	Title            string    `json:"title" binding:"required"`
	Ingredients      string    `json:"ingredients" binding:"required"`
	PreparationSteps string    `json:"preparation_steps" binding:"required"`
	CookingTime      int       `json:"cooking_time" binding:"required"`
	CategoryID       uuid.UUID `json:"category_id" binding:"required"`
}

func (r *RecipeRequest) toInput() service.RecipeInput {
	return service.RecipeInput{
		Title:            r.Title,
		Ingredients:      r.Ingredients,
		PreparationSteps: r.PreparationSteps,
		CookingTime:      r.CookingTime,
		CategoryID:       r.CategoryID,
	}
}

type RateRequest struct {
	Value   int    `json:"value" binding:"required"`
	Comment string `json:"comment"`
}

// RecipeHandler exposes the recipe catalog: search, detail, submission,
// editing, ratings and favorites.
type RecipeHandler struct {
	recipeService   *service.RecipeService
	searchService   *service.SearchService
	ratingService   *service.RatingService
	favoriteService *service.FavoriteService
	auth            middleware.Authenticator
	submissionLimit gin.HandlerFunc
	ratingLimit     gin.HandlerFunc
}

func NewRecipeHandler(
	recipeService *service.RecipeService,
	searchService *service.SearchService,
	ratingService *service.RatingService,
	favoriteService *service.FavoriteService,
	auth middleware.Authenticator,
	submissionLimiter, ratingLimiter *middleware.RateLimiter,
) *RecipeHandler {
	h := &RecipeHandler{
		recipeService:   recipeService,
		searchService:   searchService,
		ratingService:   ratingService,
		favoriteService: favoriteService,
		auth:            auth,
	}
	if submissionLimiter != nil {
		h.submissionLimit = submissionLimiter.Middleware()
	} else {
		h.submissionLimit = func(c *gin.Context) { c.Next() }
	}
	if ratingLimiter != nil {
		h.ratingLimit = ratingLimiter.Middleware()
	} else {
		h.ratingLimit = func(c *gin.Context) { c.Next() }
	}
	return h
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", middleware.OptionalAuth(h.auth), h.Search)
		recipes.GET("/:id", middleware.OptionalAuth(h.auth), h.Get)
		recipes.POST("", requireAuth, h.submissionLimit, h.Submit)
		recipes.PUT("/:id", requireAuth, h.Update)
		recipes.DELETE("/:id", requireAuth, h.Delete)
		recipes.POST("/:id/rating", requireAuth, h.ratingLimit, h.Rate)
		recipes.DELETE("/:id/rating", requireAuth, h.Unrate)
		recipes.POST("/:id/favorite", requireAuth, h.ToggleFavorite)
	}

	me := router.Group("/users/me", requireAuth)
	{
		me.GET("/recipes", h.MyRecipes)
		me.GET("/favorites", h.MyFavorites)
	}
}

// Search runs the public catalog search. Only approved recipes are
// returned regardless of who is asking.
func (h *RecipeHandler) Search(c *gin.Context) {
	criteria, err := searchCriteriaFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	criteria.Scope = service.ScopePublic

	results, err := h.searchService.Search(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": results, "count": len(results)})
}

func (h *RecipeHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var viewer *types.Principal
	if principal, ok := middleware.CurrentPrincipal(c); ok {
		viewer = &principal
	}

	detail, err := h.recipeService.Get(c.Request.Context(), id, viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

func (h *RecipeHandler) Submit(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipe, err := h.recipeService.Submit(c.Request.Context(), principal, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) Update(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	recipe, err := h.recipeService.Update(c.Request.Context(), principal, id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) Delete(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.recipeService.Delete(c.Request.Context(), principal, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted"})
}

// Rate records or replaces the caller's rating and returns the fresh
// aggregate so the UI can update without a second round trip.
func (h *RecipeHandler) Rate(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	aggregate, err := h.ratingService.Upsert(c.Request.Context(), principal, id, req.Value, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

func (h *RecipeHandler) Unrate(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	aggregate, err := h.ratingService.Delete(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	favorited, err := h.favoriteService.Toggle(c.Request.Context(), principal, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"favorited": favorited})
}

// MyRecipes lists the caller's own recipes in every moderation state.
func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	criteria, err := searchCriteriaFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}
	criteria.Scope = service.ScopeMine
	criteria.ScopeUser = principal.ID

	results, err := h.searchService.Search(c.Request.Context(), criteria)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": results, "count": len(results)})
}

func (h *RecipeHandler) MyFavorites(c *gin.Context) {
	principal, _ := middleware.CurrentPrincipal(c)

	results, err := h.favoriteService.List(c.Request.Context(), principal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipes": results, "count": len(results)})
}

// searchCriteriaFromQuery maps the catalog query string onto search
// criteria. Unparseable numbers surface as validation errors rather than
// being silently dropped.
func searchCriteriaFromQuery(c *gin.Context) (service.SearchCriteria, error) {
	criteria := service.SearchCriteria{
		Text:      c.Query("q"),
		Author:    c.Query("author"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if raw := c.Query("categories"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := uuid.Parse(strings.TrimSpace(part))
			if err != nil {
				return criteria, types.NewValidationError("invalid category id %q", part)
			}
			criteria.CategoryIDs = append(criteria.CategoryIDs, id)
		}
	}

	var err error
	if criteria.MinCookingTime, err = intQuery(c, "min_cooking_time"); err != nil {
		return criteria, err
	}
	if criteria.MaxCookingTime, err = intQuery(c, "max_cooking_time"); err != nil {
		return criteria, err
	}

	if raw := c.Query("min_rating"); raw != "" {
		criteria.MinRating, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return criteria, types.NewValidationError("min_rating must be a number")
		}
	}

	return criteria, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, types.NewValidationError("%s must be an integer", name)
	}
	return value, nil
}
