package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

// Scope names the visibility window a search runs under. The engine itself
// is visibility-agnostic: the handler decides the scope after checking who
// is asking.
type Scope string

const (
	// ScopePublic returns approved recipes only.
	ScopePublic Scope = "public"
	// ScopeMine returns every recipe owned by ScopeUser, any status.
	ScopeMine Scope = "mine"
	// ScopeAdminPending returns the moderation queue.
	ScopeAdminPending Scope = "admin-pending"
)

// SortBy keys and sort orders recognized by Search.
const (
	SortByNewest      = "newest"
	SortByRating      = "rating"
	SortByCookingTime = "cooking_time"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// SearchCriteria is the full filter set for a recipe search. Zero values
// mean "no filter" for the optional fields; Scope is required.
type SearchCriteria struct {
	Text           string
	CategoryIDs    []uuid.UUID
	MinCookingTime int
	MaxCookingTime int
	MinRating      float64
	Author         string
	SortBy         string
	SortOrder      string
	Scope          Scope
	ScopeUser      uuid.UUID // owner for ScopeMine
}

// Validate rejects malformed criteria instead of silently dropping them.
func (c *SearchCriteria) Validate() error {
	if c.MinCookingTime < 0 || c.MaxCookingTime < 0 {
		return types.NewValidationError("cooking time bounds must not be negative")
	}
	if c.MinCookingTime > 0 && c.MaxCookingTime > 0 && c.MinCookingTime > c.MaxCookingTime {
		return types.NewValidationError("min_cooking_time must not exceed max_cooking_time")
	}
	if c.MinRating < 0 || c.MinRating > 5 {
		return types.NewValidationError("min_rating must be between 0 and 5")
	}
	switch c.SortBy {
	case "", SortByNewest, SortByRating, SortByCookingTime:
	default:
		return types.NewValidationError("unknown sort_by %q", c.SortBy)
	}
	switch c.SortOrder {
	case "", SortAsc, SortDesc:
	default:
		return types.NewValidationError("unknown sort_order %q", c.SortOrder)
	}
	switch c.Scope {
	case ScopePublic, ScopeAdminPending:
	case ScopeMine:
		if c.ScopeUser == uuid.Nil {
			return types.NewValidationError("scope %q requires an owner", c.Scope)
		}
	default:
		return types.NewValidationError("unknown scope %q", c.Scope)
	}
	return nil
}

// orderClause resolves the effective sort. Cooking time defaults to
// ascending, every other key to descending; ties always break by recipe id
// so identical criteria return identical ordering.
func (c *SearchCriteria) orderClause() string {
	var column, def string
	switch c.SortBy {
	case SortByRating:
		column, def = "average_rating", SortDesc
	case SortByCookingTime:
		column, def = "recipes.cooking_time", SortAsc
	default:
		column, def = "recipes.created_at", SortDesc
	}

	order := c.SortOrder
	if order == "" {
		order = def
	}
	return column + " " + strings.ToUpper(order) + ", recipes.id ASC"
}

// SearchService builds recipe result sets from multi-criteria filters.
type SearchService struct {
	db *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{db: db}
}

// Search returns summaries for every recipe matching the criteria, in a
// deterministic order. The rating aggregate is computed live from the
// ratings table in the same query.
func (s *SearchService) Search(ctx context.Context, criteria SearchCriteria) ([]types.RecipeSummary, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	agg := s.db.Model(&models.Rating{}).
		Select("recipe_id, AVG(value) AS avg_rating, COUNT(*) AS rating_count").
		Group("recipe_id")

	query := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Select("recipes.id, recipes.title, recipes.cooking_time, recipes.category_id, " +
			"categories.name AS category_name, recipes.image_url, users.username AS author_username, " +
			"COALESCE(agg.avg_rating, 0) AS average_rating, COALESCE(agg.rating_count, 0) AS rating_count, " +
			"recipes.status, recipes.created_at").
		Joins("JOIN categories ON categories.id = recipes.category_id").
		Joins("JOIN users ON users.id = recipes.author_id").
		Joins("LEFT JOIN (?) AS agg ON agg.recipe_id = recipes.id", agg)

	switch criteria.Scope {
	case ScopePublic:
		query = query.Where("recipes.status = ?", models.StatusApproved)
	case ScopeMine:
		query = query.Where("recipes.author_id = ?", criteria.ScopeUser)
	case ScopeAdminPending:
		query = query.Where("recipes.status = ?", models.StatusPending)
	}

	if text := strings.TrimSpace(criteria.Text); text != "" {
		like := "%" + strings.ToLower(text) + "%"
		query = query.Where("LOWER(recipes.title) LIKE ? OR LOWER(recipes.ingredients) LIKE ?", like, like)
	}

	if len(criteria.CategoryIDs) > 0 {
		query = query.Where("recipes.category_id IN ?", criteria.CategoryIDs)
	}

	if criteria.MinCookingTime > 0 {
		query = query.Where("recipes.cooking_time >= ?", criteria.MinCookingTime)
	}
	if criteria.MaxCookingTime > 0 {
		query = query.Where("recipes.cooking_time <= ?", criteria.MaxCookingTime)
	}

	if author := strings.TrimSpace(criteria.Author); author != "" {
		like := "%" + strings.ToLower(author) + "%"
		query = query.Where("LOWER(users.username) LIKE ?", like)
	}

	// A positive bound excludes unrated recipes: their COALESCEd average
	// is 0, which can never reach a bound above zero.
	if criteria.MinRating > 0 {
		query = query.Where("COALESCE(agg.avg_rating, 0) >= ?", criteria.MinRating)
	}

	query = query.Order(criteria.orderClause())

	var results []types.RecipeSummary
	if err := query.Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
