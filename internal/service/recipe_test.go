package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/recipehub/backend/internal/models"
	"github.com/recipehub/backend/internal/types"
)

func newRecipeService(db *gorm.DB) *RecipeService {
	return NewRecipeService(db, NewRatingService(db))
}

func validInput(t *testing.T, db *gorm.DB) RecipeInput {
	t.Helper()
	return RecipeInput{
		Title:            "Shakshuka",
		Ingredients:      "eggs, tomatoes, peppers",
		PreparationSteps: "simmer sauce, poach eggs",
		CookingTime:      25,
		CategoryID:       firstCategory(t, db).ID,
	}
}

func TestSubmitStartsPending(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)

	author := createTestUser(t, db, "author", types.RoleMember)

	recipe, err := svc.Submit(context.Background(), principalFor(author), validInput(t, db))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, recipe.Status)
	assert.Equal(t, author.ID, recipe.AuthorID)
	assert.NotEmpty(t, recipe.Category.Name)
}

func TestSubmitValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	principal := principalFor(author)

	missingTitle := validInput(t, db)
	missingTitle.Title = "   "
	_, err := svc.Submit(ctx, principal, missingTitle)
	var validation *types.ValidationError
	assert.ErrorAs(t, err, &validation)

	zeroTime := validInput(t, db)
	zeroTime.CookingTime = 0
	_, err = svc.Submit(ctx, principal, zeroTime)
	assert.ErrorAs(t, err, &validation)

	badCategory := validInput(t, db)
	badCategory.CategoryID = uuid.New()
	_, err = svc.Submit(ctx, principal, badCategory)
	assert.ErrorAs(t, err, &validation)
}

func TestModerationTransitions(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	admin := createTestUser(t, db, "admin", types.RoleAdmin)
	recipe := createTestRecipe(t, db, author, "Pending Dish", models.StatusPending)

	status, err := svc.Approve(ctx, principalFor(admin), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)

	status, err = svc.Reject(ctx, principalFor(admin), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, status)

	// A rejected recipe can be approved later.
	status, err = svc.Approve(ctx, principalFor(admin), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, status)
}

func TestModerationRequiresAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	recipe := createTestRecipe(t, db, author, "Pending Dish", models.StatusPending)

	var forbidden *types.ForbiddenError
	_, err := svc.Approve(ctx, principalFor(author), recipe.ID)
	assert.ErrorAs(t, err, &forbidden)
	_, err = svc.Reject(ctx, principalFor(author), recipe.ID)
	assert.ErrorAs(t, err, &forbidden)

	var unchanged models.Recipe
	require.NoError(t, db.First(&unchanged, "id = ?", recipe.ID).Error)
	assert.Equal(t, models.StatusPending, unchanged.Status)
}

func TestModerationUnknownRecipe(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)

	admin := createTestUser(t, db, "admin", types.RoleAdmin)

	_, err := svc.Approve(context.Background(), principalFor(admin), uuid.New())
	var notFound *types.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestUpdateKeepsStatus(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	recipe := createTestRecipe(t, db, author, "Live Dish", models.StatusApproved)

	input := validInput(t, db)
	input.Title = "Live Dish v2"
	updated, err := svc.Update(ctx, principalFor(author), recipe.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Live Dish v2", updated.Title)
	assert.Equal(t, models.StatusApproved, updated.Status)
}

func TestUpdateAuthorOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	admin := createTestUser(t, db, "admin", types.RoleAdmin)
	recipe := createTestRecipe(t, db, author, "Someone Else's", models.StatusApproved)

	// Even admins do not edit other people's recipes.
	_, err := svc.Update(ctx, principalFor(admin), recipe.ID, validInput(t, db))
	var forbidden *types.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)
}

func TestGetVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	other := createTestUser(t, db, "other", types.RoleMember)
	admin := createTestUser(t, db, "admin", types.RoleAdmin)
	pending := createTestRecipe(t, db, author, "Pending Dish", models.StatusPending)

	// Anonymous viewers and other members see nothing.
	_, err := svc.Get(ctx, pending.ID, nil)
	var notFound *types.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	otherPrincipal := principalFor(other)
	_, err = svc.Get(ctx, pending.ID, &otherPrincipal)
	assert.ErrorAs(t, err, &notFound)

	// The author and admins see it.
	authorPrincipal := principalFor(author)
	detail, err := svc.Get(ctx, pending.ID, &authorPrincipal)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, detail.Recipe.ID)

	adminPrincipal := principalFor(admin)
	_, err = svc.Get(ctx, pending.ID, &adminPrincipal)
	require.NoError(t, err)
}

func TestGetIncludesViewerState(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ratings := NewRatingService(db)
	favorites := NewFavoriteService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	alice := createTestUser(t, db, "alice", types.RoleMember)
	recipe := createTestRecipe(t, db, author, "Live Dish", models.StatusApproved)

	alicePrincipal := principalFor(alice)
	_, err := ratings.Upsert(ctx, alicePrincipal, recipe.ID, 4, "good")
	require.NoError(t, err)
	_, err = favorites.Toggle(ctx, alicePrincipal, recipe.ID)
	require.NoError(t, err)

	detail, err := svc.Get(ctx, recipe.ID, &alicePrincipal)
	require.NoError(t, err)
	assert.Equal(t, 4.0, detail.Aggregate.Average)
	assert.Equal(t, int64(1), detail.Aggregate.Count)
	require.NotNil(t, detail.ViewerRating)
	assert.Equal(t, 4, detail.ViewerRating.Value)
	assert.True(t, detail.IsFavorited)

	// Anonymous view of the same recipe carries the aggregate only.
	anon, err := svc.Get(ctx, recipe.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, anon.ViewerRating)
	assert.False(t, anon.IsFavorited)
}

func TestDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ratings := NewRatingService(db)
	favorites := NewFavoriteService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	alice := createTestUser(t, db, "alice", types.RoleMember)
	recipe := createTestRecipe(t, db, author, "Doomed Dish", models.StatusApproved)

	alicePrincipal := principalFor(alice)
	_, err := ratings.Upsert(ctx, alicePrincipal, recipe.ID, 5, "")
	require.NoError(t, err)
	_, err = favorites.Toggle(ctx, alicePrincipal, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, principalFor(author), recipe.ID))

	var ratingCount, favoriteCount int64
	require.NoError(t, db.Model(&models.Rating{}).Where("recipe_id = ?", recipe.ID).Count(&ratingCount).Error)
	require.NoError(t, db.Model(&models.Favorite{}).Where("recipe_id = ?", recipe.ID).Count(&favoriteCount).Error)
	assert.Equal(t, int64(0), ratingCount)
	assert.Equal(t, int64(0), favoriteCount)
}

func TestDeletePermissions(t *testing.T) {
	db := newTestDB(t)
	svc := newRecipeService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author", types.RoleMember)
	other := createTestUser(t, db, "other", types.RoleMember)
	admin := createTestUser(t, db, "admin", types.RoleAdmin)

	recipe := createTestRecipe(t, db, author, "Dish A", models.StatusApproved)

	err := svc.Delete(ctx, principalFor(other), recipe.ID)
	var forbidden *types.ForbiddenError
	assert.ErrorAs(t, err, &forbidden)

	// Admins may delete any recipe.
	require.NoError(t, svc.Delete(ctx, principalFor(admin), recipe.ID))
}
