package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/types"
)

func TestCreateAndGetRecipe(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewRecipeService(db, nil, nil)

	created, err := svc.CreateRecipe(testCtx(), userID, &types.CreateRecipeRequest{
		Name:         "  Tomato Pasta ",
		Instructions: "Boil pasta, add sauce.",
		Ingredients: []types.IngredientInput{
			{Name: "pasta", Amount: 200, Unit: "g"},
			{Name: "tomato", Amount: 4},
			{Name: "   ", Amount: 1, Unit: "pcs"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tomato Pasta", created.Name)

	got, err := svc.GetRecipe(testCtx(), created.ID, userID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "pasta", got.Ingredients[0].Name)
	// Blank names are dropped; missing units default to pcs.
	assert.Equal(t, "pcs", got.Ingredients[1].Unit)
}

func TestGetRecipeScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db)
	other := createTestUser(t, db)
	svc := NewRecipeService(db, nil, nil)

	recipe := createTestRecipe(t, db, owner, "Private Curry")

	_, err := svc.GetRecipe(testCtx(), recipe.ID, other)
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestUpdateRecipeReplacesIngredients(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewRecipeService(db, nil, nil)

	created, err := svc.CreateRecipe(testCtx(), userID, &types.CreateRecipeRequest{
		Name:         "Oats",
		Instructions: "Soak overnight.",
		Ingredients: []types.IngredientInput{
			{Name: "oats", Amount: 50, Unit: "g"},
			{Name: "milk", Amount: 200, Unit: "ml"},
		},
	})
	require.NoError(t, err)

	updated, err := svc.UpdateRecipe(testCtx(), created.ID, userID, &types.UpdateRecipeRequest{
		Name:         "Overnight Oats",
		Instructions: "Soak overnight, top with fruit.",
		Ingredients: []types.IngredientInput{
			{Name: "oats", Amount: 60, Unit: "g"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Overnight Oats", updated.Name)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, 60.0, updated.Ingredients[0].Amount)
}

func TestDeleteRecipeRemovesIngredients(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewRecipeService(db, nil, nil)

	created, err := svc.CreateRecipe(testCtx(), userID, &types.CreateRecipeRequest{
		Name:         "Salad",
		Instructions: "Toss everything.",
		Ingredients: []types.IngredientInput{
			{Name: "cucumber", Amount: 1, Unit: "pcs"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRecipe(testCtx(), created.ID, userID))

	_, err = svc.GetRecipe(testCtx(), created.ID, userID)
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	var count int64
	require.NoError(t, db.Table("ingredients").Where("recipe_id = ?", created.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListRecipesNewestFirstWithSearch(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewRecipeService(db, nil, nil)

	createTestRecipe(t, db, userID, "Chicken Curry")
	createTestRecipe(t, db, userID, "Greek Salad")
	createTestRecipe(t, db, userID, "Curry Noodles")

	all, err := svc.ListRecipes(testCtx(), userID, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	curries, err := svc.ListRecipes(testCtx(), userID, "cuRRy")
	require.NoError(t, err)
	assert.Len(t, curries, 2)
}

func TestSetImageURLUnknownRecipe(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewRecipeService(db, nil, nil)

	err := svc.SetImageURL(testCtx(), uuid.New(), userID, "https://example.com/x.jpg")
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}
