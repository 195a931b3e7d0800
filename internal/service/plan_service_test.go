package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/models"
)

func weekOf(t *testing.T, date string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)
	return ts
}

func TestCreatePlanRejectsDuplicateWeek(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewPlanService(db, nil)

	_, err := svc.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-24"))
	require.NoError(t, err)

	_, err = svc.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-24"))
	assert.ErrorIs(t, err, ErrPlanExists)

	// A different user may plan the same week.
	other := createTestUser(t, db)
	_, err = svc.CreatePlan(testCtx(), other, weekOf(t, "2026-08-24"))
	assert.NoError(t, err)
}

func TestAssignEntryValidation(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewPlanService(db, nil)

	plan, err := svc.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-24"))
	require.NoError(t, err)
	recipe := createTestRecipe(t, db, userID, "Stir-Fry")

	_, err = svc.AssignEntry(testCtx(), plan.ID, userID, 7, models.SlotLunch, recipe.ID)
	assert.ErrorIs(t, err, ErrInvalidDay)

	_, err = svc.AssignEntry(testCtx(), plan.ID, userID, 2, "brunch", recipe.ID)
	assert.ErrorIs(t, err, ErrInvalidSlot)

	_, err = svc.AssignEntry(testCtx(), plan.ID, userID, 2, models.SlotLunch, uuid.New())
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	_, err = svc.AssignEntry(testCtx(), uuid.New(), userID, 2, models.SlotLunch, recipe.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestAssignEntryReplacesOccupiedSlot(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewPlanService(db, nil)

	plan, err := svc.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-24"))
	require.NoError(t, err)
	first := createTestRecipe(t, db, userID, "First Dinner")
	second := createTestRecipe(t, db, userID, "Second Dinner")

	_, err = svc.AssignEntry(testCtx(), plan.ID, userID, 3, models.SlotDinner, first.ID)
	require.NoError(t, err)

	entry, err := svc.AssignEntry(testCtx(), plan.ID, userID, 3, models.SlotDinner, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, entry.RecipeID)

	got, err := svc.GetPlan(testCtx(), plan.ID, userID)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, second.ID, got.Entries[0].RecipeID)
	assert.Equal(t, "Second Dinner", got.Entries[0].RecipeName)
}

func TestClearEntry(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewPlanService(db, nil)

	plan, err := svc.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-24"))
	require.NoError(t, err)
	recipe := createTestRecipe(t, db, userID, "Soup")

	_, err = svc.AssignEntry(testCtx(), plan.ID, userID, 0, models.SlotLunch, recipe.ID)
	require.NoError(t, err)

	require.NoError(t, svc.ClearEntry(testCtx(), plan.ID, userID, 0, models.SlotLunch))
	assert.ErrorIs(t, svc.ClearEntry(testCtx(), plan.ID, userID, 0, models.SlotLunch), ErrEntryNotFound)
}

func TestListPlansMostRecentFirst(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	svc := NewPlanService(db, nil)

	_, err := svc.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-17"))
	require.NoError(t, err)
	_, err = svc.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-31"))
	require.NoError(t, err)
	_, err = svc.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-24"))
	require.NoError(t, err)

	plans, err := svc.ListPlans(testCtx(), userID)
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.True(t, plans[0].WeekStart.After(plans[1].WeekStart))
	assert.True(t, plans[1].WeekStart.After(plans[2].WeekStart))
}

func TestShoppingForPlanEndToEnd(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	shopping := NewShoppingService(db, nil)
	plans := NewPlanService(db, shopping)

	plan, err := plans.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-24"))
	require.NoError(t, err)

	pancakes := createTestRecipe(t, db, userID, "Pancakes",
		models.Ingredient{Name: "flour", Amount: 2, Unit: "cups"},
		models.Ingredient{Name: "egg", Amount: 2, Unit: "pcs"},
	)
	bread := createTestRecipe(t, db, userID, "Bread",
		models.Ingredient{Name: "flour", Amount: 2, Unit: "cups"},
	)

	_, err = plans.AssignEntry(testCtx(), plan.ID, userID, 0, models.SlotBreakfast, pancakes.ID)
	require.NoError(t, err)
	_, err = plans.AssignEntry(testCtx(), plan.ID, userID, 1, models.SlotBreakfast, bread.ID)
	require.NoError(t, err)

	resp, err := shopping.ForPlan(testCtx(), plan.ID, userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "flour", resp.Items[0].Name)
	assert.Equal(t, 4.0, resp.Items[0].Quantity)
	assert.Equal(t, "egg", resp.Items[1].Name)
	assert.Empty(t, resp.SkippedRecipeIDs)
}

func TestShoppingForPlanSkipsDeletedRecipe(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	shopping := NewShoppingService(db, nil)
	plans := NewPlanService(db, shopping)
	recipes := NewRecipeService(db, nil, shopping)

	plan, err := plans.CreatePlan(testCtx(), userID, weekOf(t, "2026-08-24"))
	require.NoError(t, err)

	keep := createTestRecipe(t, db, userID, "Keeper",
		models.Ingredient{Name: "rice", Amount: 1, Unit: "cup"},
	)
	doomed := createTestRecipe(t, db, userID, "Doomed",
		models.Ingredient{Name: "beans", Amount: 1, Unit: "can"},
	)

	_, err = plans.AssignEntry(testCtx(), plan.ID, userID, 0, models.SlotDinner, keep.ID)
	require.NoError(t, err)
	_, err = plans.AssignEntry(testCtx(), plan.ID, userID, 1, models.SlotDinner, doomed.ID)
	require.NoError(t, err)

	require.NoError(t, recipes.DeleteRecipe(testCtx(), doomed.ID, userID))

	resp, err := shopping.ForPlan(testCtx(), plan.ID, userID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "rice", resp.Items[0].Name)
	assert.Equal(t, []uuid.UUID{doomed.ID}, resp.SkippedRecipeIDs)
}

func TestShoppingForPlanScopedToOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db)
	stranger := createTestUser(t, db)
	shopping := NewShoppingService(db, nil)
	plans := NewPlanService(db, shopping)

	plan, err := plans.CreatePlan(testCtx(), owner, weekOf(t, "2026-08-24"))
	require.NoError(t, err)

	recipe := createTestRecipe(t, db, owner, "Truffle Pasta",
		models.Ingredient{Name: "truffle", Amount: 1, Unit: "pcs"},
	)
	_, err = plans.AssignEntry(testCtx(), plan.ID, owner, 0, models.SlotDinner, recipe.ID)
	require.NoError(t, err)

	// The owner may warm any cache; another user still gets not-found.
	_, err = shopping.ForPlan(testCtx(), plan.ID, owner)
	require.NoError(t, err)
	_, err = shopping.ForPlan(testCtx(), plan.ID, stranger)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}

func TestShoppingCacheKeyIsPerUser(t *testing.T) {
	planID := uuid.New()
	assert.NotEqual(t,
		shoppingCacheKey(planID, uuid.New()),
		shoppingCacheKey(planID, uuid.New()),
	)
}

func TestShoppingForPlanUnknownPlan(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db)
	shopping := NewShoppingService(db, nil)

	_, err := shopping.ForPlan(testCtx(), uuid.New(), userID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
}
