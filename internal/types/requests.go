package types

import (
	"time"

	"github.com/google/uuid"
)

// IngredientInput is a single ingredient line on a create/update request.
// Amount may be zero (a "to taste" line); unit defaults to "pcs".
type IngredientInput struct {
	Name   string  `json:"name" binding:"required"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Name         string            `json:"name" binding:"required"`
	Instructions string            `json:"instructions" binding:"required"`
	ImageURL     string            `json:"image_url"`
	Ingredients  []IngredientInput `json:"ingredients" binding:"required"`
}

// UpdateRecipeRequest represents the request body for updating a recipe.
// The ingredient list replaces the stored one wholesale.
type UpdateRecipeRequest struct {
	Name         string            `json:"name" binding:"required"`
	Instructions string            `json:"instructions" binding:"required"`
	ImageURL     string            `json:"image_url"`
	Ingredients  []IngredientInput `json:"ingredients" binding:"required"`
}

// CreatePlanRequest creates a weekly plan for the given week start date
// (expected to be a Monday, format 2006-01-02).
type CreatePlanRequest struct {
	WeekStart string `json:"week_start" binding:"required"`
}

// AssignEntryRequest puts a recipe into a (day, slot) cell of a plan.
// Assigning over an occupied cell replaces its recipe.
type AssignEntryRequest struct {
	Day      int       `json:"day" binding:"min=0,max=6"`
	Slot     string    `json:"slot" binding:"required"`
	RecipeID uuid.UUID `json:"recipe_id" binding:"required"`
}

// UpdateProfileRequest represents the request body for updating a profile
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Bio      string `json:"bio"`
}

// ShoppingListItem is one aggregated line of a plan's shopping list.
type ShoppingListItem struct {
	Name     string  `json:"name"`
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

// ShoppingListResponse is the payload for the shopping list endpoint.
// SkippedRecipeIDs lists plan references that could not be resolved;
// the rest of the list is still complete.
type ShoppingListResponse struct {
	PlanID           uuid.UUID          `json:"plan_id"`
	Items            []ShoppingListItem `json:"items"`
	SkippedRecipeIDs []uuid.UUID        `json:"skipped_recipe_ids,omitempty"`
	GeneratedAt      time.Time          `json:"generated_at"`
}
