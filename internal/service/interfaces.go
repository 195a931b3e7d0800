package service

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Register(ctx context.Context, name, email, password, username string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(token string) (*types.TokenClaims, error)
}

// IProfileService defines the interface for user profile operations
type IProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *types.UpdateProfileRequest) (*models.UserProfile, error)
}

// IRecipeService defines the interface for recipe library operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	GetRecipe(ctx context.Context, id, userID uuid.UUID) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, id, userID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error
	ListRecipes(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error)
	SetImageURL(ctx context.Context, id, userID uuid.UUID, url string) error
}

// IPlanService defines the interface for weekly plan operations
type IPlanService interface {
	CreatePlan(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*models.WeeklyPlan, error)
	GetPlan(ctx context.Context, id, userID uuid.UUID) (*models.WeeklyPlan, error)
	ListPlans(ctx context.Context, userID uuid.UUID) ([]models.WeeklyPlan, error)
	AssignEntry(ctx context.Context, planID, userID uuid.UUID, day int, slot models.MealSlot, recipeID uuid.UUID) (*models.PlanEntry, error)
	ClearEntry(ctx context.Context, planID, userID uuid.UUID, day int, slot models.MealSlot) error
}

// IShoppingService defines the interface for shopping list derivation
type IShoppingService interface {
	ForPlan(ctx context.Context, planID, userID uuid.UUID) (*types.ShoppingListResponse, error)
	InvalidatePlan(ctx context.Context, planID uuid.UUID)
	InvalidateRecipe(ctx context.Context, recipeID uuid.UUID)
}

// IImageService defines the interface for recipe image storage
type IImageService interface {
	UploadRecipeImage(ctx context.Context, recipeID uuid.UUID, contentType string, body io.Reader) (string, error)
}
