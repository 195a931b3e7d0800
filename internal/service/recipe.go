package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/types"
)

var ErrRecipeNotFound = errors.New("recipe not found")

// recipeListCacheTTL matches the short-lived list cache of the
// original cookbook: cheap staleness, invalidated on every write.
const recipeListCacheTTL = 30 * time.Second

// RecipeService handles recipe library operations
type RecipeService struct {
	db       *gorm.DB
	redis    *redis.Client
	shopping *ShoppingService
}

// NewRecipeService creates a new RecipeService instance. The Redis
// client is optional; the shopping service is consulted to invalidate
// derived lists after writes.
func NewRecipeService(db *gorm.DB, redisClient *redis.Client, shopping *ShoppingService) *RecipeService {
	return &RecipeService{
		db:       db,
		redis:    redisClient,
		shopping: shopping,
	}
}

func recipeListCacheKey(userID uuid.UUID, query string) string {
	return "recipes:" + userID.String() + ":" + strings.ToLower(query)
}

// CreateRecipe creates a recipe with its ingredient rows.
func (s *RecipeService) CreateRecipe(ctx context.Context, userID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	recipe := &models.Recipe{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		Instructions: strings.TrimSpace(req.Instructions),
		ImageURL:     req.ImageURL,
		Embedding:    GenerateEmbedding(req.Name),
		Ingredients:  buildIngredients(req.Ingredients),
	}

	if err := s.db.WithContext(ctx).Create(recipe).Error; err != nil {
		return nil, err
	}

	s.invalidateLists(ctx, userID)
	return recipe, nil
}

// GetRecipe retrieves a recipe with its ingredients, scoped to the owner.
func (s *RecipeService) GetRecipe(ctx context.Context, id, userID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&recipe, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe updates a recipe, replacing its ingredient set wholesale.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id, userID uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	recipe, err := s.GetRecipe(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"name":         strings.TrimSpace(req.Name),
			"instructions": strings.TrimSpace(req.Instructions),
			"embedding":    GenerateEmbedding(req.Name),
		}
		if req.ImageURL != "" {
			updates["image_url"] = req.ImageURL
		}
		if err := tx.Model(recipe).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		ingredients := buildIngredients(req.Ingredients)
		for i := range ingredients {
			ingredients[i].RecipeID = id
		}
		if len(ingredients) == 0 {
			return nil
		}
		return tx.Create(&ingredients).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateLists(ctx, userID)
	if s.shopping != nil {
		s.shopping.InvalidateRecipe(ctx, id)
	}
	return s.GetRecipe(ctx, id, userID)
}

// DeleteRecipe deletes a recipe and its ingredients. Plan entries that
// still reference it are left in place; the shopping aggregator skips
// them.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id, userID uuid.UUID) error {
	recipe, err := s.GetRecipe(ctx, id, userID)
	if err != nil {
		return err
	}

	// Invalidate before the ingredient rows disappear so the plan
	// lookup still sees the reference.
	if s.shopping != nil {
		s.shopping.InvalidateRecipe(ctx, id)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
	if err != nil {
		return err
	}

	s.invalidateLists(ctx, userID)
	return nil
}

// ListRecipes lists the user's recipes newest first, optionally
// filtered by a case-insensitive name search. Results are cached for a
// short TTL and invalidated on every write.
func (s *RecipeService) ListRecipes(ctx context.Context, userID uuid.UUID, query string) ([]models.Recipe, error) {
	cacheKey := recipeListCacheKey(userID, query)
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
			var recipes []models.Recipe
			if err := json.Unmarshal([]byte(cached), &recipes); err == nil {
				return recipes, nil
			}
		}
	}

	dbQuery := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		})

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		dbQuery = dbQuery.Where("LOWER(name) LIKE ?", like)
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			dbQuery = dbQuery.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		}
	} else {
		dbQuery = dbQuery.Order("created_at DESC")
	}

	var recipes []models.Recipe
	if err := dbQuery.Find(&recipes).Error; err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(recipes); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, recipeListCacheTTL).Err(); err != nil {
				log.Printf("failed to cache recipe list for user %s: %v", userID, err)
			}
		}
	}

	return recipes, nil
}

// SetImageURL records an uploaded image URL on the recipe.
func (s *RecipeService) SetImageURL(ctx context.Context, id, userID uuid.UUID, url string) error {
	result := s.db.WithContext(ctx).Model(&models.Recipe{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("image_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	s.invalidateLists(ctx, userID)
	return nil
}

func (s *RecipeService) invalidateLists(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	iter := s.redis.Scan(ctx, 0, "recipes:"+userID.String()+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("failed to invalidate recipe list cache %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("failed to scan recipe list cache for user %s: %v", userID, err)
	}
}

func buildIngredients(inputs []types.IngredientInput) []models.Ingredient {
	ingredients := make([]models.Ingredient, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			continue
		}
		unit := strings.TrimSpace(in.Unit)
		if unit == "" {
			unit = "pcs"
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:     name,
			Amount:   in.Amount,
			Unit:     unit,
			Position: i,
		})
	}
	return ingredients
}
