package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/types"
)

var (
	ErrPlanNotFound = errors.New("plan not found")

	// ErrInvalidAmount marks an ingredient amount that cannot be
	// aggregated (negative, NaN or infinite). Zero is legal.
	ErrInvalidAmount = errors.New("invalid ingredient amount")
)

// shoppingCacheTTL bounds how stale a cached list can get if an
// invalidation is missed. Writes invalidate eagerly.
const shoppingCacheTTL = 5 * time.Minute

// RecipeLookup resolves plan entry references to recipes that were
// loaded before aggregation. A missing key means the recipe was deleted
// after it was planned.
type RecipeLookup map[uuid.UUID]*models.Recipe

// ShoppingAggregate is the outcome of aggregating one plan.
type ShoppingAggregate struct {
	Items []types.ShoppingListItem
	// Skipped lists recipe ids referenced by the plan but absent from
	// the lookup. Their entries contribute nothing; everything else
	// still aggregates.
	Skipped []uuid.UUID
}

type itemKey struct {
	name string
	unit string
}

// AggregateShoppingList combines the ingredient requirements of every
// resolvable plan entry into one consolidated list. Entries merge only
// when both the normalized ingredient name and the unit match; the same
// ingredient in different units yields separate items (no unit
// conversion). Output order is first-seen order of the (name, unit)
// key, with entries visited day by day and slot by slot, so repeated
// runs over the same plan produce identical output.
//
// A recipe containing an invalid amount contributes nothing; the
// failure is reported through the returned error while aggregation
// continues for the remaining entries.
func AggregateShoppingList(entries []models.PlanEntry, lookup RecipeLookup) (ShoppingAggregate, error) {
	ordered := make([]models.PlanEntry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Day != ordered[j].Day {
			return ordered[i].Day < ordered[j].Day
		}
		return ordered[i].Slot.Order() < ordered[j].Slot.Order()
	})

	var agg ShoppingAggregate
	var errs []error
	index := make(map[itemKey]int)
	skipped := make(map[uuid.UUID]bool)

	for _, entry := range ordered {
		recipe, ok := lookup[entry.RecipeID]
		if !ok || recipe == nil {
			if !skipped[entry.RecipeID] {
				skipped[entry.RecipeID] = true
				agg.Skipped = append(agg.Skipped, entry.RecipeID)
			}
			continue
		}

		if err := validateAmounts(recipe); err != nil {
			errs = append(errs, err)
			continue
		}

		ingredients := make([]models.Ingredient, len(recipe.Ingredients))
		copy(ingredients, recipe.Ingredients)
		sort.SliceStable(ingredients, func(i, j int) bool {
			return ingredients[i].Position < ingredients[j].Position
		})

		for _, ing := range ingredients {
			name := NormalizeIngredientName(ing.Name)
			if name == "" {
				continue
			}
			unit := normalizeUnit(ing.Unit)
			key := itemKey{name: name, unit: strings.ToLower(unit)}
			if i, ok := index[key]; ok {
				agg.Items[i].Quantity += ing.Amount
				continue
			}
			index[key] = len(agg.Items)
			agg.Items = append(agg.Items, types.ShoppingListItem{
				Name:     name,
				Unit:     unit,
				Quantity: ing.Amount,
			})
		}
	}

	return agg, errors.Join(errs...)
}

func validateAmounts(recipe *models.Recipe) error {
	for _, ing := range recipe.Ingredients {
		if ing.Amount < 0 || math.IsNaN(ing.Amount) || math.IsInf(ing.Amount, 0) {
			return fmt.Errorf("recipe %s ingredient %q: %w", recipe.ID, ing.Name, ErrInvalidAmount)
		}
	}
	return nil
}

// NormalizeIngredientName lowercases the name and collapses whitespace
// runs so that "Olive  Oil" and "olive oil" merge.
func NormalizeIngredientName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func normalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return "pcs"
	}
	return unit
}

// FormatShoppingListText renders items as one "name, unit, quantity"
// line each, for the plain-text export.
func FormatShoppingListText(items []types.ShoppingListItem) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(item.Name)
		b.WriteString(", ")
		b.WriteString(item.Unit)
		b.WriteString(", ")
		b.WriteString(strconv.FormatFloat(item.Quantity, 'f', -1, 64))
		b.WriteString("\n")
	}
	return b.String()
}

// ShoppingService derives shopping lists from stored weekly plans.
type ShoppingService struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewShoppingService creates a new ShoppingService instance. The Redis
// client is optional; without it every request recomputes the list.
func NewShoppingService(db *gorm.DB, redisClient *redis.Client) *ShoppingService {
	return &ShoppingService{
		db:    db,
		redis: redisClient,
	}
}

// shoppingCacheKey carries the requesting user so a cached list can
// never be served across the ownership boundary.
func shoppingCacheKey(planID, userID uuid.UUID) string {
	return "shopping_list:" + planID.String() + ":" + userID.String()
}

// ForPlan loads the user's plan and returns its aggregated shopping
// list, serving from cache when a fresh copy exists. The list is a pure
// function of the plan's current recipe references; plan and recipe
// writes invalidate the cache so it is never patched incrementally.
func (s *ShoppingService) ForPlan(ctx context.Context, planID, userID uuid.UUID) (*types.ShoppingListResponse, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, shoppingCacheKey(planID, userID)).Result(); err == nil {
			var resp types.ShoppingListResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	var plan models.WeeklyPlan
	if err := s.db.WithContext(ctx).Preload("Entries").
		First(&plan, "id = ? AND user_id = ?", planID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	lookup, err := s.loadRecipes(ctx, plan.Entries)
	if err != nil {
		return nil, err
	}

	agg, aggErr := AggregateShoppingList(plan.Entries, lookup)
	if aggErr != nil {
		// Bad amounts drop only the offending recipe; the list stays
		// usable, so log instead of failing the request.
		log.Printf("shopping list for plan %s: %v", planID, aggErr)
	}

	resp := &types.ShoppingListResponse{
		PlanID:           planID,
		Items:            agg.Items,
		SkippedRecipeIDs: agg.Skipped,
		GeneratedAt:      time.Now().UTC(),
	}

	if s.redis != nil && aggErr == nil {
		if data, err := json.Marshal(resp); err == nil {
			if err := s.redis.Set(ctx, shoppingCacheKey(planID, userID), data, shoppingCacheTTL).Err(); err != nil {
				log.Printf("failed to cache shopping list for plan %s: %v", planID, err)
			}
		}
	}

	return resp, nil
}

func (s *ShoppingService) loadRecipes(ctx context.Context, entries []models.PlanEntry) (RecipeLookup, error) {
	ids := make([]uuid.UUID, 0, len(entries))
	seen := make(map[uuid.UUID]bool)
	for _, entry := range entries {
		if !seen[entry.RecipeID] {
			seen[entry.RecipeID] = true
			ids = append(ids, entry.RecipeID)
		}
	}
	if len(ids) == 0 {
		return RecipeLookup{}, nil
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Preload("Ingredients").
		Find(&recipes, "id IN ?", ids).Error; err != nil {
		return nil, err
	}

	lookup := make(RecipeLookup, len(recipes))
	for i := range recipes {
		lookup[recipes[i].ID] = &recipes[i]
	}
	return lookup, nil
}

// InvalidatePlan drops the cached lists for one plan.
func (s *ShoppingService) InvalidatePlan(ctx context.Context, planID uuid.UUID) {
	if s.redis == nil {
		return
	}
	iter := s.redis.Scan(ctx, 0, "shopping_list:"+planID.String()+":*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.redis.Del(ctx, iter.Val()).Err(); err != nil {
			log.Printf("failed to invalidate shopping list cache %s: %v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Printf("failed to scan shopping list cache for plan %s: %v", planID, err)
	}
}

// InvalidateRecipe drops the cached lists of every plan that references
// the recipe, used after a recipe edit or delete.
func (s *ShoppingService) InvalidateRecipe(ctx context.Context, recipeID uuid.UUID) {
	if s.redis == nil {
		return
	}
	var planIDs []uuid.UUID
	if err := s.db.WithContext(ctx).Model(&models.PlanEntry{}).
		Where("recipe_id = ?", recipeID).
		Distinct().Pluck("plan_id", &planIDs).Error; err != nil {
		log.Printf("failed to find plans for recipe %s: %v", recipeID, err)
		return
	}
	for _, planID := range planIDs {
		s.InvalidatePlan(ctx, planID)
	}
}
