package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
)

var (
	ErrPlanExists    = errors.New("a plan for that week already exists")
	ErrInvalidDay    = errors.New("day must be between 0 (Monday) and 6 (Sunday)")
	ErrInvalidSlot   = errors.New("unknown meal slot")
	ErrEntryNotFound = errors.New("no entry in that slot")
)

// PlanService handles weekly plan operations
type PlanService struct {
	db       *gorm.DB
	shopping *ShoppingService
}

// NewPlanService creates a new PlanService instance
func NewPlanService(db *gorm.DB, shopping *ShoppingService) *PlanService {
	return &PlanService{
		db:       db,
		shopping: shopping,
	}
}

// CreatePlan creates an empty plan for the given week start date. The
// unique (user, week) index is the arbiter, so concurrent duplicates
// both resolve to ErrPlanExists rather than racing a pre-check.
func (s *PlanService) CreatePlan(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*models.WeeklyPlan, error) {
	weekStart = weekStart.Truncate(24 * time.Hour)

	plan := &models.WeeklyPlan{
		UserID:    userID,
		WeekStart: weekStart,
	}
	if err := s.db.WithContext(ctx).Create(plan).Error; err != nil {
		var existing models.WeeklyPlan
		if lookupErr := s.db.WithContext(ctx).
			First(&existing, "user_id = ? AND week_start = ?", userID, weekStart).Error; lookupErr == nil {
			return nil, ErrPlanExists
		}
		return nil, err
	}
	return plan, nil
}

// GetPlan retrieves a plan with its entries, scoped to the owner.
// Entry recipe names are resolved; an entry whose recipe was deleted
// keeps an empty name.
func (s *PlanService) GetPlan(ctx context.Context, id, userID uuid.UUID) (*models.WeeklyPlan, error) {
	var plan models.WeeklyPlan
	err := s.db.WithContext(ctx).Preload("Entries", func(db *gorm.DB) *gorm.DB {
		return db.Order("day ASC")
	}).First(&plan, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	if err := s.resolveRecipeNames(ctx, plan.Entries); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *PlanService) resolveRecipeNames(ctx context.Context, entries []models.PlanEntry) error {
	if len(entries) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.RecipeID)
	}

	var recipes []models.Recipe
	if err := s.db.WithContext(ctx).Select("id", "name").
		Find(&recipes, "id IN ?", ids).Error; err != nil {
		return err
	}

	names := make(map[uuid.UUID]string, len(recipes))
	for _, recipe := range recipes {
		names[recipe.ID] = recipe.Name
	}
	for i := range entries {
		entries[i].RecipeName = names[entries[i].RecipeID]
	}
	return nil
}

// ListPlans lists the user's plans, most recent week first.
func (s *PlanService) ListPlans(ctx context.Context, userID uuid.UUID) ([]models.WeeklyPlan, error) {
	var plans []models.WeeklyPlan
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("week_start DESC").Find(&plans).Error
	if err != nil {
		return nil, err
	}
	return plans, nil
}

// AssignEntry puts a recipe into a (day, slot) cell. At most one entry
// may occupy a cell, so assigning over an occupied one replaces its
// recipe rather than adding a second entry.
func (s *PlanService) AssignEntry(ctx context.Context, planID, userID uuid.UUID, day int, slot models.MealSlot, recipeID uuid.UUID) (*models.PlanEntry, error) {
	if day < 0 || day > 6 {
		return nil, ErrInvalidDay
	}
	if !slot.Valid() {
		return nil, ErrInvalidSlot
	}

	if _, err := s.GetPlan(ctx, planID, userID); err != nil {
		return nil, err
	}

	// The recipe must exist at assignment time. It may be deleted
	// later; the shopping aggregator tolerates dangling references.
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ? AND user_id = ?", recipeID, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	var entry models.PlanEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.First(&entry, "plan_id = ? AND day = ? AND slot = ?", planID, day, slot).Error
		switch {
		case err == nil:
			return tx.Model(&entry).Update("recipe_id", recipeID).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			entry = models.PlanEntry{
				PlanID:   planID,
				Day:      day,
				Slot:     slot,
				RecipeID: recipeID,
			}
			return tx.Create(&entry).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	if s.shopping != nil {
		s.shopping.InvalidatePlan(ctx, planID)
	}
	entry.RecipeID = recipeID
	return &entry, nil
}

// ClearEntry removes the entry in a (day, slot) cell.
func (s *PlanService) ClearEntry(ctx context.Context, planID, userID uuid.UUID, day int, slot models.MealSlot) error {
	if day < 0 || day > 6 {
		return ErrInvalidDay
	}
	if !slot.Valid() {
		return ErrInvalidSlot
	}

	if _, err := s.GetPlan(ctx, planID, userID); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("plan_id = ? AND day = ? AND slot = ?", planID, day, slot).
		Delete(&models.PlanEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEntryNotFound
	}

	if s.shopping != nil {
		s.shopping.InvalidatePlan(ctx, planID)
	}
	return nil
}
