package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MealSlot is one of the four plannable slots in a day.
type MealSlot string

const (
	SlotBreakfast MealSlot = "breakfast"
	SlotLunch     MealSlot = "lunch"
	SlotDinner    MealSlot = "dinner"
	SlotSnack     MealSlot = "snack"
)

// MealSlots lists the known slots in display order.
var MealSlots = []MealSlot{SlotBreakfast, SlotLunch, SlotDinner, SlotSnack}

// Valid reports whether s is one of the known slots.
func (s MealSlot) Valid() bool {
	for _, known := range MealSlots {
		if s == known {
			return true
		}
	}
	return false
}

// Order returns the slot's position within a day, or -1 for unknown slots.
func (s MealSlot) Order() int {
	for i, known := range MealSlots {
		if s == known {
			return i
		}
	}
	return -1
}

type WeeklyPlan struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index:idx_plans_user_week,unique" json:"user_id"`
	WeekStart time.Time      `gorm:"type:date;not null;index:idx_plans_user_week,unique" json:"week_start"`

	Entries []PlanEntry `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"entries"`
}

func (WeeklyPlan) TableName() string {
	return "weekly_plans"
}

// BeforeCreate assigns the id; ids are generated app-side so the
// schema carries no dialect-specific default.
func (p *WeeklyPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlanEntry assigns a recipe to a (day, slot) cell of a weekly plan.
// Day counts from 0 = Monday through 6 = Sunday. At most one entry may
// occupy a (plan, day, slot) cell.
type PlanEntry struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	PlanID    uuid.UUID `gorm:"type:uuid;not null;index:idx_entries_slot,unique" json:"plan_id"`
	Day       int       `gorm:"not null;index:idx_entries_slot,unique;check:day >= 0 AND day <= 6" json:"day"`
	Slot      MealSlot  `gorm:"size:20;not null;index:idx_entries_slot,unique" json:"slot"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`

	// RecipeName is resolved on read; empty when the recipe is gone.
	RecipeName string `gorm:"-" json:"recipe_name,omitempty"`
}

func (PlanEntry) TableName() string {
	return "plan_entries"
}

func (e *PlanEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
