package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Recipe struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Instructions string          `gorm:"type:text" json:"instructions"`
	ImageURL     string          `gorm:"size:255" json:"image_url"`
	Embedding    pgvector.Vector `gorm:"type:vector(3)" json:"-"`

	// Ingredients are owned rows, replaced wholesale on update and
	// removed with the recipe.
	Ingredients []Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"ingredients"`
}

// BeforeCreate assigns the id; ids are generated app-side so the
// schema carries no dialect-specific default.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Ingredient struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Name     string    `gorm:"size:100;not null;index" json:"name"`
	Amount   float64   `gorm:"not null;default:0" json:"amount"`
	Unit     string    `gorm:"size:20;not null;default:'pcs'" json:"unit"`
	Position int       `gorm:"not null;default:0" json:"position"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
