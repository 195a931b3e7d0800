package main

import (
	"context"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
	"github.com/platewise/backend/internal/types"
)

type seedRecipe struct {
	name         string
	instructions string
	ingredients  []types.IngredientInput
}

var seedRecipes = []seedRecipe{
	{
		name:         "Tomato Pasta",
		instructions: "Boil the pasta. Simmer tomatoes with garlic and olive oil. Combine and serve.",
		ingredients: []types.IngredientInput{
			{Name: "pasta", Amount: 200, Unit: "g"},
			{Name: "tomato", Amount: 4, Unit: "pcs"},
			{Name: "garlic", Amount: 2, Unit: "cloves"},
			{Name: "olive oil", Amount: 2, Unit: "tbsp"},
		},
	},
	{
		name:         "Vegetable Stir-Fry",
		instructions: "Chop the vegetables. Stir-fry on high heat with soy sauce. Serve over rice.",
		ingredients: []types.IngredientInput{
			{Name: "rice", Amount: 1, Unit: "cup"},
			{Name: "broccoli", Amount: 1, Unit: "pcs"},
			{Name: "carrot", Amount: 2, Unit: "pcs"},
			{Name: "soy sauce", Amount: 2, Unit: "tbsp"},
			{Name: "garlic", Amount: 1, Unit: "cloves"},
		},
	},
	{
		name:         "Overnight Oats",
		instructions: "Mix oats with milk and honey. Refrigerate overnight. Top with berries.",
		ingredients: []types.IngredientInput{
			{Name: "oats", Amount: 50, Unit: "g"},
			{Name: "milk", Amount: 200, Unit: "ml"},
			{Name: "honey", Amount: 1, Unit: "tbsp"},
			{Name: "blueberries", Amount: 50, Unit: "g"},
		},
	},
	{
		name:         "Chicken Curry",
		instructions: "Brown the chicken. Add curry paste and coconut milk. Simmer until cooked through. Serve over rice.",
		ingredients: []types.IngredientInput{
			{Name: "chicken breast", Amount: 400, Unit: "g"},
			{Name: "curry paste", Amount: 2, Unit: "tbsp"},
			{Name: "coconut milk", Amount: 400, Unit: "ml"},
			{Name: "rice", Amount: 1, Unit: "cup"},
		},
	},
	{
		name:         "Greek Salad",
		instructions: "Chop cucumber and tomatoes. Add feta and olives. Dress with olive oil.",
		ingredients: []types.IngredientInput{
			{Name: "cucumber", Amount: 1, Unit: "pcs"},
			{Name: "tomato", Amount: 2, Unit: "pcs"},
			{Name: "feta", Amount: 100, Unit: "g"},
			{Name: "olives", Amount: 50, Unit: "g"},
			{Name: "olive oil", Amount: 1, Unit: "tbsp"},
		},
	},
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	ctx := context.Background()
	user := seedUser(ctx, db)

	recipeService := service.NewRecipeService(db, nil, nil)
	for _, seed := range seedRecipes {
		var count int64
		if err := db.Model(&models.Recipe{}).
			Where("user_id = ? AND name = ?", user.ID, seed.name).
			Count(&count).Error; err != nil {
			log.Fatalf("failed to check recipe %q: %v", seed.name, err)
		}
		if count > 0 {
			log.Printf("Skipping recipe %q (already seeded)", seed.name)
			continue
		}

		req := &types.CreateRecipeRequest{
			Name:         seed.name,
			Instructions: seed.instructions,
			Ingredients:  seed.ingredients,
		}
		if _, err := recipeService.CreateRecipe(ctx, user.ID, req); err != nil {
			log.Fatalf("failed to seed recipe %q: %v", seed.name, err)
		}
		log.Printf("Seeded recipe %q", seed.name)
	}
}

func seedUser(ctx context.Context, db *gorm.DB) *models.User {
	const email = "dev@platewise.local"

	var user models.User
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err == nil {
		return &user
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("devpassword"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	user = models.User{
		Name:         "Dev Seeder",
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		log.Fatalf("failed to create seed user: %v", err)
	}
	if err := db.WithContext(ctx).Create(&models.UserProfile{
		UserID:   user.ID,
		Username: "dev-seeder",
	}).Error; err != nil {
		log.Fatalf("failed to create seed profile: %v", err)
	}
	return &user
}
