package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/platewise/backend/internal/database"
	"github.com/platewise/backend/internal/models"
)

// setupTestDB opens an isolated in-memory database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AutoMigrateModels()...))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	user := models.User{
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return user.ID
}

func createTestRecipe(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, ingredients ...models.Ingredient) *models.Recipe {
	t.Helper()
	recipe := models.Recipe{
		UserID:       userID,
		Name:         name,
		Instructions: "Cook it.",
		Embedding:    GenerateEmbedding(name),
	}
	require.NoError(t, db.Create(&recipe).Error)
	for i := range ingredients {
		ingredients[i].RecipeID = recipe.ID
		ingredients[i].Position = i
	}
	if len(ingredients) > 0 {
		require.NoError(t, db.Create(&ingredients).Error)
	}
	recipe.Ingredients = ingredients
	return &recipe
}

func testCtx() context.Context {
	return context.Background()
}
