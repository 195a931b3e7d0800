package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/database"
	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/service"
)

// StatusHandler exposes liveness and storage diagnostics.
type StatusHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewStatusHandler(db *gorm.DB, redisClient *redis.Client) *StatusHandler {
	return &StatusHandler{
		db:    db,
		redis: redisClient,
	}
}

func (h *StatusHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/status", h.Status)
}

func (h *StatusHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// SelfTestResult reports the write-read-delete round trip against a
// throwaway recipe row.
type SelfTestResult struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}

// Status reports which backend is active and whether basic reads and
// writes work.
func (h *StatusHandler) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbOK := database.HealthCheck(ctx, h.db) == nil

	redisOK := false
	if h.redis != nil {
		redisOK = h.redis.Ping(ctx).Err() == nil
	}

	c.JSON(http.StatusOK, gin.H{
		"engine":    h.db.Dialector.Name(),
		"database":  dbOK,
		"redis":     redisOK,
		"self_test": h.selfTest(),
	})
}

// selfTest writes a throwaway recipe, reads it back, then deletes it.
func (h *StatusHandler) selfTest() SelfTestResult {
	// The embedding column rejects empty vectors, so the probe row
	// carries a real one.
	recipe := models.Recipe{
		UserID:    uuid.Nil,
		Name:      "__db_self_test__",
		Embedding: service.GenerateEmbedding("__db_self_test__"),
	}
	if err := h.db.Create(&recipe).Error; err != nil {
		return SelfTestResult{OK: false, Error: err.Error()}
	}

	var got models.Recipe
	readErr := h.db.First(&got, "id = ?", recipe.ID).Error

	if err := h.db.Unscoped().Delete(&models.Recipe{}, "id = ?", recipe.ID).Error; err != nil {
		return SelfTestResult{OK: false, ID: recipe.ID.String(), Error: err.Error()}
	}

	if readErr != nil {
		return SelfTestResult{OK: false, ID: recipe.ID.String(), Error: readErr.Error()}
	}
	return SelfTestResult{OK: got.ID == recipe.ID, ID: recipe.ID.String()}
}
