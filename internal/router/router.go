package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/api"
	"github.com/platewise/backend/internal/middleware"
	"github.com/platewise/backend/internal/service"
)

// Deps carries everything the route table needs.
type Deps struct {
	DB              *gorm.DB
	Redis           *redis.Client
	AuthService     service.IAuthService
	ProfileService  service.IProfileService
	RecipeService   service.IRecipeService
	PlanService     service.IPlanService
	ShoppingService service.IShoppingService
	ImageService    service.IImageService
	AllowedOrigins  []string
}

// SetupRouter configures the application routes
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(deps.AllowedOrigins))

	// Diagnostics stay outside the versioned, authenticated surface.
	api.NewStatusHandler(deps.DB, deps.Redis).RegisterRoutes(router)

	v1 := router.Group("/api/v1")

	api.NewAuthHandler(deps.AuthService).RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.AuthService))
	if deps.Redis != nil {
		limiter := middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
			Window:    time.Minute,
			Limit:     120,
			KeyPrefix: "rate_limit",
		})
		protected.Use(limiter.Middleware())
	}

	api.NewProfileHandler(deps.ProfileService).RegisterRoutes(protected)
	api.NewRecipeHandler(deps.RecipeService, deps.ImageService).RegisterRoutes(protected)
	api.NewPlanHandler(deps.PlanService).RegisterRoutes(protected)
	api.NewShoppingHandler(deps.ShoppingService).RegisterRoutes(protected)

	return router
}
