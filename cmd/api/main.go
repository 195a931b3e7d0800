package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platewise/backend/config"
	"github.com/platewise/backend/internal/database"
	"github.com/platewise/backend/internal/router"
	"github.com/platewise/backend/internal/server"
	"github.com/platewise/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	// Image storage is optional; the upload endpoint reports 503 when
	// it is absent.
	var imageService service.IImageService
	if s3Cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("Image storage unavailable: %v", err)
	} else {
		imageService = service.NewImageService(s3Cfg)
	}

	shoppingService := service.NewShoppingService(db, redisClient)

	r := router.SetupRouter(router.Deps{
		DB:              db,
		Redis:           redisClient,
		AuthService:     service.NewAuthService(db, cfg.JWTSecret),
		ProfileService:  service.NewProfileService(db),
		RecipeService:   service.NewRecipeService(db, redisClient, shoppingService),
		PlanService:     service.NewPlanService(db, shoppingService),
		ShoppingService: shoppingService,
		ImageService:    imageService,
		AllowedOrigins:  cfg.AllowedOrigins,
	})

	srv := server.New(r, cfg.ServerHost+":"+cfg.ServerPort)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
