package config

import (
	"os"
	"time"

	"recipe-backend/internal/api/handlers"
	"recipe-backend/internal/api/routes"
	"recipe-backend/internal/middleware"
	"recipe-backend/internal/utils"
	"recipe-backend/internal/utils/storage"
	"recipe-backend/pkg/recipe"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	store := newStorage(app)

	// Repository
	recipeRepository := recipe.NewRecipeRepository(db)

	// Service
	recipeService := recipe.NewRecipeService(recipeRepository, store)

	// Handler
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)

	// routes
	routesConfig := routes.Config{
		App:           app,
		RecipeHandler: recipeHandler,
		Middleware:    middlewares,
	}
	routesConfig.Setup()
	return app, nil
}

func newStorage(app *fiber.App) storage.Storage {
	if utils.GetConfig("STORAGE_DRIVER") == "s3" {
		return storage.NewAwsS3()
	}

	uploadDir := utils.GetConfig("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	store, err := storage.NewLocalStorage(uploadDir, utils.GetConfig("APP_URL")+"/uploads")
	if err != nil {
		log.Fatalf("error creating upload directory: %v", err)
	}

	// local images are served straight from the upload directory
	app.Static("/uploads", uploadDir)

	return store
}
