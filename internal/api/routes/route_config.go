package routes

import (
	"recipe-backend/internal/api/handlers"
	"recipe-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App           *fiber.App
	RecipeHandler handlers.RecipeHandler
	Middleware    middleware.Middleware
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Recipes()
	c.GuestRoute()
	c.NotFoundRoute()
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")
	{
		recipes.Get("", c.RecipeHandler.GetRecipes)
		recipes.Get("/latest", c.RecipeHandler.GetLatestRecipes)
		recipes.Get("/most-viewed", c.RecipeHandler.GetMostViewedRecipes)
		recipes.Get("/search", c.RecipeHandler.SearchRecipes)
		recipes.Get("/category/:category", c.RecipeHandler.GetRecipesByCategory)
		recipes.Get("/:id", c.RecipeHandler.GetRecipeDetail)
		recipes.Post("", c.RecipeHandler.CreateRecipe)
		recipes.Patch("/:id/views", c.RecipeHandler.IncrementRecipeViews)
		recipes.Patch("/:id", c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", c.RecipeHandler.DeleteRecipe)
	}
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}

func (c *Config) NotFoundRoute() {
	c.App.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  false,
			"message": "page not found",
		})
	})
}
