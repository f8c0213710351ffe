package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

const (
	CategoryIndian   = "Indian"
	CategoryItalian  = "Italian"
	CategoryAmerican = "American"
	CategoryThai     = "Thai"

	// Title length policy, applied at creation and on any title update.
	RecipeTitleMinLength = 4
	RecipeTitleMaxLength = 50

	// Fixed page size for category and search listings, and the
	// result limit for the latest / most-viewed listings.
	RecipePageSize = 10
)

var (
	MessageSuccessCreateRecipe    = "recipe has been created successfully"
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessGetLatest       = "success get latest recipes"
	MessageSuccessGetMostViewed   = "success get most viewed recipes"
	MessageSuccessSearchRecipes   = "success search recipes"
	MessageSuccessIncrementViews  = "recipe view count incremented successfully"
	MessageSuccessUpdateRecipe    = "recipe details have been updated successfully"
	MessageSuccessDeleteRecipe    = "recipe has been deleted successfully"

	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedSearchRecipes   = "failed to search recipes"
	MessageFailedIncrementViews  = "failed to increment recipe views"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"

	ErrRecipeNotFound   = errors.New("recipe not found with given id")
	ErrInvalidRecipeID  = errors.New("recipe id invalid")
	ErrInvalidCategory  = errors.New("invalid recipe category")
	ErrImageFileEmpty   = errors.New("image file cannot be empty")
	ErrInvalidImageType = errors.New("invalid image file mimetype")
)

type (
	CreateRecipeRequest struct {
		Title        string                `json:"title" form:"title" validate:"required,recipe_title"`
		Category     string                `json:"category" form:"category" validate:"required,oneof=Indian Italian American Thai"`
		Instructions []string              `json:"instructions" form:"instructions" validate:"required,min=1,dive,required"`
		Ingredients  []string              `json:"ingredients" form:"ingredients" validate:"required,min=1,dive,required"`
		Image        *multipart.FileHeader `json:"-" form:"-" validate:"required"`
	}

	// UpdateRecipeRequest carries partial-update semantics: a nil field
	// keeps the stored value, a set field replaces it.
	UpdateRecipeRequest struct {
		Title        *string               `json:"title" form:"title" validate:"omitempty,recipe_title"`
		Category     *string               `json:"category" form:"category" validate:"omitempty,oneof=Indian Italian American Thai"`
		Instructions []string              `json:"instructions" form:"instructions" validate:"omitempty,min=1,dive,required"`
		Ingredients  []string              `json:"ingredients" form:"ingredients" validate:"omitempty,min=1,dive,required"`
		Image        *multipart.FileHeader `json:"-" form:"-"`
	}

	RecipeResponse struct {
		ID           string    `json:"id"`
		Title        string    `json:"title"`
		Category     string    `json:"category"`
		Instructions []string  `json:"instructions"`
		Ingredients  []string  `json:"ingredients"`
		Image        string    `json:"image"`
		Views        int64     `json:"views"`
		CreatedAt    time.Time `json:"created_at"`
		UpdatedAt    time.Time `json:"updated_at"`
	}

	PagedRecipesResponse struct {
		Recipes    []RecipeResponse `json:"recipes"`
		Page       int              `json:"page"`
		Count      int              `json:"count"`
		TotalPages int64            `json:"total_pages"`
	}
)

func Categories() []string {
	return []string{CategoryIndian, CategoryItalian, CategoryAmerican, CategoryThai}
}

func IsValidCategory(category string) bool {
	for _, c := range Categories() {
		if c == category {
			return true
		}
	}
	return false
}
