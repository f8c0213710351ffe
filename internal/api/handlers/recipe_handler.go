package handlers

import (
	"errors"
	"strconv"

	"recipe-backend/domain"
	"recipe-backend/internal/api/presenters"
	"recipe-backend/pkg/recipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		CreateRecipe(c *fiber.Ctx) error
		GetRecipes(c *fiber.Ctx) error
		GetRecipeDetail(c *fiber.Ctx) error
		GetLatestRecipes(c *fiber.Ctx) error
		GetMostViewedRecipes(c *fiber.Ctx) error
		GetRecipesByCategory(c *fiber.Ctx) error
		SearchRecipes(c *fiber.Ctx) error
		IncrementRecipeViews(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) CreateRecipe(c *fiber.Ctx) error {
	req := new(domain.CreateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedCreateRecipe, domain.ErrImageFileEmpty)
	}
	req.Image = file

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.Context(), *req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidImageType) {
			return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedCreateRecipe, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateRecipe)
}

func (h *recipeHandler) GetRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipes(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) GetRecipeDetail(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	res, err := h.recipeService.GetRecipeByID(c.Context(), recipeID)
	if err != nil {
		return recipeErrorResponse(c, domain.MessageFailedGetRecipeDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) GetLatestRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.GetLatestRecipes(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetLatest)
}

func (h *recipeHandler) GetMostViewedRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.GetMostViewedRecipes(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMostViewed)
}

func (h *recipeHandler) GetRecipesByCategory(c *fiber.Ctx) error {
	category := c.Params("category")
	page := parsePage(c)

	res, err := h.recipeService.GetRecipesByCategory(c.Context(), category, page)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCategory) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) SearchRecipes(c *fiber.Ctx) error {
	term := c.Query("q", "")
	page := parsePage(c)

	res, err := h.recipeService.SearchRecipes(c.Context(), term, page)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedSearchRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearchRecipes)
}

func (h *recipeHandler) IncrementRecipeViews(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	res, err := h.recipeService.IncrementRecipeViews(c.Context(), recipeID)
	if err != nil {
		return recipeErrorResponse(c, domain.MessageFailedIncrementViews, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessIncrementViews)
}

func (h *recipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	recipeID := c.Params("id")
	req := new(domain.UpdateRecipeRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	// Image is optional on update; only a present file triggers a swap.
	if file, err := c.FormFile("image"); err == nil {
		req.Image = file
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.Context(), recipeID, *req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidImageType) {
			return presenters.ErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageFailedUpdateRecipe, err)
		}
		return recipeErrorResponse(c, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	recipeID := c.Params("id")

	if err := h.recipeService.DeleteRecipe(c.Context(), recipeID); err != nil {
		return recipeErrorResponse(c, domain.MessageFailedDeleteRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRecipe)
}

// recipeErrorResponse maps the service error taxonomy onto HTTP statuses:
// not-found and invalid-id are caller errors, everything else is a store
// failure.
func recipeErrorResponse(c *fiber.Ctx, message string, err error) error {
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		return presenters.ErrorResponse(c, fiber.StatusNotFound, message, err)
	case errors.Is(err, domain.ErrInvalidRecipeID):
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, message, err)
	default:
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
	}
}

func parsePage(c *fiber.Ctx) int {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	return page
}
