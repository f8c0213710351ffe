package recipe

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"recipe-backend/domain"
	"recipe-backend/entities"
	"recipe-backend/internal/utils/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		GetRecipes(ctx context.Context) ([]domain.RecipeResponse, error)
		GetRecipeByID(ctx context.Context, id string) (domain.RecipeResponse, error)
		GetLatestRecipes(ctx context.Context) ([]domain.RecipeResponse, error)
		GetMostViewedRecipes(ctx context.Context) ([]domain.RecipeResponse, error)
		GetRecipesByCategory(ctx context.Context, category string, page int) (domain.PagedRecipesResponse, error)
		SearchRecipes(ctx context.Context, term string, page int) (domain.PagedRecipesResponse, error)
		IncrementRecipeViews(ctx context.Context, id string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		storage          storage.Storage
	}
)

func NewRecipeService(recipeRepository RecipeRepository, storage storage.Storage) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		storage:          storage,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	if req.Image == nil {
		return domain.RecipeResponse{}, domain.ErrImageFileEmpty
	}

	recipeID := uuid.New()

	// The image is staged before the row exists. If the insert fails the
	// staged file is the orphan and must be the one removed.
	objectKey, err := s.storage.UploadFile(imageFileName(recipeID), req.Image, "recipes", storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return domain.RecipeResponse{}, domain.ErrInvalidImageType
		}
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:           recipeID,
		Title:        req.Title,
		Category:     req.Category,
		Instructions: req.Instructions,
		Ingredients:  req.Ingredients,
		Image:        objectKey,
		Views:        0,
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		s.removeFile(objectKey)
		return domain.RecipeResponse{}, err
	}

	return s.toResponse(recipe), nil
}

func (s *recipeService) GetRecipes(ctx context.Context) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.GetRecipes(ctx)
	if err != nil {
		return nil, err
	}
	return s.toResponses(recipes), nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id string) (domain.RecipeResponse, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrInvalidRecipeID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	return s.toResponse(recipe), nil
}

func (s *recipeService) GetLatestRecipes(ctx context.Context) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.GetLatestRecipes(ctx, domain.RecipePageSize)
	if err != nil {
		return nil, err
	}
	return s.toResponses(recipes), nil
}

func (s *recipeService) GetMostViewedRecipes(ctx context.Context) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.GetMostViewedRecipes(ctx, domain.RecipePageSize)
	if err != nil {
		return nil, err
	}
	return s.toResponses(recipes), nil
}

func (s *recipeService) GetRecipesByCategory(ctx context.Context, category string, page int) (domain.PagedRecipesResponse, error) {
	if !domain.IsValidCategory(category) {
		return domain.PagedRecipesResponse{}, domain.ErrInvalidCategory
	}
	if page < 1 {
		page = 1
	}

	recipes, count, err := s.recipeRepository.GetRecipesByCategory(ctx, category, page, domain.RecipePageSize)
	if err != nil {
		return domain.PagedRecipesResponse{}, err
	}

	return s.toPagedResponse(recipes, page, count), nil
}

func (s *recipeService) SearchRecipes(ctx context.Context, term string, page int) (domain.PagedRecipesResponse, error) {
	if page < 1 {
		page = 1
	}

	recipes, count, err := s.recipeRepository.SearchRecipesByTitle(ctx, term, page, domain.RecipePageSize)
	if err != nil {
		return domain.PagedRecipesResponse{}, err
	}

	return s.toPagedResponse(recipes, page, count), nil
}

func (s *recipeService) IncrementRecipeViews(ctx context.Context, id string) (domain.RecipeResponse, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrInvalidRecipeID
	}

	recipe, err := s.recipeRepository.IncrementRecipeViews(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	return s.toResponse(recipe), nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, req domain.UpdateRecipeRequest) (domain.RecipeResponse, error) {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrInvalidRecipeID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	previousImage := recipe.Image
	stagedImage := ""

	if req.Image != nil {
		stagedImage, err = s.storage.UploadFile(imageFileName(recipeID), req.Image, "recipes", storage.AllowImage...)
		if err != nil {
			if errors.Is(err, storage.ErrFileTypeNotAllowed) {
				return domain.RecipeResponse{}, domain.ErrInvalidImageType
			}
			return domain.RecipeResponse{}, err
		}
	}

	applyRecipeUpdate(recipe, req, stagedImage)

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe); err != nil {
		// The stored row still references the previous image, so only
		// the staged file may be cleaned up here.
		if stagedImage != "" {
			s.removeFile(stagedImage)
		}
		return domain.RecipeResponse{}, err
	}

	if stagedImage != "" && previousImage != stagedImage {
		s.removeFile(previousImage)
	}

	return s.toResponse(recipe), nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string) error {
	recipeID, err := uuid.Parse(id)
	if err != nil {
		return domain.ErrInvalidRecipeID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}

	// The row is gone; file removal must not fail the operation.
	s.removeFile(recipe.Image)

	return nil
}

// applyRecipeUpdate merges a partial update into the stored record. Nil
// fields keep their stored value.
func applyRecipeUpdate(recipe *entities.Recipe, req domain.UpdateRecipeRequest, stagedImage string) {
	if req.Title != nil {
		recipe.Title = *req.Title
	}
	if req.Category != nil {
		recipe.Category = *req.Category
	}
	if req.Instructions != nil {
		recipe.Instructions = req.Instructions
	}
	if req.Ingredients != nil {
		recipe.Ingredients = req.Ingredients
	}
	if stagedImage != "" {
		recipe.Image = stagedImage
	}
	recipe.UpdatedAt = time.Now()
}

func (s *recipeService) removeFile(objectKey string) {
	if err := s.storage.DeleteFile(objectKey); err != nil {
		log.Printf("removeFile %s: %v", objectKey, err)
	}
}

func (s *recipeService) toResponse(recipe *entities.Recipe) domain.RecipeResponse {
	return domain.RecipeResponse{
		ID:           recipe.ID.String(),
		Title:        recipe.Title,
		Category:     recipe.Category,
		Instructions: recipe.Instructions,
		Ingredients:  recipe.Ingredients,
		Image:        s.storage.PublicLink(recipe.Image),
		Views:        recipe.Views,
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
}

func (s *recipeService) toResponses(recipes []*entities.Recipe) []domain.RecipeResponse {
	result := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		result = append(result, s.toResponse(recipe))
	}
	return result
}

func (s *recipeService) toPagedResponse(recipes []*entities.Recipe, page int, count int64) domain.PagedRecipesResponse {
	return domain.PagedRecipesResponse{
		Recipes:    s.toResponses(recipes),
		Page:       page,
		Count:      len(recipes),
		TotalPages: (count + domain.RecipePageSize - 1) / domain.RecipePageSize,
	}
}

// imageFileName ties the stored object to the record id so re-uploads for
// the same recipe are easy to trace in the bucket.
func imageFileName(recipeID uuid.UUID) string {
	return fmt.Sprintf("%s-%d", recipeID, time.Now().UnixNano())
}
