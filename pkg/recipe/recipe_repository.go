package recipe

import (
	"context"
	"strings"

	"recipe-backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		GetRecipes(ctx context.Context) ([]*entities.Recipe, error)
		GetLatestRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error)
		GetMostViewedRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error)
		GetRecipesByCategory(ctx context.Context, category string, page, limit int) ([]*entities.Recipe, int64, error)
		SearchRecipesByTitle(ctx context.Context, term string, page, limit int) ([]*entities.Recipe, int64, error)
		IncrementRecipeViews(ctx context.Context, id uuid.UUID) (*entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetLatestRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetMostViewedRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Order("views desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) GetRecipesByCategory(ctx context.Context, category string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	query := r.db.WithContext(ctx).Where("category = ?", category)

	if err := query.Model(&entities.Recipe{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(page, limit)).Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) SearchRecipesByTitle(ctx context.Context, term string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	query := r.db.WithContext(ctx).Where("title ILIKE ?", "%"+escapeLikeTerm(term)+"%")

	if err := query.Model(&entities.Recipe{}).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Scopes(paginate(page, limit)).Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// IncrementRecipeViews bumps the view counter in a single statement so
// concurrent increments on the same row never lose updates.
func (r *recipeRepository) IncrementRecipeViews(ctx context.Context, id uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	res := r.db.WithContext(ctx).
		Model(&recipe).
		Clauses(clause.Returning{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &recipe, nil
}

// UpdateRecipe writes the merged record back. The views counter is only
// ever written by IncrementRecipeViews, so it is excluded here; otherwise
// a save racing an increment would overwrite the counter with the value
// read before the increment landed.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit("views", "created_at").Save(recipe).Error
}

func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{}).Error
}

// paginate applies the fixed skip/limit window. Pages are 1-based; anything
// below 1 is treated as the first page so the offset can never go negative.
func paginate(page, limit int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// escapeLikeTerm neutralizes LIKE wildcards in user input so a search for
// "100%" matches the literal string instead of everything.
func escapeLikeTerm(term string) string {
	term = strings.ReplaceAll(term, `\`, `\\`)
	term = strings.ReplaceAll(term, "%", `\%`)
	term = strings.ReplaceAll(term, "_", `\_`)
	return term
}
