package recipe

import (
	"context"
	"errors"
	"mime/multipart"
	"sort"
	"testing"
	"time"

	"recipe-backend/domain"
	"recipe-backend/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRecipeRepository struct {
	recipes map[uuid.UUID]*entities.Recipe

	createErr    error
	updateErr    error
	deleteErr    error
	incrementErr error
	findErr      error

	lastPage  int
	lastLimit int
	lastTerm  string

	// afterGet runs once GetRecipeByID has taken its snapshot, to
	// interleave writes between a load and the following save.
	afterGet func()
}

func newFakeRepository() *fakeRecipeRepository {
	return &fakeRecipeRepository{recipes: make(map[uuid.UUID]*entities.Recipe)}
}

func (f *fakeRecipeRepository) CreateRecipe(_ context.Context, recipe *entities.Recipe) error {
	if f.createErr != nil {
		return f.createErr
	}
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = recipe.CreatedAt
	stored := *recipe
	f.recipes[recipe.ID] = &stored
	return nil
}

func (f *fakeRecipeRepository) GetRecipeByID(_ context.Context, id uuid.UUID) (*entities.Recipe, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *recipe
	if f.afterGet != nil {
		f.afterGet()
	}
	return &copied, nil
}

func (f *fakeRecipeRepository) GetRecipes(_ context.Context) ([]*entities.Recipe, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.all(), nil
}

func (f *fakeRecipeRepository) GetLatestRecipes(_ context.Context, limit int) ([]*entities.Recipe, error) {
	f.lastLimit = limit
	recipes := f.all()
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].CreatedAt.After(recipes[j].CreatedAt) })
	if len(recipes) > limit {
		recipes = recipes[:limit]
	}
	return recipes, nil
}

func (f *fakeRecipeRepository) GetMostViewedRecipes(_ context.Context, limit int) ([]*entities.Recipe, error) {
	f.lastLimit = limit
	recipes := f.all()
	sort.Slice(recipes, func(i, j int) bool { return recipes[i].Views > recipes[j].Views })
	if len(recipes) > limit {
		recipes = recipes[:limit]
	}
	return recipes, nil
}

func (f *fakeRecipeRepository) GetRecipesByCategory(_ context.Context, category string, page, limit int) ([]*entities.Recipe, int64, error) {
	if f.findErr != nil {
		return nil, 0, f.findErr
	}
	f.lastPage, f.lastLimit = page, limit

	var matching []*entities.Recipe
	for _, recipe := range f.all() {
		if recipe.Category == category {
			matching = append(matching, recipe)
		}
	}
	return pageOf(matching, page, limit), int64(len(matching)), nil
}

func (f *fakeRecipeRepository) SearchRecipesByTitle(_ context.Context, term string, page, limit int) ([]*entities.Recipe, int64, error) {
	if f.findErr != nil {
		return nil, 0, f.findErr
	}
	f.lastTerm, f.lastPage, f.lastLimit = term, page, limit
	recipes := f.all()
	return pageOf(recipes, page, limit), int64(len(recipes)), nil
}

func (f *fakeRecipeRepository) IncrementRecipeViews(_ context.Context, id uuid.UUID) (*entities.Recipe, error) {
	if f.incrementErr != nil {
		return nil, f.incrementErr
	}
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	recipe.Views++
	copied := *recipe
	return &copied, nil
}

func (f *fakeRecipeRepository) UpdateRecipe(_ context.Context, recipe *entities.Recipe) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored := *recipe
	// the update statement omits the counter and creation time
	if existing, ok := f.recipes[recipe.ID]; ok {
		stored.Views = existing.Views
		stored.CreatedAt = existing.CreatedAt
	}
	f.recipes[recipe.ID] = &stored
	return nil
}

func (f *fakeRecipeRepository) DeleteRecipe(_ context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.recipes, id)
	return nil
}

func (f *fakeRecipeRepository) all() []*entities.Recipe {
	recipes := make([]*entities.Recipe, 0, len(f.recipes))
	for _, recipe := range f.recipes {
		copied := *recipe
		recipes = append(recipes, &copied)
	}
	return recipes
}

func pageOf(recipes []*entities.Recipe, page, limit int) []*entities.Recipe {
	start := (page - 1) * limit
	if start >= len(recipes) {
		return nil
	}
	end := start + limit
	if end > len(recipes) {
		end = len(recipes)
	}
	return recipes[start:end]
}

type fakeStorage struct {
	uploaded  []string
	deleted   []string
	uploadErr error
	deleteErr error
}

func (f *fakeStorage) UploadFile(fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	key := folder + "/" + fileName + ".png"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeStorage) DeleteFile(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return f.deleteErr
}

func (f *fakeStorage) PublicLink(objectKey string) string {
	if objectKey == "" {
		return ""
	}
	return "http://localhost:8080/uploads/" + objectKey
}

func imageHeader() *multipart.FileHeader {
	return &multipart.FileHeader{Filename: "dish.png"}
}

func createRequest() domain.CreateRecipeRequest {
	return domain.CreateRecipeRequest{
		Title:        "Tomato Soup",
		Category:     domain.CategoryItalian,
		Instructions: []string{"boil", "blend"},
		Ingredients:  []string{"tomato", "salt"},
		Image:        imageHeader(),
	}
}

func TestCreateRecipe(t *testing.T) {
	t.Run("assigns id and zero views", func(t *testing.T) {
		repo := newFakeRepository()
		store := &fakeStorage{}
		service := NewRecipeService(repo, store)

		res, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)
		require.NotEmpty(t, res.ID)
		require.Zero(t, res.Views)
		require.Equal(t, "Tomato Soup", res.Title)
		require.Len(t, repo.recipes, 1)
		require.Len(t, store.uploaded, 1)
		require.Empty(t, store.deleted)
	})

	t.Run("ids are unique across creates", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewRecipeService(repo, &fakeStorage{})

		seen := make(map[string]bool)
		for i := 0; i < 5; i++ {
			res, err := service.CreateRecipe(context.Background(), createRequest())
			require.NoError(t, err)
			require.False(t, seen[res.ID])
			seen[res.ID] = true
		}
	})

	t.Run("store failure removes staged image", func(t *testing.T) {
		repo := newFakeRepository()
		repo.createErr = errors.New("connection reset")
		store := &fakeStorage{}
		service := NewRecipeService(repo, store)

		_, err := service.CreateRecipe(context.Background(), createRequest())
		require.Error(t, err)
		require.Len(t, store.uploaded, 1)
		require.Equal(t, store.uploaded, store.deleted)
		require.Empty(t, repo.recipes)
	})

	t.Run("missing image rejected before any writes", func(t *testing.T) {
		repo := newFakeRepository()
		store := &fakeStorage{}
		service := NewRecipeService(repo, store)

		req := createRequest()
		req.Image = nil
		_, err := service.CreateRecipe(context.Background(), req)
		require.ErrorIs(t, err, domain.ErrImageFileEmpty)
		require.Empty(t, store.uploaded)
		require.Empty(t, repo.recipes)
	})
}

func TestGetRecipeByID(t *testing.T) {
	repo := newFakeRepository()
	service := NewRecipeService(repo, &fakeStorage{})

	created, err := service.CreateRecipe(context.Background(), createRequest())
	require.NoError(t, err)

	testCases := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "found", id: created.ID},
		{name: "absent id", id: uuid.NewString(), wantErr: domain.ErrRecipeNotFound},
		{name: "malformed id", id: "not-a-uuid", wantErr: domain.ErrInvalidRecipeID},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := service.GetRecipeByID(context.Background(), tc.id)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, created.ID, res.ID)
		})
	}
}

func TestIncrementRecipeViews(t *testing.T) {
	repo := newFakeRepository()
	service := NewRecipeService(repo, &fakeStorage{})

	created, err := service.CreateRecipe(context.Background(), createRequest())
	require.NoError(t, err)

	for want := int64(1); want <= 3; want++ {
		res, err := service.IncrementRecipeViews(context.Background(), created.ID)
		require.NoError(t, err)
		require.Equal(t, want, res.Views)
	}

	_, err = service.IncrementRecipeViews(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)

	_, err = service.IncrementRecipeViews(context.Background(), "bad")
	require.ErrorIs(t, err, domain.ErrInvalidRecipeID)
}

func TestUpdateRecipe(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("partial update keeps unset fields", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewRecipeService(repo, &fakeStorage{})

		created, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)

		res, err := service.UpdateRecipe(context.Background(), created.ID, domain.UpdateRecipeRequest{
			Category: strPtr(domain.CategoryAmerican),
		})
		require.NoError(t, err)
		require.Equal(t, "Tomato Soup", res.Title)
		require.Equal(t, domain.CategoryAmerican, res.Category)
		require.Equal(t, []string{"boil", "blend"}, res.Instructions)
		require.Equal(t, []string{"tomato", "salt"}, res.Ingredients)
		require.Equal(t, created.Image, res.Image)
	})

	t.Run("new image replaces old file after write", func(t *testing.T) {
		repo := newFakeRepository()
		store := &fakeStorage{}
		service := NewRecipeService(repo, store)

		created, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)
		originalKey := store.uploaded[0]

		res, err := service.UpdateRecipe(context.Background(), created.ID, domain.UpdateRecipeRequest{
			Image: imageHeader(),
		})
		require.NoError(t, err)
		require.NotEqual(t, created.Image, res.Image)
		require.Equal(t, []string{originalKey}, store.deleted)
	})

	t.Run("store failure keeps old file and removes staged one", func(t *testing.T) {
		repo := newFakeRepository()
		store := &fakeStorage{}
		service := NewRecipeService(repo, store)

		created, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)
		originalKey := store.uploaded[0]

		repo.updateErr = errors.New("connection reset")
		_, err = service.UpdateRecipe(context.Background(), created.ID, domain.UpdateRecipeRequest{
			Title: strPtr("New Title"),
			Image: imageHeader(),
		})
		require.Error(t, err)
		require.Len(t, store.uploaded, 2)
		stagedKey := store.uploaded[1]
		require.Equal(t, []string{stagedKey}, store.deleted)
		require.NotContains(t, store.deleted, originalKey)

		// stored record untouched
		stored, err := service.GetRecipeByID(context.Background(), created.ID)
		require.NoError(t, err)
		require.Equal(t, "Tomato Soup", stored.Title)
	})

	t.Run("concurrent view bump survives the update", func(t *testing.T) {
		repo := newFakeRepository()
		service := NewRecipeService(repo, &fakeStorage{})

		created, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)
		recipeID := uuid.MustParse(created.ID)

		// an increment lands between the update's load and its save
		repo.afterGet = func() {
			repo.afterGet = nil
			repo.recipes[recipeID].Views++
		}

		_, err = service.UpdateRecipe(context.Background(), created.ID, domain.UpdateRecipeRequest{
			Title: strPtr("Roasted Tomato Soup"),
		})
		require.NoError(t, err)

		stored := repo.recipes[recipeID]
		require.Equal(t, int64(1), stored.Views)
		require.Equal(t, "Roasted Tomato Soup", stored.Title)
	})

	t.Run("absent and malformed ids", func(t *testing.T) {
		service := NewRecipeService(newFakeRepository(), &fakeStorage{})

		_, err := service.UpdateRecipe(context.Background(), uuid.NewString(), domain.UpdateRecipeRequest{})
		require.ErrorIs(t, err, domain.ErrRecipeNotFound)

		_, err = service.UpdateRecipe(context.Background(), "bad", domain.UpdateRecipeRequest{})
		require.ErrorIs(t, err, domain.ErrInvalidRecipeID)
	})
}

func TestDeleteRecipe(t *testing.T) {
	t.Run("removes record and image", func(t *testing.T) {
		repo := newFakeRepository()
		store := &fakeStorage{}
		service := NewRecipeService(repo, store)

		created, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)

		require.NoError(t, service.DeleteRecipe(context.Background(), created.ID))
		require.Equal(t, store.uploaded, store.deleted)

		_, err = service.GetRecipeByID(context.Background(), created.ID)
		require.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})

	t.Run("file removal failure does not fail the delete", func(t *testing.T) {
		repo := newFakeRepository()
		store := &fakeStorage{deleteErr: errors.New("permission denied")}
		service := NewRecipeService(repo, store)

		created, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)

		require.NoError(t, service.DeleteRecipe(context.Background(), created.ID))

		_, err = service.GetRecipeByID(context.Background(), created.ID)
		require.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})

	t.Run("absent id reports not found", func(t *testing.T) {
		service := NewRecipeService(newFakeRepository(), &fakeStorage{})
		err := service.DeleteRecipe(context.Background(), uuid.NewString())
		require.ErrorIs(t, err, domain.ErrRecipeNotFound)
	})
}

func TestGetRecipesByCategory(t *testing.T) {
	repo := newFakeRepository()
	service := NewRecipeService(repo, &fakeStorage{})

	for i := 0; i < 25; i++ {
		_, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)
	}

	res, err := service.GetRecipesByCategory(context.Background(), domain.CategoryItalian, 1)
	require.NoError(t, err)
	require.Equal(t, 10, res.Count)
	require.Equal(t, int64(3), res.TotalPages)

	res, err = service.GetRecipesByCategory(context.Background(), domain.CategoryItalian, 3)
	require.NoError(t, err)
	require.Equal(t, 5, res.Count)
	require.Equal(t, 3, res.Page)

	// non-positive pages fall back to the first page
	res, err = service.GetRecipesByCategory(context.Background(), domain.CategoryItalian, -2)
	require.NoError(t, err)
	require.Equal(t, 1, res.Page)
	require.Equal(t, 1, repo.lastPage)

	_, err = service.GetRecipesByCategory(context.Background(), "Klingon", 1)
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestSearchRecipes(t *testing.T) {
	repo := newFakeRepository()
	service := NewRecipeService(repo, &fakeStorage{})

	_, err := service.CreateRecipe(context.Background(), createRequest())
	require.NoError(t, err)

	res, err := service.SearchRecipes(context.Background(), "curry", 0)
	require.NoError(t, err)
	require.Equal(t, "curry", repo.lastTerm)
	require.Equal(t, 1, res.Page)
	require.Equal(t, domain.RecipePageSize, repo.lastLimit)
}

func TestLatestAndMostViewedLimit(t *testing.T) {
	repo := newFakeRepository()
	service := NewRecipeService(repo, &fakeStorage{})

	for i := 0; i < 12; i++ {
		_, err := service.CreateRecipe(context.Background(), createRequest())
		require.NoError(t, err)
	}

	latest, err := service.GetLatestRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, latest, domain.RecipePageSize)

	mostViewed, err := service.GetMostViewedRecipes(context.Background())
	require.NoError(t, err)
	require.Len(t, mostViewed, domain.RecipePageSize)
}

// Lifecycle walk: create, view, partially update, delete.
func TestRecipeLifecycle(t *testing.T) {
	repo := newFakeRepository()
	service := NewRecipeService(repo, &fakeStorage{})
	ctx := context.Background()

	created, err := service.CreateRecipe(ctx, createRequest())
	require.NoError(t, err)
	require.Zero(t, created.Views)

	viewed, err := service.IncrementRecipeViews(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), viewed.Views)

	category := domain.CategoryAmerican
	updated, err := service.UpdateRecipe(ctx, created.ID, domain.UpdateRecipeRequest{Category: &category})
	require.NoError(t, err)
	require.Equal(t, "Tomato Soup", updated.Title)
	require.Equal(t, domain.CategoryAmerican, updated.Category)

	require.NoError(t, service.DeleteRecipe(ctx, created.ID))

	_, err = service.GetRecipeByID(ctx, created.ID)
	require.ErrorIs(t, err, domain.ErrRecipeNotFound)
}
