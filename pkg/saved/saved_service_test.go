package saved

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/utils/dbmock"
	"Recipe-Platform/pkg/recipe"
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRecipeRepo struct {
	recipe.RecipeRepository
	recipes map[string]*entities.Recipe
}

func (s *stubRecipeRepo) GetRecipeByID(_ context.Context, id string) (*entities.Recipe, error) {
	r, ok := s.recipes[id]
	if !ok {
		return nil, domain.ErrRecipeNotFound
	}
	return r, nil
}

type fakeSavedRepo struct {
	rows map[[2]uuid.UUID]bool
}

func (f *fakeSavedRepo) SaveRecipe(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	k := [2]uuid.UUID{userID, recipeID}
	if f.rows[k] {
		return false, nil
	}
	f.rows[k] = true
	return true, nil
}

func (f *fakeSavedRepo) UnsaveRecipe(_ context.Context, userID, recipeID uuid.UUID) (bool, error) {
	k := [2]uuid.UUID{userID, recipeID}
	if !f.rows[k] {
		return false, nil
	}
	delete(f.rows, k)
	return true, nil
}

func (f *fakeSavedRepo) GetSavedRecipes(_ context.Context, _ string, _, _ int) ([]*entities.Recipe, int64, error) {
	return []*entities.Recipe{{ID: uuid.New(), Title: "Ramen", Tags: "noodles,soup"}}, 1, nil
}

func newSavedEnv() (*fakeSavedRepo, *stubRecipeRepo, SavedService) {
	repo := &fakeSavedRepo{rows: map[[2]uuid.UUID]bool{}}
	recipes := &stubRecipeRepo{recipes: map[string]*entities.Recipe{}}
	return repo, recipes, NewSavedService(repo, recipes)
}

func addRecipe(recipes *stubRecipeRepo, status string) string {
	r := &entities.Recipe{ID: uuid.New(), Status: status}
	recipes.recipes[r.ID.String()] = r
	return r.ID.String()
}

func TestSaveRecipeIsIdempotent(t *testing.T) {
	repo, recipes, svc := newSavedEnv()
	ctx := context.Background()
	userID := uuid.NewString()
	recipeID := addRecipe(recipes, domain.RecipeStatusApproved)

	require.NoError(t, svc.SaveRecipe(ctx, userID, recipeID))
	require.NoError(t, svc.SaveRecipe(ctx, userID, recipeID))
	assert.Len(t, repo.rows, 1)
	assert.True(t, repo.rows[[2]uuid.UUID{uuid.MustParse(userID), uuid.MustParse(recipeID)}])

	require.NoError(t, svc.UnsaveRecipe(ctx, userID, recipeID))
	require.NoError(t, svc.UnsaveRecipe(ctx, userID, recipeID))
	assert.Empty(t, repo.rows)
}

func TestSaveRecipeRequiresApproved(t *testing.T) {
	_, recipes, svc := newSavedEnv()
	ctx := context.Background()
	pending := addRecipe(recipes, domain.RecipeStatusPending)

	assert.ErrorIs(t, svc.SaveRecipe(ctx, uuid.NewString(), pending), domain.ErrRecipeNotApproved)
	assert.ErrorIs(t, svc.SaveRecipe(ctx, uuid.NewString(), uuid.NewString()), domain.ErrRecipeNotFound)
	assert.ErrorIs(t, svc.SaveRecipe(ctx, "bad", pending), domain.ErrParseUUID)
	assert.ErrorIs(t, svc.UnsaveRecipe(ctx, uuid.NewString(), "bad"), domain.ErrRecipeNotFound)
}

func TestListSavedRecipes(t *testing.T) {
	_, _, svc := newSavedEnv()

	list, page, err := svc.ListSavedRecipes(context.Background(), uuid.NewString(), 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"noodles", "soup"}, list[0].Tags)
	assert.Equal(t, domain.DefaultPage, page.Page)
}

func TestRepoSaveRecipeRefreshesCount(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewSavedRepository(db)
	userID, recipeID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "saved_recipes" .* ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectExec(`UPDATE recipes SET save_count = \(SELECT COUNT\(\*\) FROM saved_recipes WHERE recipe_id = \$1\) WHERE id = \$2`).
		WithArgs(recipeID, recipeID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	created, err := repo.SaveRecipe(context.Background(), userID, recipeID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoSaveRecipeDuplicate(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewSavedRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "saved_recipes" .* ON CONFLICT DO NOTHING`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	created, err := repo.SaveRecipe(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoUnsaveMissing(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewSavedRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "saved_recipes" WHERE user_id = \$1 AND recipe_id = \$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	removed, err := repo.UnsaveRecipe(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepoGetSavedRecipesSkipsHiddenRecipes(t *testing.T) {
	db, mock := dbmock.New(t)
	repo := NewSavedRepository(db)
	userID := uuid.NewString()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "recipes" JOIN saved_recipes ON recipes.id = saved_recipes.recipe_id WHERE saved_recipes.user_id = \$1 AND \(recipes.status = \$2 OR recipes.user_id = \$3\)`).
		WithArgs(userID, domain.RecipeStatusApproved, userID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT .* FROM "recipes" JOIN saved_recipes ON recipes.id = saved_recipes.recipe_id WHERE saved_recipes.user_id = \$1 AND \(recipes.status = \$2 OR recipes.user_id = \$3\) ORDER BY saved_recipes.created_at desc LIMIT \$4`).
		WithArgs(userID, domain.RecipeStatusApproved, userID, 10).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rows, count, err := repo.GetSavedRecipes(context.Background(), userID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
