package handlers

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/pkg/recipe"
	"context"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecipeService struct {
	recipe.RecipeService
	filter    domain.RecipeFilter
	viewer    domain.Viewer
	submitted *domain.RecipeRequest
	myStatus  string
	err       error
}

func (f *fakeRecipeService) SubmitRecipe(_ context.Context, actor domain.Actor, req domain.RecipeRequest) (domain.RecipeDetail, error) {
	if f.err != nil {
		return domain.RecipeDetail{}, f.err
	}
	f.submitted = &req
	return domain.RecipeDetail{Recipe: domain.Recipe{ID: "r1", Title: req.Title, Status: domain.RecipeStatusPending}}, nil
}

func (f *fakeRecipeService) ListRecipes(_ context.Context, filter domain.RecipeFilter) ([]domain.Recipe, domain.Pagination, error) {
	f.filter = filter
	return []domain.Recipe{{ID: "r1"}, {ID: "r2"}}, domain.NewPagination(1, 20, 2), nil
}

func (f *fakeRecipeService) ListMyRecipes(_ context.Context, authorID string, status string, page, limit int) ([]domain.Recipe, domain.Pagination, error) {
	f.myStatus = status
	return []domain.Recipe{}, domain.NewPagination(page, limit, 0), nil
}

func (f *fakeRecipeService) GetRecipeDetail(_ context.Context, id string, viewer domain.Viewer) (domain.RecipeDetail, error) {
	f.viewer = viewer
	if f.err != nil {
		return domain.RecipeDetail{}, f.err
	}
	return domain.RecipeDetail{Recipe: domain.Recipe{ID: id}}, nil
}

func (f *fakeRecipeService) DeleteRecipe(_ context.Context, actor domain.Actor, id string) error {
	return f.err
}

func newRecipeTestApp(svc *fakeRecipeService, userID, role string) *fiber.App {
	h := NewRecipeHandler(svc, testValidator())
	app := newTestApp(userID, role)
	app.Post("/recipes", h.SubmitRecipe)
	app.Get("/recipes", h.ListRecipes)
	app.Get("/recipes/mine", h.ListMyRecipes)
	app.Get("/recipes/:id", h.GetRecipeDetail)
	app.Delete("/recipes/:id", h.DeleteRecipe)
	return app
}

func validRecipeRequest() domain.RecipeRequest {
	return domain.RecipeRequest{
		Title:           "Shakshuka",
		Description:     "Eggs poached in spiced tomato sauce",
		PrepTimeMinutes: 10,
		CookTimeMinutes: 20,
		Servings:        2,
		DifficultyLevel: "Easy",
		CuisineType:     "Middle Eastern",
		Category:        "Breakfast",
		Ingredients:     []string{"4 eggs", "1 can tomatoes"},
		Instructions:    []string{"Simmer sauce", "Add eggs"},
	}
}

func TestSubmitRecipeHandler(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		svc := &fakeRecipeService{}
		app := newRecipeTestApp(svc, testUserID, domain.RoleChef)

		req := validRecipeRequest()
		req.Ingredients = nil
		code, _ := send(t, app, "POST", "/recipes", req)
		assert.Equal(t, fiber.StatusBadRequest, code)
		assert.Nil(t, svc.submitted)
	})

	t.Run("created pending", func(t *testing.T) {
		svc := &fakeRecipeService{}
		app := newRecipeTestApp(svc, testUserID, domain.RoleChef)

		code, body := send(t, app, "POST", "/recipes", validRecipeRequest())
		require.Equal(t, fiber.StatusCreated, code, body.Error)

		var res domain.RecipeDetail
		decodeData(t, body, &res)
		assert.Equal(t, domain.RecipeStatusPending, res.Status)
	})

	t.Run("chef only", func(t *testing.T) {
		svc := &fakeRecipeService{err: domain.ErrChefOnly}
		app := newRecipeTestApp(svc, testUserID, domain.RoleUser)

		code, _ := send(t, app, "POST", "/recipes", validRecipeRequest())
		assert.Equal(t, fiber.StatusForbidden, code)
	})
}

func TestListRecipesParsesFilter(t *testing.T) {
	svc := &fakeRecipeService{}
	app := newRecipeTestApp(svc, "", "")

	code, body := send(t, app, "GET", "/recipes?q=curry&difficulty_level=Hard&max_time=45&sort=top_rated&page=2&limit=5", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "curry", svc.filter.Query)
	assert.Equal(t, "Hard", svc.filter.DifficultyLevel)
	assert.Equal(t, 45, svc.filter.MaxTotalTime)
	assert.Equal(t, "top_rated", svc.filter.Sort)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 5, svc.filter.Limit)

	var res page[domain.Recipe]
	decodeData(t, body, &res)
	assert.Len(t, res.Items, 2)
	assert.EqualValues(t, 2, res.Pagination.Total)
}

func TestListRecipesRejectsUnknownSort(t *testing.T) {
	app := newRecipeTestApp(&fakeRecipeService{}, "", "")

	code, _ := send(t, app, "GET", "/recipes?sort=random", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestListMyRecipesStatusFilter(t *testing.T) {
	svc := &fakeRecipeService{}
	app := newRecipeTestApp(svc, testUserID, domain.RoleChef)

	code, _ := send(t, app, "GET", "/recipes/mine?status=REJECTED", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, domain.RecipeStatusRejected, svc.myStatus)

	code, _ = send(t, app, "GET", "/recipes/mine?status=DRAFT", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestGetRecipeDetailViewer(t *testing.T) {
	t.Run("anonymous", func(t *testing.T) {
		svc := &fakeRecipeService{}
		app := newRecipeTestApp(svc, "", "")

		code, _ := send(t, app, "GET", "/recipes/r1", nil)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Empty(t, svc.viewer.UserID)
		assert.NotEmpty(t, svc.viewer.IPAddress)
	})

	t.Run("signed in", func(t *testing.T) {
		svc := &fakeRecipeService{}
		app := newRecipeTestApp(svc, testUserID, domain.RoleChef)

		code, _ := send(t, app, "GET", "/recipes/r1", nil)
		assert.Equal(t, fiber.StatusOK, code)
		assert.Equal(t, testUserID, svc.viewer.UserID)
		assert.Equal(t, domain.RoleChef, svc.viewer.Role)
	})

	t.Run("hidden", func(t *testing.T) {
		svc := &fakeRecipeService{err: domain.ErrRecipeNotFound}
		app := newRecipeTestApp(svc, "", "")

		code, body := send(t, app, "GET", "/recipes/r1", nil)
		assert.Equal(t, fiber.StatusNotFound, code)
		assert.Equal(t, domain.MessageFailedGetRecipeDetail, body.Message)
	})
}

func TestDeleteRecipeHandler(t *testing.T) {
	svc := &fakeRecipeService{err: domain.ErrUnauthorizedRecipeAccess}
	app := newRecipeTestApp(svc, testUserID, domain.RoleChef)

	code, _ := send(t, app, "DELETE", "/recipes/r1", nil)
	assert.Equal(t, fiber.StatusForbidden, code)

	svc.err = nil
	code, body := send(t, app, "DELETE", "/recipes/r1", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, domain.MessageSuccessDeleteRecipe, body.Message)
}
