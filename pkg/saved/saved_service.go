package saved

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/pkg/recipe"
	"context"

	"github.com/google/uuid"
)

type (
	SavedService interface {
		SaveRecipe(ctx context.Context, userID, recipeID string) error
		UnsaveRecipe(ctx context.Context, userID, recipeID string) error
		ListSavedRecipes(ctx context.Context, userID string, page, limit int) ([]domain.Recipe, domain.Pagination, error)
	}

	savedService struct {
		savedRepository  SavedRepository
		recipeRepository recipe.RecipeRepository
	}
)

func NewSavedService(savedRepository SavedRepository, recipeRepository recipe.RecipeRepository) SavedService {
	return &savedService{
		savedRepository:  savedRepository,
		recipeRepository: recipeRepository,
	}
}

// SaveRecipe is idempotent; saving twice succeeds without a second row.
func (s *savedService) SaveRecipe(ctx context.Context, userID, recipeID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	r, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if r.Status != domain.RecipeStatusApproved {
		return domain.ErrRecipeNotApproved
	}

	_, err = s.savedRepository.SaveRecipe(ctx, uid, r.ID)
	return err
}

func (s *savedService) UnsaveRecipe(ctx context.Context, userID, recipeID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	rid, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrRecipeNotFound
	}

	_, err = s.savedRepository.UnsaveRecipe(ctx, uid, rid)
	return err
}

func (s *savedService) ListSavedRecipes(ctx context.Context, userID string, page, limit int) ([]domain.Recipe, domain.Pagination, error) {
	page, limit = domain.NormalizePage(page, limit)

	rows, count, err := s.savedRepository.GetSavedRecipes(ctx, userID, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return recipe.ToRecipes(rows), domain.NewPagination(page, limit, count), nil
}
