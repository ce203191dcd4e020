package rating

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/pkg/notification"
	"Recipe-Platform/pkg/recipe"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

type (
	RatingService interface {
		RateRecipe(ctx context.Context, actor domain.Actor, recipeID string, req domain.RateRecipeRequest) (domain.Rating, error)
		GetMyRating(ctx context.Context, actor domain.Actor, recipeID string) (domain.Rating, error)
		DeleteRating(ctx context.Context, actor domain.Actor, recipeID string) error
		GetRatingSummary(ctx context.Context, viewer domain.Viewer, recipeID string) (domain.RatingSummary, error)
	}

	ratingService struct {
		ratingRepository RatingRepository
		recipeRepository recipe.RecipeRepository
		notifier         notification.Notifier
		now              func() time.Time
	}
)

func NewRatingService(
	ratingRepository RatingRepository,
	recipeRepository recipe.RecipeRepository,
	notifier notification.Notifier,
) RatingService {
	return &ratingService{
		ratingRepository: ratingRepository,
		recipeRepository: recipeRepository,
		notifier:         notifier,
		now:              time.Now,
	}
}

func toRating(r *entities.Rating) domain.Rating {
	return domain.Rating{
		RecipeID:  r.RecipeID.String(),
		UserID:    r.UserID.String(),
		Value:     r.Value,
		UpdatedAt: r.UpdatedAt,
	}
}

// RateRecipe creates or replaces the caller's rating. The author is only
// notified about the first rating a user leaves.
func (s *ratingService) RateRecipe(ctx context.Context, actor domain.Actor, recipeID string, req domain.RateRecipeRequest) (domain.Rating, error) {
	if req.Value < domain.MinRatingValue || req.Value > domain.MaxRatingValue {
		return domain.Rating{}, domain.ErrInvalidRatingValue
	}
	userID, err := uuid.Parse(actor.ID)
	if err != nil {
		return domain.Rating{}, domain.ErrParseUUID
	}

	r, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.Rating{}, err
	}
	if r.Status != domain.RecipeStatusApproved {
		return domain.Rating{}, domain.ErrRecipeNotApproved
	}
	if r.UserID == userID {
		return domain.Rating{}, domain.ErrCannotRateOwnRecipe
	}

	now := s.now()
	rating := &entities.Rating{
		RecipeID:  r.ID,
		UserID:    userID,
		Value:     req.Value,
		Timestamp: entities.Timestamp{CreatedAt: now, UpdatedAt: now},
	}

	created, err := s.ratingRepository.UpsertRating(ctx, rating)
	if err != nil {
		return domain.Rating{}, err
	}

	if created {
		s.notifier.Notify(ctx, r.UserID.String(), domain.Notice{
			Type:    domain.NotificationRecipeRated,
			Title:   "Your recipe was rated",
			Message: fmt.Sprintf("%q received a %d-star rating.", r.Title, req.Value),
			Link:    "/recipes/" + r.ID.String(),
		})
	}

	return toRating(rating), nil
}

func (s *ratingService) GetMyRating(ctx context.Context, actor domain.Actor, recipeID string) (domain.Rating, error) {
	if _, err := uuid.Parse(recipeID); err != nil {
		return domain.Rating{}, domain.ErrRecipeNotFound
	}

	rating, err := s.ratingRepository.GetRating(ctx, recipeID, actor.ID)
	if err != nil {
		return domain.Rating{}, err
	}
	return toRating(rating), nil
}

func (s *ratingService) DeleteRating(ctx context.Context, actor domain.Actor, recipeID string) error {
	rid, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrRecipeNotFound
	}
	uid, err := uuid.Parse(actor.ID)
	if err != nil {
		return domain.ErrParseUUID
	}

	removed, err := s.ratingRepository.DeleteRating(ctx, rid, uid)
	if err != nil {
		return err
	}
	if !removed {
		return domain.ErrRatingNotFound
	}
	return nil
}

func (s *ratingService) GetRatingSummary(ctx context.Context, viewer domain.Viewer, recipeID string) (domain.RatingSummary, error) {
	r, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RatingSummary{}, err
	}
	if !viewer.CanSee(r.UserID.String(), r.Status) {
		return domain.RatingSummary{}, domain.ErrRecipeNotFound
	}

	dist, err := s.ratingRepository.GetDistribution(ctx, recipeID)
	if err != nil {
		return domain.RatingSummary{}, err
	}

	summary := domain.RatingSummary{
		RecipeID:     r.ID.String(),
		Distribution: dist,
	}
	sum := 0
	for value, count := range dist {
		summary.RatingCount += count
		sum += value * count
	}
	if summary.RatingCount > 0 {
		summary.AverageRating = math.Round(float64(sum)/float64(summary.RatingCount)*100) / 100
	}
	return summary, nil
}
