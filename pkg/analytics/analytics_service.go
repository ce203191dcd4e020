package analytics

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"context"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

const maxTopRecipes = 50

type (
	AnalyticsService interface {
		PlatformOverview(ctx context.Context) (domain.PlatformOverview, error)
		Trends(ctx context.Context, days int) ([]domain.TrendPoint, error)
		TopRecipes(ctx context.Context, metric string, limit int) ([]domain.TopRecipe, error)
		ChefStats(ctx context.Context, chefID string) (domain.ChefStats, error)
		ModerationStats(ctx context.Context) (domain.ModerationStats, error)
	}

	analyticsService struct {
		analyticsRepository AnalyticsRepository
		now                 func() time.Time
	}
)

func NewAnalyticsService(analyticsRepository AnalyticsRepository) AnalyticsService {
	return &analyticsService{
		analyticsRepository: analyticsRepository,
		now:                 time.Now,
	}
}

func (s *analyticsService) PlatformOverview(ctx context.Context) (domain.PlatformOverview, error) {
	var (
		res domain.PlatformOverview
		err error
	)
	now := s.now()

	if res.UsersByRole, err = s.analyticsRepository.CountUsersByRole(ctx); err != nil {
		return domain.PlatformOverview{}, err
	}
	for _, n := range res.UsersByRole {
		res.TotalUsers += n
	}
	fillZero(res.UsersByRole, domain.RoleUser, domain.RoleChef, domain.RoleAdmin)
	if res.BannedUsers, err = s.analyticsRepository.CountBannedUsers(ctx); err != nil {
		return domain.PlatformOverview{}, err
	}
	if res.NewUsers7Days, err = s.analyticsRepository.CountUsersSince(ctx, now.AddDate(0, 0, -7)); err != nil {
		return domain.PlatformOverview{}, err
	}
	if res.NewUsers30Days, err = s.analyticsRepository.CountUsersSince(ctx, now.AddDate(0, 0, -30)); err != nil {
		return domain.PlatformOverview{}, err
	}
	if res.RecipesByStatus, err = s.recipesByStatus(ctx, ""); err != nil {
		return domain.PlatformOverview{}, err
	}
	if res.TotalComments, err = s.analyticsRepository.CountComments(ctx); err != nil {
		return domain.PlatformOverview{}, err
	}
	if res.TotalRatings, err = s.analyticsRepository.CountRatings(ctx); err != nil {
		return domain.PlatformOverview{}, err
	}
	if res.TotalSaves, err = s.analyticsRepository.CountSaves(ctx); err != nil {
		return domain.PlatformOverview{}, err
	}
	if res.TotalViews, err = s.analyticsRepository.SumViews(ctx); err != nil {
		return domain.PlatformOverview{}, err
	}
	return res, nil
}

func fillZero(counts map[string]int64, keys ...string) {
	for _, k := range keys {
		if _, ok := counts[k]; !ok {
			counts[k] = 0
		}
	}
}

func (s *analyticsService) recipesByStatus(ctx context.Context, authorID string) (map[string]int64, error) {
	counts, err := s.analyticsRepository.CountRecipesByStatus(ctx, authorID)
	if err != nil {
		return nil, err
	}
	fillZero(counts, domain.RecipeStatusPending, domain.RecipeStatusApproved, domain.RecipeStatusRejected)
	return counts, nil
}

// Trends returns one point per UTC day, oldest first, ending today. Days
// without activity are reported as zero.
func (s *analyticsService) Trends(ctx context.Context, days int) ([]domain.TrendPoint, error) {
	if days == 0 {
		days = domain.DefaultTrendDays
	}
	if days < 1 || days > domain.MaxTrendDays {
		return nil, domain.ErrInvalidTrendDays
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	since := today.AddDate(0, 0, -(days - 1))

	users, err := s.analyticsRepository.DailyCounts(ctx, seriesUsers, since)
	if err != nil {
		return nil, err
	}
	recipes, err := s.analyticsRepository.DailyCounts(ctx, seriesRecipes, since)
	if err != nil {
		return nil, err
	}
	comments, err := s.analyticsRepository.DailyCounts(ctx, seriesComments, since)
	if err != nil {
		return nil, err
	}

	points := make([]domain.TrendPoint, 0, days)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		key := d.Format(time.DateOnly)
		points = append(points, domain.TrendPoint{
			Date:     key,
			Users:    users[key],
			Recipes:  recipes[key],
			Comments: comments[key],
		})
	}
	return points, nil
}

func toTopRecipe(r *entities.Recipe) domain.TopRecipe {
	return domain.TopRecipe{
		ID:            r.ID.String(),
		Title:         r.Title,
		AuthorID:      r.UserID.String(),
		AverageRating: r.AverageRating,
		RatingCount:   r.RatingCount,
		ViewCount:     r.ViewCount,
		SaveCount:     r.SaveCount,
		CommentCount:  r.CommentCount,
	}
}

func (s *analyticsService) TopRecipes(ctx context.Context, metric string, limit int) ([]domain.TopRecipe, error) {
	if metric == "" {
		metric = domain.TopMetricViews
	}
	if _, ok := topOrders[metric]; !ok {
		return nil, domain.ErrInvalidMetric
	}
	if limit < 1 {
		limit = 10
	}
	if limit > maxTopRecipes {
		limit = maxTopRecipes
	}

	rows, err := s.analyticsRepository.TopRecipes(ctx, metric, limit)
	if err != nil {
		return nil, err
	}
	res := make([]domain.TopRecipe, 0, len(rows))
	for _, r := range rows {
		res = append(res, toTopRecipe(r))
	}
	return res, nil
}

func (s *analyticsService) ChefStats(ctx context.Context, chefID string) (domain.ChefStats, error) {
	if _, err := uuid.Parse(chefID); err != nil {
		return domain.ChefStats{}, domain.ErrUserNotFound
	}

	byStatus, err := s.recipesByStatus(ctx, chefID)
	if err != nil {
		return domain.ChefStats{}, err
	}
	totals, err := s.analyticsRepository.GetChefTotals(ctx, chefID)
	if err != nil {
		return domain.ChefStats{}, err
	}
	best, err := s.analyticsRepository.BestRecipe(ctx, chefID)
	if err != nil {
		return domain.ChefStats{}, err
	}

	res := domain.ChefStats{
		ChefID:          chefID,
		RecipesByStatus: byStatus,
		TotalViews:      totals.Views,
		TotalSaves:      totals.Saves,
		TotalComments:   totals.Comments,
		TotalRatings:    totals.Ratings,
		AverageRating:   roundTo2(totals.AverageRating),
	}
	if best != nil {
		top := toTopRecipe(best)
		res.BestRecipe = &top
	}
	return res, nil
}

func (s *analyticsService) ModerationStats(ctx context.Context) (domain.ModerationStats, error) {
	moderators, err := s.analyticsRepository.ModeratorCounts(ctx)
	if err != nil {
		return domain.ModerationStats{}, err
	}
	sort.SliceStable(moderators, func(i, j int) bool {
		return moderators[i].Approved+moderators[i].Rejected > moderators[j].Approved+moderators[j].Rejected
	})

	pending, avgHours, err := s.analyticsRepository.PendingAge(ctx, s.now())
	if err != nil {
		return domain.ModerationStats{}, err
	}

	if moderators == nil {
		moderators = []domain.ModeratorStats{}
	}
	return domain.ModerationStats{
		Moderators:         moderators,
		PendingCount:       pending,
		AveragePendingAgeH: roundTo2(avgHours),
	}, nil
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
