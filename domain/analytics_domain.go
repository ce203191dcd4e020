package domain

import (
	"errors"
)

const (
	DefaultTrendDays = 30
	MaxTrendDays     = 90

	TopMetricViews    = "views"
	TopMetricRating   = "rating"
	TopMetricSaves    = "saves"
	TopMetricComments = "comments"
)

var (
	MessageSuccessGetOverview        = "success get platform overview"
	MessageSuccessGetTrends          = "success get trends"
	MessageSuccessGetTopRecipes      = "success get top recipes"
	MessageSuccessGetChefStats       = "success get chef statistics"
	MessageSuccessGetModerationStats = "success get moderation statistics"

	MessageFailedGetOverview        = "failed to get platform overview"
	MessageFailedGetTrends          = "failed to get trends"
	MessageFailedGetTopRecipes      = "failed to get top recipes"
	MessageFailedGetChefStats       = "failed to get chef statistics"
	MessageFailedGetModerationStats = "failed to get moderation statistics"

	ErrInvalidMetric    = errors.New("invalid metric")
	ErrInvalidTrendDays = errors.New("days must be between 1 and 90")
)

type (
	PlatformOverview struct {
		TotalUsers      int64            `json:"total_users"`
		UsersByRole     map[string]int64 `json:"users_by_role"`
		BannedUsers     int64            `json:"banned_users"`
		NewUsers7Days   int64            `json:"new_users_7_days"`
		NewUsers30Days  int64            `json:"new_users_30_days"`
		RecipesByStatus map[string]int64 `json:"recipes_by_status"`
		TotalComments   int64            `json:"total_comments"`
		TotalRatings    int64            `json:"total_ratings"`
		TotalSaves      int64            `json:"total_saves"`
		TotalViews      int64            `json:"total_views"`
	}

	TrendPoint struct {
		Date     string `json:"date"`
		Users    int64  `json:"users"`
		Recipes  int64  `json:"recipes"`
		Comments int64  `json:"comments"`
	}

	TopRecipe struct {
		ID            string  `json:"id"`
		Title         string  `json:"title"`
		AuthorID      string  `json:"author_id"`
		AverageRating float64 `json:"average_rating"`
		RatingCount   int     `json:"rating_count"`
		ViewCount     int     `json:"view_count"`
		SaveCount     int     `json:"save_count"`
		CommentCount  int     `json:"comment_count"`
	}

	ChefStats struct {
		ChefID          string           `json:"chef_id"`
		RecipesByStatus map[string]int64 `json:"recipes_by_status"`
		TotalViews      int64            `json:"total_views"`
		TotalSaves      int64            `json:"total_saves"`
		TotalComments   int64            `json:"total_comments"`
		TotalRatings    int64            `json:"total_ratings"`
		AverageRating   float64          `json:"average_rating"`
		BestRecipe      *TopRecipe       `json:"best_recipe,omitempty"`
	}

	ModeratorStats struct {
		AdminID   string `json:"admin_id"`
		AdminName string `json:"admin_name"`
		Approved  int64  `json:"approved"`
		Rejected  int64  `json:"rejected"`
	}

	ModerationStats struct {
		Moderators         []ModeratorStats `json:"moderators"`
		PendingCount       int64            `json:"pending_count"`
		AveragePendingAgeH float64          `json:"average_pending_age_hours"`
	}
)
