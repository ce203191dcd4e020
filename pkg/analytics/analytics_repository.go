// Package analytics aggregates platform, chef and moderation statistics.
package analytics

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Daily series sources. Table and column names never come from the caller.
const (
	seriesUsers    = "users"
	seriesRecipes  = "recipes"
	seriesComments = "comments"
)

var seriesColumns = map[string]string{
	seriesUsers:    "created_at",
	seriesRecipes:  "submitted_at",
	seriesComments: "created_at",
}

var topOrders = map[string]string{
	domain.TopMetricViews:    "view_count DESC",
	domain.TopMetricRating:   "average_rating DESC, rating_count DESC",
	domain.TopMetricSaves:    "save_count DESC",
	domain.TopMetricComments: "comment_count DESC",
}

type (
	// ChefTotals sums the activity of every recipe one chef owns.
	ChefTotals struct {
		Views         int64
		Saves         int64
		Comments      int64
		Ratings       int64
		AverageRating float64
	}

	AnalyticsRepository interface {
		CountUsersByRole(ctx context.Context) (map[string]int64, error)
		CountBannedUsers(ctx context.Context) (int64, error)
		CountUsersSince(ctx context.Context, since time.Time) (int64, error)
		CountRecipesByStatus(ctx context.Context, authorID string) (map[string]int64, error)
		CountComments(ctx context.Context) (int64, error)
		CountRatings(ctx context.Context) (int64, error)
		CountSaves(ctx context.Context) (int64, error)
		SumViews(ctx context.Context) (int64, error)
		DailyCounts(ctx context.Context, series string, since time.Time) (map[string]int64, error)
		TopRecipes(ctx context.Context, metric string, limit int) ([]*entities.Recipe, error)
		GetChefTotals(ctx context.Context, chefID string) (ChefTotals, error)
		BestRecipe(ctx context.Context, chefID string) (*entities.Recipe, error)
		ModeratorCounts(ctx context.Context) ([]domain.ModeratorStats, error)
		PendingAge(ctx context.Context, now time.Time) (int64, float64, error)
	}

	analyticsRepository struct {
		db *gorm.DB
	}
)

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

type groupCount struct {
	Key   string
	Count int64
}

func toCountMap(rows []groupCount) map[string]int64 {
	res := make(map[string]int64, len(rows))
	for _, row := range rows {
		res[row.Key] = row.Count
	}
	return res
}

func (r *analyticsRepository) CountUsersByRole(ctx context.Context) (map[string]int64, error) {
	var rows []groupCount
	if err := r.db.WithContext(ctx).
		Model(&entities.User{}).
		Select("role AS key, COUNT(*) AS count").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *analyticsRepository) CountBannedUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("is_banned = ?", true).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountUsersSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

// CountRecipesByStatus counts recipes per status, limited to one author when
// authorID is set.
func (r *analyticsRepository) CountRecipesByStatus(ctx context.Context, authorID string) (map[string]int64, error) {
	var rows []groupCount
	q := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("status AS key, COUNT(*) AS count")
	if authorID != "" {
		q = q.Where("user_id = ?", authorID)
	}
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *analyticsRepository) CountComments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Comment{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountRatings(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Rating{}).Count(&count).Error
	return count, err
}

func (r *analyticsRepository) CountSaves(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.SavedRecipe{}).Count(&count).Error
	return count, err
}

// SumViews reads the lifetime counters; per-day view rows are purged.
func (r *analyticsRepository) SumViews(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("COALESCE(SUM(view_count), 0)").
		Scan(&total).Error
	return total, err
}

// DailyCounts returns rows per UTC day, keyed YYYY-MM-DD.
func (r *analyticsRepository) DailyCounts(ctx context.Context, series string, since time.Time) (map[string]int64, error) {
	column, ok := seriesColumns[series]
	if !ok {
		return nil, fmt.Errorf("analytics: unknown series %q", series)
	}

	var rows []groupCount
	query := fmt.Sprintf(
		"SELECT to_char(%[1]s AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS key, COUNT(*) AS count FROM %[2]s WHERE %[1]s >= ? GROUP BY 1",
		column, series,
	)
	if err := r.db.WithContext(ctx).Raw(query, since).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toCountMap(rows), nil
}

func (r *analyticsRepository) TopRecipes(ctx context.Context, metric string, limit int) ([]*entities.Recipe, error) {
	order, ok := topOrders[metric]
	if !ok {
		return nil, domain.ErrInvalidMetric
	}

	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("status = ?", domain.RecipeStatusApproved).
		Order(order).
		Order("id").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// GetChefTotals weights the average by rating count so recipes with few
// ratings do not dominate.
func (r *analyticsRepository) GetChefTotals(ctx context.Context, chefID string) (ChefTotals, error) {
	var totals ChefTotals
	err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select(`COALESCE(SUM(view_count), 0) AS views,
			COALESCE(SUM(save_count), 0) AS saves,
			COALESCE(SUM(comment_count), 0) AS comments,
			COALESCE(SUM(rating_count), 0) AS ratings,
			COALESCE(SUM(average_rating * rating_count) / NULLIF(SUM(rating_count), 0), 0) AS average_rating`).
		Where("user_id = ?", chefID).
		Scan(&totals).Error
	return totals, err
}

func (r *analyticsRepository) BestRecipe(ctx context.Context, chefID string) (*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", chefID, domain.RecipeStatusApproved).
		Order("average_rating DESC, rating_count DESC, view_count DESC").
		Limit(1).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, nil
	}
	return recipes[0], nil
}

// ModeratorCounts tallies decisions from the audit trail, so every approval
// or rejection counts even when the recipe was reviewed again later.
func (r *analyticsRepository) ModeratorCounts(ctx context.Context) ([]domain.ModeratorStats, error) {
	var rows []domain.ModeratorStats
	if err := r.db.WithContext(ctx).
		Table("audit_logs").
		Select(`audit_logs.admin_id AS admin_id,
			users.name AS admin_name,
			SUM(CASE WHEN audit_logs.action = ? THEN 1 ELSE 0 END) AS approved,
			SUM(CASE WHEN audit_logs.action = ? THEN 1 ELSE 0 END) AS rejected`,
			domain.AuditRecipeApprove, domain.AuditRecipeReject).
		Joins("JOIN users ON users.id = audit_logs.admin_id").
		Where("audit_logs.action IN ?", []string{domain.AuditRecipeApprove, domain.AuditRecipeReject}).
		Group("audit_logs.admin_id, users.name").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *analyticsRepository) PendingAge(ctx context.Context, now time.Time) (int64, float64, error) {
	var row struct {
		Count    int64
		AvgHours float64
	}
	err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Select("COUNT(*) AS count, COALESCE(AVG(EXTRACT(EPOCH FROM (? - submitted_at)) / 3600), 0) AS avg_hours", now).
		Where("status = ?", domain.RecipeStatusPending).
		Scan(&row).Error
	return row.Count, row.AvgHours, err
}
