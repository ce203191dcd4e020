package rating

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const refreshRatingAggregates = `UPDATE recipes SET
	rating_count = (SELECT COUNT(*) FROM ratings WHERE recipe_id = ?),
	average_rating = COALESCE((SELECT ROUND(AVG(value)::numeric, 2) FROM ratings WHERE recipe_id = ?), 0)
	WHERE id = ?`

type (
	RatingRepository interface {
		UpsertRating(ctx context.Context, rating *entities.Rating) (bool, error)
		GetRating(ctx context.Context, recipeID, userID string) (*entities.Rating, error)
		DeleteRating(ctx context.Context, recipeID, userID uuid.UUID) (bool, error)
		GetDistribution(ctx context.Context, recipeID string) (map[int]int, error)
	}

	ratingRepository struct {
		db *gorm.DB
	}
)

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func refreshAggregates(tx *gorm.DB, recipeID uuid.UUID) error {
	return tx.Exec(refreshRatingAggregates, recipeID, recipeID, recipeID).Error
}

// UpsertRating stores the caller's rating and reports whether it is their
// first one on the recipe.
func (r *ratingRepository) UpsertRating(ctx context.Context, rating *entities.Rating) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&entities.Rating{}).
			Where("recipe_id = ? AND user_id = ?", rating.RecipeID, rating.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		created = existing == 0

		if err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "recipe_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(rating).Error; err != nil {
			return err
		}
		return refreshAggregates(tx, rating.RecipeID)
	})
	return created, err
}

func (r *ratingRepository) GetRating(ctx context.Context, recipeID, userID string) (*entities.Rating, error) {
	var rating entities.Rating
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		First(&rating).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRatingNotFound
		}
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) DeleteRating(ctx context.Context, recipeID, userID uuid.UUID) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&entities.Rating{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return refreshAggregates(tx, recipeID)
	})
	return removed, err
}

func (r *ratingRepository) GetDistribution(ctx context.Context, recipeID string) (map[int]int, error) {
	var rows []struct {
		Value int
		Count int
	}
	if err := r.db.WithContext(ctx).
		Model(&entities.Rating{}).
		Select("value, COUNT(*) AS count").
		Where("recipe_id = ?", recipeID).
		Group("value").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	dist := make(map[int]int, domain.MaxRatingValue)
	for v := domain.MinRatingValue; v <= domain.MaxRatingValue; v++ {
		dist[v] = 0
	}
	for _, row := range rows {
		dist[row.Value] = row.Count
	}
	return dist, nil
}
