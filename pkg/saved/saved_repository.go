package saved

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const refreshSaveCount = `UPDATE recipes SET save_count = (SELECT COUNT(*) FROM saved_recipes WHERE recipe_id = ?) WHERE id = ?`

type (
	SavedRepository interface {
		SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		UnsaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
		GetSavedRecipes(ctx context.Context, userID string, page, limit int) ([]*entities.Recipe, int64, error)
	}

	savedRepository struct {
		db *gorm.DB
	}
)

func NewSavedRepository(db *gorm.DB) SavedRepository {
	return &savedRepository{db: db}
}

// SaveRecipe reports false when the recipe was already saved.
func (r *savedRepository) SaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entities.SavedRecipe{
			UserID:   userID,
			RecipeID: recipeID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		created = true
		return tx.Exec(refreshSaveCount, recipeID, recipeID).Error
	})
	return created, err
}

// UnsaveRecipe reports false when there was nothing to remove.
func (r *savedRepository) UnsaveRecipe(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	removed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&entities.SavedRecipe{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		removed = true
		return tx.Exec(refreshSaveCount, recipeID, recipeID).Error
	})
	return removed, err
}

// visibleSaves limits a user's saves to recipes they can still see: approved
// ones and their own.
func visibleSaves(userID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Joins("JOIN saved_recipes ON recipes.id = saved_recipes.recipe_id").
			Where("saved_recipes.user_id = ?", userID).
			Where("(recipes.status = ? OR recipes.user_id = ?)", domain.RecipeStatusApproved, userID)
	}
}

func (r *savedRepository) GetSavedRecipes(ctx context.Context, userID string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Scopes(visibleSaves(userID)).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Scopes(visibleSaves(userID)).
		Preload("User").
		Order("saved_recipes.created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}
