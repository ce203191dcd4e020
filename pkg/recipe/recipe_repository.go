package recipe

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/utils"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// editableColumns are written by edits and uploads. The counters have their
// own statements and are never written back from a loaded row.
var editableColumns = []string{
	"title", "description", "image_url", "prep_time_minutes", "cook_time_minutes",
	"servings", "difficulty_level", "cuisine_type", "category", "tags",
	"ingredients", "instructions", "status", "rejection_reason", "reviewed_by",
	"reviewed_at", "submitted_at", "updated_at",
}

var moderationColumns = []string{
	"status", "rejection_reason", "moderation_note", "reviewed_by", "reviewed_at", "updated_at",
}

var sortOrders = map[string]string{
	"newest":      "recipes.created_at DESC",
	"top_rated":   "recipes.average_rating DESC, recipes.rating_count DESC",
	"most_viewed": "recipes.view_count DESC",
	"most_saved":  "recipes.save_count DESC",
}

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, fromStatus string) error
		ModerateRecipe(ctx context.Context, recipe *entities.Recipe) (bool, error)
		DeleteRecipe(ctx context.Context, id uuid.UUID) error
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID string, status string, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesByStatus(ctx context.Context, status string, page, limit int) ([]*entities.Recipe, int64, error)
		RecordView(ctx context.Context, recipeID uuid.UUID, viewerKey string, day time.Time) (bool, error)
		DeleteViewsBefore(ctx context.Context, day time.Time) (int64, error)
		GetViewerState(ctx context.Context, recipeID, userID string) (bool, int, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(recipe).Error
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrRecipeNotFound
	}

	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// UpdateRecipe writes the editable columns only while the stored status is
// still fromStatus, so a concurrent moderation decision is never overwritten.
func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, fromStatus string) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ? AND status = ?", recipe.ID, fromStatus).
		Select(editableColumns).
		Updates(recipe)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecipeModified
	}
	return nil
}

// ModerateRecipe moves the recipe to recipe.Status unless it is already
// there. It reports false when another decision got there first.
func (r *recipeRepository) ModerateRecipe(ctx context.Context, recipe *entities.Recipe) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ? AND status <> ?", recipe.ID, recipe.Status).
		Select(moderationColumns).
		Updates(recipe)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// DeleteRecipe relies on the foreign keys to cascade comments, ratings,
// saves and views.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Recipe{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("recipes.status = ?", domain.RecipeStatusApproved)

	if filter.Query != "" {
		pattern := "%" + utils.EscapeLike(strings.TrimSpace(filter.Query)) + "%"
		q = q.Where("(recipes.title ILIKE ? OR recipes.description ILIKE ?)", pattern, pattern)
	}
	if filter.CuisineType != "" {
		q = q.Where("LOWER(recipes.cuisine_type) = LOWER(?)", filter.CuisineType)
	}
	if filter.DifficultyLevel != "" {
		q = q.Where("recipes.difficulty_level = ?", filter.DifficultyLevel)
	}
	if filter.Category != "" {
		q = q.Where("LOWER(recipes.category) = LOWER(?)", filter.Category)
	}
	if filter.AuthorID != "" {
		q = q.Where("recipes.user_id = ?", filter.AuthorID)
	}
	if filter.MaxTotalTime > 0 {
		q = q.Where("recipes.prep_time_minutes + recipes.cook_time_minutes <= ?", filter.MaxTotalTime)
	}
	if filter.MinRating > 0 {
		q = q.Where("recipes.average_rating >= ?", filter.MinRating)
	}

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	order, ok := sortOrders[filter.Sort]
	if !ok {
		order = sortOrders["newest"]
	}

	if err := q.Preload("User").
		Order(order).
		Order("recipes.id").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, status string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("user_id = ?", authorID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("updated_at desc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// GetRecipesByStatus lists the oldest submissions first so the review queue
// is worked in order.
func (r *recipeRepository) GetRecipesByStatus(ctx context.Context, status string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&entities.Recipe{}).Where("status = ?", status)

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Preload("User").
		Order("submitted_at asc").
		Offset(offset).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// RecordView stores one view per viewer key per day and bumps the recipe's
// view counter only when the row is new.
func (r *recipeRepository) RecordView(ctx context.Context, recipeID uuid.UUID, viewerKey string, day time.Time) (bool, error) {
	counted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&entities.RecipeView{
			RecipeID:  recipeID,
			ViewerKey: viewerKey,
			ViewDate:  day,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		counted = true
		return tx.Model(&entities.Recipe{}).
			Where("id = ?", recipeID).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
	})
	return counted, err
}

func (r *recipeRepository) DeleteViewsBefore(ctx context.Context, day time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("view_date < ?", day).Delete(&entities.RecipeView{})
	return res.RowsAffected, res.Error
}

// GetViewerState reports whether userID saved the recipe and the rating they
// gave it (0 when unrated).
func (r *recipeRepository) GetViewerState(ctx context.Context, recipeID, userID string) (bool, int, error) {
	var saved int64
	if err := r.db.WithContext(ctx).
		Model(&entities.SavedRecipe{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&saved).Error; err != nil {
		return false, 0, err
	}

	var values []int
	if err := r.db.WithContext(ctx).
		Model(&entities.Rating{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Limit(1).
		Pluck("value", &values).Error; err != nil {
		return false, 0, err
	}

	rating := 0
	if len(values) > 0 {
		rating = values[0]
	}
	return saved > 0, rating, nil
}
