package comment

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const refreshCommentCount = `UPDATE recipes SET comment_count = (SELECT COUNT(*) FROM comments WHERE recipe_id = ?) WHERE id = ?`

type (
	CommentRepository interface {
		CreateComment(ctx context.Context, comment *entities.Comment) error
		GetCommentByID(ctx context.Context, id string) (*entities.Comment, error)
		GetComments(ctx context.Context, recipeID string, page, limit int) ([]*entities.Comment, int64, error)
		GetReplies(ctx context.Context, recipeID string) ([]*entities.Comment, error)
		UpdateComment(ctx context.Context, comment *entities.Comment) error
		DeleteComment(ctx context.Context, comment *entities.Comment) error
	}

	commentRepository struct {
		db *gorm.DB
	}
)

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(comment).Error; err != nil {
			return err
		}
		return tx.Exec(refreshCommentCount, comment.RecipeID, comment.RecipeID).Error
	})
}

func (r *commentRepository) GetCommentByID(ctx context.Context, id string) (*entities.Comment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrCommentNotFound
	}

	var comment entities.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// GetComments pages through top-level comments, oldest first.
func (r *commentRepository) GetComments(ctx context.Context, recipeID string, page, limit int) ([]*entities.Comment, int64, error) {
	var comments []*entities.Comment
	var count int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).
		Model(&entities.Comment{}).
		Where("recipe_id = ? AND parent_id IS NULL", recipeID)

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Preload("User").
		Order("created_at asc").
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, count, nil
}

// GetReplies returns every reply on the recipe regardless of depth.
func (r *commentRepository) GetReplies(ctx context.Context, recipeID string) ([]*entities.Comment, error) {
	var replies []*entities.Comment
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("recipe_id = ? AND parent_id IS NOT NULL", recipeID).
		Order("created_at asc").
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *commentRepository) UpdateComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).
		Model(&entities.Comment{}).
		Where("id = ?", comment.ID).
		Updates(map[string]any{
			"content":   comment.Content,
			"is_edited": comment.IsEdited,
		}).Error
}

// DeleteComment removes the comment; replies go with it through the
// parent_id foreign key.
func (r *commentRepository) DeleteComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", comment.ID).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		return tx.Exec(refreshCommentCount, comment.RecipeID, comment.RecipeID).Error
	})
}
