package domain

import (
	"errors"
	"time"
)

const (
	MinRatingValue   = 1
	MaxRatingValue   = 5
	MaxCommentLength = 2000
)

var (
	MessageSuccessCreateComment    = "comment created successfully"
	MessageSuccessUpdateComment    = "comment updated successfully"
	MessageSuccessDeleteComment    = "comment deleted successfully"
	MessageSuccessGetComments      = "success get comments"
	MessageSuccessRateRecipe       = "recipe rated successfully"
	MessageSuccessDeleteRating     = "rating removed successfully"
	MessageSuccessGetRating        = "success get rating"
	MessageSuccessGetRatingSummary = "success get rating summary"

	MessageFailedCreateComment    = "failed to create comment"
	MessageFailedUpdateComment    = "failed to update comment"
	MessageFailedDeleteComment    = "failed to delete comment"
	MessageFailedGetComments      = "failed to get comments"
	MessageFailedRateRecipe       = "failed to rate recipe"
	MessageFailedDeleteRating     = "failed to remove rating"
	MessageFailedGetRating        = "failed to get rating"
	MessageFailedGetRatingSummary = "failed to get rating summary"

	ErrCommentNotFound      = errors.New("comment not found")
	ErrUnauthorizedComment  = errors.New("unauthorized access to comment")
	ErrInvalidParentComment = errors.New("parent comment does not belong to this recipe")
	ErrEmptyComment         = errors.New("comment content is empty")
	ErrCommentTooLong       = errors.New("comment content is too long")
	ErrInvalidRatingValue   = errors.New("rating value must be between 1 and 5")
	ErrCannotRateOwnRecipe  = errors.New("cannot rate your own recipe")
	ErrRatingNotFound       = errors.New("rating not found")
)

type (
	CreateCommentRequest struct {
		Content  string `json:"content" validate:"required,max=2000"`
		ParentID string `json:"parent_id" validate:"omitempty,uuid"`
	}

	UpdateCommentRequest struct {
		Content string `json:"content" validate:"required,max=2000"`
	}

	Comment struct {
		ID        string         `json:"id"`
		RecipeID  string         `json:"recipe_id"`
		ParentID  string         `json:"parent_id,omitempty"`
		Content   string         `json:"content"`
		IsEdited  bool           `json:"is_edited"`
		Author    *AuthorSummary `json:"author,omitempty"`
		Replies   []*Comment     `json:"replies,omitempty"`
		CreatedAt time.Time      `json:"created_at"`
		UpdatedAt time.Time      `json:"updated_at"`
	}

	RateRecipeRequest struct {
		Value int `json:"value"`
	}

	Rating struct {
		RecipeID  string    `json:"recipe_id"`
		UserID    string    `json:"user_id"`
		Value     int       `json:"value"`
		UpdatedAt time.Time `json:"updated_at"`
	}

	RatingSummary struct {
		RecipeID      string      `json:"recipe_id"`
		AverageRating float64     `json:"average_rating"`
		RatingCount   int         `json:"rating_count"`
		Distribution  map[int]int `json:"distribution"`
	}
)
