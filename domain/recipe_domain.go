package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessSubmitRecipe      = "recipe submitted for review"
	MessageSuccessUpdateRecipe      = "recipe updated successfully"
	MessageSuccessDeleteRecipe      = "recipe deleted successfully"
	MessageSuccessGetRecipes        = "success get recipes"
	MessageSuccessGetRecipeDetail   = "success get recipe detail"
	MessageSuccessUploadRecipeImage = "recipe image uploaded successfully"
	MessageSuccessPresignUpload     = "upload url created"
	MessageSuccessSaveRecipe        = "recipe saved successfully"
	MessageSuccessUnsaveRecipe      = "recipe removed from saved"
	MessageSuccessGetSavedRecipes   = "success get saved recipes"

	MessageFailedSubmitRecipe      = "failed to submit recipe"
	MessageFailedUpdateRecipe      = "failed to update recipe"
	MessageFailedDeleteRecipe      = "failed to delete recipe"
	MessageFailedGetRecipes        = "failed to get recipes"
	MessageFailedGetRecipeDetail   = "failed to get recipe detail"
	MessageFailedUploadRecipeImage = "failed to upload recipe image"
	MessageFailedPresignUpload     = "failed to create upload url"
	MessageFailedSaveRecipe        = "failed to save recipe"
	MessageFailedUnsaveRecipe      = "failed to remove saved recipe"
	MessageFailedGetSavedRecipes   = "failed to get saved recipes"

	ErrRecipeNotFound           = errors.New("recipe not found")
	ErrUnauthorizedRecipeAccess = errors.New("unauthorized access to recipe")
	ErrChefOnly                 = errors.New("only chefs can submit recipes")
	ErrRecipeImmutable          = errors.New("approved recipes can only be changed by an admin")
	ErrRecipeNotApproved        = errors.New("recipe is not approved")
	ErrRecipeAlreadyApproved    = errors.New("recipe already approved")
	ErrRecipeAlreadyRejected    = errors.New("recipe already rejected")
	ErrRecipeModified           = errors.New("recipe was changed by someone else, reload and try again")
	ErrRejectionReasonRequired  = errors.New("rejection reason is required")
	ErrInvalidRecipeStatus      = errors.New("invalid recipe status")
)

type (
	RecipeRequest struct {
		Title           string   `json:"title" form:"title" validate:"required,min=3,max=200"`
		Description     string   `json:"description" form:"description" validate:"required,max=5000"`
		Ingredients     []string `json:"ingredients" form:"ingredients" validate:"required,min=1,dive,required,max=300"`
		Instructions    []string `json:"instructions" form:"instructions" validate:"required,min=1,dive,required,max=2000"`
		PrepTimeMinutes int      `json:"prep_time_minutes" form:"prep_time_minutes" validate:"min=0,max=1440"`
		CookTimeMinutes int      `json:"cook_time_minutes" form:"cook_time_minutes" validate:"min=0,max=1440"`
		Servings        int      `json:"servings" form:"servings" validate:"required,min=1,max=100"`
		DifficultyLevel string   `json:"difficulty_level" form:"difficulty_level" validate:"required,oneof=Easy Medium Hard"`
		CuisineType     string   `json:"cuisine_type" form:"cuisine_type" validate:"omitempty,max=50"`
		Category        string   `json:"category" form:"category" validate:"omitempty,max=50"`
		Tags            []string `json:"tags" form:"tags" validate:"omitempty,max=10,dive,max=30"`
		ImageURL        string   `json:"image_url" form:"image_url" validate:"omitempty,url"`
	}

	UpdateRecipeRequest struct {
		Title           *string  `json:"title" validate:"omitempty,min=3,max=200"`
		Description     *string  `json:"description" validate:"omitempty,max=5000"`
		Ingredients     []string `json:"ingredients" validate:"omitempty,min=1,dive,required,max=300"`
		Instructions    []string `json:"instructions" validate:"omitempty,min=1,dive,required,max=2000"`
		PrepTimeMinutes *int     `json:"prep_time_minutes" validate:"omitempty,min=0,max=1440"`
		CookTimeMinutes *int     `json:"cook_time_minutes" validate:"omitempty,min=0,max=1440"`
		Servings        *int     `json:"servings" validate:"omitempty,min=1,max=100"`
		DifficultyLevel *string  `json:"difficulty_level" validate:"omitempty,oneof=Easy Medium Hard"`
		CuisineType     *string  `json:"cuisine_type" validate:"omitempty,max=50"`
		Category        *string  `json:"category" validate:"omitempty,max=50"`
		Tags            []string `json:"tags" validate:"omitempty,max=10,dive,max=30"`
		ImageURL        *string  `json:"image_url" validate:"omitempty,url"`
	}

	UploadRecipeImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	PresignUploadRequest struct {
		ContentType string `json:"content_type" validate:"required,oneof=image/jpeg image/png image/webp"`
	}

	PresignUploadResponse struct {
		ObjectKey string    `json:"object_key"`
		UploadURL string    `json:"upload_url"`
		PublicURL string    `json:"public_url"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	RecipeFilter struct {
		Query           string  `query:"q"`
		CuisineType     string  `query:"cuisine_type"`
		DifficultyLevel string  `query:"difficulty_level" validate:"omitempty,oneof=Easy Medium Hard"`
		Category        string  `query:"category"`
		AuthorID        string  `query:"author_id" validate:"omitempty,uuid"`
		MaxTotalTime    int     `query:"max_time" validate:"omitempty,min=1"`
		MinRating       float64 `query:"min_rating" validate:"omitempty,min=0,max=5"`
		Sort            string  `query:"sort" validate:"omitempty,oneof=newest top_rated most_viewed most_saved"`
		Page            int     `query:"page"`
		Limit           int     `query:"limit"`
	}

	// Viewer identifies who is looking at a recipe. UserID is empty for
	// anonymous callers.
	Viewer struct {
		UserID    string
		Role      string
		IPAddress string
	}

	AuthorSummary struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url,omitempty"`
	}

	Recipe struct {
		ID              string         `json:"id"`
		Title           string         `json:"title"`
		Description     string         `json:"description"`
		ImageURL        string         `json:"image_url,omitempty"`
		PrepTimeMinutes int            `json:"prep_time_minutes"`
		CookTimeMinutes int            `json:"cook_time_minutes"`
		Servings        int            `json:"servings"`
		DifficultyLevel string         `json:"difficulty_level"`
		CuisineType     string         `json:"cuisine_type"`
		Category        string         `json:"category,omitempty"`
		Tags            []string       `json:"tags"`
		Status          string         `json:"status"`
		AverageRating   float64        `json:"average_rating"`
		RatingCount     int            `json:"rating_count"`
		CommentCount    int            `json:"comment_count"`
		ViewCount       int            `json:"view_count"`
		SaveCount       int            `json:"save_count"`
		Author          *AuthorSummary `json:"author,omitempty"`
		SubmittedAt     time.Time      `json:"submitted_at"`
		CreatedAt       time.Time      `json:"created_at"`
		UpdatedAt       time.Time      `json:"updated_at"`
	}

	RecipeDetail struct {
		Recipe
		Ingredients     []string   `json:"ingredients"`
		Instructions    []string   `json:"instructions"`
		RejectionReason string     `json:"rejection_reason,omitempty"`
		ModerationNote  string     `json:"moderation_note,omitempty"`
		ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
		IsSaved         bool       `json:"is_saved"`
		MyRating        int        `json:"my_rating,omitempty"`
	}
)

// CanSee reports whether the viewer may see a recipe owned by ownerID in the
// given status. Unapproved recipes are visible to their author and admins.
func (v Viewer) CanSee(ownerID, status string) bool {
	if status == RecipeStatusApproved || v.Role == RoleAdmin {
		return true
	}
	return v.UserID != "" && v.UserID == ownerID
}
