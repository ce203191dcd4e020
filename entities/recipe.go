// File: entities/recipe.go
package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	ImageURL        string     `json:"image_url,omitempty"`
	PrepTimeMinutes int        `json:"prep_time_minutes"`
	CookTimeMinutes int        `json:"cook_time_minutes"`
	Servings        int        `json:"servings"`
	DifficultyLevel string     `json:"difficulty_level"`
	CuisineType     string     `gorm:"index" json:"cuisine_type"`
	Category        string     `gorm:"index" json:"category"`
	Tags            string     `json:"tags"`
	Ingredients     string     `json:"ingredients" gorm:"type:text"`
	Instructions    string     `json:"instructions" gorm:"type:text"`
	Status          string     `gorm:"not null;default:'PENDING';index" json:"status"` // PENDING, APPROVED, REJECTED
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	ModerationNote  string     `gorm:"type:text" json:"moderation_note,omitempty"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	AverageRating   float64    `gorm:"default:0" json:"average_rating"`
	RatingCount     int        `gorm:"default:0" json:"rating_count"`
	CommentCount    int        `gorm:"default:0" json:"comment_count"`
	ViewCount       int        `gorm:"default:0" json:"view_count"`
	SaveCount       int        `gorm:"default:0" json:"save_count"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type SavedRecipe struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_recipe" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_saved_user_recipe" json:"recipe_id"`
	CreatedAt time.Time `gorm:"type:timestamp with time zone" json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeView is one counted view per viewer per day.
type RecipeView struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_view_daily" json:"recipe_id"`
	ViewerKey string    `gorm:"not null;uniqueIndex:idx_recipe_view_daily" json:"viewer_key"`
	ViewDate  time.Time `gorm:"type:date;not null;uniqueIndex:idx_recipe_view_daily" json:"view_date"`
	CreatedAt time.Time `gorm:"type:timestamp with time zone" json:"created_at"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
