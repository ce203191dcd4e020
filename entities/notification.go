package entities

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID      uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type    string     `gorm:"not null" json:"type"`
	Title   string     `json:"title"`
	Message string     `gorm:"type:text" json:"message"`
	Link    string     `json:"link,omitempty"`
	IsRead  bool       `gorm:"default:false;index" json:"is_read"`
	ReadAt  *time.Time `json:"read_at,omitempty"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type NotificationPreference struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	EmailEnabled    bool      `json:"email_enabled"`
	PushEnabled     bool      `json:"push_enabled"`
	InAppEnabled    bool      `json:"in_app_enabled"`
	RecipeUpdates   bool      `json:"recipe_updates"`
	CommentActivity bool      `json:"comment_activity"`
	RatingActivity  bool      `json:"rating_activity"`
	PushToken       string    `json:"-"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}

// DefaultNotificationPreference is used for users that never saved preferences.
func DefaultNotificationPreference(userID uuid.UUID) NotificationPreference {
	return NotificationPreference{
		UserID:          userID,
		EmailEnabled:    true,
		PushEnabled:     true,
		InAppEnabled:    true,
		RecipeUpdates:   true,
		CommentActivity: true,
		RatingActivity:  true,
	}
}
