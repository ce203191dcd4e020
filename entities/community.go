package entities

import (
	"time"

	"github.com/google/uuid"
)

type Comment struct {
	ID       uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID uuid.UUID  `gorm:"type:uuid;not null;index" json:"recipe_id"`
	UserID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	ParentID *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	Content  string     `gorm:"type:text;not null" json:"content"`
	IsEdited bool       `gorm:"default:false" json:"is_edited"`

	Recipe  *Recipe    `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	User    *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Parent  *Comment   `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Replies []*Comment `gorm:"foreignKey:ParentID"`
	Timestamp
}

type Rating struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	RecipeID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_recipe_user" json:"recipe_id"`
	UserID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rating_recipe_user" json:"user_id"`
	Value    int       `gorm:"not null;check:value >= 1 AND value <= 5" json:"value"`

	Recipe *Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	User   *User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}

type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	AdminID    uuid.UUID `gorm:"type:uuid;not null;index" json:"admin_id"`
	Action     string    `gorm:"not null;index" json:"action"`
	TargetType string    `gorm:"not null;index" json:"target_type"`
	TargetID   string    `json:"target_id"`
	Details    string    `gorm:"type:text" json:"details,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	CreatedAt  time.Time `gorm:"type:timestamp with time zone;index" json:"created_at"`

	Admin *User `gorm:"foreignKey:AdminID"`
}
