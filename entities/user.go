package entities

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name                string     `gorm:"not null" json:"name"`
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `json:"-"`
	Role                string     `gorm:"not null;default:'USER';index" json:"role"` // USER, CHEF, ADMIN
	AvatarURL           string     `json:"avatar_url,omitempty"`
	Bio                 string     `gorm:"type:text" json:"bio,omitempty"`
	IsVerified          bool       `gorm:"default:false" json:"is_verified"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	IsBanned            bool       `gorm:"default:false;index" json:"is_banned"`
	BannedReason        string     `json:"banned_reason,omitempty"`
	BannedUntil         *time.Time `json:"banned_until,omitempty"`
	OAuthProvider       *string    `gorm:"column:oauth_provider;uniqueIndex:idx_user_oauth" json:"-"`
	OAuthID             *string    `gorm:"column:oauth_id;uniqueIndex:idx_user_oauth" json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	PasswordChangedAt   *time.Time `json:"-"`

	Timestamp
}

// BanActive reports whether the ban is still in force at t. A ban without
// BannedUntil is permanent.
func (u *User) BanActive(t time.Time) bool {
	if !u.IsBanned {
		return false
	}
	return u.BannedUntil == nil || u.BannedUntil.After(t)
}

func (u *User) LockActive(t time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(t)
}

type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Timestamp
}
