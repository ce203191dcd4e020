package user

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
)

type (
	UserRepository interface {
		RegisterUser(ctx context.Context, user *entities.User) (*entities.User, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
		GetUserByOAuth(ctx context.Context, provider string, oauthID string) (*entities.User, error)
		UpdateUser(ctx context.Context, user *entities.User) error
		UpdatePassword(ctx context.Context, userID uuid.UUID, hash string, changedAt time.Time) error
		IncrementFailedLogin(ctx context.Context, userID uuid.UUID) (int, error)
		LockUser(ctx context.Context, userID uuid.UUID, until time.Time) error
		ResetLoginState(ctx context.Context, userID uuid.UUID, lastLogin *time.Time) error
		CreateSession(ctx context.Context, session *entities.Session) error
		GetSessionByToken(ctx context.Context, token string) (*entities.Session, error)
		DeleteSession(ctx context.Context, token string) error
		DeleteSessionsByUser(ctx context.Context, userID uuid.UUID, keepToken string) (int64, error)
		DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
		GetUsers(ctx context.Context, filter domain.UserFilter, page, limit int) ([]*entities.User, int64, error)
		BanUser(ctx context.Context, userID uuid.UUID, reason string, until *time.Time) error
		UnbanUser(ctx context.Context, userID uuid.UUID) error
		UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// RegisterUser stores the user together with default notification
// preferences.
func (r *userRepository) RegisterUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		pref := entities.DefaultNotificationPreference(user.ID)
		return tx.Create(&pref).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrEmailAlreadyExists
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByOAuth(ctx context.Context, provider string, oauthID string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).
		Where("oauth_provider = ? AND oauth_id = ?", provider, oauthID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, hash string, changedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password":              hash,
			"password_changed_at":   changedAt,
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error
}

// IncrementFailedLogin bumps the counter in the database and returns the new
// value, so concurrent failures are all counted.
func (r *userRepository) IncrementFailedLogin(ctx context.Context, userID uuid.UUID) (int, error) {
	var attempts int
	err := r.db.WithContext(ctx).
		Raw("UPDATE users SET failed_login_attempts = failed_login_attempts + 1, updated_at = ? WHERE id = ? RETURNING failed_login_attempts", time.Now(), userID).
		Scan(&attempts).Error
	return attempts, err
}

func (r *userRepository) LockUser(ctx context.Context, userID uuid.UUID, until time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Update("locked_until", until).Error
}

// ResetLoginState clears failed attempts and lock. A non-nil lastLogin is
// stored as the last successful login.
func (r *userRepository) ResetLoginState(ctx context.Context, userID uuid.UUID, lastLogin *time.Time) error {
	updates := map[string]any{
		"failed_login_attempts": 0,
		"locked_until":          nil,
	}
	if lastLogin != nil {
		updates["last_login_at"] = *lastLogin
	}
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(updates).Error
}

func (r *userRepository) CreateSession(ctx context.Context, session *entities.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *userRepository) GetSessionByToken(ctx context.Context, token string) (*entities.Session, error) {
	var session entities.Session
	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("token = ?", token).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (r *userRepository) DeleteSession(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&entities.Session{}).Error
}

// DeleteSessionsByUser removes every session of the user except keepToken
// (pass "" to remove all).
func (r *userRepository) DeleteSessionsByUser(ctx context.Context, userID uuid.UUID, keepToken string) (int64, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if keepToken != "" {
		q = q.Where("token <> ?", keepToken)
	}
	res := q.Delete(&entities.Session{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&entities.Session{})
	return res.RowsAffected, res.Error
}

func (r *userRepository) GetUsers(ctx context.Context, filter domain.UserFilter, page, limit int) ([]*entities.User, int64, error) {
	var users []*entities.User
	var count int64
	offset := (page - 1) * limit

	q := r.db.WithContext(ctx).Model(&entities.User{})
	if filter.Query != "" {
		like := "%" + utils.EscapeLike(strings.ToLower(filter.Query)) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
	}
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Banned != "" {
		q = q.Where("is_banned = ?", filter.Banned == "true")
	}

	if err := q.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := q.Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, count, nil
}

// BanUser marks the user banned. A nil until makes the ban permanent.
func (r *userRepository) BanUser(ctx context.Context, userID uuid.UUID, reason string, until *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"is_banned":     true,
			"banned_reason": reason,
			"banned_until":  until,
		}).Error
}

func (r *userRepository) UnbanUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"is_banned":     false,
			"banned_reason": "",
			"banned_until":  nil,
		}).Error
}

func (r *userRepository) UpdateRole(ctx context.Context, userID uuid.UUID, role string) error {
	return r.db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}
