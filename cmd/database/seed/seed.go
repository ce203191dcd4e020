package seed

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/utils"
	"Recipe-Platform/internal/utils/logging"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserStore is the slice of the user repository seeding needs.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	RegisterUser(ctx context.Context, user *entities.User) (*entities.User, error)
	UpdateRole(ctx context.Context, userID uuid.UUID, role string) error
}

var ErrAdminCredentials = errors.New("ADMIN_EMAIL and a strong ADMIN_PASSWORD are required")

// SeedAdmin creates the bootstrap admin account, or promotes an existing
// account with the same email. Running it twice is harmless.
func SeedAdmin(ctx context.Context, users UserStore, email, password string) (*entities.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !utils.IsStrongPassword(password) {
		return nil, ErrAdminCredentials
	}

	existing, err := users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != domain.RoleAdmin {
			if err := users.UpdateRole(ctx, existing.ID, domain.RoleAdmin); err != nil {
				return nil, fmt.Errorf("promote %s: %w", email, err)
			}
			existing.Role = domain.RoleAdmin
			logging.Info().Str("email", email).Msg("existing user promoted to admin")
		}
		return existing, nil
	case !errors.Is(err, domain.ErrUserNotFound) && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	admin, err := users.RegisterUser(ctx, &entities.User{
		Name:       "Administrator",
		Email:      email,
		Password:   hash,
		Role:       domain.RoleAdmin,
		IsVerified: true,
	})
	if err != nil {
		return nil, fmt.Errorf("create admin %s: %w", email, err)
	}
	logging.Info().Str("email", email).Msg("admin account created")
	return admin, nil
}
