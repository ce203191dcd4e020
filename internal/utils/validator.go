package utils

import (
	"Recipe-Platform/domain"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func InitValidator() {
	if Validate != nil {
		return
	}
	v := validator.New()
	_ = v.RegisterValidation("role", validateRole)
	_ = v.RegisterValidation("password", validatePassword)
	Validate = v
}

// validateRole accepts the roles a user may pick for themselves.
func validateRole(fl validator.FieldLevel) bool {
	role := fl.Field().String()
	return role == domain.RoleUser || role == domain.RoleChef
}

func validatePassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

// IsStrongPassword requires at least 8 characters with a letter and a digit.
func IsStrongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}
