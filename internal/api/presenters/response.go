package presenters

import (
	"Recipe-Platform/domain"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

// Failed writes an error envelope with the status code derived from err.
func Failed(c *fiber.Ctx, message string, err error) error {
	return ErrorResponse(c, StatusFromError(err), message, err)
}

var (
	badRequestErrors = []error{
		domain.ErrValidation,
		domain.ErrParseUUID,
		domain.ErrInvalidFileType,
		domain.ErrRejectionReasonRequired,
		domain.ErrInvalidRecipeStatus,
		domain.ErrInvalidParentComment,
		domain.ErrEmptyComment,
		domain.ErrCommentTooLong,
		domain.ErrInvalidRatingValue,
		domain.ErrInvalidRole,
		domain.ErrBanReasonRequired,
		domain.ErrInvalidMetric,
		domain.ErrInvalidTrendDays,
		domain.ErrOAuthStateInvalid,
		domain.ErrOAuthExchangeFailed,
	}
	unauthorizedErrors = []error{
		domain.ErrTokenNotFound,
		domain.ErrTokenInvalid,
		domain.ErrTokenExpired,
		domain.ErrCredentialsNotMatched,
		domain.ErrSessionNotFound,
		domain.ErrSessionExpired,
		domain.ErrPasswordNotMatched,
	}
	forbiddenErrors = []error{
		domain.ErrUserNotAllowed,
		domain.ErrAccountLocked,
		domain.ErrUserBanned,
		domain.ErrUnauthorizedRecipeAccess,
		domain.ErrChefOnly,
		domain.ErrUnauthorizedComment,
		domain.ErrCannotRateOwnRecipe,
		domain.ErrCannotModerateSelf,
		domain.ErrCannotBanAdmin,
		domain.ErrOAuthEmailUnverified,
		domain.ErrPasswordNotSet,
	}
	notFoundErrors = []error{
		gorm.ErrRecordNotFound,
		domain.ErrUserNotFound,
		domain.ErrRecipeNotFound,
		domain.ErrRecipeNotApproved,
		domain.ErrCommentNotFound,
		domain.ErrRatingNotFound,
		domain.ErrNotificationNotFound,
	}
	conflictErrors = []error{
		domain.ErrEmailAlreadyExists,
		domain.ErrAccountAlreadyVerified,
		domain.ErrRecipeImmutable,
		domain.ErrRecipeAlreadyApproved,
		domain.ErrRecipeAlreadyRejected,
		domain.ErrRecipeModified,
		domain.ErrUserNotBanned,
	}
	unavailableErrors = []error{
		domain.ErrStorageNotConfigured,
		domain.ErrOAuthNotConfigured,
	}
)

func StatusFromError(err error) int {
	if err == nil {
		return fiber.StatusOK
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return fiber.StatusBadRequest
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch {
	case matchAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	case matchAny(err, unauthorizedErrors):
		return fiber.StatusUnauthorized
	case matchAny(err, forbiddenErrors):
		return fiber.StatusForbidden
	case matchAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case matchAny(err, conflictErrors):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case matchAny(err, unavailableErrors):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func matchAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
