package domain

import (
	"errors"
)

const (
	RoleUser  = "USER"
	RoleChef  = "CHEF"
	RoleAdmin = "ADMIN"

	RecipeStatusPending  = "PENDING"
	RecipeStatusApproved = "APPROVED"
	RecipeStatusRejected = "REJECTED"

	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedRateLimited    = "too many requests, slow down"
	MessageRouteNotFound        = "route not found"

	ErrParseUUID       = errors.New("failed to parse UUID")
	ErrUserNotAllowed  = errors.New("user not allowed")
	ErrTokenNotFound   = errors.New("failed to token not found")
	ErrTokenInvalid    = errors.New("token invalid")
	ErrTokenExpired    = errors.New("token expired")
	ErrRateLimited     = errors.New("rate limit exceeded")
	ErrInvalidFileType = errors.New("invalid file type")
	ErrValidation      = errors.New("validation failed")

	ErrStorageNotConfigured = errors.New("file storage not configured")
)

type (
	// Actor is the authenticated caller of a state-changing operation.
	Actor struct {
		ID        string
		Role      string
		IPAddress string
	}

	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}
)

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func NewPagination(page, limit int, total int64) Pagination {
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
	}
}

// NormalizePage clamps page and limit into the accepted range.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}
