package domain

import (
	"errors"
	"time"
)

const (
	AuditRecipeApprove  = "recipe.approve"
	AuditRecipeReject   = "recipe.reject"
	AuditRecipeUpdate   = "recipe.update"
	AuditRecipeDelete   = "recipe.delete"
	AuditCommentDelete  = "comment.delete"
	AuditUserBan        = "user.ban"
	AuditUserUnban      = "user.unban"
	AuditUserRoleChange = "user.role_change"
	AuditUserUnlock     = "user.unlock"

	AuditTargetRecipe  = "recipe"
	AuditTargetComment = "comment"
	AuditTargetUser    = "user"
)

var (
	MessageSuccessApproveRecipe     = "recipe approved"
	MessageSuccessRejectRecipe      = "recipe rejected"
	MessageSuccessGetPendingRecipes = "success get pending recipes"
	MessageSuccessGetUsers          = "success get users"
	MessageSuccessBanUser           = "user banned"
	MessageSuccessUnbanUser         = "user unbanned"
	MessageSuccessChangeRole        = "user role changed"
	MessageSuccessUnlockUser        = "user unlocked"
	MessageSuccessGetAuditLogs      = "success get audit logs"

	MessageFailedApproveRecipe     = "failed to approve recipe"
	MessageFailedRejectRecipe      = "failed to reject recipe"
	MessageFailedGetPendingRecipes = "failed to get pending recipes"
	MessageFailedGetUsers          = "failed to get users"
	MessageFailedBanUser           = "failed to ban user"
	MessageFailedUnbanUser         = "failed to unban user"
	MessageFailedChangeRole        = "failed to change user role"
	MessageFailedUnlockUser        = "failed to unlock user"
	MessageFailedGetAuditLogs      = "failed to get audit logs"

	ErrCannotModerateSelf = errors.New("admins cannot apply this action to themselves")
	ErrCannotBanAdmin     = errors.New("admins cannot be banned")
	ErrInvalidRole        = errors.New("invalid role")
	ErrUserNotBanned      = errors.New("user is not banned")
	ErrBanReasonRequired  = errors.New("ban reason is required")
)

type (
	ApproveRecipeRequest struct {
		Note string `json:"note" validate:"omitempty,max=1000"`
	}

	RejectRecipeRequest struct {
		Reason string `json:"reason" validate:"max=1000"`
	}

	BanUserRequest struct {
		Reason        string `json:"reason" validate:"required,max=500"`
		DurationHours int    `json:"duration_hours" validate:"omitempty,min=1"`
	}

	ChangeRoleRequest struct {
		Role string `json:"role" validate:"required,oneof=USER CHEF ADMIN"`
	}

	UserFilter struct {
		Query  string `query:"q"`
		Role   string `query:"role" validate:"omitempty,oneof=USER CHEF ADMIN"`
		Banned string `query:"banned" validate:"omitempty,oneof=true false"`
		Page   int    `query:"page"`
		Limit  int    `query:"limit"`
	}

	AuditLogFilter struct {
		AdminID    string `query:"admin_id" validate:"omitempty,uuid"`
		Action     string `query:"action"`
		TargetType string `query:"target_type"`
		TargetID   string `query:"target_id"`
		Page       int    `query:"page"`
		Limit      int    `query:"limit"`
	}

	AuditLog struct {
		ID         string    `json:"id"`
		AdminID    string    `json:"admin_id"`
		AdminName  string    `json:"admin_name,omitempty"`
		Action     string    `json:"action"`
		TargetType string    `json:"target_type"`
		TargetID   string    `json:"target_id"`
		Details    string    `json:"details,omitempty"`
		IPAddress  string    `json:"ip_address,omitempty"`
		CreatedAt  time.Time `json:"created_at"`
	}
)
