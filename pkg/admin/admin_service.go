// Package admin holds the moderation and user management operations that
// only administrators can perform.
package admin

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/internal/metrics"
	"Recipe-Platform/internal/utils/logging"
	"Recipe-Platform/pkg/audit"
	"Recipe-Platform/pkg/comment"
	"Recipe-Platform/pkg/notification"
	"Recipe-Platform/pkg/recipe"
	"Recipe-Platform/pkg/user"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	AdminService interface {
		ListPendingRecipes(ctx context.Context, page, limit int) ([]domain.Recipe, domain.Pagination, error)
		ApproveRecipe(ctx context.Context, actor domain.Actor, recipeID string, req domain.ApproveRecipeRequest) (domain.RecipeDetail, error)
		RejectRecipe(ctx context.Context, actor domain.Actor, recipeID string, req domain.RejectRecipeRequest) (domain.RecipeDetail, error)
		ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.UserResponse, domain.Pagination, error)
		BanUser(ctx context.Context, actor domain.Actor, userID string, req domain.BanUserRequest) (domain.UserResponse, error)
		UnbanUser(ctx context.Context, actor domain.Actor, userID string) (domain.UserResponse, error)
		ChangeUserRole(ctx context.Context, actor domain.Actor, userID string, req domain.ChangeRoleRequest) (domain.UserResponse, error)
		UnlockUser(ctx context.Context, actor domain.Actor, userID string) (domain.UserResponse, error)
		DeleteComment(ctx context.Context, actor domain.Actor, commentID string) error
		ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter) ([]domain.AuditLog, domain.Pagination, error)
	}

	adminService struct {
		recipeRepository recipe.RecipeRepository
		userRepository   user.UserRepository
		commentService   comment.CommentService
		auditService     audit.AuditService
		notifier         notification.Notifier
		now              func() time.Time
	}
)

func NewAdminService(
	recipeRepository recipe.RecipeRepository,
	userRepository user.UserRepository,
	commentService comment.CommentService,
	auditService audit.AuditService,
	notifier notification.Notifier,
) AdminService {
	return &adminService{
		recipeRepository: recipeRepository,
		userRepository:   userRepository,
		commentService:   commentService,
		auditService:     auditService,
		notifier:         notifier,
		now:              time.Now,
	}
}

func (s *adminService) ListPendingRecipes(ctx context.Context, page, limit int) ([]domain.Recipe, domain.Pagination, error) {
	page, limit = domain.NormalizePage(page, limit)

	rows, count, err := s.recipeRepository.GetRecipesByStatus(ctx, domain.RecipeStatusPending, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return recipe.ToRecipes(rows), domain.NewPagination(page, limit, count), nil
}

func (s *adminService) ApproveRecipe(ctx context.Context, actor domain.Actor, recipeID string, req domain.ApproveRecipeRequest) (domain.RecipeDetail, error) {
	adminID, err := uuid.Parse(actor.ID)
	if err != nil {
		return domain.RecipeDetail{}, domain.ErrParseUUID
	}

	r, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	if r.Status == domain.RecipeStatusApproved {
		return domain.RecipeDetail{}, domain.ErrRecipeAlreadyApproved
	}

	previous := r.Status
	now := s.now()
	r.Status = domain.RecipeStatusApproved
	r.ModerationNote = strings.TrimSpace(req.Note)
	r.RejectionReason = ""
	r.ReviewedBy = &adminID
	r.ReviewedAt = &now

	moved, err := s.recipeRepository.ModerateRecipe(ctx, r)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	if !moved {
		return domain.RecipeDetail{}, domain.ErrRecipeAlreadyApproved
	}
	metrics.RecordModeration("approved")

	s.notifier.Notify(ctx, r.UserID.String(), domain.Notice{
		Type:    domain.NotificationRecipeApproved,
		Title:   "Your recipe was approved",
		Message: fmt.Sprintf("%q is now visible to everyone.", r.Title),
		Link:    "/recipes/" + r.ID.String(),
	})
	s.auditService.Record(ctx, actor, domain.AuditRecipeApprove, domain.AuditTargetRecipe, r.ID.String(), map[string]any{
		"previous_status": previous,
		"note":            r.ModerationNote,
	})

	return recipe.ToRecipeDetail(r), nil
}

func (s *adminService) RejectRecipe(ctx context.Context, actor domain.Actor, recipeID string, req domain.RejectRecipeRequest) (domain.RecipeDetail, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return domain.RecipeDetail{}, domain.ErrRejectionReasonRequired
	}
	adminID, err := uuid.Parse(actor.ID)
	if err != nil {
		return domain.RecipeDetail{}, domain.ErrParseUUID
	}

	r, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	if r.Status == domain.RecipeStatusRejected {
		return domain.RecipeDetail{}, domain.ErrRecipeAlreadyRejected
	}

	previous := r.Status
	now := s.now()
	r.Status = domain.RecipeStatusRejected
	r.RejectionReason = reason
	r.ReviewedBy = &adminID
	r.ReviewedAt = &now

	moved, err := s.recipeRepository.ModerateRecipe(ctx, r)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	if !moved {
		return domain.RecipeDetail{}, domain.ErrRecipeAlreadyRejected
	}
	metrics.RecordModeration("rejected")

	s.notifier.Notify(ctx, r.UserID.String(), domain.Notice{
		Type:    domain.NotificationRecipeRejected,
		Title:   "Your recipe was rejected",
		Message: fmt.Sprintf("%q was rejected: %s", r.Title, reason),
		Link:    "/recipes/" + r.ID.String(),
	})
	s.auditService.Record(ctx, actor, domain.AuditRecipeReject, domain.AuditTargetRecipe, r.ID.String(), map[string]any{
		"previous_status": previous,
		"reason":          reason,
	})

	return recipe.ToRecipeDetail(r), nil
}

func (s *adminService) ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.UserResponse, domain.Pagination, error) {
	page, limit := domain.NormalizePage(filter.Page, filter.Limit)
	filter.Query = strings.TrimSpace(filter.Query)

	rows, count, err := s.userRepository.GetUsers(ctx, filter, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	users := make([]domain.UserResponse, 0, len(rows))
	for _, u := range rows {
		users = append(users, user.ToUserResponse(u))
	}
	return users, domain.NewPagination(page, limit, count), nil
}

// targetID parses the id of the user an admin action applies to. Admins
// never act on their own account through these operations.
func targetID(actor domain.Actor, userID string) (uuid.UUID, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrUserNotFound
	}
	if userID == actor.ID {
		return uuid.Nil, domain.ErrCannotModerateSelf
	}
	return id, nil
}

func (s *adminService) reload(ctx context.Context, id uuid.UUID) (domain.UserResponse, error) {
	u, err := s.userRepository.GetUserByID(ctx, id.String())
	if err != nil {
		return domain.UserResponse{}, err
	}
	return user.ToUserResponse(u), nil
}

func (s *adminService) BanUser(ctx context.Context, actor domain.Actor, userID string, req domain.BanUserRequest) (domain.UserResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return domain.UserResponse{}, domain.ErrBanReasonRequired
	}
	id, err := targetID(actor, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	target, err := s.userRepository.GetUserByID(ctx, id.String())
	if err != nil {
		return domain.UserResponse{}, err
	}
	if target.Role == domain.RoleAdmin {
		return domain.UserResponse{}, domain.ErrCannotBanAdmin
	}

	var until *time.Time
	if req.DurationHours > 0 {
		t := s.now().Add(time.Duration(req.DurationHours) * time.Hour)
		until = &t
	}

	if err := s.userRepository.BanUser(ctx, id, reason, until); err != nil {
		return domain.UserResponse{}, err
	}

	revoked, err := s.userRepository.DeleteSessionsByUser(ctx, id, "")
	if err != nil {
		logging.Error().Err(err).Str("user_id", userID).Msg("failed to revoke sessions of banned user")
	}

	message := "Your account has been suspended: " + reason
	if until != nil {
		message += fmt.Sprintf(" (until %s)", until.UTC().Format(time.RFC1123))
	}
	s.notifier.Notify(ctx, userID, domain.Notice{
		Type:    domain.NotificationAccountBanned,
		Title:   "Account suspended",
		Message: message,
	})

	details := map[string]any{
		"reason":           reason,
		"revoked_sessions": revoked,
	}
	if until != nil {
		details["until"] = until.UTC()
	}
	s.auditService.Record(ctx, actor, domain.AuditUserBan, domain.AuditTargetUser, userID, details)

	return s.reload(ctx, id)
}

func (s *adminService) UnbanUser(ctx context.Context, actor domain.Actor, userID string) (domain.UserResponse, error) {
	id, err := targetID(actor, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	target, err := s.userRepository.GetUserByID(ctx, id.String())
	if err != nil {
		return domain.UserResponse{}, err
	}
	if !target.IsBanned {
		return domain.UserResponse{}, domain.ErrUserNotBanned
	}

	if err := s.userRepository.UnbanUser(ctx, id); err != nil {
		return domain.UserResponse{}, err
	}
	s.auditService.Record(ctx, actor, domain.AuditUserUnban, domain.AuditTargetUser, userID, map[string]any{
		"previous_reason": target.BannedReason,
	})

	return s.reload(ctx, id)
}

func (s *adminService) ChangeUserRole(ctx context.Context, actor domain.Actor, userID string, req domain.ChangeRoleRequest) (domain.UserResponse, error) {
	switch req.Role {
	case domain.RoleUser, domain.RoleChef, domain.RoleAdmin:
	default:
		return domain.UserResponse{}, domain.ErrInvalidRole
	}
	id, err := targetID(actor, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	target, err := s.userRepository.GetUserByID(ctx, id.String())
	if err != nil {
		return domain.UserResponse{}, err
	}
	if target.Role == req.Role {
		return user.ToUserResponse(target), nil
	}

	if err := s.userRepository.UpdateRole(ctx, id, req.Role); err != nil {
		return domain.UserResponse{}, err
	}
	s.auditService.Record(ctx, actor, domain.AuditUserRoleChange, domain.AuditTargetUser, userID, map[string]any{
		"from": target.Role,
		"to":   req.Role,
	})

	return s.reload(ctx, id)
}

func (s *adminService) UnlockUser(ctx context.Context, actor domain.Actor, userID string) (domain.UserResponse, error) {
	id, err := targetID(actor, userID)
	if err != nil {
		return domain.UserResponse{}, err
	}

	target, err := s.userRepository.GetUserByID(ctx, id.String())
	if err != nil {
		return domain.UserResponse{}, err
	}

	if err := s.userRepository.ResetLoginState(ctx, id, nil); err != nil {
		return domain.UserResponse{}, err
	}
	s.auditService.Record(ctx, actor, domain.AuditUserUnlock, domain.AuditTargetUser, userID, map[string]any{
		"failed_attempts": target.FailedLoginAttempts,
	})

	return s.reload(ctx, id)
}

// DeleteComment removes any comment. The comment service records the audit
// entry when the comment belongs to someone else.
func (s *adminService) DeleteComment(ctx context.Context, actor domain.Actor, commentID string) error {
	return s.commentService.DeleteComment(ctx, actor, commentID)
}

func (s *adminService) ListAuditLogs(ctx context.Context, filter domain.AuditLogFilter) ([]domain.AuditLog, domain.Pagination, error) {
	return s.auditService.ListAuditLogs(ctx, filter)
}
