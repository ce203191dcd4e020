package comment

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/pkg/audit"
	"Recipe-Platform/pkg/notification"
	"Recipe-Platform/pkg/recipe"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

type (
	CommentService interface {
		CreateComment(ctx context.Context, actor domain.Actor, recipeID string, req domain.CreateCommentRequest) (*domain.Comment, error)
		ListComments(ctx context.Context, viewer domain.Viewer, recipeID string, page, limit int) ([]*domain.Comment, domain.Pagination, error)
		UpdateComment(ctx context.Context, actor domain.Actor, commentID string, req domain.UpdateCommentRequest) (*domain.Comment, error)
		DeleteComment(ctx context.Context, actor domain.Actor, commentID string) error
	}

	commentService struct {
		commentRepository CommentRepository
		recipeRepository  recipe.RecipeRepository
		notifier          notification.Notifier
		auditor           audit.Recorder
	}
)

func NewCommentService(
	commentRepository CommentRepository,
	recipeRepository recipe.RecipeRepository,
	notifier notification.Notifier,
	auditor audit.Recorder,
) CommentService {
	return &commentService{
		commentRepository: commentRepository,
		recipeRepository:  recipeRepository,
		notifier:          notifier,
		auditor:           auditor,
	}
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", domain.ErrEmptyComment
	}
	if utf8.RuneCountInString(content) > domain.MaxCommentLength {
		return "", domain.ErrCommentTooLong
	}
	return content, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor domain.Actor, recipeID string, req domain.CreateCommentRequest) (*domain.Comment, error) {
	content, err := normalizeContent(req.Content)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(actor.ID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	r, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if r.Status != domain.RecipeStatusApproved {
		return nil, domain.ErrRecipeNotApproved
	}

	comment := &entities.Comment{
		RecipeID: r.ID,
		UserID:   userID,
		Content:  content,
	}

	var parent *entities.Comment
	if req.ParentID != "" {
		parent, err = s.commentRepository.GetCommentByID(ctx, req.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrCommentNotFound) {
				return nil, domain.ErrInvalidParentComment
			}
			return nil, err
		}
		if parent.RecipeID != r.ID {
			return nil, domain.ErrInvalidParentComment
		}
		comment.ParentID = &parent.ID
	}

	if err := s.commentRepository.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("/recipes/%s#comment-%s", r.ID, comment.ID)
	if r.UserID != userID {
		s.notifier.Notify(ctx, r.UserID.String(), domain.Notice{
			Type:    domain.NotificationCommentCreated,
			Title:   "New comment on your recipe",
			Message: fmt.Sprintf("Someone commented on %q.", r.Title),
			Link:    link,
		})
	}
	if parent != nil && parent.UserID != userID && parent.UserID != r.UserID {
		s.notifier.Notify(ctx, parent.UserID.String(), domain.Notice{
			Type:    domain.NotificationCommentReply,
			Title:   "New reply to your comment",
			Message: fmt.Sprintf("Someone replied to your comment on %q.", r.Title),
			Link:    link,
		})
	}

	created, err := s.commentRepository.GetCommentByID(ctx, comment.ID.String())
	if err != nil {
		return toComment(comment), nil
	}
	return toComment(created), nil
}

func (s *commentService) ListComments(ctx context.Context, viewer domain.Viewer, recipeID string, page, limit int) ([]*domain.Comment, domain.Pagination, error) {
	page, limit = domain.NormalizePage(page, limit)

	r, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	if !viewer.CanSee(r.UserID.String(), r.Status) {
		return nil, domain.Pagination{}, domain.ErrRecipeNotFound
	}

	roots, count, err := s.commentRepository.GetComments(ctx, recipeID, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	var replies []*entities.Comment
	if len(roots) > 0 {
		replies, err = s.commentRepository.GetReplies(ctx, recipeID)
		if err != nil {
			return nil, domain.Pagination{}, err
		}
	}

	return buildThreads(roots, replies), domain.NewPagination(page, limit, count), nil
}

func (s *commentService) UpdateComment(ctx context.Context, actor domain.Actor, commentID string, req domain.UpdateCommentRequest) (*domain.Comment, error) {
	content, err := normalizeContent(req.Content)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID.String() != actor.ID {
		return nil, domain.ErrUnauthorizedComment
	}

	if comment.Content == content {
		return toComment(comment), nil
	}
	comment.Content = content
	comment.IsEdited = true

	if err := s.commentRepository.UpdateComment(ctx, comment); err != nil {
		return nil, err
	}
	return toComment(comment), nil
}

// DeleteComment lets authors remove their own comments and admins remove
// any. Removals by an admin of someone else's comment are audited.
func (s *commentService) DeleteComment(ctx context.Context, actor domain.Actor, commentID string) error {
	comment, err := s.commentRepository.GetCommentByID(ctx, commentID)
	if err != nil {
		return err
	}

	own := comment.UserID.String() == actor.ID
	if !own && !actor.IsAdmin() {
		return domain.ErrUnauthorizedComment
	}

	if err := s.commentRepository.DeleteComment(ctx, comment); err != nil {
		return err
	}

	if !own {
		s.auditor.Record(ctx, actor, domain.AuditCommentDelete, domain.AuditTargetComment, comment.ID.String(), map[string]any{
			"recipe_id": comment.RecipeID.String(),
			"author_id": comment.UserID.String(),
			"content":   truncate(comment.Content, 200),
		})
	}
	return nil
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
