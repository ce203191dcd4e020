package recipe

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/metrics"
	"Recipe-Platform/internal/utils/logging"
	"Recipe-Platform/internal/utils/storage"
	"Recipe-Platform/pkg/audit"
	"Recipe-Platform/pkg/notification"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		SubmitRecipe(ctx context.Context, actor domain.Actor, req domain.RecipeRequest) (domain.RecipeDetail, error)
		UpdateRecipe(ctx context.Context, actor domain.Actor, recipeID string, req domain.UpdateRecipeRequest) (domain.RecipeDetail, error)
		DeleteRecipe(ctx context.Context, actor domain.Actor, recipeID string) error
		UploadRecipeImage(ctx context.Context, actor domain.Actor, recipeID string, file *multipart.FileHeader) (domain.RecipeDetail, error)
		PresignImageUpload(ctx context.Context, actor domain.Actor, req domain.PresignUploadRequest) (domain.PresignUploadResponse, error)
		GetRecipeDetail(ctx context.Context, recipeID string, viewer domain.Viewer) (domain.RecipeDetail, error)
		ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, domain.Pagination, error)
		ListMyRecipes(ctx context.Context, authorID string, status string, page, limit int) ([]domain.Recipe, domain.Pagination, error)
		PurgeOldViews(ctx context.Context, olderThan time.Duration) (int64, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		s3               storage.AwsS3
		notifier         notification.Notifier
		auditor          audit.Recorder
		now              func() time.Time
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	s3 storage.AwsS3,
	notifier notification.Notifier,
	auditor audit.Recorder,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		s3:               s3,
		notifier:         notifier,
		auditor:          auditor,
		now:              time.Now,
	}
}

func (s *recipeService) SubmitRecipe(ctx context.Context, actor domain.Actor, req domain.RecipeRequest) (domain.RecipeDetail, error) {
	if actor.Role != domain.RoleChef && actor.Role != domain.RoleAdmin {
		return domain.RecipeDetail{}, domain.ErrChefOnly
	}
	authorID, err := uuid.Parse(actor.ID)
	if err != nil {
		return domain.RecipeDetail{}, domain.ErrParseUUID
	}

	recipe := &entities.Recipe{
		UserID:          authorID,
		Title:           strings.TrimSpace(req.Title),
		Description:     strings.TrimSpace(req.Description),
		ImageURL:        req.ImageURL,
		PrepTimeMinutes: req.PrepTimeMinutes,
		CookTimeMinutes: req.CookTimeMinutes,
		Servings:        req.Servings,
		DifficultyLevel: req.DifficultyLevel,
		CuisineType:     strings.TrimSpace(req.CuisineType),
		Category:        strings.TrimSpace(req.Category),
		Tags:            joinTags(req.Tags),
		Ingredients:     encodeList(req.Ingredients),
		Instructions:    encodeList(req.Instructions),
		Status:          domain.RecipeStatusPending,
		SubmittedAt:     s.now(),
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		return domain.RecipeDetail{}, err
	}
	metrics.RecordSubmission("new")

	s.notifier.NotifyAdmins(ctx, domain.Notice{
		Type:    domain.NotificationRecipeSubmitted,
		Title:   "New recipe awaiting review",
		Message: fmt.Sprintf("%q was submitted for review.", recipe.Title),
		Link:    "/admin/recipes/" + recipe.ID.String(),
	})

	return ToRecipeDetail(recipe), nil
}

// loadEditable returns the recipe when actor may change it. Authors cannot
// change an approved recipe; admins can change anything.
func (s *recipeService) loadEditable(ctx context.Context, actor domain.Actor, recipeID string) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	if actor.IsAdmin() {
		return recipe, nil
	}
	if recipe.UserID.String() != actor.ID {
		return nil, domain.ErrUnauthorizedRecipeAccess
	}
	if recipe.Status == domain.RecipeStatusApproved {
		return nil, domain.ErrRecipeImmutable
	}
	return recipe, nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, actor domain.Actor, recipeID string, req domain.UpdateRecipeRequest) (domain.RecipeDetail, error) {
	recipe, err := s.loadEditable(ctx, actor, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	fromStatus := recipe.Status
	applyUpdate(recipe, req)

	resubmitted := false
	if !actor.IsAdmin() && recipe.Status == domain.RecipeStatusRejected {
		recipe.Status = domain.RecipeStatusPending
		recipe.RejectionReason = ""
		recipe.ReviewedBy = nil
		recipe.ReviewedAt = nil
		recipe.SubmittedAt = s.now()
		resubmitted = true
	}

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, fromStatus); err != nil {
		return domain.RecipeDetail{}, err
	}

	if resubmitted {
		metrics.RecordSubmission("resubmit")
		s.notifier.NotifyAdmins(ctx, domain.Notice{
			Type:    domain.NotificationRecipeResubmitted,
			Title:   "Recipe resubmitted",
			Message: fmt.Sprintf("%q was revised and is awaiting review again.", recipe.Title),
			Link:    "/admin/recipes/" + recipe.ID.String(),
		})
	}
	if actor.IsAdmin() && recipe.UserID.String() != actor.ID {
		s.auditor.Record(ctx, actor, domain.AuditRecipeUpdate, domain.AuditTargetRecipe, recipe.ID.String(), map[string]any{
			"status": recipe.Status,
		})
	}

	return ToRecipeDetail(recipe), nil
}

func applyUpdate(recipe *entities.Recipe, req domain.UpdateRecipeRequest) {
	if req.Title != nil {
		recipe.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		recipe.Description = strings.TrimSpace(*req.Description)
	}
	if req.Ingredients != nil {
		recipe.Ingredients = encodeList(req.Ingredients)
	}
	if req.Instructions != nil {
		recipe.Instructions = encodeList(req.Instructions)
	}
	if req.PrepTimeMinutes != nil {
		recipe.PrepTimeMinutes = *req.PrepTimeMinutes
	}
	if req.CookTimeMinutes != nil {
		recipe.CookTimeMinutes = *req.CookTimeMinutes
	}
	if req.Servings != nil {
		recipe.Servings = *req.Servings
	}
	if req.DifficultyLevel != nil {
		recipe.DifficultyLevel = *req.DifficultyLevel
	}
	if req.CuisineType != nil {
		recipe.CuisineType = strings.TrimSpace(*req.CuisineType)
	}
	if req.Category != nil {
		recipe.Category = strings.TrimSpace(*req.Category)
	}
	if req.Tags != nil {
		recipe.Tags = joinTags(req.Tags)
	}
	if req.ImageURL != nil {
		recipe.ImageURL = *req.ImageURL
	}
}

func (s *recipeService) DeleteRecipe(ctx context.Context, actor domain.Actor, recipeID string) error {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && recipe.UserID.String() != actor.ID {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if err := s.recipeRepository.DeleteRecipe(ctx, recipe.ID); err != nil {
		return err
	}

	s.removeImage(ctx, recipe.ImageURL)

	if actor.IsAdmin() && recipe.UserID.String() != actor.ID {
		s.auditor.Record(ctx, actor, domain.AuditRecipeDelete, domain.AuditTargetRecipe, recipe.ID.String(), map[string]any{
			"title":  recipe.Title,
			"author": recipe.UserID.String(),
		})
	}
	return nil
}

func (s *recipeService) removeImage(ctx context.Context, link string) {
	if s.s3 == nil || link == "" {
		return
	}
	key := s.s3.GetObjectKeyFromLink(link)
	if key == "" {
		return
	}
	if err := s.s3.DeleteFile(ctx, key); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("failed to delete recipe image")
	}
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, actor domain.Actor, recipeID string, file *multipart.FileHeader) (domain.RecipeDetail, error) {
	if s.s3 == nil {
		return domain.RecipeDetail{}, domain.ErrStorageNotConfigured
	}
	recipe, err := s.loadEditable(ctx, actor, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	key, err := s.s3.UploadFile(ctx, file, imageFolder, storage.AllowImage...)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	oldImage := recipe.ImageURL
	recipe.ImageURL = s.s3.GetPublicLinkKey(key)
	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, recipe.Status); err != nil {
		s.removeImage(ctx, recipe.ImageURL)
		return domain.RecipeDetail{}, err
	}
	s.removeImage(ctx, oldImage)

	return ToRecipeDetail(recipe), nil
}

func (s *recipeService) PresignImageUpload(ctx context.Context, actor domain.Actor, req domain.PresignUploadRequest) (domain.PresignUploadResponse, error) {
	if s.s3 == nil {
		return domain.PresignUploadResponse{}, domain.ErrStorageNotConfigured
	}
	if actor.Role != domain.RoleChef && actor.Role != domain.RoleAdmin {
		return domain.PresignUploadResponse{}, domain.ErrChefOnly
	}

	upload, err := s.s3.PresignUpload(ctx, imageFolder, req.ContentType)
	if err != nil {
		return domain.PresignUploadResponse{}, err
	}
	return domain.PresignUploadResponse{
		ObjectKey: upload.Key,
		UploadURL: upload.URL,
		PublicURL: s.s3.GetPublicLinkKey(upload.Key),
		ExpiresAt: upload.ExpiresAt,
	}, nil
}

// GetRecipeDetail hides unapproved recipes from everyone but their author and
// admins, and counts at most one view per viewer per day.
func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewer domain.Viewer) (domain.RecipeDetail, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	if !viewer.CanSee(recipe.UserID.String(), recipe.Status) {
		return domain.RecipeDetail{}, domain.ErrRecipeNotFound
	}

	if recipe.Status == domain.RecipeStatusApproved {
		if key := viewerKey(viewer); key != "" {
			counted, err := s.recipeRepository.RecordView(ctx, recipe.ID, key, viewDay(s.now()))
			if err != nil {
				logging.Warn().Err(err).Str("recipe_id", recipeID).Msg("failed to record view")
			} else if counted {
				recipe.ViewCount++
			}
		}
	}

	detail := ToRecipeDetail(recipe)
	if viewer.UserID != "" {
		saved, rating, err := s.recipeRepository.GetViewerState(ctx, recipeID, viewer.UserID)
		if err != nil {
			return domain.RecipeDetail{}, err
		}
		detail.IsSaved = saved
		detail.MyRating = rating
	}
	return detail, nil
}

func viewerKey(v domain.Viewer) string {
	switch {
	case v.UserID != "":
		return "u:" + v.UserID
	case v.IPAddress != "":
		return "ip:" + v.IPAddress
	default:
		return ""
	}
}

func viewDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *recipeService) ListRecipes(ctx context.Context, filter domain.RecipeFilter) ([]domain.Recipe, domain.Pagination, error) {
	page, limit := domain.NormalizePage(filter.Page, filter.Limit)

	rows, count, err := s.recipeRepository.GetRecipes(ctx, filter, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return ToRecipes(rows), domain.NewPagination(page, limit, count), nil
}

func (s *recipeService) ListMyRecipes(ctx context.Context, authorID string, status string, page, limit int) ([]domain.Recipe, domain.Pagination, error) {
	switch status {
	case "", domain.RecipeStatusPending, domain.RecipeStatusApproved, domain.RecipeStatusRejected:
	default:
		return nil, domain.Pagination{}, domain.ErrInvalidRecipeStatus
	}
	page, limit = domain.NormalizePage(page, limit)

	rows, count, err := s.recipeRepository.GetRecipesByAuthor(ctx, authorID, status, page, limit)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return ToRecipes(rows), domain.NewPagination(page, limit, count), nil
}

func (s *recipeService) PurgeOldViews(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.recipeRepository.DeleteViewsBefore(ctx, viewDay(s.now().Add(-olderThan)))
}
