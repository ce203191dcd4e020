package handlers

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/internal/api/presenters"
	"Recipe-Platform/pkg/comment"
	"Recipe-Platform/pkg/rating"
	"Recipe-Platform/pkg/saved"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CommunityHandler interface {
		CreateComment(c *fiber.Ctx) error
		ListComments(c *fiber.Ctx) error
		UpdateComment(c *fiber.Ctx) error
		DeleteComment(c *fiber.Ctx) error
		RateRecipe(c *fiber.Ctx) error
		GetMyRating(c *fiber.Ctx) error
		DeleteRating(c *fiber.Ctx) error
		GetRatingSummary(c *fiber.Ctx) error
		SaveRecipe(c *fiber.Ctx) error
		UnsaveRecipe(c *fiber.Ctx) error
		ListSavedRecipes(c *fiber.Ctx) error
	}

	communityHandler struct {
		commentService comment.CommentService
		ratingService  rating.RatingService
		savedService   saved.SavedService
		validator      *validator.Validate
	}
)

func NewCommunityHandler(
	commentService comment.CommentService,
	ratingService rating.RatingService,
	savedService saved.SavedService,
	validator *validator.Validate,
) CommunityHandler {
	return &communityHandler{
		commentService: commentService,
		ratingService:  ratingService,
		savedService:   savedService,
		validator:      validator,
	}
}

func (h *communityHandler) CreateComment(c *fiber.Ctx) error {
	req := new(domain.CreateCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateComment, err)
	}

	res, err := h.commentService.CreateComment(c.Context(), currentActor(c), c.Params("id"), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedCreateComment, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateComment)
}

func (h *communityHandler) ListComments(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	comments, pagination, err := h.commentService.ListComments(c.Context(), currentViewer(c), c.Params("id"), page, limit)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetComments, err)
	}
	return presenters.SuccessResponse(c, paginated(comments, pagination), fiber.StatusOK, domain.MessageSuccessGetComments)
}

func (h *communityHandler) UpdateComment(c *fiber.Ctx) error {
	req := new(domain.UpdateCommentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateComment, err)
	}

	res, err := h.commentService.UpdateComment(c.Context(), currentActor(c), c.Params("id"), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedUpdateComment, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateComment)
}

func (h *communityHandler) DeleteComment(c *fiber.Ctx) error {
	if err := h.commentService.DeleteComment(c.Context(), currentActor(c), c.Params("id")); err != nil {
		return presenters.Failed(c, domain.MessageFailedDeleteComment, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteComment)
}

// RateRecipe leaves range checking to the service so out-of-range values
// get the rating-specific error.
func (h *communityHandler) RateRecipe(c *fiber.Ctx) error {
	req := new(domain.RateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.ratingService.RateRecipe(c.Context(), currentActor(c), c.Params("id"), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedRateRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRateRecipe)
}

func (h *communityHandler) GetMyRating(c *fiber.Ctx) error {
	res, err := h.ratingService.GetMyRating(c.Context(), currentActor(c), c.Params("id"))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetRating, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRating)
}

func (h *communityHandler) DeleteRating(c *fiber.Ctx) error {
	if err := h.ratingService.DeleteRating(c.Context(), currentActor(c), c.Params("id")); err != nil {
		return presenters.Failed(c, domain.MessageFailedDeleteRating, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteRating)
}

func (h *communityHandler) GetRatingSummary(c *fiber.Ctx) error {
	res, err := h.ratingService.GetRatingSummary(c.Context(), currentViewer(c), c.Params("id"))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetRatingSummary, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRatingSummary)
}

func (h *communityHandler) SaveRecipe(c *fiber.Ctx) error {
	if err := h.savedService.SaveRecipe(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return presenters.Failed(c, domain.MessageFailedSaveRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessSaveRecipe)
}

func (h *communityHandler) UnsaveRecipe(c *fiber.Ctx) error {
	if err := h.savedService.UnsaveRecipe(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return presenters.Failed(c, domain.MessageFailedUnsaveRecipe, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessUnsaveRecipe)
}

func (h *communityHandler) ListSavedRecipes(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	recipes, pagination, err := h.savedService.ListSavedRecipes(c.Context(), currentUserID(c), page, limit)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetSavedRecipes, err)
	}
	return presenters.SuccessResponse(c, paginated(recipes, pagination), fiber.StatusOK, domain.MessageSuccessGetSavedRecipes)
}
