package handlers

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/internal/api/presenters"
	"Recipe-Platform/pkg/admin"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	AdminHandler interface {
		ListPendingRecipes(c *fiber.Ctx) error
		ApproveRecipe(c *fiber.Ctx) error
		RejectRecipe(c *fiber.Ctx) error
		ListUsers(c *fiber.Ctx) error
		BanUser(c *fiber.Ctx) error
		UnbanUser(c *fiber.Ctx) error
		ChangeUserRole(c *fiber.Ctx) error
		UnlockUser(c *fiber.Ctx) error
		DeleteComment(c *fiber.Ctx) error
		ListAuditLogs(c *fiber.Ctx) error
	}

	adminHandler struct {
		adminService admin.AdminService
		validator    *validator.Validate
	}
)

func NewAdminHandler(adminService admin.AdminService, validator *validator.Validate) AdminHandler {
	return &adminHandler{
		adminService: adminService,
		validator:    validator,
	}
}

func (h *adminHandler) ListPendingRecipes(c *fiber.Ctx) error {
	page, limit := pageParams(c)

	recipes, pagination, err := h.adminService.ListPendingRecipes(c.Context(), page, limit)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetPendingRecipes, err)
	}
	return presenters.SuccessResponse(c, paginated(recipes, pagination), fiber.StatusOK, domain.MessageSuccessGetPendingRecipes)
}

func (h *adminHandler) ApproveRecipe(c *fiber.Ctx) error {
	req := new(domain.ApproveRecipeRequest)
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedApproveRecipe, err)
	}

	res, err := h.adminService.ApproveRecipe(c.Context(), currentActor(c), c.Params("id"), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedApproveRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessApproveRecipe)
}

func (h *adminHandler) RejectRecipe(c *fiber.Ctx) error {
	req := new(domain.RejectRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRejectRecipe, err)
	}

	res, err := h.adminService.RejectRecipe(c.Context(), currentActor(c), c.Params("id"), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedRejectRecipe, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRejectRecipe)
}

func (h *adminHandler) ListUsers(c *fiber.Ctx) error {
	filter := new(domain.UserFilter)
	if err := c.QueryParser(filter); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUsers, err)
	}
	if err := h.validator.Struct(filter); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUsers, err)
	}

	users, pagination, err := h.adminService.ListUsers(c.Context(), *filter)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetUsers, err)
	}
	return presenters.SuccessResponse(c, paginated(users, pagination), fiber.StatusOK, domain.MessageSuccessGetUsers)
}

func (h *adminHandler) BanUser(c *fiber.Ctx) error {
	req := new(domain.BanUserRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBanUser, err)
	}

	res, err := h.adminService.BanUser(c.Context(), currentActor(c), c.Params("id"), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedBanUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessBanUser)
}

func (h *adminHandler) UnbanUser(c *fiber.Ctx) error {
	res, err := h.adminService.UnbanUser(c.Context(), currentActor(c), c.Params("id"))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedUnbanUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUnbanUser)
}

func (h *adminHandler) ChangeUserRole(c *fiber.Ctx) error {
	req := new(domain.ChangeRoleRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedChangeRole, err)
	}

	res, err := h.adminService.ChangeUserRole(c.Context(), currentActor(c), c.Params("id"), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedChangeRole, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessChangeRole)
}

func (h *adminHandler) UnlockUser(c *fiber.Ctx) error {
	res, err := h.adminService.UnlockUser(c.Context(), currentActor(c), c.Params("id"))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedUnlockUser, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUnlockUser)
}

func (h *adminHandler) DeleteComment(c *fiber.Ctx) error {
	if err := h.adminService.DeleteComment(c.Context(), currentActor(c), c.Params("id")); err != nil {
		return presenters.Failed(c, domain.MessageFailedDeleteComment, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteComment)
}

func (h *adminHandler) ListAuditLogs(c *fiber.Ctx) error {
	filter := new(domain.AuditLogFilter)
	if err := c.QueryParser(filter); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAuditLogs, err)
	}
	if err := h.validator.Struct(filter); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetAuditLogs, err)
	}

	logs, pagination, err := h.adminService.ListAuditLogs(c.Context(), *filter)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetAuditLogs, err)
	}
	return presenters.SuccessResponse(c, paginated(logs, pagination), fiber.StatusOK, domain.MessageSuccessGetAuditLogs)
}
