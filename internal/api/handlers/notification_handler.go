package handlers

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/internal/api/presenters"
	"Recipe-Platform/pkg/notification"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	NotificationHandler interface {
		ListNotifications(c *fiber.Ctx) error
		UnreadCount(c *fiber.Ctx) error
		MarkRead(c *fiber.Ctx) error
		MarkAllRead(c *fiber.Ctx) error
		DeleteNotification(c *fiber.Ctx) error
		GetPreferences(c *fiber.Ctx) error
		UpdatePreferences(c *fiber.Ctx) error
	}

	notificationHandler struct {
		notificationService notification.NotificationService
		validator           *validator.Validate
	}
)

func NewNotificationHandler(notificationService notification.NotificationService, validator *validator.Validate) NotificationHandler {
	return &notificationHandler{
		notificationService: notificationService,
		validator:           validator,
	}
}

func (h *notificationHandler) ListNotifications(c *fiber.Ctx) error {
	page, limit := pageParams(c)
	unreadOnly := c.QueryBool("unread", false)

	items, pagination, err := h.notificationService.List(c.Context(), currentUserID(c), unreadOnly, page, limit)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetNotifications, err)
	}
	return presenters.SuccessResponse(c, paginated(items, pagination), fiber.StatusOK, domain.MessageSuccessGetNotifications)
}

func (h *notificationHandler) UnreadCount(c *fiber.Ctx) error {
	count, err := h.notificationService.UnreadCount(c.Context(), currentUserID(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetUnreadCount, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"unread": count}, fiber.StatusOK, domain.MessageSuccessGetUnreadCount)
}

func (h *notificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.notificationService.MarkRead(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return presenters.Failed(c, domain.MessageFailedReadNotification, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessReadNotification)
}

func (h *notificationHandler) MarkAllRead(c *fiber.Ctx) error {
	updated, err := h.notificationService.MarkAllRead(c.Context(), currentUserID(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedReadAllNotification, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"updated": updated}, fiber.StatusOK, domain.MessageSuccessReadAllNotification)
}

func (h *notificationHandler) DeleteNotification(c *fiber.Ctx) error {
	if err := h.notificationService.Delete(c.Context(), currentUserID(c), c.Params("id")); err != nil {
		return presenters.Failed(c, domain.MessageFailedDeleteNotification, err)
	}
	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteNotification)
}

func (h *notificationHandler) GetPreferences(c *fiber.Ctx) error {
	res, err := h.notificationService.GetPreferences(c.Context(), currentUserID(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetPreferences, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetPreferences)
}

func (h *notificationHandler) UpdatePreferences(c *fiber.Ctx) error {
	req := new(domain.UpdatePreferenceRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdatePreferences, err)
	}

	res, err := h.notificationService.UpdatePreferences(c.Context(), currentUserID(c), *req)
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedUpdatePreferences, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdatePreferences)
}
