package handlers

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/internal/api/presenters"
	"Recipe-Platform/pkg/analytics"

	"github.com/gofiber/fiber/v2"
)

type (
	AnalyticsHandler interface {
		PlatformOverview(c *fiber.Ctx) error
		Trends(c *fiber.Ctx) error
		TopRecipes(c *fiber.Ctx) error
		MyStats(c *fiber.Ctx) error
		ChefStats(c *fiber.Ctx) error
		ModerationStats(c *fiber.Ctx) error
	}

	analyticsHandler struct {
		analyticsService analytics.AnalyticsService
	}
)

func NewAnalyticsHandler(analyticsService analytics.AnalyticsService) AnalyticsHandler {
	return &analyticsHandler{analyticsService: analyticsService}
}

func (h *analyticsHandler) PlatformOverview(c *fiber.Ctx) error {
	res, err := h.analyticsService.PlatformOverview(c.Context())
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetOverview, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetOverview)
}

func (h *analyticsHandler) Trends(c *fiber.Ctx) error {
	res, err := h.analyticsService.Trends(c.Context(), c.QueryInt("days", 0))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetTrends, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTrends)
}

func (h *analyticsHandler) TopRecipes(c *fiber.Ctx) error {
	res, err := h.analyticsService.TopRecipes(c.Context(), c.Query("metric"), c.QueryInt("limit", 0))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetTopRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetTopRecipes)
}

func (h *analyticsHandler) MyStats(c *fiber.Ctx) error {
	res, err := h.analyticsService.ChefStats(c.Context(), currentUserID(c))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetChefStats, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetChefStats)
}

func (h *analyticsHandler) ChefStats(c *fiber.Ctx) error {
	res, err := h.analyticsService.ChefStats(c.Context(), c.Params("id"))
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetChefStats, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetChefStats)
}

func (h *analyticsHandler) ModerationStats(c *fiber.Ctx) error {
	res, err := h.analyticsService.ModerationStats(c.Context())
	if err != nil {
		return presenters.Failed(c, domain.MessageFailedGetModerationStats, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetModerationStats)
}
