package handlers

import (
	"Recipe-Platform/domain"

	"github.com/gofiber/fiber/v2"
)

func currentUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

func currentActor(c *fiber.Ctx) domain.Actor {
	role, _ := c.Locals("role").(string)
	return domain.Actor{
		ID:        currentUserID(c),
		Role:      role,
		IPAddress: c.IP(),
	}
}

// currentViewer is the anonymous viewer when no token was presented.
func currentViewer(c *fiber.Ctx) domain.Viewer {
	actor := currentActor(c)
	return domain.Viewer{
		UserID:    actor.ID,
		Role:      actor.Role,
		IPAddress: actor.IPAddress,
	}
}

func clientInfo(c *fiber.Ctx) domain.ClientInfo {
	return domain.ClientInfo{
		UserAgent: c.Get(fiber.HeaderUserAgent),
		IPAddress: c.IP(),
	}
}

func pageParams(c *fiber.Ctx) (int, int) {
	return c.QueryInt("page", domain.DefaultPage), c.QueryInt("limit", domain.DefaultLimit)
}

func paginated(items any, pagination domain.Pagination) fiber.Map {
	return fiber.Map{
		"items":      items,
		"pagination": pagination,
	}
}
