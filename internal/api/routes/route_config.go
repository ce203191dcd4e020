package routes

import (
	"Recipe-Platform/internal/api/handlers"
	"Recipe-Platform/internal/metrics"
	"Recipe-Platform/internal/middleware"
	"Recipe-Platform/pkg/jwt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	RecipeHandler       handlers.RecipeHandler
	CommunityHandler    handlers.CommunityHandler
	NotificationHandler handlers.NotificationHandler
	AdminHandler        handlers.AdminHandler
	AnalyticsHandler    handlers.AnalyticsHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
	RateLimitMax        int
	RateLimitWindow     time.Duration

	apiLimiter fiber.Handler
}

func (c *Config) Setup() {
	c.apiLimiter = c.Middleware.RateLimiter(c.RateLimitMax, c.RateLimitWindow)

	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.Metrics())
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Recipes()
	c.Comments()
	c.Saved()
	c.Notifications()
	c.Admin()
	c.Analytics()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
}

// Auth endpoints share a tighter limiter keyed on client IP.
func (c *Config) Auth() {
	auth := c.App.Group("/api/v1/auth", c.Middleware.RateLimiter(c.RateLimitMax/4+1, c.RateLimitWindow))
	{
		auth.Post("/register", c.UserHandler.Register)
		auth.Post("/login", c.UserHandler.Login)
		auth.Post("/send_verify", c.UserHandler.SendVerificationEmail)
		auth.Get("/verify", c.UserHandler.VerifyEmail)
		auth.Post("/forget", c.UserHandler.ForgotPassword)
		auth.Post("/reset", c.UserHandler.ResetPassword)
		auth.Get("/google", c.UserHandler.OAuthLogin)
		auth.Get("/google/callback", c.UserHandler.OAuthCallback)
		auth.Post("/logout", c.auth(), c.UserHandler.Logout)
		auth.Post("/logout_all", c.auth(), c.UserHandler.LogoutAll)
	}
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	{
		user.Get("/me", c.auth(), c.limit(), c.UserHandler.Me)
		user.Patch("/me", c.auth(), c.limit(), c.Middleware.Authorize("profile", "write"), c.UserHandler.UpdateUser)
		user.Post("/me/avatar", c.auth(), c.limit(), c.Middleware.Authorize("profile", "write"), c.UserHandler.UploadAvatar)
		user.Post("/me/password", c.auth(), c.limit(), c.Middleware.Authorize("profile", "write"), c.UserHandler.ChangePassword)
		user.Get("/:id", c.limit(), c.UserHandler.GetPublicProfile)
	}
}

func (c *Config) Recipes() {
	recipes := c.App.Group("/api/v1/recipes")

	// Browsing works anonymously; a valid token only personalises the result.
	recipes.Get("", c.Middleware.OptionalAuth(c.JWTService), c.limit(), c.RecipeHandler.ListRecipes)
	recipes.Get("/mine", c.auth(), c.limit(), c.Middleware.Authorize("recipes", "write"), c.RecipeHandler.ListMyRecipes)
	recipes.Get("/:id", c.Middleware.OptionalAuth(c.JWTService), c.limit(), c.RecipeHandler.GetRecipeDetail)
	recipes.Get("/:id/comments", c.Middleware.OptionalAuth(c.JWTService), c.limit(), c.CommunityHandler.ListComments)
	recipes.Get("/:id/ratings", c.Middleware.OptionalAuth(c.JWTService), c.limit(), c.CommunityHandler.GetRatingSummary)

	write := c.Middleware.Authorize("recipes", "write")
	recipes.Post("", c.auth(), c.limit(), write, c.RecipeHandler.SubmitRecipe)
	recipes.Post("/uploads", c.auth(), c.limit(), write, c.RecipeHandler.PresignImageUpload)
	recipes.Patch("/:id", c.auth(), c.limit(), write, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id", c.auth(), c.limit(), write, c.RecipeHandler.DeleteRecipe)
	recipes.Post("/:id/image", c.auth(), c.limit(), write, c.RecipeHandler.UploadRecipeImage)

	comments := c.Middleware.Authorize("comments", "write")
	recipes.Post("/:id/comments", c.auth(), c.limit(), comments, c.CommunityHandler.CreateComment)

	ratings := c.Middleware.Authorize("ratings", "write")
	recipes.Put("/:id/ratings", c.auth(), c.limit(), ratings, c.CommunityHandler.RateRecipe)
	recipes.Get("/:id/ratings/me", c.auth(), c.limit(), ratings, c.CommunityHandler.GetMyRating)
	recipes.Delete("/:id/ratings/me", c.auth(), c.limit(), ratings, c.CommunityHandler.DeleteRating)

	saved := c.Middleware.Authorize("saved", "write")
	recipes.Post("/:id/save", c.auth(), c.limit(), saved, c.CommunityHandler.SaveRecipe)
	recipes.Delete("/:id/save", c.auth(), c.limit(), saved, c.CommunityHandler.UnsaveRecipe)
}

func (c *Config) Comments() {
	comments := c.App.Group("/api/v1/comments", c.auth(), c.limit(), c.Middleware.Authorize("comments", "write"))
	{
		comments.Patch("/:id", c.CommunityHandler.UpdateComment)
		comments.Delete("/:id", c.CommunityHandler.DeleteComment)
	}
}

func (c *Config) Saved() {
	saved := c.App.Group("/api/v1/saved", c.auth(), c.limit(), c.Middleware.Authorize("saved", "write"))
	saved.Get("", c.CommunityHandler.ListSavedRecipes)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.auth(), c.limit(), c.Middleware.Authorize("notifications", "write"))
	{
		notifications.Get("", c.NotificationHandler.ListNotifications)
		notifications.Get("/unread_count", c.NotificationHandler.UnreadCount)
		notifications.Post("/read_all", c.NotificationHandler.MarkAllRead)
		notifications.Get("/preferences", c.NotificationHandler.GetPreferences)
		notifications.Put("/preferences", c.NotificationHandler.UpdatePreferences)
		notifications.Post("/:id/read", c.NotificationHandler.MarkRead)
		notifications.Delete("/:id", c.NotificationHandler.DeleteNotification)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group("/api/v1/admin", c.auth(), c.limit())

	moderation := c.Middleware.Authorize("moderation", "review")
	admin.Get("/recipes/pending", moderation, c.AdminHandler.ListPendingRecipes)
	admin.Post("/recipes/:id/approve", moderation, c.AdminHandler.ApproveRecipe)
	admin.Post("/recipes/:id/reject", moderation, c.AdminHandler.RejectRecipe)
	admin.Delete("/comments/:id", c.Middleware.Authorize("moderation", "comments"), c.AdminHandler.DeleteComment)

	users := c.Middleware.Authorize("users", "manage")
	admin.Get("/users", users, c.AdminHandler.ListUsers)
	admin.Post("/users/:id/ban", users, c.AdminHandler.BanUser)
	admin.Post("/users/:id/unban", users, c.AdminHandler.UnbanUser)
	admin.Post("/users/:id/unlock", users, c.AdminHandler.UnlockUser)
	admin.Patch("/users/:id/role", users, c.AdminHandler.ChangeUserRole)

	admin.Get("/audit_logs", c.Middleware.Authorize("audit", "read"), c.AdminHandler.ListAuditLogs)
}

func (c *Config) Analytics() {
	// Registered ahead of the group so the group's auth middleware never runs for it.
	c.App.Get("/api/v1/analytics/top_recipes", c.limit(), c.AnalyticsHandler.TopRecipes)

	analytics := c.App.Group("/api/v1/analytics", c.auth(), c.limit())

	analytics.Get("/me", c.Middleware.Authorize("analytics", "read_own"), c.AnalyticsHandler.MyStats)

	platform := c.Middleware.Authorize("analytics", "read")
	analytics.Get("/overview", platform, c.AnalyticsHandler.PlatformOverview)
	analytics.Get("/trends", platform, c.AnalyticsHandler.Trends)
	analytics.Get("/chefs/:id", platform, c.AnalyticsHandler.ChefStats)
	analytics.Get("/moderation", platform, c.AnalyticsHandler.ModerationStats)
}

func (c *Config) auth() fiber.Handler {
	return c.Middleware.AuthMiddleware(c.JWTService)
}

// limit returns the shared API limiter so every route draws from one budget.
func (c *Config) limit() fiber.Handler {
	return c.apiLimiter
}
