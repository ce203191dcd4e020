package middleware

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/entities"
	"Recipe-Platform/internal/api/presenters"
	"Recipe-Platform/internal/metrics"
	"Recipe-Platform/pkg/jwt"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		OptionalAuth(jwtService jwt.JWTService) fiber.Handler
		Authorize(resource string, action string) fiber.Handler
		RateLimiter(maxRequests int, window time.Duration) fiber.Handler
		Metrics() fiber.Handler
	}

	// SessionValidator resolves a token's session to its user, purging
	// expired sessions on the way.
	SessionValidator interface {
		ValidateSession(ctx context.Context, jti string) (*entities.User, error)
	}

	Config struct {
		Sessions       SessionValidator
		Enforcer       *Enforcer
		LimiterStorage fiber.Storage
		AllowOrigins   string
	}

	middleware struct {
		sessions       SessionValidator
		enforcer       *Enforcer
		limiterStorage fiber.Storage
		allowOrigins   string
	}
)

func NewMiddleware(cfg Config) Middleware {
	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	return &middleware{
		sessions:       cfg.Sessions,
		enforcer:       cfg.Enforcer,
		limiterStorage: cfg.LimiterStorage,
		allowOrigins:   origins,
	}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  m.allowOrigins,
		AllowMethods:  "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After, X-Request-ID",
	})
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, err)
		}
		if err := m.authenticate(c, jwtService, token); err != nil {
			return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedTokenInvalid, err)
		}
		return c.Next()
	}
}

// OptionalAuth lets anonymous requests through. A token that is present but
// invalid is still rejected.
func (m *middleware) OptionalAuth(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		token, err := bearerToken(c)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, err)
		}
		if err := m.authenticate(c, jwtService, token); err != nil {
			return presenters.ErrorResponse(c, presenters.StatusFromError(err), domain.MessageFailedTokenInvalid, err)
		}
		return c.Next()
	}
}

func (m *middleware) authenticate(c *fiber.Ctx, jwtService jwt.JWTService, token string) error {
	userID, _, jti, err := jwtService.GetUserIDByToken(token)
	if err != nil {
		return err
	}

	user, err := m.sessions.ValidateSession(c.UserContext(), jti)
	if err != nil {
		return err
	}
	if user.ID.String() != userID {
		return domain.ErrTokenInvalid
	}
	if user.BanActive(time.Now()) {
		return domain.ErrUserBanned
	}

	// The stored role wins over the token claim so role changes apply at once.
	c.Locals("user_id", userID)
	c.Locals("role", user.Role)
	c.Locals("jti", jti)
	return nil
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", domain.ErrTokenNotFound
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", domain.ErrTokenInvalid
	}
	return strings.TrimSpace(token), nil
}

func (m *middleware) Authorize(resource string, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok || role == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		allowed, err := m.enforcer.Enforce(role, resource, action)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}
		if !allowed {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MesaageUserNotAllowed, domain.ErrUserNotAllowed)
		}
		return c.Next()
	}
}

// RateLimiter keys on the authenticated user when known, otherwise on the
// client IP.
func (m *middleware) RateLimiter(maxRequests int, window time.Duration) fiber.Handler {
	// Limiters share one storage, so keys carry the limit they belong to.
	prefix := fmt.Sprintf("rl:%d:%d:", maxRequests, window.Milliseconds())
	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		Storage:    m.limiterStorage,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
				return prefix + "u:" + userID
			}
			return prefix + "ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			c.Set("X-RateLimit-Limit", strconv.Itoa(maxRequests))
			c.Set("X-RateLimit-Remaining", "0")
			c.Set("X-RateLimit-Reset", c.GetRespHeader(fiber.HeaderRetryAfter))
			return presenters.ErrorResponse(c, fiber.StatusTooManyRequests, domain.MessageFailedRateLimited, domain.ErrRateLimited)
		},
	})
}

func (m *middleware) Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.RequestStarted()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = presenters.StatusFromError(err)
		}
		metrics.RequestFinished(c.Method(), c.Route().Path, status, time.Since(start))
		return err
	}
}
