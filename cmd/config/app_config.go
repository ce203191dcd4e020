package config

import (
	"Recipe-Platform/domain"
	"Recipe-Platform/internal/api/handlers"
	"Recipe-Platform/internal/api/presenters"
	"Recipe-Platform/internal/api/routes"
	"Recipe-Platform/internal/jobs"
	"Recipe-Platform/internal/middleware"
	"Recipe-Platform/internal/utils"
	"Recipe-Platform/internal/utils/cache"
	"Recipe-Platform/internal/utils/logging"
	"Recipe-Platform/internal/utils/mailing"
	"Recipe-Platform/internal/utils/oauth"
	"Recipe-Platform/internal/utils/push"
	"Recipe-Platform/internal/utils/storage"
	"Recipe-Platform/pkg/admin"
	"Recipe-Platform/pkg/analytics"
	"Recipe-Platform/pkg/audit"
	"Recipe-Platform/pkg/comment"
	"Recipe-Platform/pkg/jwt"
	"Recipe-Platform/pkg/notification"
	"Recipe-Platform/pkg/rating"
	"Recipe-Platform/pkg/recipe"
	"Recipe-Platform/pkg/saved"
	"Recipe-Platform/pkg/user"
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server bundles the HTTP app with the background pieces that share its
// lifetime.
type Server struct {
	App       *fiber.App
	Scheduler *jobs.Scheduler
	closers   []func() error
}

func NewApp(ctx context.Context, db *gorm.DB) (*Server, error) {
	utils.InitValidator()
	validator := utils.Validate
	server := &Server{}

	app := fiber.New(fiber.Config{
		AppName:      "Recipe Platform",
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	// setting up access log
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	server.closers = append(server.closers, file.Close)
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${locals:requestid} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	// authorization and rate limiting
	enforcer, err := middleware.NewEnforcer()
	if err != nil {
		return nil, err
	}
	var limiterStorage fiber.Storage
	redisStorage, err := cache.NewRedisStorage(ctx, utils.GetConfig("REDIS_ADDR"), utils.GetConfig("REDIS_PASSWORD"))
	if err != nil {
		logging.Warn().Err(err).Msg("redis unavailable, rate limiter falls back to memory")
	} else if redisStorage != nil {
		limiterStorage = redisStorage
		server.closers = append(server.closers, redisStorage.Close)
	}

	// utils
	s3, err := newStorage(ctx)
	if err != nil {
		return nil, err
	}
	mailer := newMailer()
	pusher := newPusher()
	oauthProvider := oauth.NewGoogleProvider()
	appURL := utils.GetConfig("APP_URL")

	// Repository
	userRepository := user.NewUserRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db)
	savedRepository := saved.NewSavedRepository(db)
	commentRepository := comment.NewCommentRepository(db)
	ratingRepository := rating.NewRatingRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)
	auditRepository := audit.NewAuditRepository(db)
	analyticsRepository := analytics.NewAnalyticsRepository(db)

	// Service
	jwtService := jwt.NewJWTService(
		utils.GetConfig("JWT_SECRET"),
		utils.GetConfigDuration("JWT_TTL_MINUTES", time.Minute, jwt.DefaultTokenTTL),
	)
	auditService := audit.NewAuditService(auditRepository)
	notificationService := notification.NewNotificationService(notificationRepository, mailer, pusher, appURL)
	userService := user.NewUserService(userRepository, jwtService, s3, mailer, oauthProvider, appURL)
	recipeService := recipe.NewRecipeService(recipeRepository, s3, notificationService, auditService)
	savedService := saved.NewSavedService(savedRepository, recipeRepository)
	commentService := comment.NewCommentService(commentRepository, recipeRepository, notificationService, auditService)
	ratingService := rating.NewRatingService(ratingRepository, recipeRepository, notificationService)
	adminService := admin.NewAdminService(recipeRepository, userRepository, commentService, auditService, notificationService)
	analyticsService := analytics.NewAnalyticsService(analyticsRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	communityHandler := handlers.NewCommunityHandler(commentService, ratingService, savedService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService, validator)
	adminHandler := handlers.NewAdminHandler(adminService, validator)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	middlewares := middleware.NewMiddleware(middleware.Config{
		Sessions:       userService,
		Enforcer:       enforcer,
		LimiterStorage: limiterStorage,
		AllowOrigins:   utils.GetConfig("CORS_ALLOW_ORIGINS"),
	})

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		RecipeHandler:       recipeHandler,
		CommunityHandler:    communityHandler,
		NotificationHandler: notificationHandler,
		AdminHandler:        adminHandler,
		AnalyticsHandler:    analyticsHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
		RateLimitMax:        utils.GetConfigInt("RATE_LIMIT_MAX", 100),
		RateLimitWindow:     utils.GetConfigDuration("RATE_LIMIT_WINDOW_SECONDS", time.Second, time.Minute),
	}
	routesConfig.Setup()
	app.Use(func(c *fiber.Ctx) error {
		return presenters.ErrorResponse(c, fiber.StatusNotFound, domain.MessageRouteNotFound, nil)
	})

	// background jobs
	scheduler, err := jobs.NewScheduler(jobs.Config{
		Sessions:      userService,
		Views:         recipeService,
		Notifications: notificationService,
	})
	if err != nil {
		return nil, fmt.Errorf("error scheduling jobs: %w", err)
	}

	server.App = app
	server.Scheduler = scheduler
	return server, nil
}

// Shutdown stops the scheduler, drains in-flight requests and releases
// resources opened by NewApp.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Scheduler.Stop(ctx)
	errs := []error{s.App.ShutdownWithContext(ctx)}
	for _, closeFn := range s.closers {
		errs = append(errs, closeFn())
	}
	return errors.Join(errs...)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := presenters.StatusFromError(err)
	message := domain.MessageFailedProcessRequest
	if code == fiber.StatusNotFound {
		message = domain.MessageRouteNotFound
	}
	if code >= fiber.StatusInternalServerError {
		logging.Error().Err(err).Str("path", c.Path()).Msg("unhandled request error")
	}
	return presenters.ErrorResponse(c, code, message, err)
}

// newStorage returns a nil AwsS3 when no bucket is configured; uploads then
// fail with ErrStorageNotConfigured.
func newStorage(ctx context.Context) (storage.AwsS3, error) {
	cfg := storage.LoadS3Config()
	if cfg.Bucket == "" {
		logging.Warn().Msg("AWS_S3_BUCKET not set, image uploads disabled")
		return nil, nil
	}
	s3, err := storage.NewAwsS3(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating s3 client: %w", err)
	}
	return s3, nil
}

func newMailer() mailing.Mailer {
	cfg := mailing.LoadMailConfig()
	if cfg.SMTPHost == "" {
		logging.Warn().Msg("SMTP_HOST not set, email delivery disabled")
		return nil
	}
	return mailing.NewMailer(cfg)
}

func newPusher() push.Sender {
	cfg := push.LoadConfig()
	if cfg.URL == "" {
		return nil
	}
	return push.NewSender(cfg)
}
