// Package server contains the HTTP handlers for the application's API
// endpoints.
package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"uplift/internal/cache"
	"uplift/internal/config"
	"uplift/internal/database"
	"uplift/internal/middleware"
	"uplift/internal/models"
	"uplift/internal/repository"
	"uplift/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo       repository.UserRepository
	campaignRepo   repository.CampaignRepository
	postRepo       repository.PostRepository
	submissionRepo repository.SubmissionRepository

	feedService       *service.FeedService
	campaignService   *service.CampaignService
	decisionService   *service.DecisionService
	moderationService *service.ModerationService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("uplift-api"),
		userRepo:       repository.NewUserRepository(db),
		campaignRepo:   repository.NewCampaignRepository(db),
		postRepo:       repository.NewPostRepository(db),
		submissionRepo: repository.NewSubmissionRepository(db),
	}

	server.feedService = service.NewFeedService(server.postRepo, cfg.FeedWindow)
	server.moderationService = service.NewModerationService(server.userRepo)
	server.campaignService = service.NewCampaignService(server.campaignRepo, server.userRepo, server.moderationService)
	server.decisionService = service.NewDecisionService(server.submissionRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)

	// Public feed routes. OptionalAuth lets admins see hidden content.
	api.Get("/feed", s.OptionalAuth(), s.GetFeed)

	posts := api.Group("/posts")
	posts.Get("/:id", s.OptionalAuth(), s.GetPost)
	posts.Delete("/:id", s.AuthRequired(), s.DeletePost)

	// Public campaign routes. Specific routes before generic /:id.
	campaigns := api.Group("/campaigns")
	campaigns.Get("/", s.GetCampaigns)
	campaigns.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchCampaigns)
	campaigns.Get("/:id/updates", s.GetCampaignUpdates)
	campaigns.Get("/:id/submissions", s.AuthRequired(), s.GetCampaignSubmissions)
	campaigns.Get("/:id", s.OptionalAuth(), s.GetCampaign)

	// User-scoped reads
	users := api.Group("/users")
	users.Get("/:id/feed", s.OptionalAuth(), s.GetUserFeed)
	users.Get("/:id/campaigns", s.OptionalAuth(), s.GetUserCampaigns)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protectedCampaigns := protected.Group("/campaigns")
	protectedCampaigns.Post("/", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "create_campaign"), s.CreateCampaign)
	protectedCampaigns.Post("/:id/updates", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_update"), s.CreateCampaignUpdate)
	protectedCampaigns.Put("/:id", s.UpdateCampaign)
	protectedCampaigns.Delete("/:id", s.DeleteCampaign)

	submissions := protected.Group("/submissions")
	submissions.Post("/", middleware.RateLimit(
		s.redis, 10, time.Minute, "create_submission"), s.CreateSubmission)
	// Bulk decide before generic /:id.
	submissions.Put("/", s.DecideSubmissions)
	submissions.Get("/:id", s.GetSubmission)
	submissions.Put("/:id", s.DecideSubmission)
}

// Shutdown releases the server's long-lived resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	// Redis is a soft dependency: the API degrades to uncached reads.
	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := s.userIDFromToken(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		storeUserID(c, userID)
		return c.Next()
	}
}

// OptionalAuth resolves the user from a bearer token when one is present
// but lets anonymous requests through. Invalid tokens are still rejected
// so a caller never silently degrades to anonymous.
func (s *Server) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return c.Next()
		}
		userID, err := s.userIDFromToken(c)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		storeUserID(c, userID)
		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !user.IsAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// userIDFromToken parses the Bearer token and returns the subject user id.
func (s *Server) userIDFromToken(c *fiber.Ctx) (uint, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, models.NewUnauthorizedError("Authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, models.NewUnauthorizedError("Invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, models.NewUnauthorizedError("Invalid token structure - missing subject")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}
	return uint(userID), nil
}

// storeUserID stores the authenticated user id in both Fiber locals and
// the user context so the structured logger picks it up.
func storeUserID(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}
