// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"time"

	"okai/internal/cache"
	"okai/internal/config"
	"okai/internal/crawler"
	"okai/internal/database"
	"okai/internal/mailer"
	"okai/internal/middleware"
	"okai/internal/repository"
	"okai/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
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
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	copRepo        repository.CoPRepository
	newsRepo       repository.NewsRepository
	aiCaseRepo     repository.AICaseRepository
	greetingRepo   repository.GreetingRepository
	searchService  *service.SearchService
	mailer         *mailer.Mailer
	crawlerClient  *crawler.Client
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := database.EnsureAdmin(db, cfg.AdminEmail); err != nil {
		return nil, fmt.Errorf("bootstrap admin promotion failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	s := NewServerWithDeps(cfg, db, cache.GetClient())

	// Registered once per process; NewServerWithDeps leaves it nil so test
	// servers do not collide on the default Prometheus registry.
	s.promMiddleware = middleware.InitMetrics("okai-api")
	return s, nil
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	copRepo := repository.NewCoPRepository(db)
	newsRepo := repository.NewNewsRepository(db)
	aiCaseRepo := repository.NewAICaseRepository(db)
	greetingRepo := repository.NewGreetingRepository(db)

	return &Server{
		config:        cfg,
		db:            db,
		redis:         redisClient,
		userRepo:      userRepo,
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		copRepo:       copRepo,
		newsRepo:      newsRepo,
		aiCaseRepo:    aiCaseRepo,
		greetingRepo:  greetingRepo,
		searchService: service.NewSearchService(postRepo, newsRepo, aiCaseRepo),
		mailer:        mailer.New(cfg, middleware.Logger),
		crawlerClient: crawler.NewClient(cfg.CrawlerURL, middleware.Logger),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate request ID and user ID into logs
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS must run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus scraping
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)

	optional := middleware.OptionalAuth(s.config)
	protected := middleware.AuthRequired(s.config)

	// Public post routes (anonymous reads allowed)
	posts := api.Group("/posts")
	posts.Get("/", optional, s.GetPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", optional, s.GetPost)

	// Protected post routes
	posts.Post("/", protected, middleware.RateLimit(
		s.redis, 5, time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", protected, s.ToggleLike)
	posts.Post("/:id/comments", protected, middleware.RateLimit(
		s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id", protected, s.UpdatePost)
	posts.Delete("/:id", protected, s.DeletePost)

	comments := api.Group("/comments", protected)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// User routes
	users := api.Group("/users")
	users.Get("/me", protected, s.GetMyProfile)
	users.Put("/me", protected, s.UpdateMyProfile)
	users.Get("/:id/posts", optional, s.GetUserPosts)

	// CoP routes
	cops := api.Group("/cops")
	cops.Get("/", optional, s.GetCoPs)
	cops.Get("/:id", s.GetCoP)
	cops.Get("/:id/members", protected, s.GetCoPMembers)
	cops.Post("/", protected, s.CreateCoP)
	cops.Put("/:id", protected, s.UpdateCoP)
	cops.Post("/:id/join", protected, s.JoinCoP)
	cops.Post("/:id/members/:userId/approve", protected, s.ApproveCoPMember)

	// News routes
	api.Get("/news", s.GetSelectedNews)
	api.Get("/crawled-news", protected, s.AdminRequired, s.GetCrawledNews)
	api.Post("/crawled-news/save", protected, s.AdminRequired, s.SaveCrawledNews)
	api.Post("/crawled-news/publish", protected, s.AdminRequired, s.PublishCrawledNews)
	api.Delete("/selected-news", protected, s.AdminRequired, s.DeleteSelectedNews)
	api.Post("/selected-news/bulk-update", protected, s.AdminRequired, s.BulkUpdateSelectedNews)
	api.Post("/upload-news-excel", protected, s.AdminRequired, s.UploadNewsExcel)

	// AI case routes
	aiCases := api.Group("/ai-cases")
	aiCases.Get("/", s.GetAICases)
	aiCases.Get("/:id", s.GetAICase)
	aiCases.Post("/save", protected, s.AdminRequired, s.SaveAICase)
	aiCases.Delete("/:id", protected, s.AdminRequired, s.DeleteAICase)
	aiCases.Post("/upload-excel", protected, s.AdminRequired, s.UploadAICaseExcel)

	// Search
	api.Get("/search", middleware.RateLimit(
		s.redis, 30, time.Minute, "search"), s.Search)

	// Guide content
	api.Get("/guide", s.GetGuide)
	api.Post("/guide", protected, s.AdminRequired, s.UpdateGuide)

	// Contact form
	api.Post("/contact", middleware.RateLimit(
		s.redis, 5, 10*time.Minute, "contact"), s.Contact)

	// File uploads
	api.Post("/upload", protected, s.UploadFile)
	api.Post("/upload-post-image", protected, s.UploadPostImage)
	app.Static("/uploads", s.config.UploadDir)

	// Admin routes
	admin := api.Group("/admin", protected, s.AdminRequired)
	admin.Get("/users", s.AdminGetUsers)
	admin.Post("/users/:id/approve", s.AdminApproveUser)
	admin.Post("/users/:id/reject", s.AdminRejectUser)
	admin.Patch("/users/:id", s.AdminUpdateUser)
	admin.Delete("/users", s.AdminDeleteUsers)
	admin.Post("/cops/:id/approve", s.AdminApproveCoP)
	admin.Patch("/cops/:id", s.AdminUpdateCoP)
	admin.Delete("/cops", s.AdminDeleteCoPs)
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

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The app runs uncached without Redis; report but stay ready.
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

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			return err
		}
	}
	if sqlDB, err := s.db.DB(); err == nil {
		return sqlDB.Close()
	}
	return nil
}
