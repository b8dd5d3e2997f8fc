// server/server.go - Fiber application and route table
package server

import (
	"errors"
	"time"

	"scoutlink/config"
	"scoutlink/handlers"
	"scoutlink/logging"
	"scoutlink/metrics"
	"scoutlink/middleware"
	"scoutlink/models"
	"scoutlink/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// New builds the HTTP application on top of db. Handlers are initialized as a side effect.
func New(cfg *config.Config, db *gorm.DB) *fiber.App {
	svc := handlers.NewServices(cfg, services.NewGormStore(db))
	handlers.InitHandlers(cfg, svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler,
		BodyLimit:    cfg.MaxUploadBytes(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logging.FiberLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))
	if cfg.MetricsEnabled {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}
	if cfg.RateLimitEnabled {
		general := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
		auth := middleware.NewRateLimiter(rate.Every(time.Minute/time.Duration(cfg.AuthRateLimitPerMin)), cfg.AuthRateLimitBurst)
		app.Use("/api", middleware.RateLimit(general, "Too many requests, please try again later"))
		app.Use("/api/auth", middleware.RateLimit(auth, "Too many authentication attempts, please try again later"))
	}

	app.Static("/uploads", cfg.UploadDir)
	app.Get("/health", health(db))

	registerRoutes(app, svc.Auth)
	return app
}

func registerRoutes(app *fiber.App, resolver middleware.SessionResolver) {
	requireAuth := middleware.RequireAuth(resolver)
	players := middleware.RequireRoles(models.RolePlayer)
	scouts := middleware.RequireRoles(models.RoleScout)
	academies := middleware.RequireRoles(models.RoleAcademy)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", requireAuth, handlers.Logout)
	auth.Get("/me", requireAuth, handlers.Me)
	auth.Put("/update", requireAuth, handlers.UpdateAccount)
	auth.Put("/role", requireAuth, handlers.ChangeRole)

	// Profile routes
	profiles := api.Group("/profiles")
	profiles.Get("/player", handlers.ListPlayers)
	profiles.Get("/:role/:userId", handlers.GetProfile)
	profiles.Post("/:role", requireAuth, handlers.CreateProfile)
	profiles.Put("/:role", requireAuth, handlers.UpdateProfile)

	// Video routes
	videos := api.Group("/videos")
	videos.Get("/", handlers.ListVideos)
	videos.Get("/user/:userId", handlers.GetUserVideos)
	videos.Get("/:id", handlers.GetVideo)
	videos.Post("/", requireAuth, handlers.UploadVideo)
	videos.Post("/:id/like", requireAuth, handlers.LikeVideo)

	// Trial routes
	trials := api.Group("/trials")
	trials.Get("/", handlers.ListTrials)
	trials.Get("/creator/:creatorId", handlers.GetCreatorTrials)
	trials.Get("/:id", handlers.GetTrial)
	trials.Post("/", requireAuth, academies, handlers.CreateTrial)

	// Application routes
	applications := api.Group("/applications", requireAuth)
	applications.Get("/", handlers.ListApplications)
	applications.Get("/player", players, handlers.PlayerApplications)
	applications.Get("/trial/:trialId", academies, handlers.TrialApplications)
	applications.Post("/", players, handlers.Apply)
	applications.Put("/:id/status", academies, handlers.UpdateApplicationStatus)

	// Message routes
	messages := api.Group("/messages", requireAuth)
	messages.Get("/", handlers.GetConversations)
	messages.Get("/unread", handlers.GetUnreadCount)
	messages.Get("/:userId", handlers.GetThread)
	messages.Post("/", handlers.SendMessage)

	// Interest routes
	interests := api.Group("/interests")
	interests.Post("/", requireAuth, scouts, handlers.RecordInterest)
	interests.Get("/", requireAuth, handlers.ListInterests)
	interests.Get("/player/:playerId", handlers.PlayerInterests)
	interests.Get("/scout/:scoutId", requireAuth, scouts, handlers.ScoutInterests)

	// User routes
	api.Get("/users/:id", handlers.GetUser)

	// Analytics routes
	analytics := api.Group("/analytics", requireAuth)
	analytics.Get("/player", players, handlers.PlayerAnalytics)
	analytics.Get("/academy", academies, handlers.AcademyAnalytics)
}

func health(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			log := logging.WithComponent("health")
			log.Error().Err(err).Msg("database ping failed")
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"timestamp": time.Now().Unix(),
		})
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		log := logging.WithComponent("http")
		log.Error().
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("unhandled error")
	}

	return c.Status(code).JSON(fiber.Map{"message": message})
}
