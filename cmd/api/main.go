package main

import (
	"os"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"lapor-warga/internal/config"
	"lapor-warga/internal/handler"
	"lapor-warga/internal/middleware"
	"lapor-warga/internal/repository"
	"lapor-warga/internal/service"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using environment variables")
	}

	cfg := config.Load()
	if cfg.Environment == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	repos := repository.NewRepositories(db)
	services, err := service.NewServices(repos, rdb, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build services")
	}
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    20 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, repos, cfg)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

func requestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() == "/health" || c.Path() == "/metrics" {
			return c.Next()
		}
		err := c.Next()
		log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Msg("request")
		return err
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, repos *repository.Repositories, cfg *config.Config) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	v1 := app.Group("/api/v1")
	protected := v1.Group("", middleware.AuthRequired(repos.User, cfg.JWTSecret))

	mountCaseRoutes(protected.Group("/complaints"), h.Complaint)
	mountCaseRoutes(protected.Group("/suggestions"), h.Suggestion)

	devices := protected.Group("/devices")
	devices.Post("/", h.Device.Register)
	devices.Get("/", h.Device.List)
	devices.Delete("/:id", h.Device.Remove)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	analyticsGroup := protected.Group("/analytics", middleware.RequireOfficer())
	analyticsGroup.Get("/complaints", h.Analytics.Complaints)
	analyticsGroup.Get("/kpi", h.Analytics.Dashboard)

	verifications := protected.Group("/verification-requests")
	verifications.Post("/", h.Verification.Request)
	verifications.Get("/:id", h.Verification.Get)
	verifications.Post("/:id/decision", middleware.RequireAuthorizer(), h.Verification.Decide)
}

func mountCaseRoutes(g fiber.Router, h *handler.CaseHandler) {
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/mine", h.ListMine)
	g.Get("/saved", h.ListSaved)
	g.Get("/latest", h.Latest)
	g.Get("/count-today", h.CountToday)
	g.Get("/:id", h.Get)
	g.Get("/:id/activities", h.Activities)
	g.Post("/:id/save", h.Save)
	g.Delete("/:id/save", h.Unsave)
	g.Post("/:id/cancel", h.Cancel)
	g.Post("/:id/rate", h.Rate)

	g.Post("/:id/verify", middleware.RequireOfficer(), h.Verify)
	g.Post("/:id/decline", middleware.RequireOfficer(), h.Decline)
	g.Post("/:id/assign", middleware.RequireOfficer(), h.Assign)
	g.Post("/:id/process", middleware.RequireOfficer(), h.Process)
	g.Post("/:id/plan", middleware.RequireOfficer(), h.Plan)
	g.Post("/:id/complete", middleware.RequireOfficer(), h.Complete)
}
