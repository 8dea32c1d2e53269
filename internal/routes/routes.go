package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/promptmaster/backend/internal/config"
	"github.com/promptmaster/backend/internal/handlers"
	"github.com/promptmaster/backend/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	templateHandler *handlers.TemplateHandler,
	sceneHandler *handlers.SceneHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Profile (JWT required)
	api.Get("/auth/profile", middleware.JWTProtected(cfg), authHandler.GetProfile)
	api.Put("/auth/profile", middleware.JWTProtected(cfg), authHandler.UpdateProfile)

	// Templates — catalog browsing is public; static paths are
	// registered before /templates/:id so they don't get captured
	// by the id param.
	api.Get("/templates", templateHandler.List)
	api.Get("/templates/recommended", middleware.JWTProtected(cfg), templateHandler.Recommended)
	api.Get("/templates/analytics", middleware.JWTProtected(cfg), templateHandler.Analytics)
	api.Get("/templates/:id", templateHandler.Get)

	// Template writes (JWT required)
	api.Post("/templates", middleware.JWTProtected(cfg), templateHandler.Create)
	api.Post("/templates/:id/use", middleware.JWTProtected(cfg), templateHandler.RecordUsage)
	api.Post("/templates/:id/comments", middleware.JWTProtected(cfg), templateHandler.AddComment)

	// Scenes
	api.Get("/scenes", sceneHandler.List)
	api.Get("/scenes/recommended", middleware.JWTProtected(cfg), sceneHandler.Recommended)
}
