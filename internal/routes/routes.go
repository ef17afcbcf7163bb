package routes

import (
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	blacklist *identity.Blacklist,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limit per IP
	api.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

	api.Get("/health", healthHandler.Check)

	// Auth is public, with a stricter limit
	auth := api.Group("/auth")
	auth.Post("/register", middleware.RateLimit(cfg.AuthRateLimitPerMinute), authHandler.Register)
	auth.Post("/login", middleware.RateLimit(cfg.AuthRateLimitPerMinute), authHandler.Login)

	// JWT is attached per route so unknown /api paths still 404
	protected := guarded{Router: api, guard: middleware.JWTProtected(cfg, blacklist)}
	protected.Get("/auth/user", authHandler.User)
	protected.Post("/auth/logout", authHandler.Logout)

	for _, p := range plugins {
		p.RegisterRoutes(protected, db, cfg)
	}
}

// guarded prepends guard to every route registered through it.
type guarded struct {
	fiber.Router
	guard fiber.Handler
}

func (g guarded) with(handlers []fiber.Handler) []fiber.Handler {
	return append([]fiber.Handler{g.guard}, handlers...)
}

func (g guarded) Get(path string, handlers ...fiber.Handler) fiber.Router {
	g.Router.Get(path, g.with(handlers)...)
	return g
}

func (g guarded) Post(path string, handlers ...fiber.Handler) fiber.Router {
	g.Router.Post(path, g.with(handlers)...)
	return g
}

func (g guarded) Put(path string, handlers ...fiber.Handler) fiber.Router {
	g.Router.Put(path, g.with(handlers)...)
	return g
}

func (g guarded) Patch(path string, handlers ...fiber.Handler) fiber.Router {
	g.Router.Patch(path, g.with(handlers)...)
	return g
}

func (g guarded) Delete(path string, handlers ...fiber.Handler) fiber.Router {
	g.Router.Delete(path, g.with(handlers)...)
	return g
}

func (g guarded) Group(prefix string, handlers ...fiber.Handler) fiber.Router {
	return guarded{Router: g.Router.Group(prefix, handlers...), guard: g.guard}
}
