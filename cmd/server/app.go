package main

import (
	"time"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/segmentio/ksuid"
	"gorm.io/gorm"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/dto"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/logging"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/routes"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/services"
)

func newApp(cfg *config.Config, db *gorm.DB, blacklist *identity.Blacklist, plugins []apps.Plugin) *fiber.App {
	authService := services.NewAuthService(db, cfg, blacklist)

	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(db)

	app := fiber.New(fiber.Config{
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	})

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return ksuid.New().String() },
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	routes.Setup(app, cfg, db, blacklist, authHandler, healthHandler, plugins)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		logging.RequestError(c, "unhandled server error", err)
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{
		Error:   true,
		Message: message,
	})
}
