package main

import (
	"errors"
	"testing"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/dto"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/testutil"
	"github.com/gofiber/fiber/v2"
)

func TestNewAppServesHealthWithHeaders(t *testing.T) {
	cfg := testutil.Config(t)
	cfg.CORSOrigins = "*"
	db := testutil.OpenDB(t, cfg, true, apps.AllModels(plugins())...)
	app := newApp(cfg, db, identity.NewBlacklist(10), plugins())

	status, body := testutil.Do(t, app, "GET", "/api/health", "", nil)
	if status != fiber.StatusOK {
		t.Fatalf("health status %d: %s", status, body)
	}

	status, body = testutil.Do(t, app, "GET", "/api/does-not-exist", "", nil)
	if status != fiber.StatusNotFound {
		t.Errorf("unknown path status %d: %s", status, body)
	}
	status, body = testutil.Do(t, app, "GET", "/api/categories", "", nil)
	if status != fiber.StatusUnauthorized {
		t.Errorf("protected path without token status %d: %s", status, body)
	}
}

func TestCustomErrorHandlerHidesServerErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: customErrorHandler})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("secret database detail") })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	logs := testutil.CaptureLogs(t)

	status, body := testutil.Do(t, app, "GET", "/boom", "", nil)
	var resp dto.ErrorResponse
	testutil.Decode(t, body, &resp)
	if status != fiber.StatusInternalServerError || resp.Message != "Internal server error" {
		t.Errorf("500: status %d, body %s", status, body)
	}
	testutil.AssertLogged(t, logs, `"msg":"unhandled server error"`, `"action":"GET /boom"`, `secret database detail`)

	status, body = testutil.Do(t, app, "GET", "/teapot", "", nil)
	resp = dto.ErrorResponse{}
	testutil.Decode(t, body, &resp)
	if status != fiber.StatusTeapot || resp.Message != "short and stout" {
		t.Errorf("418: status %d, body %s", status, body)
	}
}
