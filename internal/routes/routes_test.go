package routes

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps/insights"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps/social"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps/weekly"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/dto"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/services"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/testutil"
	"github.com/gofiber/fiber/v2"
)

func newApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := testutil.Config(t)
	plugins := []apps.Plugin{weekly.New(), insights.New(), social.New()}
	db := testutil.OpenDB(t, cfg, true, apps.AllModels(plugins)...)
	bl := identity.NewBlacklist(cfg.TokenBlacklistLimit)

	app := fiber.New()
	Setup(app, cfg, db, bl,
		handlers.NewAuthHandler(services.NewAuthService(db, cfg, bl)),
		handlers.NewHealthHandler(db),
		plugins,
	)
	return app
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	app := newApp(t)

	if status, _ := testutil.Do(t, app, "GET", "/api/health", "", nil); status != fiber.StatusOK {
		t.Errorf("health status %d", status)
	}

	for _, path := range []string{"/api/categories", "/api/user/progress", "/api/analytics/weekly-stats", "/api/friends", "/api/auth/user"} {
		if status, _ := testutil.Do(t, app, "GET", path, "", nil); status != fiber.StatusUnauthorized {
			t.Errorf("%s without token: status %d, want 401", path, status)
		}
	}

	status, body := testutil.Do(t, app, "POST", "/api/auth/register", "", dto.RegisterRequest{
		Username: "rocky", Email: "rocky@example.com", Password: "password123",
	})
	if status != fiber.StatusCreated {
		t.Fatalf("register status %d: %s", status, body)
	}
	var auth dto.AuthResponse
	testutil.Decode(t, body, &auth)

	for _, path := range []string{"/api/categories", "/api/user/progress", "/api/analytics/weekly-stats", "/api/friends", "/api/auth/user"} {
		if status, body := testutil.Do(t, app, "GET", path, auth.Token, nil); status != fiber.StatusOK {
			t.Errorf("%s with token: status %d: %s", path, status, body)
		}
	}

	for _, token := range []string{"", auth.Token} {
		if status, _ := testutil.Do(t, app, "GET", "/api/no-such-route", token, nil); status != fiber.StatusNotFound {
			t.Errorf("unknown route status %d, want 404", status)
		}
	}

	testutil.Do(t, app, "POST", "/api/auth/logout", auth.Token, nil)
	if status, _ := testutil.Do(t, app, "GET", "/api/categories", auth.Token, nil); status != fiber.StatusUnauthorized {
		t.Errorf("revoked token status %d, want 401", status)
	}
}
