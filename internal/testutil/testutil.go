// Package testutil provides shared helpers for package tests: a throwaway
// SQLite database, signed tokens and JSON requests against a Fiber app.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/database"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const Secret = "test-secret"

// Config returns a config suitable for tests: SQLite, no rate limits.
func Config(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppEnv:              "test",
		DBDriver:            "sqlite",
		DBPath:              filepath.Join(t.TempDir(), "test.db"),
		JWTSecret:           Secret,
		JWTAccessExpiry:     15 * time.Minute,
		TokenBlacklistLimit: 100,
	}
}

// OpenDB opens a migrated SQLite database. When seed is true the embedded
// catalog is loaded as well.
func OpenDB(t *testing.T, cfg *config.Config, seed bool, extra ...interface{}) *gorm.DB {
	t.Helper()
	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := database.Migrate(db, extra...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if seed {
		cat, err := catalog.Default()
		if err != nil {
			t.Fatalf("catalog: %v", err)
		}
		if _, err := cat.Seed(db); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	return db
}

// CreateUser inserts a user without a password.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: username,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return &user
}

// Token signs an access token for userID with the test secret.
func Token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		identity.ClaimUserID: userID.String(),
		"iat":                time.Now().Unix(),
		"exp":                time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte(Secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// Do sends a request with an optional JSON body and bearer token and returns
// the status code and raw response body.
func Do(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, out
}

// Decode unmarshals a response body or fails the test.
func Decode(t *testing.T, body []byte, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("decode %s: %v", body, err)
	}
}

// CaptureLogs sends slog.Default to a JSON buffer until the test ends.
func CaptureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

// AssertLogged fails the test unless every fragment appears in the captured logs.
func AssertLogged(t *testing.T, logs *bytes.Buffer, fragments ...string) {
	t.Helper()
	out := logs.String()
	for _, f := range fragments {
		if !strings.Contains(out, f) {
			t.Errorf("log output missing %s:\n%s", f, out)
		}
	}
}
