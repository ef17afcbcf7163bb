package logging

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/database"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/models"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(&config.Config{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "logs.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDBHandlerPersistsErrorsOnly(t *testing.T) {
	db := openTestDB(t)
	h := newDBHandler(db, time.Hour)
	logger := slog.New(h).With("request_id", "req-1")

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatal("handler should ignore INFO")
	}
	logger.Info("ignored")
	logger.Error("boom", "user_id", "u-1", "action", "complete_goal", "error", "db down", "latency_ms", 12.6, "path", "/api/x")
	h.Stop()
	h.Stop()

	var logs []models.SystemLog
	if err := db.Find(&logs).Error; err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d rows, want 1", len(logs))
	}
	got := logs[0]
	if got.Message != "boom" || got.Level != "ERROR" {
		t.Errorf("unexpected row: %+v", got)
	}
	if got.RequestID != "req-1" || got.Action != "complete_goal" || got.Error != "db down" {
		t.Errorf("attrs not mapped: %+v", got)
	}
	if got.UserID == nil || *got.UserID != "u-1" {
		t.Errorf("user_id = %v", got.UserID)
	}
	if got.LatencyMs != 13 {
		t.Errorf("latency = %d, want 13", got.LatencyMs)
	}
	if string(got.Extra) != `{"path":"/api/x"}` {
		t.Errorf("extra = %s", got.Extra)
	}
}

func TestPurgeOlderThan(t *testing.T) {
	db := openTestDB(t)
	old := models.SystemLog{Timestamp: time.Now().AddDate(0, 0, -40), Level: "ERROR", Message: "old"}
	fresh := models.SystemLog{Timestamp: time.Now(), Level: "ERROR", Message: "fresh"}
	if err := db.Create(&old).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&fresh).Error; err != nil {
		t.Fatal(err)
	}

	deleted, err := PurgeOlderThan(db, 30)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	var count int64
	db.Model(&models.SystemLog{}).Count(&count)
	if count != 1 {
		t.Errorf("remaining = %d, want 1", count)
	}
}

func TestSetupWritesFileSink(t *testing.T) {
	saved := slog.Default()
	defer slog.SetDefault(saved)

	cfg := &config.Config{LogLevel: "debug", LogDir: t.TempDir(), LogRetentionDays: 7}
	logger := Setup(cfg)
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}
	logger.Info("hello")
	if fileSink == nil {
		t.Fatal("file sink not opened")
	}
}
