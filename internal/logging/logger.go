package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/getsentry/sentry-go"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

var fileSink io.Writer

// ParseLevel maps LOG_LEVEL values to slog levels. Unknown values mean info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup installs the global slog logger: JSON to stdout, plus a rotating file
// when LOG_DIR is set, plus Sentry for errors once the Sentry client is up.
// Extra handlers (the database sink) are fanned out alongside.
func Setup(cfg *config.Config, extra ...slog.Handler) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.LogLevel)}
	handlers := []slog.Handler{slog.NewJSONHandler(os.Stdout, opts)}

	if cfg.LogDir != "" {
		if w, err := openFileSink(cfg); err != nil {
			slog.Warn("file logging disabled", "dir", cfg.LogDir, "error", err)
		} else {
			handlers = append(handlers, slog.NewJSONHandler(w, opts))
		}
	}

	if sentry.CurrentHub().Client() != nil {
		handlers = append(handlers, slogsentry.Option{Level: slog.LevelError}.NewSentryHandler())
	}

	handlers = append(handlers, extra...)

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func openFileSink(cfg *config.Config) (io.Writer, error) {
	if fileSink != nil {
		return fileSink, nil
	}
	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		return nil, err
	}
	retention := cfg.LogRetentionDays
	if retention <= 0 {
		retention = 30
	}
	w, err := rotatelogs.New(
		filepath.Join(cfg.LogDir, "trackrock.%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(cfg.LogDir, "trackrock.log")),
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(time.Duration(retention)*24*time.Hour),
	)
	if err != nil {
		return nil, err
	}
	fileSink = w
	return w, nil
}
