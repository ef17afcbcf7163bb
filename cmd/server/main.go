package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"

	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps/insights"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps/social"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/apps/weekly"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/catalog"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/config"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/database"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/identity"
	"github.com/ahmetcoskunkizilkaya/trackrock/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "trackrock",
		Short:        "Weekly goal tracker API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Migrate, seed and run the HTTP server (default)",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Run database migrations and exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := bootstrap(false)
				return err
			},
		},
		&cobra.Command{
			Use:   "seed",
			Short: "Migrate and seed the category/goal catalog, then exit",
			RunE: func(cmd *cobra.Command, args []string) error {
				_, err := bootstrap(true)
				return err
			},
		},
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func plugins() []apps.Plugin {
	return []apps.Plugin{
		weekly.New(),
		insights.New(),
		social.New(),
	}
}

// bootstrap loads config, sets up logging, connects, migrates and optionally seeds.
func bootstrap(seed bool) (*config.Config, error) {
	cfg := config.Load()
	logging.Setup(cfg)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		return nil, err
	}

	if err := database.Connect(cfg); err != nil {
		slog.Error("database connection failed", "error", err)
		return nil, err
	}

	if err := database.Migrate(database.DB); err != nil {
		slog.Error("shared migration failed", "error", err)
		return nil, err
	}
	if models := apps.AllModels(plugins()); len(models) > 0 {
		if err := database.DB.AutoMigrate(models...); err != nil {
			slog.Error("plugin migration failed", "error", err)
			return nil, fmt.Errorf("plugin migration: %w", err)
		}
		slog.Info("plugins migrated", "models", len(models))
	}

	if seed {
		cat, err := catalog.LoadFromFile(cfg.CatalogPath)
		if err != nil {
			slog.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
			return nil, err
		}
		created, err := cat.Seed(database.DB)
		if err != nil {
			slog.Error("catalog seed failed", "error", err)
			return nil, err
		}
		slog.Info("catalog seeded", "categories", cat.Len(), "created", created)
	}

	return cfg, nil
}

func serve() error {
	cfg := config.Load()

	// Sentry first so the logger can attach its handler
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			fmt.Fprintln(os.Stderr, "sentry init failed:", err)
		}
	}

	cfg, err := bootstrap(true)
	if err != nil {
		return err
	}
	defer database.Close()

	// Persist ERROR+ logs alongside stdout
	dbLogHandler := logging.NewDBHandler(database.DB)
	logging.Setup(cfg, dbLogHandler)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(database.DB, cfg.LogRetentionDays, cleanupDone)

	blacklist := identity.NewBlacklist(cfg.TokenBlacklistLimit)
	app := newApp(cfg, database.DB, blacklist, plugins())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	listenErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv)
		listenErr <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-quit:
		slog.Info("shutting down server...")
	case err = <-listenErr:
		slog.Error("server failed to start", "error", err)
	}

	if shutdownErr := app.ShutdownWithTimeout(10 * time.Second); shutdownErr != nil {
		slog.Error("server shutdown error", "error", shutdownErr)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	slog.Info("server stopped")
	return err
}
