// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/portal-cms/internal/cache"
	"github.com/olegiv/portal-cms/internal/config"
	"github.com/olegiv/portal-cms/internal/handler/api"
	"github.com/olegiv/portal-cms/internal/logging"
	"github.com/olegiv/portal-cms/internal/middleware"
	"github.com/olegiv/portal-cms/internal/model"
	"github.com/olegiv/portal-cms/internal/scheduler"
	"github.com/olegiv/portal-cms/internal/service"
	"github.com/olegiv/portal-cms/internal/session"
	"github.com/olegiv/portal-cms/internal/store"
	"github.com/olegiv/portal-cms/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Portal CMS - page builder and role service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SESSION_SECRET         Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_DB_PATH                SQLite database path (default: ./data/portal.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_SERVER_PORT            Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_ENV                    Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_REDIS_URL              Redis URL for the role cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_EVENT_RETENTION_DAYS   Days to keep event log entries, 0 keeps all (default: 90)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PORTAL_DO_SEED                Create the default admin user (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("portal %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// From here on WARN and ERROR records also land in the event log.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("database ready", "event_log_min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, store.SeedConfig{
		Enabled:       cfg.DoSeed,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	}); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	cacheCfg := cache.DefaultConfig()
	cacheCfg.RedisURL = cfg.RedisURL
	if cfg.CachePrefix != "" {
		cacheCfg.Prefix = cfg.CachePrefix
	}
	if ttl := cfg.CacheTTLDuration(); ttl > 0 {
		cacheCfg.DefaultTTL = ttl
	}
	if cfg.CacheMaxSize > 0 {
		cacheCfg.MaxSize = cfg.CacheMaxSize
	}
	cacheBackend, backendName := cache.New(cacheCfg, logger)
	defer func() { _ = cacheBackend.Close() }()
	slog.Info("cache initialized", "backend", backendName)

	roleCache := cache.NewRoleCache(cacheBackend, cacheCfg.DefaultTTL)
	if cfg.DoSeed {
		// Seeding grants roles directly in the database; a shared Redis
		// cache may still hold sets from before.
		if err := roleCache.InvalidateAll(ctx); err != nil {
			slog.Warn("clearing cached role sets failed", "category", model.EventCategoryCache, "error", err)
		}
	}

	dc := store.NewDataContext(db)
	users := service.NewUserService(dc, logger)
	roles := service.NewRoleService(dc, users, roleCache, logger)
	events := service.NewEventService(dc, logger)

	sched := scheduler.New(logger)
	if err := sched.RegisterEventRetention(events, cfg.EventRetentionDays, cfg.EventRetentionSchedule); err != nil {
		return fmt.Errorf("registering event retention: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	h := api.NewHandler(api.Deps{
		DC:              dc,
		Sessions:        session.New(db, cfg.IsDevelopment()),
		Users:           users,
		Roles:           roles,
		ComponentTypes:  service.NewPageComponentTypeService(dc, logger),
		Sections:        service.NewPageSectionService(dc, logger),
		Events:          events,
		LoginProtection: loginProtection,
		Version:         &info,
		Logger:          logger,
	})

	srv := &http.Server{
		Addr: cfg.ServerAddr(),
		Handler: h.Router(api.RouterConfig{
			CSRFKey:       []byte(cfg.SessionSecret),
			IsDevelopment: cfg.IsDevelopment(),
			ServerAddr:    cfg.ServerAddr(),
		}),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.String())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
