// Copyright (c) 2025-2026 Wavy Blog Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/wavyblog/wavy-go/internal/api"
	"github.com/wavyblog/wavy-go/internal/auth"
	"github.com/wavyblog/wavy-go/internal/cache"
	"github.com/wavyblog/wavy-go/internal/config"
	"github.com/wavyblog/wavy-go/internal/handler"
	"github.com/wavyblog/wavy-go/internal/imaging"
	"github.com/wavyblog/wavy-go/internal/logging"
	"github.com/wavyblog/wavy-go/internal/middleware"
	"github.com/wavyblog/wavy-go/internal/query"
	"github.com/wavyblog/wavy-go/internal/render"
	"github.com/wavyblog/wavy-go/internal/session"
	"github.com/wavyblog/wavy-go/internal/store"
	"github.com/wavyblog/wavy-go/internal/version"
	"github.com/wavyblog/wavy-go/web"
)

// crudHandlers defines the standard resource handler methods.
type crudHandlers struct {
	List       http.HandlerFunc
	NewForm    http.HandlerFunc
	Create     http.HandlerFunc
	EditForm   http.HandlerFunc
	Update     http.HandlerFunc
	Delete     http.HandlerFunc
	BulkDelete http.HandlerFunc
}

// registerCRUD registers the standard resource routes on an admin subrouter.
func registerCRUD(r chi.Router, base, baseID string, h crudHandlers) {
	r.Get(base, h.List)
	r.Get(base+handler.RouteSuffixNew, h.NewForm)
	r.Post(base, h.Create)
	r.Post(base+handler.RouteSuffixDelete, h.BulkDelete)
	r.Get(baseID, h.EditForm)
	r.Put(baseID, h.Update)
	r.Post(baseID, h.Update) // HTML forms can't send PUT
	r.Post(baseID+handler.RouteSuffixDelete, h.Delete)
	r.Delete(baseID, h.Delete)
}

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Wavy - blog frontend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WAVY_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WAVY_DB_PATH           SQLite database path (default: ./data/wavy.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WAVY_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WAVY_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WAVY_API_BASE_URL      Backend API base URL (default: http://localhost:8000/api)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  WAVY_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nFor more information, see: https://github.com/wavyblog/wavy-go\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Get()
		_, _ = fmt.Printf("wavy %s (commit: %s, built: %s)\n", info.Version, info.GitCommit, info.BuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize local database (sessions + event log)
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	eventLogHandler := logging.NewEventLogHandler(textHandler, db)
	logger = slog.New(eventLogHandler)
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	events := store.New(db)

	// Initialize session manager backed by SQLite
	sessionManager := session.New(db, cfg.IsDevelopment())
	sessions := session.NewStore(sessionManager)
	slog.Info("session manager initialized")

	// Initialize cache (Redis when configured, in-memory otherwise)
	cacheConfig := cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}
	cacheManager := cache.NewManagerWithConfig(cacheConfig)
	defer cacheManager.Stop()
	if cfg.UseRedisCache() {
		slog.Info("cache manager initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache manager initialized", "backend", "memory")
	}

	// Backend API client. Reads retry transient failures; mutations never do.
	apiClient := api.New(cfg.APIBaseURL,
		api.WithHTTPClient(&http.Client{Timeout: cfg.APIRequestTimeout()}),
		api.WithMaxRetries(cfg.APIMaxRetries),
		api.WithLogger(logger),
	)
	slog.Info("backend client initialized", "base_url", cfg.APIBaseURL)

	authSvc := auth.NewService(apiClient, sessions, *cfg)
	querySvc := query.New(apiClient, cacheManager)

	// Initialize template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	processor := imaging.NewProcessor(cfg.ThumbQuality)

	// CSRF protection keyed off the session secret
	csrfKey, err := auth.CSRFKey(cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("deriving csrf key: %w", err)
	}
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(csrfKey, cfg.IsDevelopment()))

	// Brute-force protection for the login form
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// Rate limiters: HTML pages get redirects with a flash, the API gets 429s
	publicRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)
	apiRateLimiter := middleware.NewGlobalRateLimiter(20.0, 40)

	// Handlers
	publicHandler := handler.NewPublicHandler(querySvc, renderer)
	authHandler := handler.NewAuthHandler(authSvc, renderer, loginProtection, events)
	adminHandler := handler.NewAdminHandler(querySvc, renderer, authSvc, events)
	postsHandler := handler.NewPostsHandler(querySvc, renderer, authSvc)
	categoriesHandler := handler.NewCategoriesHandler(querySvc, renderer, authSvc)
	usersHandler := handler.NewUsersHandler(querySvc, renderer, authSvc)
	imagesHandler := handler.NewImagesHandler(querySvc, renderer, authSvc)
	gatewayHandler := handler.NewGatewayHandler(cfg.APIBaseURL, authSvc, cacheManager)
	thumbHandler := handler.NewThumbHandler(cacheManager, processor, cfg.ThumbMaxWidth)
	healthHandler := handler.NewHealthHandler(db, cfg.APIBaseURL)

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Compress(1024))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	// Health endpoints. The full report is reserved for authenticated users;
	// anonymous callers only learn up/degraded.
	r.Group(func(r chi.Router) {
		r.Use(middleware.LoadUser(sessions))
		r.Get("/health", healthHandler.Health)
	})
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	// Static assets: cache for 1 year
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	staticHandler := middleware.StaticCache(31536000)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	r.Handle("/static/*", staticHandler)

	// Public blog pages
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.HTMLMiddleware())
		r.Use(middleware.LoadUser(sessions))
		r.Get(handler.RouteRoot, publicHandler.Home)
		r.Get(handler.RouteBlogSlug, publicHandler.Post)
		r.Get(handler.RouteCategorySlug, publicHandler.Category)
	})

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.HTMLMiddleware())
		r.Use(csrfMiddleware)
		r.Use(middleware.LoadUser(sessions))
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	// Admin area. Bootstrap establishes a session from the refresh cookie
	// when none exists; RequireAdminArea gates on role.
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(authSvc.Bootstrap())
		r.Use(middleware.LoadUser(sessions))
		r.Use(middleware.RequireAdminArea())

		r.Get(handler.RouteRoot, adminHandler.Dashboard)

		registerCRUD(r, handler.RoutePosts, handler.RoutePostsSlug, crudHandlers{
			List:       postsHandler.List,
			NewForm:    postsHandler.New,
			Create:     postsHandler.Create,
			EditForm:   postsHandler.Edit,
			Update:     postsHandler.Update,
			Delete:     postsHandler.Delete,
			BulkDelete: postsHandler.BulkDelete,
		})

		r.Get(handler.RouteImages, imagesHandler.List)
		r.Post(handler.RouteImages+handler.RouteSuffixUpload, imagesHandler.Upload)
		r.Post(handler.RouteImages+handler.RouteSuffixDelete, imagesHandler.Delete)

		// Admin-only resources
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())

			registerCRUD(r, handler.RouteCategories, handler.RouteCategoriesSlug, crudHandlers{
				List:       categoriesHandler.List,
				NewForm:    categoriesHandler.New,
				Create:     categoriesHandler.Create,
				EditForm:   categoriesHandler.Edit,
				Update:     categoriesHandler.Update,
				Delete:     categoriesHandler.Delete,
				BulkDelete: categoriesHandler.BulkDelete,
			})

			r.Get(handler.RouteUsers, usersHandler.List)
			r.Get(handler.RouteUsersUsername, usersHandler.Edit)
			r.Put(handler.RouteUsersUsername, usersHandler.Update)
			r.Post(handler.RouteUsersUsername, usersHandler.Update) // HTML forms can't send PUT
			r.Post(handler.RouteUsersUsername+handler.RouteSuffixDelete, usersHandler.Delete)
			r.Delete(handler.RouteUsersUsername, usersHandler.Delete)
		})
	})

	// JSON gateway to the backend API
	r.Group(func(r chi.Router) {
		r.Use(apiRateLimiter.Middleware())
		r.Use(csrfMiddleware)
		r.Mount("/api", gatewayHandler.Routes())
	})

	// Thumbnail proxy
	r.With(publicRateLimiter.Middleware()).Get("/thumb", thumbHandler.Thumb)

	// 404 handler renders the public not-found page
	r.NotFound(publicHandler.NotFound)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
