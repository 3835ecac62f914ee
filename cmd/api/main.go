package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/devfolio/devfolio-go/internal/config"
	"github.com/devfolio/devfolio-go/internal/handler"
	"github.com/devfolio/devfolio-go/internal/middleware"
	"github.com/devfolio/devfolio-go/internal/model"
	"github.com/devfolio/devfolio-go/internal/repository"
	"github.com/devfolio/devfolio-go/internal/service"
	"github.com/devfolio/devfolio-go/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	ctx := context.Background()

	db, err := repository.NewDB(cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	userRepo := repository.NewUserRepository(db)
	docRepo := repository.NewDocumentRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiry)
	if err := authService.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("admin seed failed", "error", err)
		os.Exit(1)
	}

	authHandler := handler.NewAuthHandler(authService, cfg.AdminEmail, cfg.AdminPassword, cfg.IsProduction())
	healthHandler := handler.NewHealthHandler(db, userRepo, cfg)

	requireAuth := middleware.JWTAuth(cfg.JWTSecret, authService)
	requireAdmin := middleware.RequireRole(model.RoleAdmin)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	// Recoverer sits inside Timeout so panics in the handler goroutine are
	// caught there.
	r.Use(chimiddleware.Recoverer)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", healthHandler.HandleIndex)

		r.Get("/health", healthHandler.HandleHealth)
		r.Get("/health/ready", healthHandler.HandleReadiness)
		r.Get("/health/live", healthHandler.HandleLiveness)

		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
				r.Post("/login", authHandler.HandleLogin)
			})
			r.Get("/credentials", authHandler.HandleCredentials)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/verify", authHandler.HandleVerify)
				r.Post("/logout", authHandler.HandleLogout)
				r.Get("/profile", authHandler.HandleProfile)
				r.Put("/password", authHandler.HandleChangePassword)
			})
		})

		// Media uploads only mount when object storage is configured; the
		// rest of the API works without it.
		if cfg.MediaConfigured() {
			store, err := storage.NewS3Store(ctx, storage.Options{
				Endpoint:  cfg.S3Endpoint,
				Region:    cfg.S3Region,
				Bucket:    cfg.S3Bucket,
				AccessKey: cfg.S3AccessKey,
				SecretKey: cfg.S3SecretKey,
				PublicURL: cfg.S3PublicURL,
			})
			if err != nil {
				slog.Error("object storage init failed", "error", err)
				os.Exit(1)
			}
			mediaHandler := handler.NewMediaHandler(service.NewMediaService(store), cfg.IsProduction())

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, requireAdmin)
				r.Post("/upload", mediaHandler.HandleUpload)
				r.Delete("/upload", mediaHandler.HandleDelete)
			})
		} else {
			slog.Warn("object storage not configured, upload routes disabled")
		}

		for _, col := range model.Collections() {
			svc := service.NewCollectionService(docRepo, col)
			h := handler.NewCollectionHandler(svc, cfg.IsProduction())
			r.Mount("/"+col.Name, h.Routes(requireAuth, requireAdmin))
		}
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
