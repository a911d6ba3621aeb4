// Package server wires the application together and runs the HTTP server.
//
// This is the composition root: the file store, repositories, services and
// handlers are all constructed here and connected through their interfaces,
// so no other package needs to know about concrete implementations.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/ketsia/linklet/internal/auth"
	"github.com/ketsia/linklet/internal/handler"
	"github.com/ketsia/linklet/internal/middleware"
	"github.com/ketsia/linklet/internal/repository/jsonfile"
	"github.com/ketsia/linklet/internal/service"
	"github.com/ketsia/linklet/internal/store"
	"github.com/ketsia/linklet/internal/upload"
)

// Config holds everything the server needs from the environment.
type Config struct {
	Port      int
	DataDir   string        // directory for the JSON collections
	UploadDir string        // directory for uploaded media
	JWTSecret string        // signing secret, required
	TokenTTL  time.Duration // zero means the default lifetime
}

// Server owns the router and the wired application.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
}

// New builds the full dependency chain: store → repositories → services →
// handlers → routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	fileStore, err := store.NewFileStore(s.config.DataDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating file store: %w", err)
	}
	repos := jsonfile.New(fileStore, s.logger)

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	uploads, err := upload.NewSaver(s.config.UploadDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating upload saver: %w", err)
	}

	authService := service.NewAuthService(repos.Users, tokens, passwords, s.logger)
	userService := service.NewUserService(repos.Users, s.logger)
	postService := service.NewPostService(repos.Posts, repos.Users, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	userHandler := handler.NewUserHandler(userService, postService, uploads, s.logger)
	postHandler := handler.NewPostHandler(postService, uploads, s.logger)

	// Uploaded media is public: a post's mediaURL must resolve without auth.
	fileServer := http.FileServer(http.Dir(uploads.Dir()))
	s.router.Handle("/uploads/*", http.StripPrefix(upload.PublicPrefix, fileServer))

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)

		// Everything else requires a valid bearer token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens, s.logger))

			r.Post("/auth/logout", authHandler.HandleLogout)

			r.Get("/users", userHandler.HandleListUsers)
			r.Get("/users/me", userHandler.HandleMe)
			r.Put("/users/me", userHandler.HandleUpdateMe)
			r.Post("/users/{id}/follow", userHandler.HandleFollow)
			r.Get("/users/{id}/posts", userHandler.HandleUserPosts)

			r.Get("/posts", postHandler.HandleFeed)
			r.Post("/posts", postHandler.HandleCreatePost)
			r.Post("/posts/{id}/like", postHandler.HandleLike)
			r.Post("/posts/{id}/comments", postHandler.HandleAddComment)
			r.Get("/posts/{id}/comments", postHandler.HandleListComments)
		})
	})

	return nil
}

// Start runs the server until a shutdown signal arrives, then drains
// in-flight requests before returning.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("data_dir", s.config.DataDir),
			slog.String("upload_dir", s.config.UploadDir),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
