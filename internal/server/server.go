// Package server is the composition root: it wires the database, the
// upload store, the services, and the handlers onto a chi router, and owns
// the listen/shutdown lifecycle.
//
// DEPENDENCY FLOW:
//
//	config → sqlite.DB ─┬→ AuthService ───→ AuthHandler
//	                    ├→ AccountService → AccountHandler
//	                    └→ ReviewService ─→ ReviewHandler
//	        upload.Store ┘
//
// Each layer receives interfaces or services, never its neighbour's
// internals: handlers don't see SQL, services don't see HTTP.
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
	"github.com/spf13/afero"

	"github.com/sakif/jibi/internal/auth"
	"github.com/sakif/jibi/internal/config"
	"github.com/sakif/jibi/internal/handler"
	"github.com/sakif/jibi/internal/middleware"
	sqliteRepo "github.com/sakif/jibi/internal/repository/sqlite"
	"github.com/sakif/jibi/internal/service"
	"github.com/sakif/jibi/internal/upload"
)

// Server owns the HTTP router and the resources that must be released on
// shutdown (currently just the database).
type Server struct {
	router *chi.Mux
	cfg    config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New wires the whole dependency graph and returns a ready-to-start Server.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware, handlers, and the route table.
//
//	POST /register       → create an account
//	POST /login          → establish a session (JWT cookie)
//	POST /logout         → clear the session cookie
//	GET  /api/me         → current session          [session required]
//	POST /api/reviews    → submit a review          [session required]
//	GET  /api/feed       → recent reviews           [session required]
//	GET  /covers/*       → stored cover images      [session required]
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.cfg.SessionSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	// The upload store gets a filesystem jailed to the upload directory:
	// even a sanitizer bug cannot write outside it.
	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
	}
	uploadFs := afero.NewBasePathFs(afero.NewOsFs(), s.cfg.UploadDir)
	store := upload.NewStore(uploadFs)

	digest := auth.NewDigestService()
	authSvc := service.NewAuthService(s.db, digest, s.logger)
	accountSvc := service.NewAccountService(s.db, digest, s.logger)
	reviewSvc := service.NewReviewService(s.db, store, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, tokens, s.logger)
	accountHandler := handler.NewAccountHandler(accountSvc, s.logger)
	reviewHandler := handler.NewReviewHandler(reviewSvc, s.logger)

	s.router.Post("/register", accountHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/logout", authHandler.HandleLogout)

	// A session is the sole authorization signal for posting AND viewing
	// the feed; only registration and login are reachable anonymously.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireSession(tokens))
		r.Get("/api/me", authHandler.HandleMe)
		r.Post("/api/reviews", reviewHandler.HandleSubmit)
		r.Get("/api/feed", reviewHandler.HandleFeed)
		r.Handle("/covers/*", http.StripPrefix("/covers/",
			http.FileServer(http.Dir(s.cfg.UploadDir))))
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests for up to 30s, close
// the database. The deferred Close runs on every exit path.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
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
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
			slog.String("uploads", s.cfg.UploadDir),
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
