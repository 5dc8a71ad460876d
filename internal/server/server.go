// Package server is the composition root: it opens the configured store,
// builds services and handlers, and mounts them on a chi router.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/climate-hub/internal/auth"
	"github.com/sakif/climate-hub/internal/config"
	"github.com/sakif/climate-hub/internal/content"
	"github.com/sakif/climate-hub/internal/handler"
	"github.com/sakif/climate-hub/internal/metrics"
	"github.com/sakif/climate-hub/internal/middleware"
	"github.com/sakif/climate-hub/internal/repository"
	"github.com/sakif/climate-hub/internal/repository/memory"
	"github.com/sakif/climate-hub/internal/repository/postgres"
	"github.com/sakif/climate-hub/internal/repository/sqlite"
	"github.com/sakif/climate-hub/internal/service"
	"github.com/sakif/climate-hub/web"
)

// Server owns the router and the store. The store is closed when Start
// returns.
type Server struct {
	router   *chi.Mux
	config   *config.Config
	logger   *slog.Logger
	store    repository.Store
	registry *prometheus.Registry
}

// New wires every dependency from cfg. The forum is seeded from the content
// catalogue when the store is empty.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	catalogue, err := content.Load(cfg.Content.Path)
	if err != nil {
		return nil, fmt.Errorf("loading content: %w", err)
	}

	store, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		store:    store,
		registry: reg,
	}

	if err := s.setupRoutes(ctx, catalogue, metrics.New(reg)); err != nil {
		store.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// openStore returns the backend named by cfg.Driver.
func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case "memory":
		logger.Info("using in-memory store; forum state is lost on restart")
		return memory.New(), nil

	case "sqlite":
		if dir := filepath.Dir(cfg.DBPath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite database: %w", err)
		}
		logger.Info("using sqlite store", slog.String("path", cfg.DBPath))
		return db, nil

	case "postgres":
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		logger.Info("using postgres store")
		return db, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
}

func (s *Server) setupRoutes(ctx context.Context, catalogue *content.Catalogue, m *metrics.Metrics) error {
	contentService := service.NewContentService(catalogue)
	forumService := service.NewForumService(s.store, m, s.logger, nil)
	contactService := service.NewContactService(s.store, m, s.logger)

	if err := forumService.Seed(ctx, contentService.SeedDiscussions()); err != nil {
		return fmt.Errorf("seeding forum: %w", err)
	}

	var (
		tokens      *auth.TokenService
		authService *service.AuthService
	)
	if s.config.Auth.Enabled() {
		var err error
		tokens, err = auth.NewTokenService(s.config.Auth.JWTSecret)
		if err != nil {
			return err
		}
		authService = service.NewAuthService(s.store, tokens, s.logger)
	} else {
		s.logger.Warn("GitHub sign-in disabled; set JWT_SECRET, GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET to enable it")
	}

	sessions := scs.New()
	sessions.Lifetime = 24 * time.Hour
	sessions.Cookie.Name = "hub_flash"
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	renderer, err := handler.NewRenderer(web.FS, sessions, contentService, authService, s.logger)
	if err != nil {
		return err
	}

	pages := handler.NewPageHandler(contentService, renderer)
	forum := handler.NewForumHandler(forumService, authService, renderer)
	contact := handler.NewContactHandler(contactService, renderer, s.logger)
	api := handler.NewAPIHandler(forumService, contentService, authService, s.logger)

	var authHandler *handler.AuthHandler
	if authService != nil {
		provider := auth.NewGitHubProvider(
			s.config.Auth.GitHubClientID,
			s.config.Auth.GitHubClientSecret,
			s.config.Auth.GitHubCallbackURL,
		)
		authHandler = handler.NewAuthHandler(provider, authService, tokens, renderer, s.logger)
	}

	r := s.router
	r.Use(chimiddleware.RequestID)
	// Keyed on the peer address as received, so it runs before RealIP.
	if s.config.RateLimit.RPS > 0 {
		limiter := middleware.NewRateLimiter(s.config.RateLimit.RPS, s.config.RateLimit.Burst, m, s.logger)
		r.Use(limiter.Handler)
	}
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics(m))
	if tokens != nil {
		r.Use(auth.OptionalAuth(tokens))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	static, err := fs.Sub(web.FS, "static")
	if err != nil {
		return fmt.Errorf("static files: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// Pages need the session for flash messages.
	r.Group(func(r chi.Router) {
		r.Use(sessions.LoadAndSave)

		r.Get("/", pages.HandleHome)
		r.Get("/about", pages.HandleAbout)
		r.Get("/blog", pages.HandleBlog)
		r.Get("/blog/{slug}", pages.HandleBlogPost)
		r.Get("/portfolio", pages.HandlePortfolio)

		r.Get("/contact", contact.HandlePage)
		r.Post("/contact", contact.HandleSubmit)

		r.Get("/forum", forum.HandleIndex)
		r.Post("/forum", forum.HandleCreate)
		r.Get("/forum/{id}", forum.HandleShow)
		r.Post("/forum/{id}/comments", forum.HandleComment)
		r.Post("/forum/{id}/like", forum.HandleLike)

		if authHandler != nil {
			r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
			r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
			r.Post("/auth/logout", authHandler.HandleLogout)
		}

		r.NotFound(pages.HandleNotFound)
	})

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/discussions", api.HandleListDiscussions)
		r.Post("/discussions", api.HandleCreateDiscussion)
		r.Get("/discussions/{id}", api.HandleGetDiscussion)
		r.Post("/discussions/{id}/comments", api.HandleAddComment)
		r.Post("/discussions/{id}/like", api.HandleLike)
		r.Get("/tags", api.HandleTags)
		r.Get("/posts", api.HandlePosts)
		r.Get("/posts/{slug}", api.HandlePost)
		r.Get("/projects", api.HandleProjects)
		r.Post("/contact", contact.HandleAPISubmit)
		if authHandler != nil {
			r.With(auth.RequireAuth(tokens)).Get("/me", authHandler.HandleMe)
		}
		r.NotFound(api.HandleNotFound)
	})

	return nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the store.
func (s *Server) Close() error {
	return s.store.Close()
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for up
// to 30 seconds before closing the store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
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
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("store", s.config.Store.Driver),
			slog.Bool("auth", s.config.Auth.Enabled()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
