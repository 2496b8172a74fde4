package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spacetraveling/app/config"
	"spacetraveling/app/content"
	"spacetraveling/app/controllers"
	"spacetraveling/app/generate"
	"spacetraveling/app/middleware"
	"spacetraveling/app/repositories"
	"spacetraveling/app/routes"
	"spacetraveling/app/services"
	"spacetraveling/app/views"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

var log = logrus.WithField("component", "service")

// App is the wired blog: page cache, content client, generator and router.
type App struct {
	Config    *config.Config
	Pages     repositories.PageRepository
	Generator *generate.Generator
	Router    *mux.Router
	// Limiter is nil when rate limiting is disabled.
	Limiter *middleware.RateLimiter
}

// NewApp wires the application from cfg. The caller must Close it.
func NewApp(cfg *config.Config) (*App, error) {
	client, err := content.NewPrismicClient(cfg.Prismic.Endpoint, cfg.Prismic.AccessToken, cfg.Prismic.PageSize, cfg.Prismic.Timeout)
	if err != nil {
		return nil, err
	}
	return newApp(cfg, client)
}

func newApp(cfg *config.Config, client content.Client) (*App, error) {
	dates, err := views.NewDateFormatter(cfg.Locale, cfg.Timezone)
	if err != nil {
		return nil, err
	}
	renderer, err := views.NewRenderer(dates)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	pages, err := repositories.Open(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to open page cache: %w", err)
	}

	posts := services.NewPostService(client, cfg.Prismic.DocumentType)
	generator := generate.NewGenerator(posts, renderer, pages, generate.Options{
		Revalidate:   cfg.Revalidate,
		FallbackWait: cfg.FallbackWait,
	})

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	pageController := controllers.NewPageController(generator, posts, renderer, fallbackRefresh(cfg.FallbackWait))
	router := routes.SetupRoutes(pageController, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		Limiter:        limiter,
	})

	return &App{
		Config:    cfg,
		Pages:     pages,
		Generator: generator,
		Router:    router,
		Limiter:   limiter,
	}, nil
}

// Close stops the rate limiter cleanup and releases the page cache.
func (a *App) Close() error {
	if a.Limiter != nil {
		a.Limiter.Stop()
	}
	return a.Pages.Close()
}

// fallbackRefresh is how many seconds the fallback page waits before reloading.
func fallbackRefresh(wait time.Duration) int {
	seconds := int(wait.Round(time.Second) / time.Second)
	if seconds < 1 {
		return 1
	}
	return seconds
}

// RunAppServer pre-renders every page and serves the blog until SIGINT or
// SIGTERM.
func RunAppServer(cfg *config.Config) error {
	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pages that fail here are generated on first request.
	if _, err := app.Generator.Build(ctx); err != nil {
		log.WithError(err).Warn("initial build incomplete")
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return runServer(ctx, srv)
}

// runServer serves until ctx is done, then shuts srv down gracefully.
func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("starting blog service")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
