// Package ogimage composites a logo onto a solid background to produce a
// 1200x630 Open Graph preview image.
//
// The ogimage command writes the image once. The App type serves the same
// render over HTTP together with its <meta> tags, accepts logo uploads,
// and keeps a render history in SQLite.
package ogimage

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
)

// App is the OG image HTTP service. It wires together the store, render
// cache, rate limiters, middleware and handlers.
type App struct {
	Config ServerConfig
	Echo   *echo.Echo
	Store  *Store
	Cache  *RenderCache

	uploadLimiter  *RateLimiter
	previewLimiter *RateLimiter
	uploadMax      int
	uploadWindow   time.Duration
	customRoutes   []func(*App)
}

// New creates an App with the given configuration and options.
func New(cfg ServerConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:       cfg,
		Echo:         echo.New(),
		uploadMax:    5,
		uploadWindow: time.Minute,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Init opens the store and builds the cache, middleware and routes.
func (a *App) Init() error {
	if err := a.Config.Image.validate(); err != nil {
		return fmt.Errorf("ogimage: %w", err)
	}
	if _, err := a.Config.Image.BackgroundColor(); err != nil {
		return fmt.Errorf("ogimage: %w", err)
	}

	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("ogimage: init store: %w", err)
	}
	a.Store = store
	a.Cache = NewRenderCache(a.Config.Image, a.Store, a.Config.CacheTTL)
	a.uploadLimiter = NewRateLimiter(a.uploadMax, a.uploadWindow)
	a.previewLimiter = NewRateLimiter(previewsPerMinute, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server stops.
func (a *App) Start() error {
	if err := a.Init(); err != nil {
		return err
	}
	if a.Config.AdminToken == "" {
		a.Echo.Logger.Warn("ogimage: OG_ADMIN_TOKEN is empty, logo uploads are disabled")
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo
	e.GET("/api/health", handleHealth)
	e.GET("/og-image.png", a.handleImage)
	e.GET("/og-meta", a.handleMeta)
	e.GET("/api/renders", a.handleRenders)
	e.POST("/admin/logo", a.handleLogoUpload)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.uploadLimiter != nil {
		a.uploadLimiter.Stop()
	}
	if a.previewLimiter != nil {
		a.previewLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
