// Package bcasweb serves a small school website: a home page with a banner,
// news and events, an about page with sections, team and core values, and an
// admin dashboard where every piece of that content is edited.
//
// Content lives in a Store over a pluggable storage backend. Pages are
// rendered from ViewFuncs, which default to the templates embedded in the
// views package and can be replaced by the site.
package bcasweb

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/AguayoD/bcasweb/storage"
	"github.com/AguayoD/bcasweb/views"
)

// ViewFuncs holds the components the app calls when rendering pages.
type ViewFuncs struct {
	Home           func(p views.HomePage) templ.Component
	About          func(p views.AboutPage) templ.Component
	AdminLogin     func(site views.SiteConfig, showError bool, csrfToken string) templ.Component
	AdminDashboard func(d views.Dashboard) templ.Component
	NotFound       func(site views.SiteConfig) templ.Component
	ServerError    func(site views.SiteConfig) templ.Component
}

// DefaultViews returns the embedded templates of the views package.
func DefaultViews() ViewFuncs {
	return ViewFuncs{
		Home:           views.Home,
		About:          views.About,
		AdminLogin:     views.AdminLogin,
		AdminDashboard: views.AdminDashboard,
		NotFound:       views.NotFound,
		ServerError:    views.ServerError,
	}
}

func (v ViewFuncs) merge(o ViewFuncs) ViewFuncs {
	if o.Home != nil {
		v.Home = o.Home
	}
	if o.About != nil {
		v.About = o.About
	}
	if o.AdminLogin != nil {
		v.AdminLogin = o.AdminLogin
	}
	if o.AdminDashboard != nil {
		v.AdminDashboard = o.AdminDashboard
	}
	if o.NotFound != nil {
		v.NotFound = o.NotFound
	}
	if o.ServerError != nil {
		v.ServerError = o.ServerError
	}
	return v
}

// App is the central application. It wires together the store, editor, page
// cache, handlers, middleware and views.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *Store
	Editor *Editor
	Cache  *PageCache
	Views  ViewFuncs

	backend      storage.Backend
	logger       zerolog.Logger
	loggerSet    bool
	loginLimiter *loginLimiter
	customRoutes []func(*App)
	staticDir    string
	now          func() time.Time
}

// New creates an App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     DefaultViews(),
		staticDir: "public",
		now:       time.Now,
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if !a.loggerSet {
		a.logger = NewLogger(cfg.LogLevel)
	}
	return a
}

// Setup opens storage, loads content and registers middleware and routes.
// Start calls it; tests call it directly and drive a.Echo.
func (a *App) Setup(ctx context.Context) error {
	if a.Config.AdminPassword == "" {
		return errors.New("bcasweb: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return errors.New("bcasweb: SessionSecret is required")
	}

	if a.backend == nil {
		b, err := OpenBackend(ctx, a.Config)
		if err != nil {
			return fmt.Errorf("bcasweb: open storage: %w", err)
		}
		a.backend = b
	}

	store, err := NewStore(a.backend, WithLogger(a.logger.With().Str("component", "store").Logger()))
	if err != nil {
		return fmt.Errorf("bcasweb: load content: %w", err)
	}
	a.Store = store
	a.Editor = NewEditor(store)
	a.Cache = NewPageCache(store, a.site(), a.Config.PageCacheTTL)
	a.loginLimiter = newLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the app up and serves HTTP until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	a.logger.Info().Str("addr", a.Config.Addr).Str("storage", a.Config.StorageDriver).Msg("listening")
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the HTTP server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/site.css", a.handleAsset(embeddedFS, "site.css"))
	e.GET("/public/position.js", a.handleAsset(embeddedFS, "position.js"))
	e.Static("/public", a.staticDir)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/about/", a.handleAbout)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/api/content", a.handleContentJSON)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", a.handleAdminLogout)

	g := e.Group("/admin", a.requireAdmin)
	g.POST("/tab/:tab/", a.handleSelectTab)
	g.POST("/heroes/:hero/", a.handleHeroSave)
	g.POST("/heroes/:hero/reset/", a.handleHeroReset)
	g.POST("/items/:kind/", a.handleItemAdd)
	g.POST("/items/:kind/:id/", a.handleItemSave)
	g.POST("/items/:kind/:id/delete/", a.handleItemDelete)
	g.DELETE("/items/:kind/:id/", a.handleItemDelete)
	g.POST("/images/:kind/:id/", a.handleImageUpload)
	g.POST("/images/:kind/:id/delete/", a.handleImageDelete)
	g.DELETE("/images/:kind/:id/", a.handleImageDelete)
	g.POST("/position/:kind/:id/open/", a.handlePositionOpen)
	g.POST("/position/", a.handlePositionSet)
	g.POST("/position/drag/", a.handlePositionDrag)
	g.POST("/position/zoom/", a.handlePositionZoom)
	g.POST("/position/center/", a.handlePositionCenter)
	g.POST("/position/done/", a.handlePositionDone)
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{
		Name:        a.Config.Name,
		URL:         a.Config.URL,
		Description: a.Config.Description,
	}
}

// Logger returns the application logger.
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	if a.backend != nil {
		return a.backend.Close()
	}
	return nil
}
