package bcasweb

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/AguayoD/bcasweb/storage"
)

// Storage drivers accepted in SiteConfig.StorageDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// SiteConfig holds all configuration for a school site. The env tags are read
// by cleanenv in cmd/bcasweb.
type SiteConfig struct {
	Name        string `env:"SITE_NAME" env-default:"Our School"`
	URL         string `env:"SITE_URL" env-default:"http://localhost:3000"`
	Description string `env:"SITE_DESCRIPTION"`

	Addr          string `env:"ADDR" env-default:":3000"`
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"sqlite"`
	DatabasePath  string `env:"DATABASE_PATH" env-default:"data/site.db"`
	DatabaseURL   string `env:"DATABASE_URL"`

	AdminPassword string `env:"ADMIN_PASSWORD"` // required to serve
	SessionSecret string `env:"SESSION_SECRET"` // required to serve
	CookieSecure  bool   `env:"COOKIE_SECURE" env-default:"false"`

	SessionMaxAge time.Duration `env:"SESSION_MAX_AGE" env-default:"12h"`

	PageCacheTTL time.Duration `env:"PAGE_CACHE_TTL" env-default:"5m"`
	LogLevel     string        `env:"LOG_LEVEL" env-default:"info"`
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Our School"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StorageDriver == "" {
		c.StorageDriver = DriverSQLite
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/site.db"
	}
	if c.SessionMaxAge <= 0 {
		c.SessionMaxAge = 12 * time.Hour
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 5 * time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// OpenBackend opens the storage backend cfg selects.
func OpenBackend(ctx context.Context, cfg SiteConfig) (storage.Backend, error) {
	cfg.setDefaults()
	switch cfg.StorageDriver {
	case DriverSQLite:
		db, err := storage.OpenSQLite(cfg.DatabasePath)
		if err != nil {
			return nil, err
		}
		return db, nil
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres driver needs DATABASE_URL")
		}
		pool, err := storage.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return pool, nil
	case DriverMemory:
		return storage.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// NewLogger returns a zerolog logger writing to stderr at the level named by
// level, falling back to info for an empty or unknown name.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).Level(lvl).With().Timestamp().Logger()
}

// Option configures additional App behavior.
type Option func(*App)

// WithBackend makes the app use b instead of opening the configured driver.
// The app takes ownership and closes b on Close.
func WithBackend(b storage.Backend) Option {
	return func(a *App) {
		a.backend = b
	}
}

// WithZerolog replaces the logger built from LogLevel.
func WithZerolog(l zerolog.Logger) Option {
	return func(a *App) {
		a.logger = l
		a.loggerSet = true
	}
}

// WithViews replaces the default embedded page templates. Nil fields keep
// the default.
func WithViews(v ViewFuncs) Option {
	return func(a *App) {
		a.Views = a.Views.merge(v)
	}
}

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the app after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for site-owned static assets (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}
