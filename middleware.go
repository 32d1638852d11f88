package bcasweb

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName    = "admin_session"
	signedInAtKey  = "signed_in_at"
	csrfCookieName = "_csrf"
)

// Inline styles carry banner backgrounds and uploaded images are data URLs;
// the only script is the position editor's drag helper under /public.
const contentSecurityPolicy = "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' https: data:; font-src 'self'; connect-src 'self'; form-action 'self'; frame-ancestors 'none'"

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	e.Use(
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		a.requestLogger(),
		middleware.Recover(),
		middleware.GzipWithConfig(middleware.GzipConfig{
			Level:   5,
			Skipper: isAssetPath,
		}),
		middleware.SecureWithConfig(middleware.SecureConfig{
			XSSProtection:         "1; mode=block",
			ContentTypeNosniff:    "nosniff",
			XFrameOptions:         "DENY",
			ReferrerPolicy:        "strict-origin-when-cross-origin",
			ContentSecurityPolicy: contentSecurityPolicy,
			HSTSMaxAge:            31536000,
		}),
		session.Middleware(a.newSessionStore()),
		a.csrf(),
		middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
			RedirectCode: http.StatusMovedPermanently,
			Skipper: func(c echo.Context) bool {
				path := c.Request().URL.Path
				return strings.HasPrefix(path, "/public") || strings.HasPrefix(path, "/api/") || isFeedPath(path)
			},
		}),
		cacheControlMiddleware,
	)
}

func isAssetPath(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/public/")
}

func isFeedPath(path string) bool {
	return path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt"
}

func (a *App) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ev := a.logger.Info()
			if v.Status >= 500 {
				ev = a.logger.Error()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}

// csrf guards every unsafe request. Forms post the token as _csrf; the drag
// script sends it in the X-CSRF-Token header.
func (a *App) csrf() echo.MiddlewareFunc {
	return middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    "header:X-CSRF-Token,form:_csrf",
		CookieName:     csrfCookieName,
		CookiePath:     "/",
		CookieMaxAge:   int(a.Config.SessionMaxAge / time.Second),
		CookieHTTPOnly: true,
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			a.logger.Warn().Err(err).Str("uri", c.Request().RequestURI).Msg("csrf check failed")
			return c.String(http.StatusForbidden, "Forbidden")
		},
	})
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		value := "public, max-age=300"
		switch {
		case strings.HasPrefix(path, "/public/"):
			value = "public, max-age=31536000, immutable"
		case isFeedPath(path):
			value = "public, max-age=86400"
		case strings.HasPrefix(path, "/admin"), strings.HasPrefix(path, "/api/"):
			value = "no-store"
		}
		c.Response().Header().Set("Cache-Control", value)
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/admin",
		HttpOnly: true,
		MaxAge:   int(a.Config.SessionMaxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// requireAdmin sends visitors without a live admin session back to the
// login form.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !a.isAdmin(c) {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
		return next(c)
	}
}

// isAdmin reports whether the request carries a session signed in less than
// SessionMaxAge ago. The cookie's own expiry is up to the browser.
func (a *App) isAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	at, ok := sess.Values[signedInAtKey].(int64)
	if !ok {
		return false
	}
	return a.now().Sub(time.Unix(at, 0)) < a.Config.SessionMaxAge
}

// saveAdminSession signs the session in, or out when signedIn is false.
func (a *App) saveAdminSession(c echo.Context, signedIn bool) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	if signedIn {
		sess.Values[signedInAtKey] = a.now().Unix()
	} else {
		delete(sess.Values, signedInAtKey)
		sess.Options.MaxAge = -1
	}
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
