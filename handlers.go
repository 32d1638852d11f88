package bcasweb

import (
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	return Render(c, a.Views.Home(a.Cache.Home()))
}

func (a *App) handleAbout(c echo.Context) error {
	return Render(c, a.Views.About(a.Cache.About()))
}

func (a *App) handleSitemap(c echo.Context) error {
	return a.renderSitemap(c)
}

func (a *App) handleFeed(c echo.Context) error {
	return a.renderRSS(c, a.Store.Snapshot().News)
}

// handleContentJSON serves the whole content snapshot in the export format.
func (a *App) handleContentJSON(c echo.Context) error {
	return c.JSON(http.StatusOK, a.Store.Snapshot())
}

func (a *App) handleRobots(c echo.Context) error {
	path := filepath.Join(a.staticDir, "robots.txt")
	if _, err := os.Stat(path); err == nil {
		return c.File(path)
	}
	return c.String(http.StatusOK, "User-agent: *\nDisallow: /admin/\nSitemap: "+strings.TrimRight(a.Config.URL, "/")+"/sitemap.xml\n")
}

// handleAsset serves name from the static dir when the site ships one and
// the embedded default otherwise.
func (a *App) handleAsset(embedded fs.FS, name string) echo.HandlerFunc {
	fallback := echo.StaticFileHandler(name, embedded)
	return func(c echo.Context) error {
		path := filepath.Join(a.staticDir, name)
		if _, err := os.Stat(path); err == nil {
			return c.File(path)
		}
		return fallback(c)
	}
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	site := a.site()
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(site))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.logger.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("server error")
		_ = RenderStatus(c, code, a.Views.ServerError(site))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
