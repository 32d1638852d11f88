package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("").Funcs(template.FuncMap{
	"tabClass":      TabClass,
	"imageControls": newImageControls,
}).ParseFS(templateFS, "templates/*.html"))

// imageControls is the data of the upload/remove/position buttons shown
// under every editable image.
type imageControls struct {
	Kind       string
	ID         int64
	HasImage   bool
	Positioned bool
	CSRF       string
}

func newImageControls(kind string, id int64, hasImage, positioned bool, csrf string) imageControls {
	return imageControls{Kind: kind, ID: id, HasImage: hasImage, Positioned: positioned, CSRF: csrf}
}

// component adapts a named template to the templ.Component interface so
// default pages and site-provided templ pages are interchangeable.
func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return pages.ExecuteTemplate(w, name, data)
	})
}

// Home renders the public home page.
func Home(p HomePage) templ.Component { return component("home", p) }

// About renders the public about page.
func About(p AboutPage) templ.Component { return component("about", p) }

// AdminLogin renders the password form.
func AdminLogin(site SiteConfig, showError bool, csrf string) templ.Component {
	return component("admin_login", struct {
		Site      SiteConfig
		ShowError bool
		CSRF      string
	}{site, showError, csrf})
}

// AdminDashboard renders the editing dashboard.
func AdminDashboard(d Dashboard) templ.Component { return component("admin_dashboard", d) }

// NotFound renders the 404 page.
func NotFound(site SiteConfig) templ.Component { return component("not_found", site) }

// ServerError renders the 500 page.
func ServerError(site SiteConfig) templ.Component { return component("server_error", site) }
