package bcasweb

import (
	"crypto/subtle"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/AguayoD/bcasweb/content"
	"github.com/AguayoD/bcasweb/views"
)

// itemFields lists the editable text fields of every collection kind, in
// the order the dashboard applies them.
var itemFields = map[Kind][]string{
	KindNews:    {"title", "date", "content"},
	KindEvent:   {"title", "date", "location", "description"},
	KindSection: {"title", "content", "reverseLayout"},
	KindMember:  {"name", "position", "bio"},
	KindValue:   {"icon", "title", "description"},
}

var heroFields = []string{"title", "subtitle"}

func (a *App) handleAdmin(c echo.Context) error {
	if !a.isAdmin(c) {
		return Render(c, a.Views.AdminLogin(a.site(), false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		a.logger.Warn().Str("ip", ip).Msg("login rate limited")
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		a.loginLimiter.Reset(ip)
		if err := a.saveAdminSession(c, true); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.loginLimiter.Record(ip)
	a.logger.Info().Str("ip", ip).Msg("failed admin login")
	return RenderStatus(c, http.StatusUnauthorized, a.Views.AdminLogin(a.site(), true, CsrfToken(c)))
}

func (a *App) handleAdminLogout(c echo.Context) error {
	if err := a.saveAdminSession(c, false); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleSelectTab(c echo.Context) error {
	tab, err := ParseTab(c.Param("tab"))
	if err != nil {
		return a.editError(err)
	}
	if err := a.Editor.SelectTab(tab); err != nil {
		return a.editError(err)
	}
	return a.renderAdminDashboard(c, "")
}

func parseHero(name string) (content.Hero, error) {
	h := content.Hero(name)
	if !h.Valid() {
		return "", echo.NewHTTPError(http.StatusBadRequest, "unknown banner "+strconv.Quote(name))
	}
	return h, nil
}

// formValue returns the last value posted for name. A checkbox posted after
// its hidden fallback therefore wins over it.
func formValue(form map[string][]string, name string) (string, bool) {
	vals, ok := form[name]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[len(vals)-1], true
}

func (a *App) handleHeroSave(c echo.Context) error {
	h, err := parseHero(c.Param("hero"))
	if err != nil {
		return err
	}
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	for _, name := range heroFields {
		v, ok := formValue(form, name)
		if !ok {
			continue
		}
		u, err := content.ParseHeroField(name, v)
		if err != nil {
			return a.editError(err)
		}
		if err := a.Store.UpdateHero(h, u); err != nil {
			return a.editError(err)
		}
	}
	return a.renderAdminDashboard(c, "banner saved")
}

func (a *App) handleHeroReset(c echo.Context) error {
	h, err := parseHero(c.Param("hero"))
	if err != nil {
		return err
	}
	if err := a.Store.ResetHero(h); err != nil {
		return a.editError(err)
	}
	if target, open := a.Editor.PositionTarget(); open && target == HeroRef(h) {
		a.Editor.Done()
	}
	return a.renderAdminDashboard(c, "banner reset")
}

func (a *App) handleItemAdd(c echo.Context) error {
	var (
		tab Tab
		err error
	)
	switch Kind(c.Param("kind")) {
	case KindNews:
		tab = TabNews
		_, err = a.Store.AddNews(content.NewsItem{})
	case KindEvent:
		tab = TabEvents
		_, err = a.Store.AddEvent(content.EventItem{})
	case KindSection:
		tab = TabAbout
		_, err = a.Store.AddSection(content.AboutSection{})
	case KindMember:
		tab = TabAbout
		_, err = a.Store.AddMember(content.TeamMember{})
	case KindValue:
		tab = TabAbout
		_, err = a.Store.AddValue(content.ValueItem{})
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown collection "+strconv.Quote(c.Param("kind")))
	}
	if err != nil {
		return a.editError(err)
	}
	if a.Editor.Tab() != tab {
		if err := a.Editor.SelectTab(tab); err != nil {
			return err
		}
	}
	return a.renderAdminDashboard(c, "added")
}

func (a *App) handleItemSave(c echo.Context) error {
	ref, err := ParseRef(c.Param("kind"), c.Param("id"))
	if err != nil {
		return a.editError(err)
	}
	fields, ok := itemFields[ref.Kind]
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "not a collection: "+string(ref.Kind))
	}
	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	for _, name := range fields {
		v, ok := formValue(form, name)
		if !ok {
			continue
		}
		if err := a.updateField(ref, name, v); err != nil {
			return a.editError(err)
		}
	}
	return a.renderAdminDashboard(c, "saved")
}

// updateField applies a single field edit to the entity ref addresses.
func (a *App) updateField(ref Ref, name, value string) error {
	switch ref.Kind {
	case KindNews:
		u, err := content.ParseNewsField(name, value)
		if err != nil {
			return err
		}
		return a.Store.UpdateNews(ref.ID, u)
	case KindEvent:
		u, err := content.ParseEventField(name, value)
		if err != nil {
			return err
		}
		return a.Store.UpdateEvent(ref.ID, u)
	case KindSection:
		u, err := content.ParseSectionField(name, value)
		if err != nil {
			return err
		}
		return a.Store.UpdateSection(ref.ID, u)
	case KindMember:
		u, err := content.ParseMemberField(name, value)
		if err != nil {
			return err
		}
		return a.Store.UpdateMember(ref.ID, u)
	case KindValue:
		u, err := content.ParseValueField(name, value)
		if err != nil {
			return err
		}
		return a.Store.UpdateValue(ref.ID, u)
	}
	return ErrUnknownKind
}

func (a *App) handleItemDelete(c echo.Context) error {
	ref, err := ParseRef(c.Param("kind"), c.Param("id"))
	if err != nil {
		return a.editError(err)
	}
	switch ref.Kind {
	case KindNews:
		err = a.Store.RemoveNews(ref.ID)
	case KindEvent:
		err = a.Store.RemoveEvent(ref.ID)
	case KindSection:
		err = a.Store.RemoveSection(ref.ID)
	case KindMember:
		err = a.Store.RemoveMember(ref.ID)
	case KindValue:
		err = a.Store.RemoveValue(ref.ID)
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "not a collection: "+string(ref.Kind))
	}
	if err != nil {
		return a.editError(err)
	}
	if target, open := a.Editor.PositionTarget(); open && target == ref {
		a.Editor.Done()
	}
	return a.renderAdminDashboard(c, "deleted")
}

func (a *App) handlePositionOpen(c echo.Context) error {
	ref, err := ParseRef(c.Param("kind"), c.Param("id"))
	if err != nil {
		return a.editError(err)
	}
	if !a.Store.HasImage(ref) {
		return echo.NewHTTPError(http.StatusBadRequest, "upload an image first")
	}
	if err := a.Editor.OpenPositionEditor(ref); err != nil {
		return a.editError(err)
	}
	return a.renderAdminDashboard(c, "")
}

func parseFloats(c echo.Context, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		v, err := strconv.ParseFloat(c.FormValue(name), 64)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
		}
		out[i] = v
	}
	return out, nil
}

func (a *App) handlePositionSet(c echo.Context) error {
	v, err := parseFloats(c, "x", "y", "scale")
	if err != nil {
		return err
	}
	if err := a.Editor.SetPosition(content.ImagePosition{X: v[0], Y: v[1], Scale: v[2]}); err != nil {
		return a.editError(err)
	}
	return a.renderAdminDashboard(c, "")
}

func (a *App) handlePositionDrag(c echo.Context) error {
	v, err := parseFloats(c, "dx", "dy", "width", "height")
	if err != nil {
		return err
	}
	if err := a.Editor.DragBy(v[0], v[1], v[2], v[3]); err != nil {
		return a.editError(err)
	}
	return a.renderAdminDashboard(c, "")
}

func (a *App) handlePositionZoom(c echo.Context) error {
	v, err := parseFloats(c, "delta")
	if err != nil {
		return err
	}
	if err := a.Editor.ZoomBy(v[0]); err != nil {
		return a.editError(err)
	}
	return a.renderAdminDashboard(c, "")
}

func (a *App) handlePositionCenter(c echo.Context) error {
	if err := a.Editor.ResetToCenter(); err != nil {
		return a.editError(err)
	}
	return a.renderAdminDashboard(c, "")
}

func (a *App) handlePositionDone(c echo.Context) error {
	a.Editor.Done()
	return a.renderAdminDashboard(c, "position saved")
}

// editError turns a rejected edit into a 400. Anything else is a server
// failure and goes to the error handler as is.
func (a *App) editError(err error) error {
	var numErr *strconv.NumError
	switch {
	case errors.Is(err, content.ErrUnknownField),
		errors.Is(err, ErrUnknownKind),
		errors.Is(err, ErrUnknownHero),
		errors.Is(err, ErrUnknownTab),
		errors.Is(err, ErrNoImage),
		errors.Is(err, ErrNoImagePosition),
		errors.Is(err, ErrEditorClosed),
		errors.As(err, &numErr):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.logger.Error().Err(err).Msg("edit failed")
	return err
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	return Render(c, a.Views.AdminDashboard(a.dashboard(msg, CsrfToken(c))))
}

// dashboard builds the admin page from the current content and editor
// state.
func (a *App) dashboard(msg, csrf string) views.Dashboard {
	snap := a.Store.Snapshot()
	tabs := make([]string, len(Tabs))
	for i, t := range Tabs {
		tabs[i] = string(t)
	}
	d := views.Dashboard{
		Site:    a.site(),
		Tab:     string(a.Editor.Tab()),
		Tabs:    tabs,
		Message: msg,
		CSRF:    csrf,
		Heroes: []views.HeroForm{
			{Kind: string(KindHero), Name: string(content.HomeHero), Label: "Home page banner", Settings: snap.Hero, Preview: BuildBanner(snap.Hero)},
			{Kind: string(KindAboutHero), Name: string(content.AboutHero), Label: "About page banner", Settings: snap.AboutHero, Preview: BuildBanner(snap.AboutHero)},
		},
		News:   snap.News,
		Events: snap.Events,
		Team:   snap.Team,
		Values: snap.Values,
	}
	for _, s := range snap.Sections {
		d.Sections = append(d.Sections, views.SectionForm{
			AboutSection: s,
			Preview:      BuildPicture(s.Image, s.Title, s.ImagePosition),
		})
	}
	if ref, open := a.Editor.PositionTarget(); open {
		if pe, ok := positionEditor(snap, ref); ok {
			d.Position = &pe
		} else {
			a.Editor.Done()
		}
	}
	return d
}

// positionEditor describes the preview of ref. ok is false when the entity
// is gone or has no image left to position.
func positionEditor(c Content, ref Ref) (views.PositionEditor, bool) {
	img, pos, found, err := c.imageFields(ref)
	if err != nil || !found || pos == nil || *img == "" {
		return views.PositionEditor{}, false
	}
	src := views.SafeImage(*img)
	if src == "" {
		return views.PositionEditor{}, false
	}
	p := pos.Clamp()
	pe := views.PositionEditor{
		Kind:  string(ref.Kind),
		ID:    ref.ID,
		X:     p.X,
		Y:     p.Y,
		Scale: p.Scale,
		Image: src,
		Cover: ref.Kind.IsHero(),
	}
	switch ref.Kind {
	case KindHero:
		pe.Label = "Home page banner"
	case KindAboutHero:
		pe.Label = "About page banner"
	default:
		pe.Label = "Section image"
		for _, s := range c.Sections {
			if s.ID == ref.ID && s.Title != "" {
				pe.Label = s.Title
			}
		}
	}
	if pe.Cover {
		pe.Preview = template.CSS(content.CoverFill(p).Style(string(src)))
	} else {
		pe.Preview = template.CSS(content.ObjectFit(p).Style())
	}
	return pe, true
}
