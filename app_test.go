package bcasweb

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AguayoD/bcasweb/content"
	"github.com/AguayoD/bcasweb/storage"
	"github.com/AguayoD/bcasweb/views"
)

const testPassword = "correct horse"

func setupTestApp(t *testing.T) *App {
	t.Helper()
	a := New(SiteConfig{
		Name:          "Test School",
		URL:           "https://school.example",
		AdminPassword: testPassword,
		SessionSecret: "0123456789abcdef0123456789abcdef",
	},
		WithBackend(storage.NewMemory()),
		WithZerolog(zerolog.Nop()),
		WithStaticDir(t.TempDir()),
	)
	require.NoError(t, a.Setup(context.Background()))
	t.Cleanup(func() { a.Close() })
	return a
}

// testClient drives the app in process and keeps cookies between requests
// like a browser would.
type testClient struct {
	t       *testing.T
	app     *App
	cookies map[string]*http.Cookie
}

func newTestClient(t *testing.T, a *App) *testClient {
	return &testClient{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	tc.t.Helper()
	for _, c := range tc.cookies {
		req.AddCookie(c)
	}
	if tok, ok := tc.cookies["_csrf"]; ok && req.Method != http.MethodGet {
		req.Header.Set("X-CSRF-Token", tok.Value)
	}
	rec := httptest.NewRecorder()
	tc.app.Echo.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(tc.cookies, c.Name)
			continue
		}
		tc.cookies[c.Name] = c
	}
	return rec
}

func (tc *testClient) get(path string) *httptest.ResponseRecorder {
	tc.t.Helper()
	return tc.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (tc *testClient) post(path string, form url.Values) *httptest.ResponseRecorder {
	tc.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

// login fetches the login form for a CSRF cookie and signs in.
func (tc *testClient) login() {
	tc.t.Helper()
	require.Equal(tc.t, http.StatusOK, tc.get("/admin/").Code)
	rec := tc.post("/admin/login/", url.Values{"password": {testPassword}})
	require.Equal(tc.t, http.StatusSeeOther, rec.Code)
	require.Contains(tc.t, tc.cookies, sessionName)
}

func TestHomePageShowsDefaultsAndEmptyStates(t *testing.T) {
	tc := newTestClient(t, setupTestApp(t))
	rec := tc.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome to Our School")
	assert.Contains(t, body, views.EmptyNews)
	assert.Contains(t, body, views.EmptyEvents)
	assert.Contains(t, body, "linear-gradient", "a banner without image uses the placeholder")
	assert.Len(t, rec.Header().Get("X-Request-Id"), 36)
}

func TestAboutPageShowsEmptyStates(t *testing.T) {
	tc := newTestClient(t, setupTestApp(t))
	rec := tc.get("/about/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "About Us")
	assert.Contains(t, body, views.EmptySections)
	assert.Contains(t, body, views.EmptyTeam)
	assert.Contains(t, body, views.EmptyValues)
}

func TestUnknownPageRendersNotFound(t *testing.T) {
	tc := newTestClient(t, setupTestApp(t))
	rec := tc.get("/nope/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestAdminShowsLoginWithoutSession(t *testing.T) {
	tc := newTestClient(t, setupTestApp(t))
	rec := tc.get("/admin/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="password"`)
	assert.Contains(t, tc.cookies, "_csrf")
}

func TestAdminLoginWrongPassword(t *testing.T) {
	tc := newTestClient(t, setupTestApp(t))
	tc.get("/admin/")
	rec := tc.post("/admin/login/", url.Values{"password": {"guess"}})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid password.")
	assert.NotContains(t, tc.cookies, sessionName)
}

func TestAdminLoginIsRateLimited(t *testing.T) {
	tc := newTestClient(t, setupTestApp(t))
	tc.get("/admin/")
	for i := 0; i < 5; i++ {
		tc.post("/admin/login/", url.Values{"password": {"guess"}})
	}
	rec := tc.post("/admin/login/", url.Values{"password": {testPassword}})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestAdminMutationsNeedSession(t *testing.T) {
	a := setupTestApp(t)
	tc := newTestClient(t, a)
	tc.get("/admin/")

	rec := tc.post("/admin/items/news/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, a.Store.Snapshot().News)
}

func TestAdminMutationsNeedCSRFToken(t *testing.T) {
	a := setupTestApp(t)
	tc := newTestClient(t, a)
	tc.login()
	delete(tc.cookies, "_csrf")

	rec := tc.post("/admin/items/news/", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, a.Store.Snapshot().News)
}

func TestAdminSessionExpires(t *testing.T) {
	a := setupTestApp(t)
	tc := newTestClient(t, a)
	tc.login()

	signedIn := time.Now()
	a.now = func() time.Time { return signedIn.Add(a.Config.SessionMaxAge + time.Minute) }

	rec := tc.post("/admin/items/news/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, a.Store.Snapshot().News)
	assert.Contains(t, tc.get("/admin/").Body.String(), `action="/admin/login/"`)
}

func TestAdminLogoutEndsSession(t *testing.T) {
	a := setupTestApp(t)
	tc := newTestClient(t, a)
	tc.login()

	rec := tc.post("/admin/logout/", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotContains(t, tc.cookies, sessionName)

	rec = tc.post("/admin/items/news/", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestAdminAddAndEditNewsShowsOnHomePage(t *testing.T) {
	a := setupTestApp(t)
	tc := newTestClient(t, a)
	tc.login()

	// Warm the page cache so the edit has to invalidate it.
	require.Contains(t, tc.get("/").Body.String(), views.EmptyNews)

	rec := tc.post("/admin/items/news/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	news := a.Store.Snapshot().News
	require.Len(t, news, 1)
	assert.Equal(t, "News Title 1", news[0].Title)
	assert.Equal(t, TabNews, a.Editor.Tab())

	id := news[0].ID
	rec = tc.post("/admin/items/news/"+itoa(id)+"/", url.Values{
		"title":   {"Science Fair"},
		"content": {"First paragraph.\n\nSecond paragraph."},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	got := a.Store.Snapshot().News[0]
	assert.Equal(t, "Science Fair", got.Title)
	assert.Equal(t, news[0].Date, got.Date, "fields not posted are untouched")

	body := tc.get("/").Body.String()
	assert.Contains(t, body, "Science Fair")
	assert.Contains(t, body, "<p>Second paragraph.</p>")
	assert.NotContains(t, body, views.EmptyNews)

	rec = tc.post("/admin/items/news/"+itoa(id)+"/delete/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, a.Store.Snapshot().News)
}

func TestAdminSectionReverseCheckbox(t *testing.T) {
	a := setupTestApp(t)
	tc := newTestClient(t, a)
	tc.login()

	tc.post("/admin/items/section/", nil)
	sec := a.Store.Snapshot().Sections[0]
	require.False(t, sec.ReverseLayout, "the first section starts image-left")

	rec := tc.post("/admin/items/section/"+itoa(sec.ID)+"/", url.Values{"reverseLayout": {"false", "true"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, a.Store.Snapshot().Sections[0].ReverseLayout)

	rec = tc.post("/admin/items/section/"+itoa(sec.ID)+"/", url.Values{"reverseLayout": {"maybe"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminRejectsUnknownInput(t *testing.T) {
	tc := newTestClient(t, setupTestApp(t))
	tc.login()

	assert.Equal(t, http.StatusBadRequest, tc.post("/admin/items/gallery/", nil).Code)
	assert.Equal(t, http.StatusBadRequest, tc.post("/admin/tab/gallery/", nil).Code)
	assert.Equal(t, http.StatusBadRequest, tc.post("/admin/heroes/contact/", nil).Code)
	assert.Equal(t, http.StatusBadRequest, tc.post("/admin/position/", url.Values{"x": {"1"}, "y": {"2"}, "scale": {"1"}}).Code,
		"no position editor is open")
}

func TestAdminHeroSaveAndReset(t *testing.T) {
	a := setupTestApp(t)
	tc := newTestClient(t, a)
	tc.login()

	rec := tc.post("/admin/heroes/about/", url.Values{"title": {"Our Story"}})
	require.Equal(t, http.StatusOK, rec.Code)
	hero, err := a.Store.Hero(content.AboutHero)
	require.NoError(t, err)
	assert.Equal(t, "Our Story", hero.Title)
	assert.Equal(t, content.DefaultHero(content.AboutHero).Subtitle, hero.Subtitle)
	assert.Contains(t, tc.get("/about/").Body.String(), "Our Story")

	rec = tc.post("/admin/heroes/about/reset/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hero, err = a.Store.Hero(content.AboutHero)
	require.NoError(t, err)
	assert.Equal(t, content.DefaultHero(content.AboutHero), hero)
}

func pngUpload(t *testing.T, w, h int) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "banner.png")
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

func TestAdminImageUploadAndPositionEditor(t *testing.T) {
	a := setupTestApp(t)
	tc := newTestClient(t, a)
	tc.login()

	body, ctype := pngUpload(t, 40, 20)
	req := httptest.NewRequest(http.MethodPost, "/admin/images/hero/0/", body)
	req.Header.Set("Content-Type", ctype)
	rec := tc.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	hero, err := a.Store.Hero(content.HomeHero)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hero.Image, "data:image/jpeg;base64,"))
	assert.Equal(t, content.DefaultPosition(), hero.ImagePosition)

	rec = tc.post("/admin/position/hero/0/open/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Reset to center")

	rec = tc.post("/admin/position/", url.Values{"x": {"250"}, "y": {"30"}, "scale": {"3"}})
	require.Equal(t, http.StatusOK, rec.Code)
	hero, err = a.Store.Hero(content.HomeHero)
	require.NoError(t, err)
	assert.Equal(t, content.ImagePosition{X: 100, Y: 30, Scale: 2}, hero.ImagePosition)

	home := tc.get("/").Body.String()
	assert.Contains(t, home, "background-size: 200%")
	assert.Contains(t, home, "background-position: 100% 30%")

	rec = tc.post("/admin/position/drag/", url.Values{"dx": {"50"}, "dy": {"-20"}, "width": {"500"}, "height": {"200"}})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-drag="/admin/position/drag/"`)
	hero, err = a.Store.Hero(content.HomeHero)
	require.NoError(t, err)
	assert.Equal(t, content.ImagePosition{X: 90, Y: 40, Scale: 2}, hero.ImagePosition)

	rec = tc.post("/admin/position/drag/", url.Values{"dx": {"x"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = tc.post("/admin/position/done/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, a.Editor.IsPositionEditorOpen())

	rec = tc.post("/admin/images/hero/0/delete/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, a.Store.HasImage(HeroRef(content.HomeHero)))
	assert.Contains(t, tc.get("/").Body.String(), "linear-gradient")
}

func TestAdminImageUploadRejectsNonImages(t *testing.T) {
	tc := newTestClient(t, setupTestApp(t))
	tc.login()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/images/hero/0/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := tc.do(req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContentJSON(t *testing.T) {
	a := setupTestApp(t)
	_, err := a.Store.AddEvent(content.EventItem{Title: "Concert"})
	require.NoError(t, err)

	rec := newTestClient(t, a).get("/api/content")
	require.Equal(t, http.StatusOK, rec.Code)

	var got Content
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, a.Store.Snapshot(), got)
}

func TestFeedAndSitemap(t *testing.T) {
	a := setupTestApp(t)
	_, err := a.Store.AddNews(content.NewsItem{Title: "Sports Day", Date: "6/14/2024"})
	require.NoError(t, err)
	tc := newTestClient(t, a)

	rec := tc.get("/feed.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Sports Day</title>")
	assert.Contains(t, rec.Body.String(), "<pubDate>Fri, 14 Jun 2024 00:00:00 +0000</pubDate>")

	rec = tc.get("/sitemap.xml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<loc>https://school.example/about/</loc>")

	rec = tc.get("/robots.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sitemap: https://school.example/sitemap.xml")
}

func TestStylesheetFallsBackToEmbedded(t *testing.T) {
	rec := newTestClient(t, setupTestApp(t)).get("/public/site.css")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".hero-section")
}

func TestPositionScriptIsServed(t *testing.T) {
	rec := newTestClient(t, setupTestApp(t)).get("/public/position.js")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/admin/")
	assert.Contains(t, rec.Body.String(), "X-CSRF-Token")
}

func TestSetupRequiresSecrets(t *testing.T) {
	a := New(SiteConfig{}, WithBackend(storage.NewMemory()), WithZerolog(zerolog.Nop()))
	assert.Error(t, a.Setup(context.Background()))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
