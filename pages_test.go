package bcasweb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AguayoD/bcasweb/content"
	"github.com/AguayoD/bcasweb/views"
)

var testSite = views.SiteConfig{Name: "Test School", URL: "https://school.example"}

func TestBuildBannerWithoutImageUsesPlaceholder(t *testing.T) {
	b := BuildBanner(content.DefaultHero(content.HomeHero))
	assert.False(t, b.HasImage)
	assert.Equal(t, "background: "+content.PlaceholderGradient+";", string(b.Style))
	assert.Equal(t, "Welcome to Our School", b.Title)
}

func TestBuildBannerUsesCoverFill(t *testing.T) {
	h := content.DefaultHero(content.HomeHero)
	h.Image = "data:image/jpeg;base64,AAAA"
	h.ImagePosition = content.ImagePosition{X: 20, Y: 80, Scale: 1.1}

	b := BuildBanner(h)
	assert.True(t, b.HasImage)
	assert.Equal(t,
		"background-image: url('data:image/jpeg;base64,AAAA'); background-size: 110%; background-position: 20% 80%; background-repeat: no-repeat;",
		string(b.Style))
}

func TestBuildPicture(t *testing.T) {
	assert.Nil(t, BuildPicture("", "x", content.DefaultPosition()))
	assert.Nil(t, BuildPicture("javascript:alert(1)", "x", content.DefaultPosition()))

	p := BuildPicture("https://cdn.example/a.jpg", "Principal", content.ImagePosition{X: 10, Y: 90, Scale: 0.2})
	require.NotNil(t, p)
	assert.Equal(t, "https://cdn.example/a.jpg", string(p.Src))
	assert.Equal(t, "object-fit: cover; object-position: 10% 90%; transform: scale(0.5);", string(p.Style))
}

func TestBuildAboutPage(t *testing.T) {
	c := DefaultContent()
	c.Sections = []content.AboutSection{
		{ID: 1, Title: "History", Content: "Founded.\n\nGrew.", Image: "data:image/png;base64,AA", ImagePosition: content.DefaultPosition(), ReverseLayout: true},
	}
	c.Values = []content.ValueItem{{ID: 2, Title: "Respect", Icon: "🤝"}}

	p := BuildAboutPage(testSite, c)
	assert.Equal(t, "About Us | Test School", p.Meta.Title)
	assert.Equal(t, "https://school.example/about/", p.Meta.URL)
	require.Len(t, p.Sections, 1)
	assert.Equal(t, []string{"Founded.", "Grew."}, p.Sections[0].Paragraphs)
	assert.True(t, p.Sections[0].Reverse)
	require.NotNil(t, p.Sections[0].Picture)
	assert.Empty(t, p.Team)
	require.Len(t, p.Values, 1)
	assert.Equal(t, "🤝", p.Values[0].Icon)
}

func TestPageCacheInvalidatedOnChange(t *testing.T) {
	s, _ := setupTestStore(t)
	cache := NewPageCache(s, testSite, time.Hour)

	assert.Empty(t, cache.Home().News)

	_, err := s.AddNews(content.NewsItem{Title: "Open Day"})
	require.NoError(t, err)

	home := cache.Home()
	require.Len(t, home.News, 1)
	assert.Equal(t, "Open Day", home.News[0].Title)
}

func TestPageCacheServesCachedPagesWithinTTL(t *testing.T) {
	s, _ := setupTestStore(t)
	cache := NewPageCache(s, testSite, time.Hour)
	first := cache.About()

	// Writing around the store bypasses the change notification.
	cache.mu.Lock()
	cache.about.Hero.Title = "cached"
	cache.mu.Unlock()

	assert.Equal(t, "cached", cache.About().Hero.Title)
	assert.NotEqual(t, first.Hero.Title, "cached")

	cache.Invalidate()
	assert.Equal(t, "About Us", cache.About().Hero.Title)
}
