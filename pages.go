package bcasweb

import (
	"html/template"
	"sync"
	"time"

	"github.com/AguayoD/bcasweb/content"
	"github.com/AguayoD/bcasweb/views"
)

// BuildBanner turns hero settings into a renderable banner. A hero without a
// usable image gets the placeholder gradient.
func BuildBanner(h content.HeroSettings) views.Banner {
	b := views.Banner{Title: h.Title, Subtitle: h.Subtitle}
	if src := views.SafeImage(h.Image); src != "" {
		b.Style = template.CSS(content.CoverFill(h.ImagePosition).Style(string(src)))
		b.HasImage = true
	} else {
		b.Style = template.CSS("background: " + content.PlaceholderGradient + ";")
	}
	return b
}

// BuildPicture frames img at pos. It returns nil when there is nothing to
// show.
func BuildPicture(img, alt string, pos content.ImagePosition) *views.Picture {
	src := views.SafeImage(img)
	if src == "" {
		return nil
	}
	return &views.Picture{
		Src:   src,
		Alt:   alt,
		Style: template.CSS(content.ObjectFit(pos).Style()),
	}
}

// BuildHomePage assembles the public home page from a content snapshot.
func BuildHomePage(site views.SiteConfig, c Content) views.HomePage {
	p := views.HomePage{
		Site: site,
		Meta: views.PageMeta{
			Title:       site.Name,
			Description: site.Description,
			URL:         views.BuildURL(site.URL),
			JSONLD:      views.OrganizationJsonLD(site),
		},
		Hero: BuildBanner(c.Hero),
	}
	for _, n := range c.News {
		p.News = append(p.News, views.NewsCard{
			Title:      n.Title,
			Date:       n.Date,
			Paragraphs: views.Paragraphs(n.Content),
			Picture:    BuildPicture(n.Image, n.Title, content.DefaultPosition()),
		})
	}
	for _, e := range c.Events {
		p.Events = append(p.Events, views.EventCard{
			Title:      e.Title,
			Date:       e.Date,
			Location:   e.Location,
			Paragraphs: views.Paragraphs(e.Description),
			Picture:    BuildPicture(e.Image, e.Title, content.DefaultPosition()),
		})
	}
	return p
}

// BuildAboutPage assembles the public about page from a content snapshot.
func BuildAboutPage(site views.SiteConfig, c Content) views.AboutPage {
	p := views.AboutPage{
		Site: site,
		Meta: views.PageMeta{
			Title:       c.AboutHero.Title + " | " + site.Name,
			Description: c.AboutHero.Subtitle,
			URL:         views.BuildURL(site.URL, "about"),
		},
		Hero: BuildBanner(c.AboutHero),
	}
	for _, s := range c.Sections {
		p.Sections = append(p.Sections, views.SectionBlock{
			Title:      s.Title,
			Paragraphs: views.Paragraphs(s.Content),
			Picture:    BuildPicture(s.Image, s.Title, s.ImagePosition),
			Reverse:    s.ReverseLayout,
		})
	}
	for _, m := range c.Team {
		p.Team = append(p.Team, views.MemberCard{
			Name:     m.Name,
			Position: m.Position,
			Bio:      m.Bio,
			Picture:  BuildPicture(m.Image, m.Name, content.DefaultPosition()),
		})
	}
	for _, v := range c.Values {
		p.Values = append(p.Values, views.ValueCard{
			Title:       v.Title,
			Description: v.Description,
			Icon:        v.Icon,
		})
	}
	return p
}

// PageCache is an in-memory cache of the built public pages with TTL.
type PageCache struct {
	mu      sync.RWMutex
	home    *views.HomePage
	about   *views.AboutPage
	fetched time.Time
	ttl     time.Duration
	site    views.SiteConfig
	store   *Store
}

// NewPageCache creates a PageCache over s. It subscribes to the store so
// every committed edit drops the cached pages.
func NewPageCache(s *Store, site views.SiteConfig, ttl time.Duration) *PageCache {
	c := &PageCache{store: s, site: site, ttl: ttl}
	s.OnChange(c.Invalidate)
	return c
}

func (c *PageCache) valid() bool {
	return c.home != nil && time.Since(c.fetched) < c.ttl
}

// Invalidate clears the cache so the next read rebuilds the pages.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.home = nil
	c.about = nil
	c.mu.Unlock()
}

// ensureLoaded returns the cached pages after ensuring the cache is fresh.
// It tries a read lock first; only takes a write lock if a rebuild is needed.
func (c *PageCache) ensureLoaded() (views.HomePage, views.AboutPage) {
	c.mu.RLock()
	if c.valid() {
		home, about := *c.home, *c.about
		c.mu.RUnlock()
		return home, about
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.valid() {
		snap := c.store.Snapshot()
		home := BuildHomePage(c.site, snap)
		about := BuildAboutPage(c.site, snap)
		c.home, c.about = &home, &about
		c.fetched = time.Now()
	}
	return *c.home, *c.about
}

// Home returns the public home page.
func (c *PageCache) Home() views.HomePage {
	home, _ := c.ensureLoaded()
	return home
}

// About returns the public about page.
func (c *PageCache) About() views.AboutPage {
	_, about := c.ensureLoaded()
	return about
}
