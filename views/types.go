package views

import (
	"html/template"

	"github.com/AguayoD/bcasweb/content"
)

// Messages shown in place of an empty collection.
const (
	EmptyNews     = "No news yet."
	EmptyEvents   = "No upcoming events."
	EmptySections = "No sections yet."
	EmptyTeam     = "No team members yet."
	EmptyValues   = "No core values yet."
)

// SiteConfig holds site-wide settings every template can read.
type SiteConfig struct {
	Name        string // SITE_NAME
	URL         string // SITE_URL
	Description string // SITE_DESCRIPTION
}

// PageMeta carries per-page SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	JSONLD      template.JS
}

// Banner is a hero ready to render. Style is either the cover-fill
// background of the image or the placeholder gradient.
type Banner struct {
	Title    string
	Subtitle string
	Style    template.CSS
	HasImage bool
}

// Picture is an image in a fixed frame.
type Picture struct {
	Src   template.URL
	Alt   string
	Style template.CSS
}

// NewsCard is a news item on the home page.
type NewsCard struct {
	Title      string
	Date       string
	Paragraphs []string
	Picture    *Picture
}

// EventCard is an event on the home page.
type EventCard struct {
	Title      string
	Date       string
	Location   string
	Paragraphs []string
	Picture    *Picture
}

// SectionBlock is an about section.
type SectionBlock struct {
	Title      string
	Paragraphs []string
	Picture    *Picture
	Reverse    bool
}

// MemberCard is a team member profile.
type MemberCard struct {
	Name     string
	Position string
	Bio      string
	Picture  *Picture
}

// ValueCard is a core value.
type ValueCard struct {
	Title       string
	Description string
	Icon        string
}

// HomePage is everything the public home page shows.
type HomePage struct {
	Site   SiteConfig
	Meta   PageMeta
	Hero   Banner
	News   []NewsCard
	Events []EventCard
}

// AboutPage is everything the public about page shows.
type AboutPage struct {
	Site     SiteConfig
	Meta     PageMeta
	Hero     Banner
	Sections []SectionBlock
	Team     []MemberCard
	Values   []ValueCard
}

// PositionEditor describes the open interactive position editor.
type PositionEditor struct {
	Kind    string
	ID      int64
	Label   string
	X       float64
	Y       float64
	Scale   float64
	Preview template.CSS
	Image   template.URL
	// Cover is true for banners (background preview) and false for framed
	// images (img preview).
	Cover bool
}

// HeroForm is one banner on the hero tab.
type HeroForm struct {
	Kind     string // "hero" or "about-hero"
	Name     string // "home" or "about"
	Label    string
	Settings content.HeroSettings
	Preview  Banner
}

// Dashboard is the admin page.
type Dashboard struct {
	Site     SiteConfig
	Tab      string
	Tabs     []string
	Message  string
	CSRF     string
	Heroes   []HeroForm
	News     []content.NewsItem
	Events   []content.EventItem
	Sections []SectionForm
	Team     []content.TeamMember
	Values   []content.ValueItem
	Position *PositionEditor
}

// SectionForm is an about section with its framed preview.
type SectionForm struct {
	content.AboutSection
	Preview *Picture
}
