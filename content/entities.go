package content

import (
	"fmt"
	"time"
)

// DateLayout is the display format used for dates assigned on creation.
const DateLayout = "1/2/2006"

// NewsItem is a dated announcement shown on the home page.
type NewsItem struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Date    string `json:"date"`
	Image   string `json:"imageUrl,omitempty"`
}

// EventItem is an upcoming event shown on the home page.
type EventItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Image       string `json:"imageUrl,omitempty"`
}

// HeroSettings is the banner at the top of the home and about pages. There is
// exactly one per page.
type HeroSettings struct {
	Image         string        `json:"image,omitempty"`
	Title         string        `json:"title"`
	Subtitle      string        `json:"subtitle"`
	ImagePosition ImagePosition `json:"imagePosition"`
}

// AboutSection is a titled block of text with an optional framed image.
type AboutSection struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Image         string        `json:"image,omitempty"`
	ImagePosition ImagePosition `json:"imagePosition"`
	ReverseLayout bool          `json:"reverseLayout"`
}

// TeamMember is a staff profile on the about page.
type TeamMember struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Bio      string `json:"bio"`
	Image    string `json:"image,omitempty"`
}

// ValueItem is one of the school's core values.
type ValueItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Hero identifies one of the two singleton banners.
type Hero string

const (
	HomeHero  Hero = "home"
	AboutHero Hero = "about"
)

// Valid reports whether h names a known banner.
func (h Hero) Valid() bool {
	return h == HomeHero || h == AboutHero
}

// DefaultHero returns the documented default banner for h.
func DefaultHero(h Hero) HeroSettings {
	if h == AboutHero {
		return HeroSettings{
			Title:         "About Us",
			Subtitle:      "Our history, our mission, and the people who make it happen",
			ImagePosition: DefaultPosition(),
		}
	}
	return HeroSettings{
		Title:         "Welcome to Our School",
		Subtitle:      "Excellence in Education Since 2000",
		ImagePosition: DefaultPosition(),
	}
}

// Normalize fills the position when it is absent and clamps it otherwise.
func (h HeroSettings) Normalize() HeroSettings {
	h.ImagePosition = h.ImagePosition.normalized()
	return h
}

// Normalize fills the position when it is absent and clamps it otherwise.
func (s AboutSection) Normalize() AboutSection {
	s.ImagePosition = s.ImagePosition.normalized()
	return s
}

// EntityID returns the id shared by every collection entity.
func (n NewsItem) EntityID() int64     { return n.ID }
func (e EventItem) EntityID() int64    { return e.ID }
func (s AboutSection) EntityID() int64 { return s.ID }
func (m TeamMember) EntityID() int64   { return m.ID }
func (v ValueItem) EntityID() int64    { return v.ID }

// Normalize returns n unchanged; news items carry no optional
// fields with a default.
func (n NewsItem) Normalize() NewsItem { return n }

// Normalize returns e unchanged.
func (e EventItem) Normalize() EventItem { return e }

// Normalize returns m unchanged.
func (m TeamMember) Normalize() TeamMember { return m }

// Normalize returns v unchanged.
func (v ValueItem) Normalize() ValueItem { return v }

// NewNews builds the nth news item of a collection. Fields left empty in
// seed receive placeholder content.
func NewNews(seed NewsItem, id int64, n int, now time.Time) NewsItem {
	seed.ID = id
	seed.Title = orDefault(seed.Title, fmt.Sprintf("News Title %d", n))
	seed.Content = orDefault(seed.Content, "News content here...")
	seed.Date = orDefault(seed.Date, now.Format(DateLayout))
	return seed.Normalize()
}

// NewEvent builds the nth event of a collection.
func NewEvent(seed EventItem, id int64, n int, now time.Time) EventItem {
	seed.ID = id
	seed.Title = orDefault(seed.Title, fmt.Sprintf("Event %d", n))
	seed.Description = orDefault(seed.Description, "Event description here...")
	seed.Date = orDefault(seed.Date, now.Format(DateLayout))
	seed.Location = orDefault(seed.Location, "School Auditorium")
	return seed.Normalize()
}

// NewSection builds the nth about section. Even-numbered sections start with
// the image on the other side so the page alternates by default; an explicit
// reverse flag in seed is kept.
func NewSection(seed AboutSection, id int64, n int) AboutSection {
	seed.ID = id
	seed.Title = orDefault(seed.Title, fmt.Sprintf("Section Title %d", n))
	seed.Content = orDefault(seed.Content, "Section content here...")
	if !seed.ReverseLayout {
		seed.ReverseLayout = n%2 == 0
	}
	return seed.Normalize()
}

// NewMember builds the nth team member.
func NewMember(seed TeamMember, id int64, n int) TeamMember {
	seed.ID = id
	seed.Name = orDefault(seed.Name, fmt.Sprintf("Team Member %d", n))
	seed.Position = orDefault(seed.Position, "Position")
	seed.Bio = orDefault(seed.Bio, "Short bio here...")
	return seed.Normalize()
}

// NewValue builds the nth core value.
func NewValue(seed ValueItem, id int64, n int) ValueItem {
	seed.ID = id
	seed.Title = orDefault(seed.Title, fmt.Sprintf("Core Value %d", n))
	seed.Description = orDefault(seed.Description, "Value description here...")
	seed.Icon = orDefault(seed.Icon, "⭐")
	return seed.Normalize()
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
