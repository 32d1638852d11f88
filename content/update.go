package content

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownField is returned when a form field name does not map to any
// update variant of the entity.
var ErrUnknownField = errors.New("content: unknown field")

// Each entity has a closed set of update variants, one named type per
// mutable field. Applying a variant replaces exactly that field.

// NewsUpdate changes one field of a NewsItem.
type NewsUpdate interface{ applyNews(*NewsItem) }

type (
	NewsTitle   string
	NewsContent string
	NewsDate    string
	NewsImage   string
)

func (v NewsTitle) applyNews(n *NewsItem)   { n.Title = string(v) }
func (v NewsContent) applyNews(n *NewsItem) { n.Content = string(v) }
func (v NewsDate) applyNews(n *NewsItem)    { n.Date = string(v) }
func (v NewsImage) applyNews(n *NewsItem)   { n.Image = string(v) }

// EventUpdate changes one field of an EventItem.
type EventUpdate interface{ applyEvent(*EventItem) }

type (
	EventTitle       string
	EventDescription string
	EventDate        string
	EventLocation    string
	EventImage       string
)

func (v EventTitle) applyEvent(e *EventItem)       { e.Title = string(v) }
func (v EventDescription) applyEvent(e *EventItem) { e.Description = string(v) }
func (v EventDate) applyEvent(e *EventItem)        { e.Date = string(v) }
func (v EventLocation) applyEvent(e *EventItem)    { e.Location = string(v) }
func (v EventImage) applyEvent(e *EventItem)       { e.Image = string(v) }

// HeroUpdate changes one text field of a banner. Images and positions go
// through the store's image operations instead.
type HeroUpdate interface{ applyHero(*HeroSettings) }

type (
	HeroTitle    string
	HeroSubtitle string
)

func (v HeroTitle) applyHero(h *HeroSettings)    { h.Title = string(v) }
func (v HeroSubtitle) applyHero(h *HeroSettings) { h.Subtitle = string(v) }

// SectionUpdate changes one field of an AboutSection.
type SectionUpdate interface{ applySection(*AboutSection) }

type (
	SectionTitle   string
	SectionContent string
	SectionReverse bool
)

func (v SectionTitle) applySection(s *AboutSection)   { s.Title = string(v) }
func (v SectionContent) applySection(s *AboutSection) { s.Content = string(v) }
func (v SectionReverse) applySection(s *AboutSection) { s.ReverseLayout = bool(v) }

// MemberUpdate changes one field of a TeamMember.
type MemberUpdate interface{ applyMember(*TeamMember) }

type (
	MemberName     string
	MemberPosition string
	MemberBio      string
	MemberImage    string
)

func (v MemberName) applyMember(m *TeamMember)     { m.Name = string(v) }
func (v MemberPosition) applyMember(m *TeamMember) { m.Position = string(v) }
func (v MemberBio) applyMember(m *TeamMember)      { m.Bio = string(v) }
func (v MemberImage) applyMember(m *TeamMember)    { m.Image = string(v) }

// ValueUpdate changes one field of a ValueItem.
type ValueUpdate interface{ applyValue(*ValueItem) }

type (
	ValueTitle       string
	ValueDescription string
	ValueIcon        string
)

func (v ValueTitle) applyValue(x *ValueItem)       { x.Title = string(v) }
func (v ValueDescription) applyValue(x *ValueItem) { x.Description = string(v) }
func (v ValueIcon) applyValue(x *ValueItem)        { x.Icon = string(v) }

// Apply returns a copy of the news item with u applied.
func (n NewsItem) Apply(u NewsUpdate) NewsItem {
	u.applyNews(&n)
	return n
}

// Apply returns a copy of the event with u applied.
func (e EventItem) Apply(u EventUpdate) EventItem {
	u.applyEvent(&e)
	return e
}

// Apply returns a copy of the banner with u applied.
func (h HeroSettings) Apply(u HeroUpdate) HeroSettings {
	u.applyHero(&h)
	return h
}

// Apply returns a copy of the section with u applied.
func (s AboutSection) Apply(u SectionUpdate) AboutSection {
	u.applySection(&s)
	return s
}

// Apply returns a copy of the team member with u applied.
func (m TeamMember) Apply(u MemberUpdate) TeamMember {
	u.applyMember(&m)
	return m
}

// Apply returns a copy of the value with u applied.
func (v ValueItem) Apply(u ValueUpdate) ValueItem {
	u.applyValue(&v)
	return v
}

// ParseNewsField maps an admin form field to its update variant.
func ParseNewsField(name, value string) (NewsUpdate, error) {
	switch name {
	case "title":
		return NewsTitle(value), nil
	case "content":
		return NewsContent(value), nil
	case "date":
		return NewsDate(value), nil
	}
	return nil, fmt.Errorf("%w: news %q", ErrUnknownField, name)
}

// ParseEventField maps an admin form field to its update variant.
func ParseEventField(name, value string) (EventUpdate, error) {
	switch name {
	case "title":
		return EventTitle(value), nil
	case "description":
		return EventDescription(value), nil
	case "date":
		return EventDate(value), nil
	case "location":
		return EventLocation(value), nil
	}
	return nil, fmt.Errorf("%w: event %q", ErrUnknownField, name)
}

// ParseHeroField maps an admin form field to its update variant.
func ParseHeroField(name, value string) (HeroUpdate, error) {
	switch name {
	case "title":
		return HeroTitle(value), nil
	case "subtitle":
		return HeroSubtitle(value), nil
	}
	return nil, fmt.Errorf("%w: hero %q", ErrUnknownField, name)
}

// ParseSectionField maps an admin form field to its update variant. The
// reverse flag accepts the values strconv.ParseBool understands.
func ParseSectionField(name, value string) (SectionUpdate, error) {
	switch name {
	case "title":
		return SectionTitle(value), nil
	case "content":
		return SectionContent(value), nil
	case "reverseLayout":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("section reverseLayout: %w", err)
		}
		return SectionReverse(b), nil
	}
	return nil, fmt.Errorf("%w: section %q", ErrUnknownField, name)
}

// ParseMemberField maps an admin form field to its update variant.
func ParseMemberField(name, value string) (MemberUpdate, error) {
	switch name {
	case "name":
		return MemberName(value), nil
	case "position":
		return MemberPosition(value), nil
	case "bio":
		return MemberBio(value), nil
	}
	return nil, fmt.Errorf("%w: member %q", ErrUnknownField, name)
}

// ParseValueField maps an admin form field to its update variant.
func ParseValueField(name, value string) (ValueUpdate, error) {
	switch name {
	case "title":
		return ValueTitle(value), nil
	case "description":
		return ValueDescription(value), nil
	case "icon":
		return ValueIcon(value), nil
	}
	return nil, fmt.Errorf("%w: value %q", ErrUnknownField, name)
}
