package bcasweb

import (
	"fmt"
	"strconv"

	"github.com/AguayoD/bcasweb/content"
)

// Kind names an entity type that can carry an image.
type Kind string

const (
	KindHero      Kind = "hero"
	KindAboutHero Kind = "about-hero"
	KindNews      Kind = "news"
	KindEvent     Kind = "event"
	KindSection   Kind = "section"
	KindMember    Kind = "member"
	KindValue     Kind = "value"
)

// ErrUnknownKind is returned by ParseRef for an unrecognised kind.
var ErrUnknownKind = fmt.Errorf("unknown entity kind")

// HasImage reports whether entities of kind k carry an image.
func (k Kind) HasImage() bool {
	switch k {
	case KindHero, KindAboutHero, KindNews, KindEvent, KindSection, KindMember:
		return true
	}
	return false
}

// HasPosition reports whether entities of kind k carry an imagePosition.
func (k Kind) HasPosition() bool {
	switch k {
	case KindHero, KindAboutHero, KindSection:
		return true
	}
	return false
}

// IsHero reports whether k addresses a singleton banner.
func (k Kind) IsHero() bool {
	return k == KindHero || k == KindAboutHero
}

// Ref addresses one entity: a banner by kind alone, anything else by kind
// and id.
type Ref struct {
	Kind Kind
	ID   int64
}

// HeroRef returns the reference of banner h.
func HeroRef(h content.Hero) Ref {
	if h == content.AboutHero {
		return Ref{Kind: KindAboutHero}
	}
	return Ref{Kind: KindHero}
}

// ParseRef builds a Ref from URL parameters. id is ignored for banners.
func ParseRef(kind, id string) (Ref, error) {
	k := Kind(kind)
	switch k {
	case KindHero, KindAboutHero:
		return Ref{Kind: k}, nil
	case KindNews, KindEvent, KindSection, KindMember, KindValue:
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return Ref{}, fmt.Errorf("invalid %s id %q: %w", k, id, err)
		}
		return Ref{Kind: k, ID: n}, nil
	}
	return Ref{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

func (r Ref) String() string {
	if r.Kind.IsHero() {
		return string(r.Kind)
	}
	return string(r.Kind) + "/" + strconv.FormatInt(r.ID, 10)
}

// imageFields returns pointers to the image and position fields of the entity
// r addresses. pos is nil for kinds without a position; found is false when
// no entity has the id.
func (c *Content) imageFields(r Ref) (img *string, pos *content.ImagePosition, found bool, err error) {
	switch r.Kind {
	case KindHero:
		return &c.Hero.Image, &c.Hero.ImagePosition, true, nil
	case KindAboutHero:
		return &c.AboutHero.Image, &c.AboutHero.ImagePosition, true, nil
	case KindNews:
		if i := indexOf(c.News, r.ID); i >= 0 {
			return &c.News[i].Image, nil, true, nil
		}
	case KindEvent:
		if i := indexOf(c.Events, r.ID); i >= 0 {
			return &c.Events[i].Image, nil, true, nil
		}
	case KindSection:
		if i := indexOf(c.Sections, r.ID); i >= 0 {
			return &c.Sections[i].Image, &c.Sections[i].ImagePosition, true, nil
		}
	case KindMember:
		if i := indexOf(c.Team, r.ID); i >= 0 {
			return &c.Team[i].Image, nil, true, nil
		}
	default:
		return nil, nil, false, fmt.Errorf("%w: %q", ErrNoImage, r.Kind)
	}
	return nil, nil, false, nil
}
