package bcasweb

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/AguayoD/bcasweb/content"
	"github.com/AguayoD/bcasweb/storage"
)

// Storage keys. The layout matches what the browser edition of the site kept
// in localStorage, so exported data can be imported unchanged.
const (
	KeyNews      = "schoolNews"
	KeyEvents    = "schoolEvents"
	KeyHero      = "schoolHero"
	KeyAboutHero = "schoolAboutHero"
	KeySections  = "schoolAboutSections"
	KeyTeam      = "schoolTeamMembers"
	KeyValues    = "schoolAboutValues"
)

var (
	// ErrUnknownHero is returned for a banner name other than home or about.
	ErrUnknownHero = errors.New("unknown hero")
	// ErrNoImagePosition is returned when positioning an entity kind that
	// has no imagePosition field.
	ErrNoImagePosition = errors.New("entity has no image position")
	// ErrNoImage is returned when attaching an image to a kind without one.
	ErrNoImage = errors.New("entity has no image")
)

// Content is a complete copy of every collection and banner.
type Content struct {
	Hero      content.HeroSettings   `json:"hero"`
	AboutHero content.HeroSettings   `json:"aboutHero"`
	News      []content.NewsItem     `json:"news"`
	Events    []content.EventItem    `json:"events"`
	Sections  []content.AboutSection `json:"sections"`
	Team      []content.TeamMember   `json:"team"`
	Values    []content.ValueItem    `json:"values"`
}

// DefaultContent is the state of a site that has never been edited.
func DefaultContent() Content {
	return Content{
		Hero:      content.DefaultHero(content.HomeHero),
		AboutHero: content.DefaultHero(content.AboutHero),
		News:      []content.NewsItem{},
		Events:    []content.EventItem{},
		Sections:  []content.AboutSection{},
		Team:      []content.TeamMember{},
		Values:    []content.ValueItem{},
	}
}

// clone copies every collection so the result can be modified freely.
// Image blobs are immutable strings and are shared.
func (c Content) clone() Content {
	c.News = append([]content.NewsItem{}, c.News...)
	c.Events = append([]content.EventItem{}, c.Events...)
	c.Sections = append([]content.AboutSection{}, c.Sections...)
	c.Team = append([]content.TeamMember{}, c.Team...)
	c.Values = append([]content.ValueItem{}, c.Values...)
	return c
}

// normalized runs every entity through its schema defaults.
func (c Content) normalized() Content {
	c = c.clone()
	c.Hero = c.Hero.Normalize()
	c.AboutHero = c.AboutHero.Normalize()
	for i := range c.News {
		c.News[i] = c.News[i].Normalize()
	}
	for i := range c.Events {
		c.Events[i] = c.Events[i].Normalize()
	}
	for i := range c.Sections {
		c.Sections[i] = c.Sections[i].Normalize()
	}
	for i := range c.Team {
		c.Team[i] = c.Team[i].Normalize()
	}
	for i := range c.Values {
		c.Values[i] = c.Values[i].Normalize()
	}
	return c
}

func (c *Content) hero(h content.Hero) *content.HeroSettings {
	switch h {
	case content.HomeHero:
		return &c.Hero
	case content.AboutHero:
		return &c.AboutHero
	}
	return nil
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger sets the logger used to report discarded records.
func WithLogger(l zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// WithClock replaces the wall clock used for ids and creation dates.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// Store is the single source of truth for site content. It loads every
// record once at construction and writes all of them back after each
// mutation. Every mutation is applied to a copy that replaces the live state
// only after it was persisted, so memory never runs ahead of storage.
type Store struct {
	mu        sync.RWMutex
	backend   storage.Backend
	state     Content
	ids       *IDSource
	now       func() time.Time
	log       zerolog.Logger
	listeners []func()
}

// NewStore builds a store over backend and loads its content.
func NewStore(backend storage.Backend, opts ...StoreOption) (*Store, error) {
	s := &Store{
		backend: backend,
		now:     time.Now,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ids = NewIDSource(s.now)
	if err := s.Load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the storage backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// Load replaces the in-memory state with what the backend holds. Missing
// records become defaults; records that do not decode are logged and
// replaced by defaults. Only backend I/O failures are returned.
func (s *Store) Load() error {
	def := DefaultContent()
	var (
		c   Content
		err error
	)
	if c.News, err = loadCollection(s, KeyNews, def.News); err != nil {
		return err
	}
	if c.Events, err = loadCollection(s, KeyEvents, def.Events); err != nil {
		return err
	}
	if c.Hero, err = loadRecord(s, KeyHero, def.Hero); err != nil {
		return err
	}
	if c.AboutHero, err = loadRecord(s, KeyAboutHero, def.AboutHero); err != nil {
		return err
	}
	if c.Sections, err = loadCollection(s, KeySections, def.Sections); err != nil {
		return err
	}
	if c.Team, err = loadCollection(s, KeyTeam, def.Team); err != nil {
		return err
	}
	if c.Values, err = loadCollection(s, KeyValues, def.Values); err != nil {
		return err
	}

	s.mu.Lock()
	s.state = c.normalized()
	s.mu.Unlock()
	return nil
}

func loadRecord[T any](s *Store, key string, fallback T) (T, error) {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		return fallback, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return fallback, nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		s.log.Warn().Str("key", key).Msg("discarding null record")
		return fallback, nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("discarding malformed record")
		return fallback, nil
	}
	return v, nil
}

// loadCollection decodes a collection record. A null element, a missing id
// or a repeated id makes the whole record malformed.
func loadCollection[T entity](s *Store, key string, fallback []T) ([]T, error) {
	ptrs, err := loadRecord[[]*T](s, key, nil)
	if err != nil || ptrs == nil {
		return fallback, err
	}
	items := make([]T, 0, len(ptrs))
	seen := make(map[int64]bool, len(ptrs))
	for i, p := range ptrs {
		if p == nil {
			s.log.Warn().Str("key", key).Int("index", i).Msg("discarding record with a null entry")
			return fallback, nil
		}
		id := (*p).EntityID()
		if id <= 0 || seen[id] {
			s.log.Warn().Str("key", key).Int("index", i).Int64("id", id).Msg("discarding record with a missing or repeated id")
			return fallback, nil
		}
		seen[id] = true
		items = append(items, *p)
	}
	return items, nil
}

// Save writes every record of the current state.
func (s *Store) Save() error {
	s.mu.RLock()
	c := s.state
	s.mu.RUnlock()
	return s.persist(c)
}

func (s *Store) persist(c Content) error {
	records := make(map[string][]byte, 7)
	for key, v := range map[string]any{
		KeyNews:      c.News,
		KeyEvents:    c.Events,
		KeyHero:      c.Hero,
		KeyAboutHero: c.AboutHero,
		KeySections:  c.Sections,
		KeyTeam:      c.Team,
		KeyValues:    c.Values,
	} {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		records[key] = b
	}
	if err := storage.SetAll(s.backend, records); err != nil {
		return fmt.Errorf("save content: %w", err)
	}
	return nil
}

// OnChange registers fn to run after every committed mutation.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Snapshot returns a copy of the current content for read-only use.
func (s *Store) Snapshot() Content {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Replace normalizes c, persists it and makes it the live state. It backs
// the import command.
func (s *Store) Replace(c Content) error {
	def := DefaultContent()
	if c.News == nil {
		c.News = def.News
	}
	if c.Events == nil {
		c.Events = def.Events
	}
	if c.Sections == nil {
		c.Sections = def.Sections
	}
	if c.Team == nil {
		c.Team = def.Team
	}
	if c.Values == nil {
		c.Values = def.Values
	}
	next := c.normalized()
	return s.mutate(func(cur *Content) bool {
		*cur = next
		return true
	})
}

// mutate applies fn to a copy of the state. When fn reports a change the copy
// is persisted and then committed; otherwise nothing is written.
func (s *Store) mutate(fn func(*Content) bool) error {
	s.mu.Lock()
	next := s.state.clone()
	if !fn(&next) {
		s.mu.Unlock()
		return nil
	}
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.state = next
	listeners := s.listeners
	s.mu.Unlock()

	for _, l := range listeners {
		l()
	}
	return nil
}

type entity interface{ EntityID() int64 }

func indexOf[T entity](items []T, id int64) int {
	for i, it := range items {
		if it.EntityID() == id {
			return i
		}
	}
	return -1
}

func maxID[T entity](items []T) int64 {
	var m int64
	for _, it := range items {
		if id := it.EntityID(); id > m {
			m = id
		}
	}
	return m
}

func remove[T entity](items []T, id int64) ([]T, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return items, false
	}
	return append(items[:i], items[i+1:]...), true
}

// AddNews appends a news item built from seed.
func (s *Store) AddNews(seed content.NewsItem) (content.NewsItem, error) {
	var added content.NewsItem
	err := s.mutate(func(c *Content) bool {
		added = content.NewNews(seed, s.ids.Next(maxID(c.News)), len(c.News)+1, s.now())
		c.News = append(c.News, added)
		return true
	})
	return added, err
}

// UpdateNews changes one field of the news item with id. Unknown ids are
// ignored.
func (s *Store) UpdateNews(id int64, u content.NewsUpdate) error {
	return s.mutate(func(c *Content) bool {
		i := indexOf(c.News, id)
		if i < 0 || u == nil {
			return false
		}
		c.News[i] = c.News[i].Apply(u)
		return true
	})
}

// RemoveNews deletes the news item with id if present.
func (s *Store) RemoveNews(id int64) error {
	return s.mutate(func(c *Content) (ok bool) {
		c.News, ok = remove(c.News, id)
		return ok
	})
}

// AddEvent appends an event built from seed.
func (s *Store) AddEvent(seed content.EventItem) (content.EventItem, error) {
	var added content.EventItem
	err := s.mutate(func(c *Content) bool {
		added = content.NewEvent(seed, s.ids.Next(maxID(c.Events)), len(c.Events)+1, s.now())
		c.Events = append(c.Events, added)
		return true
	})
	return added, err
}

// UpdateEvent changes one field of the event with id.
func (s *Store) UpdateEvent(id int64, u content.EventUpdate) error {
	return s.mutate(func(c *Content) bool {
		i := indexOf(c.Events, id)
		if i < 0 || u == nil {
			return false
		}
		c.Events[i] = c.Events[i].Apply(u)
		return true
	})
}

// RemoveEvent deletes the event with id if present.
func (s *Store) RemoveEvent(id int64) error {
	return s.mutate(func(c *Content) (ok bool) {
		c.Events, ok = remove(c.Events, id)
		return ok
	})
}

// AddSection appends an about section built from seed.
func (s *Store) AddSection(seed content.AboutSection) (content.AboutSection, error) {
	var added content.AboutSection
	err := s.mutate(func(c *Content) bool {
		added = content.NewSection(seed, s.ids.Next(maxID(c.Sections)), len(c.Sections)+1)
		c.Sections = append(c.Sections, added)
		return true
	})
	return added, err
}

// UpdateSection changes one field of the section with id.
func (s *Store) UpdateSection(id int64, u content.SectionUpdate) error {
	return s.mutate(func(c *Content) bool {
		i := indexOf(c.Sections, id)
		if i < 0 || u == nil {
			return false
		}
		c.Sections[i] = c.Sections[i].Apply(u)
		return true
	})
}

// RemoveSection deletes the section with id if present.
func (s *Store) RemoveSection(id int64) error {
	return s.mutate(func(c *Content) (ok bool) {
		c.Sections, ok = remove(c.Sections, id)
		return ok
	})
}

// AddMember appends a team member built from seed.
func (s *Store) AddMember(seed content.TeamMember) (content.TeamMember, error) {
	var added content.TeamMember
	err := s.mutate(func(c *Content) bool {
		added = content.NewMember(seed, s.ids.Next(maxID(c.Team)), len(c.Team)+1)
		c.Team = append(c.Team, added)
		return true
	})
	return added, err
}

// UpdateMember changes one field of the team member with id.
func (s *Store) UpdateMember(id int64, u content.MemberUpdate) error {
	return s.mutate(func(c *Content) bool {
		i := indexOf(c.Team, id)
		if i < 0 || u == nil {
			return false
		}
		c.Team[i] = c.Team[i].Apply(u)
		return true
	})
}

// RemoveMember deletes the team member with id if present.
func (s *Store) RemoveMember(id int64) error {
	return s.mutate(func(c *Content) (ok bool) {
		c.Team, ok = remove(c.Team, id)
		return ok
	})
}

// AddValue appends a core value built from seed.
func (s *Store) AddValue(seed content.ValueItem) (content.ValueItem, error) {
	var added content.ValueItem
	err := s.mutate(func(c *Content) bool {
		added = content.NewValue(seed, s.ids.Next(maxID(c.Values)), len(c.Values)+1)
		c.Values = append(c.Values, added)
		return true
	})
	return added, err
}

// UpdateValue changes one field of the core value with id.
func (s *Store) UpdateValue(id int64, u content.ValueUpdate) error {
	return s.mutate(func(c *Content) bool {
		i := indexOf(c.Values, id)
		if i < 0 || u == nil {
			return false
		}
		c.Values[i] = c.Values[i].Apply(u)
		return true
	})
}

// RemoveValue deletes the core value with id if present.
func (s *Store) RemoveValue(id int64) error {
	return s.mutate(func(c *Content) (ok bool) {
		c.Values, ok = remove(c.Values, id)
		return ok
	})
}

// Hero returns the current settings of banner h.
func (s *Store) Hero(h content.Hero) (content.HeroSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.state
	p := c.hero(h)
	if p == nil {
		return content.HeroSettings{}, fmt.Errorf("%w: %q", ErrUnknownHero, h)
	}
	return *p, nil
}

// UpdateHero changes one text field of banner h.
func (s *Store) UpdateHero(h content.Hero, u content.HeroUpdate) error {
	if !h.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownHero, h)
	}
	return s.mutate(func(c *Content) bool {
		if u == nil {
			return false
		}
		p := c.hero(h)
		*p = p.Apply(u)
		return true
	})
}

// ResetHero restores banner h to its default, dropping any image.
func (s *Store) ResetHero(h content.Hero) error {
	if !h.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownHero, h)
	}
	return s.mutate(func(c *Content) bool {
		*c.hero(h) = content.DefaultHero(h)
		return true
	})
}

// ImagePosition returns the stored position of the entity ref points at.
// ok is false when the entity does not exist or has no position.
func (s *Store) ImagePosition(ref Ref) (pos content.ImagePosition, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.state
	_, p, found, err := c.imageFields(ref)
	if err != nil || !found || p == nil {
		return content.ImagePosition{}, false
	}
	return *p, true
}

// HasImage reports whether the entity ref points at currently has an image.
func (s *Store) HasImage(ref Ref) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := s.state
	img, _, found, err := c.imageFields(ref)
	return err == nil && found && *img != ""
}

// SetImagePosition clamps pos and stores it on the entity ref points at. The
// position is stored even when the entity has no image yet.
func (s *Store) SetImagePosition(ref Ref, pos content.ImagePosition) error {
	if !ref.Kind.HasPosition() {
		return fmt.Errorf("%w: %s", ErrNoImagePosition, ref.Kind)
	}
	pos = pos.Clamp()
	return s.mutate(func(c *Content) bool {
		_, p, found, err := c.imageFields(ref)
		if err != nil || !found {
			return false
		}
		*p = pos
		return true
	})
}

// AttachImage stores blob as the entity's image. Entities with a position
// get the default one back. An empty blob detaches the image.
func (s *Store) AttachImage(ref Ref, blob string) error {
	if blob == "" {
		return s.DetachImage(ref)
	}
	if !ref.Kind.HasImage() {
		return fmt.Errorf("%w: %s", ErrNoImage, ref.Kind)
	}
	return s.mutate(func(c *Content) bool {
		img, p, found, err := c.imageFields(ref)
		if err != nil || !found {
			return false
		}
		*img = blob
		if p != nil {
			*p = content.DefaultPosition()
		}
		return true
	})
}

// DetachImage clears the entity's image.
func (s *Store) DetachImage(ref Ref) error {
	if !ref.Kind.HasImage() {
		return fmt.Errorf("%w: %s", ErrNoImage, ref.Kind)
	}
	return s.mutate(func(c *Content) bool {
		img, _, found, err := c.imageFields(ref)
		if err != nil || !found || *img == "" {
			return false
		}
		*img = ""
		return true
	})
}
