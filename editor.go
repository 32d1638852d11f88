package bcasweb

import (
	"errors"
	"fmt"
	"sync"

	"github.com/AguayoD/bcasweb/content"
)

// Tab is a section of the admin dashboard.
type Tab string

const (
	TabHero   Tab = "hero"
	TabNews   Tab = "news"
	TabEvents Tab = "events"
	TabAbout  Tab = "about"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []Tab{TabHero, TabNews, TabEvents, TabAbout}

var (
	// ErrUnknownTab is returned by ParseTab for a name outside Tabs.
	ErrUnknownTab = errors.New("unknown tab")
	// ErrEditorClosed is returned by position changes while no position
	// editor is open.
	ErrEditorClosed = errors.New("position editor is not open")
)

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTab, s)
}

// Editor holds the dashboard's UI state (selected tab and the interactive
// position editor) and funnels every change into the Store. Position changes
// are written through immediately so the preview always shows stored state;
// there is no separate commit step.
type Editor struct {
	store *Store

	mu     sync.Mutex
	tab    Tab
	open   bool
	target Ref
}

// NewEditor returns an editor on the hero tab with the position editor
// closed.
func NewEditor(s *Store) *Editor {
	return &Editor{store: s, tab: TabHero}
}

// Store returns the store the editor writes to.
func (e *Editor) Store() *Store { return e.store }

// Tab returns the selected tab.
func (e *Editor) Tab() Tab {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tab
}

// SelectTab switches tabs and closes any open position editor.
func (e *Editor) SelectTab(t Tab) error {
	if _, err := ParseTab(string(t)); err != nil {
		return err
	}
	e.mu.Lock()
	e.tab = t
	e.open = false
	e.target = Ref{}
	e.mu.Unlock()
	return nil
}

// OpenPositionEditor starts adjusting the image of ref.
func (e *Editor) OpenPositionEditor(ref Ref) error {
	if !ref.Kind.HasPosition() {
		return fmt.Errorf("%w: %s", ErrNoImagePosition, ref.Kind)
	}
	e.mu.Lock()
	e.open = true
	e.target = ref
	e.mu.Unlock()
	return nil
}

// IsPositionEditorOpen reports whether a position editor is open.
func (e *Editor) IsPositionEditorOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// PositionTarget returns the entity being positioned; ok is false when the
// editor is closed.
func (e *Editor) PositionTarget() (ref Ref, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target, e.open
}

// Done closes the position editor. The position was already stored.
func (e *Editor) Done() {
	e.mu.Lock()
	e.open = false
	e.target = Ref{}
	e.mu.Unlock()
}

// current returns the open target and its stored position.
func (e *Editor) current() (Ref, content.ImagePosition, error) {
	ref, ok := e.PositionTarget()
	if !ok {
		return Ref{}, content.ImagePosition{}, ErrEditorClosed
	}
	pos, found := e.store.ImagePosition(ref)
	if !found {
		pos = content.DefaultPosition()
	}
	return ref, pos, nil
}

func (e *Editor) write(change func(p content.ImagePosition) content.ImagePosition) error {
	ref, pos, err := e.current()
	if err != nil {
		return err
	}
	return e.store.SetImagePosition(ref, change(pos))
}

// SetPosition replaces the whole position of the open target.
func (e *Editor) SetPosition(p content.ImagePosition) error {
	return e.write(func(content.ImagePosition) content.ImagePosition { return p })
}

// SetX sets the horizontal focus percentage.
func (e *Editor) SetX(x float64) error {
	return e.write(func(p content.ImagePosition) content.ImagePosition {
		p.X = x
		return p
	})
}

// SetY sets the vertical focus percentage.
func (e *Editor) SetY(y float64) error {
	return e.write(func(p content.ImagePosition) content.ImagePosition {
		p.Y = y
		return p
	})
}

// SetScale sets the zoom factor. Values outside the allowed range are
// clamped by the store.
func (e *Editor) SetScale(scale float64) error {
	return e.write(func(p content.ImagePosition) content.ImagePosition {
		p.Scale = scale
		return p
	})
}

// ZoomBy adds delta to the zoom factor.
func (e *Editor) ZoomBy(delta float64) error {
	return e.write(func(p content.ImagePosition) content.ImagePosition {
		p.Scale += delta
		return p
	})
}

// DragBy moves the focus point after the pointer travelled dx, dy pixels
// over a preview box of width x height pixels. Dragging the picture right
// reveals more of its left side, so the focus moves the opposite way.
func (e *Editor) DragBy(dx, dy, width, height float64) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	return e.write(func(p content.ImagePosition) content.ImagePosition {
		p.X -= dx / width * 100
		p.Y -= dy / height * 100
		return p
	})
}

// ResetToCenter stores the default position for the open target.
func (e *Editor) ResetToCenter() error {
	return e.SetPosition(content.DefaultPosition())
}

// AttachImage sets a new image on ref; its position starts from the default.
// An empty blob detaches the image.
func (e *Editor) AttachImage(ref Ref, blob string) error {
	if blob == "" {
		return e.DetachImage(ref)
	}
	return e.store.AttachImage(ref, blob)
}

// DetachImage removes the image of ref. Removing a banner image also closes
// a position editor open on that banner.
func (e *Editor) DetachImage(ref Ref) error {
	if err := e.store.DetachImage(ref); err != nil {
		return err
	}
	if ref.Kind.IsHero() {
		e.mu.Lock()
		if e.open && e.target == ref {
			e.open = false
			e.target = Ref{}
		}
		e.mu.Unlock()
	}
	return nil
}
