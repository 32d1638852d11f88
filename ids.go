package bcasweb

import (
	"sync"
	"time"
)

// IDSource hands out entity ids derived from the wall clock in milliseconds.
// Two ids requested within the same millisecond, or after the clock moved
// backwards, still come out strictly increasing, so sorting by id sorts by
// creation order.
type IDSource struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewIDSource returns a source reading time from now.
func NewIDSource(now func() time.Time) *IDSource {
	if now == nil {
		now = time.Now
	}
	return &IDSource{now: now}
}

// Next returns an id greater than every id previously returned and greater
// than floor, the largest id already held by the target collection.
func (g *IDSource) Next(floor int64) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	if id <= floor {
		id = floor + 1
	}
	g.last = id
	return id
}
