package bcasweb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*loginLimiter, *time.Time) {
	t.Helper()
	l := newLoginLimiter(max, window)
	t.Cleanup(l.Stop)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLoginLimiterBlocksAfterMax(t *testing.T) {
	l, _ := newTestLimiter(t, 2, time.Minute)
	ip := "203.0.113.10"

	assert.True(t, l.Check(ip))
	l.Record(ip)
	assert.True(t, l.Check(ip))
	l.Record(ip)
	assert.False(t, l.Check(ip), "third attempt should be blocked")
}

func TestLoginLimiterResetsAfterWindow(t *testing.T) {
	l, now := newTestLimiter(t, 1, time.Minute)
	ip := "203.0.113.20"

	l.Record(ip)
	assert.False(t, l.Check(ip))

	*now = now.Add(61 * time.Second)
	assert.True(t, l.Check(ip), "attempt after the window should be allowed")
}

func TestLoginLimiterIsPerIP(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)

	l.Record("203.0.113.30")
	assert.True(t, l.Check("203.0.113.31"))
	assert.False(t, l.Check("203.0.113.30"))
}

func TestLoginLimiterResetAndPrune(t *testing.T) {
	l, now := newTestLimiter(t, 1, time.Minute)

	l.Record("203.0.113.40")
	l.Reset("203.0.113.40")
	assert.True(t, l.Check("203.0.113.40"))

	l.Record("203.0.113.41")
	*now = now.Add(2 * time.Minute)
	l.prune()
	l.mu.Lock()
	_, kept := l.attempts["203.0.113.41"]
	l.mu.Unlock()
	assert.False(t, kept)
}
