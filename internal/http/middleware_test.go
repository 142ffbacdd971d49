package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIPRateLimiterSweepsOncePerWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	l := newIPRateLimiter(5, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	now = now.Add(30 * time.Second)
	assert.True(t, l.allow("10.0.0.2"))
	assert.Len(t, l.limiters, 2)

	now = now.Add(45 * time.Second)
	assert.True(t, l.allow("10.0.0.3"))
	assert.Len(t, l.limiters, 2, "10.0.0.1 was idle for more than a window")
	assert.NotContains(t, l.limiters, "10.0.0.1")

	now = now.Add(50 * time.Second)
	assert.True(t, l.allow("10.0.0.4"))
	assert.Len(t, l.limiters, 3, "no sweep until a full window after the previous one")
}

func TestIPRateLimiterRefillsAfterWindow(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	l := newIPRateLimiter(1, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("10.0.0.1"))
	assert.False(t, l.allow("10.0.0.1"))

	now = now.Add(61 * time.Second)
	assert.True(t, l.allow("10.0.0.1"), "bucket refilled after a window")
}
