package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllowWithinWindow(t *testing.T) {
	l := NewLimiter(2, time.Minute)
	defer l.Stop()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }

	assert.True(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))
	assert.True(t, l.Allow("10.0.0.2"), "keys are limited independently")

	l.now = func() time.Time { return base.Add(61 * time.Second) }
	assert.True(t, l.Allow("10.0.0.1"), "window slides")
}

func TestAllowUnlimited(t *testing.T) {
	l := NewLimiter(0, time.Minute)
	defer l.Stop()
	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("10.0.0.1"))
	}

	l2 := NewLimiter(1, time.Minute)
	defer l2.Stop()
	assert.True(t, l2.Allow(""))
	assert.True(t, l2.Allow(""))
}

func TestEvictIdle(t *testing.T) {
	l := NewLimiter(1, time.Minute)
	defer l.Stop()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return base }
	l.Allow("10.0.0.1")

	l.evictIdle(base.Add(time.Second))
	l.mu.Lock()
	n := len(l.buckets)
	l.mu.Unlock()
	assert.Zero(t, n)
}
