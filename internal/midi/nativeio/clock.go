package nativeio

import (
	"sync"
	"time"
)

// DeltaClock turns arrival times into the seconds elapsed since the previous
// message on the same port. The first message after Reset reports zero.
type DeltaClock struct {
	mu   sync.Mutex
	last time.Duration
	seen bool
}

// Tick records a message that arrived at t, measured from any fixed origin.
func (c *DeltaClock) Tick(t time.Duration) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var d time.Duration
	if c.seen && t > c.last {
		d = t - c.last
	}
	c.last, c.seen = t, true
	return d.Seconds()
}

// Reset forgets the previous message, typically when a port is reopened.
func (c *DeltaClock) Reset() {
	c.mu.Lock()
	c.seen = false
	c.last = 0
	c.mu.Unlock()
}
